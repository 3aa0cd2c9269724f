package team

import "fmt"

// Team is a club competing in the tracked competition.
type Team struct {
	ID    string
	Name  string
	Short string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
