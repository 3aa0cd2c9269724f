package user

import (
	"fmt"
	"strings"
	"time"
)

// User is a registered account holder.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID string
	Email  string
	Name   string
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("user password hash is required")
	}

	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
