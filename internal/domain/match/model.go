package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Winner identifies the side that took a finished match.
type Winner string

const (
	WinnerHome    Winner = "HOME"
	WinnerAway    Winner = "AWAY"
	WinnerDraw    Winner = "DRAW"
	WinnerUnknown Winner = "UNKNOWN"
)

// Venue is the side a given team plays a match from.
type Venue string

const (
	VenueHome Venue = "HOME"
	VenueAway Venue = "AWAY"
)

// Match is one scheduled or played game between two teams.
// Winner stays WinnerUnknown until the match has finished. Scores may be
// nil even on a finished match when the upstream feed never delivered them.
type Match struct {
	ID            string
	CompetitionID string
	HomeTeamID    string
	AwayTeamID    string
	KickoffAt     time.Time
	HomeScore     *int
	AwayScore     *int
	Winner        Winner
	Status        string
}

func (m Match) Finished() bool {
	return IsFinishedStatus(m.Status)
}

// VenueFor resolves home/away by team id comparison, never by a stored flag.
func (m Match) VenueFor(teamID string) Venue {
	if m.HomeTeamID == teamID {
		return VenueHome
	}
	return VenueAway
}

// OpponentOf returns the other side of the match relative to teamID.
func (m Match) OpponentOf(teamID string) string {
	if m.HomeTeamID == teamID {
		return m.AwayTeamID
	}
	return m.HomeTeamID
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}

func NormalizeWinner(value string) Winner {
	switch Winner(strings.ToUpper(strings.TrimSpace(value))) {
	case WinnerHome, WinnerAway, WinnerDraw:
		return Winner(strings.ToUpper(strings.TrimSpace(value)))
	default:
		return WinnerUnknown
	}
}

// WinnerFromScores derives the winner for a finished match when the feed
// delivered scores but no explicit outcome.
func WinnerFromScores(homeScore, awayScore *int) Winner {
	if homeScore == nil || awayScore == nil {
		return WinnerUnknown
	}
	switch {
	case *homeScore > *awayScore:
		return WinnerHome
	case *homeScore < *awayScore:
		return WinnerAway
	default:
		return WinnerDraw
	}
}
