package analytics

import (
	"time"

	"github.com/matchpulse/api/internal/domain/match"
)

// TrendSeries holds parallel per-window averages over a team's chronology.
// Each point is right-aligned: its label is the kickoff of the last match in
// the window it summarizes.
type TrendSeries struct {
	Window               int
	Labels               []time.Time
	Ppg                  []float64
	GoalsDiffPerMatch    []float64
	GoalsForPerMatch     []float64
	GoalsAgainstPerMatch []float64
}

// Trends slides a fixed window over a newest-first list of finished matches
// and averages points, goals and goal difference per window. Fewer matches
// than the window produce an empty (non-nil) series.
func Trends(matches []match.Match, teamID string, window int) TrendSeries {
	series := TrendSeries{
		Window:               window,
		Labels:               []time.Time{},
		Ppg:                  []float64{},
		GoalsDiffPerMatch:    []float64{},
		GoalsForPerMatch:     []float64{},
		GoalsAgainstPerMatch: []float64{},
	}
	if window < 1 || len(matches) < window {
		return series
	}

	// Reverse into chronological order so each window reads oldest to newest.
	ordered := make([]match.Match, len(matches))
	for i, m := range matches {
		ordered[len(matches)-1-i] = m
	}

	points := make([]int, len(ordered))
	goalsFor := make([]int, len(ordered))
	goalsAgainst := make([]int, len(ordered))
	for i, m := range ordered {
		r := m.FromPerspective(teamID)
		points[i] = r.Points
		goalsFor[i] = r.GoalsFor
		goalsAgainst[i] = r.GoalsAgainst
	}

	for start := 0; start+window <= len(ordered); start++ {
		var p, gf, ga int
		for i := start; i < start+window; i++ {
			p += points[i]
			gf += goalsFor[i]
			ga += goalsAgainst[i]
		}

		w := float64(window)
		series.Labels = append(series.Labels, ordered[start+window-1].KickoffAt)
		series.Ppg = append(series.Ppg, float64(p)/w)
		series.GoalsForPerMatch = append(series.GoalsForPerMatch, float64(gf)/w)
		series.GoalsAgainstPerMatch = append(series.GoalsAgainstPerMatch, float64(ga)/w)
		series.GoalsDiffPerMatch = append(series.GoalsDiffPerMatch, float64(gf-ga)/w)
	}

	return series
}
