package analytics

import (
	"math"
	"time"

	"github.com/matchpulse/api/internal/domain/match"
)

// Difficulty-score thresholds shared by per-fixture and aggregate labels.
const (
	difficultyEasy   = 1.20
	difficultyMedium = 1.55
)

const (
	DifficultyLabelEasy   = "Easy"
	DifficultyLabelMedium = "Medium"
	DifficultyLabelHard   = "Hard"
)

// DifficultyParams steer the fixture difficulty estimate. Zero values are
// replaced by defaults and everything else is clamped into range rather than
// rejected.
type DifficultyParams struct {
	FixtureCount    int
	BaselineMatches int
	RecentMatches   int
	Alpha           float64
	VenueAdjust     bool
	HomeFactor      float64
	AwayFactor      float64
}

func DefaultDifficultyParams() DifficultyParams {
	return DifficultyParams{
		FixtureCount:    3,
		BaselineMatches: 10,
		RecentMatches:   5,
		Alpha:           0.5,
		VenueAdjust:     true,
		HomeFactor:      0.95,
		AwayFactor:      1.05,
	}
}

// Clamped returns a copy with every field forced into its allowed range.
func (p DifficultyParams) Clamped() DifficultyParams {
	defaults := DefaultDifficultyParams()

	if p.FixtureCount == 0 {
		p.FixtureCount = defaults.FixtureCount
	}
	if p.BaselineMatches == 0 {
		p.BaselineMatches = defaults.BaselineMatches
	}
	if p.RecentMatches == 0 {
		p.RecentMatches = defaults.RecentMatches
	}
	if p.HomeFactor == 0 {
		p.HomeFactor = defaults.HomeFactor
	}
	if p.AwayFactor == 0 {
		p.AwayFactor = defaults.AwayFactor
	}

	p.FixtureCount = clampInt(p.FixtureCount, 1, 10)
	p.BaselineMatches = clampInt(p.BaselineMatches, 5, 50)
	p.RecentMatches = clampInt(p.RecentMatches, 3, 10)
	p.Alpha = clampFloat(p.Alpha, 0, 1)
	p.HomeFactor = clampFloat(p.HomeFactor, 0.8, 1.2)
	p.AwayFactor = clampFloat(p.AwayFactor, 0.8, 1.2)

	return p
}

// DifficultyItem scores one upcoming fixture from the requesting team's
// perspective.
type DifficultyItem struct {
	FixtureID           string
	KickoffAt           time.Time
	Venue               match.Venue
	OpponentID          string
	OpponentBaselinePpg float64
	OpponentRecentPpg   float64
	DeltaPpg            float64
	OpponentStrength    float64
	Score               float64
	Label               string
}

// DifficultyRun is the scored fixture list plus its aggregate.
type DifficultyRun struct {
	Items    []DifficultyItem
	RunScore float64
	RunLabel string
}

// ScoreFixture blends the opponent's baseline and momentum-weighted recent
// PPG, then adjusts for venue. The score is the only value rounded here; it
// feeds threshold labels, so both sides must see identical numbers.
func ScoreFixture(fixture match.Match, teamID string, baselinePpg, recentPpg float64, p DifficultyParams) DifficultyItem {
	venue := fixture.VenueFor(teamID)

	venueFactor := 1.0
	if p.VenueAdjust {
		venueFactor = p.AwayFactor
		if venue == match.VenueHome {
			venueFactor = p.HomeFactor
		}
	}

	delta := recentPpg - baselinePpg
	strength := baselinePpg + p.Alpha*delta
	score := Round2(strength * venueFactor)

	return DifficultyItem{
		FixtureID:           fixture.ID,
		KickoffAt:           fixture.KickoffAt,
		Venue:               venue,
		OpponentID:          fixture.OpponentOf(teamID),
		OpponentBaselinePpg: baselinePpg,
		OpponentRecentPpg:   recentPpg,
		DeltaPpg:            delta,
		OpponentStrength:    strength,
		Score:               score,
		Label:               DifficultyLabel(score),
	}
}

// AggregateDifficulty folds per-fixture scores into a run score (their mean)
// labelled with the same thresholds.
func AggregateDifficulty(items []DifficultyItem) DifficultyRun {
	run := DifficultyRun{
		Items:    items,
		RunLabel: DifficultyLabelEasy,
	}
	if len(items) == 0 {
		return run
	}

	var sum float64
	for _, item := range items {
		sum += item.Score
	}
	run.RunScore = sum / float64(len(items))
	run.RunLabel = DifficultyLabel(run.RunScore)

	return run
}

func DifficultyLabel(score float64) string {
	switch {
	case score < difficultyEasy:
		return DifficultyLabelEasy
	case score < difficultyMedium:
		return DifficultyLabelMedium
	default:
		return DifficultyLabelHard
	}
}

// PointsPerGame averages points over the counted matches only: a finished
// match without a determinable winner leaves the denominator. No counted
// matches yield 0, never NaN.
func PointsPerGame(matches []match.Match, teamID string) float64 {
	points := 0
	counted := 0
	for _, m := range matches {
		r := m.FromPerspective(teamID)
		if !r.Counted() {
			continue
		}
		points += r.Points
		counted++
	}

	if counted == 0 {
		return 0
	}
	return float64(points) / float64(counted)
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
