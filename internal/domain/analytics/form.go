package analytics

import (
	"math"

	"github.com/matchpulse/api/internal/domain/match"
)

const (
	formRecentWindow   = 5
	formBaselineWindow = 10
)

// Delta-PPG thresholds separating the form labels.
const (
	deltaStrong = 0.40
	deltaGood   = 0.15
	deltaPoor   = -0.15
	deltaBad    = -0.40
)

// Volatility thresholds over the recent points' population stddev.
const (
	volatilityStable   = 0.60
	volatilityModerate = 1.10
)

const (
	FormLabelStrong  = "Strong form"
	FormLabelGood    = "Good form"
	FormLabelAverage = "Average form"
	FormLabelPoor    = "Poor form"
	FormLabelBad     = "Bad form"

	VolatilityLabelStable   = "Stable"
	VolatilityLabelModerate = "Moderate"
	VolatilityLabelHigh     = "High"

	ConfirmationBacked     = "Performance-backed"
	ConfirmationResultsLed = "Results > performance"
	ConfirmationStruggling = "Consistently struggling"
	ConfirmationMixed      = "Mixed"
)

// FormRating compares a recent window against the preceding baseline.
type FormRating struct {
	RecentPpg       float64
	BaselinePpg     float64
	DeltaPpg        float64
	Label           string
	Volatility      float64
	VolatilityLabel string
	Confirmation    string
}

// FormSnapshot aggregates a team's last matches into form metrics.
// All float values carry full precision; rounding happens at the API
// boundary only.
type FormSnapshot struct {
	MatchesUsed     int
	Sequence        []match.Result
	TotalPoints     int
	Ppg             float64
	GoalsFor        int
	GoalsAgainst    int
	GoalsDiff       int
	CleanSheets     int
	AvgGoalsFor     float64
	AvgGoalsAgainst float64
	Rating          *FormRating
}

// Form reduces a newest-first list of a team's finished matches into a
// FormSnapshot. Zero matches produce a zero-valued snapshot with nil Rating.
func Form(matches []match.Match, teamID string) FormSnapshot {
	results := make([]match.PerspectiveResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.FromPerspective(teamID))
	}

	snapshot := FormSnapshot{
		MatchesUsed: len(results),
		Sequence:    make([]match.Result, 0, len(results)),
	}
	if len(results) == 0 {
		return snapshot
	}

	for _, r := range results {
		snapshot.Sequence = append(snapshot.Sequence, r.Result)
		snapshot.TotalPoints += r.Points
		snapshot.GoalsFor += r.GoalsFor
		snapshot.GoalsAgainst += r.GoalsAgainst
		if r.GoalsAgainst == 0 {
			snapshot.CleanSheets++
		}
	}

	n := float64(len(results))
	snapshot.GoalsDiff = snapshot.GoalsFor - snapshot.GoalsAgainst
	snapshot.Ppg = float64(snapshot.TotalPoints) / n
	snapshot.AvgGoalsFor = float64(snapshot.GoalsFor) / n
	snapshot.AvgGoalsAgainst = float64(snapshot.GoalsAgainst) / n
	snapshot.Rating = rateForm(results, snapshot.Ppg)

	return snapshot
}

func rateForm(results []match.PerspectiveResult, overallPpg float64) *FormRating {
	recentN := min(formRecentWindow, len(results))
	baselineN := min(formBaselineWindow, len(results)-recentN)

	recent := results[:recentN]
	baseline := results[recentN : recentN+baselineN]

	recentPpg := pointsPerMatch(recent)
	baselinePpg := overallPpg
	if baselineN > 0 {
		baselinePpg = pointsPerMatch(baseline)
	}

	delta := recentPpg - baselinePpg

	rating := &FormRating{
		RecentPpg:   recentPpg,
		BaselinePpg: baselinePpg,
		DeltaPpg:    delta,
		Label:       formLabel(delta),
		Volatility:  pointsVolatility(recent),
	}
	rating.VolatilityLabel = volatilityLabel(rating.Volatility)
	rating.Confirmation = confirmationSignal(delta, goalsDiffPerMatch(recent)-goalsDiffPerMatch(baseline))

	return rating
}

func formLabel(delta float64) string {
	switch {
	case delta >= deltaStrong:
		return FormLabelStrong
	case delta >= deltaGood:
		return FormLabelGood
	case delta > deltaPoor:
		return FormLabelAverage
	case delta > deltaBad:
		return FormLabelPoor
	default:
		return FormLabelBad
	}
}

func volatilityLabel(volatility float64) string {
	switch {
	case volatility < volatilityStable:
		return VolatilityLabelStable
	case volatility < volatilityModerate:
		return VolatilityLabelModerate
	default:
		return VolatilityLabelHigh
	}
}

// confirmationSignal checks whether the points trend is mirrored by the goal
// difference trend over the same split. When there is no baseline window the
// goal-diff delta collapses to the recent value alone, which still carries
// the sign we care about.
func confirmationSignal(deltaPpg, deltaGoalsDiff float64) string {
	switch {
	case deltaPpg > 0 && deltaGoalsDiff > 0:
		return ConfirmationBacked
	case deltaPpg > 0 && deltaGoalsDiff < 0:
		return ConfirmationResultsLed
	case deltaPpg < 0 && deltaGoalsDiff < 0:
		return ConfirmationStruggling
	default:
		return ConfirmationMixed
	}
}

func pointsPerMatch(results []match.PerspectiveResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0
	for _, r := range results {
		total += r.Points
	}
	return float64(total) / float64(len(results))
}

func goalsDiffPerMatch(results []match.PerspectiveResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0
	for _, r := range results {
		total += r.GoalsDiff
	}
	return float64(total) / float64(len(results))
}

// pointsVolatility is the population standard deviation of the point values
// (domain {0, 1, 3}) in the window.
func pointsVolatility(results []match.PerspectiveResult) float64 {
	if len(results) == 0 {
		return 0
	}

	mean := pointsPerMatch(results)
	var sum float64
	for _, r := range results {
		diff := float64(r.Points) - mean
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(len(results)))
}
