package match

// Result is a match outcome expressed relative to one team.
type Result string

const (
	ResultWin     Result = "W"
	ResultDraw    Result = "D"
	ResultLoss    Result = "L"
	ResultUnknown Result = "U"
)

const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// PerspectiveResult is a Match reduced to one team's point of view.
// It is derived on demand and never stored.
type PerspectiveResult struct {
	Result       Result
	GoalsFor     int
	GoalsAgainst int
	GoalsDiff    int
	Points       int
}

// FromPerspective maps the match onto teamID's side. Matches that have not
// finished, or finished without a determinable winner, yield ResultUnknown
// with zero points. Missing scores count as 0 in goal sums.
func (m Match) FromPerspective(teamID string) PerspectiveResult {
	home := m.HomeTeamID == teamID

	goalsFor := scoreOrZero(m.HomeScore)
	goalsAgainst := scoreOrZero(m.AwayScore)
	if !home {
		goalsFor, goalsAgainst = goalsAgainst, goalsFor
	}

	out := PerspectiveResult{
		Result:       ResultUnknown,
		GoalsFor:     goalsFor,
		GoalsAgainst: goalsAgainst,
		GoalsDiff:    goalsFor - goalsAgainst,
	}

	if !m.Finished() {
		return out
	}

	switch m.Winner {
	case WinnerDraw:
		out.Result = ResultDraw
		out.Points = PointsDraw
	case WinnerHome:
		out.Result = ResultLoss
		if home {
			out.Result = ResultWin
			out.Points = PointsWin
		}
	case WinnerAway:
		out.Result = ResultWin
		out.Points = PointsWin
		if home {
			out.Result = ResultLoss
			out.Points = PointsLoss
		}
	default:
		// Finished without a determinable winner: keep ResultUnknown.
	}

	return out
}

// Counted reports whether the result participates in points-per-game
// denominators. Matches with an indeterminable winner are excluded rather
// than treated as zero-point losses.
func (r PerspectiveResult) Counted() bool {
	return r.Result != ResultUnknown
}

func scoreOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
