package memory

import (
	"time"

	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/team"
)

const CompetitionIDPremierLeague = "eng-premier-league-2025"

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "eng-ars", Name: "Arsenal", Short: "ARS"},
		{ID: "eng-liv", Name: "Liverpool", Short: "LIV"},
		{ID: "eng-mci", Name: "Manchester City", Short: "MCI"},
		{ID: "eng-che", Name: "Chelsea", Short: "CHE"},
		{ID: "eng-tot", Name: "Tottenham Hotspur", Short: "TOT"},
		{ID: "eng-new", Name: "Newcastle United", Short: "NEW"},
	}
}

// SeedMatches returns a fixed slate of finished rounds plus upcoming
// fixtures so a memory-backed instance serves non-empty analytics.
func SeedMatches() []match.Match {
	return []match.Match{
		finished("m-001", "eng-ars", "eng-che", date(2026, 7, 4), 2, 0),
		finished("m-002", "eng-liv", "eng-tot", date(2026, 7, 4), 3, 1),
		finished("m-003", "eng-mci", "eng-new", date(2026, 7, 5), 1, 1),
		finished("m-004", "eng-che", "eng-liv", date(2026, 7, 11), 0, 2),
		finished("m-005", "eng-tot", "eng-mci", date(2026, 7, 11), 2, 2),
		finished("m-006", "eng-new", "eng-ars", date(2026, 7, 12), 0, 1),
		finished("m-007", "eng-ars", "eng-liv", date(2026, 7, 18), 1, 1),
		finished("m-008", "eng-mci", "eng-che", date(2026, 7, 18), 3, 0),
		finished("m-009", "eng-tot", "eng-new", date(2026, 7, 19), 1, 2),
		finished("m-010", "eng-liv", "eng-mci", date(2026, 7, 25), 2, 1),
		finished("m-011", "eng-che", "eng-tot", date(2026, 7, 25), 1, 0),
		finished("m-012", "eng-ars", "eng-new", date(2026, 7, 26), 4, 0),
		finished("m-013", "eng-new", "eng-liv", date(2026, 8, 1), 1, 3),
		finished("m-014", "eng-che", "eng-ars", date(2026, 8, 1), 2, 2),
		finished("m-015", "eng-mci", "eng-tot", date(2026, 8, 2), 2, 0),
		finished("m-016", "eng-liv", "eng-ars", date(2026, 8, 8), 0, 1),
		finished("m-017", "eng-new", "eng-mci", date(2026, 8, 8), 0, 2),
		finished("m-018", "eng-tot", "eng-che", date(2026, 8, 9), 1, 1),
		scheduled("m-019", "eng-ars", "eng-mci", date(2026, 9, 12)),
		scheduled("m-020", "eng-liv", "eng-che", date(2026, 9, 12)),
		scheduled("m-021", "eng-new", "eng-tot", date(2026, 9, 13)),
		scheduled("m-022", "eng-mci", "eng-liv", date(2026, 9, 19)),
		scheduled("m-023", "eng-che", "eng-new", date(2026, 9, 19)),
		scheduled("m-024", "eng-tot", "eng-ars", date(2026, 9, 20)),
	}
}

func finished(id, homeTeamID, awayTeamID string, kickoffAt time.Time, homeScore, awayScore int) match.Match {
	home, away := homeScore, awayScore
	return match.Match{
		ID:            id,
		CompetitionID: CompetitionIDPremierLeague,
		HomeTeamID:    homeTeamID,
		AwayTeamID:    awayTeamID,
		KickoffAt:     kickoffAt,
		HomeScore:     &home,
		AwayScore:     &away,
		Winner:        match.WinnerFromScores(&home, &away),
		Status:        match.StatusFinished,
	}
}

func scheduled(id, homeTeamID, awayTeamID string, kickoffAt time.Time) match.Match {
	return match.Match{
		ID:            id,
		CompetitionID: CompetitionIDPremierLeague,
		HomeTeamID:    homeTeamID,
		AwayTeamID:    awayTeamID,
		KickoffAt:     kickoffAt,
		Winner:        match.WinnerUnknown,
		Status:        match.StatusScheduled,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 15, 0, 0, 0, time.UTC)
}
