package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

func finalizedResult(id, homeID, awayID string, homeScore, awayScore int) match.FinalizedMatch {
	return match.FinalizedMatch{
		ID:        id,
		Home:      team.TeamSnapshot{ID: homeID, Name: homeID},
		Away:      team.TeamSnapshot{ID: awayID, Name: awayID},
		HomeScore: homeScore,
		AwayScore: awayScore,
		Events: []match.Event{
			{ID: id + "-e0001", Type: match.EventCorner, TeamID: homeID, PlayerID: homeID + "-2"},
		},
	}
}

func TestTeamStatsService_Get(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	teams := memory.NewTeamRepository([]team.Team{testTeam("home", 11, true), testTeam("away", 11, true)})
	history := memory.NewHistoryRepository()
	for _, m := range []match.FinalizedMatch{
		finalizedResult("m1", "home", "away", 2, 0),
		finalizedResult("m2", "away", "home", 1, 1),
	} {
		if err := history.Append(ctx, m); err != nil {
			t.Fatalf("append %s: %v", m.ID, err)
		}
	}

	service := NewTeamStatsService(teams, history, 2, logging.NewNop())
	view, err := service.Get(ctx, "home")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}

	stats := view.Stats
	if stats.MatchesPlayed != 2 || stats.Wins != 1 || stats.Draws != 1 || stats.Losses != 0 {
		t.Fatalf("unexpected record: %+v", stats)
	}
	if stats.GoalsFor != 3 || stats.GoalsAgainst != 1 || stats.GoalDifference != 2 || stats.Points != 4 {
		t.Fatalf("unexpected goals/points: %+v", stats)
	}
	if stats.Corners != 1 {
		t.Fatalf("expected one home corner, got %d", stats.Corners)
	}

	if _, err := service.Get(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamStatsService_StandingsRanksEveryTeam(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	teams := memory.NewTeamRepository([]team.Team{
		testTeam("alpha", 11, true),
		testTeam("bravo", 11, true),
		testTeam("charlie", 11, false),
		testTeam("delta", 11, false),
	})
	history := memory.NewHistoryRepository()
	for _, m := range []match.FinalizedMatch{
		finalizedResult("m1", "charlie", "alpha", 3, 0),
		finalizedResult("m2", "bravo", "alpha", 1, 0),
		finalizedResult("m3", "charlie", "bravo", 1, 1),
	} {
		if err := history.Append(ctx, m); err != nil {
			t.Fatalf("append %s: %v", m.ID, err)
		}
	}

	service := NewTeamStatsService(teams, history, 3, logging.NewNop())
	rows, err := service.Standings(ctx)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}

	want := []string{"charlie", "bravo", "delta", "alpha"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].Team.ID != id || rows[i].Position != i+1 {
			t.Fatalf("row %d: got team=%s position=%d, want team=%s", i, rows[i].Team.ID, rows[i].Position, id)
		}
	}
	if rows[0].Stats.Points != 4 || rows[3].Stats.Losses != 2 {
		t.Fatalf("unexpected standings stats: first=%+v last=%+v", rows[0].Stats, rows[3].Stats)
	}
}

func TestTeamStatsService_StandingsEmpty(t *testing.T) {
	t.Parallel()

	service := NewTeamStatsService(memory.NewTeamRepository(nil), memory.NewHistoryRepository(), 0, nil)
	rows, err := service.Standings(t.Context())
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
