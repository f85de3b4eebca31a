package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
)

func seedTeams() []team.Team {
	return []team.Team{
		{
			ID:        "home",
			Name:      "Home",
			Color:     "#112233",
			Protected: true,
			Players:   []team.Player{{ID: "home-1", Name: "Keeper", JerseyNumber: 1, Position: team.PositionGoalkeeper}},
		},
		{
			ID:      "away",
			Name:    "Away",
			Color:   "#445566",
			Players: []team.Player{{ID: "away-1", Name: "Striker", JerseyNumber: 9, Position: team.PositionForward}},
		},
	}
}

func TestTeamRepository_ApplyPlayerStatsIsIdempotentPerMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTeamRepository(seedTeams())
	delta := team.StatsDelta{MatchID: "m1", Goals: 2, MatchesPlayed: 1}

	applied, err := repo.ApplyPlayerStats(ctx, "away", "away-1", delta)
	if err != nil || !applied {
		t.Fatalf("first apply: applied=%v err=%v", applied, err)
	}
	applied, err = repo.ApplyPlayerStats(ctx, "away", "away-1", delta)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if applied {
		t.Fatalf("expected second apply of the same match to be skipped")
	}

	item, _, _ := repo.GetByID(ctx, "away")
	if item.Players[0].Stats.Goals != 2 || item.Players[0].Stats.MatchesPlayed != 1 {
		t.Fatalf("unexpected stats: %+v", item.Players[0].Stats)
	}

	if _, err := repo.ApplyPlayerStats(ctx, "away", "ghost", delta); !errors.Is(err, team.ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
	if _, err := repo.ApplyPlayerStats(ctx, "ghost", "away-1", delta); !errors.Is(err, team.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestTeamRepository_DeleteProtected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTeamRepository(seedTeams())

	if err := repo.Delete(ctx, "home"); !errors.Is(err, team.ErrProtectedTeam) {
		t.Fatalf("expected ErrProtectedTeam, got %v", err)
	}
	if err := repo.Delete(ctx, "away"); err != nil {
		t.Fatalf("delete away: %v", err)
	}
	items, _ := repo.List(ctx)
	if len(items) != 1 || items[0].ID != "home" {
		t.Fatalf("unexpected teams after delete: %+v", items)
	}
}

func TestTeamRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTeamRepository(seedTeams())

	item, _, _ := repo.GetByID(ctx, "home")
	item.Players[0].Name = "mutated"

	stored, _, _ := repo.GetByID(ctx, "home")
	if stored.Players[0].Name != "Keeper" {
		t.Fatalf("stored roster was mutated through a returned copy")
	}
}

func TestTeamRepository_ResetForgetsAppliedMatches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTeamRepository(seedTeams())
	delta := team.StatsDelta{MatchID: "m1", Goals: 1}

	if _, err := repo.ApplyPlayerStats(ctx, "away", "away-1", delta); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := repo.Reset(ctx, seedTeams()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	item, _, _ := repo.GetByID(ctx, "away")
	if item.Players[0].Stats.Goals != 0 {
		t.Fatalf("expected stats to be reset, got %+v", item.Players[0].Stats)
	}
	applied, err := repo.ApplyPlayerStats(ctx, "away", "away-1", delta)
	if err != nil || !applied {
		t.Fatalf("expected apply after reset: applied=%v err=%v", applied, err)
	}
}

func TestHistoryRepository_AppendAndMark(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewHistoryRepository()

	if err := repo.Append(ctx, match.FinalizedMatch{ID: "m1"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Append(ctx, match.FinalizedMatch{ID: "m1"}); !errors.Is(err, match.ErrMatchExists) {
		t.Fatalf("expected ErrMatchExists, got %v", err)
	}

	pending, _ := repo.ListPendingStats(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected one pending match, got %d", len(pending))
	}
	if err := repo.MarkStatsApplied(ctx, "m1"); err != nil {
		t.Fatalf("mark applied: %v", err)
	}
	pending, _ = repo.ListPendingStats(ctx)
	if len(pending) != 0 {
		t.Fatalf("expected no pending matches, got %d", len(pending))
	}
	if err := repo.MarkStatsApplied(ctx, "missing"); !errors.Is(err, match.ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestCheckpointRepository_SaveGetClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewCheckpointRepository()

	if _, ok, _ := repo.Get(ctx); ok {
		t.Fatalf("expected empty checkpoint store")
	}
	if err := repo.Save(ctx, match.Checkpoint{MatchID: "m1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	cp, ok, _ := repo.Get(ctx)
	if !ok || cp.MatchID != "m1" {
		t.Fatalf("unexpected checkpoint: ok=%v cp=%+v", ok, cp)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := repo.Get(ctx); ok {
		t.Fatalf("expected checkpoint to be cleared")
	}
}
