package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/match-tracker/internal/mocks/domain/match"
	teammock "github.com/riskibarqy/match-tracker/internal/mocks/domain/team"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func sampleFinalizedMatch() match.FinalizedMatch {
	return match.FinalizedMatch{
		ID:        "m1",
		Home:      team.TeamSnapshot{ID: "home"},
		Away:      team.TeamSnapshot{ID: "away"},
		HomeScore: 1,
		Events: []match.Event{
			{ID: "m1-e0001", Type: match.EventGoal, TeamID: "home", PlayerID: "home-9", RelatedPlayerID: "home-7", Minute: 10},
			{ID: "m1-e0002", Type: match.EventAssist, TeamID: "home", PlayerID: "home-7", RelatedPlayerID: "home-9", Minute: 10},
			{ID: "m1-e0003", Type: match.EventYellowCard, TeamID: "away", PlayerID: "away-4", Minute: 20},
			{ID: "m1-e0004", Type: match.EventYellowCard, TeamID: "away", PlayerID: "away-4", Minute: 55},
			{ID: "m1-e0005", Type: match.EventRedCard, TeamID: "away", PlayerID: "away-4", Minute: 55, IsDoubleYellow: true},
			{ID: "m1-e0006", Type: match.EventSubstitution, TeamID: "home", PlayerID: "home-11", RelatedPlayerID: "home-12", Minute: 60},
			{ID: "m1-e0007", Type: match.EventFoul, TeamID: "home", PlayerID: "home-12", Minute: 70},
			{ID: "m1-e0008", Type: match.EventCorner, TeamID: "away", PlayerID: "away-2", Minute: 75},
			{ID: "m1-e0009", Type: match.EventThrowIn, TeamID: "away", PlayerID: "away-2", Minute: 76},
		},
		HomeLineup: []string{"home-7", "home-9", "home-12"},
		AwayLineup: []string{"away-2"},
	}
}

func TestComputeDeltas_OneDeltaPerPlayer(t *testing.T) {
	t.Parallel()

	deltas := ComputeDeltas(sampleFinalizedMatch())

	byPlayer := make(map[string]team.StatsDelta, len(deltas))
	for _, d := range deltas {
		if _, dup := byPlayer[d.PlayerID]; dup {
			t.Fatalf("player %s has more than one delta", d.PlayerID)
		}
		if d.Delta.MatchID != "m1" {
			t.Fatalf("delta for %s carries match id %q", d.PlayerID, d.Delta.MatchID)
		}
		byPlayer[d.PlayerID] = d.Delta
	}

	if len(byPlayer) != 5 {
		t.Fatalf("expected 5 players with deltas, got %d: %+v", len(byPlayer), byPlayer)
	}
	if d := byPlayer["home-9"]; d.Goals != 1 || d.MatchesPlayed != 1 {
		t.Fatalf("unexpected scorer delta: %+v", d)
	}
	if d := byPlayer["home-7"]; d.Assists != 1 || d.MatchesPlayed != 1 {
		t.Fatalf("unexpected assister delta: %+v", d)
	}
	if d := byPlayer["away-4"]; d.YellowCards != 2 || d.RedCards != 1 || d.MatchesPlayed != 0 {
		t.Fatalf("unexpected expelled player delta: %+v", d)
	}
	if d := byPlayer["home-12"]; d.Fouls != 1 || d.MatchesPlayed != 1 {
		t.Fatalf("unexpected substitute delta: %+v", d)
	}
	if d := byPlayer["away-2"]; d.Corners != 1 || d.ThrowIns != 1 || d.MatchesPlayed != 1 {
		t.Fatalf("unexpected away delta: %+v", d)
	}
	if _, ok := byPlayer["home-11"]; ok {
		t.Fatalf("substituted-out player without events must not get a delta")
	}
}

func TestStatsAggregator_ApplyTwiceDoesNotDoubleCount(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	teams := memory.NewTeamRepository([]team.Team{testTeam("home", 12, true), testTeam("away", 11, true)})
	history := memory.NewHistoryRepository()
	aggregator := NewStatsAggregator(teams, history, logging.NewNop())

	finalized := sampleFinalizedMatch()
	if err := history.Append(ctx, finalized); err != nil {
		t.Fatalf("append history: %v", err)
	}

	first, err := aggregator.Apply(ctx, finalized)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if !first.Complete || first.Applied != 5 {
		t.Fatalf("unexpected first report: %+v", first)
	}

	// A retry with a stale copy still carrying StatsApplied=false.
	second, err := aggregator.Apply(ctx, finalized)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if second.Applied != 0 || second.Skipped != 5 {
		t.Fatalf("expected every player to be skipped, got %+v", second)
	}

	home, _, _ := teams.GetByID(ctx, "home")
	scorer, _ := home.Player("home-9")
	if scorer.Stats.Goals != 1 || scorer.Stats.MatchesPlayed != 1 {
		t.Fatalf("expected single application, got %+v", scorer.Stats)
	}

	stored, _, _ := history.GetByID(ctx, "m1")
	third, err := aggregator.Apply(ctx, stored)
	if err != nil || !third.AlreadyApplied {
		t.Fatalf("expected applied match to short-circuit, report=%+v err=%v", third, err)
	}
}

func TestStatsAggregator_PlayerFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	teamRepo := teammock.NewRepository(t)
	history := matchmock.NewHistoryRepository(t)
	aggregator := NewStatsAggregator(teamRepo, history, logging.NewNop())

	finalized := match.FinalizedMatch{
		ID:         "m2",
		Home:       team.TeamSnapshot{ID: "home"},
		Away:       team.TeamSnapshot{ID: "away"},
		HomeLineup: []string{"home-1", "home-2"},
		AwayLineup: []string{"away-1"},
	}

	teamRepo.
		On("ApplyPlayerStats", mock.Anything, "home", "home-1", mock.AnythingOfType("team.StatsDelta")).
		Return(true, nil).
		Once()
	teamRepo.
		On("ApplyPlayerStats", mock.Anything, "home", "home-2", mock.AnythingOfType("team.StatsDelta")).
		Return(false, errors.New("write timeout")).
		Once()
	teamRepo.
		On("ApplyPlayerStats", mock.Anything, "away", "away-1", mock.AnythingOfType("team.StatsDelta")).
		Return(true, nil).
		Once()

	report, err := aggregator.Apply(ctx, finalized)
	if err == nil {
		t.Fatalf("expected joined error for the failing player")
	}
	if report.Applied != 2 || len(report.Failed) != 1 || report.Failed[0].PlayerID != "home-2" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Complete {
		t.Fatalf("match must not be complete while a player failed")
	}
	history.AssertNotCalled(t, "MarkStatsApplied", mock.Anything, mock.Anything)
}

func TestStatsAggregator_MissingPlayerDoesNotBlockCompletion(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	teams := memory.NewTeamRepository([]team.Team{testTeam("home", 11, true), testTeam("away", 11, true)})
	history := memory.NewHistoryRepository()
	aggregator := NewStatsAggregator(teams, history, logging.NewNop())

	finalized := match.FinalizedMatch{
		ID:         "m3",
		Home:       team.TeamSnapshot{ID: "home"},
		Away:       team.TeamSnapshot{ID: "away"},
		HomeLineup: []string{"home-1", "released-player"},
		AwayLineup: []string{"away-1"},
	}
	if err := history.Append(ctx, finalized); err != nil {
		t.Fatalf("append history: %v", err)
	}

	report, err := aggregator.Apply(ctx, finalized)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !report.Complete || report.Applied != 2 || len(report.Missing) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestStatsAggregator_ReapplyPending(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	teams := memory.NewTeamRepository([]team.Team{testTeam("home", 12, true), testTeam("away", 11, true)})
	history := memory.NewHistoryRepository()
	aggregator := NewStatsAggregator(teams, history, logging.NewNop())

	if err := history.Append(ctx, sampleFinalizedMatch()); err != nil {
		t.Fatalf("append history: %v", err)
	}

	report, err := aggregator.ReapplyPending(ctx)
	if err != nil {
		t.Fatalf("reapply pending: %v", err)
	}
	if report.Pending != 1 || report.Completed != 1 {
		t.Fatalf("unexpected reapply report: %+v", report)
	}

	report, err = aggregator.ReapplyPending(ctx)
	if err != nil {
		t.Fatalf("second reapply: %v", err)
	}
	if report.Pending != 0 {
		t.Fatalf("expected nothing pending, got %+v", report)
	}
}
