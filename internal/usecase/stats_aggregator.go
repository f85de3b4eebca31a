package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

// PlayerDelta is the career stats change one finalized match produces for
// one player.
type PlayerDelta struct {
	TeamID   string
	PlayerID string
	Delta    team.StatsDelta
}

// PlayerFailure records a player whose stats could not be applied.
type PlayerFailure struct {
	TeamID   string
	PlayerID string
	Err      error
}

// AggregationReport summarizes one Apply run.
type AggregationReport struct {
	MatchID        string
	Applied        int
	Skipped        int
	Missing        []PlayerDelta
	Failed         []PlayerFailure
	AlreadyApplied bool
	Complete       bool
}

type StatsAggregator struct {
	teamRepo    team.Repository
	historyRepo match.HistoryRepository
	logger      *logging.Logger
}

func NewStatsAggregator(teamRepo team.Repository, historyRepo match.HistoryRepository, logger *logging.Logger) *StatsAggregator {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatsAggregator{
		teamRepo:    teamRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

type playerKey struct {
	teamID   string
	playerID string
}

// ComputeDeltas groups the match events by player and adds one match played
// for every player on the pitch at the final whistle. The result holds one
// entry per player, ordered by first event, then home and away lineups.
func ComputeDeltas(m match.FinalizedMatch) []PlayerDelta {
	index := make(map[playerKey]int)
	out := make([]PlayerDelta, 0, len(m.HomeLineup)+len(m.AwayLineup))

	entry := func(teamID, playerID string) *team.StatsDelta {
		key := playerKey{teamID: teamID, playerID: playerID}
		idx, ok := index[key]
		if !ok {
			idx = len(out)
			index[key] = idx
			out = append(out, PlayerDelta{
				TeamID:   teamID,
				PlayerID: playerID,
				Delta:    team.StatsDelta{MatchID: m.ID},
			})
		}
		return &out[idx].Delta
	}

	for _, e := range m.Events {
		if e.Type == match.EventSubstitution {
			continue
		}
		d := entry(e.TeamID, e.PlayerID)
		switch e.Type {
		case match.EventGoal:
			d.Goals++
		case match.EventAssist:
			d.Assists++
		case match.EventYellowCard:
			d.YellowCards++
		case match.EventRedCard:
			d.RedCards++
		case match.EventFoul:
			d.Fouls++
		case match.EventCorner:
			d.Corners++
		case match.EventThrowIn:
			d.ThrowIns++
		}
	}

	for _, playerID := range m.HomeLineup {
		entry(m.Home.ID, playerID).MatchesPlayed = 1
	}
	for _, playerID := range m.AwayLineup {
		entry(m.Away.ID, playerID).MatchesPlayed = 1
	}

	return out
}

// Apply adds the match's deltas to every player's career stats, one store
// call per player. A failing player does not stop the others; the match is
// only marked as applied once every player succeeded. Players no longer on
// their roster are reported as missing and do not block completion.
func (s *StatsAggregator) Apply(ctx context.Context, m match.FinalizedMatch) (AggregationReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsAggregator.Apply")
	defer span.End()

	report := AggregationReport{MatchID: m.ID}
	if m.StatsApplied {
		report.AlreadyApplied = true
		report.Complete = true
		return report, nil
	}

	var errs []error
	for _, item := range ComputeDeltas(m) {
		applied, err := s.teamRepo.ApplyPlayerStats(ctx, item.TeamID, item.PlayerID, item.Delta)
		switch {
		case errors.Is(err, team.ErrTeamNotFound), errors.Is(err, team.ErrPlayerNotFound):
			report.Missing = append(report.Missing, item)
			s.logger.WarnContext(ctx, "skip stats for unknown player",
				"match_id", m.ID,
				"team_id", item.TeamID,
				"player_id", item.PlayerID,
			)
		case err != nil:
			report.Failed = append(report.Failed, PlayerFailure{TeamID: item.TeamID, PlayerID: item.PlayerID, Err: err})
			errs = append(errs, fmt.Errorf("apply stats team=%s player=%s: %w", item.TeamID, item.PlayerID, err))
		case applied:
			report.Applied++
		default:
			report.Skipped++
		}
	}

	if len(errs) > 0 {
		s.logger.ErrorContext(ctx, "stats aggregation incomplete",
			"match_id", m.ID,
			"applied", report.Applied,
			"failed", len(report.Failed),
		)
		return report, errors.Join(errs...)
	}

	if err := s.historyRepo.MarkStatsApplied(ctx, m.ID); err != nil {
		return report, fmt.Errorf("mark stats applied match=%s: %w", m.ID, err)
	}
	report.Complete = true

	s.logger.InfoContext(ctx, "stats aggregated",
		"match_id", m.ID,
		"applied", report.Applied,
		"skipped", report.Skipped,
		"missing", len(report.Missing),
	)
	return report, nil
}

// ReapplyReport summarizes a ReapplyPending run.
type ReapplyReport struct {
	Pending   int
	Completed int
	Reports   []AggregationReport
}

// ReapplyPending retries every finalized match whose stats are not yet fully
// applied. Players that already absorbed a match are skipped by the store.
func (s *StatsAggregator) ReapplyPending(ctx context.Context) (ReapplyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsAggregator.ReapplyPending")
	defer span.End()

	pending, err := s.historyRepo.ListPendingStats(ctx)
	if err != nil {
		return ReapplyReport{}, fmt.Errorf("list pending stats: %w", err)
	}

	out := ReapplyReport{Pending: len(pending), Reports: make([]AggregationReport, 0, len(pending))}
	var errs []error
	for _, m := range pending {
		report, err := s.Apply(ctx, m)
		out.Reports = append(out.Reports, report)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.Completed++
	}

	return out, errors.Join(errs...)
}
