package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/domain/teamstats"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

const defaultStandingsWorkers = 4

type TeamStatsView struct {
	Team  team.TeamSnapshot
	Stats teamstats.TeamAggregateStats
}

// StandingRow is one ranked line of the standings table.
type StandingRow struct {
	Position int
	Team     team.TeamSnapshot
	Stats    teamstats.TeamAggregateStats
}

type TeamStatsService struct {
	teamRepo    team.Repository
	historyRepo match.HistoryRepository
	workers     int
	logger      *logging.Logger
}

func NewTeamStatsService(
	teamRepo team.Repository,
	historyRepo match.HistoryRepository,
	workers int,
	logger *logging.Logger,
) *TeamStatsService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultStandingsWorkers
	}

	return &TeamStatsService{
		teamRepo:    teamRepo,
		historyRepo: historyRepo,
		workers:     workers,
		logger:      logger,
	}
}

func (s *TeamStatsService) Get(ctx context.Context, teamID string) (TeamStatsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamStatsService.Get")
	defer span.End()

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamStatsView{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamStatsView{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	history, err := s.historyRepo.List(ctx)
	if err != nil {
		return TeamStatsView{}, fmt.Errorf("list match history: %w", err)
	}

	return TeamStatsView{
		Team:  item.Snapshot(),
		Stats: teamstats.Aggregate(item.ID, history),
	}, nil
}

// Standings aggregates every registered team from match history and ranks
// the result. Teams are folded concurrently on a bounded worker pool.
func (s *TeamStatsService) Standings(ctx context.Context) ([]StandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamStatsService.Standings")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	history, err := s.historyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list match history: %w", err)
	}
	if len(teams) == 0 {
		return []StandingRow{}, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(teams)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	aggregates := make([]teamstats.TeamAggregateStats, len(teams))
	var workers sync.WaitGroup
	for idx, item := range teams {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			aggregates[idx] = teamstats.Aggregate(item.ID, history)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit standings task: %w", err)
		}
	}
	workers.Wait()

	snapshots := make(map[string]team.TeamSnapshot, len(teams))
	for _, item := range teams {
		snapshots[item.ID] = item.Snapshot()
	}

	ranked := teamstats.Rank(aggregates)
	out := make([]StandingRow, 0, len(ranked))
	for i, stats := range ranked {
		out = append(out, StandingRow{
			Position: i + 1,
			Team:     snapshots[stats.TeamID],
			Stats:    stats,
		})
	}

	s.logger.DebugContext(ctx, "standings computed", "teams", len(out), "matches", len(history))
	return out, nil
}
