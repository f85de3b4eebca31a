package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testTeam builds a roster of size players with ids "<id>-1".."<id>-n" and
// jersey numbers matching the suffix.
func testTeam(id string, size int, protected bool) team.Team {
	players := make([]team.Player, 0, size)
	for i := 1; i <= size; i++ {
		position := team.PositionForward
		switch {
		case i == 1:
			position = team.PositionGoalkeeper
		case i <= 5:
			position = team.PositionDefender
		case i <= 8:
			position = team.PositionMidfielder
		}
		players = append(players, team.Player{
			ID:           fmt.Sprintf("%s-%d", id, i),
			Name:         fmt.Sprintf("Player %d", i),
			JerseyNumber: i,
			Position:     position,
		})
	}
	return team.Team{
		ID:        id,
		Name:      id,
		Color:     "#102030",
		Players:   players,
		Protected: protected,
	}
}

type matchFixture struct {
	service     *MatchService
	aggregator  *StatsAggregator
	teams       *memory.TeamRepository
	history     *memory.HistoryRepository
	checkpoints *memory.CheckpointRepository
	clock       *fakeClock
}

func newMatchFixture(seed ...team.Team) matchFixture {
	if len(seed) == 0 {
		seed = []team.Team{testTeam("home", 11, true), testTeam("away", 11, true)}
	}

	teams := memory.NewTeamRepository(seed)
	history := memory.NewHistoryRepository()
	checkpoints := memory.NewCheckpointRepository()
	logger := logging.NewNop()
	clock := newFakeClock()

	aggregator := NewStatsAggregator(teams, history, logger)
	service := NewMatchService(teams, history, checkpoints, aggregator, idgen.NewSequenceGenerator("match"), logger)
	service.now = clock.Now

	return matchFixture{
		service:     service,
		aggregator:  aggregator,
		teams:       teams,
		history:     history,
		checkpoints: checkpoints,
		clock:       clock,
	}
}

func minute(v int) *int {
	return &v
}
