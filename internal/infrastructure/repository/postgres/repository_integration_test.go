//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "tracker",
				"POSTGRES_PASSWORD": "tracker",
				"POSTGRES_DB":       "match_tracker",
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60*time.Second),
				wait.ForListeningPort("5432/tcp").WithStartupTimeout(60*time.Second),
			),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://tracker:tracker@%s/match_tracker?sslmode=disable", net.JoinHostPort(host, port.Port()))

	migrationsDir, err := filepath.Abs("../../../../db/migrations")
	require.NoError(t, err)
	m, err := migrate.New("file://"+filepath.ToSlash(migrationsDir), dsn)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("apply migrations: %v", err)
	}
	_, _ = m.Close()

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func rosterTeam(id string, size int, protected bool) team.Team {
	players := make([]team.Player, 0, size)
	for i := 1; i <= size; i++ {
		players = append(players, team.Player{
			ID:           fmt.Sprintf("%s-%d", id, i),
			Name:         fmt.Sprintf("Player %d", i),
			JerseyNumber: i,
			Position:     team.PositionMidfielder,
		})
	}
	return team.Team{ID: id, Name: id, Color: "#102030", Players: players, Protected: protected}
}

func TestTeamRepository_Lifecycle(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	repo := NewTeamRepository(db)

	require.NoError(t, BootstrapSeed(ctx, db, []team.Team{rosterTeam("home", 11, true), rosterTeam("away", 11, true)}))
	// A second bootstrap is a no-op once teams exist.
	require.NoError(t, BootstrapSeed(ctx, db, []team.Team{rosterTeam("other", 11, true)}))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	home, ok, err := repo.GetByID(ctx, "home")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, home.Protected)
	assert.Len(t, home.Players, 11)

	applied, err := repo.ApplyPlayerStats(ctx, "home", "home-9", team.StatsDelta{MatchID: "m1", Goals: 2, MatchesPlayed: 1})
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.ApplyPlayerStats(ctx, "home", "home-9", team.StatsDelta{MatchID: "m1", Goals: 2, MatchesPlayed: 1})
	require.NoError(t, err)
	assert.False(t, applied, "same match must not be applied twice")

	home, _, err = repo.GetByID(ctx, "home")
	require.NoError(t, err)
	scorer, ok := home.Player("home-9")
	require.True(t, ok)
	assert.Equal(t, 2, scorer.Stats.Goals)
	assert.Equal(t, 1, scorer.Stats.MatchesPlayed)

	guest := rosterTeam("guest", 12, false)
	require.NoError(t, repo.Upsert(ctx, guest))
	require.NoError(t, repo.Delete(ctx, "guest"))
	_, ok, err = repo.GetByID(ctx, "guest")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Reset(ctx, []team.Team{rosterTeam("home", 11, true), rosterTeam("away", 11, true)}))
	home, _, err = repo.GetByID(ctx, "home")
	require.NoError(t, err)
	scorer, _ = home.Player("home-9")
	assert.Zero(t, scorer.Stats.Goals)
}

func TestMatchHistoryRepository_AppendAndMarkApplied(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	repo := NewMatchHistoryRepository(db)

	item := match.FinalizedMatch{
		ID:        "m1",
		PlayedAt:  time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC),
		Home:      team.TeamSnapshot{ID: "home", Name: "Home", Color: "#112233"},
		Away:      team.TeamSnapshot{ID: "away", Name: "Away", Color: "#445566"},
		HomeScore: 1,
		Events: []match.Event{
			{ID: "m1-e0001", Type: match.EventGoal, TeamID: "home", PlayerID: "home-9", Minute: 12, ClockLabel: "12'"},
		},
		HomeLineup: []string{"home-9"},
		AwayLineup: []string{"away-1"},
	}
	require.NoError(t, repo.Append(ctx, item))

	err := repo.Append(ctx, item)
	assert.True(t, errors.Is(err, match.ErrMatchExists), "expected ErrMatchExists, got %v", err)

	pending, err := repo.ListPendingStats(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, repo.MarkStatsApplied(ctx, "m1"))
	pending, err = repo.ListPendingStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	got, ok, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.StatsApplied)
	assert.Equal(t, item.HomeLineup, got.HomeLineup)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "home-9", got.Events[0].PlayerID)

	require.NoError(t, repo.Clear(ctx))
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCheckpointRepository_SaveGetClear(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	repo := NewCheckpointRepository(db)

	_, ok, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	cp := match.Checkpoint{
		MatchID:   "m2",
		StartedAt: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		Home:      match.SideSetup{Team: team.TeamSnapshot{ID: "home"}, Roster: []string{"h1"}, Lineup: []string{"h1"}},
		Away:      match.SideSetup{Team: team.TeamSnapshot{ID: "away"}, Roster: []string{"a1"}, Lineup: []string{"a1"}},
	}
	require.NoError(t, repo.Save(ctx, cp))
	cp.Events = []match.Event{{ID: "m2-e0001", Type: match.EventCorner, TeamID: "home", PlayerID: "h1", Minute: 3}}
	require.NoError(t, repo.Save(ctx, cp))

	got, ok, err := repo.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "m2", got.MatchID)
	assert.Len(t, got.Events, 1)

	require.NoError(t, repo.Clear(ctx))
	_, ok, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
