package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/match-tracker/internal/config"
	"github.com/riskibarqy/match-tracker/internal/domain/match"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/match-tracker/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/seed"
	"github.com/riskibarqy/match-tracker/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

// App holds the HTTP server and the resources it must release on shutdown.
type App struct {
	Server *http.Server

	logger  *logging.Logger
	closers []func() error
}

type repositories struct {
	teams       team.Repository
	history     match.HistoryRepository
	checkpoints match.CheckpointRepository
}

// New wires storage, services and the router. A checkpointed live match is
// resumed and pending stats are re-applied before the server is returned.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{logger: logger}

	seedTeams, err := loadSeed(cfg, logger)
	if err != nil {
		return nil, err
	}

	repos, err := app.buildRepositories(ctx, cfg, seedTeams)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	aggregator := usecase.NewStatsAggregator(repos.teams, repos.history, logger)
	teamSvc := usecase.NewTeamService(
		repos.teams,
		repos.history,
		repos.checkpoints,
		seedTeams,
		idgen.NewUUIDGenerator(""),
		logger,
	)
	matchSvc := usecase.NewMatchService(
		repos.teams,
		repos.history,
		repos.checkpoints,
		aggregator,
		idgen.NewUUIDGenerator("match-"),
		logger,
	)
	teamStatsSvc := usecase.NewTeamStatsService(repos.teams, repos.history, cfg.StandingsWorkers, logger)
	historySvc := usecase.NewMatchHistoryService(repos.history, logger)

	recoverState(ctx, matchSvc, aggregator, logger)

	handler := httpapi.NewHandler(teamSvc, teamStatsSvc, matchSvc, historySvc, aggregator, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		AdminEnabled:       cfg.AdminEnabled,
		AdminToken:         cfg.AdminToken,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

// Close releases database and cache connections in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config, seedTeams []team.Team) (repositories, error) {
	var (
		repos repositories
		db    *sqlx.DB
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		conn, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, conn.Close)
		db = conn

		if err := db.PingContext(ctx); err != nil {
			return repositories{}, fmt.Errorf("ping database: %w", err)
		}
		if err := postgres.BootstrapSeed(ctx, db, seedTeams); err != nil {
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}

		repos.teams = postgres.NewTeamRepository(db)
		repos.history = postgres.NewMatchHistoryRepository(db)
		a.logger.Info("storage configured", "driver", config.StoragePostgres, "db", dbNameFromURL(cfg.DBURL))
	default:
		repos.teams = memory.NewTeamRepository(seedTeams)
		repos.history = memory.NewHistoryRepository()
		a.logger.Info("storage configured", "driver", config.StorageMemory)
	}

	switch cfg.CheckpointDriver {
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, client.Close)

		store := redisrepo.NewCheckpointStore(redisrepo.Config{
			Client:    client,
			KeyPrefix: cfg.RedisKeyPrefix,
			TTL:       cfg.CheckpointTTL,
		})
		if err := store.Ping(ctx); err != nil {
			return repositories{}, err
		}
		repos.checkpoints = store
		a.logger.Info("checkpoint store configured", "driver", config.StorageRedis, "addr", cfg.RedisAddr)
	case config.StoragePostgres:
		if db == nil {
			return repositories{}, fmt.Errorf("postgres checkpoint store requires postgres storage")
		}
		repos.checkpoints = postgres.NewCheckpointRepository(db)
		a.logger.Info("checkpoint store configured", "driver", config.StoragePostgres)
	default:
		repos.checkpoints = memory.NewCheckpointRepository()
		a.logger.Info("checkpoint store configured", "driver", config.StorageMemory)
	}

	return repos, nil
}

func loadSeed(cfg config.Config, logger *logging.Logger) ([]team.Team, error) {
	path := strings.TrimSpace(cfg.SeedFile)
	if path == "" {
		return seed.DefaultTeams(), nil
	}

	teams, err := seed.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", path, err)
	}
	logger.Info("seed rosters loaded", "path", path, "teams", len(teams))

	return teams, nil
}

func recoverState(ctx context.Context, matches *usecase.MatchService, aggregator *usecase.StatsAggregator, logger *logging.Logger) {
	resumed, err := matches.Resume(ctx)
	switch {
	case err != nil:
		logger.Warn("resume live match failed", "error", err)
	case resumed:
		logger.Info("live match restored from checkpoint")
	}

	report, err := aggregator.ReapplyPending(ctx)
	if err != nil {
		logger.Warn("reapply pending stats failed",
			"pending", report.Pending,
			"completed", report.Completed,
			"error", err,
		)
		return
	}
	if report.Pending > 0 {
		logger.Info("pending stats reapplied", "pending", report.Pending, "completed", report.Completed)
	}
}
