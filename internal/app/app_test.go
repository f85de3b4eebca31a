package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/match-tracker/internal/config"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:           config.EnvDev,
		ServiceName:      "match-tracker-api",
		HTTPAddr:         ":0",
		ReadTimeout:      time.Second,
		WriteTimeout:     time.Second,
		StorageDriver:    config.StorageMemory,
		CheckpointDriver: config.StorageMemory,
		StandingsWorkers: 2,
	}
}

func TestNew_MemoryStorageServesRoutes(t *testing.T) {
	app, err := New(t.Context(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if app.Server.Addr != ":0" || app.Server.ReadTimeout != time.Second {
		t.Fatalf("unexpected server config: addr=%s read=%s", app.Server.Addr, app.Server.ReadTimeout)
	}

	for _, path := range []string{"/healthz", "/v1/teams", "/v1/standings"} {
		rec := httptest.NewRecorder()
		app.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d body=%s", path, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/admin/reset", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("admin routes must be off by default, got %d", rec.Code)
	}
}

func TestNew_RejectsInvalidWiring(t *testing.T) {
	t.Run("empty addr", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.HTTPAddr = " "
		if _, err := New(t.Context(), cfg, nil); err == nil {
			t.Fatalf("expected error for empty addr")
		}
	})

	t.Run("missing seed file", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.SeedFile = "testdata/does-not-exist.yaml"
		if _, err := New(t.Context(), cfg, nil); err == nil {
			t.Fatalf("expected error for missing seed file")
		}
	})

	t.Run("postgres checkpoint without database", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.CheckpointDriver = config.StoragePostgres
		if _, err := New(t.Context(), cfg, nil); err == nil {
			t.Fatalf("expected error for postgres checkpoint on memory storage")
		}
	})

	t.Run("postgres without url", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.StorageDriver = config.StoragePostgres
		if _, err := New(t.Context(), cfg, nil); err == nil {
			t.Fatalf("expected error for missing DB_URL")
		}
	})
}
