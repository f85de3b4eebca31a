package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-tracker/internal/domain/team"
	"github.com/riskibarqy/match-tracker/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/match-tracker/internal/platform/id"
	"github.com/riskibarqy/match-tracker/internal/platform/logging"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

type testEnvelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func rosterTeam(id string, size int) team.Team {
	positions := []team.Position{team.PositionGoalkeeper, team.PositionDefender, team.PositionDefender, team.PositionDefender, team.PositionDefender}
	players := make([]team.Player, 0, size)
	for i := 1; i <= size; i++ {
		position := team.PositionForward
		if i <= len(positions) {
			position = positions[i-1]
		} else if i <= 8 {
			position = team.PositionMidfielder
		}
		players = append(players, team.Player{
			ID:           fmt.Sprintf("%s-%d", id, i),
			Name:         fmt.Sprintf("%s player %d", id, i),
			JerseyNumber: i,
			Position:     position,
		})
	}
	return team.Team{ID: id, Name: id, Color: "#336699", Players: players, Protected: true}
}

func newTestServer(t *testing.T, opts RouterOptions) *httptest.Server {
	t.Helper()

	seed := []team.Team{rosterTeam("home", 13), rosterTeam("away", 11)}
	logger := logging.NewNop()
	teams := memory.NewTeamRepository(seed)
	history := memory.NewHistoryRepository()
	checkpoints := memory.NewCheckpointRepository()

	aggregator := usecase.NewStatsAggregator(teams, history, logger)
	handler := NewHandler(
		usecase.NewTeamService(teams, history, checkpoints, seed, idgen.NewSequenceGenerator("team"), logger),
		usecase.NewTeamStatsService(teams, history, 2, logger),
		usecase.NewMatchService(teams, history, checkpoints, aggregator, idgen.NewSequenceGenerator("match"), logger),
		usecase.NewMatchHistoryService(history, logger),
		aggregator,
		logger,
	)

	if opts.CORSAllowedOrigins == nil {
		opts.CORSAllowedOrigins = []string{"*"}
	}
	server := httptest.NewServer(NewRouter(handler, logger, opts))
	t.Cleanup(server.Close)
	return server
}

func call[T any](t *testing.T, server *httptest.Server, method, path string, body any, headers ...string) (int, testEnvelope[T]) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out testEnvelope[T]
	if resp.StatusCode != http.StatusNoContent {
		if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode, out
}

func TestHandler_LiveMatchFlow(t *testing.T) {
	server := newTestServer(t, RouterOptions{})

	status, started := call[liveMatchDTO](t, server, http.MethodPost, "/v1/matches/live", map[string]any{
		"home_team_id": "home",
		"away_team_id": "away",
	})
	if status != http.StatusCreated {
		t.Fatalf("start match: status=%d error=%+v", status, started.Error)
	}
	if started.Data.ID != "match-1" || len(started.Data.Home.Lineup) != 11 || len(started.Data.Home.Bench) != 2 {
		t.Fatalf("unexpected live match: %+v", started.Data)
	}

	status, conflict := call[any](t, server, http.MethodPost, "/v1/matches/live", map[string]any{
		"home_team_id": "home",
		"away_team_id": "away",
	})
	if status != http.StatusConflict || conflict.Error.Errors[0].Reason != "matchInProgress" {
		t.Fatalf("expected 409 matchInProgress, got %d %+v", status, conflict.Error)
	}

	status, recorded := call[recordEventDTO](t, server, http.MethodPost, "/v1/matches/live/events", map[string]any{
		"team_id":           "home",
		"player_id":         "home-9",
		"type":              "goal",
		"minute":            23,
		"related_player_id": "home-7",
	})
	if status != http.StatusCreated {
		t.Fatalf("record goal: status=%d error=%+v", status, recorded.Error)
	}
	if len(recorded.Data.Recorded) != 2 || recorded.Data.Recorded[1].Type != "assist" {
		t.Fatalf("expected goal and assist events, got %+v", recorded.Data.Recorded)
	}
	if recorded.Data.Match.Home.Score != 1 || recorded.Data.Recorded[0].ClockLabel != "23'" {
		t.Fatalf("unexpected live state after goal: %+v", recorded.Data.Match.Home)
	}

	for i := 0; i < 2; i++ {
		status, _ = call[recordEventDTO](t, server, http.MethodPost, "/v1/matches/live/events", map[string]any{
			"team_id":   "away",
			"player_id": "away-4",
			"type":      "yellowCard",
		})
		if status != http.StatusCreated {
			t.Fatalf("yellow card %d: status=%d", i+1, status)
		}
	}

	status, rejected := call[any](t, server, http.MethodPost, "/v1/matches/live/events", map[string]any{
		"team_id":   "away",
		"player_id": "away-4",
		"type":      "foul",
	})
	if status != http.StatusBadRequest || rejected.Error.Errors[0].Reason != "playerExpelled" {
		t.Fatalf("expected 400 playerExpelled, got %d %+v", status, rejected.Error)
	}

	status, ended := call[endMatchDTO](t, server, http.MethodPost, "/v1/matches/live/end", nil)
	if status != http.StatusOK {
		t.Fatalf("end match: status=%d error=%+v", status, ended.Error)
	}
	if ended.Data.Match.HomeScore != 1 || ended.Data.Match.AwayScore != 0 || !ended.Data.Stats.Complete {
		t.Fatalf("unexpected end result: %+v", ended.Data)
	}

	status, _ = call[any](t, server, http.MethodGet, "/v1/matches/live", nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected no live match after end, got %d", status)
	}

	status, homeTeam := call[teamDTO](t, server, http.MethodGet, "/v1/teams/home", nil)
	if status != http.StatusOK {
		t.Fatalf("get team: status=%d", status)
	}
	for _, p := range homeTeam.Data.Players {
		if p.ID == "home-9" && (p.Stats.Goals != 1 || p.Stats.MatchesPlayed != 1) {
			t.Fatalf("unexpected scorer stats: %+v", p.Stats)
		}
	}

	status, standings := call[[]standingRowDTO](t, server, http.MethodGet, "/v1/standings", nil)
	if status != http.StatusOK || len(standings.Data) != 2 || standings.Data[0].Team.ID != "home" || standings.Data[0].Stats.Points != 3 {
		t.Fatalf("unexpected standings: status=%d %+v", status, standings.Data)
	}

	status, matches := call[[]matchSummaryDTO](t, server, http.MethodGet, "/v1/matches?team_id=away", nil)
	if status != http.StatusOK || len(matches.Data) != 1 || matches.Data[0].ID != "match-1" {
		t.Fatalf("unexpected match list: status=%d %+v", status, matches.Data)
	}

	status, detail := call[finalizedMatchDTO](t, server, http.MethodGet, "/v1/matches/match-1", nil)
	if status != http.StatusOK || len(detail.Data.Events) != 5 || !detail.Data.StatsApplied {
		t.Fatalf("unexpected match detail: status=%d %+v", status, detail.Data)
	}
}

func TestHandler_ClockActions(t *testing.T) {
	server := newTestServer(t, RouterOptions{})

	if status, _ := call[liveMatchDTO](t, server, http.MethodPost, "/v1/matches/live", map[string]any{
		"home_team_id": "home",
		"away_team_id": "away",
	}); status != http.StatusCreated {
		t.Fatalf("start match: status=%d", status)
	}

	status, view := call[liveMatchDTO](t, server, http.MethodPost, "/v1/matches/live/clock/start", nil)
	if status != http.StatusOK || !view.Data.Clock.Running || view.Data.Clock.Half != 1 {
		t.Fatalf("unexpected clock after start: status=%d clock=%+v", status, view.Data.Clock)
	}

	status, early := call[any](t, server, http.MethodPost, "/v1/matches/live/clock/stoppage", map[string]any{"delta": 3})
	if status != http.StatusBadRequest || early.Error.Errors[0].Reason != "invalidInput" {
		t.Fatalf("expected stoppage before the half ends to be rejected, got %d", status)
	}

	status, view = call[liveMatchDTO](t, server, http.MethodPost, "/v1/matches/live/clock/pause", nil)
	if status != http.StatusOK || view.Data.Clock.Running {
		t.Fatalf("unexpected clock after pause: status=%d clock=%+v", status, view.Data.Clock)
	}

	status, bad := call[any](t, server, http.MethodPost, "/v1/matches/live/clock/rewind", nil)
	if status != http.StatusBadRequest || bad.Error.Errors[0].Reason != "invalidInput" {
		t.Fatalf("expected 400 for unknown action, got %d %+v", status, bad.Error)
	}

	if status, _ := call[any](t, server, http.MethodDelete, "/v1/matches/live", nil); status != http.StatusNoContent {
		t.Fatalf("abandon: status=%d", status)
	}
}

func TestHandler_TeamCRUD(t *testing.T) {
	server := newTestServer(t, RouterOptions{})

	players := make([]map[string]any, 0, 11)
	for i := 1; i <= 11; i++ {
		players = append(players, map[string]any{
			"name":          fmt.Sprintf("Guest %d", i),
			"jersey_number": i,
			"position":      "MED",
		})
	}

	status, created := call[teamDTO](t, server, http.MethodPost, "/v1/teams", map[string]any{
		"name":    "Guests",
		"color":   "#AABBCC",
		"players": players,
	})
	if status != http.StatusCreated {
		t.Fatalf("create team: status=%d error=%+v", status, created.Error)
	}
	if created.Data.ID != "team-1" || created.Data.Protected || created.Data.Players[0].Position != "MID" {
		t.Fatalf("unexpected created team: %+v", created.Data)
	}

	status, lineup := call[defaultLineupDTO](t, server, http.MethodGet, "/v1/teams/home/default-lineup", nil)
	if status != http.StatusOK || len(lineup.Data.PlayerIDs) != 11 || lineup.Data.PlayerIDs[0] != "home-1" {
		t.Fatalf("unexpected default lineup: status=%d %+v", status, lineup.Data)
	}

	status, invalid := call[any](t, server, http.MethodPost, "/v1/teams", map[string]any{
		"name":    "Too Small",
		"color":   "#AABBCC",
		"players": players[:5],
	})
	if status != http.StatusBadRequest || invalid.Error.Errors[0].Reason != "invalidInput" {
		t.Fatalf("expected 400 for short roster, got %d", status)
	}

	status, unknownField := call[any](t, server, http.MethodPost, "/v1/teams", map[string]any{
		"name":      "Guests",
		"color":     "#AABBCC",
		"players":   players,
		"protected": true,
	})
	if status != http.StatusBadRequest || unknownField.Error == nil {
		t.Fatalf("expected unknown fields to be rejected, got %d", status)
	}

	status, forbidden := call[any](t, server, http.MethodDelete, "/v1/teams/home", nil)
	if status != http.StatusForbidden || forbidden.Error.Errors[0].Reason != "protectedTeam" {
		t.Fatalf("expected 403 deleting protected team, got %d", status)
	}

	if status, _ := call[any](t, server, http.MethodDelete, "/v1/teams/team-1", nil); status != http.StatusNoContent {
		t.Fatalf("delete team: status=%d", status)
	}
	if status, _ := call[any](t, server, http.MethodGet, "/v1/teams/team-1/stats", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted team stats, got %d", status)
	}
}

func TestHandler_AdminRoutes(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		server := newTestServer(t, RouterOptions{AdminEnabled: false})

		resp, err := server.Client().Post(server.URL+"/v1/admin/reset", "application/json", nil)
		if err != nil {
			t.Fatalf("post reset: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected admin routes to be absent, got %d", resp.StatusCode)
		}
	})

	t.Run("token required", func(t *testing.T) {
		server := newTestServer(t, RouterOptions{AdminEnabled: true, AdminToken: "secret"})

		status, denied := call[any](t, server, http.MethodPost, "/v1/admin/reset", nil)
		if status != http.StatusUnauthorized || denied.Error.Errors[0].Reason != "unauthorized" {
			t.Fatalf("expected 401 without token, got %d", status)
		}

		if status, _ := call[liveMatchDTO](t, server, http.MethodPost, "/v1/matches/live", map[string]any{
			"home_team_id": "home",
			"away_team_id": "away",
		}); status != http.StatusCreated {
			t.Fatalf("start match: status=%d", status)
		}

		if status, _ := call[any](t, server, http.MethodPost, "/v1/admin/reset", nil, adminTokenHeader, "secret"); status != http.StatusNoContent {
			t.Fatalf("reset: status=%d", status)
		}
		if status, _ := call[any](t, server, http.MethodGet, "/v1/matches/live", nil); status != http.StatusNotFound {
			t.Fatalf("expected reset to abandon the live match, got %d", status)
		}

		status, reapplied := call[reapplyDTO](t, server, http.MethodPost, "/v1/admin/stats/reapply", nil, adminTokenHeader, "secret")
		if status != http.StatusOK || reapplied.Data.Pending != 0 {
			t.Fatalf("unexpected reapply: status=%d %+v", status, reapplied.Data)
		}
	})
}

func TestHandler_Healthz(t *testing.T) {
	server := newTestServer(t, RouterOptions{})

	status, body := call[map[string]string](t, server, http.MethodGet, "/healthz", nil)
	if status != http.StatusOK || body.Data["status"] != "ok" {
		t.Fatalf("unexpected healthz: status=%d body=%+v", status, body)
	}
}
