package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/riskibarqy/match-tracker/internal/usecase"
)

func (h *Handler) StartMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartMatch")
	defer span.End()

	var req startMatchRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.matchService.Start(ctx, usecase.StartMatchInput{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		HomeLineup: req.HomeLineup,
		AwayLineup: req.AwayLineup,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start match failed", "home_team_id", req.HomeTeamID, "away_team_id", req.AwayTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, liveMatchToDTO(view))
}

func (h *Handler) GetLiveMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveMatch")
	defer span.End()

	view, err := h.matchService.Current(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveMatchToDTO(view))
}

func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordEvent")
	defer span.End()

	var req recordEventRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.RecordEvent(ctx, usecase.RecordEventInput{
		TeamID:          req.TeamID,
		PlayerID:        req.PlayerID,
		Type:            req.Type,
		Minute:          req.Minute,
		RelatedPlayerID: req.RelatedPlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record event rejected",
			"team_id", req.TeamID,
			"player_id", req.PlayerID,
			"type", req.Type,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recordEventDTO{
		Recorded: eventsToDTO(result.Recorded),
		Match:    liveMatchToDTO(result.Match),
	})
}

func (h *Handler) ControlClock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ControlClock")
	defer span.End()

	input := usecase.ClockInput{Action: strings.TrimSpace(r.PathValue("action"))}
	if input.Action == usecase.ClockActionStoppage {
		var req clockRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		input.StoppageDelta = req.Delta
	}

	view, err := h.matchService.Clock(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "clock action failed", "action", input.Action, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveMatchToDTO(view))
}

func (h *Handler) EndMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EndMatch")
	defer span.End()

	result, err := h.matchService.End(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "end match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, endMatchDTO{
		Match: finalizedMatchToDTO(result.Match),
		Stats: aggregationReportToDTO(result.Stats),
	})
}

func (h *Handler) AbandonMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AbandonMatch")
	defer span.End()

	if err := h.matchService.Abandon(ctx); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	teamID := strings.TrimSpace(r.URL.Query().Get("team_id"))
	items, err := h.historyService.List(ctx, teamID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchSummaryToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	item, err := h.historyService.Get(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, finalizedMatchToDTO(item))
}

// ResetData abandons any live match, then restores the default rosters and
// clears history.
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetData")
	defer span.End()

	if err := h.matchService.Abandon(ctx); err != nil && !errors.Is(err, usecase.ErrNoLiveMatch) {
		h.logger.ErrorContext(ctx, "abandon live match before reset failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if err := h.teamService.Reset(ctx); err != nil {
		h.logger.ErrorContext(ctx, "reset data failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.WarnContext(ctx, "data reset to defaults")
	writeNoContent(w)
}

func (h *Handler) ReapplyStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReapplyStats")
	defer span.End()

	report, err := h.aggregator.ReapplyPending(ctx)
	if err != nil && report.Pending == 0 {
		h.logger.ErrorContext(ctx, "reapply stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if err != nil {
		h.logger.WarnContext(ctx, "reapply stats incomplete", "pending", report.Pending, "completed", report.Completed, "error", err)
	}

	reports := make([]aggregationReportDTO, 0, len(report.Reports))
	for _, item := range report.Reports {
		reports = append(reports, aggregationReportToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, reapplyDTO{
		Pending:   report.Pending,
		Completed: report.Completed,
		Reports:   reports,
	})
}
