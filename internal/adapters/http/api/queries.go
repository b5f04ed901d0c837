// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// QueriesHandler handles the read-side endpoints.
type QueriesHandler struct {
	deps         Dependencies
	maxGroupPage int
}

// NewQueriesHandler creates a new queries handler.
func NewQueriesHandler(deps Dependencies, maxGroupPage int) *QueriesHandler {
	return &QueriesHandler{
		deps:         deps,
		maxGroupPage: maxGroupPage,
	}
}

// HandleGroupScores handles GET /api/groups/{id}/scores?limit=N requests.
func (h *QueriesHandler) HandleGroupScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.group_scores"

	groupID := r.PathValue("id")

	limit := h.maxGroupPage
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxGroupPage {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	scores, err := h.deps.TeamScoresByGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(scores) > limit {
		scores = scores[:limit]
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleJudgeScores handles GET /api/judges/{id}/scores?phase=P requests.
func (h *QueriesHandler) HandleJudgeScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.judge_scores"

	judgeID := r.PathValue("id")
	phaseID := r.URL.Query().Get("phase")
	if phaseID == "" {
		writeError(w, http.StatusBadRequest, "missing_phase", NewKind(op, ErrBadRequest))
		return
	}

	scores, err := h.deps.JudgeScoresByPhase(r.Context(), judgeID, phaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandleTeamOverview handles GET /api/teams/{id}/overview?phase=P requests.
func (h *QueriesHandler) HandleTeamOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_overview"

	teamID := r.PathValue("id")
	phaseID := r.URL.Query().Get("phase")
	if phaseID == "" {
		writeError(w, http.StatusBadRequest, "missing_phase", NewKind(op, ErrBadRequest))
		return
	}

	overview, err := h.deps.TeamOverview(r.Context(), teamID, phaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
