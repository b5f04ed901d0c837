// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	service "github.com/hackarena/podium/internal/app"
)

// ScoresHandler handles score submission and revision requests.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// scoreItemRequest mirrors one criterion score in the submit payload.
type scoreItemRequest struct {
	CriterionID string  `json:"criterion_id" validate:"required"`
	Value       float64 `json:"value" validate:"gte=0"`
	Comment     string  `json:"comment"`
}

// submitScoresRequest mirrors the payload of POST /api/submissions/{id}/scores.
type submitScoresRequest struct {
	JudgeID string             `json:"judge_id" validate:"required"`
	Scores  []scoreItemRequest `json:"scores" validate:"required,min=1,dive"`
}

// updateScoreRequest mirrors the payload of PUT /api/scores/{id}.
type updateScoreRequest struct {
	JudgeID string  `json:"judge_id" validate:"required"`
	Value   float64 `json:"value" validate:"gte=0"`
	Comment string  `json:"comment"`
}

// HandleSubmitScores handles POST /api/submissions/{id}/scores requests.
func (h *ScoresHandler) HandleSubmitScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_scores"

	submissionID := r.PathValue("id")
	var req submitScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	items := make([]service.ScoreItemInput, len(req.Scores))
	for i, item := range req.Scores {
		items[i] = service.ScoreItemInput{
			CriterionID: item.CriterionID,
			Value:       item.Value,
			Comment:     item.Comment,
		}
	}

	result, err := h.deps.SubmitScores(r.Context(), req.JudgeID, submissionID, items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// HandleUpdateScore handles PUT /api/scores/{id} requests.
func (h *ScoresHandler) HandleUpdateScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_score"

	scoreID := r.PathValue("id")
	var req updateScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.UpdateScoreByID(r.Context(), req.JudgeID, scoreID, req.Value, req.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
