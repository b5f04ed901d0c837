// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	service "github.com/hackarena/podium/internal/app"
)

// CriteriaHandler handles judging criteria management.
type CriteriaHandler struct {
	deps Dependencies
}

// NewCriteriaHandler creates a new criteria handler.
func NewCriteriaHandler(deps Dependencies) *CriteriaHandler {
	return &CriteriaHandler{deps: deps}
}

// criterionRequest mirrors one criterion definition in create/update payloads.
type criterionRequest struct {
	Name   string  `json:"name" validate:"required"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

// createCriteriaRequest mirrors the payload of POST /api/phases/{id}/criteria.
type createCriteriaRequest struct {
	Criteria []criterionRequest `json:"criteria" validate:"required,min=1,dive"`
}

// HandleCreateCriteria handles POST /api/phases/{id}/criteria requests.
func (h *CriteriaHandler) HandleCreateCriteria(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_criteria"

	phaseID := r.PathValue("id")
	var req createCriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	items := make([]service.CriterionInput, len(req.Criteria))
	for i, c := range req.Criteria {
		items[i] = service.CriterionInput{Name: c.Name, Weight: c.Weight}
	}

	created, err := h.deps.CreateCriteria(r.Context(), phaseID, items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleListCriteria handles GET /api/criteria?phase=P requests. The phase
// filter is optional.
func (h *CriteriaHandler) HandleListCriteria(w http.ResponseWriter, r *http.Request) {
	phaseID := r.URL.Query().Get("phase")

	criteria, err := h.deps.ListCriteria(r.Context(), phaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, criteria)
}

// HandleGetCriterion handles GET /api/criteria/{id} requests.
func (h *CriteriaHandler) HandleGetCriterion(w http.ResponseWriter, r *http.Request) {
	criterion, err := h.deps.GetCriterion(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, criterion)
}

// HandleUpdateCriterion handles PUT /api/criteria/{id} requests.
func (h *CriteriaHandler) HandleUpdateCriterion(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_criterion"

	var req criterionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	updated, err := h.deps.UpdateCriterion(r.Context(), r.PathValue("id"), service.CriterionInput{
		Name:   req.Name,
		Weight: req.Weight,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// HandleDeleteCriterion handles DELETE /api/criteria/{id} requests.
func (h *CriteriaHandler) HandleDeleteCriterion(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteCriterion(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
