// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// QualifyHandler handles qualification selection and finalist listing.
type QualifyHandler struct {
	deps Dependencies
}

// NewQualifyHandler creates a new qualification handler.
func NewQualifyHandler(deps Dependencies) *QualifyHandler {
	return &QualifyHandler{deps: deps}
}

// HandleSelectQualifiers handles POST /api/phases/{id}/qualifiers requests.
// The run is idempotent, so repeated calls return the same selection.
func (h *QualifyHandler) HandleSelectQualifiers(w http.ResponseWriter, r *http.Request) {
	phaseID := r.PathValue("id")

	qualified, err := h.deps.SelectQualifiers(r.Context(), phaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, qualified)
}

// HandleFinalists handles GET /api/phases/{id}/finalists requests.
func (h *QualifyHandler) HandleFinalists(w http.ResponseWriter, r *http.Request) {
	phaseID := r.PathValue("id")

	finalists, err := h.deps.Finalists(r.Context(), phaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, finalists)
}
