// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	service "github.com/hackarena/podium/internal/app"
	"github.com/hackarena/podium/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Scoring workflow.
	SubmitScores(ctx context.Context, judgeID, submissionID string, items []service.ScoreItemInput) (types.SubmissionScores, error)
	UpdateScoreByID(ctx context.Context, judgeID, scoreID string, value float64, comment string) (types.ScoreDetail, error)

	// Read operations.
	TeamScoresByGroup(ctx context.Context, groupID string) ([]types.TeamScore, error)
	JudgeScoresByPhase(ctx context.Context, judgeID, phaseID string) ([]types.JudgeSubmissionScores, error)
	TeamOverview(ctx context.Context, teamID, phaseID string) (types.TeamOverview, error)

	// Qualification.
	SelectQualifiers(ctx context.Context, targetPhaseID string) ([]types.QualifiedTeam, error)
	Finalists(ctx context.Context, phaseID string) ([]types.Finalist, error)

	// Criteria management.
	CreateCriteria(ctx context.Context, phaseID string, items []service.CriterionInput) ([]types.CriterionView, error)
	ListCriteria(ctx context.Context, phaseID string) ([]types.CriterionView, error)
	GetCriterion(ctx context.Context, id string) (types.CriterionView, error)
	UpdateCriterion(ctx context.Context, id string, input service.CriterionInput) (types.CriterionView, error)
	DeleteCriterion(ctx context.Context, id string) error
}

// validate checks request payload tags; shared by all handlers.
var validate = validator.New()

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	scoresHandler   *ScoresHandler
	queriesHandler  *QueriesHandler
	qualifyHandler  *QualifyHandler
	criteriaHandler *CriteriaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxGroupPage int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		scoresHandler:   NewScoresHandler(deps),
		queriesHandler:  NewQueriesHandler(deps, maxGroupPage),
		qualifyHandler:  NewQualifyHandler(deps),
		criteriaHandler: NewCriteriaHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /api/submissions/{id}/scores", MetricsMiddleware(s.scoresHandler.HandleSubmitScores, "submit_scores"))
	mux.HandleFunc("PUT /api/scores/{id}", MetricsMiddleware(s.scoresHandler.HandleUpdateScore, "update_score"))

	mux.HandleFunc("GET /api/groups/{id}/scores", MetricsMiddleware(s.queriesHandler.HandleGroupScores, "group_scores"))
	mux.HandleFunc("GET /api/judges/{id}/scores", MetricsMiddleware(s.queriesHandler.HandleJudgeScores, "judge_scores"))
	mux.HandleFunc("GET /api/teams/{id}/overview", MetricsMiddleware(s.queriesHandler.HandleTeamOverview, "team_overview"))

	mux.HandleFunc("POST /api/phases/{id}/qualifiers", MetricsMiddleware(s.qualifyHandler.HandleSelectQualifiers, "select_qualifiers"))
	mux.HandleFunc("GET /api/phases/{id}/finalists", MetricsMiddleware(s.qualifyHandler.HandleFinalists, "finalists"))

	mux.HandleFunc("POST /api/phases/{id}/criteria", MetricsMiddleware(s.criteriaHandler.HandleCreateCriteria, "create_criteria"))
	mux.HandleFunc("GET /api/criteria", MetricsMiddleware(s.criteriaHandler.HandleListCriteria, "list_criteria"))
	mux.HandleFunc("GET /api/criteria/{id}", MetricsMiddleware(s.criteriaHandler.HandleGetCriterion, "get_criterion"))
	mux.HandleFunc("PUT /api/criteria/{id}", MetricsMiddleware(s.criteriaHandler.HandleUpdateCriterion, "update_criterion"))
	mux.HandleFunc("DELETE /api/criteria/{id}", MetricsMiddleware(s.criteriaHandler.HandleDeleteCriterion, "delete_criterion"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps engine sentinel errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
