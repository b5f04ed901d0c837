package api

import (
	"errors"
	"fmt"

	service "github.com/hackarena/podium/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrServe      = errors.New("http serve failed")
	ErrBadRequest = errors.New("bad request")
)

// NewKind tags a sentinel with the operation that raised it.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel and keeps the underlying cause in the chain.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// statusFor translates engine sentinel errors into HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrPhaseNotFound),
		errors.Is(err, service.ErrCriterionNotFound),
		errors.Is(err, service.ErrScoreNotFound),
		errors.Is(err, service.ErrTeamNotFound),
		errors.Is(err, service.ErrNoTeamsInGroup):
		return 404, "not_found"
	case errors.Is(err, service.ErrAlreadyScored),
		errors.Is(err, service.ErrNotFinalPhase):
		return 409, "conflict"
	case errors.Is(err, service.ErrJudgeNotAssigned),
		errors.Is(err, service.ErrNotScoreOwner):
		return 403, "forbidden"
	case errors.Is(err, service.ErrNoFinalPhase):
		return 422, "state_error"
	case errors.Is(err, service.ErrScoreOutOfRange),
		errors.Is(err, service.ErrInvalidCriterion),
		errors.Is(err, service.ErrNoScoresProvided),
		errors.Is(err, service.ErrNoCriteriaGiven),
		errors.Is(err, service.ErrEmptyCriterionName),
		errors.Is(err, service.ErrNonPositiveWeight):
		return 400, "bad_request"
	default:
		return 500, "internal_error"
	}
}
