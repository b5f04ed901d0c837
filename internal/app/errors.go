package service

import "errors"

// Sentinel kinds for engine errors. The HTTP layer maps these to status
// codes; every rejection carries a human-readable reason.
var (
	// Not-found family.
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrPhaseNotFound      = errors.New("phase not found")
	ErrCriterionNotFound  = errors.New("criterion not found")
	ErrScoreNotFound      = errors.New("score not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrNoTeamsInGroup     = errors.New("no teams found for this group")

	// Validation family.
	ErrNoScoresProvided   = errors.New("no scores provided")
	ErrInvalidCriterion   = errors.New("criterion does not belong to the submission's phase")
	ErrScoreOutOfRange    = errors.New("score is outside the criterion weight bounds")
	ErrNoCriteriaGiven    = errors.New("at least one criterion is required")
	ErrEmptyCriterionName = errors.New("criterion name cannot be empty")
	ErrNonPositiveWeight  = errors.New("criterion weight must be greater than zero")

	// Authorization family.
	ErrJudgeNotAssigned = errors.New("judge is not assigned to this phase")
	ErrNotScoreOwner    = errors.New("only the judge who created a score may update it")

	// Conflict family.
	ErrAlreadyScored = errors.New("submission already scored by this judge; use the update path")
	ErrNotFinalPhase = errors.New("phase is not the final phase")

	// State family.
	ErrNoFinalPhase = errors.New("no valid final phase found for hackathon")
)
