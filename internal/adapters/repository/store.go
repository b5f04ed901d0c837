// Package repository defines the engine's data-access contract and errors.
//
// Persistence plumbing lives behind the Store interface; the engine only
// issues filtered reads and batched writes. Implementations must make
// Atomically all-or-nothing so averages, ranks, and ledger rows never
// diverge after a failure.
package repository

import (
	"context"

	"github.com/hackarena/podium/internal/domain/model"
)

// Store provides read/write access to the scoring state.
type Store interface {
	// Submissions.

	// SubmissionByID returns a submission or ErrNotFound.
	SubmissionByID(ctx context.Context, id string) (model.Submission, error)
	// SubmissionsByTeamPhase returns every submission of a team in a phase.
	SubmissionsByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.Submission, error)

	// Score ledger.

	// ScoreByID returns a score or ErrNotFound.
	ScoreByID(ctx context.Context, id string) (model.Score, error)
	// ScoresBySubmission returns every score of a submission across judges.
	ScoresBySubmission(ctx context.Context, submissionID string) ([]model.Score, error)
	// ScoresByJudgeSubmission returns one judge's scores for a submission.
	ScoresByJudgeSubmission(ctx context.Context, judgeID, submissionID string) ([]model.Score, error)
	// ScoresByJudgePhase returns every score a judge gave in a phase.
	ScoresByJudgePhase(ctx context.Context, judgeID, phaseID string) ([]model.Score, error)
	// ScoresByTeamPhase returns every score against a team's submissions in
	// a phase, resolved through the scored criterion's phase.
	ScoresByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.Score, error)
	// AddScores appends score rows to the ledger.
	AddScores(ctx context.Context, scores []model.Score) error
	// UpdateScore overwrites an existing score row or returns ErrNotFound.
	UpdateScore(ctx context.Context, score model.Score) error

	// Phases and criteria.

	// PhaseByID returns a phase or ErrNotFound.
	PhaseByID(ctx context.Context, id string) (model.Phase, error)
	// PhasesByHackathon returns every phase of a hackathon.
	PhasesByHackathon(ctx context.Context, hackathonID string) ([]model.Phase, error)
	// CriterionByID returns a criterion or ErrNotFound.
	CriterionByID(ctx context.Context, id string) (model.Criterion, error)
	// CriteriaByPhase lists criteria; an empty phaseID lists all of them.
	CriteriaByPhase(ctx context.Context, phaseID string) ([]model.Criterion, error)
	// AddCriteria inserts a batch of criteria.
	AddCriteria(ctx context.Context, criteria []model.Criterion) error
	// UpdateCriterion overwrites a criterion or returns ErrNotFound.
	UpdateCriterion(ctx context.Context, criterion model.Criterion) error
	// RemoveCriterion deletes a criterion or returns ErrNotFound.
	RemoveCriterion(ctx context.Context, id string) error

	// Judges.

	// AssignmentsByJudgeHackathon returns a judge's assignments for a hackathon.
	AssignmentsByJudgeHackathon(ctx context.Context, judgeID, hackathonID string) ([]model.JudgeAssignment, error)

	// Teams, groups, and derived group state.

	// TeamByID returns a team or ErrNotFound.
	TeamByID(ctx context.Context, id string) (model.Team, error)
	// GroupByID returns a group or ErrNotFound.
	GroupByID(ctx context.Context, id string) (model.Group, error)
	// TrackByID returns a track or ErrNotFound.
	TrackByID(ctx context.Context, id string) (model.Track, error)
	// GroupsByPhase returns every group whose track belongs to the phase.
	GroupsByPhase(ctx context.Context, phaseID string) ([]model.Group, error)
	// GroupTeamByTeamPhase resolves a team's group membership for a phase
	// through group -> track -> phase, or ErrNotFound.
	GroupTeamByTeamPhase(ctx context.Context, teamID, phaseID string) (model.GroupTeam, error)
	// GroupTeamsByGroup returns every membership of a group.
	GroupTeamsByGroup(ctx context.Context, groupID string) ([]model.GroupTeam, error)
	// GroupTeamsByPhase returns every membership across the phase's groups.
	GroupTeamsByPhase(ctx context.Context, phaseID string) ([]model.GroupTeam, error)
	// SaveGroupTeams overwrites membership rows with new averages/ranks.
	SaveGroupTeams(ctx context.Context, groupTeams []model.GroupTeam) error

	// Penalties and bonuses.

	// PenaltiesByTeamPhase returns all adjustment rows for a team in a
	// phase, including soft-deleted ones.
	PenaltiesByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.PenaltyBonus, error)
	// PenaltiesByPhase returns all adjustment rows of a phase.
	PenaltiesByPhase(ctx context.Context, phaseID string) ([]model.PenaltyBonus, error)

	// Hackathon-wide rankings.

	// RankingByTeamHackathon returns a team's ranking row or ErrNotFound.
	RankingByTeamHackathon(ctx context.Context, teamID, hackathonID string) (model.Ranking, error)
	// RankingsByHackathon returns every ranking row of a hackathon.
	RankingsByHackathon(ctx context.Context, hackathonID string) ([]model.Ranking, error)
	// UpsertRanking creates or overwrites the (team, hackathon) ranking row.
	UpsertRanking(ctx context.Context, ranking model.Ranking) error
	// SaveRankings overwrites ranking rows with recomputed ranks.
	SaveRankings(ctx context.Context, rankings []model.Ranking) error

	// Qualifications.

	// QualificationExists reports whether a (team, phase) qualification row
	// already exists.
	QualificationExists(ctx context.Context, teamID, phaseID string) (bool, error)
	// AddQualification inserts a qualification row; ErrConflict when the
	// (team, phase) pair already exists.
	AddQualification(ctx context.Context, q model.FinalQualification) error
	// QualificationsByHackathon returns qualification rows whose team
	// belongs to the hackathon.
	QualificationsByHackathon(ctx context.Context, hackathonID string) ([]model.FinalQualification, error)

	// Atomically runs fn against a transactional view of the store and
	// commits its writes as one durable batch. When fn returns an error
	// nothing is persisted.
	Atomically(ctx context.Context, fn func(Store) error) error
}
