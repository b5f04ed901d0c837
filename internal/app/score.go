package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/internal/domain/scoring"
	"github.com/hackarena/podium/internal/domain/types"
	"github.com/hackarena/podium/pkg/logger"
	"github.com/hackarena/podium/pkg/metrics"
)

// ScoreItemInput is one criterion score submitted by a judge.
type ScoreItemInput struct {
	CriterionID string
	Value       float64
	Comment     string
}

// SubmitScores runs the scoring workflow for one judge and submission:
// validate, reject duplicates, write one score row per criterion, then
// dispatch to the group or final aggregator depending on whether the
// submission's phase is the hackathon's final phase. The ledger writes and
// the aggregation commit as one batch.
func (s *Service) SubmitScores(ctx context.Context, judgeID, submissionID string, items []ScoreItemInput) (types.SubmissionScores, error) {
	var out types.SubmissionScores

	if len(items) == 0 {
		metrics.RecordScoreRejected("no_scores")
		return out, ErrNoScoresProvided
	}

	submission, err := s.store.SubmissionByID(ctx, submissionID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordScoreRejected("submission_not_found")
		return out, fmt.Errorf("%w: %s", ErrSubmissionNotFound, submissionID)
	}
	if err != nil {
		return out, fmt.Errorf("load submission: %w", err)
	}

	phase, err := s.store.PhaseByID(ctx, submission.PhaseID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordScoreRejected("phase_not_found")
		return out, fmt.Errorf("%w: %s", ErrPhaseNotFound, submission.PhaseID)
	}
	if err != nil {
		return out, fmt.Errorf("load phase: %w", err)
	}

	phases, err := s.store.PhasesByHackathon(ctx, phase.HackathonID)
	if err != nil {
		return out, fmt.Errorf("load phases: %w", err)
	}
	final, ok := finalPhase(phases)
	if !ok {
		return out, fmt.Errorf("%w: %s", ErrNoFinalPhase, phase.HackathonID)
	}
	isFinal := submission.PhaseID == final.ID

	if err := s.checkJudgeAssignment(ctx, judgeID, phase.HackathonID, submission.PhaseID); err != nil {
		metrics.RecordScoreRejected("judge_not_assigned")
		return out, err
	}

	// All-or-nothing validation pass before any write.
	for _, item := range items {
		if err := s.validateScoreItem(ctx, item, submission.PhaseID); err != nil {
			metrics.RecordScoreRejected("invalid_item")
			return out, err
		}
	}

	// Serialize per (judge, submission) so two simultaneous attempts cannot
	// both pass the duplicate check.
	submitKey := "submit:" + judgeID + ":" + submissionID
	if err := s.locks.Lock(ctx, submitKey); err != nil {
		return out, err
	}
	defer s.locks.Unlock(submitKey)

	existing, err := s.store.ScoresByJudgeSubmission(ctx, judgeID, submissionID)
	if err != nil {
		return out, fmt.Errorf("check existing scores: %w", err)
	}
	if len(existing) > 0 {
		metrics.RecordScoreRejected("already_scored")
		return out, fmt.Errorf("%w: submission %s", ErrAlreadyScored, submissionID)
	}

	scoredAt := s.now()
	rows := make([]model.Score, len(items))
	for i, item := range items {
		rows[i] = model.Score{
			ID:           uuid.NewString(),
			SubmissionID: submission.ID,
			JudgeID:      judgeID,
			CriterionID:  item.CriterionID,
			Value:        item.Value,
			Comment:      item.Comment,
			ScoredAt:     scoredAt,
		}
	}

	if err := s.writeAndAggregate(ctx, submission, phase.HackathonID, isFinal, func(tx repository.Store) error {
		return tx.AddScores(ctx, rows)
	}); err != nil {
		return out, err
	}

	metrics.RecordScoresSubmitted(len(rows))
	s.logger.Info(ctx, "scores accepted",
		logger.String("judgeID", judgeID),
		logger.String("submissionID", submissionID),
		logger.Int("items", len(rows)),
	)
	s.notify(ctx, submission.TeamID, "Your submission received new scores.")

	out.SubmissionID = submission.ID
	out.Scores = make([]types.ScoreItem, len(items))
	for i, item := range items {
		out.Scores[i] = types.ScoreItem{
			CriterionID: item.CriterionID,
			Value:       item.Value,
			Comment:     item.Comment,
		}
	}
	return out, nil
}

// UpdateScoreByID overwrites one score owned by the requesting judge and
// re-aggregates the affected team. Final phase updates re-rank the whole
// hackathon, mirroring the submit path.
func (s *Service) UpdateScoreByID(ctx context.Context, judgeID, scoreID string, value float64, comment string) (types.ScoreDetail, error) {
	var out types.ScoreDetail

	score, err := s.store.ScoreByID(ctx, scoreID)
	if errors.Is(err, repository.ErrNotFound) {
		return out, fmt.Errorf("%w: %s", ErrScoreNotFound, scoreID)
	}
	if err != nil {
		return out, fmt.Errorf("load score: %w", err)
	}

	if score.JudgeID != judgeID {
		return out, fmt.Errorf("%w: score %s", ErrNotScoreOwner, scoreID)
	}

	criterion, err := s.store.CriterionByID(ctx, score.CriterionID)
	if errors.Is(err, repository.ErrNotFound) {
		return out, fmt.Errorf("%w: %s", ErrCriterionNotFound, score.CriterionID)
	}
	if err != nil {
		return out, fmt.Errorf("load criterion: %w", err)
	}

	if !scoring.InBounds(value, criterion.Weight) {
		return out, fmt.Errorf("%w: score must be between 0 and %g", ErrScoreOutOfRange, criterion.Weight)
	}

	score.Value = value
	score.Comment = comment
	score.ScoredAt = s.now()

	submission, err := s.store.SubmissionByID(ctx, score.SubmissionID)
	if errors.Is(err, repository.ErrNotFound) {
		// Orphaned score: persist the update, nothing left to aggregate.
		if err := s.store.UpdateScore(ctx, score); err != nil {
			return out, fmt.Errorf("update score: %w", err)
		}
		return scoreDetail(score), nil
	}
	if err != nil {
		return out, fmt.Errorf("load submission: %w", err)
	}

	phase, err := s.store.PhaseByID(ctx, submission.PhaseID)
	if errors.Is(err, repository.ErrNotFound) {
		return out, fmt.Errorf("%w: %s", ErrPhaseNotFound, submission.PhaseID)
	}
	if err != nil {
		return out, fmt.Errorf("load phase: %w", err)
	}

	phases, err := s.store.PhasesByHackathon(ctx, phase.HackathonID)
	if err != nil {
		return out, fmt.Errorf("load phases: %w", err)
	}
	final, ok := finalPhase(phases)
	if !ok {
		return out, fmt.Errorf("%w: %s", ErrNoFinalPhase, phase.HackathonID)
	}
	isFinal := submission.PhaseID == final.ID
	hackathonID := phase.HackathonID

	if err := s.writeAndAggregate(ctx, submission, hackathonID, isFinal, func(tx repository.Store) error {
		return tx.UpdateScore(ctx, score)
	}); err != nil {
		return out, err
	}

	metrics.RecordScoreUpdated()
	s.logger.Info(ctx, "score updated",
		logger.String("judgeID", judgeID),
		logger.String("scoreID", scoreID),
		logger.Float64("value", value),
	)
	s.notify(ctx, submission.TeamID, "A score on your submission was revised.")

	return scoreDetail(score), nil
}

// writeAndAggregate commits a ledger mutation and the dependent
// aggregation as one transaction, holding the group or hackathon lock for
// the re-rank.
func (s *Service) writeAndAggregate(ctx context.Context, submission model.Submission, hackathonID string, isFinal bool, write func(repository.Store) error) error {
	start := time.Now()

	if isFinal {
		lockKey := "hackathon:" + hackathonID
		if err := s.locks.Lock(ctx, lockKey); err != nil {
			return err
		}
		defer s.locks.Unlock(lockKey)

		err := s.store.Atomically(ctx, func(tx repository.Store) error {
			if err := write(tx); err != nil {
				return err
			}
			return s.recomputeFinal(ctx, tx, submission, hackathonID)
		})
		if err != nil {
			return err
		}
		metrics.RecordFinalRerank(float64(time.Since(start).Milliseconds()))
		return nil
	}

	gt, err := s.store.GroupTeamByTeamPhase(ctx, submission.TeamID, submission.PhaseID)
	if errors.Is(err, repository.ErrNotFound) {
		// Ungrouped team: persist the ledger write alone.
		return s.store.Atomically(ctx, func(tx repository.Store) error {
			return write(tx)
		})
	}
	if err != nil {
		return fmt.Errorf("resolve group membership: %w", err)
	}

	lockKey := "group:" + gt.GroupID
	if err := s.locks.Lock(ctx, lockKey); err != nil {
		return err
	}
	defer s.locks.Unlock(lockKey)

	err = s.store.Atomically(ctx, func(tx repository.Store) error {
		if err := write(tx); err != nil {
			return err
		}
		return s.recomputeGroup(ctx, tx, gt, submission.TeamID, submission.PhaseID)
	})
	if err != nil {
		return err
	}
	metrics.RecordGroupRerank(float64(time.Since(start).Milliseconds()))
	return nil
}

// checkJudgeAssignment verifies the judge holds an assignment for the
// hackathon that is either hackathon-wide (nil phase) or pinned to the
// submission's phase.
func (s *Service) checkJudgeAssignment(ctx context.Context, judgeID, hackathonID, phaseID string) error {
	assignments, err := s.store.AssignmentsByJudgeHackathon(ctx, judgeID, hackathonID)
	if err != nil {
		return fmt.Errorf("load judge assignments: %w", err)
	}
	for _, a := range assignments {
		if a.PhaseID == nil || *a.PhaseID == phaseID {
			return nil
		}
	}
	return fmt.Errorf("%w: judge %s", ErrJudgeNotAssigned, judgeID)
}

// validateScoreItem checks a single criterion score against the
// submission's phase: the criterion must exist for that phase and the
// value must lie within [0, weight].
func (s *Service) validateScoreItem(ctx context.Context, item ScoreItemInput, phaseID string) error {
	criterion, err := s.store.CriterionByID(ctx, item.CriterionID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrInvalidCriterion, item.CriterionID)
	}
	if err != nil {
		return fmt.Errorf("load criterion: %w", err)
	}
	if criterion.PhaseID != phaseID {
		return fmt.Errorf("%w: %s", ErrInvalidCriterion, item.CriterionID)
	}
	if !scoring.InBounds(item.Value, criterion.Weight) {
		return fmt.Errorf("%w: criterion %s accepts 0 to %g", ErrScoreOutOfRange, item.CriterionID, criterion.Weight)
	}
	return nil
}

func scoreDetail(score model.Score) types.ScoreDetail {
	return types.ScoreDetail{
		ScoreID:      score.ID,
		SubmissionID: score.SubmissionID,
		JudgeID:      score.JudgeID,
		CriterionID:  score.CriterionID,
		Value:        score.Value,
		Comment:      score.Comment,
		ScoredAt:     score.ScoredAt,
	}
}
