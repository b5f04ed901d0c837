package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/internal/domain/scoring"
	"github.com/hackarena/podium/pkg/logger"
	"github.com/hackarena/podium/pkg/metrics"
)

// RecomputeTeam recomputes a team's average for a phase and re-ranks its
// whole group. Safe to call repeatedly; runs are serialized per group and
// the average plus every rank commit as one batch.
func (s *Service) RecomputeTeam(ctx context.Context, teamID, phaseID string) error {
	gt, err := s.store.GroupTeamByTeamPhase(ctx, teamID, phaseID)
	if errors.Is(err, repository.ErrNotFound) {
		// The team is not grouped for this phase; nothing to aggregate.
		s.logger.Debug(ctx, "skipping aggregation for ungrouped team",
			logger.String("teamID", teamID),
			logger.String("phaseID", phaseID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve group membership: %w", err)
	}

	lockKey := "group:" + gt.GroupID
	if err := s.locks.Lock(ctx, lockKey); err != nil {
		return err
	}
	defer s.locks.Unlock(lockKey)

	start := time.Now()
	err = s.store.Atomically(ctx, func(tx repository.Store) error {
		return s.recomputeGroup(ctx, tx, gt, teamID, phaseID)
	})
	if err != nil {
		return err
	}
	metrics.RecordGroupRerank(float64(time.Since(start).Milliseconds()))
	return nil
}

// recomputeGroup runs the group aggregation inside a transaction: team
// average from scored submissions, penalty/bonus adjustment, then a dense
// re-rank of every membership in the group.
func (s *Service) recomputeGroup(ctx context.Context, tx repository.Store, gt model.GroupTeam, teamID, phaseID string) error {
	submissions, err := tx.SubmissionsByTeamPhase(ctx, teamID, phaseID)
	if err != nil {
		return fmt.Errorf("load submissions: %w", err)
	}

	// Per-submission scores: per-judge sums averaged across judges.
	// Unscored submissions stay out of both numerator and denominator.
	var submissionScores []float64
	for _, sub := range submissions {
		scores, err := tx.ScoresBySubmission(ctx, sub.ID)
		if err != nil {
			return fmt.Errorf("load scores for submission %s: %w", sub.ID, err)
		}
		if score, ok := scoring.SubmissionScore(scores); ok {
			submissionScores = append(submissionScores, score)
		}
	}

	penalties, err := tx.PenaltiesByTeamPhase(ctx, teamID, phaseID)
	if err != nil {
		return fmt.Errorf("load penalties: %w", err)
	}

	average := scoring.TeamAverage(submissionScores) + scoring.AdjustmentTotal(penalties)
	gt.AverageScore = &average
	if err := tx.SaveGroupTeams(ctx, []model.GroupTeam{gt}); err != nil {
		return fmt.Errorf("save average: %w", err)
	}

	members, err := tx.GroupTeamsByGroup(ctx, gt.GroupID)
	if err != nil {
		return fmt.Errorf("load group members: %w", err)
	}

	standings := make([]scoring.Standing, len(members))
	byTeam := make(map[string]model.GroupTeam, len(members))
	for i, member := range members {
		score := scoring.Unranked
		if member.AverageScore != nil {
			score = *member.AverageScore
		}
		standings[i] = scoring.Standing{TeamID: member.TeamID, Score: score}
		byTeam[member.TeamID] = member
	}
	scoring.Sort(standings, s.cmp)

	ranked := make([]model.GroupTeam, len(standings))
	for i, standing := range standings {
		member := byTeam[standing.TeamID]
		rank := i + 1
		member.Rank = &rank
		ranked[i] = member
	}
	if err := tx.SaveGroupTeams(ctx, ranked); err != nil {
		return fmt.Errorf("save ranks: %w", err)
	}

	s.logger.Debug(ctx, "group re-ranked",
		logger.String("groupID", gt.GroupID),
		logger.String("teamID", teamID),
		logger.Float64("average", average),
		logger.Int("members", len(ranked)),
	)
	return nil
}

// RecomputeFinal recomputes a team's hackathon-wide total from one final
// phase submission, upserts its ranking row, and re-ranks the hackathon.
// Repeated calls for the same team overwrite the row: last write wins.
func (s *Service) RecomputeFinal(ctx context.Context, submission model.Submission, hackathonID string) error {
	lockKey := "hackathon:" + hackathonID
	if err := s.locks.Lock(ctx, lockKey); err != nil {
		return err
	}
	defer s.locks.Unlock(lockKey)

	start := time.Now()
	err := s.store.Atomically(ctx, func(tx repository.Store) error {
		return s.recomputeFinal(ctx, tx, submission, hackathonID)
	})
	if err != nil {
		return err
	}
	metrics.RecordFinalRerank(float64(time.Since(start).Milliseconds()))
	return nil
}

func (s *Service) recomputeFinal(ctx context.Context, tx repository.Store, submission model.Submission, hackathonID string) error {
	scores, err := tx.ScoresBySubmission(ctx, submission.ID)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}

	// The final phase yields one ranking-relevant submission per team, so
	// the submission score is the team total before adjustment.
	total, _ := scoring.SubmissionScore(scores)

	penalties, err := tx.PenaltiesByTeamPhase(ctx, submission.TeamID, submission.PhaseID)
	if err != nil {
		return fmt.Errorf("load penalties: %w", err)
	}
	total += scoring.AdjustmentTotal(penalties)

	err = tx.UpsertRanking(ctx, model.Ranking{
		TeamID:      submission.TeamID,
		HackathonID: hackathonID,
		TotalScore:  total,
		UpdatedAt:   s.now(),
	})
	if err != nil {
		return fmt.Errorf("upsert ranking: %w", err)
	}

	rows, err := tx.RankingsByHackathon(ctx, hackathonID)
	if err != nil {
		return fmt.Errorf("load rankings: %w", err)
	}

	standings := make([]scoring.Standing, len(rows))
	byTeam := make(map[string]model.Ranking, len(rows))
	for i, row := range rows {
		standings[i] = scoring.Standing{TeamID: row.TeamID, Score: row.TotalScore}
		byTeam[row.TeamID] = row
	}
	scoring.Sort(standings, s.cmp)

	ranked := make([]model.Ranking, len(standings))
	for i, standing := range standings {
		row := byTeam[standing.TeamID]
		row.Rank = i + 1
		ranked[i] = row
	}
	if err := tx.SaveRankings(ctx, ranked); err != nil {
		return fmt.Errorf("save ranks: %w", err)
	}

	s.logger.Debug(ctx, "hackathon re-ranked",
		logger.String("hackathonID", hackathonID),
		logger.String("teamID", submission.TeamID),
		logger.Float64("total", total),
		logger.Int("rows", len(ranked)),
	)
	return nil
}
