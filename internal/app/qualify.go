package service

import (
	"context"
	"errors"
	"fmt"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/internal/domain/scoring"
	"github.com/hackarena/podium/internal/domain/types"
	"github.com/hackarena/podium/pkg/logger"
	"github.com/hackarena/podium/pkg/metrics"
)

// SelectQualifiers advances teams from targetPhase's scoring phase (the
// latest phase ending before it starts) into targetPhase. Each group's top
// team qualifies first; if that yields fewer than the configured quantity,
// the remaining slots backfill from the whole scoring phase by average
// score. The run is idempotent: existing (team, phase) qualifications are
// skipped, never duplicated.
//
// A missing phase, scoring phase, or group pool is a legitimate terminal
// state and returns an empty result rather than an error.
func (s *Service) SelectQualifiers(ctx context.Context, targetPhaseID string) ([]types.QualifiedTeam, error) {
	target, err := s.store.PhaseByID(ctx, targetPhaseID)
	if errors.Is(err, repository.ErrNotFound) {
		return []types.QualifiedTeam{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load phase: %w", err)
	}

	phases, err := s.store.PhasesByHackathon(ctx, target.HackathonID)
	if err != nil {
		return nil, fmt.Errorf("load phases: %w", err)
	}
	scoringPhase, ok := scoringPhaseFor(phases, target)
	if !ok {
		return []types.QualifiedTeam{}, nil
	}

	groups, err := s.store.GroupsByPhase(ctx, scoringPhase.ID)
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	if len(groups) == 0 {
		return []types.QualifiedTeam{}, nil
	}

	// Primary rule: each group's current winner.
	selected := make([]model.GroupTeam, 0, s.qualifierQuantity)
	selectedTeams := make(map[string]bool)
	for _, group := range groups {
		members, err := s.store.GroupTeamsByGroup(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("load members of group %s: %w", group.ID, err)
		}
		if winner, ok := s.topOfGroup(members); ok {
			selected = append(selected, winner)
			selectedTeams[winner.TeamID] = true
		}
	}

	// Backfill rule: draw the best remaining teams across the phase.
	if len(selected) < s.qualifierQuantity {
		pool, err := s.store.GroupTeamsByPhase(ctx, scoringPhase.ID)
		if err != nil {
			return nil, fmt.Errorf("load phase pool: %w", err)
		}
		candidates := make([]model.GroupTeam, 0, len(pool))
		for _, gt := range pool {
			if gt.AverageScore != nil && !selectedTeams[gt.TeamID] {
				candidates = append(candidates, gt)
			}
		}
		s.sortByAverage(candidates)
		need := s.qualifierQuantity - len(selected)
		for _, gt := range candidates {
			if need == 0 {
				break
			}
			selected = append(selected, gt)
			selectedTeams[gt.TeamID] = true
			need--
		}
	}

	// Close the set: best quantity overall, highest first.
	s.sortByAverage(selected)
	if len(selected) > s.qualifierQuantity {
		selected = selected[:s.qualifierQuantity]
	}

	// Persist idempotently under the target phase's lock so concurrent
	// runs cannot both pass the existence check.
	lockKey := "qualify:" + targetPhaseID
	if err := s.locks.Lock(ctx, lockKey); err != nil {
		return nil, err
	}
	defer s.locks.Unlock(lockKey)

	created := 0
	err = s.store.Atomically(ctx, func(tx repository.Store) error {
		for _, gt := range selected {
			exists, err := tx.QualificationExists(ctx, gt.TeamID, targetPhaseID)
			if err != nil {
				return fmt.Errorf("check qualification: %w", err)
			}
			if exists {
				continue
			}
			group, err := tx.GroupByID(ctx, gt.GroupID)
			if err != nil {
				return fmt.Errorf("load group %s: %w", gt.GroupID, err)
			}
			err = tx.AddQualification(ctx, model.FinalQualification{
				TeamID:      gt.TeamID,
				GroupID:     gt.GroupID,
				PhaseID:     targetPhaseID,
				TrackID:     group.TrackID,
				QualifiedAt: s.now(),
			})
			if err != nil {
				return fmt.Errorf("add qualification: %w", err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordQualificationsCreated(created)

	// Adjusted scores are display-only: the stored average already carries
	// the same adjustment from the group aggregator.
	penalties, err := s.store.PenaltiesByPhase(ctx, scoringPhase.ID)
	if err != nil {
		return nil, fmt.Errorf("load penalties: %w", err)
	}
	adjustment := make(map[string]float64)
	for _, p := range penalties {
		if !p.IsDeleted {
			adjustment[p.TeamID] += p.Points
		}
	}

	out := make([]types.QualifiedTeam, len(selected))
	for i, gt := range selected {
		row := types.QualifiedTeam{TeamID: gt.TeamID, GroupID: gt.GroupID}
		if team, err := s.store.TeamByID(ctx, gt.TeamID); err == nil {
			row.TeamName = team.Name
		}
		if group, err := s.store.GroupByID(ctx, gt.GroupID); err == nil {
			row.GroupName = group.Name
			if track, err := s.store.TrackByID(ctx, group.TrackID); err == nil {
				row.TrackName = track.Name
			}
		}
		avg := 0.0
		if gt.AverageScore != nil {
			avg = *gt.AverageScore
		}
		row.AdjustedScore = avg + adjustment[gt.TeamID]
		out[i] = row
	}

	s.logger.Info(ctx, "qualifiers selected",
		logger.String("targetPhaseID", targetPhaseID),
		logger.String("scoringPhaseID", scoringPhase.ID),
		logger.Int("selected", len(out)),
		logger.Int("created", created),
	)
	return out, nil
}

// Finalists lists the teams qualified into a hackathon's final phase.
// phaseID must be exactly the final phase (the max-EndDate phase).
func (s *Service) Finalists(ctx context.Context, phaseID string) ([]types.Finalist, error) {
	phase, err := s.store.PhaseByID(ctx, phaseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPhaseNotFound, phaseID)
	}
	if err != nil {
		return nil, fmt.Errorf("load phase: %w", err)
	}

	phases, err := s.store.PhasesByHackathon(ctx, phase.HackathonID)
	if err != nil {
		return nil, fmt.Errorf("load phases: %w", err)
	}
	final, ok := finalPhase(phases)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFinalPhase, phase.HackathonID)
	}
	if final.ID != phaseID {
		return nil, fmt.Errorf("%w: %s", ErrNotFinalPhase, phaseID)
	}

	qualifications, err := s.store.QualificationsByHackathon(ctx, phase.HackathonID)
	if err != nil {
		return nil, fmt.Errorf("load qualifications: %w", err)
	}

	out := make([]types.Finalist, len(qualifications))
	for i, q := range qualifications {
		row := types.Finalist{TeamID: q.TeamID, GroupID: q.GroupID}
		if team, err := s.store.TeamByID(ctx, q.TeamID); err == nil {
			row.TeamName = team.Name
		}
		if group, err := s.store.GroupByID(ctx, q.GroupID); err == nil {
			row.GroupName = group.Name
		}
		if track, err := s.store.TrackByID(ctx, q.TrackID); err == nil {
			row.TrackName = track.Name
		}
		out[i] = row
	}
	return out, nil
}

// topOfGroup picks the member with the best aggregated average, ignoring
// members that were never aggregated.
func (s *Service) topOfGroup(members []model.GroupTeam) (model.GroupTeam, bool) {
	scored := make([]model.GroupTeam, 0, len(members))
	for _, gt := range members {
		if gt.AverageScore != nil {
			scored = append(scored, gt)
		}
	}
	if len(scored) == 0 {
		return model.GroupTeam{}, false
	}
	s.sortByAverage(scored)
	return scored[0], true
}

// sortByAverage orders memberships with the service comparator, highest
// average first.
func (s *Service) sortByAverage(members []model.GroupTeam) {
	standings := make([]scoring.Standing, len(members))
	byTeam := make(map[string]model.GroupTeam, len(members))
	for i, gt := range members {
		score := scoring.Unranked
		if gt.AverageScore != nil {
			score = *gt.AverageScore
		}
		standings[i] = scoring.Standing{TeamID: gt.TeamID, Score: score}
		byTeam[gt.TeamID] = gt
	}
	scoring.Sort(standings, s.cmp)
	for i, standing := range standings {
		members[i] = byTeam[standing.TeamID]
	}
}
