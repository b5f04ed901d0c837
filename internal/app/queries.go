package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/scoring"
	"github.com/hackarena/podium/internal/domain/types"
)

// TeamScoresByGroup returns the group's standings ordered by average score
// descending. Teams that were never aggregated report a zero average and
// rank.
func (s *Service) TeamScoresByGroup(ctx context.Context, groupID string) ([]types.TeamScore, error) {
	memberships, err := s.store.GroupTeamsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}
	if len(memberships) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTeamsInGroup, groupID)
	}

	out := make([]types.TeamScore, 0, len(memberships))
	for _, gt := range memberships {
		row := types.TeamScore{TeamID: gt.TeamID, TeamName: "Unknown"}
		if team, err := s.store.TeamByID(ctx, gt.TeamID); err == nil {
			row.TeamName = team.Name
		}
		if gt.AverageScore != nil {
			row.AverageScore = *gt.AverageScore
		}
		if gt.Rank != nil {
			row.Rank = *gt.Rank
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return s.cmp(
			scoring.Standing{TeamID: out[i].TeamID, Score: out[i].AverageScore},
			scoring.Standing{TeamID: out[j].TeamID, Score: out[j].AverageScore},
		)
	})
	return out, nil
}

// JudgeScoresByPhase returns a judge's own scores in a phase grouped by
// submission, with each group's total being the judge's criterion sum.
func (s *Service) JudgeScoresByPhase(ctx context.Context, judgeID, phaseID string) ([]types.JudgeSubmissionScores, error) {
	scores, err := s.store.ScoresByJudgePhase(ctx, judgeID, phaseID)
	if err != nil {
		return nil, fmt.Errorf("load judge scores: %w", err)
	}
	if len(scores) == 0 {
		return []types.JudgeSubmissionScores{}, nil
	}

	grouped := make(map[string]*types.JudgeSubmissionScores)
	var order []string
	for _, score := range scores {
		g, ok := grouped[score.SubmissionID]
		if !ok {
			g = &types.JudgeSubmissionScores{SubmissionID: score.SubmissionID}
			if sub, err := s.store.SubmissionByID(ctx, score.SubmissionID); err == nil {
				g.SubmissionTitle = sub.Title
			}
			grouped[score.SubmissionID] = g
			order = append(order, score.SubmissionID)
		}
		g.TotalScore += score.Value
		g.Scores = append(g.Scores, scoreDetail(score))
	}

	sort.Strings(order)
	out := make([]types.JudgeSubmissionScores, len(order))
	for i, id := range order {
		out[i] = *grouped[id]
	}
	return out, nil
}

// TeamOverview summarizes one team's standing in a phase: group average
// and rank plus per-criterion averages across judges, each with the first
// non-empty comment as a representative remark.
func (s *Service) TeamOverview(ctx context.Context, teamID, phaseID string) (types.TeamOverview, error) {
	var out types.TeamOverview

	team, err := s.store.TeamByID(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return out, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}
	if err != nil {
		return out, fmt.Errorf("load team: %w", err)
	}

	out.TeamID = team.ID
	out.TeamName = team.Name
	out.PhaseID = phaseID

	if gt, err := s.store.GroupTeamByTeamPhase(ctx, teamID, phaseID); err == nil {
		out.AverageScore = gt.AverageScore
		out.Rank = gt.Rank
	}

	scores, err := s.store.ScoresByTeamPhase(ctx, teamID, phaseID)
	if err != nil {
		return out, fmt.Errorf("load team scores: %w", err)
	}

	type acc struct {
		sum     float64
		count   int
		comment string
	}
	byCriterion := make(map[string]*acc)
	var order []string
	for _, score := range scores {
		a, ok := byCriterion[score.CriterionID]
		if !ok {
			a = &acc{}
			byCriterion[score.CriterionID] = a
			order = append(order, score.CriterionID)
		}
		a.sum += score.Value
		a.count++
		if a.comment == "" && score.Comment != "" {
			a.comment = score.Comment
		}
	}

	sort.Strings(order)
	out.CriterionRows = make([]types.CriterionScore, len(order))
	for i, id := range order {
		a := byCriterion[id]
		out.CriterionRows[i] = types.CriterionScore{
			CriterionID: id,
			Score:       scoring.Round2(a.sum / float64(a.count)),
			Comment:     a.comment,
		}
	}
	return out, nil
}
