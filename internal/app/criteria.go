package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/internal/domain/types"
)

// CriterionInput is one criterion definition submitted by an organizer.
type CriterionInput struct {
	Name   string
	Weight float64
}

// CreateCriteria defines a batch of judging criteria for a phase. The
// whole batch validates before anything is written.
func (s *Service) CreateCriteria(ctx context.Context, phaseID string, items []CriterionInput) ([]types.CriterionView, error) {
	if _, err := s.store.PhaseByID(ctx, phaseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPhaseNotFound, phaseID)
		}
		return nil, fmt.Errorf("load phase: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoCriteriaGiven
	}
	for _, item := range items {
		if err := validateCriterion(item); err != nil {
			return nil, err
		}
	}

	criteria := make([]model.Criterion, len(items))
	for i, item := range items {
		criteria[i] = model.Criterion{
			PhaseID: phaseID,
			Name:    strings.TrimSpace(item.Name),
			Weight:  item.Weight,
		}
	}

	err := s.store.Atomically(ctx, func(tx repository.Store) error {
		return tx.AddCriteria(ctx, criteria)
	})
	if err != nil {
		return nil, fmt.Errorf("add criteria: %w", err)
	}

	// Re-read so the response carries generated IDs.
	stored, err := s.store.CriteriaByPhase(ctx, phaseID)
	if err != nil {
		return nil, fmt.Errorf("list criteria: %w", err)
	}
	out := make([]types.CriterionView, 0, len(items))
	for _, c := range stored {
		for _, item := range items {
			if c.Name == strings.TrimSpace(item.Name) && c.Weight == item.Weight {
				out = append(out, criterionView(c))
				break
			}
		}
	}
	return out, nil
}

// ListCriteria lists criteria, optionally filtered by phase.
func (s *Service) ListCriteria(ctx context.Context, phaseID string) ([]types.CriterionView, error) {
	criteria, err := s.store.CriteriaByPhase(ctx, phaseID)
	if err != nil {
		return nil, fmt.Errorf("list criteria: %w", err)
	}
	out := make([]types.CriterionView, len(criteria))
	for i, c := range criteria {
		out[i] = criterionView(c)
	}
	return out, nil
}

// GetCriterion returns one criterion by id.
func (s *Service) GetCriterion(ctx context.Context, id string) (types.CriterionView, error) {
	c, err := s.store.CriterionByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return types.CriterionView{}, fmt.Errorf("%w: %s", ErrCriterionNotFound, id)
	}
	if err != nil {
		return types.CriterionView{}, fmt.Errorf("load criterion: %w", err)
	}
	return criterionView(c), nil
}

// UpdateCriterion renames or reweights a criterion.
func (s *Service) UpdateCriterion(ctx context.Context, id string, input CriterionInput) (types.CriterionView, error) {
	if err := validateCriterion(input); err != nil {
		return types.CriterionView{}, err
	}
	c, err := s.store.CriterionByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return types.CriterionView{}, fmt.Errorf("%w: %s", ErrCriterionNotFound, id)
	}
	if err != nil {
		return types.CriterionView{}, fmt.Errorf("load criterion: %w", err)
	}

	c.Name = strings.TrimSpace(input.Name)
	c.Weight = input.Weight
	err = s.store.Atomically(ctx, func(tx repository.Store) error {
		return tx.UpdateCriterion(ctx, c)
	})
	if err != nil {
		return types.CriterionView{}, fmt.Errorf("update criterion: %w", err)
	}
	return criterionView(c), nil
}

// DeleteCriterion removes a criterion definition.
func (s *Service) DeleteCriterion(ctx context.Context, id string) error {
	err := s.store.Atomically(ctx, func(tx repository.Store) error {
		return tx.RemoveCriterion(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrCriterionNotFound, id)
	}
	return err
}

func validateCriterion(input CriterionInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrEmptyCriterionName
	}
	if input.Weight <= 0 {
		return ErrNonPositiveWeight
	}
	return nil
}

func criterionView(c model.Criterion) types.CriterionView {
	return types.CriterionView{
		CriterionID: c.ID,
		PhaseID:     c.PhaseID,
		Name:        c.Name,
		Weight:      c.Weight,
	}
}
