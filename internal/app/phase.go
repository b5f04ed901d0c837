package service

import "github.com/hackarena/podium/internal/domain/model"

// finalPhase returns the hackathon's final phase: the one with the maximum
// EndDate. Phase IDs break exact EndDate ties so the verdict is stable.
func finalPhase(phases []model.Phase) (model.Phase, bool) {
	var best model.Phase
	found := false
	for _, p := range phases {
		switch {
		case !found,
			p.EndDate.After(best.EndDate),
			p.EndDate.Equal(best.EndDate) && p.ID < best.ID:
			best = p
			found = true
		}
	}
	return best, found
}

// scoringPhaseFor returns the phase that feeds target's qualification: the
// phase with the largest EndDate still strictly before target's StartDate.
func scoringPhaseFor(phases []model.Phase, target model.Phase) (model.Phase, bool) {
	var best model.Phase
	found := false
	for _, p := range phases {
		if !p.EndDate.Before(target.StartDate) {
			continue
		}
		if !found || p.EndDate.After(best.EndDate) {
			best = p
			found = true
		}
	}
	return best, found
}
