package repository

import (
	"github.com/google/uuid"

	"github.com/hackarena/podium/internal/domain/model"
)

// Fixture writers for entities the engine reads but never creates. They
// live on the concrete MemStore because collaborating services own these
// entities in production; tests and the demo bootstrap use them directly.

func (m *MemStore) PutHackathon(h model.Hackathon) model.Hackathon {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	m.live.state.hackathons[h.ID] = h
	return h
}

func (m *MemStore) PutPhase(p model.Phase) model.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.live.state.phases[p.ID] = p
	return p
}

func (m *MemStore) PutTrack(t model.Track) model.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.live.state.tracks[t.ID] = t
	return t
}

func (m *MemStore) PutGroup(g model.Group) model.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	m.live.state.groups[g.ID] = g
	return g
}

func (m *MemStore) PutTeam(t model.Team) model.Team {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.live.state.teams[t.ID] = t
	return t
}

func (m *MemStore) PutGroupTeam(gt model.GroupTeam) model.GroupTeam {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gt.ID == "" {
		gt.ID = uuid.NewString()
	}
	m.live.state.groupTeams[gt.ID] = gt
	return gt
}

func (m *MemStore) PutSubmission(s model.Submission) model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.live.state.submissions[s.ID] = s
	return s
}

func (m *MemStore) PutPenaltyBonus(p model.PenaltyBonus) model.PenaltyBonus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.live.state.penalties[p.ID] = p
	return p
}

func (m *MemStore) PutJudgeAssignment(a model.JudgeAssignment) model.JudgeAssignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.live.state.assignments[a.ID] = a
	return a
}
