package service_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	service "github.com/hackarena/podium/internal/app"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/pkg/logger"
)

func init() {
	_ = logger.Init()
}

// competition is a seeded fixture: one hackathon with a group phase and a
// later final phase, one track and group in the group phase, two criteria
// of weight 10, and assigned judges.
type competition struct {
	store      *repository.MemStore
	engine     *service.Service
	hackathon  model.Hackathon
	groupPhase model.Phase
	finalPhase model.Phase
	track      model.Track
	group      model.Group
	criteria   []model.Criterion
}

func newCompetition(t *testing.T, opts ...service.Option) *competition {
	t.Helper()
	ctx := context.Background()

	c := &competition{store: repository.NewMemStore()}
	c.hackathon = c.store.PutHackathon(model.Hackathon{Name: "Spring Hack"})
	c.groupPhase = c.store.PutPhase(model.Phase{
		HackathonID: c.hackathon.ID,
		Name:        "Group Stage",
		StartDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	c.finalPhase = c.store.PutPhase(model.Phase{
		HackathonID: c.hackathon.ID,
		Name:        "Final",
		StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	c.track = c.store.PutTrack(model.Track{PhaseID: c.groupPhase.ID, Name: "Main"})
	c.group = c.store.PutGroup(model.Group{TrackID: c.track.ID, Name: "Group A"})

	if err := c.store.AddCriteria(ctx, []model.Criterion{
		{PhaseID: c.groupPhase.ID, Name: "Innovation", Weight: 10},
		{PhaseID: c.groupPhase.ID, Name: "Execution", Weight: 10},
	}); err != nil {
		t.Fatalf("seed criteria: %v", err)
	}
	var err error
	c.criteria, err = c.store.CriteriaByPhase(ctx, c.groupPhase.ID)
	if err != nil {
		t.Fatalf("load criteria: %v", err)
	}

	c.store.PutJudgeAssignment(model.JudgeAssignment{JudgeID: "judge-1", HackathonID: c.hackathon.ID})
	c.store.PutJudgeAssignment(model.JudgeAssignment{JudgeID: "judge-2", HackathonID: c.hackathon.ID})

	c.engine = service.New(c.store, opts...)
	return c
}

// addTeam registers a team in the fixture group with one group phase
// submission and returns both.
func (c *competition) addTeam(name string) (model.Team, model.Submission) {
	team := c.store.PutTeam(model.Team{HackathonID: c.hackathon.ID, Name: name})
	c.store.PutGroupTeam(model.GroupTeam{GroupID: c.group.ID, TeamID: team.ID})
	sub := c.store.PutSubmission(model.Submission{
		TeamID:      team.ID,
		PhaseID:     c.groupPhase.ID,
		Title:       name + " Project",
		SubmittedAt: time.Now(),
	})
	return team, sub
}

// items builds a score input per fixture criterion from the given values.
func (c *competition) items(values ...float64) []service.ScoreItemInput {
	out := make([]service.ScoreItemInput, len(values))
	for i, v := range values {
		out[i] = service.ScoreItemInput{CriterionID: c.criteria[i].ID, Value: v}
	}
	return out
}
