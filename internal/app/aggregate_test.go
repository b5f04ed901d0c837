package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/hackarena/podium/internal/app"
)

// phaseOutageStore delegates to the fixture store but fails every phase
// lookup, simulating a storage outage mid-request.
type phaseOutageStore struct {
	repository.Store
}

func (s *phaseOutageStore) PhaseByID(context.Context, string) (model.Phase, error) {
	return model.Phase{}, errors.New("phase storage unavailable")
}

// finalScoreItems targets the two seeded final phase criteria.
func finalScoreItems(demo, pitch float64) []service.ScoreItemInput {
	return []service.ScoreItemInput{
		{CriterionID: "f-demo", Value: demo},
		{CriterionID: "f-pitch", Value: pitch},
	}
}

func TestGroupAggregation(t *testing.T) {
	ctx := context.Background()

	Convey("Given three teams in one group", t, func() {
		c := newCompetition(t)
		teamA, subA := c.addTeam("Alpha")
		teamB, subB := c.addTeam("Beta")
		teamC, subC := c.addTeam("Gamma")

		Convey("When two teams tie and one trails", func() {
			_, err := c.engine.SubmitScores(ctx, "judge-1", subA.ID, c.items(9, 9))
			So(err, ShouldBeNil)
			_, err = c.engine.SubmitScores(ctx, "judge-1", subB.ID, c.items(9, 9))
			So(err, ShouldBeNil)
			_, err = c.engine.SubmitScores(ctx, "judge-1", subC.ID, c.items(4, 4))
			So(err, ShouldBeNil)

			Convey("Then every rank is distinct and ties break by team id", func() {
				gtA, err := c.store.GroupTeamByTeamPhase(ctx, teamA.ID, c.groupPhase.ID)
				So(err, ShouldBeNil)
				gtB, err := c.store.GroupTeamByTeamPhase(ctx, teamB.ID, c.groupPhase.ID)
				So(err, ShouldBeNil)
				gtC, err := c.store.GroupTeamByTeamPhase(ctx, teamC.ID, c.groupPhase.ID)
				So(err, ShouldBeNil)

				So(*gtA.AverageScore, ShouldEqual, 18.0)
				So(*gtB.AverageScore, ShouldEqual, 18.0)
				So(*gtC.AverageScore, ShouldEqual, 8.0)
				So(*gtC.Rank, ShouldEqual, 3)

				ranks := map[int]bool{*gtA.Rank: true, *gtB.Rank: true}
				So(ranks, ShouldHaveLength, 2)
				if teamA.ID < teamB.ID {
					So(*gtA.Rank, ShouldEqual, 1)
					So(*gtB.Rank, ShouldEqual, 2)
				} else {
					So(*gtB.Rank, ShouldEqual, 1)
					So(*gtA.Rank, ShouldEqual, 2)
				}
			})
		})

		Convey("When a team has penalties but no scored submissions", func() {
			c.store.PutPenaltyBonus(model.PenaltyBonus{
				TeamID:  teamA.ID,
				PhaseID: c.groupPhase.ID,
				Points:  -2.5,
				Reason:  "late submission",
			})
			err := c.engine.RecomputeTeam(ctx, teamA.ID, c.groupPhase.ID)
			So(err, ShouldBeNil)

			Convey("Then the average is just the adjustment total", func() {
				gt, err := c.store.GroupTeamByTeamPhase(ctx, teamA.ID, c.groupPhase.ID)
				So(err, ShouldBeNil)
				So(gt.AverageScore, ShouldNotBeNil)
				So(*gt.AverageScore, ShouldEqual, -2.5)
			})
		})

		Convey("When a scored team also carries a bonus", func() {
			_, err := c.engine.SubmitScores(ctx, "judge-1", subA.ID, c.items(6, 4))
			So(err, ShouldBeNil)
			c.store.PutPenaltyBonus(model.PenaltyBonus{
				TeamID:  teamA.ID,
				PhaseID: c.groupPhase.ID,
				Points:  1.5,
				Reason:  "community vote",
			})
			So(c.engine.RecomputeTeam(ctx, teamA.ID, c.groupPhase.ID), ShouldBeNil)

			Convey("Then the bonus shifts the stored average", func() {
				gt, err := c.store.GroupTeamByTeamPhase(ctx, teamA.ID, c.groupPhase.ID)
				So(err, ShouldBeNil)
				So(*gt.AverageScore, ShouldEqual, 11.5)
			})
		})

		Convey("When recomputing a team that is not grouped for the phase", func() {
			loner := c.store.PutTeam(model.Team{HackathonID: c.hackathon.ID, Name: "Loner"})

			Convey("Then the call is a no-op rather than an error", func() {
				So(c.engine.RecomputeTeam(ctx, loner.ID, c.groupPhase.ID), ShouldBeNil)
			})
		})
	})
}

func TestFinalAggregation(t *testing.T) {
	ctx := context.Background()

	Convey("Given two finalists with final phase submissions", t, func() {
		c := newCompetition(t)
		err := c.store.AddCriteria(ctx, []model.Criterion{
			{ID: "f-demo", PhaseID: c.finalPhase.ID, Name: "Demo", Weight: 10},
			{ID: "f-pitch", PhaseID: c.finalPhase.ID, Name: "Pitch", Weight: 10},
		})
		So(err, ShouldBeNil)

		teamA := c.store.PutTeam(model.Team{HackathonID: c.hackathon.ID, Name: "Alpha"})
		teamB := c.store.PutTeam(model.Team{HackathonID: c.hackathon.ID, Name: "Beta"})
		finalA := c.store.PutSubmission(model.Submission{
			TeamID:      teamA.ID,
			PhaseID:     c.finalPhase.ID,
			Title:       "Alpha Final",
			SubmittedAt: time.Now(),
		})
		finalB := c.store.PutSubmission(model.Submission{
			TeamID:      teamB.ID,
			PhaseID:     c.finalPhase.ID,
			Title:       "Beta Final",
			SubmittedAt: time.Now(),
		})

		Convey("When judges score the final submissions", func() {
			_, err := c.engine.SubmitScores(ctx, "judge-1", finalA.ID, finalScoreItems(7, 8))
			So(err, ShouldBeNil)
			_, err = c.engine.SubmitScores(ctx, "judge-1", finalB.ID, finalScoreItems(9, 9))
			So(err, ShouldBeNil)

			Convey("Then the hackathon leaderboard ranks both teams", func() {
				rows, err := c.store.RankingsByHackathon(ctx, c.hackathon.ID)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)

				byTeam := map[string]model.Ranking{}
				for _, row := range rows {
					byTeam[row.TeamID] = row
				}
				So(byTeam[teamA.ID].TotalScore, ShouldEqual, 15.0)
				So(byTeam[teamA.ID].Rank, ShouldEqual, 2)
				So(byTeam[teamB.ID].TotalScore, ShouldEqual, 18.0)
				So(byTeam[teamB.ID].Rank, ShouldEqual, 1)
			})

			Convey("And a second judge overturning the order updates in place", func() {
				_, err := c.engine.SubmitScores(ctx, "judge-2", finalA.ID, finalScoreItems(10, 10))
				So(err, ShouldBeNil)

				rows, err := c.store.RankingsByHackathon(ctx, c.hackathon.ID)
				So(err, ShouldBeNil)
				// still one row per team, never a duplicate
				So(rows, ShouldHaveLength, 2)

				byTeam := map[string]model.Ranking{}
				for _, row := range rows {
					byTeam[row.TeamID] = row
				}
				// (15 + 20) / 2 judges
				So(byTeam[teamA.ID].TotalScore, ShouldEqual, 17.5)
				So(byTeam[teamA.ID].Rank, ShouldEqual, 2)
				So(byTeam[teamB.ID].Rank, ShouldEqual, 1)
			})
		})

		Convey("When a final phase score is revised", func() {
			_, err := c.engine.SubmitScores(ctx, "judge-1", finalA.ID, finalScoreItems(7, 8))
			So(err, ShouldBeNil)
			_, err = c.engine.SubmitScores(ctx, "judge-1", finalB.ID, finalScoreItems(9, 9))
			So(err, ShouldBeNil)

			stored, err := c.store.ScoresByJudgeSubmission(ctx, "judge-1", finalA.ID)
			So(err, ShouldBeNil)
			target := stored[0]
			_, err = c.engine.UpdateScoreByID(ctx, "judge-1", target.ID, 10, "")
			So(err, ShouldBeNil)

			Convey("Then the leaderboard reflects the revision", func() {
				row, err := c.store.RankingByTeamHackathon(ctx, teamA.ID, c.hackathon.ID)
				So(err, ShouldBeNil)
				So(row.TotalScore, ShouldEqual, 15.0-target.Value+10.0)
			})
		})

		Convey("When phase lookup fails during a revision", func() {
			_, err := c.engine.SubmitScores(ctx, "judge-1", finalA.ID, finalScoreItems(7, 8))
			So(err, ShouldBeNil)

			stored, err := c.store.ScoresByJudgeSubmission(ctx, "judge-1", finalA.ID)
			So(err, ShouldBeNil)
			target := stored[0]

			shaky := service.New(&phaseOutageStore{Store: c.store})
			_, err = shaky.UpdateScoreByID(ctx, "judge-1", target.ID, 10, "")

			Convey("Then the update fails and ledger and leaderboard stay in step", func() {
				So(err, ShouldNotBeNil)

				fresh, err := c.store.ScoreByID(ctx, target.ID)
				So(err, ShouldBeNil)
				So(fresh.Value, ShouldEqual, target.Value)

				row, err := c.store.RankingByTeamHackathon(ctx, teamA.ID, c.hackathon.ID)
				So(err, ShouldBeNil)
				So(row.TotalScore, ShouldEqual, 15.0)
			})
		})

		Convey("When a final phase penalty applies", func() {
			c.store.PutPenaltyBonus(model.PenaltyBonus{
				TeamID:  teamA.ID,
				PhaseID: c.finalPhase.ID,
				Points:  -3,
				Reason:  "hardware rules violation",
			})
			_, err := c.engine.SubmitScores(ctx, "judge-1", finalA.ID, finalScoreItems(7, 8))
			So(err, ShouldBeNil)

			Convey("Then the total carries the adjustment", func() {
				row, err := c.store.RankingByTeamHackathon(ctx, teamA.ID, c.hackathon.ID)
				So(err, ShouldBeNil)
				So(row.TotalScore, ShouldEqual, 12.0)
			})
		})
	})
}
