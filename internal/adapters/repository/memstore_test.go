package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/hackarena/podium/internal/adapters/repository"
	"github.com/hackarena/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemStoreScores(t *testing.T) {
	Convey("Given a store with one submission", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		sub := store.PutSubmission(model.Submission{TeamID: "team-1", PhaseID: "phase-1"})

		Convey("When adding scores for two judges", func() {
			err := store.AddScores(ctx, []model.Score{
				{ID: "score-1", SubmissionID: sub.ID, JudgeID: "judge-1", CriterionID: "c1", Value: 5},
				{ID: "score-2", SubmissionID: sub.ID, JudgeID: "judge-2", CriterionID: "c1", Value: 7},
			})
			So(err, ShouldBeNil)

			Convey("Then they are readable by submission", func() {
				scores, err := store.ScoresBySubmission(ctx, sub.ID)
				So(err, ShouldBeNil)
				So(scores, ShouldHaveLength, 2)
			})

			Convey("And by judge and submission", func() {
				scores, err := store.ScoresByJudgeSubmission(ctx, "judge-1", sub.ID)
				So(err, ShouldBeNil)
				So(scores, ShouldHaveLength, 1)
				So(scores[0].Value, ShouldEqual, 5.0)
			})

			Convey("And updates overwrite in place", func() {
				s, err := store.ScoreByID(ctx, "score-1")
				So(err, ShouldBeNil)
				s.Value = 9
				So(store.UpdateScore(ctx, s), ShouldBeNil)
				got, err := store.ScoreByID(ctx, "score-1")
				So(err, ShouldBeNil)
				So(got.Value, ShouldEqual, 9.0)
			})

			Convey("And re-adding an existing score id conflicts", func() {
				err := store.AddScores(ctx, []model.Score{{ID: "score-1", SubmissionID: sub.ID}})
				So(errors.Is(err, repository.ErrConflict), ShouldBeTrue)
			})
		})

		Convey("When reading an unknown score", func() {
			_, err := store.ScoreByID(ctx, "missing")

			Convey("Then it reports not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemStoreGroupResolution(t *testing.T) {
	Convey("Given a group wired through track to phase", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		track := store.PutTrack(model.Track{PhaseID: "phase-1"})
		group := store.PutGroup(model.Group{TrackID: track.ID})
		gt := store.PutGroupTeam(model.GroupTeam{GroupID: group.ID, TeamID: "team-1"})

		Convey("Then the membership resolves by team and phase", func() {
			got, err := store.GroupTeamByTeamPhase(ctx, "team-1", "phase-1")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, gt.ID)
		})

		Convey("And the group is listed under the phase", func() {
			groups, err := store.GroupsByPhase(ctx, "phase-1")
			So(err, ShouldBeNil)
			So(groups, ShouldHaveLength, 1)

			memberships, err := store.GroupTeamsByPhase(ctx, "phase-1")
			So(err, ShouldBeNil)
			So(memberships, ShouldHaveLength, 1)
		})

		Convey("And the wrong phase resolves to nothing", func() {
			_, err := store.GroupTeamByTeamPhase(ctx, "team-1", "phase-2")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestMemStoreRankings(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		Convey("When upserting a ranking twice for one team", func() {
			first := model.Ranking{TeamID: "team-1", HackathonID: "hack-1", TotalScore: 10, UpdatedAt: time.Now()}
			So(store.UpsertRanking(ctx, first), ShouldBeNil)
			second := model.Ranking{TeamID: "team-1", HackathonID: "hack-1", TotalScore: 20, UpdatedAt: time.Now()}
			So(store.UpsertRanking(ctx, second), ShouldBeNil)

			Convey("Then a single row holds the latest total", func() {
				rows, err := store.RankingsByHackathon(ctx, "hack-1")
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
				So(rows[0].TotalScore, ShouldEqual, 20.0)
			})
		})
	})
}

func TestMemStoreQualifications(t *testing.T) {
	Convey("Given a store with a qualified team", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		store.PutTeam(model.Team{ID: "team-1", HackathonID: "hack-1"})
		q := model.FinalQualification{TeamID: "team-1", PhaseID: "phase-final", QualifiedAt: time.Now()}
		So(store.AddQualification(ctx, q), ShouldBeNil)

		Convey("Then the pair is reported as existing", func() {
			exists, err := store.QualificationExists(ctx, "team-1", "phase-final")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("And inserting the same pair again conflicts", func() {
			err := store.AddQualification(ctx, q)
			So(errors.Is(err, repository.ErrConflict), ShouldBeTrue)
		})

		Convey("And it is listed by hackathon through the team", func() {
			rows, err := store.QualificationsByHackathon(ctx, "hack-1")
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 1)
		})
	})
}

func TestMemStoreAtomically(t *testing.T) {
	Convey("Given a store with a seeded membership", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		track := store.PutTrack(model.Track{PhaseID: "phase-1"})
		group := store.PutGroup(model.Group{TrackID: track.ID})
		gt := store.PutGroupTeam(model.GroupTeam{GroupID: group.ID, TeamID: "team-1"})

		Convey("When a transaction writes and then fails", func() {
			boom := errors.New("storage exploded")
			err := store.Atomically(ctx, func(tx repository.Store) error {
				avg := 42.0
				gt.AverageScore = &avg
				if err := tx.SaveGroupTeams(ctx, []model.GroupTeam{gt}); err != nil {
					return err
				}
				if err := tx.AddScores(ctx, []model.Score{{SubmissionID: "s", JudgeID: "j", CriterionID: "c"}}); err != nil {
					return err
				}
				return boom
			})

			Convey("Then nothing is persisted", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				got, err := store.GroupTeamByTeamPhase(ctx, "team-1", "phase-1")
				So(err, ShouldBeNil)
				So(got.AverageScore, ShouldBeNil)
			})
		})

		Convey("When a transaction succeeds", func() {
			err := store.Atomically(ctx, func(tx repository.Store) error {
				avg := 42.0
				gt.AverageScore = &avg
				return tx.SaveGroupTeams(ctx, []model.GroupTeam{gt})
			})

			Convey("Then the batch is visible afterwards", func() {
				So(err, ShouldBeNil)
				got, err := store.GroupTeamByTeamPhase(ctx, "team-1", "phase-1")
				So(err, ShouldBeNil)
				So(*got.AverageScore, ShouldEqual, 42.0)
			})
		})
	})
}
