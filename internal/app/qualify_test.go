package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hackarena/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"

	service "github.com/hackarena/podium/internal/app"
)

// seedGroup creates a group with pre-aggregated members, one per average.
func seedGroup(c *competition, name string, averages []float64) []model.GroupTeam {
	group := c.store.PutGroup(model.Group{TrackID: c.track.ID, Name: name})
	out := make([]model.GroupTeam, len(averages))
	for i, avg := range averages {
		team := c.store.PutTeam(model.Team{
			HackathonID: c.hackathon.ID,
			Name:        fmt.Sprintf("%s Team %d", name, i+1),
		})
		score := avg
		rank := i + 1
		out[i] = c.store.PutGroupTeam(model.GroupTeam{
			GroupID:      group.ID,
			TeamID:       team.ID,
			AverageScore: &score,
			Rank:         &rank,
		})
	}
	return out
}

func TestSelectQualifiers(t *testing.T) {
	ctx := context.Background()

	Convey("Given three groups of five aggregated teams", t, func() {
		c := newCompetition(t)
		g1 := seedGroup(c, "Group One", []float64{9, 8, 7, 6, 5})
		g2 := seedGroup(c, "Group Two", []float64{9.5, 4, 3, 2, 1})
		g3 := seedGroup(c, "Group Three", []float64{6.5, 4.5, 3.5, 2.5, 1.5})

		Convey("When selecting qualifiers for the final phase", func() {
			qualified, err := c.engine.SelectQualifiers(ctx, c.finalPhase.ID)
			So(err, ShouldBeNil)

			Convey("Then group winners come first and the rest backfill by average", func() {
				So(qualified, ShouldHaveLength, 8)

				seen := map[string]bool{}
				for _, q := range qualified {
					So(seen[q.TeamID], ShouldBeFalse)
					seen[q.TeamID] = true
				}
				// every group winner is in the set
				So(seen[g1[0].TeamID], ShouldBeTrue)
				So(seen[g2[0].TeamID], ShouldBeTrue)
				So(seen[g3[0].TeamID], ShouldBeTrue)
				// backfill draws the five best remaining averages: 8, 7, 6, 5, 4.5
				So(seen[g1[1].TeamID], ShouldBeTrue)
				So(seen[g1[2].TeamID], ShouldBeTrue)
				So(seen[g1[3].TeamID], ShouldBeTrue)
				So(seen[g1[4].TeamID], ShouldBeTrue)
				So(seen[g3[1].TeamID], ShouldBeTrue)

				Convey("And the result lists highest adjusted score first", func() {
					for i := 1; i < len(qualified); i++ {
						So(qualified[i].AdjustedScore, ShouldBeLessThanOrEqualTo, qualified[i-1].AdjustedScore)
					}
					So(qualified[0].AdjustedScore, ShouldEqual, 9.5)
					So(qualified[0].TrackName, ShouldEqual, "Main")
				})
			})

			Convey("Then a second run creates no duplicate qualifications", func() {
				again, err := c.engine.SelectQualifiers(ctx, c.finalPhase.ID)
				So(err, ShouldBeNil)
				So(again, ShouldHaveLength, 8)

				rows, err := c.store.QualificationsByHackathon(ctx, c.hackathon.ID)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 8)
			})
		})

		Convey("When the quantity is smaller than the number of groups", func() {
			c2 := newCompetition(t, service.WithQualifierQuantity(2))
			h1 := seedGroup(c2, "Group One", []float64{9, 8})
			h2 := seedGroup(c2, "Group Two", []float64{9.5, 4})
			seedGroup(c2, "Group Three", []float64{6.5, 4.5})

			qualified, err := c2.engine.SelectQualifiers(ctx, c2.finalPhase.ID)
			So(err, ShouldBeNil)

			Convey("Then only the best winners survive the cut", func() {
				So(qualified, ShouldHaveLength, 2)
				So(qualified[0].TeamID, ShouldEqual, h2[0].TeamID)
				So(qualified[1].TeamID, ShouldEqual, h1[0].TeamID)
			})
		})

		Convey("When the target phase does not exist", func() {
			qualified, err := c.engine.SelectQualifiers(ctx, "missing")

			Convey("Then the selection is empty rather than an error", func() {
				So(err, ShouldBeNil)
				So(qualified, ShouldBeEmpty)
			})
		})

		Convey("When no phase ends before the target starts", func() {
			qualified, err := c.engine.SelectQualifiers(ctx, c.groupPhase.ID)

			Convey("Then there is nothing to qualify from", func() {
				So(err, ShouldBeNil)
				So(qualified, ShouldBeEmpty)
			})
		})

		Convey("When a scoring phase penalty exists", func() {
			c.store.PutPenaltyBonus(model.PenaltyBonus{
				TeamID:  g2[0].TeamID,
				PhaseID: c.groupPhase.ID,
				Points:  -1,
				Reason:  "plagiarism review",
			})
			qualified, err := c.engine.SelectQualifiers(ctx, c.finalPhase.ID)
			So(err, ShouldBeNil)

			Convey("Then the display score carries the adjustment", func() {
				for _, q := range qualified {
					if q.TeamID == g2[0].TeamID {
						So(q.AdjustedScore, ShouldEqual, 8.5)
					}
				}
			})
		})
	})
}

func TestFinalists(t *testing.T) {
	ctx := context.Background()

	Convey("Given a completed qualification run", t, func() {
		c := newCompetition(t)
		seedGroup(c, "Group One", []float64{9, 8})
		seedGroup(c, "Group Two", []float64{7, 6})

		qualified, err := c.engine.SelectQualifiers(ctx, c.finalPhase.ID)
		So(err, ShouldBeNil)
		So(qualified, ShouldHaveLength, 4)

		Convey("When listing finalists for the final phase", func() {
			finalists, err := c.engine.Finalists(ctx, c.finalPhase.ID)
			So(err, ShouldBeNil)

			Convey("Then every qualified team appears with its group and track", func() {
				So(finalists, ShouldHaveLength, 4)
				for _, f := range finalists {
					So(f.TeamName, ShouldNotBeEmpty)
					So(f.GroupName, ShouldStartWith, "Group")
					So(f.TrackName, ShouldEqual, "Main")
				}
			})
		})

		Convey("When asking for finalists of a non-final phase", func() {
			_, err := c.engine.Finalists(ctx, c.groupPhase.ID)
			So(errors.Is(err, service.ErrNotFinalPhase), ShouldBeTrue)
		})

		Convey("When the phase does not exist", func() {
			_, err := c.engine.Finalists(ctx, "missing")
			So(errors.Is(err, service.ErrPhaseNotFound), ShouldBeTrue)
		})
	})
}
