// Package scoring holds the pure aggregation math of the engine.
//
// Every function here derives a value from its inputs alone so the
// recomputation pipeline can be tested without storage. Persisted averages
// and ranks are materialized views over these functions.
package scoring

import (
	"math"
	"sort"

	"github.com/hackarena/podium/internal/domain/model"
)

// Unranked sorts below every real average so teams without an aggregated
// score land at the bottom of a descending ordering.
var Unranked = math.Inf(-1)

// SubmissionScore computes a submission's score from its raw judge scores:
// scores are grouped by judge, summed per judge across criteria, and the
// per-judge sums are averaged. The second return is false when the
// submission has no scores at all, in which case it must be excluded from
// team averaging entirely.
func SubmissionScore(scores []model.Score) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sums := make(map[string]float64)
	for _, s := range scores {
		sums[s.JudgeID] += s.Value
	}
	var total float64
	for _, sum := range sums {
		total += sum
	}
	return total / float64(len(sums)), true
}

// TeamAverage averages per-submission scores across a team's scored
// submissions. Unscored submissions never reach this function; an empty
// slice yields a 0 baseline.
func TeamAverage(submissionScores []float64) float64 {
	if len(submissionScores) == 0 {
		return 0
	}
	var total float64
	for _, s := range submissionScores {
		total += s
	}
	return total / float64(len(submissionScores))
}

// AdjustmentTotal sums the signed points of non-deleted penalty/bonus rows.
func AdjustmentTotal(adjustments []model.PenaltyBonus) float64 {
	var total float64
	for _, a := range adjustments {
		if a.IsDeleted {
			continue
		}
		total += a.Points
	}
	return total
}

// InBounds reports whether value is a valid score against a criterion
// weight, i.e. within [0, weight].
func InBounds(value, weight float64) bool {
	return value >= 0 && value <= weight
}

// Standing pairs a team with the score it is ranked by.
type Standing struct {
	TeamID string
	Score  float64
}

// Comparator orders standings. It must induce a deterministic total order;
// rank assignment gives position i the rank i+1, so equal scores still
// receive distinct consecutive ranks.
type Comparator func(a, b Standing) bool

// ByScoreDesc is the default ordering: score descending, team ID ascending
// as the tie-break so reruns over the same data rank identically.
func ByScoreDesc(a, b Standing) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.TeamID < b.TeamID
}

// Sort orders standings in place using cmp, falling back to ByScoreDesc
// when cmp is nil. The sort is stable so a partial comparator still yields
// reproducible output.
func Sort(standings []Standing, cmp Comparator) {
	if cmp == nil {
		cmp = ByScoreDesc
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return cmp(standings[i], standings[j])
	})
}

// Round2 rounds to two decimal places for display values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
