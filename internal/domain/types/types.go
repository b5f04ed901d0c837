// Package types contains common read shapes used across the application.
package types

import "time"

// ScoreItem is one accepted criterion score, echoed back to the judge.
type ScoreItem struct {
	CriterionID string  `json:"criterion_id"`
	Value       float64 `json:"value"`
	Comment     string  `json:"comment,omitempty"`
}

// SubmissionScores is the result of a scoring request.
type SubmissionScores struct {
	SubmissionID string      `json:"submission_id"`
	Scores       []ScoreItem `json:"scores"`
}

// ScoreDetail is the full view of a single stored score.
type ScoreDetail struct {
	ScoreID      string    `json:"score_id"`
	SubmissionID string    `json:"submission_id"`
	JudgeID      string    `json:"judge_id"`
	CriterionID  string    `json:"criterion_id"`
	Value        float64   `json:"value"`
	Comment      string    `json:"comment,omitempty"`
	ScoredAt     time.Time `json:"scored_at"`
}

// TeamScore is one ranked row of a group standings listing.
type TeamScore struct {
	TeamID       string  `json:"team_id"`
	TeamName     string  `json:"team_name"`
	AverageScore float64 `json:"average_score"`
	Rank         int     `json:"rank"`
}

// JudgeSubmissionScores groups a judge's scores by submission. TotalScore is
// the sum of the judge's criterion scores for that submission.
type JudgeSubmissionScores struct {
	SubmissionID    string        `json:"submission_id"`
	SubmissionTitle string        `json:"submission_title"`
	TotalScore      float64       `json:"total_score"`
	Scores          []ScoreDetail `json:"scores"`
}

// CriterionScore is a per-criterion average across judges with one
// representative comment.
type CriterionScore struct {
	CriterionID string  `json:"criterion_id"`
	Score       float64 `json:"score"`
	Comment     string  `json:"comment,omitempty"`
}

// TeamOverview summarizes a team's standing within one phase. AverageScore
// and Rank are nil until the team has been aggregated at least once.
type TeamOverview struct {
	TeamID        string           `json:"team_id"`
	TeamName      string           `json:"team_name"`
	PhaseID       string           `json:"phase_id"`
	AverageScore  *float64         `json:"average_score"`
	Rank          *int             `json:"rank"`
	CriterionRows []CriterionScore `json:"criteria_scores"`
}

// QualifiedTeam is one team selected to advance into a phase. AdjustedScore
// is the group average plus the team's penalty/bonus total for the scoring
// phase, computed for display only.
type QualifiedTeam struct {
	TeamID        string  `json:"team_id"`
	TeamName      string  `json:"team_name"`
	GroupID       string  `json:"group_id"`
	GroupName     string  `json:"group_name"`
	TrackName     string  `json:"track_name"`
	AdjustedScore float64 `json:"adjusted_score"`
}

// Finalist is one team qualified into the final phase.
type Finalist struct {
	TeamID    string `json:"team_id"`
	TeamName  string `json:"team_name"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	TrackName string `json:"track_name"`
}

// CriterionView is the API view of a judging criterion.
type CriterionView struct {
	CriterionID string  `json:"criterion_id"`
	PhaseID     string  `json:"phase_id"`
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
}
