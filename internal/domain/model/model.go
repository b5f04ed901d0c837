// Package model contains domain models passed between layers.
package model

import "time"

// Hackathon is the top-level competition a team registers for.
type Hackathon struct {
	ID        string
	Name      string
	Season    string
	Theme     string
	StartDate time.Time
	EndDate   time.Time
}

// Phase is a time-boxed stage of a hackathon. The phase with the latest
// EndDate is the hackathon's final phase.
type Phase struct {
	ID          string
	HackathonID string
	Name        string
	StartDate   time.Time
	EndDate     time.Time
}

// Track is a themed competition lane within a phase. Groups hang off tracks,
// so a group reaches its phase through its track.
type Track struct {
	ID      string
	PhaseID string
	Name    string
}

// Group is a scoring group of teams within a track.
type Group struct {
	ID      string
	TrackID string
	Name    string
}

// Team is a competing team registered for a hackathon.
type Team struct {
	ID          string
	HackathonID string
	Name        string
}

// GroupTeam is a team's membership in a scoring group. AverageScore and Rank
// are derived state, nil until the first aggregation, and written only by the
// group aggregator.
type GroupTeam struct {
	ID           string
	GroupID      string
	TeamID       string
	AverageScore *float64
	Rank         *int
}

// Submission is a team's work item for one phase. The team/phase association
// never changes after creation.
type Submission struct {
	ID          string
	TeamID      string
	PhaseID     string
	Title       string
	SubmittedAt time.Time
}

// Criterion defines one judged dimension of a phase. Weight is the maximum
// attainable points, so a valid score lies in [0, Weight].
type Criterion struct {
	ID      string
	PhaseID string
	Name    string
	Weight  float64
}

// Score is a single judge's score for one criterion of one submission.
// At most one Score exists per (judge, submission, criterion); re-scoring
// goes through the explicit update path.
type Score struct {
	ID           string
	SubmissionID string
	JudgeID      string
	CriterionID  string
	Value        float64
	Comment      string
	ScoredAt     time.Time
}

// PenaltyBonus is a signed point adjustment for a team within a phase.
// Soft-deleted rows keep history but are excluded from every aggregation.
type PenaltyBonus struct {
	ID        string
	TeamID    string
	PhaseID   string
	Points    float64
	Reason    string
	IsDeleted bool
}

// JudgeAssignment authorizes a judge for a hackathon. A nil PhaseID means
// the judge may score any phase of that hackathon.
type JudgeAssignment struct {
	ID          string
	JudgeID     string
	HackathonID string
	PhaseID     *string
}

// Ranking is the hackathon-wide standing of a team, written only by the
// final aggregator. One row per (team, hackathon), updated in place.
type Ranking struct {
	ID          string
	TeamID      string
	HackathonID string
	TotalScore  float64
	Rank        int
	UpdatedAt   time.Time
}

// FinalQualification marks a team as advancing into a phase. At most one
// row per (team, phase); created only by the qualification selector and
// never mutated afterwards.
type FinalQualification struct {
	ID          string
	TeamID      string
	GroupID     string
	PhaseID     string
	TrackID     string
	QualifiedAt time.Time
}

// Notification is a fire-and-forget message for a user, dispatched
// asynchronously after scoring events.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	CreatedAt time.Time
}
