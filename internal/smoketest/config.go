package smoketest

import "time"

// Config holds configuration for the scoring smoke test.
type Config struct {
	Teams             int           // Number of teams to seed
	Groups            int           // Number of groups to spread teams across
	Judges            int           // Number of judges scoring each submission
	Workers           int           // Number of concurrent submitters
	Timeout           time.Duration // HTTP request timeout
	QualifierQuantity int           // Teams advanced by the qualification run
	Verbose           bool          // Enable verbose logging
}

// Stats holds the outcome of one smoke test run.
type Stats struct {
	TeamsSeeded        int
	ScoresGenerated    int
	ScoresSubmitted    int
	ScoresAccepted     int
	ScoresRejected     int
	StandingsVerified  int
	QualifiersSelected int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
