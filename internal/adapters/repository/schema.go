package repository

// schemaSQL creates the scoring tables. Statements are idempotent so the
// service can apply them on startup.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS hackathons (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	season      TEXT NOT NULL DEFAULT '',
	theme       TEXT NOT NULL DEFAULT '',
	start_date  TIMESTAMPTZ NOT NULL,
	end_date    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS phases (
	id           TEXT PRIMARY KEY,
	hackathon_id TEXT NOT NULL REFERENCES hackathons (id),
	name         TEXT NOT NULL,
	start_date   TIMESTAMPTZ NOT NULL,
	end_date     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS tracks (
	id       TEXT PRIMARY KEY,
	phase_id TEXT NOT NULL REFERENCES phases (id),
	name     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
	id       TEXT PRIMARY KEY,
	track_id TEXT NOT NULL REFERENCES tracks (id),
	name     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS teams (
	id           TEXT PRIMARY KEY,
	hackathon_id TEXT NOT NULL REFERENCES hackathons (id),
	name         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_teams (
	id            TEXT PRIMARY KEY,
	group_id      TEXT NOT NULL REFERENCES groups (id),
	team_id       TEXT NOT NULL REFERENCES teams (id),
	average_score DOUBLE PRECISION,
	rank          INTEGER,
	UNIQUE (group_id, team_id)
);

CREATE TABLE IF NOT EXISTS submissions (
	id           TEXT PRIMARY KEY,
	team_id      TEXT NOT NULL REFERENCES teams (id),
	phase_id     TEXT NOT NULL REFERENCES phases (id),
	title        TEXT NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS criteria (
	id       TEXT PRIMARY KEY,
	phase_id TEXT NOT NULL REFERENCES phases (id),
	name     TEXT NOT NULL,
	weight   DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
	id            TEXT PRIMARY KEY,
	submission_id TEXT NOT NULL REFERENCES submissions (id),
	judge_id      TEXT NOT NULL,
	criterion_id  TEXT NOT NULL REFERENCES criteria (id),
	value         DOUBLE PRECISION NOT NULL,
	comment       TEXT NOT NULL DEFAULT '',
	scored_at     TIMESTAMPTZ NOT NULL,
	UNIQUE (submission_id, judge_id, criterion_id)
);

CREATE TABLE IF NOT EXISTS penalty_bonuses (
	id         TEXT PRIMARY KEY,
	team_id    TEXT NOT NULL REFERENCES teams (id),
	phase_id   TEXT NOT NULL REFERENCES phases (id),
	points     DOUBLE PRECISION NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS judge_assignments (
	id           TEXT PRIMARY KEY,
	judge_id     TEXT NOT NULL,
	hackathon_id TEXT NOT NULL REFERENCES hackathons (id),
	phase_id     TEXT REFERENCES phases (id)
);

CREATE TABLE IF NOT EXISTS rankings (
	id           TEXT PRIMARY KEY,
	team_id      TEXT NOT NULL REFERENCES teams (id),
	hackathon_id TEXT NOT NULL REFERENCES hackathons (id),
	total_score  DOUBLE PRECISION NOT NULL,
	rank         INTEGER NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL,
	UNIQUE (team_id, hackathon_id)
);

CREATE TABLE IF NOT EXISTS final_qualifications (
	id           TEXT PRIMARY KEY,
	team_id      TEXT NOT NULL REFERENCES teams (id),
	group_id     TEXT NOT NULL REFERENCES groups (id),
	phase_id     TEXT NOT NULL REFERENCES phases (id),
	track_id     TEXT NOT NULL REFERENCES tracks (id),
	qualified_at TIMESTAMPTZ NOT NULL,
	UNIQUE (team_id, phase_id)
);

CREATE INDEX IF NOT EXISTS idx_scores_submission ON scores (submission_id);
CREATE INDEX IF NOT EXISTS idx_scores_judge ON scores (judge_id);
CREATE INDEX IF NOT EXISTS idx_submissions_team_phase ON submissions (team_id, phase_id);
CREATE INDEX IF NOT EXISTS idx_group_teams_group ON group_teams (group_id);
CREATE INDEX IF NOT EXISTS idx_penalty_bonuses_team_phase ON penalty_bonuses (team_id, phase_id);
`
