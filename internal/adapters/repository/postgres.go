package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackarena/podium/internal/domain/model"
)

// pgQuerier is the subset of pgx shared by a pool and a transaction, so the
// same query code can back both the live store and a transactional view.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PgStore is a Postgres-backed Store built on a pgx connection pool.
type PgStore struct {
	pool *pgxpool.Pool
	pgView
}

// NewPgStore connects to Postgres and verifies the connection.
func NewPgStore(ctx context.Context, databaseURL string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PgStore{pool: pool, pgView: pgView{q: pool}}, nil
}

// Close releases the connection pool.
func (s *PgStore) Close() {
	s.pool.Close()
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Atomically runs fn inside a single database transaction.
func (s *PgStore) Atomically(ctx context.Context, fn func(Store) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTxStore{pgView: pgView{q: tx}}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pgTxStore is the Store view inside an open transaction. Its Atomically
// just runs fn against the same transaction so nesting composes.
type pgTxStore struct {
	pgView
}

func (t *pgTxStore) Atomically(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}

// pgView implements every Store read and write against a pgQuerier.
type pgView struct {
	q pgQuerier
}

func pgErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pge *pgconn.PgError
	if errors.As(err, &pge) && pge.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrConflict, pge.ConstraintName)
	}
	return err
}

const submissionCols = `id, team_id, phase_id, title, submitted_at`

func (v pgView) SubmissionByID(ctx context.Context, id string) (model.Submission, error) {
	var sub model.Submission
	err := v.q.QueryRow(ctx,
		`SELECT `+submissionCols+` FROM submissions WHERE id = $1`, id,
	).Scan(&sub.ID, &sub.TeamID, &sub.PhaseID, &sub.Title, &sub.SubmittedAt)
	if err != nil {
		return model.Submission{}, pgErr(err)
	}
	return sub, nil
}

func (v pgView) SubmissionsByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.Submission, error) {
	rows, err := v.q.Query(ctx,
		`SELECT `+submissionCols+` FROM submissions
		 WHERE team_id = $1 AND phase_id = $2 ORDER BY id`, teamID, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Submission, error) {
		var sub model.Submission
		err := row.Scan(&sub.ID, &sub.TeamID, &sub.PhaseID, &sub.Title, &sub.SubmittedAt)
		return sub, err
	})
}

const scoreCols = `id, submission_id, judge_id, criterion_id, value, comment, scored_at`

func scanScore(row pgx.CollectableRow) (model.Score, error) {
	var sc model.Score
	err := row.Scan(&sc.ID, &sc.SubmissionID, &sc.JudgeID, &sc.CriterionID, &sc.Value, &sc.Comment, &sc.ScoredAt)
	return sc, err
}

func (v pgView) ScoreByID(ctx context.Context, id string) (model.Score, error) {
	var sc model.Score
	err := v.q.QueryRow(ctx,
		`SELECT `+scoreCols+` FROM scores WHERE id = $1`, id,
	).Scan(&sc.ID, &sc.SubmissionID, &sc.JudgeID, &sc.CriterionID, &sc.Value, &sc.Comment, &sc.ScoredAt)
	if err != nil {
		return model.Score{}, pgErr(err)
	}
	return sc, nil
}

func (v pgView) ScoresBySubmission(ctx context.Context, submissionID string) ([]model.Score, error) {
	rows, err := v.q.Query(ctx,
		`SELECT `+scoreCols+` FROM scores WHERE submission_id = $1 ORDER BY id`, submissionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanScore)
}

func (v pgView) ScoresByJudgeSubmission(ctx context.Context, judgeID, submissionID string) ([]model.Score, error) {
	rows, err := v.q.Query(ctx,
		`SELECT `+scoreCols+` FROM scores
		 WHERE judge_id = $1 AND submission_id = $2 ORDER BY id`, judgeID, submissionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanScore)
}

func (v pgView) ScoresByJudgePhase(ctx context.Context, judgeID, phaseID string) ([]model.Score, error) {
	rows, err := v.q.Query(ctx,
		`SELECT s.id, s.submission_id, s.judge_id, s.criterion_id, s.value, s.comment, s.scored_at
		 FROM scores s
		 JOIN criteria c ON c.id = s.criterion_id
		 WHERE s.judge_id = $1 AND c.phase_id = $2 ORDER BY s.id`, judgeID, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanScore)
}

func (v pgView) ScoresByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.Score, error) {
	rows, err := v.q.Query(ctx,
		`SELECT s.id, s.submission_id, s.judge_id, s.criterion_id, s.value, s.comment, s.scored_at
		 FROM scores s
		 JOIN submissions sub ON sub.id = s.submission_id
		 JOIN criteria c ON c.id = s.criterion_id
		 WHERE sub.team_id = $1 AND c.phase_id = $2 ORDER BY s.id`, teamID, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanScore)
}

func (v pgView) AddScores(ctx context.Context, scores []model.Score) error {
	batch := &pgx.Batch{}
	for _, sc := range scores {
		if sc.ID == "" {
			sc.ID = uuid.NewString()
		}
		batch.Queue(
			`INSERT INTO scores (`+scoreCols+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sc.ID, sc.SubmissionID, sc.JudgeID, sc.CriterionID, sc.Value, sc.Comment, sc.ScoredAt,
		)
	}
	if err := v.q.SendBatch(ctx, batch).Close(); err != nil {
		return pgErr(err)
	}
	return nil
}

func (v pgView) UpdateScore(ctx context.Context, score model.Score) error {
	tag, err := v.q.Exec(ctx,
		`UPDATE scores SET value = $2, comment = $3, scored_at = $4 WHERE id = $1`,
		score.ID, score.Value, score.Comment, score.ScoredAt)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (v pgView) PhaseByID(ctx context.Context, id string) (model.Phase, error) {
	var p model.Phase
	err := v.q.QueryRow(ctx,
		`SELECT id, hackathon_id, name, start_date, end_date FROM phases WHERE id = $1`, id,
	).Scan(&p.ID, &p.HackathonID, &p.Name, &p.StartDate, &p.EndDate)
	if err != nil {
		return model.Phase{}, pgErr(err)
	}
	return p, nil
}

func (v pgView) PhasesByHackathon(ctx context.Context, hackathonID string) ([]model.Phase, error) {
	rows, err := v.q.Query(ctx,
		`SELECT id, hackathon_id, name, start_date, end_date FROM phases
		 WHERE hackathon_id = $1 ORDER BY id`, hackathonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Phase, error) {
		var p model.Phase
		err := row.Scan(&p.ID, &p.HackathonID, &p.Name, &p.StartDate, &p.EndDate)
		return p, err
	})
}

func scanCriterion(row pgx.CollectableRow) (model.Criterion, error) {
	var c model.Criterion
	err := row.Scan(&c.ID, &c.PhaseID, &c.Name, &c.Weight)
	return c, err
}

func (v pgView) CriterionByID(ctx context.Context, id string) (model.Criterion, error) {
	var c model.Criterion
	err := v.q.QueryRow(ctx,
		`SELECT id, phase_id, name, weight FROM criteria WHERE id = $1`, id,
	).Scan(&c.ID, &c.PhaseID, &c.Name, &c.Weight)
	if err != nil {
		return model.Criterion{}, pgErr(err)
	}
	return c, nil
}

func (v pgView) CriteriaByPhase(ctx context.Context, phaseID string) ([]model.Criterion, error) {
	rows, err := v.q.Query(ctx,
		`SELECT id, phase_id, name, weight FROM criteria
		 WHERE $1 = '' OR phase_id = $1 ORDER BY id`, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCriterion)
}

func (v pgView) AddCriteria(ctx context.Context, criteria []model.Criterion) error {
	batch := &pgx.Batch{}
	for _, c := range criteria {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		batch.Queue(
			`INSERT INTO criteria (id, phase_id, name, weight) VALUES ($1, $2, $3, $4)`,
			c.ID, c.PhaseID, c.Name, c.Weight,
		)
	}
	if err := v.q.SendBatch(ctx, batch).Close(); err != nil {
		return pgErr(err)
	}
	return nil
}

func (v pgView) UpdateCriterion(ctx context.Context, criterion model.Criterion) error {
	tag, err := v.q.Exec(ctx,
		`UPDATE criteria SET name = $2, weight = $3 WHERE id = $1`,
		criterion.ID, criterion.Name, criterion.Weight)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (v pgView) RemoveCriterion(ctx context.Context, id string) error {
	tag, err := v.q.Exec(ctx, `DELETE FROM criteria WHERE id = $1`, id)
	if err != nil {
		return pgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (v pgView) AssignmentsByJudgeHackathon(ctx context.Context, judgeID, hackathonID string) ([]model.JudgeAssignment, error) {
	rows, err := v.q.Query(ctx,
		`SELECT id, judge_id, hackathon_id, phase_id FROM judge_assignments
		 WHERE judge_id = $1 AND hackathon_id = $2 ORDER BY id`, judgeID, hackathonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JudgeAssignment, error) {
		var a model.JudgeAssignment
		err := row.Scan(&a.ID, &a.JudgeID, &a.HackathonID, &a.PhaseID)
		return a, err
	})
}

func (v pgView) TeamByID(ctx context.Context, id string) (model.Team, error) {
	var t model.Team
	err := v.q.QueryRow(ctx,
		`SELECT id, hackathon_id, name FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.HackathonID, &t.Name)
	if err != nil {
		return model.Team{}, pgErr(err)
	}
	return t, nil
}

func (v pgView) GroupByID(ctx context.Context, id string) (model.Group, error) {
	var g model.Group
	err := v.q.QueryRow(ctx,
		`SELECT id, track_id, name FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.TrackID, &g.Name)
	if err != nil {
		return model.Group{}, pgErr(err)
	}
	return g, nil
}

func (v pgView) TrackByID(ctx context.Context, id string) (model.Track, error) {
	var t model.Track
	err := v.q.QueryRow(ctx,
		`SELECT id, phase_id, name FROM tracks WHERE id = $1`, id,
	).Scan(&t.ID, &t.PhaseID, &t.Name)
	if err != nil {
		return model.Track{}, pgErr(err)
	}
	return t, nil
}

func (v pgView) GroupsByPhase(ctx context.Context, phaseID string) ([]model.Group, error) {
	rows, err := v.q.Query(ctx,
		`SELECT g.id, g.track_id, g.name FROM groups g
		 JOIN tracks t ON t.id = g.track_id
		 WHERE t.phase_id = $1 ORDER BY g.id`, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Group, error) {
		var g model.Group
		err := row.Scan(&g.ID, &g.TrackID, &g.Name)
		return g, err
	})
}

const groupTeamCols = `gt.id, gt.group_id, gt.team_id, gt.average_score, gt.rank`

func scanGroupTeam(row pgx.CollectableRow) (model.GroupTeam, error) {
	var gt model.GroupTeam
	err := row.Scan(&gt.ID, &gt.GroupID, &gt.TeamID, &gt.AverageScore, &gt.Rank)
	return gt, err
}

func (v pgView) GroupTeamByTeamPhase(ctx context.Context, teamID, phaseID string) (model.GroupTeam, error) {
	var gt model.GroupTeam
	err := v.q.QueryRow(ctx,
		`SELECT `+groupTeamCols+` FROM group_teams gt
		 JOIN groups g ON g.id = gt.group_id
		 JOIN tracks t ON t.id = g.track_id
		 WHERE gt.team_id = $1 AND t.phase_id = $2`, teamID, phaseID,
	).Scan(&gt.ID, &gt.GroupID, &gt.TeamID, &gt.AverageScore, &gt.Rank)
	if err != nil {
		return model.GroupTeam{}, pgErr(err)
	}
	return gt, nil
}

func (v pgView) GroupTeamsByGroup(ctx context.Context, groupID string) ([]model.GroupTeam, error) {
	rows, err := v.q.Query(ctx,
		`SELECT `+groupTeamCols+` FROM group_teams gt
		 WHERE gt.group_id = $1 ORDER BY gt.id`, groupID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanGroupTeam)
}

func (v pgView) GroupTeamsByPhase(ctx context.Context, phaseID string) ([]model.GroupTeam, error) {
	rows, err := v.q.Query(ctx,
		`SELECT `+groupTeamCols+` FROM group_teams gt
		 JOIN groups g ON g.id = gt.group_id
		 JOIN tracks t ON t.id = g.track_id
		 WHERE t.phase_id = $1 ORDER BY gt.id`, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanGroupTeam)
}

func (v pgView) SaveGroupTeams(ctx context.Context, groupTeams []model.GroupTeam) error {
	batch := &pgx.Batch{}
	for _, gt := range groupTeams {
		batch.Queue(
			`UPDATE group_teams SET average_score = $2, rank = $3 WHERE id = $1`,
			gt.ID, gt.AverageScore, gt.Rank,
		)
	}
	if err := v.q.SendBatch(ctx, batch).Close(); err != nil {
		return pgErr(err)
	}
	return nil
}

func scanPenalty(row pgx.CollectableRow) (model.PenaltyBonus, error) {
	var p model.PenaltyBonus
	err := row.Scan(&p.ID, &p.TeamID, &p.PhaseID, &p.Points, &p.Reason, &p.IsDeleted)
	return p, err
}

func (v pgView) PenaltiesByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.PenaltyBonus, error) {
	rows, err := v.q.Query(ctx,
		`SELECT id, team_id, phase_id, points, reason, is_deleted FROM penalty_bonuses
		 WHERE team_id = $1 AND phase_id = $2 ORDER BY id`, teamID, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanPenalty)
}

func (v pgView) PenaltiesByPhase(ctx context.Context, phaseID string) ([]model.PenaltyBonus, error) {
	rows, err := v.q.Query(ctx,
		`SELECT id, team_id, phase_id, points, reason, is_deleted FROM penalty_bonuses
		 WHERE phase_id = $1 ORDER BY id`, phaseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanPenalty)
}

const rankingCols = `id, team_id, hackathon_id, total_score, rank, updated_at`

func scanRanking(row pgx.CollectableRow) (model.Ranking, error) {
	var r model.Ranking
	err := row.Scan(&r.ID, &r.TeamID, &r.HackathonID, &r.TotalScore, &r.Rank, &r.UpdatedAt)
	return r, err
}

func (v pgView) RankingByTeamHackathon(ctx context.Context, teamID, hackathonID string) (model.Ranking, error) {
	var r model.Ranking
	err := v.q.QueryRow(ctx,
		`SELECT `+rankingCols+` FROM rankings
		 WHERE team_id = $1 AND hackathon_id = $2`, teamID, hackathonID,
	).Scan(&r.ID, &r.TeamID, &r.HackathonID, &r.TotalScore, &r.Rank, &r.UpdatedAt)
	if err != nil {
		return model.Ranking{}, pgErr(err)
	}
	return r, nil
}

func (v pgView) RankingsByHackathon(ctx context.Context, hackathonID string) ([]model.Ranking, error) {
	rows, err := v.q.Query(ctx,
		`SELECT `+rankingCols+` FROM rankings WHERE hackathon_id = $1 ORDER BY id`, hackathonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRanking)
}

func (v pgView) UpsertRanking(ctx context.Context, ranking model.Ranking) error {
	if ranking.ID == "" {
		ranking.ID = uuid.NewString()
	}
	_, err := v.q.Exec(ctx,
		`INSERT INTO rankings (`+rankingCols+`) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (team_id, hackathon_id)
		 DO UPDATE SET total_score = EXCLUDED.total_score, rank = EXCLUDED.rank, updated_at = EXCLUDED.updated_at`,
		ranking.ID, ranking.TeamID, ranking.HackathonID, ranking.TotalScore, ranking.Rank, ranking.UpdatedAt)
	if err != nil {
		return pgErr(err)
	}
	return nil
}

func (v pgView) SaveRankings(ctx context.Context, rankings []model.Ranking) error {
	batch := &pgx.Batch{}
	for _, r := range rankings {
		batch.Queue(
			`UPDATE rankings SET total_score = $2, rank = $3, updated_at = $4 WHERE id = $1`,
			r.ID, r.TotalScore, r.Rank, r.UpdatedAt,
		)
	}
	if err := v.q.SendBatch(ctx, batch).Close(); err != nil {
		return pgErr(err)
	}
	return nil
}

func (v pgView) QualificationExists(ctx context.Context, teamID, phaseID string) (bool, error) {
	var exists bool
	err := v.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM final_qualifications WHERE team_id = $1 AND phase_id = $2)`,
		teamID, phaseID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (v pgView) AddQualification(ctx context.Context, q model.FinalQualification) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	_, err := v.q.Exec(ctx,
		`INSERT INTO final_qualifications (id, team_id, group_id, phase_id, track_id, qualified_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID, q.TeamID, q.GroupID, q.PhaseID, q.TrackID, q.QualifiedAt)
	if err != nil {
		return pgErr(err)
	}
	return nil
}

func (v pgView) QualificationsByHackathon(ctx context.Context, hackathonID string) ([]model.FinalQualification, error) {
	rows, err := v.q.Query(ctx,
		`SELECT fq.id, fq.team_id, fq.group_id, fq.phase_id, fq.track_id, fq.qualified_at
		 FROM final_qualifications fq
		 JOIN teams t ON t.id = fq.team_id
		 WHERE t.hackathon_id = $1 ORDER BY fq.id`, hackathonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.FinalQualification, error) {
		var q model.FinalQualification
		err := row.Scan(&q.ID, &q.TeamID, &q.GroupID, &q.PhaseID, &q.TrackID, &q.QualifiedAt)
		return q, err
	})
}
