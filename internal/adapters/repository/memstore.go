package repository

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hackarena/podium/internal/domain/model"
)

// data is the full store state. Entities are kept by value so cloning a map
// snapshots its rows.
type data struct {
	hackathons     map[string]model.Hackathon
	phases         map[string]model.Phase
	tracks         map[string]model.Track
	groups         map[string]model.Group
	teams          map[string]model.Team
	groupTeams     map[string]model.GroupTeam
	submissions    map[string]model.Submission
	criteria       map[string]model.Criterion
	scores         map[string]model.Score
	penalties      map[string]model.PenaltyBonus
	assignments    map[string]model.JudgeAssignment
	rankings       map[string]model.Ranking
	qualifications map[string]model.FinalQualification
}

func newData() *data {
	return &data{
		hackathons:     make(map[string]model.Hackathon),
		phases:         make(map[string]model.Phase),
		tracks:         make(map[string]model.Track),
		groups:         make(map[string]model.Group),
		teams:          make(map[string]model.Team),
		groupTeams:     make(map[string]model.GroupTeam),
		submissions:    make(map[string]model.Submission),
		criteria:       make(map[string]model.Criterion),
		scores:         make(map[string]model.Score),
		penalties:      make(map[string]model.PenaltyBonus),
		assignments:    make(map[string]model.JudgeAssignment),
		rankings:       make(map[string]model.Ranking),
		qualifications: make(map[string]model.FinalQualification),
	}
}

func (d *data) clone() *data {
	return &data{
		hackathons:     maps.Clone(d.hackathons),
		phases:         maps.Clone(d.phases),
		tracks:         maps.Clone(d.tracks),
		groups:         maps.Clone(d.groups),
		teams:          maps.Clone(d.teams),
		groupTeams:     maps.Clone(d.groupTeams),
		submissions:    maps.Clone(d.submissions),
		criteria:       maps.Clone(d.criteria),
		scores:         maps.Clone(d.scores),
		penalties:      maps.Clone(d.penalties),
		assignments:    maps.Clone(d.assignments),
		rankings:       maps.Clone(d.rankings),
		qualifications: maps.Clone(d.qualifications),
	}
}

// txStore serves reads and writes against one state snapshot without
// locking. It backs both the live MemStore (under its lock) and the
// transactional views handed to Atomically callbacks.
type txStore struct {
	state *data
}

var _ Store = (*txStore)(nil)

func (t *txStore) SubmissionByID(_ context.Context, id string) (model.Submission, error) {
	s, ok := t.state.submissions[id]
	if !ok {
		return model.Submission{}, ErrNotFound
	}
	return s, nil
}

func (t *txStore) SubmissionsByTeamPhase(_ context.Context, teamID, phaseID string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range t.state.submissions {
		if s.TeamID == teamID && s.PhaseID == phaseID {
			out = append(out, s)
		}
	}
	sortByID(out, func(s model.Submission) string { return s.ID })
	return out, nil
}

func (t *txStore) ScoreByID(_ context.Context, id string) (model.Score, error) {
	s, ok := t.state.scores[id]
	if !ok {
		return model.Score{}, ErrNotFound
	}
	return s, nil
}

func (t *txStore) ScoresBySubmission(_ context.Context, submissionID string) ([]model.Score, error) {
	var out []model.Score
	for _, s := range t.state.scores {
		if s.SubmissionID == submissionID {
			out = append(out, s)
		}
	}
	sortByID(out, func(s model.Score) string { return s.ID })
	return out, nil
}

func (t *txStore) ScoresByJudgeSubmission(_ context.Context, judgeID, submissionID string) ([]model.Score, error) {
	var out []model.Score
	for _, s := range t.state.scores {
		if s.JudgeID == judgeID && s.SubmissionID == submissionID {
			out = append(out, s)
		}
	}
	sortByID(out, func(s model.Score) string { return s.ID })
	return out, nil
}

func (t *txStore) ScoresByJudgePhase(_ context.Context, judgeID, phaseID string) ([]model.Score, error) {
	var out []model.Score
	for _, s := range t.state.scores {
		if s.JudgeID != judgeID {
			continue
		}
		sub, ok := t.state.submissions[s.SubmissionID]
		if ok && sub.PhaseID == phaseID {
			out = append(out, s)
		}
	}
	sortByID(out, func(s model.Score) string { return s.ID })
	return out, nil
}

func (t *txStore) ScoresByTeamPhase(_ context.Context, teamID, phaseID string) ([]model.Score, error) {
	var out []model.Score
	for _, s := range t.state.scores {
		sub, ok := t.state.submissions[s.SubmissionID]
		if !ok || sub.TeamID != teamID {
			continue
		}
		// The phase filter goes through the scored criterion, matching how
		// team overviews slice scores.
		crit, ok := t.state.criteria[s.CriterionID]
		if ok && crit.PhaseID == phaseID {
			out = append(out, s)
		}
	}
	sortByID(out, func(s model.Score) string { return s.ID })
	return out, nil
}

func (t *txStore) AddScores(_ context.Context, scores []model.Score) error {
	for _, s := range scores {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, exists := t.state.scores[s.ID]; exists {
			return ErrConflict
		}
		t.state.scores[s.ID] = s
	}
	return nil
}

func (t *txStore) UpdateScore(_ context.Context, score model.Score) error {
	if _, ok := t.state.scores[score.ID]; !ok {
		return ErrNotFound
	}
	t.state.scores[score.ID] = score
	return nil
}

func (t *txStore) PhaseByID(_ context.Context, id string) (model.Phase, error) {
	p, ok := t.state.phases[id]
	if !ok {
		return model.Phase{}, ErrNotFound
	}
	return p, nil
}

func (t *txStore) PhasesByHackathon(_ context.Context, hackathonID string) ([]model.Phase, error) {
	var out []model.Phase
	for _, p := range t.state.phases {
		if p.HackathonID == hackathonID {
			out = append(out, p)
		}
	}
	sortByID(out, func(p model.Phase) string { return p.ID })
	return out, nil
}

func (t *txStore) CriterionByID(_ context.Context, id string) (model.Criterion, error) {
	c, ok := t.state.criteria[id]
	if !ok {
		return model.Criterion{}, ErrNotFound
	}
	return c, nil
}

func (t *txStore) CriteriaByPhase(_ context.Context, phaseID string) ([]model.Criterion, error) {
	var out []model.Criterion
	for _, c := range t.state.criteria {
		if phaseID == "" || c.PhaseID == phaseID {
			out = append(out, c)
		}
	}
	sortByID(out, func(c model.Criterion) string { return c.ID })
	return out, nil
}

func (t *txStore) AddCriteria(_ context.Context, criteria []model.Criterion) error {
	for _, c := range criteria {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, exists := t.state.criteria[c.ID]; exists {
			return ErrConflict
		}
		t.state.criteria[c.ID] = c
	}
	return nil
}

func (t *txStore) UpdateCriterion(_ context.Context, criterion model.Criterion) error {
	if _, ok := t.state.criteria[criterion.ID]; !ok {
		return ErrNotFound
	}
	t.state.criteria[criterion.ID] = criterion
	return nil
}

func (t *txStore) RemoveCriterion(_ context.Context, id string) error {
	if _, ok := t.state.criteria[id]; !ok {
		return ErrNotFound
	}
	delete(t.state.criteria, id)
	return nil
}

func (t *txStore) AssignmentsByJudgeHackathon(_ context.Context, judgeID, hackathonID string) ([]model.JudgeAssignment, error) {
	var out []model.JudgeAssignment
	for _, a := range t.state.assignments {
		if a.JudgeID == judgeID && a.HackathonID == hackathonID {
			out = append(out, a)
		}
	}
	sortByID(out, func(a model.JudgeAssignment) string { return a.ID })
	return out, nil
}

func (t *txStore) TeamByID(_ context.Context, id string) (model.Team, error) {
	tm, ok := t.state.teams[id]
	if !ok {
		return model.Team{}, ErrNotFound
	}
	return tm, nil
}

func (t *txStore) GroupByID(_ context.Context, id string) (model.Group, error) {
	g, ok := t.state.groups[id]
	if !ok {
		return model.Group{}, ErrNotFound
	}
	return g, nil
}

func (t *txStore) TrackByID(_ context.Context, id string) (model.Track, error) {
	tr, ok := t.state.tracks[id]
	if !ok {
		return model.Track{}, ErrNotFound
	}
	return tr, nil
}

// groupPhase resolves a group's phase through its track. Unknown groups or
// tracks resolve to "".
func (t *txStore) groupPhase(groupID string) string {
	g, ok := t.state.groups[groupID]
	if !ok {
		return ""
	}
	tr, ok := t.state.tracks[g.TrackID]
	if !ok {
		return ""
	}
	return tr.PhaseID
}

func (t *txStore) GroupsByPhase(_ context.Context, phaseID string) ([]model.Group, error) {
	var out []model.Group
	for _, g := range t.state.groups {
		if t.groupPhase(g.ID) == phaseID {
			out = append(out, g)
		}
	}
	sortByID(out, func(g model.Group) string { return g.ID })
	return out, nil
}

func (t *txStore) GroupTeamByTeamPhase(_ context.Context, teamID, phaseID string) (model.GroupTeam, error) {
	for _, gt := range t.state.groupTeams {
		if gt.TeamID == teamID && t.groupPhase(gt.GroupID) == phaseID {
			return gt, nil
		}
	}
	return model.GroupTeam{}, ErrNotFound
}

func (t *txStore) GroupTeamsByGroup(_ context.Context, groupID string) ([]model.GroupTeam, error) {
	var out []model.GroupTeam
	for _, gt := range t.state.groupTeams {
		if gt.GroupID == groupID {
			out = append(out, gt)
		}
	}
	sortByID(out, func(gt model.GroupTeam) string { return gt.ID })
	return out, nil
}

func (t *txStore) GroupTeamsByPhase(_ context.Context, phaseID string) ([]model.GroupTeam, error) {
	var out []model.GroupTeam
	for _, gt := range t.state.groupTeams {
		if t.groupPhase(gt.GroupID) == phaseID {
			out = append(out, gt)
		}
	}
	sortByID(out, func(gt model.GroupTeam) string { return gt.ID })
	return out, nil
}

func (t *txStore) SaveGroupTeams(_ context.Context, groupTeams []model.GroupTeam) error {
	for _, gt := range groupTeams {
		if _, ok := t.state.groupTeams[gt.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, gt := range groupTeams {
		t.state.groupTeams[gt.ID] = gt
	}
	return nil
}

func (t *txStore) PenaltiesByTeamPhase(_ context.Context, teamID, phaseID string) ([]model.PenaltyBonus, error) {
	var out []model.PenaltyBonus
	for _, p := range t.state.penalties {
		if p.TeamID == teamID && p.PhaseID == phaseID {
			out = append(out, p)
		}
	}
	sortByID(out, func(p model.PenaltyBonus) string { return p.ID })
	return out, nil
}

func (t *txStore) PenaltiesByPhase(_ context.Context, phaseID string) ([]model.PenaltyBonus, error) {
	var out []model.PenaltyBonus
	for _, p := range t.state.penalties {
		if p.PhaseID == phaseID {
			out = append(out, p)
		}
	}
	sortByID(out, func(p model.PenaltyBonus) string { return p.ID })
	return out, nil
}

func (t *txStore) RankingByTeamHackathon(_ context.Context, teamID, hackathonID string) (model.Ranking, error) {
	for _, r := range t.state.rankings {
		if r.TeamID == teamID && r.HackathonID == hackathonID {
			return r, nil
		}
	}
	return model.Ranking{}, ErrNotFound
}

func (t *txStore) RankingsByHackathon(_ context.Context, hackathonID string) ([]model.Ranking, error) {
	var out []model.Ranking
	for _, r := range t.state.rankings {
		if r.HackathonID == hackathonID {
			out = append(out, r)
		}
	}
	sortByID(out, func(r model.Ranking) string { return r.ID })
	return out, nil
}

func (t *txStore) UpsertRanking(ctx context.Context, ranking model.Ranking) error {
	existing, err := t.RankingByTeamHackathon(ctx, ranking.TeamID, ranking.HackathonID)
	if err == nil {
		ranking.ID = existing.ID
		t.state.rankings[ranking.ID] = ranking
		return nil
	}
	if ranking.ID == "" {
		ranking.ID = uuid.NewString()
	}
	t.state.rankings[ranking.ID] = ranking
	return nil
}

func (t *txStore) SaveRankings(_ context.Context, rankings []model.Ranking) error {
	for _, r := range rankings {
		if _, ok := t.state.rankings[r.ID]; !ok {
			return ErrNotFound
		}
	}
	for _, r := range rankings {
		t.state.rankings[r.ID] = r
	}
	return nil
}

func (t *txStore) QualificationExists(_ context.Context, teamID, phaseID string) (bool, error) {
	for _, q := range t.state.qualifications {
		if q.TeamID == teamID && q.PhaseID == phaseID {
			return true, nil
		}
	}
	return false, nil
}

func (t *txStore) AddQualification(ctx context.Context, q model.FinalQualification) error {
	exists, _ := t.QualificationExists(ctx, q.TeamID, q.PhaseID)
	if exists {
		return ErrConflict
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	t.state.qualifications[q.ID] = q
	return nil
}

func (t *txStore) QualificationsByHackathon(_ context.Context, hackathonID string) ([]model.FinalQualification, error) {
	var out []model.FinalQualification
	for _, q := range t.state.qualifications {
		tm, ok := t.state.teams[q.TeamID]
		if ok && tm.HackathonID == hackathonID {
			out = append(out, q)
		}
	}
	sortByID(out, func(q model.FinalQualification) string { return q.ID })
	return out, nil
}

// Atomically on a transactional view just runs fn against the same
// snapshot; the outermost transaction owns commit and rollback.
func (t *txStore) Atomically(_ context.Context, fn func(Store) error) error {
	return fn(t)
}

// MemStore is the in-memory Store. Reads share an RLock; Atomically holds
// the write lock for its whole duration and commits by swapping in a
// mutated clone, so a failed transaction leaves the state untouched.
type MemStore struct {
	mu   sync.RWMutex
	live txStore
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{live: txStore{state: newData()}}
}

// Atomically implements the unit-of-work commit boundary.
func (m *MemStore) Atomically(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := &txStore{state: m.live.state.clone()}
	if err := fn(clone); err != nil {
		return err
	}
	m.live.state = clone.state
	return nil
}

func (m *MemStore) read() *txStore {
	return &m.live
}

func (m *MemStore) SubmissionByID(ctx context.Context, id string) (model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().SubmissionByID(ctx, id)
}

func (m *MemStore) SubmissionsByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().SubmissionsByTeamPhase(ctx, teamID, phaseID)
}

func (m *MemStore) ScoreByID(ctx context.Context, id string) (model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().ScoreByID(ctx, id)
}

func (m *MemStore) ScoresBySubmission(ctx context.Context, submissionID string) ([]model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().ScoresBySubmission(ctx, submissionID)
}

func (m *MemStore) ScoresByJudgeSubmission(ctx context.Context, judgeID, submissionID string) ([]model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().ScoresByJudgeSubmission(ctx, judgeID, submissionID)
}

func (m *MemStore) ScoresByJudgePhase(ctx context.Context, judgeID, phaseID string) ([]model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().ScoresByJudgePhase(ctx, judgeID, phaseID)
}

func (m *MemStore) ScoresByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().ScoresByTeamPhase(ctx, teamID, phaseID)
}

func (m *MemStore) AddScores(ctx context.Context, scores []model.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().AddScores(ctx, scores)
}

func (m *MemStore) UpdateScore(ctx context.Context, score model.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().UpdateScore(ctx, score)
}

func (m *MemStore) PhaseByID(ctx context.Context, id string) (model.Phase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().PhaseByID(ctx, id)
}

func (m *MemStore) PhasesByHackathon(ctx context.Context, hackathonID string) ([]model.Phase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().PhasesByHackathon(ctx, hackathonID)
}

func (m *MemStore) CriterionByID(ctx context.Context, id string) (model.Criterion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().CriterionByID(ctx, id)
}

func (m *MemStore) CriteriaByPhase(ctx context.Context, phaseID string) ([]model.Criterion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().CriteriaByPhase(ctx, phaseID)
}

func (m *MemStore) AddCriteria(ctx context.Context, criteria []model.Criterion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().AddCriteria(ctx, criteria)
}

func (m *MemStore) UpdateCriterion(ctx context.Context, criterion model.Criterion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().UpdateCriterion(ctx, criterion)
}

func (m *MemStore) RemoveCriterion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().RemoveCriterion(ctx, id)
}

func (m *MemStore) AssignmentsByJudgeHackathon(ctx context.Context, judgeID, hackathonID string) ([]model.JudgeAssignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().AssignmentsByJudgeHackathon(ctx, judgeID, hackathonID)
}

func (m *MemStore) TeamByID(ctx context.Context, id string) (model.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().TeamByID(ctx, id)
}

func (m *MemStore) GroupByID(ctx context.Context, id string) (model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GroupByID(ctx, id)
}

func (m *MemStore) TrackByID(ctx context.Context, id string) (model.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().TrackByID(ctx, id)
}

func (m *MemStore) GroupsByPhase(ctx context.Context, phaseID string) ([]model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GroupsByPhase(ctx, phaseID)
}

func (m *MemStore) GroupTeamByTeamPhase(ctx context.Context, teamID, phaseID string) (model.GroupTeam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GroupTeamByTeamPhase(ctx, teamID, phaseID)
}

func (m *MemStore) GroupTeamsByGroup(ctx context.Context, groupID string) ([]model.GroupTeam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GroupTeamsByGroup(ctx, groupID)
}

func (m *MemStore) GroupTeamsByPhase(ctx context.Context, phaseID string) ([]model.GroupTeam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().GroupTeamsByPhase(ctx, phaseID)
}

func (m *MemStore) SaveGroupTeams(ctx context.Context, groupTeams []model.GroupTeam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().SaveGroupTeams(ctx, groupTeams)
}

func (m *MemStore) PenaltiesByTeamPhase(ctx context.Context, teamID, phaseID string) ([]model.PenaltyBonus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().PenaltiesByTeamPhase(ctx, teamID, phaseID)
}

func (m *MemStore) PenaltiesByPhase(ctx context.Context, phaseID string) ([]model.PenaltyBonus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().PenaltiesByPhase(ctx, phaseID)
}

func (m *MemStore) RankingByTeamHackathon(ctx context.Context, teamID, hackathonID string) (model.Ranking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().RankingByTeamHackathon(ctx, teamID, hackathonID)
}

func (m *MemStore) RankingsByHackathon(ctx context.Context, hackathonID string) ([]model.Ranking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().RankingsByHackathon(ctx, hackathonID)
}

func (m *MemStore) UpsertRanking(ctx context.Context, ranking model.Ranking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().UpsertRanking(ctx, ranking)
}

func (m *MemStore) SaveRankings(ctx context.Context, rankings []model.Ranking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().SaveRankings(ctx, rankings)
}

func (m *MemStore) QualificationExists(ctx context.Context, teamID, phaseID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().QualificationExists(ctx, teamID, phaseID)
}

func (m *MemStore) AddQualification(ctx context.Context, q model.FinalQualification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read().AddQualification(ctx, q)
}

func (m *MemStore) QualificationsByHackathon(ctx context.Context, hackathonID string) ([]model.FinalQualification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read().QualificationsByHackathon(ctx, hackathonID)
}

// sortByID keeps list reads deterministic regardless of map iteration order.
func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
