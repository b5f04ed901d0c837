package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/hackarena/podium/internal/adapters/http/api"
	"github.com/hackarena/podium/internal/adapters/mq/dispatch"
	"github.com/hackarena/podium/internal/adapters/mq/queue"
	"github.com/hackarena/podium/internal/adapters/mq/worker"
	repository "github.com/hackarena/podium/internal/adapters/repository"
	app "github.com/hackarena/podium/internal/app"
	"github.com/hackarena/podium/internal/domain/model"
	"github.com/hackarena/podium/pkg/logger"
)

// Criteria seeded for the scoring phase.
var seedCriteria = []struct {
	name   string
	weight float64
}{
	{"Innovation", 10},
	{"Execution", 10},
	{"Impact", 5},
}

// criterionRef is the id/weight pair the generator scores against.
type criterionRef struct {
	id     string
	weight float64
}

// environment is the in-process stack under test.
type environment struct {
	server *httptest.Server
	pool   *worker.Pool
	queue  *queue.InMemoryQueue
	sender *countingSender

	hackathonID  string
	groupPhaseID string
	finalPhaseID string
	groups       []string
	teams        []string
	submissions  []string
	judges       []string
	criteria     []criterionRef
}

// countingSender counts deliveries instead of writing them anywhere, so a
// large run does not drown the log.
type countingSender struct {
	delivered int64
}

func (s *countingSender) Send(_ context.Context, _ model.Notification) error {
	atomic.AddInt64(&s.delivered, 1)
	return nil
}

// Run seeds a synthetic hackathon, floods it with concurrent scorecards
// over HTTP, and verifies the resulting standings and qualification.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("smoketest")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting scoring smoke test",
		logger.Int("teams", cfg.Teams),
		logger.Int("groups", cfg.Groups),
		logger.Int("judges", cfg.Judges),
		logger.Int("workers", cfg.Workers),
		logger.Int("qualifierQuantity", cfg.QualifierQuantity),
		logger.Any("verbose", cfg.Verbose),
	)

	env, err := buildEnvironment(ctx, cfg)
	if err != nil {
		return fmt.Errorf("environment setup failed: %w", err)
	}
	defer env.server.Close()
	defer func() {
		if err := env.pool.Shutdown(context.Background()); err != nil {
			log.Error(ctx, "worker pool shutdown failed", logger.Error(err))
		}
	}()
	stats.TeamsSeeded = len(env.teams)

	if err := checkServiceHealth(ctx, cfg, env.server.URL); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	jobs := generateJobs(env, cfg)
	stats.ScoresGenerated = len(jobs)
	log.Info(ctx, "generated scorecards", logger.Int("count", len(jobs)))

	if err := submitScorecards(ctx, cfg, env.server.URL, jobs, stats); err != nil {
		return fmt.Errorf("scorecard submission failed: %w", err)
	}

	if err := verifyStandings(ctx, cfg, env, stats); err != nil {
		return fmt.Errorf("standings verification failed: %w", err)
	}

	if err := verifyQualification(ctx, cfg, env, stats); err != nil {
		return fmt.Errorf("qualification verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, env, stats)

	log.Info(ctx, "smoke test completed successfully")
	return nil
}

// buildEnvironment wires the full stack in-process: store, notification
// pipeline, engine, and an HTTP server on a random port.
func buildEnvironment(ctx context.Context, cfg *Config) (*environment, error) {
	store := repository.NewMemStore()
	env := &environment{sender: &countingSender{}}

	hackathon := store.PutHackathon(model.Hackathon{Name: "Smoke Test Hackathon"})
	env.hackathonID = hackathon.ID

	now := time.Now()
	groupPhase := store.PutPhase(model.Phase{
		HackathonID: hackathon.ID,
		Name:        "Group Stage",
		StartDate:   now.Add(-48 * time.Hour),
		EndDate:     now.Add(-24 * time.Hour),
	})
	finalPhase := store.PutPhase(model.Phase{
		HackathonID: hackathon.ID,
		Name:        "Final",
		StartDate:   now.Add(24 * time.Hour),
		EndDate:     now.Add(48 * time.Hour),
	})
	env.groupPhaseID = groupPhase.ID
	env.finalPhaseID = finalPhase.ID

	track := store.PutTrack(model.Track{PhaseID: groupPhase.ID, Name: "Main"})

	criteria := make([]model.Criterion, len(seedCriteria))
	for i, c := range seedCriteria {
		criteria[i] = model.Criterion{PhaseID: groupPhase.ID, Name: c.name, Weight: c.weight}
	}
	if err := store.AddCriteria(ctx, criteria); err != nil {
		return nil, fmt.Errorf("seed criteria: %w", err)
	}
	stored, err := store.CriteriaByPhase(ctx, groupPhase.ID)
	if err != nil {
		return nil, fmt.Errorf("load criteria: %w", err)
	}
	for _, c := range stored {
		env.criteria = append(env.criteria, criterionRef{id: c.ID, weight: c.Weight})
	}

	groups := make([]model.Group, cfg.Groups)
	for i := range groups {
		groups[i] = store.PutGroup(model.Group{
			TrackID: track.ID,
			Name:    fmt.Sprintf("Group %d", i+1),
		})
		env.groups = append(env.groups, groups[i].ID)
	}

	for i := 0; i < cfg.Teams; i++ {
		team := store.PutTeam(model.Team{
			HackathonID: hackathon.ID,
			Name:        fmt.Sprintf("Team %d", i+1),
		})
		group := groups[i%len(groups)]
		store.PutGroupTeam(model.GroupTeam{GroupID: group.ID, TeamID: team.ID})
		submission := store.PutSubmission(model.Submission{
			TeamID:      team.ID,
			PhaseID:     groupPhase.ID,
			Title:       fmt.Sprintf("Project %d", i+1),
			SubmittedAt: now,
		})
		env.teams = append(env.teams, team.ID)
		env.submissions = append(env.submissions, submission.ID)
	}

	for i := 0; i < cfg.Judges; i++ {
		judgeID := fmt.Sprintf("judge-%d", i+1)
		store.PutJudgeAssignment(model.JudgeAssignment{
			JudgeID:     judgeID,
			HackathonID: hackathon.ID,
		})
		env.judges = append(env.judges, judgeID)
	}

	env.queue = queue.NewInMemoryQueue()
	env.pool = worker.NewPool(cfg.Workers, env.queue, env.sender)
	env.pool.Start(ctx)

	engine := app.New(store,
		app.WithQualifierQuantity(cfg.QualifierQuantity),
		app.WithNotifier(dispatch.NewQueueNotifier(env.queue)),
	)

	mux := http.NewServeMux()
	api.NewServer(engine, noStats{}, cfg.Teams+1).Register(ctx, mux)
	env.server = httptest.NewServer(mux)

	return env, nil
}

// noStats satisfies the stats endpoint with an empty payload.
type noStats struct{}

func (noStats) GetStats() map[string]interface{} {
	return map[string]interface{}{}
}

// checkServiceHealth verifies the service answers before the flood starts.
func checkServiceHealth(ctx context.Context, cfg *Config, baseURL string) error {
	client := newHTTPClient(cfg.Timeout)
	var health map[string]string
	if err := client.getJSON(ctx, baseURL+"/healthz", &health); err != nil {
		return err
	}
	if health["status"] != "ok" {
		return fmt.Errorf("unexpected health payload: %v", health)
	}
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(ctx context.Context, env *environment, stats *Stats) {
	var successRate, scoresPerSecond float64
	if stats.ScoresSubmitted > 0 {
		successRate = float64(stats.ScoresAccepted) / float64(stats.ScoresSubmitted) * 100
	}
	if stats.Duration > 0 {
		scoresPerSecond = float64(stats.ScoresSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Named("smoketest").Info(ctx, "final statistics",
		logger.Int("teamsSeeded", stats.TeamsSeeded),
		logger.Int("scoresGenerated", stats.ScoresGenerated),
		logger.Int("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int("scoresAccepted", stats.ScoresAccepted),
		logger.Int("scoresRejected", stats.ScoresRejected),
		logger.Int("standingsVerified", stats.StandingsVerified),
		logger.Int("qualifiersSelected", stats.QualifiersSelected),
		logger.Int("notificationsDelivered", int(atomic.LoadInt64(&env.sender.delivered))),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("scoresPerSecond", scoresPerSecond),
	)
}
