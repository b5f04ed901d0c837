package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hackarena/podium/pkg/logger"
)

// HTTP status code constants.
const (
	statusOK      = 200
	statusCreated = 201
)

// httpClient wraps http.Client with a timeout and JSON helpers.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}

func (c *httpClient) postJSON(ctx context.Context, url string, in interface{}) (*http.Response, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// unmarshalJSON unmarshals JSON into a struct.
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Wire shapes for the scoring API.
type scoreItemRequest struct {
	CriterionID string  `json:"criterion_id"`
	Value       float64 `json:"value"`
	Comment     string  `json:"comment,omitempty"`
}

type submitScoresRequest struct {
	JudgeID string             `json:"judge_id"`
	Scores  []scoreItemRequest `json:"scores"`
}

type teamScoreRow struct {
	TeamID       string  `json:"team_id"`
	TeamName     string  `json:"team_name"`
	AverageScore float64 `json:"average_score"`
	Rank         int     `json:"rank"`
}

type qualifiedTeamRow struct {
	TeamID        string  `json:"team_id"`
	TeamName      string  `json:"team_name"`
	GroupID       string  `json:"group_id"`
	AdjustedScore float64 `json:"adjusted_score"`
}

// submitScorecards drains the generated jobs through a worker pool.
func submitScorecards(ctx context.Context, cfg *Config, baseURL string, jobs []scoreJob, stats *Stats) error {
	log := logger.Get().Named("smoketest")
	log.Info(ctx, "submitting scorecards",
		logger.Int("jobs", len(jobs)),
		logger.Int("workers", cfg.Workers),
	)

	client := newHTTPClient(cfg.Timeout)

	var (
		submitted int64
		accepted  int64
		rejected  int64
	)

	jobChan := make(chan scoreJob, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddInt64(&submitted, 1)
				if submitSingleScorecard(ctx, client, baseURL, job) {
					atomic.AddInt64(&accepted, 1)
				} else {
					atomic.AddInt64(&rejected, 1)
				}
			}
		}()
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- job:
			}
		}
	}()

	wg.Wait()

	stats.ScoresSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ScoresAccepted = int(atomic.LoadInt64(&accepted))
	stats.ScoresRejected = int(atomic.LoadInt64(&rejected))

	log.Info(ctx, "scorecard submission completed",
		logger.Int("accepted", stats.ScoresAccepted),
		logger.Int("rejected", stats.ScoresRejected),
	)
	if stats.ScoresRejected > 0 {
		return fmt.Errorf("%d of %d scorecards were rejected", stats.ScoresRejected, stats.ScoresSubmitted)
	}
	return nil
}

// submitSingleScorecard posts one scorecard and reports acceptance.
func submitSingleScorecard(ctx context.Context, client *httpClient, baseURL string, job scoreJob) bool {
	url := baseURL + "/api/submissions/" + job.submissionID + "/scores"
	resp, err := client.postJSON(ctx, url, job.payload)
	if err != nil {
		return false
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return false
	}
	if resp.StatusCode != statusCreated {
		logger.Get().Named("smoketest").Warn(ctx, "scorecard rejected",
			logger.String("submissionID", job.submissionID),
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(body)),
		)
		return false
	}
	return true
}
