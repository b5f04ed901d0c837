package smoketest

import (
	"context"
	"fmt"

	"github.com/hackarena/podium/pkg/logger"
)

// verifyStandings checks every group listing for coherent ranks: each
// seeded team appears exactly once, ranks are dense from 1, and averages
// never increase as rank grows.
func verifyStandings(ctx context.Context, cfg *Config, env *environment, stats *Stats) error {
	log := logger.Get().Named("smoketest")
	client := newHTTPClient(cfg.Timeout)

	seen := make(map[string]bool, len(env.teams))
	for _, groupID := range env.groups {
		var rows []teamScoreRow
		url := env.server.URL + "/api/groups/" + groupID + "/scores"
		if err := client.getJSON(ctx, url, &rows); err != nil {
			return fmt.Errorf("fetch group %s standings: %w", groupID, err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("group %s has no standings", groupID)
		}

		for i, row := range rows {
			if seen[row.TeamID] {
				return fmt.Errorf("team %s appears in more than one standing", row.TeamID)
			}
			seen[row.TeamID] = true

			if row.Rank != i+1 {
				return fmt.Errorf("group %s rank gap: position %d holds rank %d", groupID, i+1, row.Rank)
			}
			if i > 0 && row.AverageScore > rows[i-1].AverageScore {
				return fmt.Errorf("group %s order broken: rank %d outscores rank %d", groupID, row.Rank, rows[i-1].Rank)
			}
		}
		stats.StandingsVerified += len(rows)
	}

	if len(seen) != len(env.teams) {
		return fmt.Errorf("expected %d ranked teams, found %d", len(env.teams), len(seen))
	}

	log.Info(ctx, "standings verified",
		logger.Int("groups", len(env.groups)),
		logger.Int("teams", stats.StandingsVerified),
	)
	return nil
}

// verifyQualification runs the selection twice and checks the selected set
// is bounded, duplicate-free, ordered, and stable across reruns.
func verifyQualification(ctx context.Context, cfg *Config, env *environment, stats *Stats) error {
	log := logger.Get().Named("smoketest")
	client := newHTTPClient(cfg.Timeout)
	url := env.server.URL + "/api/phases/" + env.finalPhaseID + "/qualifiers"

	qualified, err := selectQualifiers(ctx, client, url)
	if err != nil {
		return err
	}

	expected := cfg.QualifierQuantity
	if len(env.teams) < expected {
		expected = len(env.teams)
	}
	if len(qualified) != expected {
		return fmt.Errorf("expected %d qualifiers, got %d", expected, len(qualified))
	}

	seen := make(map[string]bool, len(qualified))
	for i, q := range qualified {
		if seen[q.TeamID] {
			return fmt.Errorf("team %s qualified twice", q.TeamID)
		}
		seen[q.TeamID] = true
		if i > 0 && q.AdjustedScore > qualified[i-1].AdjustedScore {
			return fmt.Errorf("qualifier order broken at position %d", i+1)
		}
	}

	// A rerun must not mint new qualifications.
	rerun, err := selectQualifiers(ctx, client, url)
	if err != nil {
		return fmt.Errorf("rerun failed: %w", err)
	}
	if len(rerun) != len(qualified) {
		return fmt.Errorf("rerun selected %d qualifiers, first run selected %d", len(rerun), len(qualified))
	}

	var finalists []qualifiedTeamRow
	finalistsURL := env.server.URL + "/api/phases/" + env.finalPhaseID + "/finalists"
	if err := client.getJSON(ctx, finalistsURL, &finalists); err != nil {
		return fmt.Errorf("fetch finalists: %w", err)
	}
	if len(finalists) != len(qualified) {
		return fmt.Errorf("finalist list has %d teams, qualification selected %d", len(finalists), len(qualified))
	}

	stats.QualifiersSelected = len(qualified)
	log.Info(ctx, "qualification verified",
		logger.Int("qualifiers", len(qualified)),
		logger.Int("finalists", len(finalists)),
	)
	return nil
}

// selectQualifiers triggers one qualification run and decodes the result.
func selectQualifiers(ctx context.Context, client *httpClient, url string) ([]qualifiedTeamRow, error) {
	resp, err := client.postJSON(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("qualification request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read qualification response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return nil, fmt.Errorf("qualification returned status %d: %s", resp.StatusCode, string(body))
	}
	var out []qualifiedTeamRow
	if err := unmarshalJSON(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode qualification response: %w", err)
	}
	return out, nil
}
