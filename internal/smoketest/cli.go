package smoketest

import (
	"fmt"
	"os"

	"github.com/hackarena/podium/pkg/logger"
)

// SetupLogging initializes the logger for a smoke test run.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Podium Scoring Smoke Test
=========================

Boots the full scoring stack in-process, floods it with concurrent
scorecards over HTTP, then verifies group standings and qualification.

Usage:
  go run cmd/smoke-test/main.go [options]

Options:
  -teams int
        Number of teams to seed (default 40)
  -groups int
        Number of groups to spread teams across (default 4)
  -judges int
        Number of judges scoring every submission (default 3)
  -workers int
        Number of concurrent submitters (default CPU cores * 2)
  -quantity int
        Teams advanced by the qualification run (default 8)
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/smoke-test/main.go

  # Heavier run
  go run cmd/smoke-test/main.go -teams 200 -groups 10 -judges 5 -workers 16
`)
}
