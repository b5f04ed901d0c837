package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/hackarena/podium/internal/smoketest"
)

// Default configuration constants.
const (
	defaultTeams       = 40
	defaultGroups      = 4
	defaultJudges      = 3
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultQuantity    = 8
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		teams    = flag.Int("teams", defaultTeams, "Number of teams to seed")
		groups   = flag.Int("groups", defaultGroups, "Number of groups to spread teams across")
		judges   = flag.Int("judges", defaultJudges, "Number of judges scoring every submission")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		quantity = flag.Int("quantity", defaultQuantity, "Teams advanced by the qualification run")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	if err := smoketest.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &smoketest.Config{
		Teams:             *teams,
		Groups:            *groups,
		Judges:            *judges,
		Workers:           *workers,
		Timeout:           *timeout,
		QualifierQuantity: *quantity,
		Verbose:           *verbose,
	}

	if err := smoketest.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
