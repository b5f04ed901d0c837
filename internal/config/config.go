// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL selects the Postgres store when set. An empty value runs
	// the service on the in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// QualifierQuantity caps how many teams advance per qualification run.
	QualifierQuantity int `koanf:"qualifier_quantity"`

	// NotifyQueueSize bounds the in-memory notification queue.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkerCount sets the number of notification dispatch workers.
	NotifyWorkerCount int `koanf:"notify_worker_count"`

	// MaxGroupPage caps GET group score listings.
	MaxGroupPage int `koanf:"max_group_page"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DatabaseURL:       "",
		QualifierQuantity: 8,
		NotifyQueueSize:   10_000,
		NotifyWorkerCount: runtime.NumCPU() * 4,
		MaxGroupPage:      100,
	}
	return c
}
