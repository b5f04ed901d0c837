package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hackarena/podium/internal/adapters/http/api"
	"github.com/hackarena/podium/internal/adapters/http/swagger"
	"github.com/hackarena/podium/internal/adapters/mq/dispatch"
	"github.com/hackarena/podium/internal/adapters/mq/queue"
	"github.com/hackarena/podium/internal/adapters/mq/worker"
	repository "github.com/hackarena/podium/internal/adapters/repository"
	app "github.com/hackarena/podium/internal/app"
	"github.com/hackarena/podium/internal/config"
	"github.com/hackarena/podium/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since the logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Pick the store: Postgres when a database URL is configured, otherwise
	// the in-memory store for local runs and demos.
	var store repository.Store
	if cfg.DatabaseURL != "" {
		pg, err := repository.NewPgStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error(ctx, "failed to connect to database", logger.Error(err))
			return
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error(ctx, "failed to ensure schema", logger.Error(err))
			return
		}
		store = pg
		log.Info(ctx, "using postgres store")
	} else {
		store = repository.NewMemStore()
		log.Info(ctx, "using in-memory store")
	}

	// Notification pipeline: bounded queue drained by a dispatch pool.
	notifyQueue := queue.NewInMemoryQueue(
		queue.WithCapacity(cfg.NotifyQueueSize),
		queue.WithBufferSize(cfg.NotifyQueueSize),
	)
	pool := worker.NewPool(cfg.NotifyWorkerCount, notifyQueue, dispatch.NewLogSender())
	pool.Start(ctx)

	engine := app.New(store,
		app.WithQualifierQuantity(cfg.QualifierQuantity),
		app.WithNotifier(dispatch.NewQueueNotifier(notifyQueue)),
		app.WithLogger(log.Named("engine")),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API docs under /api-docs.
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(engine, &runtimeStats{queue: notifyQueue, cfg: cfg}, cfg.MaxGroupPage)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	// Drain the notification backlog before exiting.
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// runtimeStats exposes operational numbers on GET /stats.
type runtimeStats struct {
	queue *queue.InMemoryQueue
	cfg   *config.Config
}

func (s *runtimeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"notify_queue_length": s.queue.Len(context.Background()),
		"notify_worker_count": s.cfg.NotifyWorkerCount,
		"qualifier_quantity":  s.cfg.QualifierQuantity,
		"max_group_page":      s.cfg.MaxGroupPage,
	}
}
