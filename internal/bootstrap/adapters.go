package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/chapelhq/backoffice-go/config"
	"github.com/chapelhq/backoffice-go/internal/adapters/reconciler"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
	"github.com/chapelhq/backoffice-go/internal/service/opsalert"
)

// ReconcilerRunnerConfig contains configuration for the exclusivity reconciler.
type ReconcilerRunnerConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Config  config.ReconcilerConfig
	Metrics statsd.Sink
	Alerts  *opsalert.Service
}

// RunReconciler starts the periodic exclusivity sweep loop. It blocks until
// the context is cancelled or the runner fails.
func RunReconciler(ctx context.Context, cfg ReconcilerRunnerConfig) error {
	runner, err := reconciler.NewRunner(reconciler.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
		Alerts:  cfg.Alerts,
	})
	if err != nil {
		return fmt.Errorf("create reconciler runner: %w", err)
	}

	return runner.Run(ctx)
}
