// Package reconciler provides adapters for running the periodic
// admin/member exclusivity sweep.
package reconciler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chapelhq/backoffice-go/config"
	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
	"github.com/chapelhq/backoffice-go/internal/service"
	"github.com/chapelhq/backoffice-go/internal/service/opsalert"
)

// Runner provides a simple adapter to run the reconciler loop.
// It constructs the sweep dependencies and runs the reconciler service.
type Runner struct {
	reconciler *service.ReconcilerService
	logger     *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.ReconcilerConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	EndUsers  core.EndUserRepository
	Directory core.AdminDirectoryRepository
	Metrics   statsd.Sink
	Alerts    *opsalert.Service
}

// NewRunner creates a new reconciler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if err := validateRunnerOptions(&opts); err != nil {
		return nil, err
	}

	reconciler, err := wireReconcilerService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire reconciler service: %w", err)
	}

	return &Runner{
		reconciler: reconciler,
		logger:     opts.Logger,
	}, nil
}

// validateRunnerOptions validates and sets defaults for RunnerOptions.
func validateRunnerOptions(opts *RunnerOptions) error {
	if opts.DB == nil && (opts.EndUsers == nil || opts.Directory == nil) {
		return errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return nil
}

// wireReconcilerService wires up all dependencies for the reconciler service.
func wireReconcilerService(opts RunnerOptions) (*service.ReconcilerService, error) {
	endUsers := opts.EndUsers
	if endUsers == nil {
		endUsers = data.NewEndUserRepo(opts.DB)
	}

	directory := opts.Directory
	if directory == nil {
		directory = data.NewAdminIdentityRepo(opts.DB, data.AdminRepoConfig{})
	}

	sweeper := service.NewExclusivityService(service.ExclusivityServiceOptions{
		EndUsers:         endUsers,
		Directory:        directory,
		Logger:           opts.Logger,
		Metrics:          opts.Metrics,
		SweepConcurrency: opts.Config.SweepConcurrency,
	})

	return service.NewReconcilerService(service.ReconcilerServiceOptions{
		Sweeper: sweeper,
		Config:  opts.Config,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
		Alerts:  opts.Alerts,
	})
}

// Run starts the reconciler loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting reconciler runner")
	return r.reconciler.Run(ctx)
}
