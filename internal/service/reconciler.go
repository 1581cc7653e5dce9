package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/chapelhq/backoffice-go/config"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	obserrors "github.com/chapelhq/backoffice-go/internal/observability/errors"
	"github.com/chapelhq/backoffice-go/internal/observability/metrics"
	"github.com/chapelhq/backoffice-go/internal/observability/notify"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
	"github.com/chapelhq/backoffice-go/internal/service/opsalert"
)

// Sweeper runs one full admin/member exclusivity pass.
type Sweeper interface {
	Sweep(ctx context.Context, dryRun bool) (*model.SweepReport, error)
}

var _ Sweeper = (*ExclusivityService)(nil)

// ReconcilerServiceOptions groups dependencies for ReconcilerService.
type ReconcilerServiceOptions struct {
	Sweeper Sweeper                 // Required: exclusivity sweep implementation
	Config  config.ReconcilerConfig // Required: reconciler configuration
	Logger  *slog.Logger            // Optional: structured logger
	Metrics statsd.Sink             // Optional: metrics sink (StatsD-compatible)
	Alerts  *opsalert.Service       // Optional: operator alert fan-out
}

// ReconcilerService periodically re-checks every admin email against the
// end-user accounts. Approval-time enforcement closes the front door; this
// loop catches member accounts created after an admin was already approved.
type ReconcilerService struct {
	sweeper Sweeper
	config  config.ReconcilerConfig
	logger  *slog.Logger
	metrics statsd.Sink
	alerts  *opsalert.Service
}

// NewReconcilerService constructs a new ReconcilerService.
func NewReconcilerService(opts ReconcilerServiceOptions) (*ReconcilerService, error) {
	if opts.Sweeper == nil {
		return nil, errors.New("Sweeper is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reconciler_service")
	}

	return &ReconcilerService{
		sweeper: opts.Sweeper,
		config:  opts.Config,
		logger:  logger,
		metrics: opts.Metrics,
		alerts:  opts.Alerts,
	}, nil
}

// Run starts the reconciler loop and runs until the context is cancelled.
// It sweeps at the configured interval, dry-run included.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReconcilerService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting reconciler service",
			"interval", s.config.Interval,
			"dry_run", s.config.DryRun,
		)
	}

	// Add jitter to prevent thundering herd if multiple instances start together
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Sweep immediately after jitter
	if err := s.runSweep(ctx); err != nil {
		s.logSweepError(err, "initial sweep")
	}

	return s.runLoop(ctx, ticker)
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *ReconcilerService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	// Use modulo on uint64 before converting to avoid overflow
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		// Graceful shutdown during jitter
	}
}

// runLoop runs the sweep loop until context is cancelled.
func (s *ReconcilerService) runLoop(ctx context.Context, ticker *time.Ticker) error {
	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "reconciler service stopping", "reason", ctx.Err())
			}
			// Return nil on graceful shutdown to avoid treating it as a failure
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if err := s.runSweep(ctx); err != nil {
				s.logSweepError(err, "sweep")
				// Continue running despite errors
			}
		}
	}
}

// runSweep performs one exclusivity pass and emits its metrics.
func (s *ReconcilerService) runSweep(ctx context.Context) error {
	start := time.Now()
	report, err := s.sweeper.Sweep(ctx, s.config.DryRun)
	if isContextCancellation(err) {
		// A sweep cut short by shutdown is not an outcome worth counting.
		return err
	}

	s.emitSweepMetrics(report, time.Since(start), err)

	if err != nil {
		s.alertSweepFailure(ctx, err)
		return fmt.Errorf("exclusivity sweep: %w", err)
	}

	if report != nil && s.config.DryRun && report.NewlyBlocked > 0 && s.logger != nil {
		s.logger.WarnContext(ctx, "dry-run sweep found unblocked admin emails",
			"collisions", report.Collisions,
			"would_block", report.NewlyBlocked,
		)
	}

	return nil
}

func (s *ReconcilerService) emitSweepMetrics(report *model.SweepReport, elapsed time.Duration, err error) {
	if s.metrics == nil {
		return
	}

	result := metrics.ResultSuccess
	switch {
	case err != nil:
		result = metrics.ResultError
	case report == nil || report.Collisions == 0:
		result = metrics.ResultNoop
	}

	tags := map[string]string{
		"result":  result,
		"dry_run": strconv.FormatBool(s.config.DryRun),
	}

	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	s.metrics.Count("reconciler.sweep", 1, tags)

	if elapsed > 0 {
		s.metrics.Timing("reconciler.sweep_duration", elapsed, metrics.CloneTags(tags))
	}

	if report != nil {
		if report.Scanned > 0 {
			s.metrics.Count("reconciler.emails_scanned", int64(report.Scanned), metrics.CloneTags(tags))
		}
		if report.Collisions > 0 {
			s.metrics.Count("reconciler.collisions", int64(report.Collisions), metrics.CloneTags(tags))
		}
		if report.NewlyBlocked > 0 {
			s.metrics.Count("reconciler.newly_blocked", int64(report.NewlyBlocked), metrics.CloneTags(tags))
		}
	}

	if err == nil {
		s.metrics.Gauge("reconciler.last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func (s *ReconcilerService) alertSweepFailure(ctx context.Context, err error) {
	if s.alerts == nil || !s.alerts.Enabled() {
		return
	}

	s.alerts.Notify(ctx, notify.OpsAlertPayload{
		Kind:       notify.KindSweepFailure,
		Source:     "reconciler",
		Subject:    "exclusivity_sweep",
		Error:      err.Error(),
		ErrorClass: obserrors.Classify(err),
		Metadata: map[string]string{
			"dry_run": strconv.FormatBool(s.config.DryRun),
		},
	})
}

func (s *ReconcilerService) logSweepError(err error, label string) {
	if err == nil || s.logger == nil {
		return
	}

	if isContextCancellation(err) {
		s.logger.Debug(label+" cancelled by context", "error", err)
		return
	}

	s.logger.Error(label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
