package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	obserrors "github.com/chapelhq/backoffice-go/internal/observability/errors"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
	"golang.org/x/sync/errgroup"
)

const defaultSweepConcurrency = 4

// ExclusivityServiceOptions contains configuration options for creating an ExclusivityService.
type ExclusivityServiceOptions struct {
	EndUsers         core.EndUserRepository        // Required: member account lookups and blocks
	Directory        core.AdminDirectoryRepository // Required: admin email listing for sweeps
	Logger           *slog.Logger                  // Optional: defaults to slog.Default()
	Metrics          statsd.Sink                   // Optional: nil disables emission
	SweepConcurrency int                           // Optional: defaults to 4 concurrent lookups
}

// ExclusivityService keeps the admin and member populations disjoint. An email
// that belongs to an approved admin must not stay usable as a member account,
// so approval blocks any colliding end-user row and a periodic sweep catches
// accounts created after the fact.
type ExclusivityService struct {
	endUsers         core.EndUserRepository
	directory        core.AdminDirectoryRepository
	logger           *slog.Logger
	metrics          statsd.Sink
	sweepConcurrency int
}

// NewExclusivityService creates a new ExclusivityService with the given options.
func NewExclusivityService(opts ExclusivityServiceOptions) *ExclusivityService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := opts.SweepConcurrency
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}

	return &ExclusivityService{
		endUsers:         opts.EndUsers,
		directory:        opts.Directory,
		logger:           logger,
		metrics:          opts.Metrics,
		sweepConcurrency: concurrency,
	}
}

// Enforce blocks the end-user account registered under the admin's email, if
// one exists. It is idempotent: calling it again for an already-blocked
// account is a successful no-op, so approval flows can run it unconditionally.
// A missing end-user schema surfaces as a store error, never as a denial.
func (s *ExclusivityService) Enforce(
	ctx context.Context,
	adminSubjectID, email string,
) (*model.ExclusivityResult, error) {
	normalized := model.NormalizeEmail(email)
	if normalized == "" {
		return nil, apperrors.Validation("An email is required to enforce admin and member exclusivity.")
	}

	result := &model.ExclusivityResult{Email: normalized}

	account, err := s.endUsers.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, data.ErrEndUserNotFound) {
			return result, nil
		}
		return nil, fmt.Errorf("look up end-user account: %w", apperrors.MapDBError(err))
	}

	result.Found = true
	if account.Blocked() {
		result.AlreadyBlocked = true
		return result, nil
	}

	reason := fmt.Sprintf("email reserved for back-office admin %s", adminSubjectID)
	if _, err := s.endUsers.Block(ctx, account.ID, reason); err != nil {
		if errors.Is(err, data.ErrEndUserNotFound) {
			// The account vanished between the lookup and the block.
			result.Found = false
			return result, nil
		}
		return nil, fmt.Errorf("block end-user account: %w", apperrors.MapDBError(err))
	}

	result.Blocked = true
	s.logger.Info("blocked end-user account sharing an admin email",
		"account_id", account.ID,
		"admin_subject_id", adminSubjectID)
	s.count("exclusivity.blocked", nil)
	return result, nil
}

// Sweep checks every admin email against the end-user accounts and blocks the
// collisions it finds. With dryRun set it reports the counts a real pass would
// produce without writing anything.
func (s *ExclusivityService) Sweep(ctx context.Context, dryRun bool) (*model.SweepReport, error) {
	emails, err := s.directory.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admin emails: %w", apperrors.MapDBError(err))
	}

	report := &model.SweepReport{DryRun: dryRun}
	var mu sync.Mutex
	record := func(apply func(r *model.SweepReport)) {
		mu.Lock()
		defer mu.Unlock()
		apply(report)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.sweepConcurrency)
	for _, email := range emails {
		g.Go(func() error {
			outcome, err := s.sweepOne(ctx, email, dryRun)
			if err != nil {
				return err
			}
			record(func(r *model.SweepReport) {
				r.Scanned++
				if outcome.collision {
					r.Collisions++
				}
				if outcome.alreadyBlocked {
					r.AlreadyBlocked++
				}
				if outcome.newlyBlocked {
					r.NewlyBlocked++
				}
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep admin emails: %w", err)
	}

	s.logger.Info("completed admin and member exclusivity sweep",
		"scanned", report.Scanned,
		"collisions", report.Collisions,
		"already_blocked", report.AlreadyBlocked,
		"newly_blocked", report.NewlyBlocked,
		"dry_run", report.DryRun)
	return report, nil
}

type sweepOutcome struct {
	collision      bool
	alreadyBlocked bool
	newlyBlocked   bool
}

func (s *ExclusivityService) sweepOne(ctx context.Context, email string, dryRun bool) (sweepOutcome, error) {
	var outcome sweepOutcome

	account, err := s.endUsers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrEndUserNotFound) {
			return outcome, nil
		}
		return outcome, fmt.Errorf("look up end-user account: %w", apperrors.MapDBError(err))
	}

	outcome.collision = true
	if account.Blocked() {
		outcome.alreadyBlocked = true
		return outcome, nil
	}
	if dryRun {
		// Count what a real pass would block without touching the row.
		outcome.newlyBlocked = true
		return outcome, nil
	}

	if _, err := s.endUsers.Block(ctx, account.ID, "email reserved for a back-office admin (exclusivity sweep)"); err != nil {
		if errors.Is(err, data.ErrEndUserNotFound) {
			outcome.collision = false
			return outcome, nil
		}
		// A single stuck row should not abort the rest of the sweep.
		s.logger.Error("failed to block end-user account during sweep",
			"account_id", account.ID,
			"error", err)
		s.count("exclusivity.block_failure", map[string]string{
			"error_class": obserrors.Classify(err),
		})
		return outcome, nil
	}

	outcome.newlyBlocked = true
	s.count("exclusivity.blocked", nil)
	return outcome, nil
}

func (s *ExclusivityService) count(name string, tags map[string]string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count(name, 1, tags)
}
