package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"golang.org/x/sync/errgroup"
)

// clampPage normalizes pagination for the list surfaces.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// DirectoryServiceOptions groups dependencies for DirectoryService.
type DirectoryServiceOptions struct {
	Repo   core.AdminDirectoryRepository // Required: admin identity store
	Logger *slog.Logger                  // Optional: structured logger
}

// DirectoryService serves the read side of the admin directory: filtered
// listings and the aggregate counts the console dashboard shows. All writes
// go through RoleTransitionService.
type DirectoryService struct {
	repo   core.AdminDirectoryRepository
	logger *slog.Logger
}

// NewDirectoryService constructs a new DirectoryService.
func NewDirectoryService(opts DirectoryServiceOptions) *DirectoryService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DirectoryService{
		repo:   opts.Repo,
		logger: logger,
	}
}

// List returns admin identities matching the filters, oldest first.
func (s *DirectoryService) List(ctx context.Context, opts model.AdminListOptions) ([]*model.AdminIdentity, error) {
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, apperrors.ValidationField("status", fmt.Sprintf("Status %q is not a known lifecycle status.", *opts.Status))
	}
	if opts.Role != nil && !opts.Role.Valid() {
		return nil, apperrors.ValidationField("role", fmt.Sprintf("Role %q is not a known admin role.", *opts.Role))
	}
	opts.Limit, opts.Offset = clampPage(opts.Limit, opts.Offset)

	identities, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list admin identities: %w", apperrors.MapDBError(err))
	}
	return identities, nil
}

// Get returns one admin identity by subject id.
func (s *DirectoryService) Get(ctx context.Context, subjectID string) (*model.AdminIdentity, error) {
	admin, err := s.repo.GetBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get admin identity: %w", apperrors.MapDBError(err))
	}
	return admin, nil
}

// Stats aggregates the directory counts with one parallel pass over the
// count queries.
func (s *DirectoryService) Stats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.repo.CountTotal(gctx)
		if err != nil {
			return fmt.Errorf("count total: %w", err)
		}
		stats.Total = total
		return nil
	})
	g.Go(func() error {
		pending, err := s.repo.CountByStatus(gctx, model.StatusPendingApproval)
		if err != nil {
			return fmt.Errorf("count pending: %w", err)
		}
		stats.Pending = pending
		return nil
	})
	g.Go(func() error {
		approved, err := s.repo.CountByStatus(gctx, model.StatusApproved)
		if err != nil {
			return fmt.Errorf("count approved: %w", err)
		}
		stats.Approved = approved
		return nil
	})
	g.Go(func() error {
		suspended, err := s.repo.CountByStatus(gctx, model.StatusSuspended)
		if err != nil {
			return fmt.Errorf("count suspended: %w", err)
		}
		stats.Suspended = suspended
		return nil
	})
	g.Go(func() error {
		supers, err := s.repo.CountApprovedSuperAdmins(gctx)
		if err != nil {
			return fmt.Errorf("count approved super admins: %w", err)
		}
		stats.SuperAdmins = supers
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect directory stats: %w", apperrors.MapDBError(err))
	}
	return &stats, nil
}
