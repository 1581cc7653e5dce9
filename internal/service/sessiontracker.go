package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/core"
	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
)

// SessionTrackerServiceOptions contains configuration options for creating a SessionTrackerService.
type SessionTrackerServiceOptions struct {
	Repo   core.SessionTrackerRepository // Required: login row data operations
	Logger *slog.Logger                  // Optional: defaults to slog.Default()
}

// SessionTrackerService serves the self-service view over the audit-facing
// login rows. The subject filter always comes from the capability, so a
// caller can only ever see or close their own rows.
type SessionTrackerService struct {
	repo   core.SessionTrackerRepository
	logger *slog.Logger
}

// NewSessionTrackerService creates a new SessionTrackerService with the given options.
func NewSessionTrackerService(opts SessionTrackerServiceOptions) *SessionTrackerService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionTrackerService{
		repo:   opts.Repo,
		logger: logger,
	}
}

// ListOwn returns the caller's login history, newest first.
func (s *SessionTrackerService) ListOwn(
	ctx context.Context,
	actor domainguard.Capability,
	opts model.SessionListOptions,
) ([]*model.AdminSession, error) {
	opts.SubjectID = actor.SubjectID
	opts.Limit, opts.Offset = clampPage(opts.Limit, opts.Offset)
	sessions, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list admin sessions: %w", apperrors.MapDBError(err))
	}
	return sessions, nil
}

// End closes one of the caller's own open login rows. A row that is already
// closed, missing, or owned by someone else is a silent no-op, so the
// endpoint leaks nothing about other subjects' sessions.
func (s *SessionTrackerService) End(
	ctx context.Context,
	actor domainguard.Capability,
	sessionID string,
) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return apperrors.ValidationField("session_id", "A session id is required.")
	}

	closed, err := s.repo.End(ctx, sessionID, actor.SubjectID)
	if err != nil {
		return fmt.Errorf("end admin session: %w", apperrors.MapDBError(err))
	}
	if closed {
		s.logger.Info("ended admin session",
			"session_id", sessionID,
			"subject_id", actor.SubjectID)
	}
	return nil
}

// OpenCount reports how many of the caller's login rows are still open.
func (s *SessionTrackerService) OpenCount(ctx context.Context, actor domainguard.Capability) (int, error) {
	count, err := s.repo.CountOpen(ctx, actor.SubjectID)
	if err != nil {
		return 0, fmt.Errorf("count open admin sessions: %w", apperrors.MapDBError(err))
	}
	return count, nil
}
