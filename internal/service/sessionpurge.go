package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chapelhq/backoffice-go/internal/core"
	obserrors "github.com/chapelhq/backoffice-go/internal/observability/errors"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
	"github.com/chapelhq/backoffice-go/internal/ports"
)

const purgeTimeout = 10 * time.Second

// SessionPurgeServiceOptions contains configuration options for creating a SessionPurgeService.
type SessionPurgeServiceOptions struct {
	Tracker  core.SessionTrackerRepository // Required: audit-facing login rows
	Sessions ports.SessionStore            // Required: live cookie sessions
	Provider ports.AuthProvider            // Required: refresh token revocation
	Logger   *slog.Logger                  // Optional: defaults to slog.Default()
	Metrics  statsd.Sink                   // Optional: nil disables emission
}

// SessionPurgeService tears down everything a subject can still use after a
// suspension or deletion: live sessions in the store, refresh tokens at the
// provider, and the open login rows. The authoritative status flip has already
// committed by the time a purge runs, so every stage is best effort; failures
// are logged and counted, never surfaced to the caller.
type SessionPurgeService struct {
	tracker  core.SessionTrackerRepository
	sessions ports.SessionStore
	provider ports.AuthProvider
	logger   *slog.Logger
	metrics  statsd.Sink

	wg sync.WaitGroup
}

// PurgeResult reports what a purge pass managed to tear down.
type PurgeResult struct {
	SessionsDeleted int // Live sessions removed from the store
	TokensRevoked   int // Refresh tokens revoked at the provider
	TrackerClosed   int // Open login rows force-closed
}

// NewSessionPurgeService creates a new SessionPurgeService with the given options.
func NewSessionPurgeService(opts SessionPurgeServiceOptions) *SessionPurgeService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionPurgeService{
		tracker:  opts.Tracker,
		sessions: opts.Sessions,
		provider: opts.Provider,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// PurgeSubject tears down the subject's sessions, tokens, and login rows. The
// store goes first so live cookies die before anything else; the tokens come
// out of the deleted sessions, so a store failure also skips revocation.
func (s *SessionPurgeService) PurgeSubject(ctx context.Context, subjectID string) PurgeResult {
	var result PurgeResult

	deleted, err := s.sessions.DeleteAllForSubject(ctx, subjectID)
	if err != nil {
		s.logger.Error("failed to delete sessions during purge",
			"subject_id", subjectID,
			"error", err)
		s.countFailure("session_store", err)
	}
	result.SessionsDeleted = len(deleted)

	for _, session := range deleted {
		if session.RefreshToken == "" {
			continue
		}
		if err := s.provider.Revoke(ctx, session.RefreshToken); err != nil {
			s.logger.Error("failed to revoke refresh token during purge",
				"subject_id", subjectID,
				"session_id", session.ID,
				"error", err)
			s.countFailure("revoke", err)
			continue
		}
		result.TokensRevoked++
	}

	closed, err := s.tracker.ForceCloseAll(ctx, subjectID)
	if err != nil {
		s.logger.Error("failed to force-close login rows during purge",
			"subject_id", subjectID,
			"error", err)
		s.countFailure("tracker", err)
	}
	result.TrackerClosed = closed

	s.logger.Info("purged subject sessions",
		"subject_id", subjectID,
		"sessions_deleted", result.SessionsDeleted,
		"tokens_revoked", result.TokensRevoked,
		"tracker_closed", result.TrackerClosed)
	return result
}

// PurgeSubjectAsync runs PurgeSubject on a detached context so a transition
// response never waits on the provider. Close drains the in-flight purges.
func (s *SessionPurgeService) PurgeSubjectAsync(subjectID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The transition request finishes with the response; the purge must not.
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()
		s.PurgeSubject(ctx, subjectID)
	}()
}

// Close waits for in-flight purges. Call it during shutdown after the HTTP
// server has drained, and in tests before asserting on the stores.
func (s *SessionPurgeService) Close() {
	s.wg.Wait()
}

func (s *SessionPurgeService) countFailure(stage string, err error) {
	if s.metrics == nil {
		return
	}
	tags := map[string]string{"stage": stage}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
	s.metrics.Count("purge.failure", 1, tags)
}
