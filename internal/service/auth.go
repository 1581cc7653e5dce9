package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"github.com/chapelhq/backoffice-go/internal/ports"
	"github.com/google/uuid"
)

// AuthServiceOptions holds the dependencies for creating an AuthService.
type AuthServiceOptions struct {
	Provider     ports.AuthProvider
	Sessions     ports.SessionStore
	Tracker      core.SessionTrackerRepository // Optional: durable login bookkeeping
	Config       *core.ResolverConfig
	TimeProvider data.TimeProvider
	Logger       *slog.Logger
}

// AuthService owns the login lifecycle: it brokers the provider flow, persists
// resolver sessions, and re-establishes the caller's identity on every request.
// It knows nothing about admin status or roles; that is the guard's job.
type AuthService struct {
	provider     ports.AuthProvider
	sessions     ports.SessionStore
	tracker      core.SessionTrackerRepository
	cfg          core.ResolverConfig
	timeProvider data.TimeProvider
	logger       *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Config == nil {
		defaultCfg := core.DefaultResolverConfig()
		opts.Config = &defaultCfg
	}
	cfg := *opts.Config
	if cfg.CookieName == "" {
		cfg.CookieName = core.SessionCookieName
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &AuthService{
		provider:     opts.Provider,
		sessions:     opts.Sessions,
		tracker:      opts.Tracker,
		cfg:          cfg,
		timeProvider: opts.TimeProvider,
		logger:       opts.Logger,
	}
}

// CookieName reports the session cookie the resolver reads, so handlers that
// set or clear it stay in sync with the resolver.
func (s *AuthService) CookieName() string {
	return s.cfg.CookieName
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code   string
	State  string
	Nonce  string
	Client model.ClientMetadata
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow by exchanging the code for a
// verified identity and persisting a resolver session. Completing login proves
// who the caller is, nothing more: directory registration and approval are
// separate steps, and an unregistered identity still gets a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	exchanged, err := s.provider.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	identity := exchanged.Identity

	// Durable login bookkeeping is best-effort: a tracker outage must not
	// block sign-in.
	trackerID := ""
	if s.tracker != nil {
		tracked, trackErr := s.tracker.Create(ctx, identity.SubjectID, input.Client)
		if trackErr != nil {
			s.logger.Warn("failed to record login in session tracker",
				"subject_id", identity.SubjectID,
				"error", trackErr)
		} else {
			trackerID = tracked.ID
		}
	}

	session := domainauth.Session{
		ID:            generateSessionID(),
		SubjectID:     identity.SubjectID,
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
		FirstName:     identity.FirstName,
		LastName:      identity.LastName,
		RefreshToken:  exchanged.RefreshToken,
		TrackerID:     trackerID,
		CreatedAt:     s.timeProvider.Now(),
		ExpiresAt:     identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// Resolve re-establishes the caller's identity from the session cookie.
//
// A missing, stale, or expired cookie is not an error: the request is simply
// unauthenticated, with a cookie mutation clearing stale state where needed.
// Errors are reserved for a session store that cannot answer at all, so
// handlers can tell "not logged in" apart from "backend down".
func (s *AuthService) Resolve(ctx context.Context, r *http.Request) (domainauth.Resolution, error) {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return domainauth.Resolution{}, nil
	}

	sess, err := s.sessions.Get(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			// Stale cookie referencing a session that no longer exists.
			return domainauth.Resolution{
				CookieMutations: []domainauth.CookieMutation{s.clearSessionCookie()},
			}, nil
		}
		return domainauth.Resolution{}, apperrors.StoreUnavailable(err, "Session store is unreachable.")
	}

	now := s.timeProvider.Now()
	if now.After(sess.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sess.ID); deleteErr != nil {
			s.logger.Warn("failed to delete expired session",
				"session_id", sess.ID,
				"error", deleteErr)
		}
		return domainauth.Resolution{
			CookieMutations: []domainauth.CookieMutation{s.clearSessionCookie()},
		}, nil
	}

	var mutations []domainauth.CookieMutation
	if s.shouldRefresh(sess, now) {
		if refreshed, ok := s.refreshSession(ctx, sess); ok {
			sess = refreshed
			mutations = append(mutations, domainauth.CookieMutation{
				Name:   s.cfg.CookieName,
				Value:  sess.ID,
				MaxAge: int(sess.ExpiresAt.Sub(now).Seconds()),
			})
		}
	}

	identity := sess.Identity()
	return domainauth.Resolution{
		Authenticated:   true,
		EmailVerified:   sess.EmailVerified,
		Subject:         &identity,
		Session:         &sess,
		CookieMutations: mutations,
	}, nil
}

func (s *AuthService) shouldRefresh(sess domainauth.Session, now time.Time) bool {
	if s.cfg.RefreshWindow <= 0 || sess.RefreshToken == "" {
		return false
	}
	return sess.ExpiresAt.Sub(now) <= s.cfg.RefreshWindow
}

// refreshSession rotates the provider grant behind a near-expiry session and
// re-persists it. On any failure the stored session stays untouched and keeps
// serving until its natural expiry.
func (s *AuthService) refreshSession(ctx context.Context, sess domainauth.Session) (domainauth.Session, bool) {
	res, err := s.provider.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		s.logger.Warn("session refresh failed",
			"session_id", sess.ID,
			"subject_id", sess.SubjectID,
			"error", err)
		return sess, false
	}

	sess.ExpiresAt = res.ExpiresAt
	if res.RefreshToken != "" {
		sess.RefreshToken = res.RefreshToken
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		s.logger.Warn("failed to persist refreshed session",
			"session_id", sess.ID,
			"error", saveErr)
		return sess, false
	}
	return sess, true
}

// Logout tears down a session: the store row, its tracker entry, and the
// provider grant behind it. A session that is already gone is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("get session: %w", err)
	}

	if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
		return fmt.Errorf("delete session: %w", deleteErr)
	}

	// The session is gone; everything past this point is cleanup that must
	// not resurrect it.
	if s.tracker != nil && sess.TrackerID != "" {
		if _, endErr := s.tracker.End(ctx, sess.TrackerID, sess.SubjectID); endErr != nil {
			s.logger.Warn("failed to close tracker entry on logout",
				"tracker_id", sess.TrackerID,
				"subject_id", sess.SubjectID,
				"error", endErr)
		}
	}
	if sess.RefreshToken != "" {
		if revokeErr := s.provider.Revoke(ctx, sess.RefreshToken); revokeErr != nil {
			s.logger.Warn("failed to revoke provider grant on logout",
				"subject_id", sess.SubjectID,
				"error", revokeErr)
		}
	}

	return nil
}

func (s *AuthService) clearSessionCookie() domainauth.CookieMutation {
	return domainauth.CookieMutation{Name: s.cfg.CookieName, MaxAge: -1}
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}
