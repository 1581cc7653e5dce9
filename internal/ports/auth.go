// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get when no session exists
// under the given ID. The resolver treats it as "not logged in" rather than
// as a store failure.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// ExchangeResult carries the verified identity plus the token material the
// resolver stores alongside the session.
type ExchangeResult struct {
	Identity     domainauth.Identity
	RefreshToken string
}

// RefreshResult carries rotated token material. An empty RefreshToken means
// the provider kept the old grant and only the expiry moved.
type RefreshResult struct {
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying the nonce inside the ID
	// token, and returns the authenticated identity with its tokens.
	Exchange(ctx context.Context, in ExchangeInput) (ExchangeResult, error)

	// Refresh rotates the grant backing a session when its tokens near expiry.
	Refresh(ctx context.Context, refreshToken string) (RefreshResult, error)

	// Revoke invalidates a refresh token at the provider (RFC 7009). Callers
	// treat failures as best-effort: log, count, move on.
	Revoke(ctx context.Context, refreshToken string) error
}

// SessionStore persists and retrieves resolver sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error

	// DeleteAllForSubject removes every session belonging to the subject and
	// returns the removed sessions so their provider tokens can be revoked.
	DeleteAllForSubject(ctx context.Context, subjectID string) ([]domainauth.Session, error)
}
