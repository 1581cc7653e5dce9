// Package devauth provides a simple, config-driven AuthProvider for local development.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	"github.com/chapelhq/backoffice-go/internal/ports"
)

// Config controls the dev auth provider behavior.
type Config struct {
	SubjectID       string
	Email           string
	EmailVerified   bool
	FirstName       string
	LastName        string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider without an upstream IdP. Begin
// redirects straight back to the local callback with generated state and
// nonce, and Exchange hands out the configured identity regardless of code.
type Provider struct {
	identity        domainauth.Identity
	sessionDuration time.Duration
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.SubjectID == "" {
		return nil, errors.New("dev auth: SubjectID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}
	return &Provider{
		identity: domainauth.Identity{
			SubjectID:     cfg.SubjectID,
			Email:         cfg.Email,
			EmailVerified: cfg.EmailVerified,
			FirstName:     cfg.FirstName,
			LastName:      cfg.LastName,
			ExpiresAt:     time.Now().Add(dur),
		},
		sessionDuration: dur,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomToken(18)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(18)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// The callback handler expects GET /api/auth/callback?code=...&state=...
	authURL := "/api/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by handler) and returns the dev identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (ports.ExchangeResult, error) {
	identity := p.identity
	identity.ExpiresAt = time.Now().Add(p.sessionDuration)
	return ports.ExchangeResult{
		Identity:     identity,
		RefreshToken: "dev-refresh-" + identity.SubjectID,
	}, nil
}

// Refresh rolls the session expiry forward without rotating the dev grant.
func (p *Provider) Refresh(_ context.Context, refreshToken string) (ports.RefreshResult, error) {
	if refreshToken == "" {
		return ports.RefreshResult{}, errors.New("dev auth: refresh token is required")
	}
	return ports.RefreshResult{ExpiresAt: time.Now().Add(p.sessionDuration)}, nil
}

// Revoke is a no-op; there is no upstream provider to notify.
func (p *Provider) Revoke(_ context.Context, _ string) error {
	return nil
}

// randomToken returns nBytes of entropy as unpadded url-safe base64.
func randomToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
