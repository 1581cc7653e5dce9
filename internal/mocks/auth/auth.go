// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	"github.com/chapelhq/backoffice-go/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.ExchangeResult, error)
	RefreshFunc  func(ctx context.Context, refreshToken string) (ports.RefreshResult, error)
	RevokeFunc   func(ctx context.Context, refreshToken string) error

	// Deterministic values for predictable testing
	AuthURL      string
	StatePrefix  string
	NoncePrefix  string
	DefaultUser  domainauth.Identity
	RefreshToken string

	// Internal state tracking for deterministic behavior
	callCount int

	// RevokedTokens records every token passed to Revoke.
	RevokedTokens []string
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: domainauth.Identity{
			SubjectID:     "auth0|mock-user-1",
			FirstName:     "Mock",
			LastName:      "User",
			Email:         "mock.user@example.com",
			EmailVerified: true,
			ExpiresAt:     time.Now().Add(time.Hour),
		},
		RefreshToken: "mock-refresh-token",
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}

	// Generate deterministic state and nonce based on call count
	statePrefix := m.StatePrefix
	if statePrefix == "" {
		statePrefix = "state"
	}
	noncePrefix := m.NoncePrefix
	if noncePrefix == "" {
		noncePrefix = "nonce"
	}

	state := fmt.Sprintf("%s-%d", statePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", noncePrefix, m.callCount)

	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.ExchangeResult, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	// Return a copy of the default user with a fresh expiration time
	user := m.DefaultUser
	if user.SubjectID == "" {
		user = domainauth.Identity{
			SubjectID:     "auth0|mock-user-1",
			FirstName:     "Mock",
			LastName:      "User",
			Email:         "mock.user@example.com",
			EmailVerified: true,
		}
	}
	user.ExpiresAt = time.Now().Add(time.Hour)

	return ports.ExchangeResult{Identity: user, RefreshToken: m.RefreshToken}, nil
}

func (m *MockAuthProvider) Refresh(ctx context.Context, refreshToken string) (ports.RefreshResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	if refreshToken == "" {
		return ports.RefreshResult{}, errors.New("refresh token is required")
	}
	return ports.RefreshResult{
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (m *MockAuthProvider) Revoke(ctx context.Context, refreshToken string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, refreshToken)
	}
	m.RevokedTokens = append(m.RevokedTokens, refreshToken)
	return nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session

	SaveErr      error
	GetErr       error
	DeleteErr    error
	DeleteAllErr error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.GetErr != nil {
		return domainauth.Session{}, m.GetErr
	}
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) DeleteAllForSubject(_ context.Context, subjectID string) ([]domainauth.Session, error) {
	if m.DeleteAllErr != nil {
		return nil, m.DeleteAllErr
	}
	if subjectID == "" {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []domainauth.Session
	for id, sess := range m.sessions {
		if sess.SubjectID == subjectID {
			removed = append(removed, sess)
			delete(m.sessions, id)
		}
	}
	return removed, nil
}

// Len reports the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
