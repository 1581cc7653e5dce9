package auth

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	"github.com/chapelhq/backoffice-go/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	authURL2, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "https://mock-idp/auth", authURL2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomValues(t *testing.T) {
	provider := &MockAuthProvider{
		AuthURL:     "https://custom-idp/login",
		StatePrefix: "custom-state",
		NoncePrefix: "custom-nonce",
	}
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://custom-idp/login", authURL)
	assert.Equal(t, "custom-state-1", state)
	assert.Equal(t, "custom-nonce-1", nonce)
}

func TestMockAuthProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "custom-url", "custom-state", "custom-nonce", nil
		},
	}
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "custom-url", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}
	result, err := provider.Exchange(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "auth0|mock-user-1", result.Identity.SubjectID)
	assert.Equal(t, "Mock", result.Identity.FirstName)
	assert.Equal(t, "User", result.Identity.LastName)
	assert.Equal(t, "mock.user@example.com", result.Identity.Email)
	assert.True(t, result.Identity.EmailVerified)
	assert.True(t, result.Identity.ExpiresAt.After(time.Now()))
	assert.Equal(t, "mock-refresh-token", result.RefreshToken)
}

func TestMockAuthProvider_Exchange_CustomUser(t *testing.T) {
	customUser := domainauth.Identity{
		SubjectID:     "auth0|custom-user",
		FirstName:     "Custom",
		LastName:      "Person",
		Email:         "custom@example.com",
		EmailVerified: false,
	}
	provider := &MockAuthProvider{DefaultUser: customUser, RefreshToken: "custom-refresh"}
	ctx := context.Background()

	input := ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}
	result, err := provider.Exchange(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "auth0|custom-user", result.Identity.SubjectID)
	assert.Equal(t, "Custom", result.Identity.FirstName)
	assert.Equal(t, "Person", result.Identity.LastName)
	assert.Equal(t, "custom@example.com", result.Identity.Email)
	assert.False(t, result.Identity.EmailVerified)
	assert.True(t, result.Identity.ExpiresAt.After(time.Now()))
	assert.Equal(t, "custom-refresh", result.RefreshToken)
}

func TestMockAuthProvider_Exchange_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (ports.ExchangeResult, error) {
			return ports.ExchangeResult{
				Identity: domainauth.Identity{
					SubjectID: "auth0|func-user",
					Email:     "func@example.com",
				},
			}, nil
		},
	}
	ctx := context.Background()

	input := ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	}
	result, err := provider.Exchange(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "auth0|func-user", result.Identity.SubjectID)
	assert.Equal(t, "func@example.com", result.Identity.Email)
	assert.Empty(t, result.RefreshToken)
}

func TestMockAuthProvider_Refresh_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	result, err := provider.Refresh(ctx, "grant-1")
	require.NoError(t, err)
	assert.Equal(t, "grant-1", result.RefreshToken)
	assert.True(t, result.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Refresh_EmptyToken(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	_, err := provider.Refresh(ctx, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token is required")
}

func TestMockAuthProvider_Refresh_CustomFunc(t *testing.T) {
	rotated := time.Now().Add(10 * time.Minute)
	provider := &MockAuthProvider{
		RefreshFunc: func(_ context.Context, _ string) (ports.RefreshResult, error) {
			return ports.RefreshResult{RefreshToken: "rotated", ExpiresAt: rotated}, nil
		},
	}
	ctx := context.Background()

	result, err := provider.Refresh(ctx, "grant-1")
	require.NoError(t, err)
	assert.Equal(t, "rotated", result.RefreshToken)
	assert.Equal(t, rotated, result.ExpiresAt)
}

func TestMockAuthProvider_Revoke_RecordsTokens(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	require.NoError(t, provider.Revoke(ctx, "grant-1"))
	require.NoError(t, provider.Revoke(ctx, "grant-2"))

	assert.Equal(t, []string{"grant-1", "grant-2"}, provider.RevokedTokens)
}

func TestMockAuthProvider_Revoke_CustomFunc(t *testing.T) {
	called := ""
	provider := &MockAuthProvider{
		RevokeFunc: func(_ context.Context, token string) error {
			called = token
			return nil
		},
	}
	ctx := context.Background()

	require.NoError(t, provider.Revoke(ctx, "grant-9"))
	assert.Equal(t, "grant-9", called)
	assert.Empty(t, provider.RevokedTokens)
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:           "test-session-1",
		SubjectID:    "auth0|user-123",
		Email:        "user@example.com",
		RefreshToken: "grant-1",
		ExpiresAt:    time.Now().Add(30 * time.Minute),
	}

	// Save session
	err := store.Save(ctx, session)
	require.NoError(t, err)

	// Get session
	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.SubjectID, retrieved.SubjectID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.Equal(t, session.RefreshToken, retrieved.RefreshToken)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestMemorySessionStore_GetNonExistent(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemorySessionStore_GetEmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemorySessionStore_SaveEmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "", // Empty ID should cause error
		SubjectID: "auth0|user-123",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	err := store.Save(ctx, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		SubjectID: "auth0|user-123",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	// Save session
	err := store.Save(ctx, session)
	require.NoError(t, err)

	// Delete session
	err = store.Delete(ctx, "test-session-1")
	require.NoError(t, err)

	// Verify session was deleted
	_, err = store.Get(ctx, "test-session-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestMemorySessionStore_DeleteEmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	// Delete with empty ID should not error
	err := store.Delete(ctx, "")
	assert.NoError(t, err)
}

func TestMemorySessionStore_DeleteAllForSubject(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, store.Save(ctx, domainauth.Session{
			ID:           id,
			SubjectID:    "auth0|purge-me",
			RefreshToken: "grant-" + id,
			ExpiresAt:    time.Now().Add(30 * time.Minute),
		}))
	}
	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID:        "other",
		SubjectID: "auth0|keep-me",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}))

	removed, err := store.DeleteAllForSubject(ctx, "auth0|purge-me")
	require.NoError(t, err)
	assert.Len(t, removed, 3)
	for _, sess := range removed {
		assert.Equal(t, "auth0|purge-me", sess.SubjectID)
		assert.NotEmpty(t, sess.RefreshToken)
	}
	assert.Equal(t, 1, store.Len())

	// Untouched subject still resolves
	_, err = store.Get(ctx, "other")
	assert.NoError(t, err)

	// Second purge finds nothing
	removed, err = store.DeleteAllForSubject(ctx, "auth0|purge-me")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestMemorySessionStore_DeleteAllForSubject_EmptySubject(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	removed, err := store.DeleteAllForSubject(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, removed)
}
