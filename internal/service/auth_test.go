package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	mocks "github.com/chapelhq/backoffice-go/internal/mocks/auth"
	"github.com/chapelhq/backoffice-go/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc      func(context.Context, domainauth.Session) error
	getFunc       func(context.Context, string) (domainauth.Session, error)
	deleteFunc    func(context.Context, string) error
	deleteAllFunc func(context.Context, string) ([]domainauth.Session, error)
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockSessionStore) DeleteAllForSubject(ctx context.Context, subjectID string) ([]domainauth.Session, error) {
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(ctx, subjectID)
	}
	return nil, nil
}

// mockTracker is a test helper standing in for the durable login tracker.
type mockTracker struct {
	createFunc func(context.Context, string, model.ClientMetadata) (*model.AdminSession, error)
	endFunc    func(context.Context, string, string) (bool, error)

	endedTrackerID string
	endedSubjectID string
}

func (m *mockTracker) Create(ctx context.Context, subjectID string, meta model.ClientMetadata) (*model.AdminSession, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, subjectID, meta)
	}
	return &model.AdminSession{ID: "tracker-1", SubjectID: subjectID, LoginAt: time.Now()}, nil
}

func (m *mockTracker) GetByID(context.Context, string) (*model.AdminSession, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTracker) End(ctx context.Context, sessionID, subjectID string) (bool, error) {
	if m.endFunc != nil {
		return m.endFunc(ctx, sessionID, subjectID)
	}
	m.endedTrackerID = sessionID
	m.endedSubjectID = subjectID
	return true, nil
}

func (m *mockTracker) ForceCloseAll(context.Context, string) (int, error) { return 0, nil }

func (m *mockTracker) List(context.Context, model.SessionListOptions) ([]*model.AdminSession, error) {
	return nil, nil
}

func (m *mockTracker) CountOpen(context.Context, string) (int, error) { return 0, nil }

// requestWithSession builds a request carrying the resolver's session cookie.
func requestWithSession(sessionID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	if sessionID != "" {
		r.AddCookie(&http.Cookie{Name: core.SessionCookieName, Value: sessionID})
	}
	return r
}

func storedSession(id, subjectID string, expiresIn time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:            id,
		SubjectID:     subjectID,
		Email:         "admin@chapel.example",
		EmailVerified: true,
		FirstName:     "Test",
		LastName:      "Admin",
		RefreshToken:  "refresh-" + id,
		TrackerID:     "tracker-" + id,
		CreatedAt:     time.Now(),
		ExpiresAt:     time.Now().Add(expiresIn),
	}
}

func TestNewAuthService_Defaults(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	assert.NotNil(t, service)
	assert.Equal(t, "session_id", service.CookieName())
	assert.Equal(t, 5*time.Minute, service.cfg.RefreshWindow)
}

func TestNewAuthService_CustomConfig(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
		Config:   &core.ResolverConfig{CookieName: "bo_session", RefreshWindow: time.Minute},
	})

	assert.Equal(t, "bo_session", service.CookieName())
	assert.Equal(t, time.Minute, service.cfg.RefreshWindow)
}

func TestAuthService_BeginLogin_Success(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/callback")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginLogin_EmptyRedirectURL(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "", "", "", errors.New("provider error")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/callback")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "begin auth flow")
	assert.Contains(t, err.Error(), "provider error")
}

func TestAuthService_CompleteLogin_Success(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	tracker := &mockTracker{}
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
		Tracker:  tracker,
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:   "auth-code",
		State:  "state-1",
		Nonce:  "nonce-1",
		Client: model.ClientMetadata{IP: "203.0.113.9", UserAgent: "go-test"},
	})

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "auth0|mock-user-1", result.Session.SubjectID)
	assert.Equal(t, "mock.user@example.com", result.Session.Email)
	assert.True(t, result.Session.EmailVerified)
	assert.Equal(t, "mock-refresh-token", result.Session.RefreshToken)
	assert.Equal(t, "tracker-1", result.Session.TrackerID)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))

	// The session must be retrievable under its ID.
	stored, err := sessions.Get(context.Background(), result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session.SubjectID, stored.SubjectID)
}

func TestAuthService_CompleteLogin_PopulatesNames(t *testing.T) {
	provider := &mocks.MockAuthProvider{DefaultUser: domainauth.Identity{
		SubjectID:     "auth0|mock-user-1",
		FirstName:     "Mock",
		LastName:      "User",
		Email:         "mock.user@example.com",
		EmailVerified: true,
		ExpiresAt:     time.Now().Add(time.Hour),
	}}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"})
	require.NoError(t, err)
	assert.Equal(t, "Mock", result.Session.FirstName)
	assert.Equal(t, "User", result.Session.LastName)
}

func TestAuthService_CompleteLogin_NoTracker(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"})

	require.NoError(t, err)
	assert.Empty(t, result.Session.TrackerID)
}

func TestAuthService_CompleteLogin_TrackerFailureDoesNotBlockLogin(t *testing.T) {
	tracker := &mockTracker{
		createFunc: func(_ context.Context, _ string, _ model.ClientMetadata) (*model.AdminSession, error) {
			return nil, errors.New("tracker down")
		},
	}
	sessions := mocks.NewMemorySessionStore()
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
		Tracker:  tracker,
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"})

	require.NoError(t, err)
	assert.Empty(t, result.Session.TrackerID)
	assert.Equal(t, 1, sessions.Len())
}

func TestAuthService_CompleteLogin_ValidationErrors(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	tests := []struct {
		name    string
		input   CompleteLoginInput
		wantErr string
	}{
		{
			name:    "missing code",
			input:   CompleteLoginInput{State: "state-1", Nonce: "nonce-1"},
			wantErr: "authorization code is required",
		},
		{
			name:    "missing state",
			input:   CompleteLoginInput{Code: "auth-code", Nonce: "nonce-1"},
			wantErr: "state parameter is required",
		},
		{
			name:    "missing nonce",
			input:   CompleteLoginInput{Code: "auth-code", State: "state-1"},
			wantErr: "nonce parameter is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.CompleteLogin(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (ports.ExchangeResult, error) {
			return ports.ExchangeResult{}, errors.New("exchange error")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "exchange authorization code")
	assert.Contains(t, err.Error(), "exchange error")
}

func TestAuthService_CompleteLogin_SessionSaveError(t *testing.T) {
	sessions := &mockSessionStore{
		saveFunc: func(_ context.Context, _ domainauth.Session) error {
			return errors.New("save error")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
	})

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{Code: "code", State: "state", Nonce: "nonce"})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "save session")
	assert.Contains(t, err.Error(), "save error")
}

func TestAuthService_Resolve_NoCookie(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	res, err := service.Resolve(context.Background(), requestWithSession(""))

	require.NoError(t, err)
	assert.False(t, res.Authenticated)
	assert.Nil(t, res.Subject)
	assert.Nil(t, res.Session)
	assert.Empty(t, res.CookieMutations)
}

func TestAuthService_Resolve_UnknownSessionClearsCookie(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	res, err := service.Resolve(context.Background(), requestWithSession("no-such-session"))

	require.NoError(t, err)
	assert.False(t, res.Authenticated)
	require.Len(t, res.CookieMutations, 1)
	assert.Equal(t, "session_id", res.CookieMutations[0].Name)
	assert.Negative(t, res.CookieMutations[0].MaxAge)
}

func TestAuthService_Resolve_StoreErrorIsStoreUnavailable(t *testing.T) {
	sessions := &mockSessionStore{
		getFunc: func(_ context.Context, _ string) (domainauth.Session, error) {
			return domainauth.Session{}, errors.New("connection refused")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
	})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-1"))

	require.Error(t, err)
	assert.True(t, apperrors.IsStoreUnavailable(err))
	assert.False(t, res.Authenticated)
}

func TestAuthService_Resolve_Authenticated(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-1", "auth0|user-1", time.Hour)
	require.NoError(t, sessions.Save(context.Background(), sess))

	refreshCalled := false
	provider := mocks.NewMockAuthProvider()
	provider.RefreshFunc = func(_ context.Context, _ string) (ports.RefreshResult, error) {
		refreshCalled = true
		return ports.RefreshResult{}, nil
	}
	service := NewAuthService(AuthServiceOptions{Provider: provider, Sessions: sessions})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-1"))

	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.True(t, res.EmailVerified)
	require.NotNil(t, res.Subject)
	assert.Equal(t, "auth0|user-1", res.Subject.SubjectID)
	require.NotNil(t, res.Session)
	assert.Equal(t, "refresh-sess-1", res.Session.RefreshToken)
	assert.Empty(t, res.CookieMutations)
	assert.False(t, refreshCalled, "a session an hour from expiry must not be refreshed")
}

func TestAuthService_Resolve_ExpiredSessionClearsCookieAndStore(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-expired", "auth0|user-1", -time.Minute)
	require.NoError(t, sessions.Save(context.Background(), sess))

	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
	})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-expired"))

	require.NoError(t, err)
	assert.False(t, res.Authenticated)
	require.Len(t, res.CookieMutations, 1)
	assert.Negative(t, res.CookieMutations[0].MaxAge)
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthService_Resolve_RefreshesNearExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-near", "auth0|user-1", 0)
	sess.ExpiresAt = now.Add(2 * time.Minute)
	require.NoError(t, sessions.Save(context.Background(), sess))

	provider := mocks.NewMockAuthProvider()
	provider.RefreshFunc = func(_ context.Context, refreshToken string) (ports.RefreshResult, error) {
		assert.Equal(t, "refresh-sess-near", refreshToken)
		return ports.RefreshResult{RefreshToken: "rotated-token", ExpiresAt: now.Add(time.Hour)}, nil
	}
	service := NewAuthService(AuthServiceOptions{
		Provider:     provider,
		Sessions:     sessions,
		TimeProvider: data.NewFixedTimeProvider(now),
	})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-near"))

	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	require.NotNil(t, res.Session)
	assert.Equal(t, now.Add(time.Hour), res.Session.ExpiresAt)
	assert.Equal(t, "rotated-token", res.Session.RefreshToken)

	require.Len(t, res.CookieMutations, 1)
	assert.Equal(t, "session_id", res.CookieMutations[0].Name)
	assert.Equal(t, "sess-near", res.CookieMutations[0].Value)
	assert.Equal(t, 3600, res.CookieMutations[0].MaxAge)

	// The rotated grant must be persisted, not just served.
	stored, err := sessions.Get(context.Background(), "sess-near")
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", stored.RefreshToken)
	assert.Equal(t, now.Add(time.Hour), stored.ExpiresAt)
}

func TestAuthService_Resolve_RefreshWithoutRotationKeepsGrant(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-near", "auth0|user-1", 0)
	sess.ExpiresAt = now.Add(2 * time.Minute)
	require.NoError(t, sessions.Save(context.Background(), sess))

	provider := mocks.NewMockAuthProvider()
	provider.RefreshFunc = func(_ context.Context, _ string) (ports.RefreshResult, error) {
		return ports.RefreshResult{ExpiresAt: now.Add(time.Hour)}, nil
	}
	service := NewAuthService(AuthServiceOptions{
		Provider:     provider,
		Sessions:     sessions,
		TimeProvider: data.NewFixedTimeProvider(now),
	})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-near"))

	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Equal(t, "refresh-sess-near", res.Session.RefreshToken)
	assert.Equal(t, now.Add(time.Hour), res.Session.ExpiresAt)
}

func TestAuthService_Resolve_RefreshFailureKeepsSessionAlive(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(2 * time.Minute)
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-near", "auth0|user-1", 0)
	sess.ExpiresAt = expiry
	require.NoError(t, sessions.Save(context.Background(), sess))

	provider := mocks.NewMockAuthProvider()
	provider.RefreshFunc = func(_ context.Context, _ string) (ports.RefreshResult, error) {
		return ports.RefreshResult{}, errors.New("idp unavailable")
	}
	service := NewAuthService(AuthServiceOptions{
		Provider:     provider,
		Sessions:     sessions,
		TimeProvider: data.NewFixedTimeProvider(now),
	})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-near"))

	require.NoError(t, err)
	assert.True(t, res.Authenticated, "the session is still valid until its natural expiry")
	require.NotNil(t, res.Session)
	assert.Equal(t, expiry, res.Session.ExpiresAt)
	assert.Empty(t, res.CookieMutations)
}

func TestAuthService_Resolve_NoRefreshWithoutToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-near", "auth0|user-1", 0)
	sess.ExpiresAt = now.Add(2 * time.Minute)
	sess.RefreshToken = ""
	require.NoError(t, sessions.Save(context.Background(), sess))

	refreshCalled := false
	provider := mocks.NewMockAuthProvider()
	provider.RefreshFunc = func(_ context.Context, _ string) (ports.RefreshResult, error) {
		refreshCalled = true
		return ports.RefreshResult{}, nil
	}
	service := NewAuthService(AuthServiceOptions{
		Provider:     provider,
		Sessions:     sessions,
		TimeProvider: data.NewFixedTimeProvider(now),
	})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-near"))

	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.False(t, refreshCalled)
}

func TestAuthService_Resolve_RefreshOnlyInsideWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := data.NewFixedTimeProvider(now)
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-window", "auth0|user-1", 0)
	sess.ExpiresAt = now.Add(30 * time.Minute)
	require.NoError(t, sessions.Save(context.Background(), sess))

	refreshCalls := 0
	provider := mocks.NewMockAuthProvider()
	provider.RefreshFunc = func(_ context.Context, _ string) (ports.RefreshResult, error) {
		refreshCalls++
		return ports.RefreshResult{ExpiresAt: clock.Now().Add(time.Hour)}, nil
	}
	service := NewAuthService(AuthServiceOptions{
		Provider:     provider,
		Sessions:     sessions,
		TimeProvider: clock,
	})

	res, err := service.Resolve(context.Background(), requestWithSession("sess-window"))
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Zero(t, refreshCalls, "30 minutes out is well clear of the refresh window")

	// 4 minutes to expiry lands inside the default 5 minute window.
	clock.Advance(26 * time.Minute)

	res, err = service.Resolve(context.Background(), requestWithSession("sess-window"))
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, 1, refreshCalls)
	require.NotNil(t, res.Session)
	assert.Equal(t, clock.Now().Add(time.Hour), res.Session.ExpiresAt)
}

func TestAuthService_Logout_Success(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-1", "auth0|user-1", time.Hour)
	require.NoError(t, sessions.Save(context.Background(), sess))

	provider := mocks.NewMockAuthProvider()
	tracker := &mockTracker{}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Tracker:  tracker,
	})

	err := service.Logout(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Equal(t, 0, sessions.Len())
	assert.Equal(t, "tracker-sess-1", tracker.endedTrackerID)
	assert.Equal(t, "auth0|user-1", tracker.endedSubjectID)
	assert.Contains(t, provider.RevokedTokens, "refresh-sess-1")
}

func TestAuthService_Logout_AlreadyGone(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: mocks.NewMemorySessionStore(),
	})

	err := service.Logout(context.Background(), "no-such-session")

	require.NoError(t, err)
	assert.Empty(t, provider.RevokedTokens)
}

func TestAuthService_Logout_EmptyID(t *testing.T) {
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: mocks.NewMemorySessionStore(),
	})

	assert.NoError(t, service.Logout(context.Background(), ""))
}

func TestAuthService_Logout_DeleteError(t *testing.T) {
	sessions := &mockSessionStore{
		getFunc: func(_ context.Context, id string) (domainauth.Session, error) {
			return storedSession(id, "auth0|user-1", time.Hour), nil
		},
		deleteFunc: func(_ context.Context, _ string) error {
			return errors.New("delete error")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: mocks.NewMockAuthProvider(),
		Sessions: sessions,
	})

	err := service.Logout(context.Background(), "test-session")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete session")
	assert.Contains(t, err.Error(), "delete error")
}

func TestAuthService_Logout_TrackerFailureStillRevokes(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	sess := storedSession("sess-1", "auth0|user-1", time.Hour)
	require.NoError(t, sessions.Save(context.Background(), sess))

	provider := mocks.NewMockAuthProvider()
	tracker := &mockTracker{
		endFunc: func(_ context.Context, _, _ string) (bool, error) {
			return false, errors.New("tracker down")
		},
	}
	service := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Tracker:  tracker,
	})

	err := service.Logout(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Contains(t, provider.RevokedTokens, "refresh-sess-1")
}

func TestGenerateSessionID(t *testing.T) {
	id1 := generateSessionID()
	id2 := generateSessionID()

	assert.NotEmpty(t, id1)
	assert.NotEmpty(t, id2)
	assert.NotEqual(t, id1, id2) // Should generate unique IDs

	// Should be valid UUID format
	assert.Len(t, id1, 36) // UUID string length
	assert.Contains(t, id1, "-")
}
