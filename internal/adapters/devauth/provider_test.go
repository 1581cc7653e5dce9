package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapelhq/backoffice-go/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{SubjectID: "dev|local-admin", Email: "dev@example.com", EmailVerified: true})
	require.NoError(t, err)

	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/api/auth/callback?"), "unexpected authURL: %s", url)
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, nonce)

	result, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev|local-admin", result.Identity.SubjectID)
	assert.Equal(t, "dev@example.com", result.Identity.Email)
	assert.True(t, result.Identity.EmailVerified, "dev identity should carry the configured verification flag")
	assert.NotEmpty(t, result.RefreshToken, "Exchange should mint a dev refresh token")
}

func TestProvider_RefreshExtendsExpiry(t *testing.T) {
	prov, err := NewProvider(Config{SubjectID: "dev|local-admin", Email: "dev@example.com", SessionDuration: time.Hour})
	require.NoError(t, err)

	result, err := prov.Refresh(context.Background(), "dev-refresh-dev|local-admin")
	require.NoError(t, err)
	assert.Empty(t, result.RefreshToken, "dev provider should not rotate grants")

	until := time.Until(result.ExpiresAt)
	assert.Greater(t, until, 55*time.Minute)
	assert.Less(t, until, 65*time.Minute)

	_, err = prov.Refresh(context.Background(), "")
	assert.Error(t, err, "empty refresh token should error")
}

func TestProvider_RevokeIsNoop(t *testing.T) {
	prov, err := NewProvider(Config{SubjectID: "dev|local-admin", Email: "dev@example.com"})
	require.NoError(t, err)

	assert.NoError(t, prov.Revoke(context.Background(), "anything"))
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.com"})
	assert.Error(t, err, "missing SubjectID should error")

	_, err = NewProvider(Config{SubjectID: "dev|local-admin"})
	assert.Error(t, err, "missing Email should error")
}
