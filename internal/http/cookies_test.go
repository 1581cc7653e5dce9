package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
)

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessionCookies_Set(t *testing.T) {
	cookies := SessionCookies{Name: "backoffice_session", Domain: "console.example.org"}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	cookies.Set(w, r, "sess-1", 3600)

	c := findCookie(t, w, "backoffice_session")
	require.NotNil(t, c)
	assert.Equal(t, "sess-1", c.Value)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "console.example.org", c.Domain)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure, "plain request should not set Secure")
}

func TestSessionCookies_Clear(t *testing.T) {
	cookies := SessionCookies{Name: "backoffice_session"}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	cookies.Clear(w, r)

	c := findCookie(t, w, "backoffice_session")
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestSessionCookies_Apply(t *testing.T) {
	cookies := SessionCookies{Name: "backoffice_session"}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	cookies.Apply(w, r, []domainauth.CookieMutation{
		{Name: "backoffice_session", Value: "renewed", MaxAge: 1800},
		{Name: "legacy_session", MaxAge: -1},
	})

	renewed := findCookie(t, w, "backoffice_session")
	require.NotNil(t, renewed)
	assert.Equal(t, "renewed", renewed.Value)
	assert.Equal(t, 1800, renewed.MaxAge)

	cleared := findCookie(t, w, "legacy_session")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isSecureRequest(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, isSecureRequest(r))

	r.Header.Set("X-Forwarded-Proto", "http")
	assert.False(t, isSecureRequest(r))

	// Proxy chains may append protocols
	r.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, isSecureRequest(r))

	tls := httptest.NewRequest(http.MethodGet, "https://console.example.org/", nil)
	assert.True(t, isSecureRequest(tls))
}
