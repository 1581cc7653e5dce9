package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
)

// SessionCookies centralizes the session cookie attributes so the admission
// middleware and the auth handlers always write the same cookie. Name must
// match the resolver's configured cookie name or resolved sessions and set
// cookies drift apart.
type SessionCookies struct {
	Name   string
	Domain string
}

// Set writes the session cookie with the given value and lifetime.
func (c SessionCookies) Set(w http.ResponseWriter, r *http.Request, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// Clear expires the session cookie immediately. It mirrors the attributes
// used when setting cookies to maximize compatibility across browsers
// during deletion.
func (c SessionCookies) Clear(w http.ResponseWriter, r *http.Request) {
	c.clearNamed(w, r, c.Name)
}

// Apply attaches the resolver's cookie mutations to the response. The
// resolver decides what must change (refresh the expiry, drop a stale
// cookie); this layer only supplies the transport attributes.
func (c SessionCookies) Apply(w http.ResponseWriter, r *http.Request, mutations []domainauth.CookieMutation) {
	for _, m := range mutations {
		if m.MaxAge < 0 {
			c.clearNamed(w, r, m.Name)
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     m.Name,
			Value:    m.Value,
			Path:     "/",
			Domain:   c.Domain,
			HttpOnly: true,
			Secure:   isSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   m.MaxAge,
		})
	}
}

func (c SessionCookies) clearNamed(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// isSecureRequest reports whether the request arrived over HTTPS, accounting
// for a terminating proxy via X-Forwarded-Proto.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
