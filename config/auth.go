package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC provider configuration.
// The scope must include offline_access for providers that gate refresh
// tokens behind it; without a refresh token sessions end at token expiry.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"backoffice"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"backoffice"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/api/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email offline_access"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	SubjectID     string        `env:"SUBJECT_ID"       envDefault:"dev|local-admin"`
	Email         string        `env:"EMAIL"            envDefault:"dev-admin@chapel.example"`
	EmailVerified bool          `env:"EMAIL_VERIFIED"   envDefault:"true"`
	FirstName     string        `env:"FIRST_NAME"       envDefault:"Dev"`
	LastName      string        `env:"LAST_NAME"        envDefault:"Admin"`
	SessionLength time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// SessionConfig controls the resolver session cookie and token refresh.
type SessionConfig struct {
	// CookieName is the cookie carrying the opaque resolver session id.
	CookieName string `env:"COOKIE_NAME" envDefault:"session_id"`

	// RefreshWindow is how close to token expiry a session must be before
	// the resolver attempts the provider refresh grant. Zero disables refresh.
	RefreshWindow time.Duration `env:"REFRESH_WINDOW" envDefault:"5m"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	s.CookieName = strings.TrimSpace(s.CookieName)
	if s.CookieName == "" {
		s.CookieName = "session_id"
	}
	if s.RefreshWindow < 0 {
		s.RefreshWindow = 0
	}
}
