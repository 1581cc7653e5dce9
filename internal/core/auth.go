package core

import "time"

// SessionCookieName is the cookie carrying the opaque resolver session ID.
const SessionCookieName = "session_id"

// ResolverConfig holds configuration for the session resolver.
type ResolverConfig struct {
	// CookieName is the cookie the resolver reads the session ID from.
	CookieName string
	// RefreshWindow is how close to expiry a session must be before the
	// resolver tries the provider's refresh grant. Zero disables refresh.
	RefreshWindow time.Duration
}

// DefaultResolverConfig returns a ResolverConfig with sensible defaults.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		CookieName:    SessionCookieName,
		RefreshWindow: 5 * time.Minute,
	}
}
