package auth

// Package auth contains domain-level types for authentication and resolver
// sessions. It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal returned by the IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	SubjectID     string // stable subject identifier (OIDC sub)
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
	ExpiresAt     time.Time // absolute expiry from IdP token
}

// Session is the server-side record persisted for an authenticated caller.
// ID is an opaque session identifier; TrackerID links to the audit-facing
// admin_sessions row opened at login.
type Session struct {
	ID            string    `json:"id"`
	SubjectID     string    `json:"subject_id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	RefreshToken  string    `json:"refresh_token,omitempty"`
	TrackerID     string    `json:"tracker_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Identity rebuilds the Identity view of the session for callers that only
// need the principal.
func (s Session) Identity() Identity {
	return Identity{
		SubjectID:     s.SubjectID,
		Email:         s.Email,
		EmailVerified: s.EmailVerified,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		ExpiresAt:     s.ExpiresAt,
	}
}

// CookieMutation is a session-cookie change the HTTP layer must attach to
// the response. MaxAge < 0 clears the cookie.
type CookieMutation struct {
	Name   string
	Value  string
	MaxAge int
}

// Resolution is the outcome of resolving an inbound request's credentials.
// "Not logged in" is a negative Resolution, never an error, so each endpoint
// decides between strict and lenient handling.
type Resolution struct {
	Authenticated   bool
	EmailVerified   bool
	Subject         *Identity
	Session         *Session
	CookieMutations []CookieMutation
}
