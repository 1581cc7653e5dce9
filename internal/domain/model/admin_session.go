//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// AdminSession records one privileged login for the audit trail. It is
// distinct from the resolver's cookie session: this row survives logout and
// is only ever closed, never deleted.
type AdminSession struct {
	ID        string            `json:"id"                  db:"id"`
	SubjectID string            `json:"subject_id"          db:"subject_id"`
	LoginAt   time.Time         `json:"login_at"            db:"login_at"`
	LogoutAt  *time.Time        `json:"logout_at,omitempty" db:"logout_at"`
	ClientIP  string            `json:"client_ip"           db:"client_ip"`
	UserAgent string            `json:"user_agent"          db:"user_agent"`
	Headers   map[string]string `json:"headers"             db:"headers"`
}

// Open reports whether the session has not been closed yet.
func (s *AdminSession) Open() bool {
	return s.LogoutAt == nil
}

// ClientMetadata is the request-derived context captured when a session
// starts and attached to audit entries.
type ClientMetadata struct {
	IP        string            `json:"ip"`
	UserAgent string            `json:"user_agent"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// AsMap renders the metadata in the shape stored on audit rows. Empty
// metadata renders as nil so callers can distinguish "nothing captured".
func (c ClientMetadata) AsMap() map[string]any {
	m := map[string]any{}
	if c.IP != "" {
		m["ip"] = c.IP
	}
	if c.UserAgent != "" {
		m["user_agent"] = c.UserAgent
	}
	if len(c.Headers) > 0 {
		m["headers"] = c.Headers
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// SessionListOptions represents options for listing tracked sessions.
type SessionListOptions struct {
	SubjectID string `json:"subject_id"`
	OpenOnly  bool   `json:"open_only,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}
