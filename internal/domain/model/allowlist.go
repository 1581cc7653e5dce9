//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// AllowlistEntry gates self-registration: only emails present here (exactly,
// or via a whole-domain rule) may create a pending admin identity.
type AllowlistEntry struct {
	Email     string    `json:"email"      db:"email"` // Lower-cased; "@example.org" form for domain rules
	Note      string    `json:"note"       db:"note"`
	AddedBy   string    `json:"added_by"   db:"added_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsDomainRule reports whether the entry allows every address at a domain.
func (e *AllowlistEntry) IsDomainRule() bool {
	return strings.HasPrefix(e.Email, "@")
}

// Snapshot returns the audit-facing field map for this entry.
func (e *AllowlistEntry) Snapshot() map[string]any {
	if e == nil {
		return nil
	}
	return map[string]any{
		"email":    e.Email,
		"note":     e.Note,
		"added_by": e.AddedBy,
	}
}

// UpsertAllowlistRequest creates or refreshes an allowlist entry, keyed by
// the normalized email.
type UpsertAllowlistRequest struct {
	Email string `json:"email"`
	Note  string `json:"note,omitempty"`
}

// Normalize lower-cases and trims the request fields.
func (r *UpsertAllowlistRequest) Normalize() {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Note = strings.TrimSpace(r.Note)
}

// Validate validates the UpsertAllowlistRequest fields. Domain rules get an
// additional registrable-domain check in the service layer.
func (r *UpsertAllowlistRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !utf8.ValidString(r.Email) {
		return errors.New("email must be valid UTF-8")
	}
	if len(r.Email) > 320 {
		return errors.New("email cannot exceed 320 characters")
	}
	if strings.HasPrefix(r.Email, "@") {
		if len(r.Email) < 4 || !strings.Contains(r.Email[1:], ".") {
			return errors.New("domain rule must name a full domain, e.g. @example.org")
		}
	} else if !strings.Contains(r.Email, "@") {
		return errors.New("email must contain @")
	}
	if len(r.Note) > 500 {
		return errors.New("note cannot exceed 500 characters")
	}
	return nil
}

// IsDomainRule reports whether the request describes a whole-domain rule.
func (r *UpsertAllowlistRequest) IsDomainRule() bool {
	return strings.HasPrefix(r.Email, "@")
}

// AllowlistListOptions represents options for listing allowlist entries.
type AllowlistListOptions struct {
	Search *string `json:"search,omitempty"` // Substring match on email or note
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// NormalizeEmail canonicalizes an email for allowlist and exclusivity
// comparisons. Matching is always performed on this form.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// EmailDomain returns the domain part of an address, or "" when the address
// has no @.
func EmailDomain(email string) string {
	_, domain, found := strings.Cut(NormalizeEmail(email), "@")
	if !found {
		return ""
	}
	return domain
}
