//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Announcement is reference content managed through the privileged store
// handle; every write is attributed to the acting admin and audited.
type Announcement struct {
	ID        string    `json:"id"         db:"id"`
	Title     string    `json:"title"      db:"title"`
	Body      string    `json:"body"       db:"body"`
	Published bool      `json:"published"  db:"published"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	UpdatedBy string    `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Snapshot returns the audit-facing field map for this announcement.
func (a *Announcement) Snapshot() map[string]any {
	if a == nil {
		return nil
	}
	return map[string]any{
		"id":         a.ID,
		"title":      a.Title,
		"body":       a.Body,
		"published":  a.Published,
		"created_by": a.CreatedBy,
		"updated_by": a.UpdatedBy,
	}
}

// CreateAnnouncementRequest represents a request to create an announcement.
type CreateAnnouncementRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Published bool   `json:"published,omitempty"`
}

// Normalize trims the CreateAnnouncementRequest fields.
func (r *CreateAnnouncementRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
}

// Validate validates the CreateAnnouncementRequest fields.
func (r *CreateAnnouncementRequest) Validate() error {
	if r.Title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if !utf8.ValidString(r.Title) {
		return errors.New("title must be valid UTF-8")
	}
	if len(r.Title) > 300 {
		return errors.New("title cannot exceed 300 characters")
	}
	if len(r.Body) > 100_000 {
		return errors.New("body cannot exceed 100000 characters")
	}
	return nil
}

// UpdateAnnouncementRequest represents a partial update; nil fields are left
// unchanged.
type UpdateAnnouncementRequest struct {
	Title     *string `json:"title,omitempty"`
	Body      *string `json:"body,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// Normalize trims the UpdateAnnouncementRequest fields.
func (r *UpdateAnnouncementRequest) Normalize() {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
	}
	if r.Body != nil {
		trimmed := strings.TrimSpace(*r.Body)
		r.Body = &trimmed
	}
}

// HasUpdates reports whether any field is set.
func (r *UpdateAnnouncementRequest) HasUpdates() bool {
	return r.Title != nil || r.Body != nil || r.Published != nil
}

// Validate validates the UpdateAnnouncementRequest fields.
func (r *UpdateAnnouncementRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		if *r.Title == "" {
			return errors.New("title cannot be empty")
		}
		if len(*r.Title) > 300 {
			return errors.New("title cannot exceed 300 characters")
		}
	}
	if r.Body != nil && len(*r.Body) > 100_000 {
		return errors.New("body cannot exceed 100000 characters")
	}
	return nil
}

// AnnouncementListOptions represents options for listing announcements.
type AnnouncementListOptions struct {
	Published *bool   `json:"published,omitempty"`
	Search    *string `json:"search,omitempty"` // Substring match on title
	Limit     int     `json:"limit,omitempty"`
	Offset    int     `json:"offset,omitempty"`
}
