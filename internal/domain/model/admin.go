//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// AdminRole classifies what an approved admin identity may do.
type AdminRole string

// Admin roles.
const (
	RoleSuperAdmin AdminRole = "super_admin" // May manage other admin identities
	RoleAdminOps   AdminRole = "admin_ops"   // Day-to-day back-office work
)

// Valid reports whether the role is one of the closed set.
func (r AdminRole) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAdminOps
}

// ParseAdminRole parses a role string into the closed AdminRole set.
// Invalid input is a parse error, not a value to be compared downstream.
func ParseAdminRole(s string) (AdminRole, error) {
	role := AdminRole(strings.TrimSpace(strings.ToLower(s)))
	if !role.Valid() {
		return "", fmt.Errorf("invalid admin role %q (expected %s or %s)", s, RoleSuperAdmin, RoleAdminOps)
	}
	return role, nil
}

// AdminStatus tracks where an admin identity sits in the approval lifecycle.
type AdminStatus string

// Admin statuses.
const (
	StatusPendingApproval AdminStatus = "pending_approval"
	StatusApproved        AdminStatus = "approved"
	StatusSuspended       AdminStatus = "suspended"
)

// Valid reports whether the status is one of the closed set.
func (s AdminStatus) Valid() bool {
	return s == StatusPendingApproval || s == StatusApproved || s == StatusSuspended
}

// ParseAdminStatus parses a status string into the closed AdminStatus set.
func ParseAdminStatus(v string) (AdminStatus, error) {
	status := AdminStatus(strings.TrimSpace(strings.ToLower(v)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid admin status %q", v)
	}
	return status, nil
}

// AdminIdentity is the authorization record for a staff account. The subject
// id is owned by the external auth provider and never changes; everything
// else is managed by the role transition service.
type AdminIdentity struct {
	SubjectID     string      `json:"subject_id"            db:"subject_id"`
	Email         string      `json:"email"                 db:"email"`
	FullName      string      `json:"full_name"             db:"full_name"`
	Role          AdminRole   `json:"role"                  db:"role"`
	Status        AdminStatus `json:"status"                db:"status"`
	EmailVerified bool        `json:"email_verified"        db:"email_verified"`
	ApprovedAt    *time.Time  `json:"approved_at,omitempty" db:"approved_at"`
	ApprovedBy    *string     `json:"approved_by,omitempty" db:"approved_by"`
	CreatedAt     time.Time   `json:"created_at"            db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"            db:"updated_at"`
}

// IsApprovedSuperAdmin reports whether this row counts toward the
// last-super-admin quorum.
func (a *AdminIdentity) IsApprovedSuperAdmin() bool {
	return a.Role == RoleSuperAdmin && a.Status == StatusApproved
}

// Snapshot returns the audit-facing field map for this identity.
func (a *AdminIdentity) Snapshot() map[string]any {
	if a == nil {
		return nil
	}
	snap := map[string]any{
		"subject_id":     a.SubjectID,
		"email":          a.Email,
		"full_name":      a.FullName,
		"role":           string(a.Role),
		"status":         string(a.Status),
		"email_verified": a.EmailVerified,
	}
	if a.ApprovedAt != nil {
		snap["approved_at"] = a.ApprovedAt.UTC().Format(time.RFC3339Nano)
	}
	if a.ApprovedBy != nil {
		snap["approved_by"] = *a.ApprovedBy
	}
	return snap
}

// CreateAdminRequest seeds a new identity row. Subject, email, and the
// verified flag come from the resolved login, never from user input.
type CreateAdminRequest struct {
	SubjectID     string
	Email         string
	FullName      string
	EmailVerified bool
	Role          AdminRole   // Defaults to RoleAdminOps when empty
	Status        AdminStatus // Defaults to StatusPendingApproval when empty
}

// Normalize trims the fields and applies the registration defaults.
func (r *CreateAdminRequest) Normalize() {
	r.SubjectID = strings.TrimSpace(r.SubjectID)
	r.Email = NormalizeEmail(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	if r.Role == "" {
		r.Role = RoleAdminOps
	}
	if r.Status == "" {
		r.Status = StatusPendingApproval
	}
}

// Validate validates the CreateAdminRequest fields.
func (r *CreateAdminRequest) Validate() error {
	if r.SubjectID == "" {
		return errors.New("subject_id is required and cannot be empty")
	}
	if r.Email == "" {
		return errors.New("email is required and cannot be empty")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("email must contain @")
	}
	if len(r.Email) > 320 {
		return errors.New("email cannot exceed 320 characters")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("invalid admin role %q", r.Role)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid admin status %q", r.Status)
	}
	return nil
}

// RegisterAdminRequest is the self-service registration payload. Email and
// subject come from the resolved identity, never from the request body.
type RegisterAdminRequest struct {
	FullName string `json:"full_name"`
}

// Normalize trims the RegisterAdminRequest fields.
func (r *RegisterAdminRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
}

// Validate validates the RegisterAdminRequest fields.
func (r *RegisterAdminRequest) Validate() error {
	if r.FullName == "" {
		return errors.New("full_name is required and cannot be empty")
	}
	if !utf8.ValidString(r.FullName) {
		return errors.New("full_name must be valid UTF-8")
	}
	if len(r.FullName) > 200 {
		return errors.New("full_name cannot exceed 200 characters")
	}
	return nil
}

// ChangeRoleRequest carries the new role for a role-change transition.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ApproveAdminRequest carries the role granted on approval.
type ApproveAdminRequest struct {
	Role string `json:"role"`
}

// AdminListOptions represents options for listing admin identities.
type AdminListOptions struct {
	Status *AdminStatus `json:"status,omitempty"` // Filter by lifecycle status
	Role   *AdminRole   `json:"role,omitempty"`   // Filter by role
	Search *string      `json:"search,omitempty"` // Substring match on email or full name
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}

// AdminStats summarizes the directory for the dashboard surface.
type AdminStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Approved    int `json:"approved"`
	Suspended   int `json:"suspended"`
	SuperAdmins int `json:"super_admins"` // Approved super admins only
}
