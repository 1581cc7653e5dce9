// Package testutil provides testing utilities and helpers for the back office service.
package testutil

import (
	"fmt"
	"time"

	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

// AdminBuilder provides a fluent interface for building AdminIdentity fixtures for testing.
type AdminBuilder struct {
	admin *model.AdminIdentity
}

// NewAdmin creates a new AdminBuilder with sensible defaults: a pending
// admin_ops identity with a verified email.
func NewAdmin(subjectID string) *AdminBuilder {
	now := TestTime()
	return &AdminBuilder{
		admin: &model.AdminIdentity{
			SubjectID:     subjectID,
			Email:         fmt.Sprintf("%s@chapel.example", subjectID),
			FullName:      "Test Admin",
			Role:          model.RoleAdminOps,
			Status:        model.StatusPendingApproval,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}
}

// WithEmail sets the email.
func (b *AdminBuilder) WithEmail(email string) *AdminBuilder {
	b.admin.Email = email
	return b
}

// WithFullName sets the full name.
func (b *AdminBuilder) WithFullName(name string) *AdminBuilder {
	b.admin.FullName = name
	return b
}

// WithRole sets the role.
func (b *AdminBuilder) WithRole(role model.AdminRole) *AdminBuilder {
	b.admin.Role = role
	return b
}

// WithStatus sets the lifecycle status.
func (b *AdminBuilder) WithStatus(status model.AdminStatus) *AdminBuilder {
	b.admin.Status = status
	return b
}

// WithEmailVerified sets the email-verified flag.
func (b *AdminBuilder) WithEmailVerified(verified bool) *AdminBuilder {
	b.admin.EmailVerified = verified
	return b
}

// ApprovedBy marks the identity approved, stamped by the given actor.
func (b *AdminBuilder) ApprovedBy(actorSubjectID string) *AdminBuilder {
	at := TestTime()
	b.admin.Status = model.StatusApproved
	b.admin.ApprovedAt = &at
	b.admin.ApprovedBy = &actorSubjectID
	return b
}

// Build returns the constructed AdminIdentity.
func (b *AdminBuilder) Build() *model.AdminIdentity {
	return b.admin
}

// Common admin identity presets.

// ApprovedSuperAdmin creates an approved super-admin fixture.
func ApprovedSuperAdmin(subjectID string) *model.AdminIdentity {
	return NewAdmin(subjectID).
		WithRole(model.RoleSuperAdmin).
		ApprovedBy("seed").
		Build()
}

// ApprovedOpsAdmin creates an approved admin_ops fixture.
func ApprovedOpsAdmin(subjectID string) *model.AdminIdentity {
	return NewAdmin(subjectID).
		WithRole(model.RoleAdminOps).
		ApprovedBy("seed").
		Build()
}

// PendingAdmin creates a pending_approval admin_ops fixture.
func PendingAdmin(subjectID string) *model.AdminIdentity {
	return NewAdmin(subjectID).Build()
}

// SuspendedAdmin creates a suspended admin_ops fixture.
func SuspendedAdmin(subjectID string) *model.AdminIdentity {
	return NewAdmin(subjectID).
		WithStatus(model.StatusSuspended).
		Build()
}

// EndUserBuilder provides a fluent interface for building EndUserAccount fixtures.
type EndUserBuilder struct {
	account *model.EndUserAccount
}

// NewEndUser creates a new EndUserBuilder with an active, verified account.
func NewEndUser(id, email string) *EndUserBuilder {
	now := TestTime()
	return &EndUserBuilder{
		account: &model.EndUserAccount{
			ID:                 id,
			Email:              email,
			AccountStatus:      model.AccountStatusActive,
			VerificationStatus: model.VerificationVerified,
			CreatedAt:          now,
			UpdatedAt:          now,
		},
	}
}

// Blocked marks the account banned and rejected with the given reason.
func (b *EndUserBuilder) Blocked(reason string) *EndUserBuilder {
	b.account.AccountStatus = model.AccountStatusBanned
	b.account.VerificationStatus = model.VerificationRejected
	b.account.BlockedReason = reason
	return b
}

// Build returns the constructed EndUserAccount.
func (b *EndUserBuilder) Build() *model.EndUserAccount {
	return b.account
}

// SessionMetadata returns a ClientMetadata fixture for tracker tests.
func SessionMetadata() model.ClientMetadata {
	return model.ClientMetadata{
		IP:        "203.0.113.10",
		UserAgent: "backoffice-tests/1.0",
		Headers:   map[string]string{"X-Forwarded-For": "203.0.113.10"},
	}
}

// AnnouncementFixture returns a draft announcement owned by the given actor.
func AnnouncementFixture(actorSubjectID string) *model.Announcement {
	now := TestTime()
	return &model.Announcement{
		ID:        "11111111-2222-3333-4444-555555555555",
		Title:     "Service window",
		Body:      "The console is read-only on Sunday morning.",
		Published: false,
		CreatedBy: actorSubjectID,
		UpdatedBy: actorSubjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FutureTime returns TestTime advanced by the given duration, for expiry fixtures.
func FutureTime(d time.Duration) time.Time {
	return TestTime().Add(d)
}
