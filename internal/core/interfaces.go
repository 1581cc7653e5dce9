package core

import (
	"context"

	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// TransitionResult carries the pre- and post-transition images of the target
// identity so callers can record an audit diff.
type TransitionResult struct {
	Old *model.AdminIdentity
	New *model.AdminIdentity
}

// AdminDirectoryRepository defines the interface for admin identity data operations.
// The transition methods enforce the super-admin quorum inside their own
// transactions; callers only translate the sentinel errors they return.
type AdminDirectoryRepository interface {
	Create(ctx context.Context, req *model.CreateAdminRequest) (*model.AdminIdentity, error)
	GetBySubjectID(ctx context.Context, subjectID string) (*model.AdminIdentity, error)
	GetByEmail(ctx context.Context, email string) (*model.AdminIdentity, error)
	// RefreshRegistration updates full_name and the stored verification flag
	// on a still-pending row.
	RefreshRegistration(
		ctx context.Context,
		subjectID, fullName string,
		emailVerified bool,
	) (*model.AdminIdentity, error)
	List(ctx context.Context, opts model.AdminListOptions) ([]*model.AdminIdentity, error)
	ListEmails(ctx context.Context) ([]string, error)
	CountTotal(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status model.AdminStatus) (int, error)
	CountApprovedSuperAdmins(ctx context.Context) (int, error)

	Approve(
		ctx context.Context,
		targetID string,
		role model.AdminRole,
		actorSubjectID string,
	) (*TransitionResult, error)
	Suspend(ctx context.Context, targetID string) (*TransitionResult, error)
	ChangeRole(ctx context.Context, targetID string, role model.AdminRole) (*TransitionResult, error)
	Delete(ctx context.Context, targetID string) (*model.AdminIdentity, error)
}

// AllowlistRepository defines the interface for registration allowlist data operations.
type AllowlistRepository interface {
	Upsert(ctx context.Context, req *model.UpsertAllowlistRequest, addedBy string) (*model.AllowlistEntry, error)
	GetByEmail(ctx context.Context, email string) (*model.AllowlistEntry, error)
	// MatchEmail resolves an exact entry first, then a @domain rule.
	MatchEmail(ctx context.Context, email string) (*model.AllowlistEntry, error)
	Delete(ctx context.Context, email string) (*model.AllowlistEntry, error)
	List(ctx context.Context, opts model.AllowlistListOptions) ([]*model.AllowlistEntry, error)
}

// SessionTrackerRepository defines the interface for the audit-facing login rows.
type SessionTrackerRepository interface {
	Create(ctx context.Context, subjectID string, meta model.ClientMetadata) (*model.AdminSession, error)
	GetByID(ctx context.Context, id string) (*model.AdminSession, error)
	// End closes the row only when it is open and owned by subjectID; an
	// unowned or already-closed row is a silent no-op (false, nil).
	End(ctx context.Context, sessionID, subjectID string) (bool, error)
	ForceCloseAll(ctx context.Context, subjectID string) (int, error)
	List(ctx context.Context, opts model.SessionListOptions) ([]*model.AdminSession, error)
	CountOpen(ctx context.Context, subjectID string) (int, error)
}

// AuditLogRepository defines the interface for append-only audit writes and queries.
type AuditLogRepository interface {
	Insert(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error)
	List(ctx context.Context, opts model.AuditListOptions) ([]*model.AuditEntry, error)
	Count(ctx context.Context) (int, error)
	Enabled() bool
	Mode() string
}

// EndUserRepository defines the interface for member-account lookups used by
// the exclusivity enforcer.
type EndUserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.EndUserAccount, error)
	Block(ctx context.Context, id, reason string) (*model.EndUserAccount, error)
}

// AnnouncementRepository defines the interface for announcement data operations.
type AnnouncementRepository interface {
	Create(
		ctx context.Context,
		req *model.CreateAnnouncementRequest,
		actorSubjectID string,
	) (*model.Announcement, error)
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	Update(
		ctx context.Context,
		id string,
		req model.UpdateAnnouncementRequest,
		actorSubjectID string,
	) (*model.Announcement, error)
	Delete(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context, opts model.AnnouncementListOptions) ([]*model.Announcement, error)
}
