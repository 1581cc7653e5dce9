package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	domainaudit "github.com/chapelhq/backoffice-go/internal/domain/audit"
	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"github.com/chapelhq/backoffice-go/internal/observability/metrics"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
)

// ExclusivityEnforcer blocks a colliding member account ahead of an approval.
type ExclusivityEnforcer interface {
	Enforce(ctx context.Context, adminSubjectID, email string) (*model.ExclusivityResult, error)
}

// SessionPurger tears down a subject's live access after a revoking transition.
type SessionPurger interface {
	PurgeSubjectAsync(subjectID string)
}

var (
	_ ExclusivityEnforcer = (*ExclusivityService)(nil)
	_ SessionPurger       = (*SessionPurgeService)(nil)
)

// RoleTransitionServiceOptions contains configuration options for creating a RoleTransitionService.
type RoleTransitionServiceOptions struct {
	Directory   core.AdminDirectoryRepository // Required: identity rows and transition transactions
	Allowlist   core.AllowlistRepository      // Required: registration gating
	Exclusivity ExclusivityEnforcer           // Required: member account blocking on approval
	Purger      SessionPurger                 // Required: session teardown on suspend/delete
	Audit       domainguard.Recorder          // Optional: nil drops registration audit entries
	Logger      *slog.Logger                  // Optional: defaults to slog.Default()
	Metrics     statsd.Sink                   // Optional: nil disables transition metrics
}

// RoleTransitionService owns every write to the admin lifecycle state machine.
// The repository commits the authoritative status/role change inside its own
// transaction; session teardown and the audit entry follow the commit and are
// individually best-effort, so a committed transition never rolls back because
// a side effect failed.
type RoleTransitionService struct {
	directory   core.AdminDirectoryRepository
	allowlist   core.AllowlistRepository
	exclusivity ExclusivityEnforcer
	purger      SessionPurger
	audit       domainguard.Recorder
	logger      *slog.Logger
	metrics     statsd.Sink
}

// NewRoleTransitionService creates a new RoleTransitionService with the given options.
func NewRoleTransitionService(opts RoleTransitionServiceOptions) *RoleTransitionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RoleTransitionService{
		directory:   opts.Directory,
		allowlist:   opts.Allowlist,
		exclusivity: opts.Exclusivity,
		purger:      opts.Purger,
		audit:       opts.Audit,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// emitTransition records one lifecycle transition outcome. Conflicts are
// requested transitions that changed nothing, so they count as noop rather
// than error.
func (s *RoleTransitionService) emitTransition(action string, start time.Time, err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case apperrors.IsConflict(err):
		result = metrics.ResultNoop
	default:
		result = metrics.ResultError
	}
	metrics.EmitLifecycleTransition(s.metrics, metrics.TransitionMetric{
		Action:   action,
		Result:   result,
		Duration: time.Since(start),
		Err:      err,
	})
}

// Register self-registers a verified login as a pending admin_ops identity.
// The email must match an allowlist entry or domain rule. Subject, email, and
// the verified flag come from the resolved identity; only the full name is
// caller input. Re-registering while still pending refreshes the full name;
// any other existing row is a Conflict.
func (s *RoleTransitionService) Register(
	ctx context.Context,
	identity domainauth.Identity,
	req *model.RegisterAdminRequest,
	meta model.ClientMetadata,
) (_ *model.AdminIdentity, err error) {
	defer func(start time.Time) { s.emitTransition(model.ActionRegisterAdmin, start, err) }(time.Now())

	if req == nil {
		req = &model.RegisterAdminRequest{}
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("full_name", err.Error())
	}

	existing, err := s.directory.GetBySubjectID(ctx, identity.SubjectID)
	switch {
	case err == nil && existing.Status == model.StatusPendingApproval:
		refreshed, err := s.directory.RefreshRegistration(ctx, identity.SubjectID, req.FullName, identity.EmailVerified)
		if err != nil {
			if errors.Is(err, data.ErrAdminNotFound) {
				// The row left pending between the read and the update.
				return nil, apperrors.Conflict("This account is already registered.")
			}
			return nil, fmt.Errorf("refresh registration: %w", apperrors.MapDBError(err))
		}
		s.recordRegistration(ctx, refreshed, existing.Snapshot(), meta)
		return refreshed, nil
	case err == nil:
		return nil, apperrors.Conflict("This account is already registered.")
	case !errors.Is(err, data.ErrAdminNotFound):
		return nil, fmt.Errorf("look up admin identity: %w", apperrors.MapDBError(err))
	}

	if _, err := s.allowlist.MatchEmail(ctx, identity.Email); err != nil {
		if errors.Is(err, data.ErrAllowlistNotFound) {
			return nil, apperrors.NotFound("This email is not on the admin allowlist.")
		}
		return nil, fmt.Errorf("match allowlist: %w", apperrors.MapDBError(err))
	}

	created, err := s.directory.Create(ctx, &model.CreateAdminRequest{
		SubjectID:     identity.SubjectID,
		Email:         identity.Email,
		FullName:      req.FullName,
		EmailVerified: identity.EmailVerified,
	})
	if err != nil {
		// Two first registrations can race past the lookup; the primary key
		// settles which one wins.
		if errors.Is(err, data.ErrAdminAlreadyExists) {
			return nil, apperrors.Conflict("This account is already registered.")
		}
		return nil, fmt.Errorf("create admin identity: %w", apperrors.MapDBError(err))
	}

	s.logger.Info("registered admin identity",
		"subject_id", created.SubjectID,
		"status", created.Status)
	s.recordRegistration(ctx, created, nil, meta)
	return created, nil
}

// Approve moves a pending or suspended identity to approved with the given
// role, stamping who approved it and when. An empty role grants admin_ops.
// The member-account block runs before the status write so an approval never
// leaves the same email usable on the member side.
func (s *RoleTransitionService) Approve(
	ctx context.Context,
	actor domainguard.Capability,
	targetID string,
	req *model.ApproveAdminRequest,
) (_ *model.AdminIdentity, err error) {
	defer func(start time.Time) { s.emitTransition(model.ActionApproveAdmin, start, err) }(time.Now())

	role := model.RoleAdminOps
	if req != nil && strings.TrimSpace(req.Role) != "" {
		parsed, err := model.ParseAdminRole(req.Role)
		if err != nil {
			return nil, apperrors.ValidationField("role", err.Error())
		}
		role = parsed
	}

	target, err := s.directory.GetBySubjectID(ctx, targetID)
	if err != nil {
		if errors.Is(err, data.ErrAdminNotFound) {
			return nil, apperrors.NotFound("No admin registration found for this subject.")
		}
		return nil, fmt.Errorf("look up admin identity: %w", apperrors.MapDBError(err))
	}

	if _, err := s.exclusivity.Enforce(ctx, target.SubjectID, target.Email); err != nil {
		return nil, fmt.Errorf("enforce admin and member exclusivity: %w", err)
	}

	result, err := s.directory.Approve(ctx, targetID, role, actor.SubjectID)
	if err != nil {
		return nil, mapTransitionError(err, "approve admin",
			"This admin is already approved with that role.")
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionApproveAdmin,
		TableName: "admin_identities",
		RecordID:  targetID,
		Old:       result.Old.Snapshot(),
		New:       result.New.Snapshot(),
		Extra:     map[string]any{"approved_role": string(role)},
	})
	s.logger.Info("approved admin identity",
		"target_subject_id", targetID,
		"role", role,
		"actor", actor.SubjectID)
	return result.New, nil
}

// Suspend revokes an approved or pending identity. The quorum guard inside
// the repository refuses to suspend the last approved super admin. On success
// the target's sessions and tokens are torn down asynchronously.
func (s *RoleTransitionService) Suspend(
	ctx context.Context,
	actor domainguard.Capability,
	targetID string,
) (_ *model.AdminIdentity, err error) {
	defer func(start time.Time) { s.emitTransition(model.ActionSuspendAdmin, start, err) }(time.Now())

	result, err := s.directory.Suspend(ctx, targetID)
	if err != nil {
		return nil, mapTransitionError(err, "suspend admin",
			"This admin is already suspended.")
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionSuspendAdmin,
		TableName: "admin_identities",
		RecordID:  targetID,
		Old:       result.Old.Snapshot(),
		New:       result.New.Snapshot(),
	})
	s.purger.PurgeSubjectAsync(targetID)
	s.logger.Info("suspended admin identity",
		"target_subject_id", targetID,
		"actor", actor.SubjectID)
	return result.New, nil
}

// ChangeRole swaps the role on an existing identity. Demoting an approved
// super admin goes through the same quorum guard as suspension; granting the
// role the target already holds is a Conflict with no write.
func (s *RoleTransitionService) ChangeRole(
	ctx context.Context,
	actor domainguard.Capability,
	targetID string,
	req *model.ChangeRoleRequest,
) (_ *model.AdminIdentity, err error) {
	defer func(start time.Time) { s.emitTransition(model.ActionChangeRole, start, err) }(time.Now())

	if req == nil || strings.TrimSpace(req.Role) == "" {
		return nil, apperrors.ValidationField("role", "A role is required.")
	}
	role, err := model.ParseAdminRole(req.Role)
	if err != nil {
		return nil, apperrors.ValidationField("role", err.Error())
	}

	result, err := s.directory.ChangeRole(ctx, targetID, role)
	if err != nil {
		return nil, mapTransitionError(err, "change admin role",
			"This admin already holds that role.")
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionChangeRole,
		TableName: "admin_identities",
		RecordID:  targetID,
		Old:       result.Old.Snapshot(),
		New:       result.New.Snapshot(),
	})
	s.logger.Info("changed admin role",
		"target_subject_id", targetID,
		"role", role,
		"actor", actor.SubjectID)
	return result.New, nil
}

// Delete removes the identity row entirely. The quorum guard applies, so the
// last approved super admin cannot be deleted, themself included. Sessions
// are torn down asynchronously; the audit entry keeps the final image.
func (s *RoleTransitionService) Delete(
	ctx context.Context,
	actor domainguard.Capability,
	targetID string,
) (_ *model.AdminIdentity, err error) {
	defer func(start time.Time) { s.emitTransition(model.ActionDeleteAdmin, start, err) }(time.Now())

	final, err := s.directory.Delete(ctx, targetID)
	if err != nil {
		return nil, mapTransitionError(err, "delete admin",
			"This admin was already removed.")
	}

	actor.Record(ctx, domainaudit.Entry{
		Action:    model.ActionDeleteAdmin,
		TableName: "admin_identities",
		RecordID:  targetID,
		Old:       final.Snapshot(),
	})
	s.purger.PurgeSubjectAsync(targetID)
	s.logger.Info("deleted admin identity",
		"target_subject_id", targetID,
		"actor", actor.SubjectID)
	return final, nil
}

func (s *RoleTransitionService) recordRegistration(
	ctx context.Context,
	row *model.AdminIdentity,
	old map[string]any,
	meta model.ClientMetadata,
) {
	if s.audit == nil {
		return
	}
	// Registration is self-service; the registrant is their own actor.
	s.audit.Record(ctx, domainaudit.Entry{
		Actor:           row.SubjectID,
		Action:          model.ActionRegisterAdmin,
		TableName:       "admin_identities",
		RecordID:        row.SubjectID,
		Old:             old,
		New:             row.Snapshot(),
		RequestMetadata: meta.AsMap(),
	})
}

// mapTransitionError translates the repository's transition sentinels into
// caller-facing errors. The no-op message differs per operation.
func mapTransitionError(err error, op, noopMessage string) error {
	switch {
	case errors.Is(err, data.ErrAdminNotFound):
		return apperrors.NotFound("No admin registration found for this subject.")
	case errors.Is(err, data.ErrNoopTransition):
		return apperrors.Conflict(noopMessage)
	case errors.Is(err, data.ErrEmailNotVerified):
		return apperrors.Validation("The target admin's email is not verified at the identity provider.")
	case errors.Is(err, data.ErrLastSuperAdmin):
		return apperrors.InvariantViolation("This change would remove the last approved super admin.")
	default:
		return fmt.Errorf("%s: %w", op, apperrors.MapDBError(err))
	}
}
