package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/data"
	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
)

// SessionResolver re-establishes a caller identity from the incoming request.
// *AuthService is the production implementation.
type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (domainauth.Resolution, error)
}

// GuardServiceOptions holds the dependencies for creating a GuardService.
type GuardServiceOptions struct {
	Resolver  SessionResolver
	Directory core.AdminDirectoryRepository
	Audit     domainguard.Recorder // Optional: capabilities record against this
	Logger    *slog.Logger
	Metrics   statsd.Sink // Optional
}

// GuardService is the authorization gate in front of every privileged
// operation. It layers directory checks on top of the resolver: first who the
// caller is, then whether the directory admits them.
type GuardService struct {
	resolver  SessionResolver
	directory core.AdminDirectoryRepository
	audit     domainguard.Recorder
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewGuardService constructs a new GuardService.
func NewGuardService(opts GuardServiceOptions) *GuardService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &GuardService{
		resolver:  opts.Resolver,
		directory: opts.Directory,
		audit:     opts.Audit,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// IdentityResult carries everything the guard learned about the caller. It is
// never nil, even on denial, so the HTTP layer can still apply the cookie
// mutations the resolver asked for.
type IdentityResult struct {
	Resolution domainauth.Resolution
	Admin      *model.AdminIdentity // nil when the subject is not registered
}

// AdmitResult is what an admitted caller operates with.
type AdmitResult struct {
	Resolution domainauth.Resolution
	Admin      *model.AdminIdentity
	Capability domainguard.Capability
}

// Identify resolves the caller without demanding anything of them. Surfaces
// like the session probe must answer for anonymous and half-onboarded callers
// alike, so nothing here is a denial.
func (s *GuardService) Identify(ctx context.Context, r *http.Request) (*IdentityResult, error) {
	res, err := s.resolver.Resolve(ctx, r)
	out := &IdentityResult{Resolution: res}
	if err != nil {
		return out, err
	}
	if !res.Authenticated {
		return out, nil
	}

	admin, err := s.lookupAdmin(ctx, res.Subject.SubjectID)
	if err != nil {
		return out, err
	}
	out.Admin = admin
	return out, nil
}

// RequireIdentity admits any verified login, registered with the directory or
// not. Registration self-service runs behind this gate: the caller must prove
// who they are before they may ask to become an admin.
func (s *GuardService) RequireIdentity(ctx context.Context, r *http.Request) (*IdentityResult, error) {
	out, err := s.Identify(ctx, r)
	if err != nil {
		return out, err
	}
	if !out.Resolution.Authenticated {
		return out, s.deny(apperrors.Unauthenticated("Sign in to use the back office."))
	}
	if !out.Resolution.EmailVerified {
		return out, s.deny(apperrors.EmailUnverified("Verify your email address with the identity provider, then sign in again."))
	}
	return out, nil
}

// RequireApprovedAdmin admits only approved directory members, optionally
// pinned to a role. The check order is fixed: authentication before
// authorization, registration before status, status before role, so the
// denial code always names the earliest failing layer.
func (s *GuardService) RequireApprovedAdmin(ctx context.Context, r *http.Request, requiredRole *model.AdminRole) (*AdmitResult, error) {
	identity, err := s.RequireIdentity(ctx, r)
	out := &AdmitResult{Resolution: identity.Resolution, Admin: identity.Admin}
	if err != nil {
		return out, err
	}

	admin := identity.Admin
	if admin == nil {
		return out, s.deny(apperrors.NotRegisteredAdmin("This account is not registered for back-office access."))
	}

	switch admin.Status {
	case model.StatusApproved:
		// Falls through to the role check.
	case model.StatusPendingApproval:
		return out, s.deny(apperrors.PendingApproval("Your registration is awaiting approval by a super admin."))
	case model.StatusSuspended:
		return out, s.deny(apperrors.Suspended("This account has been suspended."))
	default:
		return out, s.deny(apperrors.InvalidStatusf("Account status %q is not recognized.", admin.Status))
	}

	if requiredRole != nil && admin.Role != *requiredRole {
		return out, s.deny(apperrors.RoleMismatchf("This operation requires the %s role.", *requiredRole))
	}

	out.Capability = domainguard.NewCapability(admin, s.audit, ClientMetadataFromRequest(r).AsMap())
	return out, nil
}

// lookupAdmin fetches the directory row, treating absence as nil rather than
// an error.
func (s *GuardService) lookupAdmin(ctx context.Context, subjectID string) (*model.AdminIdentity, error) {
	admin, err := s.directory.GetBySubjectID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, data.ErrAdminNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("look up admin identity: %w", apperrors.MapDBError(err))
	}
	return admin, nil
}

func (s *GuardService) deny(appErr *apperrors.AppError) error {
	if s.metrics != nil {
		s.metrics.Count("guard.denial", 1, map[string]string{"code": string(appErr.Code)})
	}
	return appErr
}

// ClientMetadataFromRequest captures the request context recorded with logins
// and audit entries. X-Forwarded-For wins over RemoteAddr because the service
// normally runs behind a proxy.
func ClientMetadataFromRequest(r *http.Request) model.ClientMetadata {
	if r == nil {
		return model.ClientMetadata{}
	}
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		// Keep the first hop only; later entries are proxies.
		if idx := strings.Index(ip, ","); idx >= 0 {
			ip = ip[:idx]
		}
		ip = strings.TrimSpace(ip)
	} else if host, _, splitErr := net.SplitHostPort(r.RemoteAddr); splitErr == nil {
		ip = host
	} else {
		ip = r.RemoteAddr
	}
	return model.ClientMetadata{IP: ip, UserAgent: r.UserAgent()}
}
