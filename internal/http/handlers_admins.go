package httpx

import (
	"context"
	"errors"
	"net/http"

	domainauth "github.com/chapelhq/backoffice-go/internal/domain/auth"
	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"github.com/chapelhq/backoffice-go/internal/service"
)

// AdminLifecycleService drives self-registration and the guarded lifecycle
// transitions on admin identities.
type AdminLifecycleService interface {
	Register(ctx context.Context, identity domainauth.Identity, req *model.RegisterAdminRequest, meta model.ClientMetadata) (*model.AdminIdentity, error)
	Approve(ctx context.Context, actor domainguard.Capability, targetID string, req *model.ApproveAdminRequest) (*model.AdminIdentity, error)
	Suspend(ctx context.Context, actor domainguard.Capability, targetID string) (*model.AdminIdentity, error)
	ChangeRole(ctx context.Context, actor domainguard.Capability, targetID string, req *model.ChangeRoleRequest) (*model.AdminIdentity, error)
	Delete(ctx context.Context, actor domainguard.Capability, targetID string) (*model.AdminIdentity, error)
}

// AdminDirectoryService is the read side of the admin directory.
type AdminDirectoryService interface {
	List(ctx context.Context, opts model.AdminListOptions) ([]*model.AdminIdentity, error)
	Get(ctx context.Context, subjectID string) (*model.AdminIdentity, error)
	Stats(ctx context.Context) (*model.AdminStats, error)
}

// IdentityRequirer admits any verified login, registered or not. Registration
// runs behind it rather than behind the approved-admin middleware because the
// caller by definition has no directory row yet.
type IdentityRequirer interface {
	RequireIdentity(ctx context.Context, r *http.Request) (*service.IdentityResult, error)
}

// AdminHandlers contains HTTP handlers for the admin directory and lifecycle.
type AdminHandlers struct {
	Lifecycle AdminLifecycleService
	Directory AdminDirectoryService
	Guard     IdentityRequirer
	Cookies   SessionCookies
}

// Register handles POST /api/admins/register. Any verified login may call it;
// the service decides admission against the allowlist.
func (h *AdminHandlers) Register(w http.ResponseWriter, r *http.Request) {
	identity, err := h.Guard.RequireIdentity(r.Context(), r)
	if identity != nil {
		h.Cookies.Apply(w, r, identity.Resolution.CookieMutations)
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}

	var req model.RegisterAdminRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	created, err := h.Lifecycle.Register(r.Context(), *identity.Resolution.Subject, &req, service.ClientMetadataFromRequest(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /api/admins with optional status, role, and search filters.
func (h *AdminHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.AdminListOptions{Search: optionalQuery(r, "search")}
	opts.Limit, opts.Offset = ParseLimitOffset(r, 50, 200)

	if raw := optionalQuery(r, "status"); raw != nil {
		status, err := model.ParseAdminStatus(*raw)
		if err != nil {
			WriteAppError(w, apperrors.ValidationField("status", err.Error()))
			return
		}
		opts.Status = &status
	}
	if raw := optionalQuery(r, "role"); raw != nil {
		role, err := model.ParseAdminRole(*raw)
		if err != nil {
			WriteAppError(w, apperrors.ValidationField("role", err.Error()))
			return
		}
		opts.Role = &role
	}

	admins, err := h.Directory.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"admins": admins,
		"limit":  opts.Limit,
		"offset": opts.Offset,
	})
}

// Get handles GET /api/admins/{id}.
func (h *AdminHandlers) Get(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("id")
	if subjectID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	admin, err := h.Directory.Get(r.Context(), subjectID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, admin)
}

// Stats handles GET /api/admins/stats.
func (h *AdminHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Directory.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// Approve handles POST /api/admins/{id}/approve. The body is optional; an
// absent or empty role grants admin_ops.
func (h *AdminHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("id")
	if subjectID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	var req model.ApproveAdminRequest
	if r.ContentLength != 0 {
		if !DecodeJSON(w, r, &req) {
			return
		}
	}

	admin, err := h.Lifecycle.Approve(r.Context(), CapabilityFromContext(r.Context()), subjectID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, admin)
}

// Suspend handles POST /api/admins/{id}/suspend.
func (h *AdminHandlers) Suspend(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("id")
	if subjectID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	admin, err := h.Lifecycle.Suspend(r.Context(), CapabilityFromContext(r.Context()), subjectID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, admin)
}

// ChangeRole handles PUT /api/admins/{id}/role.
func (h *AdminHandlers) ChangeRole(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("id")
	if subjectID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	var req model.ChangeRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	admin, err := h.Lifecycle.ChangeRole(r.Context(), CapabilityFromContext(r.Context()), subjectID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, admin)
}

// Delete handles DELETE /api/admins/{id}. The response carries the final
// image of the identity so the caller sees what was removed.
func (h *AdminHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("id")
	if subjectID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("admin id is required")})
		return
	}

	admin, err := h.Lifecycle.Delete(r.Context(), CapabilityFromContext(r.Context()), subjectID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"deleted": true,
		"admin":   admin,
	})
}
