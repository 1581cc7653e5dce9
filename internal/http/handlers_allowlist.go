package httpx

import (
	"context"
	"errors"
	"net/http"

	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

// AllowlistManagementService manages the registration allowlist.
type AllowlistManagementService interface {
	Upsert(ctx context.Context, actor domainguard.Capability, req *model.UpsertAllowlistRequest) (*model.AllowlistEntry, error)
	Delete(ctx context.Context, actor domainguard.Capability, email string) (*model.AllowlistEntry, error)
	List(ctx context.Context, opts model.AllowlistListOptions) ([]*model.AllowlistEntry, error)
}

// AllowlistHandlers contains HTTP handlers for allowlist management.
type AllowlistHandlers struct {
	Svc AllowlistManagementService
}

// List handles GET /api/allowlist.
func (h *AllowlistHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.AllowlistListOptions{Search: optionalQuery(r, "search")}
	opts.Limit, opts.Offset = ParseLimitOffset(r, 50, 200)

	entries, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"limit":   opts.Limit,
		"offset":  opts.Offset,
	})
}

// Upsert handles PUT /api/allowlist. The entry is keyed by the normalized
// email, so repeating a PUT refreshes the note instead of duplicating.
func (h *AllowlistHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertAllowlistRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	entry, err := h.Svc.Upsert(r.Context(), CapabilityFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/allowlist?email=.
func (h *AllowlistHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("email is required")})
		return
	}

	removed, err := h.Svc.Delete(r.Context(), CapabilityFromContext(r.Context()), email)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"deleted": true,
		"entry":   removed,
	})
}
