package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

// SessionTrackingService exposes an admin's own tracked sessions.
type SessionTrackingService interface {
	ListOwn(ctx context.Context, actor domainguard.Capability, opts model.SessionListOptions) ([]*model.AdminSession, error)
	End(ctx context.Context, actor domainguard.Capability, sessionID string) error
	OpenCount(ctx context.Context, actor domainguard.Capability) (int, error)
}

// SessionHandlers contains HTTP handlers for session visibility. Every
// operation is scoped to the calling admin; there is no cross-admin view.
type SessionHandlers struct {
	Svc SessionTrackingService
}

// List handles GET /api/sessions. With open_only=true only sessions that have
// not ended are returned.
func (h *SessionHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.SessionListOptions{}
	opts.Limit, opts.Offset = ParseLimitOffset(r, 50, 200)

	if raw := optionalQuery(r, "open_only"); raw != nil {
		openOnly, err := strconv.ParseBool(*raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("open_only must be a boolean")})
			return
		}
		opts.OpenOnly = openOnly
	}

	actor := CapabilityFromContext(r.Context())
	sessions, err := h.Svc.ListOwn(r.Context(), actor, opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	open, err := h.Svc.OpenCount(r.Context(), actor)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"sessions":   sessions,
		"open_count": open,
		"limit":      opts.Limit,
		"offset":     opts.Offset,
	})
}

// End handles POST /api/sessions/{id}/end. Ending a session that is already
// closed, missing, or owned by someone else reports success without touching
// anything, so the endpoint leaks nothing about other admins' sessions.
func (h *SessionHandlers) End(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("session id is required")})
		return
	}

	if err := h.Svc.End(r.Context(), CapabilityFromContext(r.Context()), sessionID); err != nil {
		WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
