package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

// AnnouncementCRUDService manages back-office announcements.
type AnnouncementCRUDService interface {
	Create(ctx context.Context, actor domainguard.Capability, req *model.CreateAnnouncementRequest) (*model.Announcement, error)
	Get(ctx context.Context, id string) (*model.Announcement, error)
	Update(ctx context.Context, actor domainguard.Capability, id string, req model.UpdateAnnouncementRequest) (*model.Announcement, error)
	Delete(ctx context.Context, actor domainguard.Capability, id string) (*model.Announcement, error)
	List(ctx context.Context, opts model.AnnouncementListOptions) ([]*model.Announcement, error)
}

// AnnouncementHandlers contains HTTP handlers for announcements.
type AnnouncementHandlers struct {
	Svc AnnouncementCRUDService
}

// Create handles POST /api/announcements.
func (h *AnnouncementHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAnnouncementRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	announcement, err := h.Svc.Create(r.Context(), CapabilityFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, announcement)
}

// List handles GET /api/announcements with optional published and search
// filters.
func (h *AnnouncementHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.AnnouncementListOptions{Search: optionalQuery(r, "search")}
	opts.Limit, opts.Offset = ParseLimitOffset(r, 50, 200)

	if raw := optionalQuery(r, "published"); raw != nil {
		published, err := strconv.ParseBool(*raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("published must be a boolean")})
			return
		}
		opts.Published = &published
	}

	announcements, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"announcements": announcements,
		"limit":         opts.Limit,
		"offset":        opts.Offset,
	})
}

// GetByID handles GET /api/announcements/{id}.
func (h *AnnouncementHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("announcement id is required")})
		return
	}

	announcement, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, announcement)
}

// Update handles PUT /api/announcements/{id}. Absent fields keep their
// stored values.
func (h *AnnouncementHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("announcement id is required")})
		return
	}

	var req model.UpdateAnnouncementRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	announcement, err := h.Svc.Update(r.Context(), CapabilityFromContext(r.Context()), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, announcement)
}

// Delete handles DELETE /api/announcements/{id}.
func (h *AnnouncementHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("announcement id is required")})
		return
	}

	if _, err := h.Svc.Delete(r.Context(), CapabilityFromContext(r.Context()), id); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
