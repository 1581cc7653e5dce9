package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
)

// AuditQueryService is the read side of the audit log.
type AuditQueryService interface {
	List(ctx context.Context, opts model.AuditListOptions) ([]*model.AuditEntry, error)
	Count(ctx context.Context) (int, error)
	Enabled() bool
}

// AuditHandlers contains HTTP handlers for browsing the audit log.
type AuditHandlers struct {
	Svc AuditQueryService
}

// List handles GET /api/audit. SQL-side filters (table, action, actor,
// record_id, from, to) narrow the scan; the optional expression query runs
// JMESPath over each remaining entry's snapshot document.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	if !h.Svc.Enabled() {
		WriteAppError(w, apperrors.StoreUnavailable(nil, "The audit log is not available on this deployment."))
		return
	}

	opts := model.AuditListOptions{
		TableName: optionalQuery(r, "table"),
		Action:    optionalQuery(r, "action"),
		Actor:     optionalQuery(r, "actor"),
		RecordID:  optionalQuery(r, "record_id"),
	}
	opts.Limit, opts.Offset = ParseLimitOffset(r, 50, 500)

	if raw := optionalQuery(r, "from"); raw != nil {
		from, err := time.Parse(time.RFC3339, *raw)
		if err != nil {
			WriteAppError(w, apperrors.ValidationField("from", "Timestamps must be RFC 3339."))
			return
		}
		opts.From = &from
	}
	if raw := optionalQuery(r, "to"); raw != nil {
		to, err := time.Parse(time.RFC3339, *raw)
		if err != nil {
			WriteAppError(w, apperrors.ValidationField("to", "Timestamps must be RFC 3339."))
			return
		}
		opts.To = &to
	}
	if raw := optionalQuery(r, "expression"); raw != nil {
		opts.Expression = *raw
	}

	entries, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	total, err := h.Svc.Count(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   total,
		"limit":   opts.Limit,
		"offset":  opts.Offset,
	})
}
