package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chapelhq/backoffice-go/internal/service"
)

// ExclusivityHandlers contains HTTP handlers for the admin/member
// exclusivity sweep. The same Sweeper backs the background reconciler; this
// endpoint is the on-demand entry point.
type ExclusivityHandlers struct {
	Svc service.Sweeper
}

// Sweep handles POST /api/exclusivity/sweep. With dry_run=true the report
// counts collisions without blocking any member account.
func (h *ExclusivityHandlers) Sweep(w http.ResponseWriter, r *http.Request) {
	dryRun := false
	if raw := optionalQuery(r, "dry_run"); raw != nil {
		parsed, err := strconv.ParseBool(*raw)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("dry_run must be a boolean")})
			return
		}
		dryRun = parsed
	}

	report, err := h.Svc.Sweep(r.Context(), dryRun)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}
