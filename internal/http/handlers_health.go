package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

const healthResponse = `{"status":"ok"}`

// healthHandler returns a simple 200 OK status for liveness checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// AuditHealth reports how the audit writer was pinned at startup.
type AuditHealth interface {
	Enabled() bool
	WriterMode() string
}

// HealthHandlers contains the readiness probe. Liveness stays a plain
// function; readiness needs the database and the audit writer state.
type HealthHandlers struct {
	DB    Pinger
	Audit AuditHealth
}

// Ready handles GET /api/health/ready. The probe fails only when the
// database is unreachable; a disabled audit log is reported but keeps the
// instance in rotation.
func (h *HealthHandlers) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	body := map[string]any{"status": "ok"}
	if h.Audit != nil {
		body["audit"] = map[string]any{
			"enabled": h.Audit.Enabled(),
			"mode":    h.Audit.WriterMode(),
		}
	}
	WriteJSON(w, http.StatusOK, body)
}
