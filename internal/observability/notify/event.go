package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Alert kinds raised by the back office. Sinks treat the kind as an opaque
// machine key; it also seeds deduplication.
const (
	KindAuditWriteFailure = "audit_write_failure"
	KindAuditDisabled     = "audit_disabled"
	KindSweepFailure      = "sweep_failure"
)

// OpsAlertPayload captures the canonical data we emit for operator alerts.
type OpsAlertPayload struct {
	Kind       string
	Source     string
	Subject    string
	Action     string
	Error      string
	ErrorClass string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Sink describes a destination capable of consuming operator alerts.
type Sink interface {
	SendOpsAlert(ctx context.Context, payload OpsAlertPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload OpsAlertPayload) error

// SendOpsAlert implements the Sink interface.
func (f SinkFunc) SendOpsAlert(ctx context.Context, payload OpsAlertPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
