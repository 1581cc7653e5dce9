// Package opsalert fans operator alerts out to the configured notification
// sinks. Alerting is strictly best-effort: a sink failure is logged and never
// propagated to the subsystem that raised the alert.
package opsalert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/chapelhq/backoffice-go/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the ops alert service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
}

// Service dispatches operator alerts to all registered sinks.
type Service struct {
	logger *slog.Logger
	sinks  []SinkRegistration
}

// NewService constructs an ops alert dispatcher.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "ops_alert")
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{
			Name: name,
			Sink: entry.Sink,
		})
	}

	return &Service{
		logger: logger,
		sinks:  sinks,
	}
}

// Notify fans the alert payload out to all sinks and waits for delivery.
func (s *Service) Notify(ctx context.Context, payload notify.OpsAlertPayload) {
	if len(s.sinks) == 0 {
		return
	}

	if payload.Severity == "" {
		payload.Severity = notify.SeverityCritical
	}
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendOpsAlert(ctx, payload); err != nil {
				s.logger.Error("ops alert delivery error",
					"sink", entry.Name,
					"kind", payload.Kind,
					"source", payload.Source,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}

// Enabled reports whether the dispatcher has any active sinks.
func (s *Service) Enabled() bool {
	return len(s.sinks) > 0
}
