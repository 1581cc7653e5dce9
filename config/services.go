package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeReconciler runs the periodic admin/member exclusivity sweep.
	ServiceModeReconciler ServiceMode = "reconciler"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeReconciler,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeReconciler:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, reconciler)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// AuditConfig contains audit trail writer configuration.
type AuditConfig struct {
	// WriteTimeout bounds each detached audit insert. Writes run on a
	// fire-and-forget pool, so this is the only thing stopping a wedged
	// store from pinning goroutines until shutdown.
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

// Sanitize applies guardrails to audit configuration values.
func (a *AuditConfig) Sanitize() {
	if a.WriteTimeout < 1*time.Second {
		a.WriteTimeout = 1 * time.Second
	}
	if a.WriteTimeout > 1*time.Minute {
		a.WriteTimeout = 1 * time.Minute
	}
}

// ReconcilerConfig contains exclusivity reconciler service configuration.
type ReconcilerConfig struct {
	// Interval is the reconciler tick interval.
	Interval time.Duration `env:"INTERVAL" envDefault:"1h"`

	// DryRun reports collisions without blocking the colliding accounts.
	DryRun bool `env:"DRY_RUN" envDefault:"false"`

	// SweepConcurrency is the number of concurrent end-user lookups per sweep.
	SweepConcurrency int `env:"SWEEP_CONCURRENCY" envDefault:"4"`
}

// Sanitize applies guardrails to reconciler configuration values.
func (r *ReconcilerConfig) Sanitize() {
	// Enforce a minimum interval to prevent excessive database load
	if r.Interval < 1*time.Minute {
		r.Interval = 1 * time.Minute
	}

	if r.SweepConcurrency < 1 {
		r.SweepConcurrency = 1
	}
	if r.SweepConcurrency > 64 {
		r.SweepConcurrency = 64
	}
}
