package httpx

import (
	"context"

	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
)

// capabilityKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type capabilityKey struct{}

// SetCapabilityInContext returns a child context carrying the admitted
// capability. Invalid (zero) capabilities are not stored.
func SetCapabilityInContext(ctx context.Context, capability domainguard.Capability) context.Context {
	if !capability.Valid() {
		return ctx
	}
	return context.WithValue(ctx, capabilityKey{}, capability)
}

// CapabilityFromContext returns the capability the admission middleware
// stored for this request. Handlers act through this handle and never
// re-derive the caller's identity. A zero capability (Valid() == false)
// means no guard admitted the request.
func CapabilityFromContext(ctx context.Context) domainguard.Capability {
	if capability, ok := ctx.Value(capabilityKey{}).(domainguard.Capability); ok {
		return capability
	}
	return domainguard.Capability{}
}
