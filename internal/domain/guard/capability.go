// Package guard defines the capability handle privileged request handlers
// receive once the authorization guard has admitted them.
package guard

import (
	"context"

	domainaudit "github.com/chapelhq/backoffice-go/internal/domain/audit"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
)

// Recorder appends audit entries on behalf of an authorized actor. Recording
// is best-effort; implementations swallow their own failures.
type Recorder interface {
	Record(ctx context.Context, entry domainaudit.Entry)
}

// Capability proves a request passed the guard. It carries the acting admin
// and an audit recorder bound to that actor, so collaborator code attributes
// writes through the capability and never re-derives identity.
type Capability struct {
	SubjectID string
	Email     string
	Role      model.AdminRole

	recorder Recorder
	metadata map[string]any
}

// NewCapability binds an approved admin to a recorder. metadata is the
// request-derived client context attached to every entry recorded through
// this capability.
func NewCapability(admin *model.AdminIdentity, recorder Recorder, metadata map[string]any) Capability {
	if admin == nil {
		return Capability{}
	}
	return Capability{
		SubjectID: admin.SubjectID,
		Email:     admin.Email,
		Role:      admin.Role,
		recorder:  recorder,
		metadata:  metadata,
	}
}

// Valid reports whether the capability identifies an actor. The zero value
// does not; context helpers use this to detect a missing guard.
func (c Capability) Valid() bool {
	return c.SubjectID != ""
}

// IsSuperAdmin reports whether the actor holds the super admin role.
func (c Capability) IsSuperAdmin() bool {
	return c.Role == model.RoleSuperAdmin
}

// Record stamps the entry with the capability's actor and request metadata,
// then forwards it to the bound recorder. Entries that already carry
// metadata keep it. A capability without a recorder drops the entry.
func (c Capability) Record(ctx context.Context, entry domainaudit.Entry) {
	if c.recorder == nil {
		return
	}
	entry.Actor = c.SubjectID
	if entry.RequestMetadata == nil {
		entry.RequestMetadata = c.metadata
	}
	c.recorder.Record(ctx, entry)
}
