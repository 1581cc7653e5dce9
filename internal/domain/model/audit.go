//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"time"
)

// Audit action verbs recorded by the identity core. Collaborator surfaces
// add their own verbs (for example CREATE_ANNOUNCEMENT) through the same
// recorder.
const (
	ActionRegisterAdmin = "REGISTER_ADMIN"
	ActionApproveAdmin  = "APPROVE_ADMIN"
	ActionSuspendAdmin  = "SUSPEND_ADMIN"
	ActionChangeRole    = "CHANGE_ADMIN_ROLE"
	ActionDeleteAdmin   = "DELETE_ADMIN"
	ActionBlockEndUser  = "BLOCK_END_USER"
	ActionUpsertAllow   = "UPSERT_ALLOWLIST"
	ActionDeleteAllow   = "DELETE_ALLOWLIST"

	ActionCreateAnnouncement = "CREATE_ANNOUNCEMENT"
	ActionUpdateAnnouncement = "UPDATE_ANNOUNCEMENT"
	ActionDeleteAnnouncement = "DELETE_ANNOUNCEMENT"
)

// AuditEntry is one append-only audit record. Snapshots and the field diff
// are stored as JSON documents; the entry is never updated or deleted.
type AuditEntry struct {
	ID              string          `json:"id"                         db:"id"`
	Action          string          `json:"action"                     db:"action"`
	TableName       string          `json:"table_name"                 db:"table_name"`
	RecordID        *string         `json:"record_id,omitempty"        db:"record_id"`
	ActorSubjectID  string          `json:"actor_subject_id"           db:"actor_subject_id"`
	OldSnapshot     json.RawMessage `json:"old_snapshot,omitempty"     db:"old_snapshot"`
	NewSnapshot     json.RawMessage `json:"new_snapshot,omitempty"     db:"new_snapshot"`
	FieldDiff       json.RawMessage `json:"field_diff"                 db:"field_diff"`
	RequestMetadata json.RawMessage `json:"request_metadata,omitempty" db:"request_metadata"`
	OccurredAt      time.Time       `json:"occurred_at"                db:"occurred_at"`
}

// AuditListOptions represents filters for the audit query surface.
type AuditListOptions struct {
	TableName *string    `json:"table_name,omitempty"`
	Action    *string    `json:"action,omitempty"`
	Actor     *string    `json:"actor,omitempty"` // Actor subject id
	RecordID  *string    `json:"record_id,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	// Expression is an optional JMESPath filter evaluated against each
	// entry's {old, new} snapshot document after the SQL filters.
	Expression string `json:"expression,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}
