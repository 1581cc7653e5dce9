package audit

import "errors"

// Entry is the recorder-facing audit input. Snapshots are field maps; the
// service computes the diff and serializes everything for storage.
type Entry struct {
	Actor     string
	Action    string
	TableName string
	RecordID  string

	// Old and New are the pre/post images of the touched record. Either may
	// be nil (creation has no Old, deletion no New).
	Old map[string]any
	New map[string]any

	// RequestMetadata carries client context (ip, user agent, headers)
	// captured at the guard. Extra is free-form per-action detail and is
	// stored under the "extra" key of the metadata document.
	RequestMetadata map[string]any
	Extra           map[string]any
}

// Validate reports whether the entry can be recorded at all. Recording is
// best-effort, so callers log a failed validation instead of surfacing it.
func (e *Entry) Validate() error {
	if e == nil {
		return errors.New("audit entry is nil")
	}
	if e.Action == "" {
		return errors.New("audit entry requires an action")
	}
	if e.Actor == "" {
		return errors.New("audit entry requires an actor")
	}
	return nil
}
