// Package audit holds the pure domain logic of the audit trail: snapshot
// normalization and field-level diff computation.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// FieldChange records the before/after values of one changed field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ComputeFieldDiff returns the set of keys present in either snapshot whose
// JSON-serialized values differ. Unchanged keys are omitted; a key missing on
// one side is compared against JSON null. Identical snapshots produce an
// empty, non-nil map.
func ComputeFieldDiff(oldSnap, newSnap map[string]any) (map[string]FieldChange, error) {
	diff := make(map[string]FieldChange)

	for _, key := range unionKeys(oldSnap, newSnap) {
		oldVal, newVal := oldSnap[key], newSnap[key]
		same, err := jsonEqual(oldVal, newVal)
		if err != nil {
			return nil, fmt.Errorf("diff field %q: %w", key, err)
		}
		if !same {
			diff[key] = FieldChange{Old: oldVal, New: newVal}
		}
	}
	return diff, nil
}

// MarshalDiff serializes a field diff for storage. A nil diff marshals as {}
// so the audit column stays a valid JSON object.
func MarshalDiff(diff map[string]FieldChange) (json.RawMessage, error) {
	if diff == nil {
		diff = map[string]FieldChange{}
	}
	raw, err := json.Marshal(diff)
	if err != nil {
		return nil, fmt.Errorf("marshal field diff: %w", err)
	}
	return raw, nil
}

// MarshalSnapshot serializes a snapshot for storage. Nil snapshots stay nil
// so absent pre/post images are stored as SQL NULL, not "null".
func MarshalSnapshot(snap map[string]any) (json.RawMessage, error) {
	if snap == nil {
		return nil, nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return raw, nil
}

func unionKeys(a, b map[string]any) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// jsonEqual compares two values structurally. encoding/json sorts map keys,
// so the serialized forms are canonical for comparison.
func jsonEqual(a, b any) (bool, error) {
	aRaw, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	bRaw, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(aRaw, bRaw), nil
}
