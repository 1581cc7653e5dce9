package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Validate(t *testing.T) {
	valid := &Entry{
		Actor:     "auth0|actor-1",
		Action:    "APPROVE_ADMIN",
		TableName: "admin_identities",
		RecordID:  "auth0|target-1",
	}
	require.NoError(t, valid.Validate())
}

func TestEntry_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entry   *Entry
		wantErr string
	}{
		{
			name:    "nil entry",
			entry:   nil,
			wantErr: "audit entry is nil",
		},
		{
			name:    "missing action",
			entry:   &Entry{Actor: "auth0|actor-1"},
			wantErr: "audit entry requires an action",
		},
		{
			name:    "missing actor",
			entry:   &Entry{Action: "APPROVE_ADMIN"},
			wantErr: "audit entry requires an actor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
