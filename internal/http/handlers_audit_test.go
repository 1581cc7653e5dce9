package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
)

// mockAuditService implements AuditQueryService with scriptable functions.
type mockAuditService struct {
	enabled   bool
	listFunc  func(ctx context.Context, opts model.AuditListOptions) ([]*model.AuditEntry, error)
	countFunc func(ctx context.Context) (int, error)
}

func (m *mockAuditService) List(ctx context.Context, opts model.AuditListOptions) ([]*model.AuditEntry, error) {
	return m.listFunc(ctx, opts)
}

func (m *mockAuditService) Count(ctx context.Context) (int, error) {
	return m.countFunc(ctx)
}

func (m *mockAuditService) Enabled() bool { return m.enabled }

func TestAuditHandlers_List_Filters(t *testing.T) {
	var gotOpts model.AuditListOptions
	svc := &mockAuditService{
		enabled: true,
		listFunc: func(_ context.Context, opts model.AuditListOptions) ([]*model.AuditEntry, error) {
			gotOpts = opts
			return []*model.AuditEntry{{ID: "a1", TableName: "admin_identities", Action: "UPDATE"}}, nil
		},
		countFunc: func(_ context.Context) (int, error) { return 42, nil },
	}
	h := &AuditHandlers{Svc: svc}

	target := "/api/audit?table=admin_identities&action=UPDATE&actor=auth0%7Croot&record_id=auth0%7Cops" +
		"&from=2026-08-01T00:00:00Z&to=2026-08-25T00:00:00Z" +
		"&expression=new.status%20%3D%3D%20%27suspended%27&limit=10&offset=30"
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	h.List(w, superAdminContext(r))

	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, gotOpts.TableName)
	assert.Equal(t, "admin_identities", *gotOpts.TableName)
	require.NotNil(t, gotOpts.Action)
	assert.Equal(t, "UPDATE", *gotOpts.Action)
	require.NotNil(t, gotOpts.Actor)
	assert.Equal(t, "auth0|root", *gotOpts.Actor)
	require.NotNil(t, gotOpts.RecordID)
	assert.Equal(t, "auth0|ops", *gotOpts.RecordID)
	require.NotNil(t, gotOpts.From)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), gotOpts.From.UTC())
	require.NotNil(t, gotOpts.To)
	assert.Equal(t, "new.status == 'suspended'", gotOpts.Expression)
	assert.Equal(t, 10, gotOpts.Limit)
	assert.Equal(t, 30, gotOpts.Offset)

	body := decodeBody(t, w)
	assert.Len(t, body["entries"], 1)
	assert.EqualValues(t, 42, body["total"])
}

func TestAuditHandlers_List_InvalidTimestamp(t *testing.T) {
	h := &AuditHandlers{Svc: &mockAuditService{enabled: true}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/audit?from=yesterday", nil)
	h.List(w, superAdminContext(r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation", decodeBody(t, w)["error"])
}

func TestAuditHandlers_List_BadExpression(t *testing.T) {
	svc := &mockAuditService{
		enabled: true,
		listFunc: func(_ context.Context, _ model.AuditListOptions) ([]*model.AuditEntry, error) {
			return nil, apperrors.ValidationField("expression", "Filter expression is not valid JMESPath.")
		},
	}
	h := &AuditHandlers{Svc: svc}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/audit?expression=%5Binvalid", nil)
	h.List(w, superAdminContext(r))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditHandlers_List_Disabled(t *testing.T) {
	h := &AuditHandlers{Svc: &mockAuditService{enabled: false}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
	h.List(w, superAdminContext(r))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "store_unavailable", decodeBody(t, w)["error"])
}
