package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainguard "github.com/chapelhq/backoffice-go/internal/domain/guard"
	"github.com/chapelhq/backoffice-go/internal/domain/model"
	apperrors "github.com/chapelhq/backoffice-go/internal/errors"
	"github.com/chapelhq/backoffice-go/internal/service"
)

func admittingGuard(capability domainguard.Capability) *mockAdmissionGuard {
	return &mockAdmissionGuard{
		requireFunc: func(_ context.Context, _ *http.Request, _ *model.AdminRole) (*service.AdmitResult, error) {
			return &service.AdmitResult{Capability: capability}, nil
		},
	}
}

func TestRegisterCRUD_RoutesDispatch(t *testing.T) {
	mux := http.NewServeMux()
	var hits []string
	record := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			hits = append(hits, name)
			w.WriteHeader(http.StatusOK)
		}
	}
	registerCRUD(mux, crudRoutes{
		Base:    "/api/widgets",
		Create:  record("create"),
		List:    record("list"),
		GetByID: record("get"),
		Update:  record("update"),
		Delete:  record("delete"),
	})

	for _, tc := range []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/widgets"},
		{http.MethodGet, "/api/widgets"},
		{http.MethodGet, "/api/widgets/w1"},
		{http.MethodPut, "/api/widgets/w1"},
		{http.MethodDelete, "/api/widgets/w1"},
	} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.target, nil))
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.target)
	}
	assert.Equal(t, []string{"create", "list", "get", "update", "delete"}, hits)
}

func TestRegisterCRUD_AppliesMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	blocked := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}
	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	registerCRUD(mux, crudRoutes{
		Base:       "/api/widgets",
		Create:     ok,
		List:       ok,
		GetByID:    ok,
		Update:     ok,
		Delete:     ok,
		Middleware: blocked,
	})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/widgets", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRegisterCRUD_PanicsOnBadConfig(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) {}

	require.Panics(t, func() {
		registerCRUD(http.NewServeMux(), crudRoutes{
			Create: ok, List: ok, GetByID: ok, Update: ok, Delete: ok,
		})
	})
	require.Panics(t, func() {
		registerCRUD(http.NewServeMux(), crudRoutes{
			Base:   "/api/widgets",
			Create: ok, List: ok, GetByID: ok, Update: ok,
		})
	})
}

func TestAdminWrap_DeniesBeforeCSRF(t *testing.T) {
	guards := guardConfig{
		Guard: &mockAdmissionGuard{
			requireFunc: func(_ context.Context, _ *http.Request, _ *model.AdminRole) (*service.AdmitResult, error) {
				return &service.AdmitResult{}, apperrors.Unauthenticated("Login required.")
			},
		},
		Cookies: SessionCookies{Name: "backoffice_session"},
	}
	handler := guards.adminWrap()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run for a denied request")
	}))

	// No CSRF token anywhere, yet the guard answers first.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions/track-1/end", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", decodeErrorBody(t, w)["error"])
}

func TestAdminWrap_AdmitsAndIssuesCSRFCookie(t *testing.T) {
	capability := domainguard.Capability{SubjectID: "auth0|ops", Email: "ops@example.org", Role: model.RoleAdminOps}
	guards := guardConfig{Guard: admittingGuard(capability), Cookies: SessionCookies{Name: "backoffice_session"}}

	var gotCapability domainguard.Capability
	handler := guards.adminWrap()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCapability = CapabilityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "auth0|ops", gotCapability.SubjectID)
	require.NotNil(t, findCookie(t, w, DefaultCSRFCookieName))
}

func TestAdminWrap_BlocksWriteWithoutToken(t *testing.T) {
	capability := domainguard.Capability{SubjectID: "auth0|ops", Email: "ops@example.org", Role: model.RoleAdminOps}
	guards := guardConfig{Guard: admittingGuard(capability), Cookies: SessionCookies{Name: "backoffice_session"}}

	handler := guards.adminWrap()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run without a CSRF token")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sessions/track-1/end", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSuperAdminWrap_PinsRole(t *testing.T) {
	var gotRole *model.AdminRole
	guards := guardConfig{
		Guard: &mockAdmissionGuard{
			requireFunc: func(_ context.Context, _ *http.Request, role *model.AdminRole) (*service.AdmitResult, error) {
				gotRole = role
				return &service.AdmitResult{}, apperrors.RoleMismatchf("This action requires the %s role.", model.RoleSuperAdmin)
			},
		},
		Cookies: SessionCookies{Name: "backoffice_session"},
	}
	handler := guards.superAdminWrap()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler should not run for a role mismatch")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admins", nil))

	require.NotNil(t, gotRole)
	assert.Equal(t, model.RoleSuperAdmin, *gotRole)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
