package httpx

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/chapelhq/backoffice-go/internal/domain/model"
	"github.com/chapelhq/backoffice-go/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          *service.AuthService
	Guard         *service.GuardService
	Lifecycle     *service.RoleTransitionService
	Directory     *service.DirectoryService
	Allowlist     *service.AllowlistService
	Sessions      *service.SessionTrackerService
	Audit         *service.AuditService
	Exclusivity   *service.ExclusivityService
	Announcements *service.AnnouncementService
	DB            *sql.DB
	CookieDomain  string
	Logger        *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router. The returned handler is
// the bare mux; bootstrap wraps it with recovery, logging, and compression.
func NewRouter(services RouterServices) http.Handler {
	if services.Auth == nil || services.Guard == nil {
		panic("httpx: Auth and Guard services are required") //nolint:forbidigo // Fail fast during server setup.
	}

	mux := http.NewServeMux()

	cookies := SessionCookies{
		Name:   services.Auth.CookieName(),
		Domain: services.CookieDomain,
	}
	guards := guardConfig{
		Guard:        services.Guard,
		Cookies:      cookies,
		CookieDomain: services.CookieDomain,
	}
	admin := guards.adminWrap()
	superAdmin := guards.superAdminWrap()

	authHandlers := &AuthHandlers{
		Svc:     services.Auth,
		Guard:   services.Guard,
		Cookies: cookies,
		Logger:  services.Logger,
	}
	adminHandlers := &AdminHandlers{
		Lifecycle: services.Lifecycle,
		Directory: services.Directory,
		Guard:     services.Guard,
		Cookies:   cookies,
	}

	registerAuthRoutes(mux, authHandlers)
	registerAdminRoutes(mux, adminHandlers, superAdmin)
	registerAllowlistRoutes(mux, &AllowlistHandlers{Svc: services.Allowlist}, superAdmin)
	registerSessionRoutes(mux, &SessionHandlers{Svc: services.Sessions}, admin)
	registerAuditRoutes(mux, &AuditHandlers{Svc: services.Audit}, superAdmin)
	registerExclusivityRoutes(mux, &ExclusivityHandlers{Svc: services.Exclusivity}, superAdmin)
	registerAnnouncementRoutes(mux, &AnnouncementHandlers{Svc: services.Announcements}, admin)
	registerHealthRoutes(mux, &HealthHandlers{DB: services.DB, Audit: services.Audit})

	return mux
}

// guardConfig holds route guard configuration.
type guardConfig struct {
	Guard        AdmissionGuard
	Cookies      SessionCookies
	CookieDomain string
}

// adminWrap admits any approved admin, with CSRF protection on mutating
// methods.
func (cfg guardConfig) adminWrap() func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	admit := RequireAdmin(cfg.Guard, cfg.Cookies, nil)
	return func(h http.Handler) http.Handler {
		return admit(csrf(h))
	}
}

// superAdminWrap admits only approved super admins.
func (cfg guardConfig) superAdminWrap() func(http.Handler) http.Handler {
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	role := model.RoleSuperAdmin
	admit := RequireAdmin(cfg.Guard, cfg.Cookies, &role)
	return func(h http.Handler) http.Handler {
		return admit(csrf(h))
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/callback", h.Callback)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Me)
}

func registerAdminRoutes(mux *http.ServeMux, h *AdminHandlers, superAdmin func(http.Handler) http.Handler) {
	// Registration admits any verified login; the handler resolves the
	// identity itself instead of going through the approved-admin guard.
	mux.HandleFunc("POST /api/admins/register", h.Register)

	mux.Handle("GET /api/admins", superAdmin(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/admins/stats", superAdmin(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /api/admins/{id}", superAdmin(http.HandlerFunc(h.Get)))
	mux.Handle("POST /api/admins/{id}/approve", superAdmin(http.HandlerFunc(h.Approve)))
	mux.Handle("POST /api/admins/{id}/suspend", superAdmin(http.HandlerFunc(h.Suspend)))
	mux.Handle("PUT /api/admins/{id}/role", superAdmin(http.HandlerFunc(h.ChangeRole)))
	mux.Handle("DELETE /api/admins/{id}", superAdmin(http.HandlerFunc(h.Delete)))
}

func registerAllowlistRoutes(mux *http.ServeMux, h *AllowlistHandlers, superAdmin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/allowlist", superAdmin(http.HandlerFunc(h.List)))
	mux.Handle("PUT /api/allowlist", superAdmin(http.HandlerFunc(h.Upsert)))
	mux.Handle("DELETE /api/allowlist", superAdmin(http.HandlerFunc(h.Delete)))
}

func registerSessionRoutes(mux *http.ServeMux, h *SessionHandlers, admin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/sessions", admin(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/sessions/{id}/end", admin(http.HandlerFunc(h.End)))
}

func registerAuditRoutes(mux *http.ServeMux, h *AuditHandlers, superAdmin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/audit", superAdmin(http.HandlerFunc(h.List)))
}

func registerExclusivityRoutes(mux *http.ServeMux, h *ExclusivityHandlers, superAdmin func(http.Handler) http.Handler) {
	mux.Handle("POST /api/exclusivity/sweep", superAdmin(http.HandlerFunc(h.Sweep)))
}

func registerAnnouncementRoutes(mux *http.ServeMux, h *AnnouncementHandlers, admin func(http.Handler) http.Handler) {
	registerCRUD(mux, crudRoutes{
		Base:       "/api/announcements",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: admin,
	})
}

func registerHealthRoutes(mux *http.ServeMux, h *HealthHandlers) {
	mux.Handle("GET /api/health/live", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /api/health/live", http.HandlerFunc(healthHandler))
	mux.HandleFunc("GET /api/health/ready", h.Ready)
}

// registerCRUD registers standard CRUD routes for a resource base path, applying mw if non-nil.
type crudRoutes struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	wrap := func(h http.HandlerFunc) http.Handler {
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}
	mux.Handle("POST "+cfg.Base, wrap(cfg.Create))
	mux.Handle("GET "+cfg.Base, wrap(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", wrap(cfg.GetByID))
	mux.Handle("PUT "+cfg.Base+"/{id}", wrap(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", wrap(cfg.Delete))
}
