package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chapelhq/backoffice-go/config"
	"github.com/chapelhq/backoffice-go/internal/adapters/devauth"
	"github.com/chapelhq/backoffice-go/internal/adapters/oidc"
	redisadapter "github.com/chapelhq/backoffice-go/internal/adapters/redis"
	"github.com/chapelhq/backoffice-go/internal/core"
	"github.com/chapelhq/backoffice-go/internal/ports"
	"github.com/chapelhq/backoffice-go/internal/service"
	"github.com/redis/go-redis/v9"
)

// AuthConfig contains configuration for building the auth stack.
type AuthConfig struct {
	Auth        config.AuthConfig
	Session     config.SessionConfig
	RedisClient redis.UniversalClient
	Tracker     core.SessionTrackerRepository // Optional: durable login bookkeeping
	Logger      *slog.Logger
}

// AuthStack bundles the provider, the session store, and the resolver
// service built on top of them. The purge service needs the first two
// directly, so they are exposed alongside the service.
type AuthStack struct {
	Provider ports.AuthProvider
	Sessions *redisadapter.SessionStore
	Service  *service.AuthService
}

// BuildAuthStack creates the auth provider for the configured mode and the
// resolver service around it. Unlike most optional subsystems this one is
// load-bearing: without a resolver no request can be admitted, so
// misconfiguration is an error rather than a logged warning.
func BuildAuthStack(cfg AuthConfig) (*AuthStack, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth requires a redis client for the session store")
	}

	provider, err := buildAuthProvider(cfg.Auth, cfg.Logger)
	if err != nil {
		return nil, err
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	svc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessionStore,
		Tracker:  cfg.Tracker,
		Config: &core.ResolverConfig{
			CookieName:    cfg.Session.CookieName,
			RefreshWindow: cfg.Session.RefreshWindow,
		},
		Logger: cfg.Logger,
	})

	return &AuthStack{
		Provider: provider,
		Sessions: sessionStore,
		Service:  svc,
	}, nil
}

//nolint:ireturn // provider selection happens at runtime based on AUTH_MODE.
func buildAuthProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		return buildDevAuthProvider(cfg.DevAuth, logger)
	case config.AuthModeOAuth:
		return buildOIDCProvider(cfg.OAuth)
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

func buildDevAuthProvider(cfg config.DevAuthConfig, logger *slog.Logger) (*devauth.Provider, error) {
	if logger != nil {
		logger.Warn("mock auth enabled; every login resolves to the configured dev identity",
			"subject_id", cfg.SubjectID,
			"email", cfg.Email,
		)
	}

	prov, err := devauth.NewProvider(devauth.Config{
		SubjectID:       cfg.SubjectID,
		Email:           cfg.Email,
		EmailVerified:   cfg.EmailVerified,
		FirstName:       cfg.FirstName,
		LastName:        cfg.LastName,
		SessionDuration: cfg.SessionLength,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, nil
}

func buildOIDCProvider(cfg config.OAuthConfig) (*oidc.Provider, error) {
	if cfg.DiscoveryURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("AUTH_MODE=oauth requires OAUTH_DISCOVERY_URL, OAUTH_CLIENT_ID, and OAUTH_CLIENT_SECRET")
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create OIDC provider: %w", err)
	}
	return prov, nil
}
