package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chapelhq/backoffice-go/config"
	"github.com/chapelhq/backoffice-go/internal/data"
	"github.com/chapelhq/backoffice-go/internal/observability/notify/pagerduty"
	"github.com/chapelhq/backoffice-go/internal/observability/notify/slack"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
	"github.com/chapelhq/backoffice-go/internal/service"
	"github.com/chapelhq/backoffice-go/internal/service/opsalert"
	"github.com/redis/go-redis/v9"
)

// ServiceContainer holds every application service the binaries wire up.
type ServiceContainer struct {
	Auth          *service.AuthService
	Guard         *service.GuardService
	Lifecycle     *service.RoleTransitionService
	Directory     *service.DirectoryService
	Allowlist     *service.AllowlistService
	Sessions      *service.SessionTrackerService
	Audit         *service.AuditService
	Exclusivity   *service.ExclusivityService
	Announcements *service.AnnouncementService
	Purge         *service.SessionPurgeService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink    *statsd.Client
	MetricsConfig  config.ObservabilityMetricsConfig
	Alerts         *opsalert.Service
	NotifierConfig config.ObservabilityNotificationsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB            *sql.DB
	Redis         redis.UniversalClient
	Directory     *data.AdminIdentityRepo
	Allowlist     *data.AllowlistRepo
	Tracker       *data.AdminSessionRepo
	Audit         *data.AuditLogRepo
	EndUsers      *data.EndUserRepo
	Announcements *data.AnnouncementRepo
}

// buildObservability configures the metrics sink and alert dispatcher.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "backoffice",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	alerts := buildOpsAlerts(obsLogger, cfg.Notifications)

	return ObservabilityContainer{
		MetricsSink:    metricsSink,
		MetricsConfig:  cfg.Metrics,
		Alerts:         alerts,
		NotifierConfig: cfg.Notifications,
	}
}

func buildOpsAlerts(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *opsalert.Service {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	if !cfg.Enabled {
		return opsalert.NewService(opsalert.Options{
			Logger: baseLogger.With("component", "ops_alert"),
		})
	}

	sinks := make([]opsalert.SinkRegistration, 0, 2)

	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Channel:    cfg.Slack.Channel,
			Username:   cfg.Slack.Username,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, opsalert.SinkRegistration{
				Name: "slack",
				Sink: client,
			})
		}
	}

	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise pagerduty notifier", "error", err)
		} else {
			sinks = append(sinks, opsalert.SinkRegistration{
				Name: "pagerduty",
				Sink: client,
			})
		}
	}

	return opsalert.NewService(opsalert.Options{
		Logger: baseLogger.With("component", "ops_alert"),
		Sinks:  sinks,
	})
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient, logger *slog.Logger) *serviceRepositories {
	return &serviceRepositories{
		DB:            db,
		Redis:         redisClient,
		Directory:     data.NewAdminIdentityRepo(db, data.AdminRepoConfig{Logger: logger}),
		Allowlist:     data.NewAllowlistRepo(db),
		Tracker:       data.NewAdminSessionRepo(db),
		Audit:         data.NewAuditLogRepo(db, logger),
		EndUsers:      data.NewEndUserRepo(db),
		Announcements: data.NewAnnouncementRepo(db),
	}
}

// NewServices wires the full service graph. The context bounds the startup
// probes (audit schema detection); it is not retained by any service.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observability := buildObservability(logger, deps.Config.Observability)
	metrics := observability.MetricsSink
	repos := buildRepositories(deps.DB, deps.RedisClient, logger)

	audit := service.NewAuditService(service.AuditServiceOptions{
		Repo:         repos.Audit,
		Logger:       logger,
		Metrics:      metrics,
		Alerts:       observability.Alerts,
		WriteTimeout: deps.Config.Audit.WriteTimeout,
	})
	if err := repos.Audit.ProbeSchema(ctx); err != nil {
		return ServiceContainer{}, fmt.Errorf("probe audit schema: %w", err)
	}

	authStack, err := BuildAuthStack(AuthConfig{
		Auth:        deps.Config.Auth,
		Session:     deps.Config.Session,
		RedisClient: deps.RedisClient,
		Tracker:     repos.Tracker,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth stack: %w", err)
	}

	guard := service.NewGuardService(service.GuardServiceOptions{
		Resolver:  authStack.Service,
		Directory: repos.Directory,
		Audit:     audit,
		Logger:    logger,
		Metrics:   metrics,
	})

	purge := service.NewSessionPurgeService(service.SessionPurgeServiceOptions{
		Tracker:  repos.Tracker,
		Sessions: authStack.Sessions,
		Provider: authStack.Provider,
		Logger:   logger,
		Metrics:  metrics,
	})

	exclusivity := service.NewExclusivityService(service.ExclusivityServiceOptions{
		EndUsers:         repos.EndUsers,
		Directory:        repos.Directory,
		Logger:           logger,
		Metrics:          metrics,
		SweepConcurrency: deps.Config.Reconciler.SweepConcurrency,
	})

	lifecycle := service.NewRoleTransitionService(service.RoleTransitionServiceOptions{
		Directory:   repos.Directory,
		Allowlist:   repos.Allowlist,
		Exclusivity: exclusivity,
		Purger:      purge,
		Audit:       audit,
		Logger:      logger,
		Metrics:     metrics,
	})

	return ServiceContainer{
		Auth:      authStack.Service,
		Guard:     guard,
		Lifecycle: lifecycle,
		Directory: service.NewDirectoryService(service.DirectoryServiceOptions{
			Repo:   repos.Directory,
			Logger: logger,
		}),
		Allowlist: service.NewAllowlistService(service.AllowlistServiceOptions{
			Repo:   repos.Allowlist,
			Logger: logger,
		}),
		Sessions: service.NewSessionTrackerService(service.SessionTrackerServiceOptions{
			Repo:   repos.Tracker,
			Logger: logger,
		}),
		Audit:       audit,
		Exclusivity: exclusivity,
		Announcements: service.NewAnnouncementService(service.AnnouncementServiceOptions{
			Repo:   repos.Announcements,
			Logger: logger,
		}),
		Purge:         purge,
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig groups everything RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		DB:       deps.cfg.DB,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				if deps.logger != nil {
					deps.logger.WarnContext(ctx, "dropping background service error",
						"service", descriptor.name,
						"error", errMsg,
					)
				}
			}
		}
	}()

	if deps.logger != nil {
		deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	}

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newReconcilerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReconciler,
		name: "exclusivity reconciler",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var reconcilerCfg config.ReconcilerConfig
			if deps.cfg.Config != nil {
				reconcilerCfg = deps.cfg.Config.Reconciler
			}
			return RunReconciler(ctx, ReconcilerRunnerConfig{
				DB:      deps.cfg.DB,
				Logger:  deps.logger,
				Config:  reconcilerCfg,
				Metrics: deps.cfg.Services.Observability.MetricsSink,
				Alerts:  deps.cfg.Services.Observability.Alerts,
			})
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newReconcilerBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		ctx:             serviceCtx,
		cancel:          cancel,
		errCh:           errCh,
		httpServer:      result.HTTPServer,
		httpDrainWindow: cfg.Config.HTTP.ShutdownTimeout,
		audit:           cfg.Services.Audit,
		purge:           cfg.Services.Purge,
		logger:          logger,
		backgrounds:     result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	modes := []config.ServiceMode{
		config.ServiceModeHTTP,
		config.ServiceModeReconciler,
	}

	count := 0
	for _, mode := range modes {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx             context.Context
	cancel          context.CancelFunc
	errCh           <-chan error
	httpServer      *http.Server
	httpDrainWindow time.Duration
	audit           *service.AuditService
	purge           *service.SessionPurgeService
	logger          *slog.Logger
	backgrounds     []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains everything in dependency order: the HTTP server first
// so no new mutations arrive, then the detached audit writes and purge
// goroutines those mutations may have spawned, then the background loops.
// The callers' deferred Close calls handle the stores themselves.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Logger:  cfg.logger,
			Timeout: cfg.httpDrainWindow,
		}); err != nil {
			return err
		}
	}

	if cfg.audit != nil {
		cfg.audit.Close()
		cfg.logger.Info("audit writer drained")
	}
	if cfg.purge != nil {
		cfg.purge.Close()
		cfg.logger.Info("session purge drained")
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
