package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
			expectError: false,
		},
		{
			name:  "single service - reconciler",
			input: "reconciler",
			expected: map[ServiceMode]bool{
				ServiceModeReconciler: true,
			},
			expectError: false,
		},
		{
			name:  "multiple services - http and reconciler",
			input: "http,reconciler",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:       true,
				ServiceModeReconciler: true,
			},
			expectError: false,
		},
		{
			name:  "services with spaces",
			input: " http , reconciler ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:       true,
				ServiceModeReconciler: true,
			},
			expectError: false,
		},
		{
			name:  "duplicate services",
			input: "http,http,reconciler",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:       true,
				ServiceModeReconciler: true,
			},
			expectError: false,
		},
		{
			name:        "empty string",
			input:       "",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,invalid-service",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "mixed valid and invalid",
			input:       "http,reconciler,invalid",
			expected:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_GetEnabledServices(t *testing.T) {
	tests := []struct {
		name        string
		services    string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "default configuration",
			services: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
			expectError: false,
		},
		{
			name:     "multiple services",
			services: "http,reconciler",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:       true,
				ServiceModeReconciler: true,
			},
			expectError: false,
		},
		{
			name:        "invalid configuration",
			services:    "invalid-service",
			expected:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}
			result, err := cfg.GetEnabledServices()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("OAUTH_CLIENT_ID", "console-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://console.example.com/api/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_SUBJECT_ID", "dev|tester")
	t.Setenv("DEV_AUTH_EMAIL", "tester@chapel.example")
	t.Setenv("DEV_AUTH_EMAIL_VERIFIED", "false")
	t.Setenv("DEV_AUTH_FIRST_NAME", "Test")
	t.Setenv("DEV_AUTH_LAST_NAME", "Account")
	t.Setenv("DEV_AUTH_SESSION_DURATION", "2h")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "console-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://console.example.com/api/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
		},
		DevAuth: DevAuthConfig{
			SubjectID:     "dev|tester",
			Email:         "tester@chapel.example",
			EmailVerified: false,
			FirstName:     "Test",
			LastName:      "Account",
			SessionLength: 2 * time.Hour,
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseSessionEnv(t *testing.T) {
	t.Setenv("SESSION_COOKIE_NAME", "console_session")
	t.Setenv("SESSION_REFRESH_WINDOW", "90s")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	if cfg.Session.CookieName != "console_session" {
		t.Errorf("expected cookie name console_session, got %q", cfg.Session.CookieName)
	}
	if cfg.Session.RefreshWindow != 90*time.Second {
		t.Errorf("expected refresh window 90s, got %v", cfg.Session.RefreshWindow)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{input: "oauth", expected: AuthModeOAuth},
		{input: "mock", expected: AuthModeMock},
		{input: "OAuth", expected: AuthModeOAuth},
		{input: "MOCK", expected: AuthModeMock},
		{input: "saml", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error for %q but got none", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name               string
		services           string
		expectedHTTP       bool
		expectedReconciler bool
	}{
		{
			name:               "default - http only",
			services:           "http",
			expectedHTTP:       true,
			expectedReconciler: false,
		},
		{
			name:               "http and reconciler",
			services:           "http,reconciler",
			expectedHTTP:       true,
			expectedReconciler: true,
		},
		{
			name:               "reconciler only",
			services:           "reconciler",
			expectedHTTP:       false,
			expectedReconciler: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}

			if cfg.IsReconcilerEnabled() != tt.expectedReconciler {
				t.Errorf(
					"IsReconcilerEnabled(): expected %v, got %v",
					tt.expectedReconciler,
					cfg.IsReconcilerEnabled(),
				)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethodsWithInvalidConfig(t *testing.T) {
	cfg := AppConfig{Services: "invalid-service"}

	// All methods should return false when configuration is invalid
	if cfg.IsHTTPServerEnabled() != false {
		t.Errorf("IsHTTPServerEnabled() with invalid config: expected false, got true")
	}

	if cfg.IsReconcilerEnabled() != false {
		t.Errorf("IsReconcilerEnabled() with invalid config: expected false, got true")
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	expected := []ServiceMode{
		ServiceModeHTTP,
		ServiceModeReconciler,
	}

	if len(modes) != len(expected) {
		t.Errorf("expected %d service modes, got %d", len(expected), len(modes))
	}

	for i, mode := range modes {
		if mode != expected[i] {
			t.Errorf("expected service mode %s at index %d, got %s", expected[i], i, mode)
		}
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	cfg := SessionConfig{
		CookieName:    "  ",
		RefreshWindow: -1 * time.Minute,
	}

	cfg.Sanitize()

	if cfg.CookieName != "session_id" {
		t.Errorf("expected blank cookie name to fall back to session_id, got %q", cfg.CookieName)
	}
	if cfg.RefreshWindow != 0 {
		t.Errorf("expected negative refresh window to clamp to zero, got %v", cfg.RefreshWindow)
	}

	cfg = SessionConfig{
		CookieName:    " console_session ",
		RefreshWindow: 10 * time.Minute,
	}

	cfg.Sanitize()

	if cfg.CookieName != "console_session" {
		t.Errorf("expected cookie name to be trimmed, got %q", cfg.CookieName)
	}
	if cfg.RefreshWindow != 10*time.Minute {
		t.Errorf("expected refresh window to be preserved, got %v", cfg.RefreshWindow)
	}
}

func TestDBConfig_Sanitize(t *testing.T) {
	cfg := DBConfig{}
	cfg.Sanitize()
	if cfg.MaxOpenConns != 25 {
		t.Errorf("expected zero max open conns to fall back to 25, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 5 {
		t.Errorf("expected zero max idle conns to fall back to 5, got %d", cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("expected zero lifetime to fall back to 5m, got %v", cfg.ConnMaxLifetime)
	}

	cfg = DBConfig{MaxOpenConns: 4, MaxIdleConns: 10, ConnMaxLifetime: time.Hour}
	cfg.Sanitize()
	if cfg.MaxIdleConns != 4 {
		t.Errorf("expected idle conns to clamp to max open conns, got %d", cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns != 4 || cfg.ConnMaxLifetime != time.Hour {
		t.Errorf("expected explicit settings to be preserved, got %d open %v lifetime",
			cfg.MaxOpenConns, cfg.ConnMaxLifetime)
	}
}

func TestAuditConfig_Sanitize(t *testing.T) {
	cfg := AuditConfig{WriteTimeout: 0}
	cfg.Sanitize()
	if cfg.WriteTimeout != 1*time.Second {
		t.Errorf("expected zero write timeout to clamp to 1s, got %v", cfg.WriteTimeout)
	}

	cfg = AuditConfig{WriteTimeout: 5 * time.Minute}
	cfg.Sanitize()
	if cfg.WriteTimeout != 1*time.Minute {
		t.Errorf("expected oversized write timeout to clamp to 1m, got %v", cfg.WriteTimeout)
	}

	cfg = AuditConfig{WriteTimeout: 10 * time.Second}
	cfg.Sanitize()
	if cfg.WriteTimeout != 10*time.Second {
		t.Errorf("expected in-range write timeout to be preserved, got %v", cfg.WriteTimeout)
	}
}

func TestReconcilerConfig_Sanitize(t *testing.T) {
	cfg := ReconcilerConfig{
		Interval:         5 * time.Second,
		SweepConcurrency: 0,
	}

	cfg.Sanitize()

	if cfg.Interval != 1*time.Minute {
		t.Errorf("expected short interval to clamp to 1m, got %v", cfg.Interval)
	}
	if cfg.SweepConcurrency != 1 {
		t.Errorf("expected zero concurrency to clamp to 1, got %d", cfg.SweepConcurrency)
	}

	cfg = ReconcilerConfig{
		Interval:         2 * time.Hour,
		SweepConcurrency: 500,
	}

	cfg.Sanitize()

	if cfg.Interval != 2*time.Hour {
		t.Errorf("expected interval to be preserved, got %v", cfg.Interval)
	}
	if cfg.SweepConcurrency != 64 {
		t.Errorf("expected oversized concurrency to clamp to 64, got %d", cfg.SweepConcurrency)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 0}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Errorf("expected compression level to clamp to 1, got %d", cfg.CompressionLevel)
	}

	cfg = HTTPConfig{CompressionLevel: 99}
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Errorf("expected compression level to clamp to 9, got %d", cfg.CompressionLevel)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}

func TestObservabilityNotificationsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityNotificationsConfig{
		Enabled:    true,
		Timeout:    0,
		RetryLimit: -1,
		Slack: SlackNotificationConfig{
			Enabled:    true,
			WebhookURL: " ",
			Channel:    "  ",
			Username:   "",
		},
		PagerDuty: PagerDutyNotificationConfig{
			Enabled:    true,
			RoutingKey: " ",
			Source:     "",
			Component:  "",
		},
	}

	cfg.Sanitize()

	if cfg.Timeout <= 0 {
		t.Fatalf("expected timeout to fall back to default, got %v", cfg.Timeout)
	}
	if cfg.RetryLimit < 0 {
		t.Fatalf("expected retry limit to be clamped to >= 0, got %d", cfg.RetryLimit)
	}
	if cfg.Slack.Enabled {
		t.Fatal("expected slack to be disabled without a webhook url")
	}
	if cfg.Slack.Username != "backoffice" {
		t.Fatalf("expected slack username default, got %q", cfg.Slack.Username)
	}
	if cfg.PagerDuty.Enabled {
		t.Fatal("expected pagerduty to be disabled without a routing key")
	}
	if cfg.PagerDuty.Source != "backoffice" {
		t.Fatalf("expected pagerduty source default, got %q", cfg.PagerDuty.Source)
	}
	if cfg.PagerDuty.Component != "backoffice" {
		t.Fatalf("expected pagerduty component default, got %q", cfg.PagerDuty.Component)
	}

	// Disabled top-level must disable child sinks too.
	cfg = ObservabilityNotificationsConfig{
		Enabled: false,
		Slack: SlackNotificationConfig{
			Enabled:    true,
			WebhookURL: "https://hooks.slack.com/services/test",
		},
		PagerDuty: PagerDutyNotificationConfig{
			Enabled:    true,
			RoutingKey: "abc",
		},
	}
	cfg.Sanitize()

	if cfg.Slack.Enabled {
		t.Fatal("expected slack to be disabled when top-level notifications disabled")
	}
	if cfg.PagerDuty.Enabled {
		t.Fatal("expected pagerduty to be disabled when top-level notifications disabled")
	}
}
