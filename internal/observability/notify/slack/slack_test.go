package slack

import (
	"strings"
	"testing"
	"time"

	"github.com/chapelhq/backoffice-go/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#backoffice-alerts",
		Username:   "bot",
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.OpsAlertPayload{
		Kind:       notify.KindAuditWriteFailure,
		Source:     "audit",
		Subject:    "auth0|abc123",
		Action:     "SUSPEND_ADMIN",
		Error:      "insert audit row: connection refused",
		ErrorClass: "store_unavailable",
	})

	if msg["username"] != "bot" {
		t.Fatalf("expected username to be preserved, got %v", msg["username"])
	}
	if msg["channel"] != "#backoffice-alerts" {
		t.Fatalf("expected channel to be set, got %v", msg["channel"])
	}

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if !containsAll(
		text,
		[]string{
			"Back office alert",
			"audit_write_failure",
			"audit",
			"auth0|abc123",
			"SUSPEND_ADMIN",
			"connection refused",
			"store_unavailable",
		},
	) {
		t.Fatalf("message text missing fields: %s", text)
	}
}

func TestFormatMessageDefaults(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.OpsAlertPayload{Kind: notify.KindSweepFailure})

	if msg["username"] != "backoffice" {
		t.Fatalf("expected default username, got %v", msg["username"])
	}
	if _, hasChannel := msg["channel"]; hasChannel {
		t.Fatal("expected no channel override when unset")
	}

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if !strings.Contains(text, "Severity: critical") {
		t.Fatalf("expected critical severity default, got: %s", text)
	}
	if !strings.Contains(text, "Timestamp: ") {
		t.Fatalf("expected timestamp line, got: %s", text)
	}
}

func TestFormatMessageEscapesSubject(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.OpsAlertPayload{
		Kind:    notify.KindAuditWriteFailure,
		Subject: "user <admin&ops>",
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}

	if !strings.Contains(text, "user &lt;admin&amp;ops&gt;") {
		t.Fatalf("expected escaped subject, got: %s", text)
	}
}

func TestFormatMessageOrdersMetadata(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.OpsAlertPayload{
		Kind: notify.KindSweepFailure,
		Metadata: map[string]string{
			"emails_scanned": "42",
			"collisions":     "3",
		},
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}

	collisionsAt := strings.Index(text, "collisions: 3")
	scannedAt := strings.Index(text, "emails_scanned: 42")
	if collisionsAt == -1 || scannedAt == -1 {
		t.Fatalf("expected metadata entries in text: %s", text)
	}
	if collisionsAt > scannedAt {
		t.Fatalf("expected metadata keys sorted, got: %s", text)
	}
}

func containsAll(text string, substrs []string) bool {
	for _, s := range substrs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
