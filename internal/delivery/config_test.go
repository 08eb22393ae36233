package delivery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REPORT_RECIPIENT", "ucetni@example.cz")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SMTP_HOST", "smtp.example.cz")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USERNAME", "reports")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("SMTP_FROM", "reports@example.cz")
	t.Setenv("DELIVERY_CONFIG", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Recipient != "ucetni@example.cz" || cfg.Environment != "production" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.SMTP.Host != "smtp.example.cz" || cfg.SMTP.Port != 465 {
		t.Fatalf("unexpected smtp config: %+v", cfg.SMTP)
	}
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	t.Setenv("REPORT_RECIPIENT", "env@example.cz")
	t.Setenv("APP_ENV", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("SMTP_FROM", "")

	path := filepath.Join(t.TempDir(), "delivery.yaml")
	data := "recipient: file@example.cz\nsmtp:\n  host: smtp.file.cz\n  port: 2525\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("DELIVERY_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Recipient != "file@example.cz" {
		t.Fatalf("file value must win, got %q", cfg.Recipient)
	}
	if cfg.SMTP.Host != "smtp.file.cz" || cfg.SMTP.Port != 2525 {
		t.Fatalf("unexpected smtp config: %+v", cfg.SMTP)
	}
	if cfg.Environment != "development" {
		t.Fatalf("expected development default, got %q", cfg.Environment)
	}
}

func TestBuildPolicyFallbackByEnvironment(t *testing.T) {
	base := Config{Recipient: "ucetni@example.cz"}

	prod := base
	prod.Environment = "production"
	if BuildPolicy(prod, nil).FallbackAllowed {
		t.Fatal("production must not allow the fallback transport")
	}

	dev := base
	dev.Environment = "development"
	policy := BuildPolicy(dev, nil)
	if !policy.FallbackAllowed {
		t.Fatal("development must allow the fallback transport")
	}
	if policy.Primary == nil || policy.Fallback == nil {
		t.Fatal("policy must wire both transports")
	}
}

func TestPolicyPreflight(t *testing.T) {
	smtp := NewSMTPTransport(SMTPConfig{})

	policy := Policy{Primary: smtp}
	if err := policy.Preflight(); !errors.Is(err, ErrMissingRecipient) {
		t.Fatalf("expected ErrMissingRecipient, got %v", err)
	}

	policy.Recipient = "ucetni@example.cz"
	if err := policy.Preflight(); err == nil {
		t.Fatal("unconfigured smtp without fallback must fail preflight")
	}

	policy.Fallback = NewLogTransport(nil)
	policy.FallbackAllowed = true
	if err := policy.Preflight(); err != nil {
		t.Fatalf("fallback-capable policy must pass preflight: %v", err)
	}
}

func TestSMTPTransportReady(t *testing.T) {
	full := SMTPConfig{Host: "smtp.example.cz", Port: 587, Username: "u", Password: "p", From: "reports@example.cz"}
	if err := NewSMTPTransport(full).Ready(); err != nil {
		t.Fatalf("fully configured transport must be ready: %v", err)
	}

	missingHost := full
	missingHost.Host = ""
	if err := NewSMTPTransport(missingHost).Ready(); err == nil {
		t.Fatal("missing host must fail Ready")
	}

	missingCreds := full
	missingCreds.Password = ""
	if err := NewSMTPTransport(missingCreds).Ready(); err == nil {
		t.Fatal("missing credentials must fail Ready")
	}
}

func TestSMTPBuildMIME(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.zip")
	if err := os.WriteFile(path, []byte("zip-bytes"), 0o644); err != nil {
		t.Fatalf("write attachment: %v", err)
	}
	transport := NewSMTPTransport(SMTPConfig{From: "reports@example.cz"})

	payload, err := transport.buildMIME(Message{
		To:             "ucetni@example.cz",
		Subject:        "Podklady",
		Body:           "V příloze.",
		AttachmentPath: path,
	})
	if err != nil {
		t.Fatalf("build mime: %v", err)
	}
	text := string(payload)
	for _, want := range []string{
		"To: ucetni@example.cz",
		"Content-Type: multipart/mixed",
		`filename="report.zip"`,
		"Content-Transfer-Encoding: base64",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("payload missing %q", want)
		}
	}
}

func TestLogTransportSend(t *testing.T) {
	transport := NewLogTransport(nil)
	if err := transport.Ready(); err != nil {
		t.Fatalf("log transport must always be ready: %v", err)
	}
	if err := transport.Send(context.Background(), Message{To: "ucetni@example.cz"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := transport.Send(ctx, Message{}); err == nil {
		t.Fatal("canceled context must fail send")
	}
}
