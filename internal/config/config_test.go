package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if !cfg.Validation.TestIDBypassEnabled() {
		t.Error("test-id bypass must default to enabled")
	}
	if cfg.Validation.Limits.MaxComponents != 100 {
		t.Errorf("max_components = %d, want 100", cfg.Validation.Limits.MaxComponents)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("empty path must load defaults: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9090
validation:
  test_id_bypass: false
  limits:
    max_components: 25
observability:
  log_level: debug
  tracing:
    enabled: true
    exporter: stdout
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Validation.TestIDBypassEnabled() {
		t.Error("test_id_bypass: false must disable the bypass")
	}
	if cfg.Validation.Limits.MaxComponents != 25 {
		t.Errorf("max_components = %d, want 25", cfg.Validation.Limits.MaxComponents)
	}
	// Unset limits keep their defaults.
	if cfg.Validation.Limits.MaxCustomCSSLength != 10000 {
		t.Errorf("max_custom_css_length = %d, want default 10000", cfg.Validation.Limits.MaxCustomCSSLength)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.Observability.LogLevel)
	}
	if !cfg.Observability.Tracing.Enabled || cfg.Observability.Tracing.Exporter != "stdout" {
		t.Errorf("tracing = %+v, want enabled stdout", cfg.Observability.Tracing)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KITSTATE_SERVER_PORT", "7070")
	t.Setenv("KITSTATE_VALIDATION_TEST_ID_BYPASS", "false")
	t.Setenv("KITSTATE_OBSERVABILITY_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Validation.TestIDBypassEnabled() {
		t.Error("env override must disable the bypass")
	}
	if cfg.Observability.LogLevel != "warn" {
		t.Errorf("log_level = %q, want warn", cfg.Observability.LogLevel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 must be rejected")
	}

	cfg = Defaults()
	cfg.Validation.Limits.MaxComponents = 0
	if err := cfg.Validate(); err == nil {
		t.Error("max_components 0 must be rejected")
	}

	cfg = Defaults()
	cfg.Observability.Tracing.Exporter = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown exporter must be rejected")
	}
}
