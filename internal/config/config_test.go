package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: test
ledger_db:
  driver: memory
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "test" {
		t.Errorf("Env = %q, want test", cfg.Env)
	}
	if cfg.HTTPServer.Port != "8080" {
		t.Errorf("HTTPServer.Port = %q, want 8080", cfg.HTTPServer.Port)
	}
	if cfg.HTTPServer.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want 10s", cfg.HTTPServer.ReadTimeout)
	}
	if cfg.Metrics.Path != "/metrics" || !cfg.Metrics.Enabled {
		t.Errorf("Metrics = %+v, want enabled on /metrics", cfg.Metrics)
	}
	if cfg.KafkaService.Enabled {
		t.Error("kafka should be disabled by default")
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"postgres without dsn", "ledger_db:\n  driver: postgres\n"},
		{"unknown driver", "ledger_db:\n  driver: sqlite\n"},
		{"kafka without broker", "ledger_db:\n  driver: memory\nkafka_service:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HTTP_PORT", "9191")
	cfg, err := Load(writeConfig(t, "http_server:\n  port: \"8000\"\nledger_db:\n  driver: memory\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPServer.Port != "9191" {
		t.Errorf("Port = %q, want env override 9191", cfg.HTTPServer.Port)
	}
}
