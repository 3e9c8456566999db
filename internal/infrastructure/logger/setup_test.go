package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LavaJover/shvark-ipo-ledger/internal/config"
)

func TestNewHandlerJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "json", slog.LevelWarn))
	log.Info("hidden")
	log.Warn("edit rejected", "line_id", "l-1")

	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "\n") != 0 {
		t.Fatalf("expected exactly one record, got %q", out)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["msg"] != "edit rejected" || rec["line_id"] != "l-1" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewHandlerText(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "TEXT", slog.LevelInfo)).Info("upload accepted", "rows", 3)
	if !strings.Contains(buf.String(), "rows=3") {
		t.Errorf("expected key=value output, got %q", buf.String())
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if _, err := Setup(config.LogConfig{LogLevel: "loud"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "ledger.log")
	closer, err := Setup(config.LogConfig{LogLevel: "debug", LogFormat: "json", LogOutput: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closer.Close()
	slog.Debug("archive run", "units", 4)
}
