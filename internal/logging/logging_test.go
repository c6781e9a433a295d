package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/soundfetch/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, test := range tests {
		if got := ParseLevel(test.input); got != test.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", test.input, got, test.expected)
		}
	}
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("download failed", "task", "task-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected a single record, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("Expected JSON output: %v", err)
	}
	if record["msg"] != "download failed" || record["task"] != "task-1" {
		t.Errorf("Unexpected record %v", record)
	}
}

func TestSetupLogger_DefaultPath(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	logger, closer, err := SetupLogger(&config.LoggingConfig{Level: "INFO"}, dataDir)
	if err != nil {
		t.Fatalf("SetupLogger() failed: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(dataDir, DefaultLogFileName))
	if err != nil {
		t.Fatalf("Expected log file to exist: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"hello"`) {
		t.Errorf("Unexpected log content %q", content)
	}
}

func TestNullLogger(t *testing.T) {
	// must not panic
	NullLogger().Error("ignored", "k", "v")
}
