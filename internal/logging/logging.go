// Package logging sets up the structured slog logger used across the app.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/soundfetch/internal/config"
	"github.com/ytget/soundfetch/internal/platform"
)

// DefaultLogFileName is used under the data directory when no file is configured
const DefaultLogFileName = "soundfetch.log"

// SetupLogger initializes the slog logger with file output. An empty
// cfg.File logs to <dataDir>/soundfetch.log.
func SetupLogger(cfg *config.LoggingConfig, dataDir string) (*slog.Logger, io.Closer, error) {
	logPath := cfg.File
	if logPath == "" {
		logPath = filepath.Join(dataDir, DefaultLogFileName)
	}

	// Expand ~ in path
	logPath, err := platform.ExpandHome(logPath)
	if err != nil {
		return nil, nil, err
	}

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(logFile, cfg.Level), logFile, nil
}

// New creates a JSON logger writing to w at the given level
func New(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
