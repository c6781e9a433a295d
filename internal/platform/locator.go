package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under per-host data and config roots
const AppName = "soundfetch"

// Locator resolves the per-host directories the app stores files in.
type Locator interface {
	DataDir() (string, error)
	ConfigDir() (string, error)
}

// AppDirs resolves directories following the host conventions
// (XDG on Linux, Application Support on macOS, AppData on Windows).
// Non-empty overrides take precedence.
type AppDirs struct {
	name           string
	dataOverride   string
	configOverride string
}

// NewAppDirs creates a locator for the given application name
func NewAppDirs(name string) *AppDirs {
	return &AppDirs{name: name}
}

// WithOverrides returns a copy using the given directories when non-empty
func (d *AppDirs) WithOverrides(dataDir, configDir string) *AppDirs {
	c := *d
	c.dataOverride = dataDir
	c.configOverride = configDir
	return &c
}

// DataDir returns the directory for downloaded assets and app state
func (d *AppDirs) DataDir() (string, error) {
	if d.dataOverride != "" {
		return ExpandHome(d.dataOverride)
	}

	switch runtime.GOOS {
	case OSWindows:
		base := os.Getenv("APPDATA")
		if base == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(base, d.name, "data"), nil
	case OSDarwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", d.name), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
			return filepath.Join(xdg, d.name), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", d.name), nil
	}
}

// ConfigDir returns the directory for user-writable configuration
func (d *AppDirs) ConfigDir() (string, error) {
	if d.configOverride != "" {
		return ExpandHome(d.configOverride)
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(base, d.name), nil
}

// StaticLocator returns fixed directories. Used by tests and by callers that
// already resolved their paths.
type StaticLocator struct {
	Data   string
	Config string
}

// DataDir returns the fixed data directory
func (s StaticLocator) DataDir() (string, error) {
	if s.Data == "" {
		return "", fmt.Errorf("data directory not configured")
	}
	return s.Data, nil
}

// ConfigDir returns the fixed config directory
func (s StaticLocator) ConfigDir() (string, error) {
	if s.Config == "" {
		return "", fmt.Errorf("config directory not configured")
	}
	return s.Config, nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path == "~" || (len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == '\\')) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
