package catalog

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/platform"
)

// LoadLibrary builds the runtime library from the bundled catalog (override
// path or discovered one) and the custom catalog. A broken catalog is logged
// and skipped rather than aborting startup.
func LoadLibrary(fs afero.Fs, locator platform.Locator, overridePath string, logger *slog.Logger) (*Library, string, error) {
	path := overridePath
	if path == "" {
		found, ok := FindActive(fs, locator)
		if ok {
			path = found
		}
	}

	lib := NewLibrary(nil)

	if path != "" {
		sounds, err := Load(fs, path)
		if err != nil {
			if overridePath != "" {
				return nil, path, fmt.Errorf("failed to load catalog %s: %w", path, err)
			}
			logger.Warn("failed to load bundled sounds", "path", path, "error", err)
		}
		for _, s := range sounds {
			lib.Register(s)
		}
	} else {
		logger.Warn("no sound catalog found")
	}

	custom, err := NewCustomStore(fs, locator).Load()
	if err != nil {
		logger.Warn("failed to load custom sounds", "error", err)
	}
	for _, s := range custom {
		lib.Register(s)
	}

	return lib, path, nil
}
