package catalog

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/platform"
)

// CustomStore is the user-writable catalog extension in the config directory.
type CustomStore struct {
	fs      afero.Fs
	locator platform.Locator
	mu      sync.Mutex
}

// NewCustomStore creates a store rooted at the locator's config directory
func NewCustomStore(fs afero.Fs, locator platform.Locator) *CustomStore {
	return &CustomStore{fs: fs, locator: locator}
}

// Path returns the custom catalog file location
func (c *CustomStore) Path() (string, error) {
	dir, err := c.locator.ConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(dir, FileName), nil
}

// Load returns the custom sounds; a missing file yields no sounds.
func (c *CustomStore) Load() ([]model.Sound, error) {
	path, err := c.Path()
	if err != nil {
		return nil, err
	}
	if !platform.FileExists(c.fs, path) {
		return nil, nil
	}
	return Load(c.fs, path)
}

// AddCustomSound appends s under its category, replacing an entry with the
// same ID. The file is rewritten as a whole.
func (c *CustomStore) AddCustomSound(s model.Sound) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path, err := c.Path()
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(c.fs, filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	root := map[string]any{}
	if platform.FileExists(c.fs, path) {
		content, err := afero.ReadFile(c.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read custom catalog: %w", err)
		}
		if err := toml.Unmarshal(content, &root); err != nil {
			return fmt.Errorf("failed to parse custom catalog %s: %w", path, err)
		}
	}

	group, ok := root[s.Category].(map[string]any)
	if !ok {
		group = map[string]any{}
		root[s.Category] = group
	}

	id := s.ID
	if id == "" {
		id = model.SoundID(s.Name)
	}
	icon := s.Icon
	if icon == "" {
		icon = model.DefaultIcon
	}

	sound := map[string]any{
		"name":   s.Name,
		"file":   s.FilePath,
		"icon":   icon,
		"volume": model.DefaultVolume,
	}
	if s.URL != "" {
		sound["url"] = s.URL
	}
	group[id] = sound

	out, err := toml.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to encode custom catalog: %w", err)
	}
	if err := afero.WriteFile(c.fs, path, out, 0644); err != nil {
		return fmt.Errorf("failed to write custom catalog: %w", err)
	}
	return nil
}
