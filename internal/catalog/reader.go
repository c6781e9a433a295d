package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/platform"
)

// Catalog layout constants
const (
	FileName       = "sounds.toml"
	AssetsDirName  = "assets"
	BasePathKey    = "base_path"
	DefaultFileExt = ".ogg"
)

// SystemCatalogPath is the catalog installed by distribution packages
var SystemCatalogPath = filepath.Join("/usr/share", platform.AppName, AssetsDirName, FileName)

// LocalCatalogPath is the catalog of a portable or development checkout
var LocalCatalogPath = filepath.Join(AssetsDirName, FileName)

// entry mirrors one sound table of the catalog
type entry struct {
	Name   *string
	File   *string
	Volume *float64
	Icon   *string
	URL    *string
}

// Load parses the catalog at path into sound records sorted by category and ID.
func Load(fs afero.Fs, path string) ([]model.Sound, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not read sounds configuration file: %w", err)
	}
	return Parse(content, filepath.Dir(path))
}

// Parse decodes catalog content. Relative file names resolve against an
// absolute base_path when present, otherwise against <catalogDir>/sounds.
func Parse(content []byte, catalogDir string) ([]model.Sound, error) {
	var root map[string]any
	if err := toml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("could not parse sounds configuration file: %w", err)
	}

	baseDir := filepath.Join(catalogDir, platform.SoundsDirName)
	if bp, ok := root[BasePathKey].(string); ok {
		bp = strings.TrimRight(bp, "/")
		if filepath.IsAbs(bp) {
			baseDir = bp
		}
	}

	var sounds []model.Sound
	for category, value := range root {
		if category == BasePathKey {
			continue
		}
		group, ok := value.(map[string]any)
		if !ok {
			continue
		}

		for id, raw := range group {
			e, err := decodeEntry(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse sound '%s': %w", id, err)
			}
			sounds = append(sounds, e.toSound(id, category, baseDir))
		}
	}

	sort.Slice(sounds, func(i, j int) bool {
		if sounds[i].Category != sounds[j].Category {
			return sounds[i].Category < sounds[j].Category
		}
		return sounds[i].ID < sounds[j].ID
	})

	return sounds, nil
}

func decodeEntry(raw any) (entry, error) {
	var e entry
	table, ok := raw.(map[string]any)
	if !ok {
		return e, fmt.Errorf("expected a table, got %T", raw)
	}

	for key, dst := range map[string]**string{
		"name": &e.Name,
		"file": &e.File,
		"icon": &e.Icon,
		"url":  &e.URL,
	} {
		v, present := table[key]
		if !present {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return e, fmt.Errorf("field %s: expected a string, got %T", key, v)
		}
		*dst = &str
	}

	if v, present := table["volume"]; present {
		var vol float64
		switch n := v.(type) {
		case float64:
			vol = n
		case int64:
			vol = float64(n)
		default:
			return e, fmt.Errorf("field volume: expected a number, got %T", v)
		}
		e.Volume = &vol
	}

	return e, nil
}

func (e entry) toSound(id, category, baseDir string) model.Sound {
	name := strings.ReplaceAll(id, "_", " ")
	if e.Name != nil {
		name = *e.Name
	}

	filename := strings.ReplaceAll(strings.ToLower(name), " ", "_") + DefaultFileExt
	if e.File != nil {
		filename = *e.File
	}

	filePath := filename
	if !filepath.IsAbs(filename) {
		filePath = filepath.Join(baseDir, filename)
	}

	s := model.Sound{
		ID:       id,
		Name:     name,
		Category: category,
		FilePath: filePath,
		Volume:   model.DefaultVolume,
		Icon:     model.DefaultIcon,
	}
	if e.Volume != nil {
		s.Volume = *e.Volume
	}
	if e.Icon != nil {
		s.Icon = *e.Icon
	}
	if e.URL != nil {
		s.URL = *e.URL
	}
	return s
}

// FindActive returns the first existing catalog among the local checkout,
// the user's data directory and the system-wide install.
func FindActive(fs afero.Fs, locator platform.Locator) (string, bool) {
	candidates := []string{LocalCatalogPath}
	if dataDir, err := locator.DataDir(); err == nil {
		candidates = append(candidates, filepath.Join(dataDir, AssetsDirName, FileName))
	}
	candidates = append(candidates, SystemCatalogPath)

	for _, p := range candidates {
		if platform.FileExists(fs, p) {
			return p, true
		}
	}
	return "", false
}
