package model

import "strings"

// Catalog defaults
const (
	DefaultVolume = 0.5
	DefaultIcon   = "🎵"
)

// Sound is one playable entry of the catalog
type Sound struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	FilePath string  `json:"file_path"`
	Volume   float64 `json:"volume"`
	Icon     string  `json:"icon"`
	URL      string  `json:"url,omitempty"`
}

// HasURL reports whether the sound carries a usable source URL
func (s Sound) HasURL() bool {
	return strings.TrimSpace(s.URL) != ""
}

// SoundID derives a catalog identifier from a display name
func SoundID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// NewCustomSound builds the catalog record for a finished download
func NewCustomSound(name, category, filePath, icon, url string) Sound {
	if icon == "" {
		icon = DefaultIcon
	}
	return Sound{
		ID:       SoundID(name),
		Name:     name,
		Category: category,
		FilePath: filePath,
		Volume:   DefaultVolume,
		Icon:     icon,
		URL:      url,
	}
}

// SoundFromEvent builds the catalog record carried by a success event
func SoundFromEvent(e DownloadEvent) Sound {
	return NewCustomSound(e.Name, e.Category, e.FilePath, e.Icon, e.URL)
}
