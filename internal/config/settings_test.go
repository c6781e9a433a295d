package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.YTDLP.Path != DefaultYTDLPPath {
		t.Errorf("Expected ytdlp path %s, got %s", DefaultYTDLPPath, s.YTDLP.Path)
	}
	if s.Download.ChunkSize != DefaultChunkSize {
		t.Errorf("Expected chunk size %d, got %d", DefaultChunkSize, s.Download.ChunkSize)
	}
	if !s.Download.AutoAdvance {
		t.Error("Expected auto advance to default to true")
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	s, err := Load("", dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.YTDLP.Format != DefaultYTDLPFormat {
		t.Errorf("Expected default format, got %s", s.YTDLP.Format)
	}
	if s.Logging.Level != DefaultLogLevel {
		t.Errorf("Expected default log level, got %s", s.Logging.Level)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `ytdlp:
  path: /opt/bin/yt-dlp
  audio_format: mp3
download:
  chunk_size: 4096
  http_timeout: 30s
  auto_advance: false
paths:
  data_dir: /srv/soundfetch
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load("", dir)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if s.YTDLP.Path != "/opt/bin/yt-dlp" || s.YTDLP.AudioFormat != "mp3" {
		t.Errorf("Unexpected ytdlp config %+v", s.YTDLP)
	}
	if s.YTDLP.Format != DefaultYTDLPFormat {
		t.Errorf("Unset keys should keep defaults, got %s", s.YTDLP.Format)
	}
	if s.Download.ChunkSize != 4096 || s.Download.HTTPTimeout != 30*time.Second || s.Download.AutoAdvance {
		t.Errorf("Unexpected download config %+v", s.Download)
	}
	if s.Paths.DataDir != "/srv/soundfetch" {
		t.Errorf("Unexpected data dir %s", s.Paths.DataDir)
	}
	if s.Logging.Level != "debug" {
		t.Errorf("Unexpected level %s", s.Logging.Level)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SOUNDFETCH_YTDLP_DISABLED", "true")
	t.Setenv("SOUNDFETCH_DOWNLOAD_CHUNK_SIZE", "2048")
	t.Setenv("SOUNDFETCH_PATHS_CATALOG_URL", "https://mirror.example.com/sounds.toml")

	s, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !s.YTDLP.Disabled {
		t.Error("Expected env to disable yt-dlp")
	}
	if s.Download.ChunkSize != 2048 {
		t.Errorf("Expected chunk size from env, got %d", s.Download.ChunkSize)
	}
	if s.Paths.CatalogURL != "https://mirror.example.com/sounds.toml" {
		t.Errorf("Expected catalog URL from env, got %q", s.Paths.CatalogURL)
	}
}

func TestSetChunkSize(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, MinChunkSize},
		{100, MinChunkSize},
		{8192, 8192},
		{MaxChunkSize * 4, MaxChunkSize},
	}

	for _, test := range tests {
		s := DefaultSettings()
		s.SetChunkSize(test.input)
		if s.Download.ChunkSize != test.expected {
			t.Errorf("SetChunkSize(%d) = %d, expected %d", test.input, s.Download.ChunkSize, test.expected)
		}
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	s := DefaultSettings()
	s.YTDLP.Disabled = true
	s.Download.HTTPTimeout = 45 * time.Second
	s.Paths.Catalog = "/srv/sounds.toml"

	path, err := s.Save(dir)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Unexpected config file %s", path)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !loaded.YTDLP.Disabled || loaded.Download.HTTPTimeout != 45*time.Second || loaded.Paths.Catalog != "/srv/sounds.toml" {
		t.Errorf("Round trip lost settings: %+v", loaded)
	}
}
