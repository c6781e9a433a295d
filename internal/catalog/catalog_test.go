package catalog

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/platform"
)

const sampleCatalog = `
base_path = "sounds/"

[Nature.rain]
name = "Rain"
file = "rain.ogg"
volume = 0.7
icon = "🌧"
url = "https://example.com/rain"

[Nature.thunder_storm]
url = "https://example.com/thunder"

[Noise.white]
file = "/opt/sounds/white.ogg"
volume = 1
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	sounds, err := Parse([]byte(sampleCatalog), "/etc/app")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if len(sounds) != 3 {
		t.Fatalf("Expected 3 sounds, got %d", len(sounds))
	}

	// sorted by category then id
	ids := []string{sounds[0].ID, sounds[1].ID, sounds[2].ID}
	if strings.Join(ids, ",") != "rain,thunder_storm,white" {
		t.Errorf("Unexpected order: %v", ids)
	}

	rain := sounds[0]
	if rain.Name != "Rain" || rain.Volume != 0.7 || rain.Icon != "🌧" || rain.URL != "https://example.com/rain" {
		t.Errorf("Unexpected rain entry: %+v", rain)
	}
	// relative base_path falls back to <catalog dir>/sounds
	if rain.FilePath != filepath.Join("/etc/app", "sounds", "rain.ogg") {
		t.Errorf("Unexpected rain path: %s", rain.FilePath)
	}

	storm := sounds[1]
	if storm.Name != "thunder storm" {
		t.Errorf("Expected name derived from id, got %q", storm.Name)
	}
	if filepath.Base(storm.FilePath) != "thunder_storm.ogg" {
		t.Errorf("Expected derived file name, got %s", storm.FilePath)
	}
	if storm.Volume != model.DefaultVolume || storm.Icon != model.DefaultIcon {
		t.Errorf("Expected defaults, got %+v", storm)
	}

	white := sounds[2]
	if white.FilePath != "/opt/sounds/white.ogg" {
		t.Errorf("Absolute file should be kept, got %s", white.FilePath)
	}
	if white.Volume != 1 {
		t.Errorf("Expected integer volume to decode as 1, got %v", white.Volume)
	}
	if white.HasURL() {
		t.Error("white noise has no URL")
	}
}

func TestParse_AbsoluteBasePath(t *testing.T) {
	content := "base_path = \"/srv/audio/\"\n[Nature.rain]\nfile = \"rain.ogg\"\n"

	sounds, err := Parse([]byte(content), "/etc/app")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if sounds[0].FilePath != "/srv/audio/rain.ogg" {
		t.Errorf("Expected absolute base path to be used, got %s", sounds[0].FilePath)
	}
}

func TestParse_InvalidEntry(t *testing.T) {
	tests := []string{
		"[Nature]\nrain = \"not a table\"\n",
		"[Nature.rain]\nvolume = \"loud\"\n",
		"[Nature.rain]\nfile = 3\n",
		"this is not toml",
	}

	for _, content := range tests {
		if _, err := Parse([]byte(content), "/"); err == nil {
			t.Errorf("Expected error for %q", content)
		}
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/assets/sounds.toml", []byte(sampleCatalog), 0644); err != nil {
		t.Fatal(err)
	}

	sounds, err := Load(fs, "/data/assets/sounds.toml")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if sounds[0].FilePath != filepath.Join("/data/assets/sounds", "rain.ogg") {
		t.Errorf("Unexpected path %s", sounds[0].FilePath)
	}

	if _, err := Load(fs, "/missing.toml"); err == nil {
		t.Error("Expected error for missing catalog")
	}
}

func TestFindActive(t *testing.T) {
	fs := afero.NewMemMapFs()
	loc := platform.StaticLocator{Data: "/data", Config: "/config"}

	if _, ok := FindActive(fs, loc); ok {
		t.Fatal("Expected no catalog on an empty filesystem")
	}

	_ = afero.WriteFile(fs, SystemCatalogPath, []byte(""), 0644)
	if p, ok := FindActive(fs, loc); !ok || p != SystemCatalogPath {
		t.Errorf("Expected system catalog, got %q", p)
	}

	user := filepath.Join("/data", AssetsDirName, FileName)
	_ = afero.WriteFile(fs, user, []byte(""), 0644)
	if p, ok := FindActive(fs, loc); !ok || p != user {
		t.Errorf("Expected user catalog to take precedence, got %q", p)
	}
}

func TestCustomStore_AddCustomSound(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewCustomStore(fs, platform.StaticLocator{Data: "/data", Config: "/config"})

	sounds, err := store.Load()
	if err != nil || len(sounds) != 0 {
		t.Fatalf("Expected empty custom catalog, got %v, %v", sounds, err)
	}

	first := model.NewCustomSound("Heavy Rain", "Nature", "/data/sounds/Heavy_Rain.opus", "🌧", "https://example.com/r")
	second := model.NewCustomSound("Fan", "Noise", "/data/sounds/fan.ogg", "", "")

	if err := store.AddCustomSound(first); err != nil {
		t.Fatalf("AddCustomSound() failed: %v", err)
	}
	if err := store.AddCustomSound(second); err != nil {
		t.Fatalf("AddCustomSound() failed: %v", err)
	}

	sounds, err = store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(sounds) != 2 {
		t.Fatalf("Expected 2 sounds, got %d", len(sounds))
	}

	got := sounds[0]
	if got.ID != "heavy_rain" || got.Name != "Heavy Rain" || got.Category != "Nature" {
		t.Errorf("Unexpected sound %+v", got)
	}
	if got.FilePath != "/data/sounds/Heavy_Rain.opus" || got.URL != "https://example.com/r" {
		t.Errorf("Unexpected sound fields %+v", got)
	}
	if got.Volume != model.DefaultVolume {
		t.Errorf("Expected default volume, got %v", got.Volume)
	}
	if sounds[1].Icon != model.DefaultIcon {
		t.Errorf("Expected default icon, got %q", sounds[1].Icon)
	}
}

func TestCustomStore_ReplacesSameID(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewCustomStore(fs, platform.StaticLocator{Config: "/config"})

	_ = store.AddCustomSound(model.NewCustomSound("Rain", "Nature", "/a.opus", "", ""))
	_ = store.AddCustomSound(model.NewCustomSound("Rain", "Nature", "/b.opus", "", ""))

	sounds, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(sounds) != 1 || sounds[0].FilePath != "/b.opus" {
		t.Errorf("Expected replaced entry, got %+v", sounds)
	}
}

func TestCustomStore_RefusesToClobberBrokenFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/config/sounds.toml", []byte("not = [valid"), 0644)
	store := NewCustomStore(fs, platform.StaticLocator{Config: "/config"})

	if err := store.AddCustomSound(model.NewCustomSound("Rain", "Nature", "/a.opus", "", "")); err == nil {
		t.Fatal("Expected parse error")
	}

	content, _ := afero.ReadFile(fs, "/config/sounds.toml")
	if string(content) != "not = [valid" {
		t.Error("Broken catalog must be left untouched")
	}
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary([]model.Sound{
		{ID: "wind", Category: "Nature"},
		{ID: "fan", Category: "Noise"},
	})

	lib.Register(model.Sound{ID: "rain", Category: "Nature", FilePath: "/a"})
	lib.Register(model.Sound{ID: "rain", Category: "Nature", FilePath: "/b"})

	if lib.Len() != 3 {
		t.Fatalf("Expected 3 sounds, got %d", lib.Len())
	}

	s, ok := lib.Get("Nature", "rain")
	if !ok || s.FilePath != "/b" {
		t.Errorf("Expected replaced rain, got %+v (%v)", s, ok)
	}

	all := lib.Sounds()
	if all[0].ID != "rain" || all[1].ID != "wind" || all[2].ID != "fan" {
		t.Errorf("Unexpected order %+v", all)
	}
}

func TestLoadLibrary(t *testing.T) {
	fs := afero.NewMemMapFs()
	loc := platform.StaticLocator{Data: "/data", Config: "/config"}
	_ = afero.WriteFile(fs, "/data/assets/sounds.toml", []byte(sampleCatalog), 0644)
	_ = NewCustomStore(fs, loc).AddCustomSound(model.NewCustomSound("Fan", "Noise", "/data/sounds/fan.opus", "", ""))

	lib, path, err := LoadLibrary(fs, loc, "", discardLogger())
	if err != nil {
		t.Fatalf("LoadLibrary() failed: %v", err)
	}
	if path != "/data/assets/sounds.toml" {
		t.Errorf("Unexpected catalog path %s", path)
	}
	if lib.Len() != 4 {
		t.Errorf("Expected 4 sounds, got %d", lib.Len())
	}

	if _, _, err := LoadLibrary(fs, loc, "/nope.toml", discardLogger()); err == nil {
		t.Error("Expected error for missing override catalog")
	}
}
