package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/ytget/soundfetch/internal/download"
	"github.com/ytget/soundfetch/internal/history"
	"github.com/ytget/soundfetch/internal/model"
)

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	content := `
[nature.rain]
name = "Rain"
file = "rain.ogg"
url = "https://example.com/rain"

[nature.wind]
name = "Wind"
file = "wind.ogg"
`
	path := filepath.Join(dir, "sounds.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runAppIn(t, t.TempDir(), args...)
}

// runAppIn runs the app with data and config dirs under root
func runAppIn(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	base := []string{"soundfetch",
		"--data-dir", filepath.Join(root, "data"),
		"--config-dir", filepath.Join(root, "config"),
	}
	err := newApp(&out, BuildArgs{Version: "test", Commit: "abc", Date: "today"}).Run(append(base, args...))
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "soundfetch test (") || !strings.Contains(out, "today=abc") {
		t.Errorf("Unexpected version output %q", out)
	}
}

func TestScanWithoutYTDLP(t *testing.T) {
	catalog := writeCatalog(t, t.TempDir())
	out, err := runApp(t, "--no-ytdlp", "--catalog", catalog, "scan")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "yt-dlp not found") {
		t.Errorf("Expected yt-dlp notice, got %q", out)
	}
}

func TestHistoryEmpty(t *testing.T) {
	out, err := runApp(t, "--no-ytdlp", "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no downloads found") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestWriteHistory(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/data/sounds/rain.ogg", bytes.Repeat([]byte{1}, 2048), 0o644)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []history.Entry{
		{
			Name: "Rain", Category: "nature", Status: model.TaskStatusDone.String(),
			Path: "/data/sounds/rain.ogg", StartedAt: now.Add(-3 * time.Minute), FinishedAt: now.Add(-2 * time.Minute),
		},
		{
			Name: "Wind", Category: "nature", Status: model.TaskStatusError.String(),
			Error: "Direct download failed: boom", StartedAt: now.Add(-time.Hour), FinishedAt: now.Add(-time.Hour),
		},
	}

	var out bytes.Buffer
	if err := writeHistory(&out, fs, entries, now); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{"Rain", "2.0 kB", "2 minutes ago", "1m0s", "Direct download failed: boom", "1 hour ago"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in output:\n%s", want, text)
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	sounds := []model.Sound{{ID: "a", Category: "nature"}, {ID: "b", Category: "city"}}

	if got := filterByCategory(sounds, nil); len(got) != 2 {
		t.Errorf("Expected all sounds without filter, got %d", len(got))
	}
	got := filterByCategory(sounds, []string{"city"})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Unexpected filter result: %+v", got)
	}
}

// slowStopFetcher takes a while to return after cancellation
type slowStopFetcher struct {
	started  chan struct{}
	returned atomic.Bool
}

func (f *slowStopFetcher) Fetch(ctx context.Context, req download.Request, events chan<- model.DownloadEvent) {
	close(f.started)
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	f.returned.Store(true)
}

func TestDrainQueueWaitsForCancelledWorker(t *testing.T) {
	fetcher := &slowStopFetcher{started: make(chan struct{})}
	controller := download.NewController(fetcher)
	controller.Enqueue(model.NewDownloadTask("Rain", "Nature", "", "https://example.com/rain", "rain.ogg"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-fetcher.started
		cancel()
	}()

	var out bytes.Buffer
	err := drainQueue(ctx, controller, &out)
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Errorf("Expected interrupted error, got %v", err)
	}
	if !fetcher.returned.Load() {
		t.Error("Expected the worker to have returned before drainQueue")
	}
	if !strings.Contains(out.String(), "0 downloaded, 1 failed") {
		t.Errorf("Unexpected summary %q", out.String())
	}
}

func TestScanWithoutCatalog(t *testing.T) {
	out, err := runApp(t, "--no-ytdlp", "scan")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "soundfetch init") {
		t.Errorf("Expected init hint, got %q", out)
	}
}

func TestInitDownloadsCatalog(t *testing.T) {
	const remote = `
[nature.rain]
name = "Rain"
file = "rain.ogg"
url = "https://example.com/rain"
`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remote))
	}))
	defer srv.Close()

	root := t.TempDir()
	out, err := runAppIn(t, root, "--no-ytdlp", "init", "--url", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "data", "assets", "sounds.toml")
	if !strings.Contains(out, "installed catalog with 1 sounds at "+want) {
		t.Errorf("Unexpected output %q", out)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("Expected catalog written: %v", err)
	}

	out, err = runAppIn(t, root, "--no-ytdlp", "init", "--url", srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "catalog already installed") {
		t.Errorf("Expected second init to be a no-op, got %q", out)
	}

	out, err = runAppIn(t, root, "--no-ytdlp", "scan")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "yt-dlp not found") {
		t.Errorf("Expected the installed catalog to be used, got %q", out)
	}
}

func TestInitFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	exitCode := 0
	cli.OsExiter = func(code int) { exitCode = code }
	defer func() { cli.OsExiter = os.Exit }()

	_, err := runApp(t, "--no-ytdlp", "init", "--url", srv.URL)
	if err == nil || !strings.Contains(err.Error(), "unexpected status 404") {
		t.Errorf("Expected download failure, got %v", err)
	}
	if exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode)
	}
}
