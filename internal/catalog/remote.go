package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/platform"
)

// DefaultRemoteURL is where the published sound catalog is fetched from
const DefaultRemoteURL = "https://raw.githubusercontent.com/AnonMiraj/Tanin/main/assets/sounds.toml"

// maxCatalogBytes caps the size of a downloaded catalog
const maxCatalogBytes = 4 << 20

// AssetStatus tells whether any sound catalog is installed
type AssetStatus int

const (
	AssetsPresent AssetStatus = iota
	AssetsMissing
)

func (s AssetStatus) String() string {
	if s == AssetsPresent {
		return "present"
	}
	return "missing"
}

// CheckAssets reports whether FindActive locates a catalog
func CheckAssets(fs afero.Fs, locator platform.Locator) AssetStatus {
	if _, ok := FindActive(fs, locator); ok {
		return AssetsPresent
	}
	return AssetsMissing
}

// UserCatalogPath returns <DataDir>/assets/sounds.toml
func UserCatalogPath(locator platform.Locator) (string, error) {
	dataDir, err := locator.DataDir()
	if err != nil {
		return "", fmt.Errorf("could not determine data directory: %w", err)
	}
	return filepath.Join(dataDir, AssetsDirName, FileName), nil
}

// Downloader installs the published catalog into the user's data directory
type Downloader struct {
	fs      afero.Fs
	locator platform.Locator
	client  *http.Client
	url     string
}

// NewDownloader creates a Downloader. An empty url means DefaultRemoteURL and
// a nil client means http.DefaultClient.
func NewDownloader(fs afero.Fs, locator platform.Locator, client *http.Client, url string) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultRemoteURL
	}
	return &Downloader{fs: fs, locator: locator, client: client, url: url}
}

// URL returns the catalog source
func (d *Downloader) URL() string {
	return d.url
}

// Download fetches the catalog, checks that it parses and writes it to
// UserCatalogPath, where FindActive picks it up. The previous file is left
// alone when anything fails.
func (d *Downloader) Download(ctx context.Context) (string, []model.Sound, error) {
	path, err := UserCatalogPath(d.locator)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("catalog download failed: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("catalog download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", nil, fmt.Errorf("catalog download failed: unexpected status %s", resp.Status)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("catalog download failed: %w", err)
	}
	if len(content) > maxCatalogBytes {
		return "", nil, fmt.Errorf("catalog download failed: larger than %d bytes", maxCatalogBytes)
	}

	assetsDir := filepath.Dir(path)
	sounds, err := Parse(content, assetsDir)
	if err != nil {
		return "", nil, fmt.Errorf("downloaded catalog is invalid: %w", err)
	}

	if err := platform.CreateDirectoryIfNotExists(d.fs, filepath.Join(assetsDir, platform.SoundsDirName)); err != nil {
		return "", nil, fmt.Errorf("failed to create assets directory: %w", err)
	}
	tmp := path + ".part"
	if err := afero.WriteFile(d.fs, tmp, content, 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := d.fs.Rename(tmp, path); err != nil {
		_ = d.fs.Remove(tmp)
		return "", nil, fmt.Errorf("failed to write catalog: %w", err)
	}
	return path, sounds, nil
}
