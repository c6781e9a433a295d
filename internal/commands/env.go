package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/ytget/soundfetch/internal/catalog"
	"github.com/ytget/soundfetch/internal/config"
	"github.com/ytget/soundfetch/internal/download"
	"github.com/ytget/soundfetch/internal/history"
	"github.com/ytget/soundfetch/internal/logging"
	"github.com/ytget/soundfetch/internal/platform"
)

// environment is everything a command needs, built from flags and config
type environment struct {
	settings    *config.Settings
	fs          afero.Fs
	locator     platform.Locator
	logger      *slog.Logger
	library     *catalog.Library
	catalogPath string
	custom      *catalog.CustomStore
	history     *history.Store
	ytdlpPath   string
	ytdlpFound  bool

	closers []io.Closer
}

func newEnvironment(ctx *cli.Context) (*environment, error) {
	dirs := platform.NewAppDirs(platform.AppName).
		WithOverrides(ctx.GlobalString("data-dir"), ctx.GlobalString("config-dir"))

	var searchDirs []string
	if dir, err := dirs.ConfigDir(); err == nil {
		searchDirs = append(searchDirs, dir)
	}
	settings, err := config.Load(ctx.GlobalString("config"), searchDirs...)
	if err != nil {
		return nil, err
	}
	if lvl := ctx.GlobalString("log-level"); lvl != "" {
		settings.Logging.Level = lvl
	}
	if ctx.GlobalBool("no-ytdlp") {
		settings.YTDLP.Disabled = true
	}

	// flags win over the config file
	dataOverride := firstNonEmpty(ctx.GlobalString("data-dir"), settings.Paths.DataDir)
	configOverride := firstNonEmpty(ctx.GlobalString("config-dir"), settings.Paths.ConfigDir)
	if dataOverride, err = expandOptional(dataOverride); err != nil {
		return nil, err
	}
	if configOverride, err = expandOptional(configOverride); err != nil {
		return nil, err
	}
	dirs = platform.NewAppDirs(platform.AppName).WithOverrides(dataOverride, configOverride)

	env := &environment{
		settings: settings,
		fs:       afero.NewOsFs(),
		locator:  dirs,
	}

	dataDir, err := dirs.DataDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine data directory: %w", err)
	}

	logger, closer, err := logging.SetupLogger(&settings.Logging, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "soundfetch: logging disabled: %v\n", err)
		logger = logging.NullLogger()
	} else {
		env.closers = append(env.closers, closer)
	}
	env.logger = logger

	catalogPath := firstNonEmpty(ctx.GlobalString("catalog"), settings.Paths.Catalog)
	library, activePath, err := catalog.LoadLibrary(env.fs, dirs, catalogPath, logger)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.library = library
	env.catalogPath = activePath
	env.custom = catalog.NewCustomStore(env.fs, dirs)

	store, err := history.Open(dataDir)
	if err != nil {
		logger.Warn("download history unavailable", "error", err)
		store, _ = history.Open("")
	}
	env.history = store
	env.closers = append(env.closers, store)

	if !settings.YTDLP.Disabled {
		env.ytdlpPath, env.ytdlpFound = platform.FindYTDLP(settings.YTDLP.Path)
	}
	logger.Info("environment ready",
		"data_dir", dataDir,
		"catalog", activePath,
		"sounds", library.Len(),
		"ytdlp", env.ytdlpPath,
	)
	return env, nil
}

// newController builds the download pipeline. forceDirect disables yt-dlp
// for this run.
func (e *environment) newController(forceDirect bool) *download.Controller {
	worker := download.NewWorker(e.fs, e.locator,
		download.WithHTTPClient(e.httpClient()),
		download.WithYTDLP(download.YTDLPOptions{
			Command:     e.ytdlpPath,
			AudioFormat: e.settings.YTDLP.AudioFormat,
			Format:      e.settings.YTDLP.Format,
		}),
		download.WithChunkSize(e.settings.Download.ChunkSize),
		download.WithLogger(e.logger),
	)
	return download.NewController(worker,
		download.WithFs(e.fs),
		download.WithYTDLPAvailable(e.ytdlpFound && !forceDirect),
		download.WithAutoAdvance(e.settings.Download.AutoAdvance),
		download.WithCatalogWriter(e.custom),
		download.WithRegistry(e.library),
		download.WithRecorder(e.history),
		download.WithControllerLogger(e.logger),
	)
}

func (e *environment) httpClient() *http.Client {
	return &http.Client{Timeout: e.settings.Download.HTTPTimeout}
}

// catalogDownloader fetches the sound catalog from url, or from the
// configured source when url is empty
func (e *environment) catalogDownloader(url string) *catalog.Downloader {
	return catalog.NewDownloader(e.fs, e.locator, e.httpClient(), firstNonEmpty(url, e.settings.Paths.CatalogURL))
}

// catalogMissing reports that no catalog was found or given
func (e *environment) catalogMissing() bool {
	return e.catalogPath == ""
}

func (e *environment) Close() {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(os.Stderr, "soundfetch: %v\n", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func expandOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return platform.ExpandHome(path)
}
