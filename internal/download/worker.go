package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/logging"
	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/platform"
)

// Worker error messages surfaced as task errors
const (
	MsgNoFilename   = "yt-dlp is missing and no filename provided for direct download."
	MsgFileNotFound = "Download success but file not found."
	MsgCancelled    = "download cancelled"
	MsgNoResult     = "download worker exited without a result"
)

// Defaults used when no options are given
const (
	DefaultAudioFormat = "opus"
	DefaultFormat      = "ba[ext=webm]/ba"
	DefaultChunkSize   = 8192
)

// YTDLPOptions configures the extraction tool invocation
type YTDLPOptions struct {
	Command     string
	AudioFormat string
	Format      string
}

// DefaultYTDLPOptions returns the stock invocation settings
func DefaultYTDLPOptions() YTDLPOptions {
	return YTDLPOptions{
		Command:     platform.DefaultYTDLPCommand,
		AudioFormat: DefaultAudioFormat,
		Format:      DefaultFormat,
	}
}

// Request is the immutable snapshot of a task handed to the worker
type Request struct {
	Name           string
	Category       string
	Icon           string
	URL            string
	TargetFilename string
	// UseYTDLP is the capability flag captured when the task was started.
	UseYTDLP bool
}

// RequestFromTask snapshots task for a worker run
func RequestFromTask(task *model.DownloadTask, useYTDLP bool) Request {
	return Request{
		Name:           task.Name,
		Category:       task.Category,
		Icon:           task.Icon,
		URL:            task.URL,
		TargetFilename: task.TargetFilename,
		UseYTDLP:       useYTDLP,
	}
}

// Worker fetches one asset per Fetch call using either yt-dlp or a plain
// HTTP GET.
type Worker struct {
	fs        afero.Fs
	locator   platform.Locator
	client    *http.Client
	ytdlp     YTDLPOptions
	chunkSize int
	logger    *slog.Logger
}

// WorkerOption customizes a Worker
type WorkerOption func(*Worker)

// WithHTTPClient sets the client used by the direct strategy
func WithHTTPClient(client *http.Client) WorkerOption {
	return func(w *Worker) {
		if client != nil {
			w.client = client
		}
	}
}

// WithYTDLP sets the extraction tool invocation
func WithYTDLP(opts YTDLPOptions) WorkerOption {
	return func(w *Worker) {
		def := DefaultYTDLPOptions()
		if opts.Command == "" {
			opts.Command = def.Command
		}
		if opts.AudioFormat == "" {
			opts.AudioFormat = def.AudioFormat
		}
		if opts.Format == "" {
			opts.Format = def.Format
		}
		w.ytdlp = opts
	}
}

// WithChunkSize sets the direct strategy read size
func WithChunkSize(size int) WorkerOption {
	return func(w *Worker) {
		if size > 0 {
			w.chunkSize = size
		}
	}
}

// WithLogger sets the worker logger
func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorker creates a worker writing under locator's data directory on fs
func NewWorker(fs afero.Fs, locator platform.Locator, opts ...WorkerOption) *Worker {
	w := &Worker{
		fs:        fs,
		locator:   locator,
		client:    http.DefaultClient,
		ytdlp:     DefaultYTDLPOptions(),
		chunkSize: DefaultChunkSize,
		logger:    logging.NullLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Fetch runs req to completion. It sends progress events followed by exactly
// one terminal event on events and never closes the channel.
func (w *Worker) Fetch(ctx context.Context, req Request, events chan<- model.DownloadEvent) {
	emit := func(ev model.DownloadEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}
	progress := func(percent float64) {
		emit(model.ProgressEvent(percent))
	}

	result := w.fetch(ctx, req, progress)
	if result.Kind == model.EventError {
		w.logger.Warn("download failed", "name", req.Name, "url", req.URL, "error", result.Message)
	} else {
		w.logger.Info("download finished", "name", req.Name, "path", result.FilePath)
	}
	emit(result)
}

func (w *Worker) fetch(ctx context.Context, req Request, progress func(float64)) model.DownloadEvent {
	dataDir, err := w.locator.DataDir()
	if err != nil {
		return model.ErrorEvent(fmt.Sprintf("Could not determine data directory: %v", err))
	}
	soundsDir := filepath.Join(dataDir, platform.SoundsDirName)
	if err := platform.CreateDirectoryIfNotExists(w.fs, soundsDir); err != nil {
		return model.ErrorEvent(fmt.Sprintf("Error creating directory: %v", err))
	}

	stem := platform.OutputStem(req.TargetFilename, req.Name)
	w.logger.Debug("download starting",
		"name", req.Name,
		"url", req.URL,
		"stem", stem,
		"ytdlp", req.UseYTDLP,
	)

	if req.UseYTDLP {
		return w.fetchWithYTDLP(ctx, req, soundsDir, stem, progress)
	}
	if req.TargetFilename == "" {
		return model.ErrorEvent(MsgNoFilename)
	}
	return w.fetchDirect(ctx, req, soundsDir, progress)
}
