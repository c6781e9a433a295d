package download

import (
	"context"

	"github.com/ytget/soundfetch/internal/model"
)

// Fetcher executes one download request, sending zero or more progress
// events followed by exactly one terminal event. Fetch blocks until done and
// must return right after the terminal event or once ctx is cancelled; the
// caller owns and closes events.
type Fetcher interface {
	Fetch(ctx context.Context, req Request, events chan<- model.DownloadEvent)
}

// CatalogWriter persists sounds produced by finished downloads.
type CatalogWriter interface {
	AddCustomSound(s model.Sound) error
}

// Registry makes a sound playable at runtime.
type Registry interface {
	Register(s model.Sound)
}

// Recorder journals tasks that reached a terminal state.
type Recorder interface {
	RecordTask(task *model.DownloadTask) error
}
