package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/ytget/soundfetch/internal/logging"
	"github.com/ytget/soundfetch/internal/model"
)

const (
	eventBufferSize = 16

	// shutdownTimeout bounds how long Close and Run wait for a cancelled
	// worker to return
	shutdownTimeout = 5 * time.Second
)

var (
	// ErrWorkerBusy is returned when a task is started while another runs
	ErrWorkerBusy = errors.New("a download is already in progress")
	// ErrTaskNotPending is returned when starting a task that is not pending
	ErrTaskNotPending = errors.New("task is not pending")
	// ErrTaskNotFound is returned for an out of range queue index
	ErrTaskNotFound = errors.New("task not found")
)

// Controller owns the download queue and the event stream of the single
// active worker. All methods must be called from one goroutine.
type Controller struct {
	queue          *Queue
	fetcher        Fetcher
	fs             afero.Fs
	ytdlpAvailable bool
	autoAdvance    bool
	catalog        CatalogWriter
	registry       Registry
	recorder       Recorder
	logger         *slog.Logger
	onUpdate       func(*model.DownloadTask)

	active *model.DownloadTask
	events <-chan model.DownloadEvent
	cancel context.CancelFunc
	// exited is closed when the last started Fetch returns. It outlives
	// release so a cancelled worker still counts as running.
	exited chan struct{}
}

// ControllerOption customizes a Controller
type ControllerOption func(*Controller)

// WithYTDLPAvailable sets the capability flag captured by each started task
func WithYTDLPAvailable(available bool) ControllerOption {
	return func(c *Controller) { c.ytdlpAvailable = available }
}

// WithAutoAdvance starts the next pending task after each terminal event
func WithAutoAdvance(enabled bool) ControllerOption {
	return func(c *Controller) { c.autoAdvance = enabled }
}

// WithCatalogWriter sets where finished downloads are persisted
func WithCatalogWriter(w CatalogWriter) ControllerOption {
	return func(c *Controller) { c.catalog = w }
}

// WithRegistry sets the runtime sound registry
func WithRegistry(r Registry) ControllerOption {
	return func(c *Controller) { c.registry = r }
}

// WithRecorder sets the history journal
func WithRecorder(r Recorder) ControllerOption {
	return func(c *Controller) { c.recorder = r }
}

// WithFs sets the filesystem used by ScanMissing
func WithFs(fs afero.Fs) ControllerOption {
	return func(c *Controller) { c.fs = fs }
}

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller dispatching tasks to fetcher
func NewController(fetcher Fetcher, opts ...ControllerOption) *Controller {
	c := &Controller{
		queue:   NewQueue(),
		fetcher: fetcher,
		fs:      afero.NewOsFs(),
		logger:  logging.NullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUpdateCallback sets a function called whenever a task changes
func (c *Controller) SetUpdateCallback(fn func(*model.DownloadTask)) {
	c.onUpdate = fn
}

// Queue returns the controller's queue
func (c *Controller) Queue() *Queue {
	return c.queue
}

// Tasks returns a snapshot of all queued tasks
func (c *Controller) Tasks() []*model.DownloadTask {
	return c.queue.Tasks()
}

// YTDLPAvailable reports the capability flag
func (c *Controller) YTDLPAvailable() bool {
	return c.ytdlpAvailable
}

// Active returns the index of the running task
func (c *Controller) Active() (int, bool) {
	if c.active == nil {
		return -1, false
	}
	idx := c.queue.IndexOf(c.active)
	return idx, idx >= 0
}

// Busy reports whether a worker is running. A cancelled worker keeps the
// controller busy until its Fetch call has returned.
func (c *Controller) Busy() bool {
	if c.events != nil {
		return true
	}
	if c.exited == nil {
		return false
	}
	select {
	case <-c.exited:
		c.exited = nil
		return false
	default:
		return true
	}
}

// WaitIdle blocks until the last started worker has returned
func (c *Controller) WaitIdle(ctx context.Context) error {
	if c.exited == nil {
		return nil
	}
	select {
	case <-c.exited:
		c.exited = nil
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue appends task to the queue
func (c *Controller) Enqueue(task *model.DownloadTask) int {
	idx := c.queue.Add(task)
	c.notifyUpdate(task)
	return idx
}

// ScanMissing queues a task for every sound whose file is missing and returns
// the number of tasks added. No worker is started.
func (c *Controller) ScanMissing(sounds []model.Sound) int {
	added := 0
	for _, task := range ScanMissing(c.fs, sounds, c.ytdlpAvailable) {
		if c.queue.HasUnfinished(task.URL, task.TargetFilename) {
			c.logger.Debug("skipping queued download", "url", task.URL, "target", task.TargetFilename)
			continue
		}
		c.Enqueue(task)
		added++
	}
	if added > 0 {
		c.logger.Info("queued missing sounds", "count", added)
	}
	return added
}

// Admit validates form, enqueues an ad-hoc task and clears the form's name
// and URL. The form is left untouched when validation fails.
func (c *Controller) Admit(form *AdmissionForm) (*model.DownloadTask, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	icon := strings.TrimSpace(form.Icon)
	if icon == "" {
		icon = model.DefaultIcon
	}
	task := model.NewDownloadTask(
		strings.TrimSpace(form.Name),
		strings.TrimSpace(form.Category),
		icon,
		strings.TrimSpace(form.URL),
		"",
	)
	c.Enqueue(task)
	form.Clear()
	c.logger.Info("download admitted", "task", task.ID, "name", task.Name, "url", task.URL)
	return task, nil
}

// Start launches the worker for the pending task at index
func (c *Controller) Start(index int) error {
	if c.Busy() {
		return ErrWorkerBusy
	}
	task, ok := c.queue.At(index)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrTaskNotFound, index)
	}
	if task.Status != model.TaskStatusPending {
		return fmt.Errorf("%w: %s", ErrTaskNotPending, task.Status)
	}
	if err := task.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan model.DownloadEvent, eventBufferSize)
	exited := make(chan struct{})
	req := RequestFromTask(task, c.ytdlpAvailable)

	c.active = task
	c.events = events
	c.cancel = cancel
	c.exited = exited

	go func() {
		defer close(exited)
		defer close(events)
		c.fetcher.Fetch(ctx, req, events)
	}()

	c.logger.Info("download started", "task", task.ID, "name", task.Name, "ytdlp", req.UseYTDLP)
	c.notifyUpdate(task)
	return nil
}

// StartNext starts the first pending task. It reports false when there is
// nothing to start.
func (c *Controller) StartNext() (bool, error) {
	if c.Busy() {
		return false, ErrWorkerBusy
	}
	idx, ok := c.queue.NextPending()
	if !ok {
		return false, nil
	}
	if err := c.Start(idx); err != nil {
		return false, err
	}
	return true, nil
}

// Poll applies every event already available without blocking and returns
// how many were applied
func (c *Controller) Poll() int {
	applied := 0
	for c.events != nil {
		select {
		case ev, ok := <-c.events:
			c.apply(ev, ok)
			applied++
		default:
			return applied
		}
	}
	return applied
}

// PollTimeout waits up to d for the first event, then drains like Poll
func (c *Controller) PollTimeout(d time.Duration) int {
	if c.events == nil {
		return 0
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case ev, ok := <-c.events:
		c.apply(ev, ok)
		return 1 + c.Poll()
	case <-timer.C:
		return 0
	}
}

// Wait blocks until the active task reaches a terminal state
func (c *Controller) Wait(ctx context.Context) error {
	task := c.active
	for task != nil && c.active == task {
		select {
		case ev, ok := <-c.events:
			c.apply(ev, ok)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Run processes pending tasks one after another until none remain. When ctx
// is done the active task is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if c.active == nil {
			if err := c.WaitIdle(ctx); err != nil {
				c.shutdown()
				return err
			}
			started, err := c.StartNext()
			if err != nil {
				return err
			}
			if !started {
				return nil
			}
		}
		if err := c.Wait(ctx); err != nil {
			c.shutdown()
			return err
		}
	}
}

// Cancel stops the active worker and fails its task
func (c *Controller) Cancel() bool {
	task := c.active
	if task == nil {
		return false
	}
	c.release()
	if err := task.Fail(MsgCancelled); err != nil {
		c.logger.Warn("cancel on inactive task", "task", task.ID, "error", err)
	}
	c.logger.Info("download cancelled", "task", task.ID)
	c.record(task)
	c.notifyUpdate(task)
	return true
}

// RemoveFinished drops Done and Error tasks from the queue
func (c *Controller) RemoveFinished() int {
	return c.queue.RemoveFinished()
}

// Close cancels any active download and waits for its worker to return
func (c *Controller) Close() {
	c.shutdown()
}

func (c *Controller) shutdown() {
	c.Cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := c.WaitIdle(ctx); err != nil {
		c.logger.Warn("download worker did not stop", "error", err)
	}
}

func (c *Controller) apply(ev model.DownloadEvent, ok bool) {
	task := c.active
	if task == nil {
		return
	}

	if !ok {
		c.release()
		if task.Status.IsActive() {
			_ = task.Fail(MsgNoResult)
			c.logger.Error("download worker exited without a result", "task", task.ID)
			c.record(task)
			c.notifyUpdate(task)
		}
		c.advance()
		return
	}

	switch ev.Kind {
	case model.EventProgress:
		if err := task.SetProgress(ev.Percent); err != nil {
			c.logger.Debug("dropping progress", "task", task.ID, "error", err)
			return
		}
		c.notifyUpdate(task)
	case model.EventSuccess:
		c.release()
		if err := task.Complete(ev.FilePath); err != nil {
			c.logger.Warn("cannot complete task", "task", task.ID, "error", err)
			return
		}
		c.persist(ev)
		c.record(task)
		c.notifyUpdate(task)
		c.advance()
	case model.EventError:
		c.release()
		if err := task.Fail(ev.Message); err != nil {
			c.logger.Warn("cannot fail task", "task", task.ID, "error", err)
			return
		}
		c.record(task)
		c.notifyUpdate(task)
		c.advance()
	}
}

// release detaches the active worker. Anything it still sends is ignored.
func (c *Controller) release() {
	if c.cancel != nil {
		c.cancel()
	}
	c.active = nil
	c.events = nil
	c.cancel = nil
}

func (c *Controller) advance() {
	if !c.autoAdvance {
		return
	}
	// the worker returns right after its terminal event
	_ = c.WaitIdle(context.Background())
	if _, err := c.StartNext(); err != nil {
		c.logger.Warn("cannot start next download", "error", err)
	}
}

func (c *Controller) persist(ev model.DownloadEvent) {
	sound := model.SoundFromEvent(ev)
	if c.catalog != nil {
		if err := c.catalog.AddCustomSound(sound); err != nil {
			c.logger.Error("failed to save custom sound", "name", sound.Name, "error", err)
		}
	}
	if c.registry != nil {
		c.registry.Register(sound)
	}
}

func (c *Controller) record(task *model.DownloadTask) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordTask(task); err != nil {
		c.logger.Warn("failed to record download history", "task", task.ID, "error", err)
	}
}

func (c *Controller) notifyUpdate(task *model.DownloadTask) {
	if c.onUpdate != nil {
		c.onUpdate(task)
	}
}
