package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/platform"
)

const (
	stderrTailLines = 5
	maxLineBytes    = 1024 * 1024

	// ytdlpWaitDelay bounds how long Wait keeps the output pipes open after
	// the tool was killed
	ytdlpWaitDelay = 2 * time.Second
)

// BuildYTDLPArgs constructs yt-dlp arguments extracting the best audio of url
// into outputTemplate
func BuildYTDLPArgs(opts YTDLPOptions, outputTemplate, url string) []string {
	return []string{
		"--ignore-config",
		"--no-playlist",
		"--force-overwrites",
		"-x",
		"--audio-format", opts.AudioFormat,
		"-f", opts.Format,
		"-o", outputTemplate,
		"--newline",
		"--progress",
		url,
	}
}

func (w *Worker) fetchWithYTDLP(ctx context.Context, req Request, soundsDir, stem string, progress func(float64)) model.DownloadEvent {
	template := filepath.Join(soundsDir, stem+".%(ext)s")
	args := BuildYTDLPArgs(w.ytdlp, template, req.URL)

	cmd := exec.CommandContext(ctx, w.ytdlp.Command, args...)
	isolateProcessGroup(cmd)
	cmd.WaitDelay = ytdlpWaitDelay
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return model.ErrorEvent(fmt.Sprintf("Failed to start yt-dlp: %v", err))
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return model.ErrorEvent(fmt.Sprintf("Failed to start yt-dlp: %v", err))
	}

	w.logger.Debug("running yt-dlp", "command", w.ytdlp.Command, "args", strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return model.ErrorEvent(fmt.Sprintf("Failed to start yt-dlp: %v", err))
	}

	// a descendant outside the process group can keep the pipes open after
	// cancellation; close them ourselves once the grace period is over
	stopWatch := context.AfterFunc(ctx, func() {
		time.AfterFunc(ytdlpWaitDelay, func() {
			_ = stdout.Close()
			_ = stderr.Close()
		})
	})
	defer stopWatch()

	// stderr must be drained while stdout is read, otherwise a chatty
	// process fills the pipe and stalls.
	tail := newLineTail(stderrTailLines)
	var drained sync.WaitGroup
	drained.Add(1)
	go func() {
		defer drained.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := scanner.Text()
			tail.Add(line)
			w.logger.Debug("yt-dlp stderr", "line", line)
		}
		_, _ = io.Copy(io.Discard, stderr)
	}()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if percent, ok := platform.ParseProgressLine(scanner.Text()); ok {
			progress(percent)
		}
	}
	_, _ = io.Copy(io.Discard, stdout)
	drained.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return model.ErrorEvent(MsgCancelled)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := fmt.Sprintf("yt-dlp exited with error: %v", err)
			if t := tail.String(); t != "" {
				msg += ": " + t
			}
			return model.ErrorEvent(msg)
		}
		return model.ErrorEvent(fmt.Sprintf("Failed to wait on yt-dlp: %v", err))
	}

	path, err := platform.FindOutputFile(w.fs, soundsDir, stem)
	if err != nil {
		w.logger.Warn("yt-dlp output missing", "error", err)
		return model.ErrorEvent(MsgFileNotFound)
	}
	return model.SuccessEvent(req.Name, req.Category, path, req.Icon, req.URL)
}

// lineTail keeps the last n non-blank lines written to it
type lineTail struct {
	mu    sync.Mutex
	n     int
	lines []string
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n}
}

func (t *lineTail) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

func (t *lineTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "; ")
}
