package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/ytget/soundfetch/internal/download"
	"github.com/ytget/soundfetch/internal/model"
)

func fetch(ctx *cli.Context) error {
	env, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer env.Close()

	out := ctx.App.Writer
	if env.catalogMissing() && env.library.Len() == 0 {
		fmt.Fprintln(out, missingCatalogHint)
		return nil
	}
	if !env.ytdlpFound {
		fmt.Fprintln(out, "yt-dlp not found: missing sounds cannot be fetched in bulk")
		return nil
	}

	controller := env.newController(false)
	sounds := filterByCategory(env.library.Sounds(), ctx.Args())
	if controller.ScanMissing(sounds) == 0 {
		fmt.Fprintln(out, "nothing to fetch")
		return nil
	}
	return runQueue(controller, out)
}

// runQueue downloads every pending task with progress bars and reports
// failures. Ctrl-C cancels the active download.
func runQueue(controller *download.Controller, out io.Writer) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return drainQueue(sigCtx, controller, out)
}

// drainQueue runs the queue until it is empty or runCtx is done. It returns
// only after the worker has stopped.
func drainQueue(runCtx context.Context, controller *download.Controller, out io.Writer) error {
	// the worker must be gone before the caller closes history and logs
	defer controller.Close()

	bars := newBarSet(out)
	controller.SetUpdateCallback(bars.Update)
	runErr := controller.Run(runCtx)
	bars.Wait()

	var failed []*model.DownloadTask
	done := 0
	for _, task := range controller.Tasks() {
		switch task.Status {
		case model.TaskStatusDone:
			done++
		case model.TaskStatusError:
			failed = append(failed, task)
		}
	}

	fmt.Fprintf(out, "%d downloaded, %d failed\n", done, len(failed))
	for _, task := range failed {
		fmt.Fprintf(out, "  %s: %s\n", task.GetDisplayTitle(), task.LastError)
	}

	if errors.Is(runErr, context.Canceled) {
		return cli.NewExitError("interrupted", 130)
	}
	if runErr != nil {
		return runErr
	}
	if len(failed) > 0 {
		return cli.NewExitError("", 1)
	}
	return nil
}
