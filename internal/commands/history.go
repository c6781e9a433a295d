package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/ytget/soundfetch/internal/history"
)

var historyFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "limit, n",
		Value: 20,
		Usage: "number of entries to show (0 for all)",
	},
	cli.BoolFlag{
		Name:  "clear",
		Usage: "delete the download history",
	},
}

func listHistory(ctx *cli.Context) error {
	env, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer env.Close()

	out := ctx.App.Writer
	if ctx.Bool("clear") {
		if err := env.history.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(out, "download history cleared")
		return nil
	}

	entries, err := env.history.List(ctx.Int("limit"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no downloads found")
		return nil
	}
	return writeHistory(out, env.fs, entries, time.Now())
}

func writeHistory(out io.Writer, fs afero.Fs, entries []history.Entry, now time.Time) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tNAME\tCATEGORY\tFINISHED\tTOOK\tSIZE\tDETAIL")
	for _, e := range entries {
		size, detail := "-", e.Error
		if e.Succeeded() {
			detail = e.Path
			if info, err := fs.Stat(e.Path); err == nil {
				size = humanize.Bytes(uint64(info.Size()))
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Status,
			e.Name,
			e.Category,
			humanize.RelTime(e.FinishedAt, now, "ago", "from now"),
			e.Duration().Round(time.Second),
			size,
			detail,
		)
	}
	return tw.Flush()
}
