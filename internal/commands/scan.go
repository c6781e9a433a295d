package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli"

	"github.com/ytget/soundfetch/internal/download"
	"github.com/ytget/soundfetch/internal/model"
)

func scan(ctx *cli.Context) error {
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

	tasks := download.ScanMissing(env.fs, env.library.Sounds(), true)
	if len(tasks) == 0 {
		fmt.Fprintf(out, "all %d sounds are present\n", env.library.Len())
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tNAME\tFILE\tURL")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", task.Category, task.Name, task.TargetFilename, task.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d missing; run `soundfetch fetch` to download\n", len(tasks))
	return nil
}

// filterByCategory keeps sounds in any of categories; no categories keeps all
func filterByCategory(sounds []model.Sound, categories []string) []model.Sound {
	if len(categories) == 0 {
		return sounds
	}
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	var out []model.Sound
	for _, s := range sounds {
		if want[s.Category] {
			out = append(out, s)
		}
	}
	return out
}
