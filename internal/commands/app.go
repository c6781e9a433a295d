// Package commands wires the soundfetch command line.
package commands

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/urfave/cli"
)

// BuildArgs carries link-time build information
type BuildArgs struct {
	Version string
	Commit  string
	Date    string
}

const description = `soundfetch keeps a sound library complete. It scans the sound catalog for
assets missing on disk and fetches them with yt-dlp, or with a plain HTTP
download when yt-dlp is not installed.`

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config",
		Usage: "path to a config.yaml (default: <config dir>/config.yaml)",
	},
	cli.StringFlag{
		Name:  "catalog",
		Usage: "sound catalog to use instead of the discovered one",
	},
	cli.StringFlag{
		Name:  "data-dir",
		Usage: "override the data directory",
	},
	cli.StringFlag{
		Name:  "config-dir",
		Usage: "override the config directory",
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: "DEBUG, INFO, WARN or ERROR",
	},
	cli.BoolFlag{
		Name:  "no-ytdlp",
		Usage: "never use yt-dlp, even when installed",
	},
}

// Execute runs the command line
func Execute(args []string, b BuildArgs) error {
	return newApp(os.Stdout, b).Run(args)
}

func newApp(out io.Writer, b BuildArgs) *cli.App {
	app := cli.NewApp()
	app.Name = "soundfetch"
	app.HelpName = "soundfetch"
	app.Usage = "fetch missing sound assets"
	app.UsageText = "soundfetch [global options] <command> [arguments...]"
	app.Description = description
	app.Version = b.Version
	app.Writer = out
	app.ErrWriter = out
	app.Flags = globalFlags
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:   "init",
			Usage:  "download the sound catalog",
			Action: initCatalog,
			Flags:  initFlags,
		},
		{
			Name:    "scan",
			Aliases: []string{"s"},
			Usage:   "list catalog sounds whose files are missing",
			Action:  scan,
		},
		{
			Name:      "fetch",
			Aliases:   []string{"f"},
			Usage:     "download every missing sound",
			ArgsUsage: "[category ...]",
			Action:    fetch,
		},
		{
			Name:      "add",
			Aliases:   []string{"a"},
			Usage:     "download a sound from a URL into the custom catalog",
			ArgsUsage: "<url>",
			Action:    add,
			Flags:     addFlags,
		},
		{
			Name:    "history",
			Aliases: []string{"l"},
			Usage:   "show finished downloads",
			Action:  listHistory,
			Flags:   historyFlags,
		},
		{
			Name:   "tui",
			Usage:  "open the interactive download manager",
			Action: tui,
		},
		{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "print version information",
			Action: func(ctx *cli.Context) error {
				fmt.Fprintf(ctx.App.Writer, "%s %s (%s_%s)\nBuild: %s=%s\n",
					ctx.App.Name, b.Version, runtime.GOOS, runtime.GOARCH, b.Date, b.Commit)
				return nil
			},
		},
	}
	return app
}
