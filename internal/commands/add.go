package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/ytget/soundfetch/internal/download"
)

var addFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "name, n",
		Usage: "display name of the sound (required)",
	},
	cli.StringFlag{
		Name:  "category, c",
		Usage: "catalog category (required)",
	},
	cli.StringFlag{
		Name:  "icon, i",
		Usage: "icon shown next to the sound",
	},
	cli.StringFlag{
		Name:  "file, f",
		Usage: "output file name; required with --direct",
	},
	cli.BoolFlag{
		Name:  "direct, d",
		Usage: "download with a plain HTTP GET instead of yt-dlp",
	},
}

func add(ctx *cli.Context) error {
	env, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer env.Close()

	form := &download.AdmissionForm{
		Name:     ctx.String("name"),
		Category: ctx.String("category"),
		Icon:     ctx.String("icon"),
		URL:      ctx.Args().First(),
	}
	controller := env.newController(ctx.Bool("direct"))

	task, err := controller.Admit(form)
	var verr *download.ValidationError
	if errors.As(err, &verr) {
		return cli.NewExitError(download.StatusFieldsRequired, 2)
	}
	if err != nil {
		return err
	}
	if file := strings.TrimSpace(ctx.String("file")); file != "" {
		task.TargetFilename = file
	}
	fmt.Fprintln(ctx.App.Writer, download.StatusQueued)

	return runQueue(controller, ctx.App.Writer)
}
