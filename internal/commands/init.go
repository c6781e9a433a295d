package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
)

const missingCatalogHint = "no sound catalog found; run `soundfetch init` to download it"

var initFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "url",
		Usage: "catalog source (default: paths.catalog_url or the published catalog)",
	},
	cli.BoolFlag{
		Name:  "force",
		Usage: "download even when a catalog is already installed",
	},
}

// initCatalog downloads the sound catalog into <data dir>/assets
func initCatalog(ctx *cli.Context) error {
	env, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer env.Close()

	out := ctx.App.Writer
	if !env.catalogMissing() && !ctx.Bool("force") {
		fmt.Fprintf(out, "catalog already installed at %s (use --force to replace it)\n", env.catalogPath)
		return nil
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := env.catalogDownloader(ctx.String("url"))
	env.logger.Info("downloading sound catalog", "url", d.URL())
	path, sounds, err := d.Download(sigCtx)
	if err != nil {
		env.logger.Error("catalog download failed", "url", d.URL(), "error", err)
		return cli.NewExitError(err, 1)
	}
	env.logger.Info("sound catalog installed", "path", path, "sounds", len(sounds))
	fmt.Fprintf(out, "installed catalog with %d sounds at %s\n", len(sounds), path)
	return nil
}
