package commands

import (
	"context"

	"github.com/urfave/cli"

	"github.com/ytget/soundfetch/internal/model"
	"github.com/ytget/soundfetch/internal/ui"
)

func tui(ctx *cli.Context) error {
	env, err := newEnvironment(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer env.Close()

	return ui.Run(ui.Options{
		Controller:      env.newController(false),
		Sounds:          env.library.Sounds,
		AutoStart:       env.settings.Download.AutoAdvance,
		CatalogMissing:  env.catalogMissing() && env.library.Len() == 0,
		DownloadCatalog: env.installCatalog,
		Logger:          env.logger,
	})
}

// installCatalog downloads the catalog and makes its sounds available
func (e *environment) installCatalog(ctx context.Context) ([]model.Sound, error) {
	d := e.catalogDownloader("")
	path, sounds, err := d.Download(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sounds {
		e.library.Register(s)
	}
	e.catalogPath = path
	e.logger.Info("sound catalog installed", "path", path, "sounds", len(sounds))
	return sounds, nil
}
