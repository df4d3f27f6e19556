package main

import (
	"context"

	"github.com/desertthunder/soundcheck/internal/formatter"
	"github.com/desertthunder/soundcheck/internal/ui"
	"github.com/urfave/cli/v3"
)

// Catalog prints the configured catalog's albums and songs.
func (r *Runner) Catalog(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	store, closeStore, err := r.openCatalog(config)
	if err != nil {
		return err
	}
	defer closeStore()

	albums, err := store.Albums()
	if err != nil {
		return err
	}
	songs, err := store.Songs()
	if err != nil {
		return err
	}

	switch format {
	case formatter.FormatJSON:
		return r.writeJSON(map[string]any{"albums": albums, "songs": songs}, true)
	case formatter.FormatCSV:
		data, err := formatter.CatalogToCSV(albums, songs)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case formatter.FormatMarkdown:
		return r.writeBytes(formatter.CatalogToMarkdown(albums, songs))
	case formatter.FormatText:
		return r.writeBytes(formatter.CatalogToText(albums, songs))
	default:
		return r.writePlain("%s\n%s", ui.Styles.Albums(albums), ui.Styles.Songs(songs))
	}
}
