package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/soundcheck/internal/formatter"
	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/desertthunder/soundcheck/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search exchanges client credentials and prints matching tracks.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	term := strings.TrimSpace(cmd.StringArg("term"))
	if term == "" {
		return fmt.Errorf("%w: search term", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	opts := services.ClientOpts{HTTPClient: r.httpClient, Logger: r.logger}
	auth, err := services.NewAuthenticator(config.Credentials.Spotify, opts)
	if err != nil {
		return err
	}

	token, err := auth.ClientCredentials(ctx)
	if err != nil {
		return err
	}

	tracks := services.NewSpotifyClient(config.Credentials.Spotify, opts).SearchTracks(ctx, token, term, cmd.Int("limit"))
	r.logger.Debug("search complete", "term", term, "results", len(tracks))

	return r.writeTracks(format, term, tracks)
}

func (r *Runner) writeTracks(format formatter.Format, term string, tracks []services.TrackResult) error {
	switch format {
	case formatter.FormatJSON:
		return r.writeJSON(tracks, true)
	case formatter.FormatCSV:
		data, err := formatter.TracksToCSV(tracks)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case formatter.FormatMarkdown:
		return r.writeBytes(formatter.TracksToMarkdown(term, tracks))
	case formatter.FormatText:
		return r.writeBytes(formatter.TracksToText(tracks))
	default:
		return r.writePlain("%s", ui.Styles.Tracks(term, tracks))
	}
}
