package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/soundcheck/internal/formatter"
	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/desertthunder/soundcheck/internal/ui"
	"github.com/urfave/cli/v3"
)

// Inspect decodes a saved /me or /search response body and prints the mapped records.
func (r *Runner) Inspect(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: response file", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch kind := cmd.String("kind"); kind {
	case "profile":
		profile, err := services.ParseProfile(data)
		if err != nil {
			return err
		}
		if format == formatter.FormatJSON {
			return r.writeJSON(profile, true)
		}
		return r.writePlain("%s", ui.Styles.Profile(profile))
	case "search":
		tracks, err := services.ParseTracks(data, cmd.Int("limit"))
		if err != nil {
			return err
		}
		return r.writeTracks(format, filepath.Base(path), tracks)
	default:
		return fmt.Errorf("%w: unknown kind %q (want profile or search)", shared.ErrInvalidArgument, kind)
	}
}
