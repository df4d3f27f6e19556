package main

import (
	"context"
	"time"

	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/urfave/cli/v3"
)

func (r *Runner) authenticator(configPath string) (*services.Authenticator, error) {
	config, err := r.loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return services.NewAuthenticator(config.Credentials.Spotify, services.ClientOpts{
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})
}

// AuthURL prints the Authorization Code consent URL and optionally opens it.
func (r *Runner) AuthURL(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authenticator(cmd.String("config"))
	if err != nil {
		return err
	}

	url := auth.AuthorizationURL()
	if err := r.writePlain("%s\n", url); err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := r.openURL(url); err != nil {
			r.logger.Warn("could not open browser", "err", err)
		}
	}
	return nil
}

// AuthCheck performs one client-credentials exchange to verify the configured app credentials.
func (r *Runner) AuthCheck(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authenticator(cmd.String("config"))
	if err != nil {
		return err
	}

	token, err := auth.ClientCredentials(ctx)
	if err != nil {
		return err
	}

	if token.Expiry.IsZero() {
		return r.writePlain("✓ Credentials accepted\n")
	}
	return r.writePlain("✓ Credentials accepted (token valid for %s)\n", time.Until(token.Expiry).Round(time.Second))
}
