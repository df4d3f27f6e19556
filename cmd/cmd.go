// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// serveCommand starts the web app
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand writes the config file and prepares the catalog database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and run catalog migrations",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Roll back every catalog migration and reseed",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles authentication helpers
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorization Code flow helpers",
		Commands: []*cli.Command{
			{
				Name:  "url",
				Usage: "Print the provider consent URL",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the URL in the default browser",
					},
				},
				Action: r.AuthURL,
			},
			{
				Name:   "check",
				Usage:  "Verify credentials with a client-credentials exchange",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthCheck,
			},
		},
	}
}

// searchCommand runs a catalog search with a client-credentials token
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the provider catalog for tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "term",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of tracks to return",
				Value:   5,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, json, csv, md, text",
				Value:   "table",
			},
		},
		Action: r.Search,
	}
}

// catalogCommand lists reference albums and songs
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "List albums and songs shown on the home page",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, json, csv, md, text",
				Value:   "table",
			},
		},
		Action: r.Catalog,
	}
}

// inspectCommand maps a saved provider response without calling the provider
func inspectCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Decode a saved /me or /search response body",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Response kind: profile or search",
				Value:   "search",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of tracks to map",
				Value:   5,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: table, json, csv, md, text",
				Value:   "table",
			},
		},
		Action: r.Inspect,
	}
}
