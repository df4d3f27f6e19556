package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the embedded template when missing and,
// for the sqlite catalog, initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config file", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		if err := r.writePlain("✓ Created %s\n", configPath); err != nil {
			return err
		}
	}

	config, err := r.loadConfig(configPath)
	if err != nil {
		return err
	}

	if config.Catalog.Source == "sqlite" {
		r.logger.Info("initializing database", "path", config.Database.Path)

		db, err := shared.OpenCatalogDatabase(config.Database)
		if err != nil {
			return fmt.Errorf("failed to prepare catalog database: %w", err)
		}
		defer db.Close()

		if cmd.Bool("reset") {
			if err := resetCatalog(db); err != nil {
				return err
			}
			r.logger.Info("catalog reseeded")
		}

		version, err := shared.CurrentVersion(db)
		if err != nil {
			return err
		}
		if err := r.writePlain("✓ Catalog database ready at %s (schema version %d)\n", config.Database.Path, version); err != nil {
			return err
		}
	}

	if err := config.Validate(); err != nil {
		r.logger.Warn("configuration incomplete", "err", err)
		return r.writePlain("Next: fill in the missing keys in %s or set CLIENT_ID, CLIENT_SECRET, REDIRECT_URI and SESSION_SECRET\n", configPath)
	}

	return r.writePlain("✓ Configuration complete, run 'soundcheck serve'\n")
}

func resetCatalog(db *sql.DB) error {
	for {
		version, err := shared.CurrentVersion(db)
		if err != nil {
			return err
		}
		if version == 0 {
			break
		}
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
	}
	return shared.RunMigrations(db)
}
