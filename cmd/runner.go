package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundcheck/internal/catalog"
	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	getenv     func(string) string
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used instead of reading the --config file.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Getenv     func(string) string
	OpenURL    func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		getenv:     opts.Getenv,
		openURL:    opts.OpenURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, authCommand, searchCommand, catalogCommand, inspectCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads path (falling back to defaults when it does not exist), then applies
// environment overrides and the configured log level.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	var config *shared.Config

	switch {
	case r.config != nil:
		copied := *r.config
		config = &copied
	case path != "":
		if _, err := os.Stat(path); err == nil {
			if config, err = shared.LoadConfig(path); err != nil {
				return nil, err
			}
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
	}

	if config == nil {
		config = shared.DefaultConfig()
	}

	config.ApplyEnv(r.getenv)
	if err := shared.SetLogLevel(r.logger, config.Log.Level); err != nil {
		return nil, err
	}

	return config, nil
}

// openCatalog returns the configured catalog store and a close function.
func (r *Runner) openCatalog(config *shared.Config) (catalog.Store, func() error, error) {
	if config.Catalog.Source != "sqlite" {
		return catalog.Default(), func() error { return nil }, nil
	}

	db, err := shared.OpenCatalogDatabase(config.Database)
	if err != nil {
		return nil, nil, err
	}
	r.logger.Debug("catalog database opened", "path", config.Database.Path)
	return catalog.NewSQLiteStore(db), db.Close, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
