package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/soundcheck/internal/server"
	"github.com/desertthunder/soundcheck/internal/services"
	"github.com/desertthunder/soundcheck/internal/session"
	"github.com/desertthunder/soundcheck/internal/shared"
	"github.com/desertthunder/soundcheck/internal/web"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// SweepInterval is how often expired in-memory sessions are purged.
const SweepInterval = 5 * time.Minute

// app is the assembled web application.
type app struct {
	handler  http.Handler
	metrics  *server.Metrics
	sessions session.Store
	closers  []func() error
}

// Close releases the catalog database and redis connection, if any.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Serve validates configuration and runs the web server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if cmd.IsSet("port") {
		config.Server.Port = cmd.Int("port")
	}
	if err := shared.SetLogLevel(r.logger, cmd.String("log-level")); err != nil {
		return err
	}

	if err := config.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := r.buildApp(ctx, config)
	if err != nil {
		return err
	}
	defer a.Close()

	r.logger.Info("configuration loaded",
		"spotify", config.Credentials.Spotify,
		"session_backend", config.Session.Backend,
		"catalog", config.Catalog.Source,
	)

	srv := server.NewServer(config.Server, a.handler, r.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })

	if mem, ok := a.sessions.(*session.MemoryStore); ok {
		g.Go(func() error { return r.sweepSessions(gctx, mem, SweepInterval) })
	}

	return g.Wait()
}

// buildApp wires configuration into the services, stores, dispatcher and router.
func (r *Runner) buildApp(ctx context.Context, config *shared.Config) (*app, error) {
	a := &app{metrics: server.NewMetrics()}

	opts := services.ClientOpts{HTTPClient: r.httpClient, Logger: r.logger, Observer: a.metrics}
	auth, err := services.NewAuthenticator(config.Credentials.Spotify, opts)
	if err != nil {
		return nil, err
	}
	api := services.NewSpotifyClient(config.Credentials.Spotify, opts)

	store, closeCatalog, err := r.openCatalog(config)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeCatalog)

	switch config.Session.Backend {
	case "redis":
		client, err := session.NewRedisClient(ctx, config.Session.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.sessions = session.NewRedisStore(client)
	default:
		a.sessions = session.NewMemoryStore()
	}

	manager, err := session.NewManager(a.sessions, config.Server.SessionSecret, session.ManagerOpts{
		TTL:    config.Session.TTL(),
		Cookie: session.CookieOptions{Secure: config.Session.SecureCookie},
		Logger: r.logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		a.Close()
		return nil, err
	}

	dispatcher := web.NewDispatcher(auth, api, store, manager, renderer, web.DispatcherOpts{
		Logger:      r.logger,
		SearchGuard: server.RateLimit(server.NewLimiter(config.Server.SearchRateLimit, config.Server.SearchBurst)),
	})

	router := server.NewBasicRouter()
	router.Handle(http.MethodGet, "/healthz", server.HealthHandler())
	router.Handle(http.MethodGet, "/metrics", a.metrics.Handler())

	router.Use(
		server.RequestID(),
		server.Logging(r.logger),
		server.Recover(r.logger),
		a.metrics.Middleware(),
		manager.Middleware(),
	)
	dispatcher.Register(router)

	a.handler = router
	return a, nil
}

func (r *Runner) sweepSessions(ctx context.Context, store *session.MemoryStore, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				r.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
