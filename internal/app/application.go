// Package app wires the engine together: configuration, logging, routing,
// sessions, dispatch, and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"

	"github.com/yoguido/yoguido/internal/config"
	"github.com/yoguido/yoguido/internal/dispatch"
	"github.com/yoguido/yoguido/internal/logging"
	"github.com/yoguido/yoguido/internal/router"
	"github.com/yoguido/yoguido/internal/server"
	"github.com/yoguido/yoguido/internal/session"
)

// Options controls application construction.
type Options struct {
	// ConfigPath is the optional config file. Empty runs on defaults plus
	// environment overrides.
	ConfigPath string

	// WatchConfig reloads the config file on change. Only the log level is
	// applied hot; other settings need a restart.
	WatchConfig bool
}

// Application owns the engine's wired components and their lifecycle.
type Application struct {
	opts    Options
	cfg     *config.Config
	logger  *logging.Logger
	routes  *router.Registry
	session *session.Manager
	srv     *server.Server
}

// New loads configuration and wires the engine. Pages are registered on
// Routes before Run.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(logging.LoggerConfig{
		Level:  logging.ParseLogLevel(cfg.Logging.Level),
		Prefix: cfg.Logging.Prefix,
	})

	routes := router.NewRegistry()

	sessions := session.NewManager(session.Config{
		TTL:           cfg.Session.TTL.Std(),
		SweepInterval: cfg.Session.SweepInterval.Std(),
	})

	dispatcher := dispatch.New(dispatch.Config{
		HandlerTimeout: cfg.Dispatch.HandlerTimeout.Std(),
		RecoverPanics:  cfg.Dispatch.RecoverPanics,
	}, routes, logger)

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
	}, sessions, dispatcher, logger)

	return &Application{
		opts:    opts,
		cfg:     cfg,
		logger:  logger,
		routes:  routes,
		session: sessions,
		srv:     srv,
	}, nil
}

// Routes returns the route registry for page registration.
func (a *Application) Routes() *router.Registry { return a.routes }

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger { return a.logger }

// Config returns the loaded configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// Sessions returns the session manager.
func (a *Application) Sessions() *session.Manager { return a.session }

// Server returns the HTTP server.
func (a *Application) Server() *server.Server { return a.srv }

// Run serves until the context is canceled. The session sweep and the
// optional config watcher run for the duration.
func (a *Application) Run(ctx context.Context) error {
	a.logger.Info("starting with %d routes", len(a.routes.Paths()))

	a.session.Start()
	defer a.session.Stop()

	if a.opts.WatchConfig && a.opts.ConfigPath != "" {
		watcher, err := config.NewWatcher(a.opts.ConfigPath, a.applyConfig, func(err error) {
			a.logger.Warn("config reload failed: %v", err)
		})
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer watcher.Close()
	}

	return a.srv.ListenAndServe(ctx)
}

// applyConfig hot-applies the reloadable subset of a changed configuration.
func (a *Application) applyConfig(cfg *config.Config) {
	a.logger.SetLevel(logging.ParseLogLevel(cfg.Logging.Level))
	a.logger.Info("config reloaded, log level now %s", cfg.Logging.Level)
}
