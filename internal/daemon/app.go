// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/shortify/internal/app"
	"github.com/ManuGH/shortify/internal/config"
	xglog "github.com/ManuGH/shortify/internal/log"
)

// SweepInterval is how often idle sessions are evicted.
const SweepInterval = time.Minute

// App owns the long-lived runtime loops (config watcher, reload wiring,
// session sweeper) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	holder       *config.Holder
	sessions     *app.Registry
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator. holder and sessions may be nil.
func NewApp(logger zerolog.Logger, manager Manager, holder *config.Holder, sessions *app.Registry) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		holder:       holder,
		sessions:     sessions,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run starts all owned background loops and blocks until ctx is cancelled
// or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Best-effort: a missing watcher only disables hot reload.
	if a.holder != nil {
		if err := a.holder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}

		applyCh := make(chan config.Config, 1)
		a.holder.RegisterListener(applyCh)
		g.Go(func() error {
			defer a.holder.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-applyCh:
					xglog.Configure(xglog.Config{
						Level:   cfg.LogLevel,
						Service: "shortify",
						Version: cfg.Version,
					})
				}
			}
		})
	}

	if a.holder != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.logger.Info().
						Str("event", "config.reload_signal").
						Str("signal", a.reloadSignal.String()).
						Msg("received reload signal, reloading config")
					if err := a.holder.Reload(ctx); err != nil {
						a.logger.Warn().Err(err).Str("event", "config.reload_failed").Msg("config reload failed")
					}
				}
			}
		})
	}

	if a.sessions != nil {
		g.Go(func() error {
			a.sessions.Run(ctx, SweepInterval)
			return nil
		})
	}

	g.Go(func() error {
		return a.manager.Start(ctx)
	})

	return g.Wait()
}
