// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ManuGH/shortify/internal/api"
	"github.com/ManuGH/shortify/internal/app"
	"github.com/ManuGH/shortify/internal/cache"
	"github.com/ManuGH/shortify/internal/config"
	"github.com/ManuGH/shortify/internal/daemon"
	"github.com/ManuGH/shortify/internal/health"
	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/prefs"
	"github.com/ManuGH/shortify/internal/ratelimit"
	"github.com/ManuGH/shortify/internal/telemetry"
	"github.com/ManuGH/shortify/internal/theme"
	"github.com/ManuGH/shortify/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(runConfigCLI(os.Args[2:]))
		case "storage":
			os.Exit(runStorageCLI(os.Args[2:]))
		case "healthcheck":
			os.Exit(runHealthcheckCLI(os.Args[2:]))
		}
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before reading SHORTIFY_* variables")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "shortify",
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	if err := loadEnvFile(*envFile); err != nil {
		logger.Fatal().Err(err).Str("event", "config.env_file_failed").Str("path", *envFile).Msg("failed to load env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := strings.TrimSpace(*configPath)
	if path == "" {
		path = config.ParseString(config.EnvPrefix+"CONFIG", "")
	}

	loader := config.NewLoader(path, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: "shortify",
		Version: cfg.Version,
	})

	if path != "" {
		logger.Info().Str("event", "config.loaded").Str("source", "file").Str("path", path).Msg("loaded configuration from file")
	} else {
		logger.Info().Str("event", "config.loaded").Str("source", "env+defaults").Msg("loaded configuration from environment and defaults")
	}

	if err := health.PerformStartupChecks(ctx, health.StartupInput{
		ListenAddr:     cfg.ListenAddr,
		StorageBackend: cfg.Storage.Backend,
		StorageDir:     cfg.Storage.Path,
		CacheBackend:   cfg.Cache.Backend,
		RedisAddr:      cfg.Cache.RedisAddr,
	}); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.check_failed").
			Msg("startup checks failed, verify configuration and permissions")
	}

	if err := run(ctx, cfg, loader); err != nil {
		logger.Fatal().Err(err).Str("event", "daemon.failed").Msg("daemon failed")
	}
	logger.Info().Msg("server exiting")
}

// loadEnvFile applies a dotenv file without overriding the real environment.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func run(ctx context.Context, cfg config.Config, loader *config.Loader) error {
	logger := xglog.WithComponent("daemon")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "shortify",
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	store, err := prefs.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return errors.Join(fmt.Errorf("open preference store: %w", err), tp.Shutdown(context.WithoutCancel(ctx)))
	}

	metaCache, err := cache.New(daemon.CacheConfig(cfg.Cache), xglog.WithComponent("cache"))
	if err != nil {
		return errors.Join(fmt.Errorf("metadata cache: %w", err), store.Close(), tp.Shutdown(context.WithoutCancel(ctx)))
	}

	holder := config.NewHolder(cfg, loader)
	themes := theme.NewService(store)
	sessions := app.NewRegistry(daemon.SessionFactory(holder, metaCache, themes), cfg.Session.IdleTimeout)

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewPingChecker("preferences", store.Ping))
	if rc, ok := metaCache.(*cache.RedisCache); ok {
		hm.RegisterChecker(health.NewPingChecker("redis", rc.HealthCheck).Optional())
	}
	hm.RegisterChecker(health.NewSessionsChecker(sessions.Len))

	tracing := ""
	if tp.Enabled() {
		tracing = "shortify"
	}
	srv := api.New(api.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		CookieSecure:   config.ParseBool(config.EnvPrefix+"COOKIE_SECURE", false),
		TracingService: tracing,
	}, api.Deps{
		Sessions: sessions,
		Health:   hm,
		Limiter:  ratelimit.New(daemon.LimiterConfig(cfg.RateLimit)),
	})

	mgr, err := daemon.NewManager(daemon.DefaultServerConfig(cfg.ListenAddr), daemon.Deps{
		Logger:     logger,
		APIHandler: srv.Handler(),
	})
	if err != nil {
		return errors.Join(err, metaCache.Close(), store.Close(), tp.Shutdown(context.WithoutCancel(ctx)))
	}

	// LIFO: pushes and flows drain before the stores they write to close.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	mgr.RegisterShutdownHook("preferences", func(context.Context) error { return store.Close() })
	mgr.RegisterShutdownHook("cache", func(context.Context) error { return metaCache.Close() })
	mgr.RegisterShutdownHook("flows", func(ctx context.Context) error {
		srv.Close()
		return srv.Drain(ctx)
	})

	logger.Info().
		Str("event", "startup").
		Str("version", cfg.Version).
		Str("commit", version.Commit).
		Str("addr", cfg.ListenAddr).
		Str("storage", cfg.Storage.Backend).
		Str("cache", cfg.Cache.Backend).
		Bool("tracing", tp.Enabled()).
		Msg("starting shortify")

	return daemon.NewApp(logger, mgr, holder, sessions).Run(ctx)
}
