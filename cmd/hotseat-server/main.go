// Package main implements the hotseat server: a REST API over in-memory
// chess sessions with an optional SQL archive and theme preferences.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotseat/cmd/hotseat-server/cli"
	"hotseat/internal/config"
	"hotseat/internal/obslog"
	"hotseat/internal/prefs"
	"hotseat/internal/processor"
	"hotseat/internal/service"
	"hotseat/internal/storage"
	"hotseat/internal/transport/http"

	"go.uber.org/zap"
)

const gracefulShutdownTimeout = 5 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "db: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		obslog.L().Error("server exited with error", zap.Error(err))
		obslog.Sync()
		fmt.Fprintf(os.Stderr, "hotseat-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "YAML config file")
		host       = flag.String("host", "", "API server host")
		port       = flag.Int("port", 0, "API server port")
		dev        = flag.Bool("dev", false, "Development mode (relaxed rate limits)")
		driver     = flag.String("storage-driver", "", "Archive driver: sqlite or postgres")
		dsn        = flag.String("storage-dsn", "", "SQLite path or PostgreSQL URL (archive disabled if empty)")
		prefsKind  = flag.String("prefs", "", "Preference backend: memory or redis")
		redisAddr  = flag.String("redis-addr", "", "Redis address for the redis preference backend")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
		pidPath    = flag.String("pid", "", "Optional path to write PID file")
		pidLock    = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	if *pidLock && *pidPath == "" {
		return errors.New("-pid-lock requires -pid")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// explicit flags override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		case "dev":
			cfg.Server.Dev = *dev
		case "storage-driver":
			cfg.Storage.Driver = *driver
		case "storage-dsn":
			cfg.Storage.DSN = *dsn
		case "prefs":
			cfg.Prefs.Backend = *prefsKind
		case "redis-addr":
			cfg.Prefs.RedisAddr = *redisAddr
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := obslog.InitFromEnv(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer obslog.Sync()
	logger := obslog.L().Named("server")

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			return fmt.Errorf("failed to manage PID file: %w", err)
		}
		defer cleanup()
		logger.Info("PID file created", zap.String("path", *pidPath), zap.Bool("lock", *pidLock))
	}

	// 1. Archive (optional)
	var archive service.Archiver
	if cfg.Storage.DSN != "" {
		store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN, cfg.Server.Dev)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		archive = store
		logger.Info("archive enabled", zap.String("driver", store.Driver()))
	} else {
		logger.Info("archive disabled (set storage.dsn or -storage-dsn to enable)")
	}

	// 2. Preferences
	var themes prefs.Store
	switch cfg.Prefs.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		rdb, err := prefs.DialRedis(ctx, cfg.Prefs.RedisAddr, cfg.Prefs.RedisPassword, cfg.Prefs.RedisDB)
		cancel()
		if err != nil {
			if archive != nil {
				archive.Close()
			}
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		themes = prefs.NewRedisStore(rdb, cfg.Prefs.TTL)
		logger.Info("preferences in redis", zap.String("addr", cfg.Prefs.RedisAddr))
	default:
		themes = prefs.NewMemoryStore(cfg.Prefs.TTL)
	}

	// 3. Service, processor and HTTP app
	svc := service.New(archive, service.Options{
		MaxSessions: cfg.Server.MaxSessions,
		WaitTimeout: service.DefaultWaitTimeout,
	})
	proc := processor.New(svc, themes)
	app := http.NewFiberApp(proc, svc, http.Options{
		Dev:       cfg.Server.Dev,
		RateLimit: cfg.Server.RateLimit,
	})

	addr := cfg.Addr()
	listenErr := make(chan error, 1)
	go func() {
		logger.Info("hotseat API server starting",
			zap.String("addr", "http://"+addr),
			zap.Bool("dev", cfg.Server.Dev),
			zap.Int("max_sessions", cfg.Server.MaxSessions),
			zap.String("storage", svc.StorageHealth()),
		)
		listenErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	var errs []error
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-listenErr:
		if err != nil {
			errs = append(errs, fmt.Errorf("listen: %w", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	// release long polls before the listener drains
	if err := svc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("service close: %w", err))
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	logger.Info("server exited")
	return errors.Join(errs...)
}
