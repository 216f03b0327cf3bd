package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"

	"brewcart/internal/api"
	"brewcart/internal/config"
	"brewcart/internal/database"
	"brewcart/internal/inventory"
	"brewcart/internal/kvstore"
	"brewcart/internal/labels"
	"brewcart/internal/logging"
	"brewcart/internal/monitoring"
	"brewcart/internal/storage"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	port       = flag.Int("port", 0, "API server port (overrides config)")
	logSpec    = flag.String("log", "", "loggo logger specification (overrides config)")
)

var logger = logging.GetLogger("main")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		logger.Criticalf("%v", errors.Details(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return errors.Trace(err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logSpec != "" {
		cfg.Logging.Spec = *logSpec
	}
	if err := logging.Configure(cfg.Logging.Spec); err != nil {
		return errors.Trace(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warningf("closing store: %v", err)
		}
	}()

	monitor := monitoring.NewMonitor()
	svc, err := storage.NewService(storage.Config{Store: store, Clock: clock.WallClock, Monitor: monitor})
	if err != nil {
		return errors.Trace(err)
	}
	if cfg.Store.Seed {
		if err := svc.SeedDefaults(ctx); err != nil {
			return errors.Trace(err)
		}
	}
	settings := svc.Settings(ctx)
	logger.Infof("settings at schema version %d", settings.Schema())

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(api.Config{
		Storage:     svc,
		Inventory:   inventory.NewService(svc, clock.WallClock, monitor),
		Labels:      labels.NewDispatcher(svc, labels.LogPrinter{}, labels.NewFormatter(cfg.Labels)),
		Monitor:     monitor,
		MetricsPath: metricsPath,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Infof("shutting down")
		server.Feed().Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("API server shutdown: %v", err)
		}
		cancel()
	}()

	logger.Infof("starting API server on port %d (%s store)", cfg.Server.Port, cfg.Store.Backend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Annotate(err, "API server")
	}
	return nil
}

// openStore opens the configured key-value backend.
func openStore(ctx context.Context, cfg config.Config) (kvstore.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Annotatef(err, "connecting to redis at %s", cfg.Redis.Addr)
		}
		logger.Infof("using redis store at %s", cfg.Redis.Addr)
		return kvstore.NewRedisStore(client, cfg.Redis.Prefix), nil
	default:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, errors.Trace(err)
		}
		store, err := kvstore.NewSQLStore(db)
		if err != nil {
			_ = db.Close()
			return nil, errors.Trace(err)
		}
		return store, nil
	}
}
