package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"gamecatalog/internal/config"
	"gamecatalog/internal/domain"
	"gamecatalog/internal/httpapi"
	"gamecatalog/internal/publisher"
	"gamecatalog/internal/scheduler"
	"gamecatalog/internal/service"
	"gamecatalog/internal/source/store"
	"gamecatalog/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	if err := postgres.Migrate(ctx, db, logger); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Publisher stays a nil interface when disabled.
	var events service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	// Initialize stores
	txManager := postgres.NewTransactionManager(db)
	gameStore := postgres.NewGameStore(db, txManager)
	runStore := postgres.NewRunStore(db)

	android := store.NewClient(store.Config{
		Platform:     domain.PlatformAndroid,
		URL:          cfg.Stores.AndroidURL,
		Timeout:      cfg.Stores.Timeout,
		UserAgent:    cfg.Stores.UserAgent,
		MaxBodyBytes: cfg.Stores.MaxBodyBytes,
	}, logger)
	ios := store.NewClient(store.Config{
		Platform:     domain.PlatformIOS,
		URL:          cfg.Stores.IOSURL,
		Timeout:      cfg.Stores.Timeout,
		UserAgent:    cfg.Stores.UserAgent,
		MaxBodyBytes: cfg.Stores.MaxBodyBytes,
	}, logger)

	catalog := service.NewCatalogService(gameStore, events, logger)
	ingest := service.NewIngestService(android, ios, gameStore, runStore, events, logger)

	var sched *scheduler.Scheduler
	if cfg.Populate.Interval > 0 {
		sched = scheduler.NewScheduler(ingest, cfg.Populate.Interval, cfg.Populate.RunTimeout, logger)
	}

	handler := httpapi.NewHandler(catalog, ingest, runStore, logger)
	srv := &http.Server{
		Handler:      httpapi.NewRouter(handler, cfg.Server.StaticDir),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.Server.Addr, "error", err)
		os.Exit(1)
	}

	logger.Info("starting game catalog server",
		"addr", ln.Addr().String(),
		"android_url", cfg.Stores.AndroidURL,
		"ios_url", cfg.Stores.IOSURL,
		"populate_interval", cfg.Populate.Interval,
	)

	if err := run(ctx, srv, ln, sched, cfg.Server.ShutdownTimeout, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// run serves HTTP and runs the scheduler until ctx is cancelled. It returns
// only after in-flight requests have drained (or shutdownTimeout expired) and
// the scheduler has finished its current populate.
func run(
	ctx context.Context,
	srv *http.Server,
	ln net.Listener,
	sched *scheduler.Scheduler,
	shutdownTimeout time.Duration,
	logger *slog.Logger,
) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	if sched != nil {
		g.Go(func() error {
			if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("run scheduler: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
