package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/uAvicii/0718/internal/adapter/postgres"
	memoryrepo "github.com/uAvicii/0718/internal/adapter/postgres/memory"
	profilerepo "github.com/uAvicii/0718/internal/adapter/postgres/profile"
	"github.com/uAvicii/0718/internal/adapter/resilient"
	"github.com/uAvicii/0718/internal/config"
	"github.com/uAvicii/0718/internal/metrics"
	"github.com/uAvicii/0718/internal/service/memory"
	"github.com/uAvicii/0718/internal/transport/middleware"
	"github.com/uAvicii/0718/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, prepares the
// database, loads the memory collection and serves HTTP until ctx is
// cancelled or SIGINT/SIGTERM arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Store.SkipMigrate {
		if err := Migrate(ctx, logger, cfg.Database.DSN); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Store.SeedOnEmpty {
		if err := seedIfEmpty(ctx, logger, pool, cfg.Store.SeedFile); err != nil {
			return err
		}
	}

	collector := metrics.NewCollector()
	guard := resilient.NewGuard("postgres", cfg.Resilience, logger, collector.BreakerStateChanged)
	store := memory.NewStore(logger,
		guard.Memories(memoryrepo.New(pool)),
		guard.Profiles(profilerepo.New(pool)),
		memory.WithObserver(collector),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      NewRouter(cfg, logger, pool, store, collector, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return initializeStore(gctx, logger, store)
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// NewRouter mounts every route and wraps them in the middleware chain.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	pool interface{ Ping(context.Context) error },
	store *memory.Store,
	collector *metrics.Collector,
	limiter *middleware.RateLimiter,
) http.Handler {
	mux := http.NewServeMux()

	rest.NewMemoryHandler(store, logger).Register(mux)
	rest.NewInsightHandler(store, logger).Register(mux)
	rest.NewHealthHandler(pool, store, BuildVersion()).Register(mux)

	rpm := cfg.RateLimit.RequestsPerMinute
	if cfg.RateLimit.Disabled {
		rpm = 0
	}

	var metricsMW middleware.Middleware
	if !cfg.Metrics.Disabled {
		mux.Handle("GET "+cfg.Metrics.Path, collector.Handler())
		metricsMW = middleware.Metrics(collector)
	}

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		metricsMW,
		middleware.CORS(cfg.CORS),
		limiter.Limit(rpm),
	)
	return chain(mux)
}

// initializeStore loads the collection, retrying until it succeeds or ctx
// ends. Requests are answered with 503 until then.
func initializeStore(ctx context.Context, logger *slog.Logger, store *memory.Store) error {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0

	err := backoff.RetryNotify(
		func() error { return store.Initialize(ctx) },
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logger.Warn("store initialization failed, retrying",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", next),
			)
		},
	)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
