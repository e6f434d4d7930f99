package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/auth"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/catalog"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/config"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/db"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/events"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/http/handlers"
	rl "github.com/Akashpkm/STOCKMANAGEMENT/internal/http/rate_limiter"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/http/router"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/inventory"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/logger"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/metrics"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/repo"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/session"
	"github.com/Akashpkm/STOCKMANAGEMENT/internal/sheetdb"
)

// @title Stock Management API
// @version 1.0
// @description Product parts inventory backed by a remote spreadsheet store.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer lg.Sync()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()

	users, parts, history, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		lg.Info("publishing sync events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	entries := catalog.All()
	loader := inventory.NewLoader(parts, entries, lg, reg)
	syncer := inventory.NewSynchronizer(parts,
		inventory.WithHistory(history),
		inventory.WithPublisher(publisher),
		inventory.WithLogger(lg),
		inventory.WithMetrics(reg),
		inventory.WithRetry(inventory.RetryPolicy{
			MaxAttempts:    cfg.Sync.MaxAttempts,
			InitialBackoff: cfg.Sync.InitialBackoff,
			MaxBackoff:     cfg.Sync.MaxBackoff,
		}),
	)
	state := inventory.NewState(loader, syncer, entries, lg)
	defer state.Close()

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	state.Load(loadCtx)
	cancel()

	authService := auth.NewService(users, sessions, auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL), lg, reg)
	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute, 5*time.Minute)

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: router.NewRouter(router.Options{
			Server:  handlers.NewServer(state, authService, history, lg),
			Limiter: limiter,
			Metrics: reg,
			Logger:  lg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server running", zap.String("addr", cfg.HTTP.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		lg.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http shutdown", zap.Error(err))
	}
	// let queued part writes reach the store before the process exits
	state.Wait()
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (users, parts repo.Table, history repo.SyncRunRepository, closeFn func(), err error) {
	closeFn = func() {}

	switch cfg.Store.Backend {
	case "sheetdb":
		// one account serves both sheets, so they share one request budget
		opts := []sheetdb.Option{
			sheetdb.WithHTTPClient(&http.Client{Timeout: cfg.SheetDB.Timeout}),
			sheetdb.WithLimiter(sheetdb.NewLimiter(cfg.SheetDB.RPS, 1)),
		}
		if cfg.SheetDB.Token != "" {
			opts = append(opts, sheetdb.WithToken(cfg.SheetDB.Token))
		}
		users = sheetdb.New(cfg.SheetDB.UsersURL, opts...)
		parts = sheetdb.New(cfg.SheetDB.PartsURL, opts...)
		history = repo.NewInMemorySyncRunRepository()

	case "postgres":
		var database *sql.DB
		database, err = db.Connect(cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, closeFn, fmt.Errorf("could not connect to database: %w", err)
		}
		closeFn = func() { database.Close() }

		if err = repo.EnsureSchema(ctx, database); err != nil {
			return nil, nil, nil, closeFn, err
		}
		runs := repo.NewPostgresSyncRunRepository(database)
		if err = runs.EnsureSchema(ctx); err != nil {
			return nil, nil, nil, closeFn, err
		}
		users = repo.NewPostgresTable(database, repo.ResourceUsers)
		parts = repo.NewPostgresTable(database, repo.ResourceProductParts)
		history = runs

	case "memory":
		users = repo.NewInMemoryTable()
		parts = repo.NewInMemoryTable()
		history = repo.NewInMemorySyncRunRepository()

	default:
		return nil, nil, nil, closeFn, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	lg.Info("tabular store ready", zap.String("backend", cfg.Store.Backend))
	return users, parts, history, closeFn, nil
}

func openSessions(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("could not connect to Redis: %w", err)
		}
		return session.NewRedisStore(rdb, cfg.Session.TTL), nil
	case "pebble":
		return session.NewPebbleStore(cfg.Pebble.Dir)
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
