package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/apparelops/lot-tracker/internal/analytics"
	"github.com/apparelops/lot-tracker/internal/auth"
	"github.com/apparelops/lot-tracker/internal/code"
	"github.com/apparelops/lot-tracker/internal/config"
	"github.com/apparelops/lot-tracker/internal/db"
	router "github.com/apparelops/lot-tracker/internal/http"
	"github.com/apparelops/lot-tracker/internal/http/handlers"
	rl "github.com/apparelops/lot-tracker/internal/http/rate_limiter"
	"github.com/apparelops/lot-tracker/internal/labels"
	"github.com/apparelops/lot-tracker/internal/metrics"
	"github.com/apparelops/lot-tracker/internal/repo"
	"github.com/apparelops/lot-tracker/internal/scan"
	"github.com/apparelops/lot-tracker/pkg/logger"
)

// @title Apparel Lot Tracker API
// @version 1.0
// @description Inventory tracker for apparel lots: restock/create merge, scan-driven sales, label sheets and turnover analytics.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("lot-tracker", cfg.Environment == "development")
	logger.SetLevel(cfg.LogLevel)

	auth.SetSecret(cfg.JWTSecret)
	go rl.StartVisitorCleanupLoop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := newSnapshotStore(ctx, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("store", cfg.Store).Msg("could not open snapshot store")
	}
	defer cleanup()

	inventory, err := repo.NewInventoryRepository(ctx, store, code.NewGenerator())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("could not load inventory")
	}
	go inventory.StartRefreshLoop(ctx, cfg.RefreshInterval)

	scanMetrics := metrics.NewScanMetrics()
	scanManager := scan.NewManager(inventory, scanMetrics, scan.Config{
		SaleCooldown:    cfg.SaleCooldown,
		FailureCooldown: cfg.FailureCooldown,
	})
	defer scanManager.StopAll()

	handlers.SetInventoryRepo(inventory)
	handlers.SetUserRepo(repo.NewInMemoryUserRepository())
	handlers.SetScanManager(scanManager)
	handlers.SetCodeRenderer(labels.NewQRRenderer())
	handlers.SetTrendSource(analytics.NewStubTrendSource(uint64(os.Getpid())))

	server := &http.Server{Addr: cfg.Addr, Handler: router.NewRouter()}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	logger.Logger.Info().Str("addr", cfg.Addr).Str("store", cfg.Store).Msg("server running")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Logger.Fatal().Err(err).Msg("server failed")
	}
}

func newSnapshotStore(ctx context.Context, cfg config.Config) (repo.SnapshotStore, func(), error) {
	switch cfg.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		return repo.NewRedisSnapshotStore(rdb, cfg.InventoryKey), func() { rdb.Close() }, nil

	case "postgres":
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := repo.NewPostgresSnapshotStore(database, cfg.InventoryKey)
		if err := store.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("could not migrate slot table: %w", err)
		}
		return store, func() { database.Close() }, nil

	case "memory":
		return repo.NewMemorySnapshotStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}
