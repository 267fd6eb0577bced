package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifesim-server/internal/auth"
	"lifesim-server/internal/character"
	"lifesim-server/internal/event"
	"lifesim-server/internal/game"
	"lifesim-server/internal/middleware"
	"lifesim-server/internal/player"
	"lifesim-server/internal/server"
	serverHandlers "lifesim-server/internal/server/handlers"
	"lifesim-server/internal/shared/config"
	"lifesim-server/internal/shared/database"
	"lifesim-server/internal/shared/logger"
	"lifesim-server/internal/shared/redis"
	"lifesim-server/internal/storage"
)

const cleanupInterval = 5 * time.Minute

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := db.RunMigrations(ctx, cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb, err := redis.Connect(ctx)
	if err != nil {
		log.Warn("Redis unavailable, save cache disabled", "error", err)
		rdb = nil
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close Redis", "error", err)
		}
	}()

	store, err := buildStore(db, rdb, cfg)
	if err != nil {
		return err
	}

	events, err := event.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("failed to load event catalog: %w", err)
	}
	levels := game.DefaultLevels()

	engine := character.NewEngine(nil, cfg.Game.DeathChanceEnabled)
	ledger := game.NewLedger(levels, cfg.Game.DailyRewardAmount, cfg.Game.DailyRewardCooldown)
	gameService, err := game.NewService(store, engine, events, ledger, game.Options{
		YearsPerChoice:    cfg.Game.YearsPerChoice,
		RewindCostPerStep: cfg.Game.RewindCostPerStep,
		StartingCrystals:  cfg.Game.StartingCrystals,
		SessionCacheSize:  cfg.Game.SessionCacheSize,
	}, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create game service: %w", err)
	}

	playerService := player.NewService(player.NewRepository(db.DB), slog.Default())
	authService := auth.NewService(auth.NewRepository(db), playerService, slog.Default())
	providers := auth.InitOAuth()

	limits := middleware.RateLimitConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		TrustProxy:        cfg.RateLimit.TrustProxy,
	}
	ipLimiter := middleware.NewRateLimiter(limits)
	playerLimiter := middleware.NewPlayerRateLimiter(limits)

	go ipLimiter.StartCleanup(ctx, cleanupInterval)
	go playerLimiter.StartCleanup(ctx, cleanupInterval)
	go auth.GlobalStateManager().StartCleanup(ctx, cleanupInterval)

	health := serverHandlers.NewHealthHandler(
		serverHandlers.PingFunc(db.PingContext),
		cachePinger(rdb),
	)

	routes := server.NewRoutes(health, playerService, authService, gameService, events, levels, providers, playerLimiter, slog.Default())
	mux := routes.Setup()
	handler := middleware.NewCORS(routes.Methods()).Middleware(ipLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("LifeSim server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"events", events.Len(),
			"levels", levels.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// buildStore layers the save store: Postgres, then the Redis read-through
// cache, then encryption on top so only ciphertext reaches either backend.
func buildStore(db *database.DB, rdb *redis.Client, cfg *config.Config) (storage.Store, error) {
	var store storage.Store = storage.NewPostgresStore(db, slog.Default())

	if rdb != nil {
		store = storage.NewCachedStore(store, rdb.Client, cfg.Redis.CacheTTL, slog.Default())
	}

	key, err := cfg.Game.EncryptionKey()
	if err != nil {
		return nil, err
	}
	if key != nil {
		sealed, err := storage.NewSealedStore(store, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create sealed store: %w", err)
		}
		store = sealed
	}

	return store, nil
}

func cachePinger(rdb *redis.Client) serverHandlers.Pinger {
	if rdb == nil {
		return nil
	}
	return serverHandlers.PingFunc(func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
}
