package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"theatre-booking/cmd"
	"theatre-booking/internal/data/repository"
	"theatre-booking/internal/wire"
	"theatre-booking/pkg/database"
	"theatre-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Bootstrap {
		if err := database.Bootstrap(ctx, db); err != nil {
			logger.Fatal("Failed to bootstrap schema", zap.Error(err))
		}
		logger.Info("Database schema ready")
	}

	rdb := connectRedis(ctx, config.Redis, logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app, err := wire.Wiring(repos, config, rdb, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := cmd.APIServer(ctx, app, repos, config, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

// connectRedis returns nil when Redis is not configured or not reachable.
// Rate limiting, caching and the event bus then fall back to local behaviour.
func connectRedis(ctx context.Context, cfg utils.RedisConfig, logger *zap.Logger) redis.UniversalClient {
	if !cfg.Enabled() {
		logger.Info("Redis not configured, running without cache and rate limiting")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable, continuing without it", zap.Error(err), zap.String("addr", cfg.Addr))
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr))
	return client
}
