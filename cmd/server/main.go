package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nohumanman/desc-comp-toolkit/internal/api"
	"github.com/nohumanman/desc-comp-toolkit/internal/factory"
	"github.com/nohumanman/desc-comp-toolkit/internal/presence"
	"github.com/nohumanman/desc-comp-toolkit/internal/server"
	redisstorage "github.com/nohumanman/desc-comp-toolkit/internal/storage/redis"
)

func main() {
	// Env vars win over .env; a missing .env is fine
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		SteamAPIKey: os.Getenv("STEAM_API_KEY"),
		LogDir:      os.Getenv("PLAYER_LOG_DIR"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Configure NATS presence if a URL is given
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		natsCfg := presence.DefaultNATSConfig()
		natsCfg.URL = natsURL
		cfg.NATSConfig = &natsCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	// Create the game server
	gameCfg := server.DefaultConfig()
	if port := envInt("GAME_PORT"); port != 0 {
		gameCfg.Port = port
	}
	if grace := envInt("AUTH_GRACE_SECONDS"); grace != 0 {
		gameCfg.AuthGrace = time.Duration(grace) * time.Second
	}
	gameServer := server.New(gameCfg, app.SessionDeps(), logger)

	// Create the ops API server
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Store:      app.Storage,
		Sessions:   app.Registry,
		AdminToken: os.Getenv("ADMIN_TOKEN"),
	})
	apiCfg := api.DefaultServerConfig()
	if port := envInt("HTTP_PORT"); port != 0 {
		apiCfg.Port = port
	}
	apiServer := api.NewServer(apiRouter, apiCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start both servers
	errCh := make(chan error, 2)
	go func() {
		errCh <- gameServer.Start(ctx)
	}()
	go func() {
		errCh <- apiServer.Start()
	}()

	logger.Info("server started",
		slog.String("game_addr", gameServer.Addr()),
		slog.String("http_addr", apiServer.Addr()),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	if err := gameServer.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := apiServer.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func envInt(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("ignoring non-numeric env var", slog.String("key", key), slog.String("value", raw))
		return 0
	}
	return v
}
