package main

import (
	"context"
	"log"
	"time"

	"quickchat/config"
	"quickchat/internal/handler"
	appredis "quickchat/internal/redis"
	"quickchat/internal/repository"
	"quickchat/internal/server"
	"quickchat/internal/services"
	"quickchat/internal/storage"
	"quickchat/pkg/database"
	"quickchat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.ApplyRawMigrations(ctx, pool, "migrations"); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := appredis.NewClient(appredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err := appredis.Ping(ctx, redisClient); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	mediaStore, err := storage.NewClient(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to configure media storage: %v", err)
	}

	presence := appredis.NewPresenceStore(redisClient, 5*time.Minute)
	limiter := appredis.NewRateLimiter(redisClient, appredis.DefaultRateLimitConfig())

	userRepo := repository.NewUserRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	authService := services.NewAuthService(cfg)
	userService := services.NewUserService(userRepo, authService, mediaStore)
	messageService := services.NewMessageService(userRepo, messageRepo, mediaStore, presence)

	handlers := &server.Handlers{
		User:    handler.NewUserHandler(userService),
		Message: handler.NewMessageHandler(messageService),
	}

	srv := server.New(cfg, l, pool)
	srv.SetupRoutes(handlers, authService, presence, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
