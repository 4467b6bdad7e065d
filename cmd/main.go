package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"veranda/internal/api"
	"veranda/internal/config"
	"veranda/internal/db"
	"veranda/internal/utils/logger"
)

func main() {
	log := logger.New("veranda")

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		log.Info("No .env file found, skipping environment variable loading")
	} else {
		log.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			stdlog.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := db.Connect(cfg); err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database connection: %v", err)
		}
	}()

	// Redis backs the optional grant cache only; the server runs without it.
	var redisClient *redis.Client
	if cfg.Cache.GrantTTL > 0 {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	apiServer := api.NewServer(cfg, db.GetDB(), redisClient)
	go func() {
		log.Success("API server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := apiServer.Start(); err != nil {
			log.Error("API server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown API server", err)
	}

	log.Info("Server shutdown gracefully")
}
