package main

import (
	"context" // context package is needed for Redis operations and shutdown
	"errors"  // Server close detection
	"fmt"
	"net/http" // HTTP server
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamevault/internal/api"        // HTTP handlers and routes
	"gamevault/internal/checkout"   // Checkout orchestrator
	"gamevault/internal/config"     // Custom package for configuration
	"gamevault/internal/db"         // Connection pool
	"gamevault/internal/middleware" // Rate limiter

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	if err := run(); err != nil {
		logrus.Fatalf("server: %v", err)
	}
}

// run owns every resource it opens, so deferred closes happen before main exits
func run() error {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return err // Connection failures already carry context
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logrus.WithError(err).Warn("failed to close DB")
		}
	}()

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	defer redisClient.Close()

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("connect to Redis: %w", err)
	}

	router, err := api.NewRouter(api.Deps{
		DB:             gdb,
		Redis:          redisClient,
		Checkout:       checkout.NewService(gdb, logrus.WithField("component", "checkout")),
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTTTL,
		CacheTTL:       cfg.CacheTTL,
		Limiter:        middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
		TrustedProxies: []string{"127.0.0.1"},
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt or a listener failure, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logrus.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
