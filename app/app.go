// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"go-nutrition-api/config"
	"go-nutrition-api/db"
	"go-nutrition-api/handler"
	"go-nutrition-api/logger"
	"go-nutrition-api/repository"
	"go-nutrition-api/router"
	"go-nutrition-api/service"
)

// TestApp bundles the wired router and its backing connections for
// integration tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

// NewTestApp wires all layers on top of the given connections without
// starting a server.
func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	authSvc, userSvc, tokens := buildServices(database)
	return &TestApp{
		DB:     database,
		Router: buildRouter(authSvc, userSvc, tokens, redisClient),
	}
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	// Redis backs the rate limiter only; without it the API still serves,
	// just unthrottled.
	var redisClient *redis.Client
	if config.AppConfig.RateLimit.Enabled {
		redisClient, err = db.ConnectRedis()
		if err != nil {
			logger.Log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
			redisClient = nil
		}
	}

	authSvc, userSvc, tokens := buildServices(database)
	r := buildRouter(authSvc, userSvc, tokens, redisClient)

	// --- Expired-session housekeeping ---
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go runCleanupLoop(cleanupCtx, authSvc, config.AppConfig.Cleanup.Interval)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	stopCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

func buildServices(database *sql.DB) (*service.AuthService, *service.UserService, *service.TokenService) {
	cfg := config.AppConfig

	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewTokenRepository(database)

	tokens := service.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
	)
	authSvc := service.NewAuthService(userRepo, tokenRepo, tokens, cfg.Auth.BcryptCost)
	userSvc := service.NewUserService(userRepo)

	return authSvc, userSvc, tokens
}

func buildRouter(authSvc *service.AuthService, userSvc *service.UserService, tokens *service.TokenService, redisClient *redis.Client) http.Handler {
	cfg := config.AppConfig

	apiLimiter := handler.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, "rl:api")
	authLimiter := handler.NewRateLimiter(redisClient, cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow, "rl:auth")

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)

	return router.NewRouter(authHandler, userHandler, tokens, apiLimiter, authLimiter)
}

// runCleanupLoop periodically reclaims expired refresh token rows until the
// context is cancelled.
func runCleanupLoop(ctx context.Context, authSvc *service.AuthService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := authSvc.CleanupExpiredTokens(ctx); err != nil {
				logger.Log.WithError(err).Error("Expired token cleanup failed")
			}
		}
	}
}
