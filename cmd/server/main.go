package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mediconnect/admin/internal/cache"
	"github.com/mediconnect/admin/internal/config"
	"github.com/mediconnect/admin/internal/handlers"
	"github.com/mediconnect/admin/internal/logging"
	"github.com/mediconnect/admin/internal/metrics"
	"github.com/mediconnect/admin/internal/middleware"
	"github.com/mediconnect/admin/internal/repository"
	"github.com/mediconnect/admin/internal/service"
	"github.com/mediconnect/admin/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.IsLocal())

	ctx := context.Background()

	pool, err := repository.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer pool.Close()

	signer, err := storage.New(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize document storage")
	}

	readiness := []handlers.ReadinessCheck{
		{Name: "database", Ping: pool.Ping},
		{Name: "storage", Ping: signer.Ping},
	}

	var svcCache service.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.URL, "mediconnect:admin:", logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisCache.Close()
		svcCache = redisCache
		readiness = append(readiness, handlers.ReadinessCheck{Name: "redis", Ping: redisCache.Ping})
	} else {
		logger.Warn("REDIS_URL not set, caching disabled")
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(pool, logger)
	verificationRepo := repository.NewVerificationRepository(pool, logger)
	appointmentRepo := repository.NewAppointmentRepository(pool, logger)

	// Initialize services
	streamTokens, err := service.NewStreamTokenService(&cfg.Stream, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize stream token service")
	}
	directory := service.NewDirectoryService(profileRepo, logger).WithCache(svcCache)
	dashboard := service.NewDashboardService(profileRepo, verificationRepo, appointmentRepo, svcCache, cfg.Redis.StatsTTL, logger)
	verifications := service.NewVerificationService(verificationRepo, logger)
	documents := service.NewDocumentService(verificationRepo, signer, logger)

	var authMiddleware *middleware.AuthMiddleware
	if cfg.Auth.JWTSecret != "" {
		adminAuth := service.NewAdminAuthService(cfg.Auth.JWTSecret, profileRepo, svcCache, cfg.Redis.AdminRoleTTL, logger)
		authMiddleware = middleware.NewAuthMiddleware(adminAuth)
	} else {
		logger.Warn("SUPABASE_JWT_SECRET not set, admin routes are unauthenticated")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		BasePath:       cfg.Server.BasePath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Tokens:         handlers.NewTokenHandlers(streamTokens),
		Dashboard:      handlers.NewDashboardHandlers(dashboard, directory),
		Directory:      handlers.NewDirectoryHandlers(directory),
		Verifications:  handlers.NewVerificationHandlers(verifications, documents),
		Auth:           authMiddleware,
		Metrics:        metrics.New(),
		Logger:         logger,
		Readiness:      readiness,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":      cfg.Server.Port,
			"base_path": cfg.Server.BasePath,
			"storage":   cfg.Storage.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
