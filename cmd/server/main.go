package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/session-service/internal/cache"
	"github.com/studyhall/session-service/internal/config"
	"github.com/studyhall/session-service/internal/handlers"
	"github.com/studyhall/session-service/internal/repositories/postgres"
	"github.com/studyhall/session-service/internal/services"
	"github.com/studyhall/session-service/internal/utils"
	"github.com/studyhall/session-service/internal/validator"
	"github.com/studyhall/session-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	logger.Info("Starting session service",
		"environment", cfg.Environment,
		"port", cfg.Port)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	var snapshots cache.SnapshotCache = cache.NoopSnapshotCache{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, snapshot caching disabled", "error", err)
	} else {
		snapshots = cache.NewRedisSnapshotCache(redisClient, utils.ToSlogLogger(logger))
		defer redisClient.Close()
	}

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepositoryManager(db)
	v := validator.New()

	serviceManager := services.NewServiceManager(repo, publisher, snapshots, logger, v, cfg.SnapshotTTL)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go services.RunSweeper(sweepCtx, serviceManager.Session(), cfg.SweepInterval)

	handlers.InitAuth(cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, v, logger)
	handlerManager.SetupRoutes(router, cfg, logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			os.Exit(1)
		}
	}()

	logger.Info("Session service listening", "addr", server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down session service")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Forced shutdown")
	}

	logger.Info("Session service stopped")
}
