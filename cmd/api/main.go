// @title Quiz Forge API
// @version 1.0
// @description Generates fill-in-the-blank, multiple choice, true/false, short answer and topic quizzes from plain text.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"quiz-forge/internal/adapter"
	"quiz-forge/internal/cache"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/export"
	"quiz-forge/internal/handler"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/session"
	"strconv"
	"syscall"
	"time"

	_ "quiz-forge/cmd/api/docs"

	"github.com/gofiber/swagger"
	"github.com/spf13/afero"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporter := export.NewExporter(afero.NewOsFs(), cfg.Export.Dir)
	factory, err := service.NewAggregatorFactory(cfg, exporter)
	if err != nil {
		appLogger.Fatal("Failed to build question generator", zap.Error(err))
	}

	tokens, err := service.NewSessionTokenService(cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create SessionTokenService", zap.Error(err))
	}

	// Redis is optional: without it snapshots are disabled.
	var snapshotBackend domain.Cache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	switch {
	case errors.Is(err, cache.ErrRedisDisabled):
		appLogger.Info("Redis not configured, quiz snapshots disabled")
	case err != nil:
		appLogger.Warn("Redis unavailable, quiz snapshots disabled", zap.Error(err))
	default:
		defer redisClient.Close()
		snapshotBackend = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	}
	snapshots := service.NewSnapshotCache(snapshotBackend, cfg.Redis.SnapshotTTL)

	store := session.NewStore(factory.ForSession, cfg.Session.TTL)
	store.OnEvict(func(id string) {
		evictCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := snapshots.Evict(evictCtx, id); err != nil {
			appLogger.Warn("Failed to evict quiz snapshot", zap.String("session_id", id), zap.Error(err))
		}
		if err := factory.SessionExporter(id).Clear(); err != nil {
			appLogger.Warn("Failed to remove session exports", zap.String("session_id", id), zap.Error(err))
		}
	})
	go store.RunSweeper(ctx, cfg.Session.SweepInterval)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	handler.Register(app.Group("/api"),
		handler.NewSessionHandler(store, tokens, snapshots),
		handler.NewQuizHandler(store, snapshots),
		tokens,
		middleware.NewValidationMiddleware(cfg.Generation.MaxQuestions),
	)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...", zap.Int("active_sessions", store.Len()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	appLogger.Info("Server exited gracefully")
}
