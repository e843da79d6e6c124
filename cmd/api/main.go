package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"gestion-projets/configs"
	v1 "gestion-projets/internal/api/v1"
	"gestion-projets/internal/api/v1/handlers"
	"gestion-projets/internal/auth"
	"gestion-projets/internal/authz"
	"gestion-projets/internal/middleware"
	"gestion-projets/internal/repository"
	myws "gestion-projets/internal/websocket"
	"gestion-projets/pkg/database"
	"gestion-projets/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()
	ctx := context.Background()

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.ErrorLogger.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	logger.SystemLogger.Info("Database connected")

	if err := repository.CreateTables(db); err != nil {
		logger.ErrorLogger.Fatal("Schema initialization failed", zap.Error(err))
	}

	redisClient, err := database.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	store := repository.NewStore(db)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Hour)
	authorizer := authz.NewAuthorizer(store)

	hub := myws.NewHub()
	go hub.Run()

	h := handlers.New(store, authorizer, tokens)
	h.Cache = redisClient
	h.Hub = hub

	app := fiber.New()
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	v1.RegisterRoutes(app, h)
	v1.RegisterWebsocket(app, hub, h)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
