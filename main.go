package main

import (
	"os"
	"time"

	"invoicing-backend/database"
	"invoicing-backend/logger"
	"invoicing-backend/middlewares"
	"invoicing-backend/routes"
	"invoicing-backend/services"
	"invoicing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func envInt(key string, def int) int {
	return utils.ParseIntDefault(os.Getenv(key), def)
}

func main() {
	// ---- Logging
	if err := logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV")); err != nil {
		panic(err)
	}
	defer func() { _ = zap.L().Sync() }()

	// ---- Database
	database.Connect()
	database.AutoMigrate()
	database.SeedPermissions()

	// ---- Limits (configurable via env)
	// Fiber default BodyLimit is 4 * 1024 * 1024 bytes if unset (per docs).
	// We allow overriding with BODY_LIMIT_BYTES or BODY_LIMIT_MB.
	bodyLimitBytes := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimitBytes <= 0 {
		bodyLimitBytes = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    bodyLimitBytes,
	})

	// ---- CORS
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	rlMax := envInt("RATE_LIMIT_MAX", 60)                                            // default 60 reqs
	rlWindow := time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second // default 60s window
	app.Use(limiter.New(limiter.Config{
		Max:        rlMax,
		Expiration: rlWindow,
	}))

	// ---- Observability
	app.Use(middlewares.RequestLogger())
	app.Use(middlewares.Metrics())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// ---- Routes
	notifier := &services.LogNotifier{Log: zap.L()}
	routes.Register(app, notifier)

	// ---- Start
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	zap.L().Info("API server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
