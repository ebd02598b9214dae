package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bizkeeper/internal/app"
	"go-bizkeeper/internal/config"
	"go-bizkeeper/internal/handler"
	"go-bizkeeper/internal/launcher"
	"go-bizkeeper/internal/logger"
	"go-bizkeeper/internal/metrics"
	"go-bizkeeper/internal/middleware"
	"go-bizkeeper/pkg/blob"
	"go-bizkeeper/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	metrics.MustRegister()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Storage, stores and services
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	go a.Hub.Run(ctx)

	authLimiter := middleware.NewRateLimiter(middleware.LimitStrict, middleware.BurstStrict)
	apiLimiter := middleware.NewRateLimiter(middleware.LimitGeneral, middleware.BurstGeneral)
	go authLimiter.Run(ctx)
	go apiLimiter.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	issuer := jwt.NewIssuer(cfg.JWTSecret, 24*time.Hour)
	routes := handler.Routes{
		Auth:        handler.NewAuthHandler(a.Stores.Auth, issuer, log),
		Products:    handler.NewProductHandler(a.Stores.Products, a.Blobs, cfg.LowStockThreshold, log),
		Customers:   handler.NewCustomerHandler(a.Stores.Customers, a.Stores.Orders, launcher.New(launcher.LogOpener{Log: log}), log),
		Orders:      handler.NewOrderHandler(a.Stores.Orders, a.Intake, log),
		Reports:     handler.NewReportHandler(a.Reports),
		Settings:    handler.NewSettingsHandler(a.Stores.Theme, log),
		Issuer:      issuer,
		Sessions:    a.Stores.Auth,
		AuthLimiter: authLimiter,
		APILimiter:  apiLimiter,
		Hub:         a.Hub,
	}

	// 5. Setup Fiber
	server := fiber.New(fiber.Config{
		AppName:   "BizKeeper API v1.0",
		BodyLimit: 10 * 1024 * 1024,
	})

	// Middleware
	server.Use(fiberlogger.New()) // Logging request
	server.Use(recover.New())     // Panic recovery
	server.Use(cors.New())        // CORS
	server.Use(metrics.Middleware())

	server.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if local, ok := a.Blobs.(*blob.Local); ok {
		server.Static("/storage", local.Root())
	}

	// 6. Routes
	routes.Mount(server)

	// 7. Graceful Shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Panic("listen failed", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	cancel()
	a.Close()

	log.Info("server exited")
}
