package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/laced-shop/laced-backend/config"
	"github.com/laced-shop/laced-backend/internal/app/controller"
	"github.com/laced-shop/laced-backend/internal/app/repository"
	"github.com/laced-shop/laced-backend/internal/app/service"
	"github.com/laced-shop/laced-backend/internal/db"
	"github.com/laced-shop/laced-backend/internal/middleware"
	"github.com/laced-shop/laced-backend/internal/router"
	"github.com/laced-shop/laced-backend/internal/scheduler"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"github.com/laced-shop/laced-backend/pkg/payment/stripe"
	"github.com/laced-shop/laced-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting LACED Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is the webhook dedup fast path; the server runs without it.
	if err := redis.Init(&redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		logger.Warn("Redis unavailable, webhook dedup falls back to the database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Payment gateway client
	stripeClient, err := stripe.NewClient(stripe.Config{
		SecretKey:     cfg.Payment.Stripe.SecretKey,
		WebhookSecret: cfg.Payment.Stripe.WebhookSecret,
		BaseURL:       cfg.Payment.Stripe.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize payment gateway client", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	addressService := service.NewAddressService(addressRepo)
	orderService := service.NewOrderService(orderRepo)
	checkoutService := service.NewCheckoutService(
		db.GetDB(),
		stripeClient,
		cfg.Payment.Stripe.Currency,
		cartRepo,
		orderRepo,
		userRepo,
		addressRepo,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cartService)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	orderController := controller.NewOrderController(orderService)
	addressController := controller.NewAddressController(addressService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session)

	// Start background cart cleanup
	cartCleanup := scheduler.NewCartCleanupScheduler(cartRepo, cfg.Session.StaleCartAge)
	if err := cartCleanup.Start(); err != nil {
		logger.Error("Failed to start cart cleanup scheduler", err)
	}
	defer cartCleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		checkoutController,
		orderController,
		addressController,
		authMiddleware,
		sessionMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
