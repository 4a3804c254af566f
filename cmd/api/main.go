// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pharmacy-checkout/internal/config"
	"github.com/your-org/pharmacy-checkout/internal/domain/address"
	"github.com/your-org/pharmacy-checkout/internal/domain/cart"
	"github.com/your-org/pharmacy-checkout/internal/domain/checkout"
	"github.com/your-org/pharmacy-checkout/internal/domain/delivery"
	"github.com/your-org/pharmacy-checkout/internal/domain/escalation"
	"github.com/your-org/pharmacy-checkout/internal/domain/order"
	"github.com/your-org/pharmacy-checkout/internal/domain/payment"
	"github.com/your-org/pharmacy-checkout/internal/infrastructure/database/postgres"
	"github.com/your-org/pharmacy-checkout/internal/infrastructure/database/redis"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/handlers"
	"github.com/your-org/pharmacy-checkout/internal/interfaces/http/routes"
	"github.com/your-org/pharmacy-checkout/internal/pkg/auth"
	"github.com/your-org/pharmacy-checkout/internal/pkg/logger"
	"github.com/your-org/pharmacy-checkout/internal/pkg/metrics"
	"github.com/your-org/pharmacy-checkout/internal/pkg/pdf"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"gateway":     cfg.Payment.Provider,
	}).Info("Starting service")

	// Connect to database
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), log)
	if err := migration.RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		log.Warnf("Index creation failed: %v", err)
	}

	reg := metrics.NewRegistry()

	// Domain services
	cartService := cart.NewService(cart.NewRedisRepository(redisClient.GetClient(), cfg.Redis.StateTTL))
	addressService := address.NewService(address.NewRedisRepository(redisClient.GetClient(), cfg.Redis.StateTTL))
	pricing := delivery.NewPricing(cfg.Delivery)
	orderClient := order.NewClient(cfg.OrderAPI)
	escalations := escalation.NewGormRepository(db.GetDB())

	bridge := payment.NewBridge()
	gateway, err := payment.NewGateway(cfg.Payment, bridge, log)
	if err != nil {
		log.Fatalf("Failed to configure payment gateway: %v", err)
	}

	checkoutService := checkout.NewService(checkout.Deps{
		Cart:              cartService,
		Addresses:         addressService,
		Pricing:           pricing,
		Gateway:           gateway,
		Orders:            orderClient,
		Escalations:       escalations,
		Metrics:           reg,
		Logger:            log,
		SubmissionTimeout: cfg.Checkout.SubmissionTimeout,
		SessionTTL:        cfg.Checkout.SessionTTL,
	})

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go checkoutService.RunJanitor(janitorCtx, time.Minute)

	server := http.NewServer(cfg, log, &http.Dependencies{
		Handlers: &routes.Handlers{
			Cart:     handlers.NewCartHandler(cartService, pricing, log),
			Address:  handlers.NewAddressHandler(addressService, log),
			Checkout: handlers.NewCheckoutHandler(checkoutService, bridge, cfg.Checkout.FlowTimeout, log),
			Payment:  handlers.NewPaymentHandler(bridge, log),
			Receipt:  handlers.NewReceiptHandler(checkoutService, pdf.NewService(cfg.Receipt), log),
			Admin:    handlers.NewAdminHandler(orderClient, escalations, log),
		},
		Health: handlers.NewHealthHandler(cfg.App.Version, cfg.App.Environment, map[string]handlers.HealthChecker{
			"database": db,
			"redis":    redisClient,
		}),
		JWT:     auth.NewJWTManager(cfg),
		Metrics: reg,
		Redis:   redisClient.GetClient(),
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")
	stopJanitor()

	// Order submissions in flight are bounded by the submission timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Checkout.SubmissionTimeout+5*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Info("Server shutdown completed")
}
