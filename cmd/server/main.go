package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/auth"
	"storefront-service/internal/broker"
	"storefront-service/internal/payment"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, "storefront-service"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected")

	if cfg.Database.MigrateOnBoot {
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicOrder))

	eventPublisher := broker.NewEventPublisher(producer)

	processor, err := payment.NewStripeProcessor(payment.StripeConfig{
		APIKey:        cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Environment:   cfg.Stripe.Environment,
	})
	if err != nil {
		logger.Fatal("Failed to initialize Stripe", zap.Error(err))
	}

	resolver := auth.NewRoleResolver(db, redisClient, cfg.Redis.RoleCacheTTL, cfg.Business.ResolveTimeout)

	userService := service.NewUserService(db, resolver)
	catalogService := service.NewCatalogService(db)
	cartService := service.NewCartService(db, db)
	orderService := service.NewOrderService(db, db, db, eventPublisher)
	paymentService := service.NewPaymentService(db, processor, eventPublisher, cfg.Stripe.Currency).
		WithIntentKeys(redisClient, cfg.Business.IdempotencyTTL)
	reportService := service.NewReportService(db, redisClient)
	reconciler := service.NewPaymentReconciler(paymentService, redisClient, cfg.Business.IdempotencyTTL)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	reportingConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	reportingWorker := worker.NewReportingWorker(reportingConsumer, redisClient, cfg.Business.IdempotencyTTL)
	go func() {
		if err := reportingWorker.Start(workerCtx); err != nil {
			logger.Error("Reporting worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(api.Deps{
		Users:         userService,
		Catalog:       catalogService,
		Cart:          cartService,
		Orders:        orderService,
		Payments:      paymentService,
		Reports:       reportService,
		Reconciler:    reconciler,
		Tokens:        auth.TokenConfig{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer},
		Resolver:      resolver,
		WebhookSecret: processor.SigningSecret(),
		Dependencies: map[string]api.Pinger{
			"postgres": db,
			"redis":    redisClient,
		},
	})
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := reportingWorker.Stop(); err != nil {
		logger.Warn("Failed to stop reporting worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
