package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/database"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/server"
	shipmentadapter "shipment-tracker/internal/features/shipments/adapters"
	shipmenthandler "shipment-tracker/internal/features/shipments/handler"
	"shipment-tracker/internal/features/shipments/ports"
	shipmentservice "shipment-tracker/internal/features/shipments/service"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// @title Shipment Tracker API
// @version 1.0
// @description Shipment lifecycle service: booking, waybill tracking, status updates and SMS notifications.
// @contact.name API Support
// @contact.email support@firstlinelogistics.ng
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_driver", cfg.StoreDriver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis backs waybill sequences and must be reachable before we accept bookings
	redisAdapter, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer redisAdapter.Close()
	if err := redisAdapter.Ping(ctx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	repo, closeStore := initRepository(ctx, cfg, l)
	defer closeStore()

	notifier := initNotifier(cfg, l)

	publisher := initPublisher(cfg, l)
	defer publisher.Close()

	shipmentSvc := shipmentservice.NewShipmentService(
		repo,
		shipmentadapter.NewRedisWaybillGenerator(redisAdapter),
		notifier,
		shipmentservice.WithLogger(logger.Named("shipments")),
		shipmentservice.WithEventPublisher(publisher),
		shipmentservice.WithNotifyTimeout(cfg.SMS.Timeout),
		shipmentservice.WithPublishTimeout(cfg.Kafka.PublishTimeout),
	)
	shipmentHdl := shipmenthandler.NewShipmentHandler(shipmentSvc)

	srv := server.New(cfg)
	srv.RegisterHealth(map[string]server.Pinger{
		"store": repo,
		"redis": redisAdapter,
	})

	// Register Routes
	shipmentHdl.RegisterRoutes(srv.App)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Graceful shutdown failed", zap.Error(err))
		}
	}

	l.Info("Application stopped")
}

// initRepository picks the shipment store from STORE_DRIVER.
func initRepository(ctx context.Context, cfg *config.AppConfig, l *zap.Logger) (ports.ShipmentRepository, func()) {
	if cfg.StoreDriver == config.StoreMemory {
		l.Warn("Using in-memory shipment store; data is lost on restart")
		return shipmentadapter.NewMemoryRepository(), func() {}
	}

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		l.Fatal("MongoDB Health Check Failed", zap.Error(err))
	}

	repo := shipmentadapter.NewMongoRepository(db.Database())
	if err := repo.EnsureIndexes(ctx); err != nil {
		l.Fatal("Failed to create shipment indexes", zap.Error(err))
	}

	return repo, func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			l.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
}

// initNotifier returns the Termii sender behind a circuit breaker, or a log-only
// sender when no API key is configured.
func initNotifier(cfg *config.AppConfig, l *zap.Logger) ports.Notifier {
	if cfg.SMS.APIKey == "" {
		l.Warn("SMS_API_KEY not set; notifications are logged only")
		return shipmentadapter.NewLogNotifier(logger.Named("sms"))
	}

	termii := shipmentadapter.NewTermiiNotifier(cfg.SMS, cfg.Proxy.Settings())
	return shipmentadapter.NewBreakerNotifier(termii, shipmentadapter.DefaultBreakerSettings(), logger.Named("sms"))
}

func initPublisher(cfg *config.AppConfig, l *zap.Logger) ports.EventPublisher {
	brokers := cfg.Kafka.BrokerList()
	if len(brokers) == 0 {
		l.Info("KAFKA_BROKERS not set; lifecycle events disabled")
		return shipmentadapter.NoopPublisher{}
	}

	l.Info("Publishing lifecycle events", zap.Strings("brokers", brokers), zap.String("topic", cfg.Kafka.Topic))
	return shipmentadapter.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
}
