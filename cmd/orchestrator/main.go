package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/config"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/handlers"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/repository"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/routes"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/services"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/templates"
	"github.com/Tourment0412/orquestador-solicitudes-micro/pkg/logger"
	"github.com/Tourment0412/orquestador-solicitudes-micro/pkg/metrics"
	"github.com/Tourment0412/orquestador-solicitudes-micro/pkg/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logr := logger.New(cfg.LogLevel, "orquestador-solicitudes-micro")

	// Initialize database
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logr.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize Redis (optional; the pipeline degrades to DB-only
	// idempotency without it)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		defer redisClient.Close()
	}

	metricsCollector := metrics.New()

	// Initialize RabbitMQ and declare the topology before consuming
	mqManager, err := rabbitmq.NewManager(cfg.RabbitMQURL, logr)
	if err != nil {
		logr.Error("failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	defer mqManager.Close()

	topology := rabbitmq.Topology{
		InboundQueue:       cfg.InboundQueue,
		OutboundQueue:      cfg.OutboundQueue,
		DeadLetterExchange: cfg.DeadLetterExchange,
		DeadLetterQueue:    cfg.DeadLetterQueue,
	}
	if err := mqManager.Declare(topology); err != nil {
		logr.Error("failed to declare rabbitmq topology", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize repositories
	eventStore := repository.NewEventStore(db)
	userStore := repository.NewUserStore(db)
	redisRepo := repository.NewRedisRepository(redisClient)

	// Initialize the pipeline
	renderer := services.NewRenderer(templates.NewEmbeddedSource())
	location := time.FixedZone(fmt.Sprintf("%+03d", cfg.UTCOffsetHours), cfg.UTCOffsetHours*60*60)
	composer := services.NewComposer(renderer, location)
	publisher := services.NewPublisher(mqManager, cfg.DeadLetterExchange, logr)
	defer publisher.Close()
	idempotency := services.NewIdempotencyService(redisRepo)
	dispatcher := services.NewDispatcher(eventStore, composer, publisher, idempotency, cfg.OutboundQueue, metricsCollector, logr)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	// A failed ack is fatal to the consume loop; the supervisor restarts the
	// connection and resubscribes so the pipeline never dies silently.
	startConsumer := func(ctx context.Context) (services.ConsumerRunner, error) {
		consumer := services.NewConsumer(mqManager.Connection(), cfg.InboundQueue, cfg.Prefetch, cfg.OperationTimeout, dispatcher, logr)
		if err := consumer.Start(ctx); err != nil {
			return nil, err
		}
		return consumer, nil
	}
	reconnect := func() error {
		if err := mqManager.Reconnect(); err != nil {
			return err
		}
		return mqManager.Declare(topology)
	}
	supervisor := services.NewSupervisor(startConsumer, reconnect, 5*time.Second, logr)
	go supervisor.Run(consumerCtx)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(func() bool {
		conn := mqManager.Connection()
		return conn != nil && !conn.IsClosed() && supervisor.Healthy()
	})
	userHandler := handlers.NewUserHandler(userStore)
	eventHandler := handlers.NewEventHandler(eventStore)

	// Initialize router
	router := gin.Default()
	router.Use(metricsCollector.GinMiddleware())
	router.GET("/metrics", gin.WrapH(metricsCollector.Handler()))

	routes.SetupRoutes(router, healthHandler, userHandler, eventHandler, redisClient)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Error("server listen failed", slog.Any("error", err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server forced to shutdown", slog.Any("error", err))
	}

	// Stop intake, let the in-flight event finish, then release the channel
	stopConsumer()
	select {
	case <-supervisor.Done():
	case <-ctx.Done():
		logr.Warn("consumer did not drain in time")
	}

	logr.Info("orchestrator exiting")
}
