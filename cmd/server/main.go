package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/game"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/gateway"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/configs"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/events"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/messaging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/metrics"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ratelimiter"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/tracing"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/persistence/db"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/persistence/repository"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/presentation/api"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/presentation/handler/health"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/presentation/handler/rooms"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/presentation/handler/stats"
)

const (
	serviceName = "buzzer-server"
)

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Durable records are optional; without Mongo the engine runs purely in
	// memory.
	var records domain.RecordStore
	var auditRepo domain.RoomAuditRepository
	if cfg.Mongo.URI != "" {
		mongoCfg := &db.MongoConfig{
			URI:               cfg.Mongo.URI,
			Database:          cfg.Mongo.Database,
			ConnectionTimeout: cfg.Mongo.Timeout,
		}

		client, err := db.NewMongoClient(ctx, mongoCfg)
		if err != nil {
			log.Fatal(err)
		}
		defer db.DisconnectMongo(context.Background(), client)

		database := db.GetDatabase(client, mongoCfg)
		records = repository.NewRecordStore(database)
		auditRepo = repository.NewRoomAuditLogRepository(database)

		if err := records.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to ensure record indexes: %v", err)
		}
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to ensure audit indexes: %v", err)
		}
	}

	// The broker is optional too.
	var publisher game.EventPublisher
	if cfg.RabbitMQ.URI != "" {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal(err)
		}
		defer rabbitmq.Close()

		log.Println("Starting RabbitMQ connection")

		publisher = events.NewRoomPublisher(rabbitmq, logger)

		if auditRepo != nil {
			roomConsumer := events.NewRoomConsumer(rabbitmq, auditRepo, logger)
			if err := roomConsumer.Listen(); err != nil {
				log.Fatalf("Failed to start room consumer: %v", err)
			}
		}
	}

	m := metrics.New()
	hub := ws.NewHub()

	registry := game.NewRegistry(game.Options{
		Broadcaster:     hub,
		Records:         records,
		Events:          publisher,
		Logger:          logger,
		Metrics:         m,
		MaxCodeAttempts: cfg.Registry.MaxCodeAttempts,
		ReapInterval:    cfg.Registry.ReapInterval,
		EmptyRoomGrace:  cfg.Registry.EmptyRoomGrace,
	})
	defer registry.Close()

	gw := gateway.New(registry, hub, logger, m)

	roomsHandler := rooms.NewHandler(registry, orNopRecords(records))
	statsHandler := stats.NewHandler(registry, hub, orNopRecords(records))
	healthHandler := health.NewHandler()

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})
	defer rl.Close()

	app := api.NewApplication(*cfg, roomsHandler, statsHandler, healthHandler, gw, m, logger, rl)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}

func orNopRecords(records domain.RecordStore) domain.RecordStore {
	if records != nil {
		return records
	}
	return game.NopRecordStore()
}
