package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hotelops/internal/app"
	appoutbox "hotelops/internal/app/outbox"
	"hotelops/internal/app/uow"
	"hotelops/internal/infra/broker/kafka"
	"hotelops/internal/infra/config"
	dbmongo "hotelops/internal/infra/db/mongo"
	ginserver "hotelops/internal/infra/http/gin"
	"hotelops/internal/infra/obs"
	infraoutbox "hotelops/internal/infra/outbox"
	"hotelops/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	var (
		uowFactory uow.UoWFactory
		box        appoutbox.Outbox
		readyCheck func(ctx context.Context) error
		worker     *infraoutbox.Worker
	)

	if cfg.UseMongo() {
		client, err := dbmongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close(context.Background()) }()
		uowFactory = dbmongo.NewFactory(client.DB)
		store := infraoutbox.NewStore(client.DB)
		box = store
		readyCheck = client.Ping

		if len(cfg.KafkaBrokers) > 0 {
			producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				logger.Error("kafka producer init failed", "error", err)
				os.Exit(1)
			}
			defer func() { _ = producer.Close() }()
			worker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Source:      "app://hotelops",
				Backoff:     cfg.RetryBackoff,
			}
		} else {
			logger.Warn("no kafka brokers configured, outbox events stay queued")
		}
	} else {
		logger.Warn("no mongo uri configured, using in-memory storage")
		uowFactory = memory.NewFactory()
		box = memory.NewOutbox()
	}

	application := app.New(app.Options{
		UoW:     uowFactory,
		Outbox:  box,
		Encoder: appoutbox.JSONEventEncoder{},
		Logger:  logger,
	})

	handlers := ginserver.Handlers{
		Frontdesk: ginserver.FrontdeskHandler{Commands: application.Commands, Queries: application.Queries},
		Inventory: ginserver.InventoryHandler{Commands: application.Commands, Queries: application.Queries},
		Billing:   ginserver.BillingHandler{Queries: application.Queries},
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Check: readyCheck}, handlers)

	if worker != nil {
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}
