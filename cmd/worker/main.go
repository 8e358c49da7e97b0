// Command worker archives relayed transfer events from RabbitMQ into MongoDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/repository/mongodb"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/config"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/logger"
	mongoInfra "github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/mongodb"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/rabbitmq"
)

const (
	serviceName = "transfer-archiver"
	consumerTag = serviceName
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: serviceName})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("worker failed")
	}
	appLogger.Info().Msg("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	if cfg.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is required")
	}

	mongoClient, err := mongoInfra.NewClient(ctx, cfg.MongoURI, cfg.DatabaseTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	appLogger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")

	conn, err := rabbitmq.Dial(ctx, cfg.RabbitMQURL, consumerTag, cfg.DatabaseTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareExchange(ch, cfg.RabbitMQExchange); err != nil {
		return err
	}
	if err := rabbitmq.DeclareQueue(ch, cfg.RabbitMQExchange, cfg.RabbitMQQueue, rabbitmq.TransferBindingKey); err != nil {
		return err
	}

	archive := mongodb.NewEventArchive(mongoClient, cfg.MongoDatabase)
	consumer := rabbitmq.NewConsumer(ch, cfg.RabbitMQQueue, consumerTag, appLogger.With().Str("component", "archiver").Logger())

	err = consumer.Run(ctx, archive.Save)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
