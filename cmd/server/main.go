package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http"
	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/handler"
	apimiddleware "github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/middleware"
	postgresRepo "github.com/kingsLib5/Hsbc-online-backend/internal/adapter/repository/postgres"
	redisRepo "github.com/kingsLib5/Hsbc-online-backend/internal/adapter/repository/redis"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/auth"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/config"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/eventpublisher"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/logger"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/metrics"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/notification"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/postgres"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/rabbitmq"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/redis"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/settlement"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/verification"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

const (
	serviceName = "transfer-service"

	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTimeout     = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: serviceName})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when AUTH_ENABLED is true")
	}

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		appLogger.Info().Msg("connected to redis")
	} else {
		appLogger.Warn().Msg("REDIS_URL is empty: idempotency keys and the verification lockout are disabled")
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, postgresRepo.WithLockTimeout(cfg.DatabaseLockTimeout))
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	var (
		idempotencyStore usecase.IdempotencyStore
		limiter          usecase.AttemptLimiter
	)
	if redisClient != nil {
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		limiter = redisRepo.NewAttemptLimiter(redisClient, cfg.VerificationAttemptWindow)
	}

	notifier, err := newNotifier(cfg, appLogger)
	if err != nil {
		return err
	}

	// Initialize use cases
	settlementUC := usecase.NewSettlementUseCase(usecase.SettlementUseCaseConfig{
		TxManager:    txManager,
		TransferRepo: transferRepo,
		OutboxRepo:   outboxRepo,
		AuditRepo:    auditRepo,
		IDGen:        idGen,
		Metrics:      appMetrics,
		Logger:       appLogger.With().Str("component", "settlement").Logger(),
		StaleAfter:   cfg.SettlementStaleAfter,
		BatchSize:    cfg.SettlementSweepBatch,
	})

	scheduler := settlement.NewScheduler(settlement.Config{
		Settler:  settlementUC,
		Metrics:  appMetrics,
		Logger:   appLogger.With().Str("component", "scheduler").Logger(),
		Delay:    cfg.SettlementAutoApproveDelay,
		Interval: cfg.SettlementSweepInterval,
	})

	transferUC := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:         txManager,
		Guard:             usecase.NewLedgerGuard(accountRepo, domain.AccountSelector{TypeContains: cfg.SettlementAccountType}),
		TransferRepo:      transferRepo,
		OutboxRepo:        outboxRepo,
		AuditRepo:         auditRepo,
		IDGen:             idGen,
		CodeGen:           verification.NewGenerator(cfg.VerificationCodeLength),
		Notifier:          notifier,
		Scheduler:         scheduler,
		Limiter:           limiter,
		Metrics:           appMetrics,
		Logger:            appLogger.With().Str("component", "transfers").Logger(),
		MaxVerifyAttempts: cfg.VerificationMaxAttempts,
		NotifyOverrideTo:  cfg.NotifyOverrideTo,
	})

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, auditRepo, idGen, appMetrics)

	publisher, closePublisher, err := newEventSink(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closePublisher()

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Metrics:    appMetrics,
		Logger:     appLogger.With().Str("component", "outbox").Logger(),
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})

	rateLimiter := apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(appMetrics)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:       handler.NewAccountHandler(accountUC),
		TransferHandler:      handler.NewTransferHandler(transferUC),
		SettlementHandler:    handler.NewSettlementHandler(settlementUC, cfg.CronToken),
		HealthHandler:        handler.NewHealthHandler(pool, redisClient),
		TrustIdentityHeaders: !cfg.AuthEnabled,
		IdempotencyStore:     idempotencyStore,
		IdempotencyTTL:       cfg.IdempotencyTTL,
		RateLimiter:          rateLimiter,
		HTTPMetrics:          apimiddleware.NewHTTPMetrics(prometheus.DefaultRegisterer),
		MetricsHandler:       promhttp.Handler(),
		Logger:               appLogger.With().Str("component", "http").Logger(),
	}
	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		appLogger.Warn().Msg("AUTH_ENABLED is false: trusting identity headers from the gateway")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Background workers stop with bgCtx.
	bgCtx, cancelBackground := context.WithCancel(ctx)
	defer cancelBackground()

	var workers sync.WaitGroup
	startWorker := func(name string, fn func(context.Context) error) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := fn(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error().Err(err).Str("worker", name).Msg("worker stopped")
			}
		}()
	}
	startWorker("scheduler", scheduler.Start)
	startWorker("outbox", relay.Start)
	startWorker("rate-limit-cleanup", func(ctx context.Context) error {
		rateLimiter.RunCleanup(ctx, limiterCleanupInterval, limiterIdleTimeout)
		return nil
	})

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		appLogger.Info().Msg("shutting down server...")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	cancelBackground()
	workers.Wait()
	scheduler.Stop()
	transferUC.WaitForDispatches()

	appLogger.Info().Msg("server stopped")
	return nil
}

// newNotifier sends codes over SMTP, or logs them when no SMTP host is set.
func newNotifier(cfg *config.Config, appLogger zerolog.Logger) (usecase.Notifier, error) {
	if cfg.SMTPHost == "" {
		appLogger.Warn().Msg("SMTP_HOST is empty: verification codes are logged, not mailed")
		return notification.NewLogNotifier(appLogger.With().Str("component", "notifier").Logger()), nil
	}

	n, err := notification.NewSMTPNotifier(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure smtp: %w", err)
	}
	return n, nil
}

// newEventSink publishes outbox events to RabbitMQ, or to the log when no
// broker is configured.
func newEventSink(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) (eventpublisher.Publisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		return eventpublisher.NewLogPublisher(appLogger.With().Str("component", "events").Logger()), func() {}, nil
	}

	conn, err := rabbitmq.Dial(ctx, cfg.RabbitMQURL, serviceName, cfg.DatabaseTimeout)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := rabbitmq.DeclareExchange(ch, cfg.RabbitMQExchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	appLogger.Info().Str("exchange", cfg.RabbitMQExchange).Msg("connected to rabbitmq")

	closeFn := func() {
		ch.Close()
		conn.Close()
	}
	return rabbitmq.NewPublisher(ch, cfg.RabbitMQExchange), closeFn, nil
}
