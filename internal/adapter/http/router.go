package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/handler"
	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/middleware"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	TransferHandler   *handler.TransferHandler
	SettlementHandler *handler.SettlementHandler
	HealthHandler     *handler.HealthHandler

	// TokenVerifier authenticates API calls. It is required unless
	// TrustIdentityHeaders is set.
	TokenVerifier        middleware.TokenVerifier
	TrustIdentityHeaders bool

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	HTTPMetrics      *middleware.HTTPMetrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// External scheduler, authenticated by its own token.
	r.Get("/cron/auto-approve", cfg.SettlementHandler.Cron)

	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TrustIdentityHeaders {
			r.Use(middleware.TrustedHeaders)
		} else {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}

		// Runs after authentication so keys are scoped to the caller.
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.With(adminOnly).Post("/", cfg.AccountHandler.Create)
			r.Get("/me", cfg.AccountHandler.Mine)
			r.Get("/{id}", cfg.AccountHandler.Get)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Create)
			r.With(adminOnly).Get("/", cfg.TransferHandler.List)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Post("/{id}/verify", cfg.TransferHandler.Verify)
			r.With(adminOnly).Patch("/{id}/status", cfg.TransferHandler.UpdateStatus)
		})

		// Settlements
		r.With(adminOnly).Post("/settlements/sweep", cfg.SettlementHandler.Sweep)
	})

	return r
}
