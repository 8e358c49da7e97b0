package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/handler"
	apimiddleware "github.com/kingsLib5/Hsbc-online-backend/internal/adapter/http/middleware"
	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/auth"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"recipient_name":"Jane","recipient_account":"1","recipient_bank":"B","amount":"10","transfer_date":"2025-03-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	asUser(req, "user-1", domain.RoleCustomer)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
	if !strings.HasPrefix(store.lastKey, "user-1:") {
		t.Fatalf("expected key scoped to caller, got %q", store.lastKey)
	}
}

func TestNewRouter_AdminRoutesRequireAdmin(t *testing.T) {
	router := NewRouter(newRouterConfig())

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		role       domain.Role
		wantStatus int
	}{
		{name: "customer cannot list", method: http.MethodGet, path: "/api/v1/transfers/", role: domain.RoleCustomer, wantStatus: http.StatusForbidden},
		{name: "admin lists", method: http.MethodGet, path: "/api/v1/transfers/", role: domain.RoleAdmin, wantStatus: http.StatusOK},
		{name: "customer cannot settle", method: http.MethodPatch, path: "/api/v1/transfers/tr-1/status", body: `{"status":"Approved"}`, role: domain.RoleCustomer, wantStatus: http.StatusForbidden},
		{name: "admin settles", method: http.MethodPatch, path: "/api/v1/transfers/tr-1/status", body: `{"status":"Approved"}`, role: domain.RoleAdmin, wantStatus: http.StatusOK},
		{name: "customer cannot sweep", method: http.MethodPost, path: "/api/v1/settlements/sweep", role: domain.RoleCustomer, wantStatus: http.StatusForbidden},
		{name: "customer cannot open accounts", method: http.MethodPost, path: "/api/v1/accounts/", body: `{}`, role: domain.RoleCustomer, wantStatus: http.StatusForbidden},
		{name: "customer verifies", method: http.MethodPost, path: "/api/v1/transfers/tr-1/verify", body: `{"code":"123456"}`, role: domain.RoleCustomer, wantStatus: http.StatusOK},
		{name: "customer lists own accounts", method: http.MethodGet, path: "/api/v1/accounts/me", role: domain.RoleCustomer, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			asUser(req, "user-1", tt.role)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestNewRouter_BearerTokens(t *testing.T) {
	manager := auth.NewJWTManager("router-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.TrustIdentityHeaders = false
		cfg.TokenVerifier = manager
	}))

	anonymous := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/tr-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, anonymous)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	token, err := manager.Generate(&domain.User{ID: "user-1", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	authed := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/tr-1", nil)
	authed.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authed)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestNewRouter_CronRouteBypassesUserAuth(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/cron/auto-approve", nil)
	req.Header.Set(handler.CronTokenHeader, "cron-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected cron sweep to succeed, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /cron/auto-approve",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/me",
		"GET /api/v1/accounts/{id}",
		"POST /api/v1/transfers/",
		"GET /api/v1/transfers/",
		"GET /api/v1/transfers/{id}",
		"POST /api/v1/transfers/{id}/verify",
		"PATCH /api/v1/transfers/{id}/status",
		"POST /api/v1/settlements/sweep",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func asUser(req *http.Request, id string, role domain.Role) {
	req.Header.Set(apimiddleware.UserIDHeader, id)
	req.Header.Set(apimiddleware.UserRoleHeader, string(role))
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		HealthHandler:        handler.NewHealthHandlerWithChecks(nil),
		AccountHandler:       handler.NewAccountHandler(&stubAccountService{}),
		TransferHandler:      handler.NewTransferHandler(&stubTransferService{}),
		SettlementHandler:    handler.NewSettlementHandler(&stubSettlementService{}, "cron-token"),
		TrustIdentityHeaders: true,
		HTTPMetrics:          apimiddleware.NewHTTPMetrics(prometheus.NewRegistry()),
		Logger:               zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAccountService struct{}

func (stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acc"}, nil
}

func (stubAccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id}, nil
}

func (stubAccountService) ListMine(ctx context.Context) ([]*domain.Account, error) {
	return []*domain.Account{}, nil
}

type stubTransferService struct{}

func stubTransfer(id string, status domain.TransferStatus) *domain.Transfer {
	return &domain.Transfer{ID: id, Amount: decimal.NewFromInt(10), Status: status}
}

func (stubTransferService) Create(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error) {
	return stubTransfer("transfer", domain.TransferStatusPendingVerification), nil
}

func (stubTransferService) Verify(ctx context.Context, id, code string) (*domain.Transfer, error) {
	return stubTransfer(id, domain.TransferStatusPending), nil
}

func (stubTransferService) UpdateStatus(ctx context.Context, id string, target domain.TransferStatus) (*domain.Transfer, error) {
	return stubTransfer(id, target), nil
}

func (stubTransferService) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	return stubTransfer(id, domain.TransferStatusPending), nil
}

func (stubTransferService) ListAll(ctx context.Context, limit, offset int) ([]*domain.Transfer, error) {
	return []*domain.Transfer{}, nil
}

type stubSettlementService struct{}

func (stubSettlementService) SweepStale(ctx context.Context, trigger domain.SettlementTrigger) (usecase.SweepResult, error) {
	return usecase.SweepResult{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
	lastKey     string
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	s.lastKey = key
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
