package usecase_test

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/metrics"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase/mocks"
)

const (
	senderID    = "user-1"
	senderEmail = "sender@example.com"
	testCode    = "482913"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

type harness struct {
	ctrl      *gomock.Controller
	accounts  *mocks.MockAccountRepository
	transfers *mocks.MockTransferRepository
	outbox    *mocks.MockOutboxRepository
	audit     *mocks.MockAuditRepository
	txMgr     *mocks.MockTransactionManager
	codes     *mocks.MockCodeGenerator
	notifier  *mocks.MockNotifier
	scheduler *mocks.MockSettlementScheduler
	limiter   *mocks.MockAttemptLimiter
	clock     *fakeClock

	transfer   *usecase.TransferUseCase
	settlement *usecase.SettlementUseCase
}

func newHarness(t *testing.T, configure ...func(*usecase.TransferUseCaseConfig)) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	h := &harness{
		ctrl:      ctrl,
		accounts:  mocks.NewMockAccountRepository(),
		transfers: mocks.NewMockTransferRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		audit:     mocks.NewMockAuditRepository(),
		txMgr:     mocks.NewMockTransactionManager(),
		codes:     mocks.NewMockCodeGenerator(ctrl),
		notifier:  mocks.NewMockNotifier(ctrl),
		scheduler: mocks.NewMockSettlementScheduler(ctrl),
		limiter:   mocks.NewMockAttemptLimiter(ctrl),
		clock:     newFakeClock(baseTime),
	}

	idGen := mocks.NewMockIDGenerator()
	m := metrics.New(prometheus.NewRegistry())

	cfg := usecase.TransferUseCaseConfig{
		TxManager:         h.txMgr,
		Guard:             usecase.NewLedgerGuard(h.accounts, domain.DefaultSettlementSelector()),
		TransferRepo:      h.transfers,
		OutboxRepo:        h.outbox,
		AuditRepo:         h.audit,
		IDGen:             idGen,
		CodeGen:           h.codes,
		Notifier:          h.notifier,
		Scheduler:         h.scheduler,
		Limiter:           h.limiter,
		Metrics:           m,
		Logger:            zerolog.Nop(),
		Clock:             h.clock.Now,
		MaxVerifyAttempts: usecase.DefaultMaxVerifyAttempts,
	}
	for _, fn := range configure {
		fn(&cfg)
	}

	h.transfer = usecase.NewTransferUseCase(cfg)
	h.settlement = usecase.NewSettlementUseCase(usecase.SettlementUseCaseConfig{
		TxManager:    h.txMgr,
		TransferRepo: h.transfers,
		OutboxRepo:   h.outbox,
		AuditRepo:    h.audit,
		IDGen:        idGen,
		Metrics:      m,
		Logger:       zerolog.Nop(),
		Clock:        h.clock.Now,
		StaleAfter:   time.Hour,
	})

	// Runs before the controller's own cleanup verifies expectations.
	t.Cleanup(h.transfer.WaitForDispatches)

	h.accounts.Seed(&domain.Account{
		ID:        "acc-checking",
		OwnerID:   senderID,
		Type:      "Checking",
		Number:    "1000000001",
		Balance:   decimal.NewFromInt(5000),
		CreatedAt: baseTime.Add(-2 * time.Hour),
	})
	h.accounts.Seed(&domain.Account{
		ID:        "acc-savings",
		OwnerID:   senderID,
		Type:      "Savings",
		Number:    "1000000002",
		Balance:   decimal.NewFromInt(1000),
		CreatedAt: baseTime.Add(-time.Hour),
	})

	return h
}

func (h *harness) allowNotifications() {
	h.notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func validRequest(amount int64) domain.TransferRequest {
	return domain.TransferRequest{
		Recipient: domain.Recipient{
			Name:          "Jane Doe",
			Email:         "jane@example.com",
			AccountNumber: "12345678",
			BankName:      "First Bank",
		},
		Routing:      domain.DomesticRouting{RoutingNumber: "021000021", BankAddress: "1 Main St"},
		Amount:       decimal.NewFromInt(amount),
		Currency:     "usd",
		TransferDate: baseTime,
		Reference:    "rent",
	}
}

func createInput(amount int64) usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		SenderID:    senderID,
		SenderEmail: senderEmail,
		Request:     validRequest(amount),
	}
}

// seedTransfer stores a transfer in the given state and returns its ID.
func (h *harness) seedTransfer(id string, status domain.TransferStatus, verified bool, code string, updatedAt time.Time) string {
	h.transfers.Seed(&domain.Transfer{
		ID:               id,
		SenderID:         senderID,
		SenderEmail:      senderEmail,
		SenderAccountID:  "acc-savings",
		Recipient:        domain.Recipient{Name: "Jane Doe", AccountNumber: "12345678", BankName: "First Bank"},
		Routing:          domain.DomesticRouting{},
		Amount:           decimal.NewFromInt(100),
		Currency:         "USD",
		Category:         domain.TransferCategoryPersonal,
		TransferDate:     baseTime,
		Status:           status,
		VerificationCode: code,
		Verified:         verified,
		CreatedAt:        updatedAt,
		UpdatedAt:        updatedAt,
	})
	return id
}
