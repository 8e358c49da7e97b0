package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/metrics"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

type stubSettler struct {
	mu      sync.Mutex
	settled []string
	sweeps  int
	settle  chan string
	err     error
}

func newStubSettler() *stubSettler {
	return &stubSettler{settle: make(chan string, 16)}
}

func (s *stubSettler) Settle(_ context.Context, id string, trigger domain.SettlementTrigger) (*domain.Transfer, error) {
	s.mu.Lock()
	s.settled = append(s.settled, id+":"+string(trigger))
	err := s.err
	s.mu.Unlock()
	s.settle <- id
	if err != nil {
		return nil, err
	}
	return &domain.Transfer{ID: id, Status: domain.TransferStatusApproved}, nil
}

func (s *stubSettler) SweepStale(context.Context, domain.SettlementTrigger) (usecase.SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	return usecase.SweepResult{}, nil
}

func (s *stubSettler) sweepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweeps
}

func newTestScheduler(settler Settler, delay time.Duration) (*Scheduler, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	return NewScheduler(Config{
		Settler:  settler,
		Metrics:  m,
		Logger:   zerolog.Nop(),
		Delay:    delay,
		Interval: 10 * time.Millisecond,
	}), m
}

func TestScheduler_TimerSettlesWithTimerTrigger(t *testing.T) {
	settler := newStubSettler()
	s, m := newTestScheduler(settler, 10*time.Millisecond)
	defer s.Stop()

	s.Schedule("tr-1")
	s.Schedule("tr-1") // duplicate is ignored
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ScheduledTimers))

	select {
	case id := <-settler.settle:
		assert.Equal(t, "tr-1", id)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	s.Stop()
	assert.Equal(t, []string{"tr-1:timer"}, settler.settled)
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ScheduledTimers))
}

func TestScheduler_TimerConflictIsQuiet(t *testing.T) {
	settler := newStubSettler()
	settler.err = domain.ErrStatusConflict
	s, _ := newTestScheduler(settler, time.Millisecond)
	defer s.Stop()

	s.Schedule("tr-1")
	select {
	case <-settler.settle:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestScheduler_StopDisarmsTimers(t *testing.T) {
	settler := newStubSettler()
	s, m := newTestScheduler(settler, time.Hour)

	s.Schedule("tr-1")
	s.Schedule("tr-2")
	require.Equal(t, 2, s.Pending())

	s.Stop()
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ScheduledTimers))

	s.Schedule("tr-3")
	assert.Equal(t, 0, s.Pending(), "stopped scheduler accepts no new timers")
	assert.Empty(t, settler.settled)
}

func TestScheduler_StartSweepsUntilCancelled(t *testing.T) {
	settler := newStubSettler()
	s, _ := newTestScheduler(settler, time.Hour)
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return settler.sweepCount() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
