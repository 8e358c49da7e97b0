// Package settlement runs the automatic approval paths for verified
// transfers: a one-shot timer per transfer and a periodic sweep that catches
// anything the timers missed, for example after a restart.
package settlement

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kingsLib5/Hsbc-online-backend/internal/domain"
	"github.com/kingsLib5/Hsbc-online-backend/internal/infrastructure/metrics"
	"github.com/kingsLib5/Hsbc-online-backend/internal/usecase"
)

// Settler applies settlements. *usecase.SettlementUseCase implements it.
type Settler interface {
	Settle(ctx context.Context, id string, trigger domain.SettlementTrigger) (*domain.Transfer, error)
	SweepStale(ctx context.Context, trigger domain.SettlementTrigger) (usecase.SweepResult, error)
}

// Config for Scheduler.
type Config struct {
	Settler Settler
	Metrics *metrics.Metrics
	Logger  zerolog.Logger

	Delay    time.Duration // Wait between verification and the timer settlement
	Interval time.Duration // Sweep period
	Timeout  time.Duration // Bound on a single timer settlement
}

// Scheduler owns the settlement timers and the sweep loop.
type Scheduler struct {
	settler  Settler
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	delay    time.Duration
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	running sync.WaitGroup
}

// NewScheduler creates a Scheduler.
func NewScheduler(cfg Config) *Scheduler {
	if cfg.Delay <= 0 {
		cfg.Delay = time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = usecase.DefaultTransactionTimeout
	}

	return &Scheduler{
		settler:  cfg.Settler,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		delay:    cfg.Delay,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		timers:   make(map[string]*time.Timer),
	}
}

// Schedule arms a one-shot settlement for transferID. Scheduling an ID that
// already has a pending timer is a no-op. Timers are not cancelled when the
// transfer settles by another path; the late settlement finds nothing to do.
func (s *Scheduler) Schedule(transferID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if _, ok := s.timers[transferID]; ok {
		return
	}

	s.timers[transferID] = time.AfterFunc(s.delay, func() { s.fire(transferID) })
	if s.metrics != nil {
		s.metrics.ScheduledTimers.Inc()
	}
}

// Pending returns the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) fire(transferID string) {
	s.mu.Lock()
	if s.stopped {
		// Stop raced with this callback and could not disarm it.
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.ScheduledTimers.Dec()
		}
		return
	}
	delete(s.timers, transferID)
	s.running.Add(1)
	s.mu.Unlock()

	defer s.running.Done()
	if s.metrics != nil {
		s.metrics.ScheduledTimers.Dec()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.settler.Settle(ctx, transferID, domain.SettlementTriggerTimer)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStatusConflict):
		s.logger.Debug().Str("transfer_id", transferID).Msg("timer found transfer already settled")
	default:
		// The sweep retries it on its next pass.
		s.logger.Error().Err(err).Str("transfer_id", transferID).Msg("timer settlement failed")
	}
}

// Start runs a sweep immediately and then every interval until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("delay", s.delay).
		Msg("settlement scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("settlement scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	if _, err := s.settler.SweepStale(ctx, domain.SettlementTriggerSweep); err != nil && ctx.Err() == nil {
		s.logger.Error().Err(err).Msg("settlement sweep failed")
	}
}

// Stop disarms pending timers and waits for settlements already in progress.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		if t.Stop() && s.metrics != nil {
			s.metrics.ScheduledTimers.Dec()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.running.Wait()
}
