package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCreated  prometheus.Counter
	TransfersVerified prometheus.Counter
	TransfersSettled  *prometheus.CounterVec
	TransfersFailed   *prometheus.CounterVec
	TransferDuration  prometheus.Histogram
	TransferAmount    prometheus.Histogram
	TransferErrors    *prometheus.CounterVec

	// Verification metrics
	VerificationFailures prometheus.Counter
	NotificationsSent    prometheus.Counter
	NotificationErrors   prometheus.Counter

	// Settlement metrics
	SweepRuns       prometheus.Counter
	SweepDuration   prometheus.Histogram
	SweepCandidates prometheus.Histogram
	ScheduledTimers prometheus.Gauge

	// Account metrics
	AccountsCreated prometheus.Counter

	// Outbox metrics
	EventsPublished       *prometheus.CounterVec
	EventsPublishFailures prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates all Prometheus metrics and registers them with reg. A nil reg
// registers with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransfersVerified: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfers_verified_total",
			Help: "Total number of transfers verified",
		}),
		TransfersSettled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_approved_total",
				Help: "Total number of transfers approved by trigger",
			},
			[]string{"trigger"},
		),
		TransfersFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_failed_total",
				Help: "Total number of transfers failed by trigger",
			},
			[]string{"trigger"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transfer_create_duration_seconds",
			Help:    "Duration of transfer creation",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Verification metrics
		VerificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfer_verification_failures_total",
			Help: "Total number of rejected verification codes",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "verification_notifications_sent_total",
			Help: "Total number of verification codes delivered",
		}),
		NotificationErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "verification_notification_errors_total",
			Help: "Total number of verification code deliveries that failed",
		}),

		// Settlement metrics
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "settlement_sweeps_total",
			Help: "Total number of settlement sweeps",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_sweep_duration_seconds",
			Help:    "Duration of settlement sweeps",
			Buckets: prometheus.DefBuckets,
		}),
		SweepCandidates: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_sweep_candidates",
			Help:    "Stale transfers found per sweep",
			Buckets: []float64{0, 1, 10, 50, 100, 500},
		}),
		ScheduledTimers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "settlement_timers_pending",
			Help: "Armed one-shot settlement timers",
		}),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "accounts_created_total",
			Help: "Total number of accounts created",
		}),

		// Outbox metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbox_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventsPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_publish_failures_total",
			Help: "Total outbox events that failed to publish",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
