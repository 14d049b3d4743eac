package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the booking and payment event counters exported on /metrics.
type Metrics struct {
	ReservationsTotal      *prometheus.CounterVec
	PaymentEventsTotal     *prometheus.CounterVec
	IdempotencyReplays     *prometheus.CounterVec
	IdempotencyWaitTimeout prometheus.Counter
	StalledEventsResumed   prometheus.Counter
	EventProcessingSeconds *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_reservations_total",
				Help: "Reservation attempts by result",
			},
			[]string{"result"},
		),
		PaymentEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_payment_events_total",
				Help: "Payment event deliveries by outcome",
			},
			[]string{"outcome", "event_type"},
		),
		IdempotencyReplays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_idempotency_replays_total",
				Help: "Operations answered from a stored result",
			},
			[]string{"operation"},
		),
		IdempotencyWaitTimeout: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_idempotency_wait_timeouts_total",
				Help: "Callers that gave up waiting on a concurrent identical operation",
			},
		),
		StalledEventsResumed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_payment_events_resumed_total",
				Help: "Payment events picked up again by the stall sweeper",
			},
		),
		EventProcessingSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "booking_payment_event_processing_seconds",
				Help:    "Duration of payment event processing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.ReservationsTotal,
			m.PaymentEventsTotal,
			m.IdempotencyReplays,
			m.IdempotencyWaitTimeout,
			m.StalledEventsResumed,
			m.EventProcessingSeconds,
		)
	}
	return m
}

// NewNoop returns unregistered collectors, handy for tests.
func NewNoop() *Metrics {
	return New(nil)
}
