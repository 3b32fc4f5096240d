package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_webhook_events_total",
			Help: "Total number of webhook deliveries received",
		},
	)

	SignatureFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_webhook_signature_failures_total",
			Help: "Total number of webhook deliveries rejected for a bad signature",
		},
	)

	OrdersFinalizedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_orders_finalized_total",
			Help: "Total number of orders materialized from payment events",
		},
	)

	ReplaysTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_payment_replays_total",
			Help: "Total number of redelivered payment events short-circuited as no-ops",
		},
	)

	AmountMismatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_amount_mismatches_total",
			Help: "Total number of payment events rejected for a captured/recomputed amount mismatch",
		},
	)

	FinalizeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkout_finalize_duration_seconds",
			Help:    "Duration of payment finalization, signature verification excluded",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all checkout metrics with the default registry.
func Register() {
	prometheus.MustRegister(WebhookEventsTotal)
	prometheus.MustRegister(SignatureFailuresTotal)
	prometheus.MustRegister(OrdersFinalizedTotal)
	prometheus.MustRegister(ReplaysTotal)
	prometheus.MustRegister(AmountMismatchesTotal)
	prometheus.MustRegister(FinalizeDuration)
}
