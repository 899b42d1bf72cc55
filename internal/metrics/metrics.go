package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SwapRequests counts facade swap calls by strategy and outcome.
	SwapRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_swap_requests_total",
			Help: "Total number of swap requests",
		},
		[]string{"strategy", "status"},
	)

	// PathFallbacks counts routes resolved past the direct and
	// intermediary stages, by fallback kind (wnative, naive).
	PathFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_path_fallbacks_total",
			Help: "Total number of paths resolved through a fallback stage",
		},
		[]string{"kind"},
	)

	// RegistryProbeFailures counts factory reads swallowed as negative
	// probe results.
	RegistryProbeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "router_registry_probe_failures_total",
		Help: "Total number of registry probe reads treated as misses",
	})

	// TxSubmitted counts submitted transactions by contract method.
	TxSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_transactions_submitted_total",
			Help: "Total number of transactions submitted",
		},
		[]string{"method"},
	)

	// TxConfirmed counts receipt outcomes.
	TxConfirmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_transactions_confirmed_total",
			Help: "Total number of transaction receipts observed",
		},
		[]string{"status"},
	)

	// EventsPublished counts domain events published to the broker.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"event_type"},
	)
)
