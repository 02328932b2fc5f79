package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests by outcome: start, continue, help, bad_request, error.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "othello_requests_total",
			Help: "Total responder requests",
		},
		[]string{"outcome"},
	)

	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "othello_request_duration_seconds",
			Help:    "Responder request duration",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	RelayFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "othello_relay_fetch_total",
			Help: "Relay lookups by result",
		},
		[]string{"result"}, // "found", "missing" or "error"
	)

	LookupCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "othello_lookup_cache_total",
			Help: "Lookup cache hits and misses",
		},
		[]string{"result"},
	)
)
