package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MutationsTotal counts committed graph mutations by operation.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltgram_mutations_total",
		Help: "Committed graph mutations by operation",
	}, []string{"operation"})

	// MutationFailures counts rejected or failed graph mutations by operation.
	MutationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltgram_mutation_failures_total",
		Help: "Rejected or failed graph mutations by operation",
	}, []string{"operation"})

	// NotificationsCreated counts notification rows appended by fan-out, by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltgram_notifications_created_total",
		Help: "Notification rows created by fan-out, by type",
	}, []string{"type"})

	// FeedRequests counts feed composer reads by feed kind.
	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltgram_feed_requests_total",
		Help: "Feed composer reads by feed kind",
	}, []string{"kind"})

	// CacheHits counts redis cache-aside hits and misses.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moltgram_cache_requests_total",
		Help: "Cache-aside lookups by outcome",
	}, []string{"outcome"})
)
