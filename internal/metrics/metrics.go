// Package metrics exposes the Prometheus instrumentation for the feed
// engine. Collectors are registered on the default registry and served
// from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedLoads counts feed loads by outcome ("ok" or "error").
	FeedLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "juanleme",
		Name:      "feed_loads_total",
		Help:      "Feed load attempts by outcome.",
	}, []string{"status"})

	// FeedLoadDuration observes end-to-end feed load latency in seconds.
	FeedLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "juanleme",
		Name:      "feed_load_duration_seconds",
		Help:      "Feed load latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// ReactionToggles counts reaction toggles by kind and outcome
	// ("added", "removed" or "error").
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "juanleme",
		Name:      "reaction_toggles_total",
		Help:      "Reaction toggle attempts by kind and outcome.",
	}, []string{"kind", "status"})

	// NotificationLoads counts inbox loads by outcome.
	NotificationLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "juanleme",
		Name:      "notification_loads_total",
		Help:      "Notification inbox load attempts by outcome.",
	}, []string{"status"})
)
