// Package metrics exposes the prometheus collectors shared by the
// fetch client and the orchestrator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gaucho_cache_hits_total",
		Help: "Fetches served from the page cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gaucho_cache_misses_total",
		Help: "Fetches that had to hit the network.",
	})

	RunsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gaucho_runs_started_total",
		Help: "Scraper runs started, by store.",
	}, []string{"store"})

	RunsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gaucho_runs_completed_total",
		Help: "Scraper runs that reached DONE, by store.",
	}, []string{"store"})

	RunsErrored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gaucho_runs_errored_total",
		Help: "Scraper runs that ended in an error, by store and kind.",
	}, []string{"store", "kind"})

	ProductsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gaucho_products_persisted_total",
		Help: "Product records upserted, by store.",
	}, []string{"store"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gaucho_run_duration_seconds",
		Help:    "Wall-clock duration of one scraper run.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"store"})
)
