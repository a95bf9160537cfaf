package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheLoadDuration tracks how long catalog snapshot loads take.
	cacheLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_cache_load_duration_seconds",
		Help:    "Time taken to load the catalog snapshot",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	})

	// cacheLoadErrors tracks failed snapshot loads.
	cacheLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_load_errors_total",
		Help: "Total number of catalog snapshot load errors",
	})

	// cacheStaleServes tracks lookups answered from an expired snapshot.
	cacheStaleServes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_stale_serves_total",
		Help: "Total number of lookups served from a stale catalog snapshot",
	})

	// cachedStores reports the size of the current snapshot.
	cachedStores = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_cached_stores",
		Help: "Number of stores in the current catalog snapshot",
	})
)
