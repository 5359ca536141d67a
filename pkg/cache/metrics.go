package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks fresh lookups served from memory
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	// CacheMisses tracks lookups that found no fresh entry
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// CacheEvictions tracks removed entries by reason
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_evictions_total",
			Help: "Total number of response cache evictions",
		},
		[]string{"reason"}, // "capacity", "expired", "purge"
	)

	// CacheEntries tracks the current number of cached responses
	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "weather_cache_entries",
			Help: "Current number of entries in the response cache",
		},
	)
)
