// Package metrics exposes the Prometheus metrics of the weather pipeline.
// All metrics are defined in their respective packages (cache, client,
// queue, controller, ratelimit) and registered via promauto.
//
// This package provides the scrape handler and the metric reference.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the pipeline.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry the scrape handler reads from.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - weather_cache_hits_total (Counter): Fresh cache lookups
//   - weather_cache_misses_total (Counter): Lookups that missed or found a stale entry
//   - weather_cache_evictions_total{reason} (Counter): Evictions (capacity, expired, purge)
//   - weather_cache_entries (Gauge): Current number of entries
//
// Fetch Metrics (pkg/client):
//   - weather_fetch_attempts_total{endpoint, outcome} (Counter): Attempts by endpoint and outcome
//   - weather_fetch_attempt_duration_seconds{endpoint} (Histogram): Attempt duration
//   - weather_fetch_errors_total{kind} (Counter): Final errors by kind
//
// Retry Metrics (pkg/client):
//   - weather_fetch_retries_total{kind} (Counter): Retries by triggering error kind
//   - weather_fetch_retry_delay_seconds (Histogram): Linear retry delays
//   - weather_fetch_retry_exhausted_total{kind} (Counter): Requests that exhausted max retries
//
// Rate Limit Metrics (pkg/ratelimit):
//   - weather_rate_limit_throttles_total (Counter): Requests delayed by the outbound limiter
//   - weather_rate_limit_wait_seconds (Histogram): Time spent waiting for a token
//
// Queue Metrics (pkg/queue):
//   - weather_queue_depth (Gauge): Tasks waiting for the worker
//   - weather_queue_tasks_total{kind, outcome} (Counter): Processed tasks
//   - weather_queue_task_duration_seconds{kind} (Histogram): Handler duration
//
// Controller Metrics (pkg/controller):
//   - weather_controller_notifications_total{kind} (Counter): Delivered notifications
//   - weather_controller_notifications_dropped_total (Counter): Notifications abandoned on stop
//   - weather_controller_batches_started_total (Counter): RequestAll calls
//   - weather_controller_batches_completed_total (Counter): Batches that reached AllDataReady
//   - weather_controller_batches_replaced_total (Counter): Batches superseded before completion
//   - weather_controller_maintenance_removed_total (Counter): Entries purged by sweeps
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(weather_cache_hits_total[5m])) /
//   (sum(rate(weather_cache_hits_total[5m])) + sum(rate(weather_cache_misses_total[5m])))
//
//   # Retry Rate
//   sum(rate(weather_fetch_retries_total[5m])) / sum(rate(weather_fetch_attempts_total[5m]))
//
//   # Failed Tasks
//   rate(weather_queue_tasks_total{outcome="error"}[5m])
//
//   # P95 Attempt Latency
//   histogram_quantile(0.95, rate(weather_fetch_attempt_duration_seconds_bucket[5m]))
