package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueueDepth tracks queued tasks waiting for the worker.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weather_queue_depth",
		Help: "Number of tasks waiting in the queue",
	})

	// TasksProcessed counts finished tasks by kind and outcome (success, error).
	TasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_queue_tasks_total",
		Help: "Total number of processed tasks",
	}, []string{"kind", "outcome"})

	// TaskDuration tracks handler duration by kind.
	TaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weather_queue_task_duration_seconds",
		Help:    "Task handler duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)
