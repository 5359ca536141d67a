package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsSent counts delivered notifications by kind.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_controller_notifications_total",
		Help: "Total number of notifications delivered",
	}, []string{"kind"})

	// NotificationsDropped counts notifications abandoned during shutdown.
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_controller_notifications_dropped_total",
		Help: "Notifications abandoned because the controller stopped",
	})

	// BatchesStarted counts RequestAll calls.
	BatchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_controller_batches_started_total",
		Help: "Total number of batches started",
	})

	// BatchesCompleted counts batches that reached AllDataReady.
	BatchesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_controller_batches_completed_total",
		Help: "Total number of batches completed",
	})

	// BatchesReplaced counts batches superseded before completion.
	BatchesReplaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_controller_batches_replaced_total",
		Help: "Batches replaced by a newer request for the same subject",
	})

	// MaintenanceRemoved tracks entries removed by maintenance sweeps.
	MaintenanceRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weather_controller_maintenance_removed_total",
		Help: "Cache entries removed by maintenance sweeps",
	})
)
