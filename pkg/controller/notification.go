package controller

import (
	"fmt"

	"github.com/Sternrassler/weather-pipeline/pkg/client"
	"github.com/Sternrassler/weather-pipeline/pkg/queue"
	"github.com/Sternrassler/weather-pipeline/pkg/weather"
)

// NotificationKind tags a Notification.
type NotificationKind int

const (
	CurrentReady NotificationKind = iota
	HourlyReady
	DailyReady
	SecondaryIndexReady
	AdvisoryReady
	Error
	AllDataReady
	MaintenanceCompleted
	TaskStarted
	TaskFinished
)

func (k NotificationKind) String() string {
	switch k {
	case CurrentReady:
		return "current_ready"
	case HourlyReady:
		return "hourly_ready"
	case DailyReady:
		return "daily_ready"
	case SecondaryIndexReady:
		return "secondary_index_ready"
	case AdvisoryReady:
		return "advisory_ready"
	case Error:
		return "error"
	case AllDataReady:
		return "all_data_ready"
	case MaintenanceCompleted:
		return "maintenance_completed"
	case TaskStarted:
		return "task_started"
	case TaskFinished:
		return "task_finished"
	default:
		return fmt.Sprintf("notification(%d)", int(k))
	}
}

// Notification is a pipeline output. Only the fields matching Kind are set.
type Notification struct {
	Kind      NotificationKind
	SubjectID string
	Task      queue.Task

	// FromCache is set on data notifications served without a network call.
	FromCache bool

	Current    *weather.CurrentConditions
	Hourly     []weather.HourlyPoint
	Daily      []weather.DailyPoint
	Indices    []weather.SecondaryIndex
	Advisories []weather.Advisory

	// Message, Err and ErrorKind describe an Error notification.
	// TaskFinished carries Err when the task failed.
	Message   string
	Err       error
	ErrorKind client.ErrorKind

	// Removed is the number of entries purged by a maintenance sweep.
	Removed int
}
