// Package queue serializes weather tasks onto a single worker goroutine.
//
// Tasks are dequeued in strict FIFO order. The worker starts the next task
// only after the handler of the current one has returned, so at most one
// fetch is in flight per worker.
package queue

import "fmt"

// Kind identifies what a task fetches.
type Kind int

const (
	KindCurrent Kind = iota
	KindHourly
	KindDaily
	KindSecondaryIndex
	KindAdvisory
	KindMaintenance
)

// BatchKinds are the five data kinds that make up one full refresh.
var BatchKinds = []Kind{KindCurrent, KindHourly, KindDaily, KindSecondaryIndex, KindAdvisory}

func (k Kind) String() string {
	switch k {
	case KindCurrent:
		return "current"
	case KindHourly:
		return "hourly"
	case KindDaily:
		return "daily"
	case KindSecondaryIndex:
		return "secondary_index"
	case KindAdvisory:
		return "advisory"
	case KindMaintenance:
		return "maintenance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Task is a unit of work for the worker.
type Task struct {
	Kind      Kind
	SubjectID string
	// Param is the horizon for hourly (hours) and daily (days) tasks.
	Param int
	// Batch is the generation of the batch this task belongs to, empty for single requests.
	Batch string
}

func (t Task) String() string {
	if t.SubjectID == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + ":" + t.SubjectID
}
