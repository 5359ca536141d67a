package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the worker state.
type State int32

const (
	// StateIdle means the queue is empty and the worker is waiting.
	StateIdle State = iota
	// StateDraining means the worker is processing tasks.
	StateDraining
)

func (s State) String() string {
	if s == StateDraining {
		return "draining"
	}
	return "idle"
}

// Handler processes one task. It must return only once the task is resolved.
type Handler func(ctx context.Context, task Task) error

// Completion reports the outcome of one task.
type Completion struct {
	Task     Task
	Err      error
	Duration time.Duration
}

// WorkerConfig holds worker hooks.
type WorkerConfig struct {
	// OnStart is called before the handler runs.
	OnStart func(Task)

	// OnComplete is called after the handler returns, including on failure.
	// It is not called for a task interrupted by worker shutdown.
	OnComplete func(Completion)

	// Logger (optional, defaults to global logger with component field).
	Logger *zerolog.Logger
}

// Worker drains a Queue on one goroutine.
type Worker struct {
	queue   *Queue
	handler Handler
	config  WorkerConfig
	logger  zerolog.Logger
	state   atomic.Int32
	running atomic.Bool
}

// NewWorker creates a worker for q.
func NewWorker(q *Queue, handler Handler, cfg WorkerConfig) (*Worker, error) {
	if q == nil {
		return nil, errors.New("queue cannot be nil")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	logger := log.With().Str("component", "queue-worker").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Worker{
		queue:   q,
		handler: handler,
		config:  cfg,
		logger:  logger,
	}, nil
}

// State returns the current worker state.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Run processes tasks until ctx is cancelled. Run must not be called concurrently.
func (w *Worker) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New("worker already running")
	}
	defer w.running.Store(false)
	defer w.state.Store(int32(StateIdle))

	w.logger.Debug().Msg("Worker started")

	for {
		if ctx.Err() != nil {
			w.logger.Debug().Msg("Worker stopped")
			return ctx.Err()
		}

		task, ok := w.queue.Dequeue()
		if !ok {
			w.state.Store(int32(StateIdle))
			select {
			case <-ctx.Done():
				w.logger.Debug().Msg("Worker stopped")
				return ctx.Err()
			case <-w.queue.Ready():
				continue
			}
		}

		w.state.Store(int32(StateDraining))
		w.process(ctx, task)
	}
}

func (w *Worker) process(ctx context.Context, task Task) {
	if w.config.OnStart != nil {
		w.config.OnStart(task)
	}

	start := time.Now()
	err := w.handler(ctx, task)
	duration := time.Since(start)

	if ctx.Err() != nil {
		w.logger.Debug().Stringer("task", task).Msg("Task interrupted by shutdown")
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
		w.logger.Warn().Err(err).Stringer("task", task).Dur("duration", duration).Msg("Task failed")
	} else {
		w.logger.Debug().Stringer("task", task).Dur("duration", duration).Msg("Task completed")
	}
	TasksProcessed.WithLabelValues(task.Kind.String(), outcome).Inc()
	TaskDuration.WithLabelValues(task.Kind.String()).Observe(duration.Seconds())

	if w.config.OnComplete != nil {
		w.config.OnComplete(Completion{Task: task, Err: err, Duration: duration})
	}
}
