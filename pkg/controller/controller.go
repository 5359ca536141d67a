// Package controller owns the worker lifecycle, batch tracking and the
// periodic cache maintenance of the weather pipeline.
//
// All results are delivered on the channel returned by Notifications.
// Request methods only enqueue and never block on the network.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/weather-pipeline/pkg/client"
	"github.com/Sternrassler/weather-pipeline/pkg/location"
	"github.com/Sternrassler/weather-pipeline/pkg/logging"
	"github.com/Sternrassler/weather-pipeline/pkg/queue"
	"github.com/Sternrassler/weather-pipeline/pkg/weather"
	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaintenanceInterval is the cache sweep period.
	DefaultMaintenanceInterval = 5 * time.Minute

	// DefaultNotificationBuffer is the notification channel capacity.
	DefaultNotificationBuffer = 64
)

// ErrNotRunning is returned by Stop when the controller was never started.
var ErrNotRunning = errors.New("controller not running")

// Resolver maps a subject id to coordinates.
type Resolver interface {
	Resolve(ctx context.Context, id string) (weather.Location, location.Source)
}

// Config holds controller dependencies and settings.
type Config struct {
	Provider *weather.Provider
	Gateway  *client.Gateway
	Resolver Resolver

	// MaintenanceInterval between cache sweeps (default: 5m, negative disables)
	MaintenanceInterval time.Duration

	// NotificationBuffer is the notification channel capacity (default: 64)
	NotificationBuffer int

	// Logger (optional, defaults to global logger with component field).
	Logger *zerolog.Logger
}

// batch tracks the outstanding members of one RequestAll.
type batch struct {
	SubjectID  string
	Generation string
	Remaining  int
}

// Controller drives the task queue and reports results as notifications.
type Controller struct {
	provider *weather.Provider
	gateway  *client.Gateway
	resolver Resolver
	interval time.Duration
	logger   zerolog.Logger

	queue         *queue.Queue
	worker        *queue.Worker
	notifications chan Notification

	mu        sync.Mutex
	batches   map[string]*batch
	runCtx    context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	scheduler *gocron.Scheduler
}

// New creates a controller. Call Start to begin processing.
func New(cfg Config) (*Controller, error) {
	if cfg.Provider == nil {
		return nil, errors.New("provider cannot be nil")
	}
	if cfg.Gateway == nil {
		return nil, errors.New("gateway cannot be nil")
	}
	if cfg.Resolver == nil {
		return nil, errors.New("resolver cannot be nil")
	}
	if cfg.MaintenanceInterval == 0 {
		cfg.MaintenanceInterval = DefaultMaintenanceInterval
	}
	if cfg.NotificationBuffer <= 0 {
		cfg.NotificationBuffer = DefaultNotificationBuffer
	}

	logger := log.With().Str("component", "controller").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Controller{
		provider:      cfg.Provider,
		gateway:       cfg.Gateway,
		resolver:      cfg.Resolver,
		interval:      cfg.MaintenanceInterval,
		logger:        logger,
		queue:         queue.New(),
		notifications: make(chan Notification, cfg.NotificationBuffer),
		batches:       make(map[string]*batch),
	}

	workerLogger := logger.With().Str("component", "queue-worker").Logger()
	worker, err := queue.NewWorker(c.queue, c.handle, queue.WorkerConfig{
		OnStart:    c.taskStarted,
		OnComplete: c.taskFinished,
		Logger:     &workerLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("create worker: %w", err)
	}
	c.worker = worker

	return c, nil
}

// Notifications returns the output channel. It is never closed.
func (c *Controller) Notifications() <-chan Notification {
	return c.notifications
}

// Start launches the worker goroutine and the maintenance schedule.
// Tasks requested before Start are processed once it runs.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return errors.New("controller already running")
	}

	if c.interval > 0 {
		if err := c.startSchedulerLocked(c.interval); err != nil {
			return err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.runCtx = runCtx
	c.cancel = cancel
	c.done = make(chan struct{})

	done := c.done
	go func() {
		defer close(done)
		_ = c.worker.Run(runCtx)
	}()

	c.logger.Info().Dur("maintenance_interval", c.interval).Msg("Controller started")
	return nil
}

// Stop abandons queued tasks, cancels the task in flight and halts
// maintenance. No notifications are delivered after Stop returns.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return ErrNotRunning
	}

	c.stopSchedulerLocked()
	c.cancel()
	done := c.done
	c.cancel = nil
	c.runCtx = nil
	dropped := c.queue.Clear()
	c.mu.Unlock()

	<-done

	// Tasks may have been enqueued between Clear and the worker exit. A batch
	// and its tasks are dropped together so no tracker outlives its tasks.
	c.mu.Lock()
	dropped += c.queue.Clear()
	c.batches = make(map[string]*batch)
	c.mu.Unlock()
	c.logger.Info().Int("dropped_tasks", dropped).Msg("Controller stopped")
	return nil
}

// Running reports whether the worker is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// State returns the worker state.
func (c *Controller) State() queue.State {
	return c.worker.State()
}

// PendingTasks returns the number of queued tasks, excluding the one in flight.
func (c *Controller) PendingTasks() int {
	return c.queue.Len()
}

// RequestCurrent enqueues a current-conditions fetch.
func (c *Controller) RequestCurrent(subjectID string) {
	c.enqueue(queue.Task{Kind: queue.KindCurrent, SubjectID: subjectID})
}

// RequestHourly enqueues an hourly forecast fetch; hours <= 0 selects the default horizon.
func (c *Controller) RequestHourly(subjectID string, hours int) {
	c.enqueue(queue.Task{Kind: queue.KindHourly, SubjectID: subjectID, Param: hours})
}

// RequestDaily enqueues a daily forecast fetch; days <= 0 selects the default horizon.
func (c *Controller) RequestDaily(subjectID string, days int) {
	c.enqueue(queue.Task{Kind: queue.KindDaily, SubjectID: subjectID, Param: days})
}

// RequestSecondaryIndex enqueues a secondary index fetch.
func (c *Controller) RequestSecondaryIndex(subjectID string) {
	c.enqueue(queue.Task{Kind: queue.KindSecondaryIndex, SubjectID: subjectID})
}

// RequestAdvisory enqueues an advisory fetch.
func (c *Controller) RequestAdvisory(subjectID string) {
	c.enqueue(queue.Task{Kind: queue.KindAdvisory, SubjectID: subjectID})
}

// RequestAll enqueues all five datasets for subjectID as one batch and
// returns the batch generation. An outstanding batch for the same subject
// is replaced; its remaining completions no longer count.
func (c *Controller) RequestAll(subjectID string) string {
	generation := uuid.NewString()

	c.mu.Lock()
	if old, ok := c.batches[subjectID]; ok {
		BatchesReplaced.Inc()
		c.logger.Debug().
			Str("subject_id", subjectID).
			Str("replaced", old.Generation).
			Int("remaining", old.Remaining).
			Msg("Replacing outstanding batch")
	}
	c.batches[subjectID] = &batch{
		SubjectID:  subjectID,
		Generation: generation,
		Remaining:  len(queue.BatchKinds),
	}
	tasks := make([]queue.Task, 0, len(queue.BatchKinds))
	for _, kind := range queue.BatchKinds {
		tasks = append(tasks, queue.Task{Kind: kind, SubjectID: subjectID, Batch: generation})
	}
	c.queue.Enqueue(tasks...)
	c.mu.Unlock()
	BatchesStarted.Inc()

	batchLogger := logging.ForSubject(c.logger, subjectID)
	batchLogger.Debug().Str("generation", generation).Msg("Batch requested")
	return generation
}

// OutstandingBatch returns the remaining member count of the subject's batch.
func (c *Controller) OutstandingBatch(subjectID string) (remaining int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.batches[subjectID]
	if !ok {
		return 0, false
	}
	return b.Remaining, true
}

func (c *Controller) enqueue(task queue.Task) {
	c.queue.Enqueue(task)
}

func (c *Controller) taskStarted(task queue.Task) {
	c.emit(Notification{Kind: TaskStarted, SubjectID: task.SubjectID, Task: task})
}

func (c *Controller) taskFinished(done queue.Completion) {
	task := done.Task
	c.emit(Notification{Kind: TaskFinished, SubjectID: task.SubjectID, Task: task, Err: done.Err})

	if task.Batch == "" {
		return
	}

	c.mu.Lock()
	b, ok := c.batches[task.SubjectID]
	if !ok || b.Generation != task.Batch {
		c.mu.Unlock()
		c.logger.Debug().Stringer("task", task).Str("generation", task.Batch).Msg("Ignoring completion of superseded batch")
		return
	}
	b.Remaining--
	complete := b.Remaining == 0
	if complete {
		delete(c.batches, task.SubjectID)
	}
	c.mu.Unlock()

	if complete {
		BatchesCompleted.Inc()
		doneLogger := logging.ForSubject(c.logger, task.SubjectID)
		doneLogger.Info().Str("generation", task.Batch).Msg("All data ready")
		c.emit(Notification{Kind: AllDataReady, SubjectID: task.SubjectID, Task: task})
	}
}

// emit delivers n unless the controller is stopping.
func (c *Controller) emit(n Notification) {
	c.mu.Lock()
	ctx := c.runCtx
	c.mu.Unlock()

	if ctx == nil {
		NotificationsDropped.Inc()
		return
	}

	select {
	case c.notifications <- n:
		NotificationsSent.WithLabelValues(n.Kind.String()).Inc()
	case <-ctx.Done():
		NotificationsDropped.Inc()
	}
}
