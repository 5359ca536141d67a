package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/weather-pipeline/pkg/queue"
	"github.com/go-co-op/gocron"
)

// StartMaintenance (re)arms the periodic cache sweep with interval.
// The first sweep runs one interval after the call.
func (c *Controller) StartMaintenance(interval time.Duration) error {
	if interval <= 0 {
		return errors.New("maintenance interval must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return ErrNotRunning
	}
	c.stopSchedulerLocked()
	c.interval = interval
	return c.startSchedulerLocked(interval)
}

// StopMaintenance halts the periodic sweep. The worker keeps running.
func (c *Controller) StopMaintenance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopSchedulerLocked()
}

// RunMaintenance enqueues one sweep immediately.
func (c *Controller) RunMaintenance() {
	c.enqueue(queue.Task{Kind: queue.KindMaintenance})
}

func (c *Controller) startSchedulerLocked(interval time.Duration) error {
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(interval).WaitForSchedule().SingletonMode().Do(c.RunMaintenance)
	if err != nil {
		return fmt.Errorf("schedule maintenance: %w", err)
	}
	s.StartAsync()
	c.scheduler = s

	c.logger.Debug().Dur("interval", interval).Msg("Maintenance scheduled")
	return nil
}

func (c *Controller) stopSchedulerLocked() {
	if c.scheduler == nil {
		return
	}
	c.scheduler.Stop()
	c.scheduler = nil
}
