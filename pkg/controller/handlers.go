package controller

import (
	"context"
	"fmt"

	"github.com/Sternrassler/weather-pipeline/pkg/client"
	"github.com/Sternrassler/weather-pipeline/pkg/logging"
	"github.com/Sternrassler/weather-pipeline/pkg/queue"
	"github.com/Sternrassler/weather-pipeline/pkg/weather"
)

// handle runs on the worker goroutine and returns once the task is resolved.
func (c *Controller) handle(ctx context.Context, task queue.Task) error {
	if task.Kind == queue.KindMaintenance {
		c.sweep()
		return nil
	}

	logger := logging.ForSubject(c.logger, task.SubjectID)
	loc, source := c.resolver.Resolve(ctx, task.SubjectID)
	logger.Debug().
		Stringer("task", task).
		Str("location", loc.Name).
		Str("source", string(source)).
		Msg("Location resolved")

	var err error
	switch task.Kind {
	case queue.KindCurrent:
		err = c.handleCurrent(ctx, task, loc)
	case queue.KindHourly:
		err = c.handleHourly(ctx, task, loc)
	case queue.KindDaily:
		err = c.handleDaily(ctx, task, loc)
	case queue.KindSecondaryIndex:
		err = c.handleIndices(ctx, task, loc)
	case queue.KindAdvisory:
		err = c.handleAdvisory(ctx, task, loc)
	default:
		err = fmt.Errorf("unknown task kind %s", task.Kind)
	}

	if err != nil && ctx.Err() == nil {
		c.emit(Notification{
			Kind:      Error,
			SubjectID: task.SubjectID,
			Task:      task,
			Message:   err.Error(),
			Err:       err,
			ErrorKind: client.KindOf(err),
		})
	}
	return err
}

func (c *Controller) handleCurrent(ctx context.Context, task queue.Task, loc weather.Location) error {
	resp, err := c.gateway.Fetch(ctx, c.provider.CurrentRequest(loc), c.provider.TTL().Current, true)
	if err != nil {
		return err
	}
	current, err := weather.DecodeCurrent(task.SubjectID, resp.Payload)
	if err != nil {
		return err
	}
	c.emit(Notification{Kind: CurrentReady, SubjectID: task.SubjectID, Task: task, FromCache: resp.FromCache, Current: &current})
	return nil
}

func (c *Controller) handleHourly(ctx context.Context, task queue.Task, loc weather.Location) error {
	hours := weather.ClampHours(task.Param)
	resp, err := c.gateway.Fetch(ctx, c.provider.HourlyRequest(loc, hours), c.provider.TTL().Hourly, true)
	if err != nil {
		return err
	}
	points, err := weather.DecodeHourly(resp.Payload, hours)
	if err != nil {
		return err
	}
	c.emit(Notification{Kind: HourlyReady, SubjectID: task.SubjectID, Task: task, FromCache: resp.FromCache, Hourly: points})
	return nil
}

func (c *Controller) handleDaily(ctx context.Context, task queue.Task, loc weather.Location) error {
	days := weather.ClampDays(task.Param)
	resp, err := c.gateway.Fetch(ctx, c.provider.DailyRequest(loc, days), c.provider.TTL().Daily, true)
	if err != nil {
		return err
	}
	points, err := weather.DecodeDaily(resp.Payload, days)
	if err != nil {
		return err
	}
	c.emit(Notification{Kind: DailyReady, SubjectID: task.SubjectID, Task: task, FromCache: resp.FromCache, Daily: points})
	return nil
}

// handleIndices derives the indices from current conditions, so it usually
// hits the entry cached by a preceding current task.
func (c *Controller) handleIndices(ctx context.Context, task queue.Task, loc weather.Location) error {
	resp, err := c.gateway.Fetch(ctx, c.provider.CurrentRequest(loc), c.provider.TTL().Current, true)
	if err != nil {
		return err
	}
	indices, err := weather.DecodeIndices(resp.Payload)
	if err != nil {
		return err
	}
	c.emit(Notification{Kind: SecondaryIndexReady, SubjectID: task.SubjectID, Task: task, FromCache: resp.FromCache, Indices: indices})
	return nil
}

func (c *Controller) handleAdvisory(ctx context.Context, task queue.Task, loc weather.Location) error {
	req, ok := c.provider.AdvisoryRequest(loc)
	if !ok {
		c.emit(Notification{Kind: AdvisoryReady, SubjectID: task.SubjectID, Task: task, Advisories: []weather.Advisory{}})
		return nil
	}

	resp, err := c.gateway.Fetch(ctx, req, c.provider.TTL().Advisory, true)
	if err != nil {
		return err
	}
	advisories, err := weather.DecodeAdvisories(resp.Payload)
	if err != nil {
		return err
	}
	c.emit(Notification{Kind: AdvisoryReady, SubjectID: task.SubjectID, Task: task, FromCache: resp.FromCache, Advisories: advisories})
	return nil
}

func (c *Controller) sweep() {
	removed := c.gateway.PurgeExpired()
	MaintenanceRemoved.Add(float64(removed))
	c.logger.Info().Int("removed", removed).Int("pending", c.queue.Len()).Msg("Maintenance sweep completed")
	c.emit(Notification{Kind: MaintenanceCompleted, Removed: removed})
}
