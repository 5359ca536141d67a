package main

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/weather-pipeline/pkg/controller"
	"github.com/Sternrassler/weather-pipeline/pkg/prefs"
)

// summarize renders a one-line description of n in the given units.
func summarize(n controller.Notification, units prefs.Units) string {
	switch n.Kind {
	case controller.CurrentReady:
		if n.Current == nil {
			return "current conditions"
		}
		c := n.Current
		return fmt.Sprintf("%s, %s (feels %s), wind %s %s, humidity %d%%",
			c.Description,
			units.FormatTemperature(c.Temperature),
			units.FormatTemperature(c.FeelsLike),
			c.WindDirection,
			units.FormatWind(c.WindSpeed),
			c.Humidity)
	case controller.HourlyReady:
		if len(n.Hourly) == 0 {
			return "hourly forecast: no data"
		}
		first := n.Hourly[0]
		return fmt.Sprintf("hourly forecast: %d hours, next %s %s",
			len(n.Hourly), first.Description, units.FormatTemperature(first.Temperature))
	case controller.DailyReady:
		if len(n.Daily) == 0 {
			return "daily forecast: no data"
		}
		today := n.Daily[0]
		return fmt.Sprintf("daily forecast: %d days, today %s %s / %s",
			len(n.Daily), today.Description,
			units.FormatTemperature(today.High), units.FormatTemperature(today.Low))
	case controller.SecondaryIndexReady:
		parts := make([]string, 0, len(n.Indices))
		for _, idx := range n.Indices {
			parts = append(parts, idx.Name+": "+idx.Category)
		}
		return "indices: " + strings.Join(parts, ", ")
	case controller.AdvisoryReady:
		if len(n.Advisories) == 0 {
			return "advisories: none"
		}
		titles := make([]string, 0, len(n.Advisories))
		for _, adv := range n.Advisories {
			titles = append(titles, adv.Title)
		}
		return "advisories: " + strings.Join(titles, "; ")
	case controller.Error:
		return "error: " + n.Message
	case controller.AllDataReady:
		return "all data ready"
	case controller.MaintenanceCompleted:
		return fmt.Sprintf("maintenance removed %d expired entries", n.Removed)
	case controller.TaskStarted, controller.TaskFinished:
		return n.Kind.String() + " " + n.Task.String()
	}
	return n.Kind.String()
}
