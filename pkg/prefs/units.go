// Package prefs stores per-subject display units in Redis.
package prefs

import (
	"fmt"
	"strings"
)

// TemperatureUnit selects how temperatures are displayed.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

// WindUnit selects how wind speeds are displayed.
type WindUnit string

const (
	KilometersPerHour WindUnit = "km/h"
	MetersPerSecond   WindUnit = "m/s"
	MilesPerHour      WindUnit = "mph"
)

// Units is the display preference of a subject.
type Units struct {
	Temperature TemperatureUnit `json:"temperature"`
	Wind        WindUnit        `json:"wind"`
}

// DefaultUnits returns metric display units.
func DefaultUnits() Units {
	return Units{Temperature: Celsius, Wind: KilometersPerHour}
}

// ParseTemperatureUnit accepts "C", "F" and their long names.
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "celsius":
		return Celsius, nil
	case "f", "fahrenheit":
		return Fahrenheit, nil
	}
	return "", fmt.Errorf("unknown temperature unit %q", s)
}

// ParseWindUnit accepts "km/h", "m/s" and "mph".
func ParseWindUnit(s string) (WindUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km/h", "kmh", "kph":
		return KilometersPerHour, nil
	case "m/s", "ms":
		return MetersPerSecond, nil
	case "mph":
		return MilesPerHour, nil
	}
	return "", fmt.Errorf("unknown wind unit %q", s)
}

// Validate reports whether both units are known.
func (u Units) Validate() error {
	if _, err := ParseTemperatureUnit(string(u.Temperature)); err != nil {
		return err
	}
	if _, err := ParseWindUnit(string(u.Wind)); err != nil {
		return err
	}
	return nil
}

// ConvertTemperature converts a Celsius value to the preferred unit.
func (u Units) ConvertTemperature(celsius float64) float64 {
	if u.Temperature == Fahrenheit {
		return celsius*9/5 + 32
	}
	return celsius
}

// ConvertWind converts a km/h value to the preferred unit.
func (u Units) ConvertWind(kmh float64) float64 {
	switch u.Wind {
	case MetersPerSecond:
		return kmh / 3.6
	case MilesPerHour:
		return kmh / 1.609344
	}
	return kmh
}

// FormatTemperature renders a Celsius value, e.g. "21.5°C".
func (u Units) FormatTemperature(celsius float64) string {
	unit := u.Temperature
	if unit != Fahrenheit {
		unit = Celsius
	}
	return fmt.Sprintf("%.1f°%s", u.ConvertTemperature(celsius), unit)
}

// FormatWind renders a km/h value, e.g. "12.0 km/h".
func (u Units) FormatWind(kmh float64) string {
	unit := u.Wind
	if unit != MetersPerSecond && unit != MilesPerHour {
		unit = KilometersPerHour
	}
	return fmt.Sprintf("%.1f %s", u.ConvertWind(kmh), unit)
}
