package domain

import (
	"fmt"
	"strings"
)

// Units selects the unit system requested from the forecast provider.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ParseUnits accepts "metric" or "imperial" (case-insensitive).
func ParseUnits(s string) (Units, error) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("parse units: unknown unit system %q", s)
	}
}

// TemperatureUnit is the provider's temperature_unit value.
func (u Units) TemperatureUnit() string {
	if u == Imperial {
		return "fahrenheit"
	}
	return "celsius"
}

// WindSpeedUnit is the provider's wind_speed_unit value.
func (u Units) WindSpeedUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "kmh"
}

func (u Units) TemperatureSymbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

func (u Units) WindSpeedSymbol() string {
	if u == Imperial {
		return "mph"
	}
	return "km/h"
}
