package tui

import (
	"fmt"

	"cycling-fitness/internal/config"
)

const (
	milesPerKm = 0.621371
	mphPerKph  = 0.621371
)

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatSpeed formats a speed in km/h to the user's preferred unit
func (u Units) FormatSpeed(kph float64) string {
	if u.cfg.SpeedUnit == "mph" {
		return fmt.Sprintf("%.1f mph", kph*mphPerKph)
	}
	return fmt.Sprintf("%.1f kph", kph)
}

// SpeedValue returns just the numeric speed value in the preferred unit
func (u Units) SpeedValue(kph float64) float64 {
	if u.cfg.SpeedUnit == "mph" {
		return kph * mphPerKph
	}
	return kph
}

// SpeedLabel returns the speed unit label
func (u Units) SpeedLabel() string {
	if u.cfg.SpeedUnit == "mph" {
		return "mph"
	}
	return "kph"
}

// FormatDistance formats a distance in km to the user's preferred unit
func (u Units) FormatDistance(km float64) string {
	if u.cfg.DistanceUnit == "mi" {
		return fmt.Sprintf("%.1f mi", km*milesPerKm)
	}
	return fmt.Sprintf("%.1f km", km)
}

// DistanceLabel returns the short distance unit label
func (u Units) DistanceLabel() string {
	if u.cfg.DistanceUnit == "mi" {
		return "mi"
	}
	return "km"
}

// FormatHours formats a duration in fractional hours as "5h 42m"
func (u Units) FormatHours(hours float64) string {
	if hours <= 0 {
		return "-"
	}
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
