package tui

import (
	"fmt"
	"strconv"

	"tricalc/internal/analysis"
)

// FormatDistance renders a leg distance in the unit its picker uses
func FormatDistance(d analysis.Discipline, value float64) string {
	switch d {
	case analysis.Swim:
		return fmt.Sprintf("%.0f m", value)
	case analysis.Bike:
		return strconv.FormatFloat(value, 'f', -1, 64) + " km"
	default:
		return fmt.Sprintf("%.1f km", value)
	}
}

// DistanceEditValue is the text a manual distance entry starts with.
// Swim distances are typed in kilometers.
func DistanceEditValue(d analysis.Discipline, value float64) string {
	if d == analysis.Swim {
		value /= analysis.MetersPerKm
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// PaceUnit returns the unit label of a leg's pace or speed picker
func PaceUnit(d analysis.Discipline) string {
	switch d {
	case analysis.Swim:
		return "/100m"
	case analysis.Bike:
		return "km/h"
	default:
		return "/km"
	}
}

// legTitle is the screen title of a discipline
func legTitle(d analysis.Discipline) string {
	switch d {
	case analysis.Swim:
		return "Swim"
	case analysis.Bike:
		return "Bike"
	default:
		return "Run"
	}
}
