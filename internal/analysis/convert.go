package analysis

import "math"

// Pace is minutes and whole seconds per reference distance
// (100m for swimming, 1km for running)
type Pace struct {
	Minutes int
	Seconds int
}

// Total returns the pace in seconds per reference distance
func (p Pace) Total() float64 {
	return float64(p.Minutes*SecondsPerMinute + p.Seconds)
}

// IsZero reports whether the pace is 0:00
func (p Pace) IsZero() bool {
	return p.Minutes == 0 && p.Seconds == 0
}

// SwimDuration returns the time in seconds to swim distanceMeters at a pace per 100m
func SwimDuration(distanceMeters float64, pace Pace) float64 {
	return nonNegative((distanceMeters / SwimPaceMeters) * pace.Total())
}

// BikeDuration returns the time in seconds to ride distanceKm at speedKmh.
// A zero speed yields zero rather than an infinite duration.
func BikeDuration(distanceKm, speedKmh float64) float64 {
	if speedKmh == 0 {
		return 0
	}
	return nonNegative((distanceKm / speedKmh) * SecondsPerHour)
}

// RunDuration returns the time in seconds to run distanceKm at a pace per km
func RunDuration(distanceKm float64, pace Pace) float64 {
	return nonNegative(distanceKm * pace.Total())
}

// SwimPace returns the pace per 100m needed to swim distanceMeters in durationSeconds
func SwimPace(distanceMeters, durationSeconds float64) Pace {
	hundreds := distanceMeters / SwimPaceMeters
	if hundreds <= 0 {
		return Pace{}
	}
	return PaceFromSeconds(durationSeconds / hundreds)
}

// RunPace returns the pace per km needed to run distanceKm in durationSeconds
func RunPace(distanceKm, durationSeconds float64) Pace {
	if distanceKm <= 0 {
		return Pace{}
	}
	return PaceFromSeconds(durationSeconds / distanceKm)
}

// BikeSpeed returns the average speed in km/h needed to ride distanceKm in durationSeconds
func BikeSpeed(distanceKm, durationSeconds float64) float64 {
	hours := durationSeconds / SecondsPerHour
	if hours <= 0 || distanceKm <= 0 || !isFinite(hours) {
		return 0
	}
	return distanceKm / hours
}

// PaceFromSeconds splits seconds per unit into minutes and rounded seconds.
// A rounded value of 60 carries into the minutes.
func PaceFromSeconds(secs float64) Pace {
	if !isFinite(secs) || secs <= 0 {
		return Pace{}
	}
	m := int(math.Floor(secs / SecondsPerMinute))
	s := int(math.Round(math.Mod(secs, SecondsPerMinute)))
	if s == SecondsPerMinute {
		m++
		s = 0
	}
	return Pace{Minutes: m, Seconds: s}
}

// SplitSpeed decomposes km/h into an integer part and one decimal digit
func SplitSpeed(kmh float64) (whole, tenth int) {
	if !isFinite(kmh) || kmh <= 0 {
		return 0, 0
	}
	whole = int(math.Floor(kmh))
	tenth = int(math.Round(math.Mod(kmh, 1) * 10))
	return NormalizeSpeed(whole, tenth)
}

// JoinSpeed is the inverse of SplitSpeed
func JoinSpeed(whole, tenth int) float64 {
	return float64(whole) + float64(tenth)/10
}

// StepDistance adds delta to a distance, rounds to two decimals and clamps at zero
func StepDistance(value, delta float64) float64 {
	next := math.Round((value+delta)*100) / 100
	if next < 0 || !isFinite(next) {
		return 0
	}
	return next
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
