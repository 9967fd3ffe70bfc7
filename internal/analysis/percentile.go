package analysis

import (
	"math"
	"time"
)

const (
	// StdDevFraction models the spread of a mass-start field as 15% of the mean
	StdDevFraction = 0.15

	MinPercentile = 1
	MaxPercentile = 99
)

// PercentileResult is the outcome of an estimate. When Valid is false the
// distance could not be classified and the other fields must not be shown.
type PercentileResult struct {
	Percentile    int
	AgeGroupLabel string
	Valid         bool
}

// NormalCDF approximates the standard normal CDF with the closed form
// 0.5 * (1 + sign(z) * sqrt(1 - exp(-2z²/π))).
// This is not the exact error function; percentiles depend on this exact curve.
func NormalCDF(z float64) float64 {
	var sign float64
	switch {
	case z > 0:
		sign = 1
	case z < 0:
		sign = -1
	}
	return 0.5 * (1 + sign*math.Sqrt(1-math.Exp(-2*z*z/math.Pi)))
}

// PercentileFromStats returns the share of the field (1..99) slower than
// actualSeconds, assuming finishing times are normally distributed around
// expectedAverageSeconds with a 15% standard deviation
func PercentileFromStats(actualSeconds, expectedAverageSeconds float64) int {
	if math.IsNaN(actualSeconds) || !isFinite(expectedAverageSeconds) || expectedAverageSeconds <= 0 {
		return MinPercentile
	}
	stdDev := expectedAverageSeconds * StdDevFraction
	z := (actualSeconds - expectedAverageSeconds) / stdDev

	// lower times rank higher, so read the CDF at -z
	p := int(math.Round(NormalCDF(-z) * 100))
	return clampPercentile(p)
}

// EstimateDisciplinePercentile ranks a single leg time against the age and
// gender adjusted benchmark for the leg's distance category
func EstimateDisciplinePercentile(seconds float64, d Discipline, distance float64, who Demographic, now time.Time) PercentileResult {
	category := ClassifyDistance(d, distance)
	if !category.Valid() {
		return PercentileResult{}
	}
	expected := ExpectedTime(BaseTime(category, d), who, now)
	return PercentileResult{
		Percentile:    PercentileFromStats(seconds, expected),
		AgeGroupLabel: AgeGroupLabel(who.BirthDate, now),
		Valid:         true,
	}
}

// EstimateRacePercentile ranks a total race time, transitions included,
// against the summed benchmark of the race category
func EstimateRacePercentile(totalSeconds, swimMeters, bikeKm, runKm float64, who Demographic, now time.Time) PercentileResult {
	category := ClassifyRace(swimMeters, bikeKm, runKm)
	if !category.Valid() {
		return PercentileResult{}
	}
	expected := ExpectedTime(BaseRaceTime(category), who, now)
	return PercentileResult{
		Percentile:    PercentileFromStats(totalSeconds, expected),
		AgeGroupLabel: AgeGroupLabel(who.BirthDate, now),
		Valid:         true,
	}
}

// ExpectedRaceTime returns the adjusted benchmark for a whole race, and
// false when the distances do not form a known category
func ExpectedRaceTime(distances RaceDistances, who Demographic, now time.Time) (float64, bool) {
	category := distances.Category()
	if !category.Valid() {
		return 0, false
	}
	return ExpectedTime(BaseRaceTime(category), who, now), true
}

// PercentileCurve samples the race percentile for finishing times spread
// evenly between lowFactor and highFactor times the expected race time.
// It returns nil when the distances are unclassified or points < 2.
func PercentileCurve(distances RaceDistances, who Demographic, now time.Time, lowFactor, highFactor float64, points int) []float64 {
	expected, ok := ExpectedRaceTime(distances, who, now)
	if !ok || points < 2 || highFactor <= lowFactor {
		return nil
	}
	curve := make([]float64, points)
	step := (highFactor - lowFactor) / float64(points-1)
	for i := range curve {
		t := expected * (lowFactor + step*float64(i))
		curve[i] = float64(PercentileFromStats(t, expected))
	}
	return curve
}

func clampPercentile(p int) int {
	if p < MinPercentile {
		return MinPercentile
	}
	if p > MaxPercentile {
		return MaxPercentile
	}
	return p
}
