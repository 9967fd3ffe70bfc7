package analysis

import (
	"fmt"
	"math"
	"time"
)

// Benchmark times in seconds: the 50th percentile of an active male
// age-grouper aged 25-29, indexed by category then discipline
var baseTimes = [categoryCount][disciplineCount]float64{
	CategorySprint:  {Swim: 15 * 60, Bike: 40 * 60, Run: 25 * 60},
	CategoryOlympic: {Swim: 30 * 60, Bike: 80 * 60, Run: 52 * 60},
	CategoryHalf:    {Swim: 40 * 60, Bike: 3*3600 + 10*60, Run: 2 * 3600},
	CategoryFull:    {Swim: 80 * 60, Bike: 6*3600 + 30*60, Run: 4*3600 + 15*60},
}

// Combined T1 + T2 benchmark per category, in seconds
var baseTransitions = [categoryCount]float64{
	CategorySprint:  3 * 60,
	CategoryOlympic: 5 * 60,
	CategoryHalf:    8 * 60,
	CategoryFull:    12 * 60,
}

// FemaleFactor is one global correction for all disciplines and distances
const FemaleFactor = 1.12

// ageBand is an inclusive upper age bound and its time multiplier
type ageBand struct {
	MaxAge int
	Factor float64
}

var ageBands = []ageBand{
	{24, 1.02},
	{29, 1.00},
	{34, 1.01},
	{39, 1.03},
	{44, 1.06},
	{49, 1.10},
	{54, 1.16},
	{59, 1.24},
	{64, 1.35},
}

const seniorAgeFactor = 1.50

// BaseTime returns the benchmark seconds for one leg of a category
func BaseTime(c RaceCategory, d Discipline) float64 {
	if !c.Valid() || d < Swim || d > Run {
		return 0
	}
	return baseTimes[c][d]
}

// BaseTransition returns the benchmark T1+T2 seconds of a category
func BaseTransition(c RaceCategory) float64 {
	if !c.Valid() {
		return 0
	}
	return baseTransitions[c]
}

// BaseRaceTime sums the three leg benchmarks and the transition benchmark
func BaseRaceTime(c RaceCategory) float64 {
	if !c.Valid() {
		return 0
	}
	total := baseTransitions[c]
	for _, d := range Disciplines {
		total += baseTimes[c][d]
	}
	return total
}

// AgeFactor returns the time multiplier for an age; older bands are slower
func AgeFactor(age int) float64 {
	for _, b := range ageBands {
		if age <= b.MaxAge {
			return b.Factor
		}
	}
	return seniorAgeFactor
}

// GenderFactor returns the time multiplier for a gender
func GenderFactor(g Gender) float64 {
	if g == Female {
		return FemaleFactor
	}
	return 1.0
}

// Demographic is the part of a user profile the estimator needs
type Demographic struct {
	Gender    Gender
	BirthDate time.Time
}

// AgeAt returns the age as the difference of calendar years.
// Month and day are deliberately ignored.
func AgeAt(birthDate, now time.Time) int {
	return now.Year() - birthDate.Year()
}

// AgeGroupLabel returns the 5-year age group ("AK 25-29") of someone born
// on birthDate, or "" when no birth date is known
func AgeGroupLabel(birthDate, now time.Time) string {
	if birthDate.IsZero() {
		return ""
	}
	lower, upper := AgeGroupBounds(AgeAt(birthDate, now))
	return fmt.Sprintf("AK %d-%d", lower, upper)
}

// AgeGroupBounds returns the inclusive 5-year band containing age
func AgeGroupBounds(age int) (lower, upper int) {
	lower = int(math.Floor(float64(age)/5)) * 5
	return lower, lower + 4
}

// ExpectedTime scales a benchmark by the age and gender factors
func ExpectedTime(base float64, who Demographic, now time.Time) float64 {
	return base * AgeFactor(AgeAt(who.BirthDate, now)) * GenderFactor(who.Gender)
}
