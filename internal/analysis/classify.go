package analysis

import "math"

// band is a nominal distance with an absolute tolerance in the same unit
type band struct {
	Nominal   float64
	Tolerance float64
}

func (b band) matches(value float64) bool {
	return math.Abs(value-b.Nominal) < b.Tolerance
}

// legBands holds the single-leg classification bands, indexed by discipline
// then category. Swim is in meters, bike and run in kilometers.
var legBands = [disciplineCount][categoryCount]band{
	Swim: {
		CategorySprint:  {750, 100},
		CategoryOlympic: {1500, 200},
		CategoryHalf:    {1900, 200},
		CategoryFull:    {3800, 300},
	},
	Bike: {
		CategorySprint:  {20, 5},
		CategoryOlympic: {40, 5},
		CategoryHalf:    {90, 5},
		CategoryFull:    {180, 5},
	},
	Run: {
		CategorySprint:  {5, 1},
		CategoryOlympic: {10, 1},
		CategoryHalf:    {21.1, 2},
		CategoryFull:    {42.2, 2},
	},
}

// raceTolerances are the wider per-leg tolerances used when a whole race is
// classified; the nominal distances are the same as for single legs
var raceTolerances = [disciplineCount][categoryCount]float64{
	Swim: {CategorySprint: 250, CategoryOlympic: 400, CategoryHalf: 400, CategoryFull: 600},
	Bike: {CategorySprint: 5, CategoryOlympic: 5, CategoryHalf: 5, CategoryFull: 10},
	Run:  {CategorySprint: 1.5, CategoryOlympic: 2, CategoryHalf: 2, CategoryFull: 4},
}

// ClassifyDistance returns the first category (Sprint, Olympic, Half, Full)
// whose nominal leg distance lies within tolerance of value.
// value is meters for swim and kilometers for bike and run.
func ClassifyDistance(d Discipline, value float64) RaceCategory {
	if d < Swim || d > Run || !isFinite(value) {
		return CategoryNone
	}
	for _, c := range Categories {
		if legBands[d][c].matches(value) {
			return c
		}
	}
	return CategoryNone
}

// ClassifyRace returns the first category for which all three legs are
// within the race tolerances at the same time
func ClassifyRace(swimMeters, bikeKm, runKm float64) RaceCategory {
	values := [disciplineCount]float64{Swim: swimMeters, Bike: bikeKm, Run: runKm}
	for _, c := range Categories {
		matched := true
		for _, d := range Disciplines {
			b := band{Nominal: legBands[d][c].Nominal, Tolerance: raceTolerances[d][c]}
			if !b.matches(values[d]) {
				matched = false
				break
			}
		}
		if matched {
			return c
		}
	}
	return CategoryNone
}

// RaceDistances is one distance per leg: swim in meters, bike and run in km
type RaceDistances struct {
	SwimMeters float64 `json:"swim_meters" yaml:"swim_meters"`
	BikeKm     float64 `json:"bike_km" yaml:"bike_km"`
	RunKm      float64 `json:"run_km" yaml:"run_km"`
}

// Leg returns the distance for a single discipline in that discipline's unit
func (r RaceDistances) Leg(d Discipline) float64 {
	switch d {
	case Swim:
		return r.SwimMeters
	case Bike:
		return r.BikeKm
	case Run:
		return r.RunKm
	}
	return 0
}

// Category classifies the three distances as a whole race
func (r RaceDistances) Category() RaceCategory {
	return ClassifyRace(r.SwimMeters, r.BikeKm, r.RunKm)
}

// PresetFor returns the standard distances of a category
func PresetFor(c RaceCategory) (RaceDistances, bool) {
	if !c.Valid() {
		return RaceDistances{}, false
	}
	return RaceDistances{
		SwimMeters: legBands[Swim][c].Nominal,
		BikeKm:     legBands[Bike][c].Nominal,
		RunKm:      legBands[Run][c].Nominal,
	}, true
}

// PresetCategory returns the category whose preset distance for d is exactly value
func PresetCategory(d Discipline, value float64) RaceCategory {
	for _, c := range Categories {
		if legBands[d][c].Nominal == value {
			return c
		}
	}
	return CategoryNone
}
