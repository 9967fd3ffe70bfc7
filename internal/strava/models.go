package strava

import (
	"time"

	"tricalc/internal/analysis"
)

// Activity represents a Strava activity summary from the API
type Activity struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	SportType    string    `json:"sport_type"`
	StartDate    time.Time `json:"start_date"`
	Distance     float64   `json:"distance"`      // meters
	MovingTime   int       `json:"moving_time"`   // seconds
	ElapsedTime  int       `json:"elapsed_time"`  // seconds
	AverageSpeed float64   `json:"average_speed"` // m/s
	Trainer      bool      `json:"trainer"`
}

// Athlete is the authenticated athlete
type Athlete struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Sex       string `json:"sex"` // "M", "F" or empty
}

// Gender maps Strava's sex field to a benchmark gender
func (a Athlete) Gender() (analysis.Gender, bool) {
	switch a.Sex {
	case "M":
		return analysis.Male, true
	case "F":
		return analysis.Female, true
	}
	return "", false
}

// Strava activity types per triathlon leg
var disciplineTypes = map[string]analysis.Discipline{
	"Swim":        analysis.Swim,
	"Ride":        analysis.Bike,
	"VirtualRide": analysis.Bike,
	"GravelRide":  analysis.Bike,
	"Run":         analysis.Run,
	"TrailRun":    analysis.Run,
	"VirtualRun":  analysis.Run,
}

// Discipline returns the triathlon leg the activity trains.
// sport_type is preferred because it is more specific than type.
func (a Activity) Discipline() (analysis.Discipline, bool) {
	if d, ok := disciplineTypes[a.SportType]; ok {
		return d, true
	}
	d, ok := disciplineTypes[a.Type]
	return d, ok
}

// TypesFor lists the Strava types that map to d
func TypesFor(d analysis.Discipline) []string {
	var types []string
	for t, disc := range disciplineTypes {
		if disc == d {
			types = append(types, t)
		}
	}
	return types
}
