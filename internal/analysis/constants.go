package analysis

import "strings"

// Discipline identifies one leg of a triathlon
type Discipline int

const (
	Swim Discipline = iota
	Bike
	Run
)

const disciplineCount = 3

// Disciplines lists the legs in race order
var Disciplines = [disciplineCount]Discipline{Swim, Bike, Run}

func (d Discipline) String() string {
	switch d {
	case Swim:
		return "swim"
	case Bike:
		return "bike"
	case Run:
		return "run"
	default:
		return "unknown"
	}
}

// ParseDiscipline accepts "swim", "bike" or "run" (case-insensitive)
func ParseDiscipline(s string) (Discipline, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "swim":
		return Swim, true
	case "bike", "ride":
		return Bike, true
	case "run":
		return Run, true
	}
	return 0, false
}

// RaceCategory is one of the canonical triathlon distances.
// CategoryNone marks a distance that matched no category.
type RaceCategory int

const (
	CategoryNone RaceCategory = iota
	CategorySprint
	CategoryOlympic
	CategoryHalf
	CategoryFull
)

const categoryCount = CategoryFull + 1

// Categories lists the classified categories in matching order
var Categories = []RaceCategory{CategorySprint, CategoryOlympic, CategoryHalf, CategoryFull}

// Valid reports whether the category is a classified one
func (c RaceCategory) Valid() bool {
	return c >= CategorySprint && c <= CategoryFull
}

func (c RaceCategory) String() string {
	switch c {
	case CategorySprint:
		return "Sprint"
	case CategoryOlympic:
		return "Olympic"
	case CategoryHalf:
		return "70.3"
	case CategoryFull:
		return "140.6"
	default:
		return "Unclassified"
	}
}

// Key returns the lower-case identifier used in config files and CLI flags
func (c RaceCategory) Key() string {
	switch c {
	case CategorySprint:
		return "sprint"
	case CategoryOlympic:
		return "olympic"
	case CategoryHalf:
		return "half"
	case CategoryFull:
		return "full"
	default:
		return ""
	}
}

// ParseCategory maps a key or label ("sprint", "olympic", "half", "70.3",
// "full", "140.6") to a category. Unknown input yields CategoryNone.
func ParseCategory(s string) RaceCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sprint":
		return CategorySprint
	case "olympic", "olympisch":
		return CategoryOlympic
	case "half", "70.3":
		return CategoryHalf
	case "full", "140.6", "ironman":
		return CategoryFull
	}
	return CategoryNone
}

// Gender selects the benchmark correction factor
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts "male" or "female" (case-insensitive)
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, true
	case Female:
		return Female, true
	}
	return "", false
}

// Unit conversions
const (
	SecondsPerMinute = 60
	SecondsPerHour   = 3600
	MetersPerKm      = 1000.0
	SwimPaceMeters   = 100.0 // swim pace is quoted per 100m
)
