package service

const (
	// Distance stepper increments
	SwimStepMeters = 10.0
	BikeStepKm     = 1.0
	RunStepKm      = 0.1

	// Rendered for a leg that has not been added to the plan yet
	EmptySegment = "- - : - - : - -"

	// Profile birth dates are entered as ISO dates
	BirthDateLayout = "2006-01-02"

	// Percentile chart spans 70% to 150% of the expected race time
	ChartLowFactor  = 0.7
	ChartHighFactor = 1.5

	DefaultChartPoints = 40
	DefaultImportDays  = 90

	// Imported activities shorter than this are ignored for pace averages
	MinImportMeters  = 100
	MinImportSeconds = 60
)

// TransitionPresets are the quick picks offered for T1 and T2
var TransitionPresets = []Transition{
	{Minutes: 1, Seconds: 30},
	{Minutes: 2},
	{Minutes: 3},
	{Minutes: 4},
	{Minutes: 5},
}
