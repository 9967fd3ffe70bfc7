package service

import (
	"fmt"
	"strings"
	"time"

	"tricalc/internal/analysis"
	"tricalc/internal/store"
)

// CalculatorService turns screen inputs into display-ready results
type CalculatorService struct {
	profile *store.Profile
	who     analysis.Demographic
	hasWho  bool
	now     func() time.Time
}

// NewCalculatorService creates a calculator. A nil profile means guest mode
// where no percentile is shown.
func NewCalculatorService(profile *store.Profile) *CalculatorService {
	c := &CalculatorService{now: time.Now}
	c.SetProfile(profile)
	return c
}

// SetClock replaces the clock used for ages
func (c *CalculatorService) SetClock(now func() time.Time) {
	c.now = now
}

// SetProfile switches the athlete the estimates are personalized for
func (c *CalculatorService) SetProfile(p *store.Profile) {
	c.profile = p
	c.who, c.hasWho = analysis.Demographic{}, false
	if p == nil {
		return
	}
	if who, err := Demographic(*p); err == nil {
		c.who, c.hasWho = who, true
	}
}

// Profile returns the current profile, nil for a guest
func (c *CalculatorService) Profile() *store.Profile {
	return c.profile
}

// PercentileDisplay is a valid estimate ready for the badge
type PercentileDisplay struct {
	Percentile int
	AgeGroup   string // "AK 25-29"
}

// Badge renders the estimate as one line
func (p PercentileDisplay) Badge() string {
	return fmt.Sprintf("Faster than %d%% of %s", p.Percentile, p.AgeGroup)
}

// LegResult contains everything a leg screen shows
type LegResult struct {
	Discipline      analysis.Discipline
	Mode            Mode
	Label           string // "Swim time", "Required pace", ...
	Main            string // "0:15:00", "2:00/100m", "30.0 km/h", "6:00/km"
	SecondsForTotal float64
	Category        analysis.RaceCategory
	Percentile      *PercentileDisplay
}

// Swim computes the swim leg
func (c *CalculatorService) Swim(mode Mode, in SwimInput) LegResult {
	r := LegResult{
		Discipline: analysis.Swim,
		Mode:       mode,
		Category:   analysis.ClassifyDistance(analysis.Swim, in.DistanceMeters),
	}
	if mode == ModePace {
		target := in.Target.TotalSeconds()
		r.Label = "Required pace"
		r.Main = analysis.FormatPace(analysis.SwimPace(in.DistanceMeters, target)) + "/100m"
		r.SecondsForTotal = target
		return r
	}

	secs := analysis.SwimDuration(in.DistanceMeters, in.Pace)
	r.Label = "Swim time"
	r.Main = analysis.FormatDuration(secs)
	r.SecondsForTotal = secs
	r.Percentile = c.legPercentile(secs, analysis.Swim, in.DistanceMeters)
	return r
}

// Bike computes the bike leg
func (c *CalculatorService) Bike(mode Mode, in BikeInput) LegResult {
	r := LegResult{
		Discipline: analysis.Bike,
		Mode:       mode,
		Category:   analysis.ClassifyDistance(analysis.Bike, in.DistanceKm),
	}
	if mode == ModePace {
		target := in.Target.TotalSeconds()
		r.Label = "Required speed"
		r.Main = analysis.FormatSpeed(analysis.BikeSpeed(in.DistanceKm, target))
		r.SecondsForTotal = target
		return r
	}

	secs := analysis.BikeDuration(in.DistanceKm, in.SpeedKmh)
	r.Label = "Bike time"
	r.Main = analysis.FormatDuration(secs)
	r.SecondsForTotal = secs
	r.Percentile = c.legPercentile(secs, analysis.Bike, in.DistanceKm)
	return r
}

// Run computes the run leg
func (c *CalculatorService) Run(mode Mode, in RunInput) LegResult {
	r := LegResult{
		Discipline: analysis.Run,
		Mode:       mode,
		Category:   analysis.ClassifyDistance(analysis.Run, in.DistanceKm),
	}
	if mode == ModePace {
		target := in.Target.TotalSeconds()
		r.Label = "Required pace"
		r.Main = analysis.FormatPace(analysis.RunPace(in.DistanceKm, target)) + "/km"
		r.SecondsForTotal = target
		return r
	}

	secs := analysis.RunDuration(in.DistanceKm, in.Pace)
	r.Label = "Run time"
	r.Main = analysis.FormatDuration(secs)
	r.SecondsForTotal = secs
	r.Percentile = c.legPercentile(secs, analysis.Run, in.DistanceKm)
	return r
}

// Leg computes one discipline from the session inputs
func (c *CalculatorService) Leg(s *Session, d analysis.Discipline) LegResult {
	switch d {
	case analysis.Bike:
		return c.Bike(s.Mode, s.Bike)
	case analysis.Run:
		return c.Run(s.Mode, s.Run)
	default:
		return c.Swim(s.Mode, s.Swim)
	}
}

// AddToPlan stores the current result of a leg in the session's plan
func (c *CalculatorService) AddToPlan(s *Session, d analysis.Discipline) LegResult {
	r := c.Leg(s, d)
	s.Plan.SetLeg(d, r.SecondsForTotal)
	return r
}

// Segment is one row of the total breakdown
type Segment struct {
	Label      string
	Value      string
	Transition bool
}

// TotalResult contains everything the total screen shows
type TotalResult struct {
	Total        string
	TotalSeconds float64
	Segments     []Segment
	Category     analysis.RaceCategory
	Percentile   *PercentileDisplay
}

// Total sums the plan and ranks it against the race the current
// distances describe
func (c *CalculatorService) Total(s *Session) TotalResult {
	p := s.Plan
	total := p.TotalSeconds()
	distances := s.Distances()

	r := TotalResult{
		Total:        analysis.FormatDuration(total),
		TotalSeconds: total,
		Category:     distances.Category(),
		Segments: []Segment{
			{Label: "Swim", Value: segmentValue(p.SwimSeconds)},
			{Label: "T1", Value: p.T1.String(), Transition: true},
			{Label: "Bike", Value: segmentValue(p.BikeSeconds)},
			{Label: "T2", Value: p.T2.String(), Transition: true},
			{Label: "Run", Value: segmentValue(p.RunSeconds)},
		},
	}

	if c.hasWho && total > 0 {
		res := analysis.EstimateRacePercentile(total, distances.SwimMeters, distances.BikeKm, distances.RunKm, c.who, c.now())
		r.Percentile = toDisplay(res)
	}
	return r
}

// Estimate ranks an arbitrary leg time. It returns nil for guests and
// unclassified distances.
func (c *CalculatorService) Estimate(d analysis.Discipline, seconds, distance float64) *PercentileDisplay {
	return c.legPercentile(seconds, d, distance)
}

// EstimateRace ranks an arbitrary total time over the given distances
func (c *CalculatorService) EstimateRace(totalSeconds float64, distances analysis.RaceDistances) *PercentileDisplay {
	if !c.hasWho {
		return nil
	}
	res := analysis.EstimateRacePercentile(totalSeconds, distances.SwimMeters, distances.BikeKm, distances.RunKm, c.who, c.now())
	return toDisplay(res)
}

// HeaderSubtitle greets the athlete: "HI JANA • AK 35-39", or "HI GUEST"
func (c *CalculatorService) HeaderSubtitle() string {
	if c.profile == nil || strings.TrimSpace(c.profile.Name) == "" {
		return "HI GUEST"
	}
	greeting := "HI " + strings.ToUpper(strings.TrimSpace(c.profile.Name))
	if c.hasWho {
		if label := analysis.AgeGroupLabel(c.who.BirthDate, c.now()); label != "" {
			greeting += " • " + label
		}
	}
	return greeting
}

// Curve is the percentile as a function of finishing time for a race
type Curve struct {
	Points       []float64
	FastestTime  string
	SlowestTime  string
	ExpectedTime string
}

// PercentileCurve samples the race percentile between 70% and 150% of the
// expected finishing time. It returns nil for guests and unclassified races.
func (c *CalculatorService) PercentileCurve(distances analysis.RaceDistances, points int) *Curve {
	if !c.hasWho {
		return nil
	}
	if points < 2 {
		points = DefaultChartPoints
	}
	now := c.now()
	expected, ok := analysis.ExpectedRaceTime(distances, c.who, now)
	if !ok {
		return nil
	}
	return &Curve{
		Points:       analysis.PercentileCurve(distances, c.who, now, ChartLowFactor, ChartHighFactor, points),
		FastestTime:  analysis.FormatDuration(expected * ChartLowFactor),
		SlowestTime:  analysis.FormatDuration(expected * ChartHighFactor),
		ExpectedTime: analysis.FormatDuration(expected),
	}
}

func (c *CalculatorService) legPercentile(seconds float64, d analysis.Discipline, distance float64) *PercentileDisplay {
	if !c.hasWho {
		return nil
	}
	return toDisplay(analysis.EstimateDisciplinePercentile(seconds, d, distance, c.who, c.now()))
}

func toDisplay(res analysis.PercentileResult) *PercentileDisplay {
	if !res.Valid {
		return nil
	}
	return &PercentileDisplay{Percentile: res.Percentile, AgeGroup: res.AgeGroupLabel}
}

func segmentValue(seconds float64) string {
	s := analysis.FormatDuration(seconds)
	if s == analysis.ZeroDuration {
		return EmptySegment
	}
	return s
}
