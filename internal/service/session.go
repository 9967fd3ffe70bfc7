package service

import (
	"math"
	"strings"

	"tricalc/internal/analysis"
	"tricalc/internal/config"
)

// Mode selects what a leg screen computes
type Mode string

const (
	// ModeTime computes the leg duration from distance and pace
	ModeTime Mode = config.ModeTime
	// ModePace computes the pace (or speed) needed for a target duration
	ModePace Mode = config.ModePace
)

// ParseMode accepts "time" or "pace"
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTime:
		return ModeTime, true
	case ModePace:
		return ModePace, true
	}
	return "", false
}

// Toggle switches between time and pace mode
func (m Mode) Toggle() Mode {
	if m == ModePace {
		return ModeTime
	}
	return ModePace
}

// SwimInput holds the swim screen pickers
type SwimInput struct {
	DistanceMeters float64
	Pace           analysis.Pace // per 100m
	Target         analysis.TimeComponents
}

// BikeInput holds the bike screen pickers
type BikeInput struct {
	DistanceKm float64
	SpeedKmh   float64
	Target     analysis.TimeComponents
}

// RunInput holds the run screen pickers
type RunInput struct {
	DistanceKm float64
	Pace       analysis.Pace // per km
	Target     analysis.TimeComponents
}

// Transition is a T1 or T2 changeover time
type Transition struct {
	Minutes int
	Seconds int
}

// TotalSeconds returns the transition in seconds
func (t Transition) TotalSeconds() float64 {
	return float64(t.Minutes*analysis.SecondsPerMinute + t.Seconds)
}

// Step moves the transition by the given minutes and seconds with picker rollover
func (t Transition) Step(minutes, seconds int) Transition {
	m, s := analysis.NormalizePace(t.Minutes+minutes, t.Seconds+seconds)
	return Transition{Minutes: m, Seconds: s}
}

func (t Transition) String() string {
	return analysis.FormatTransition(t.Minutes, t.Seconds)
}

// TransitionFromSeconds splits whole seconds into a transition
func TransitionFromSeconds(secs int) Transition {
	if secs <= 0 {
		return Transition{}
	}
	return Transition{Minutes: secs / analysis.SecondsPerMinute, Seconds: secs % analysis.SecondsPerMinute}
}

// Plan is the race being assembled on the total screen: one saved time per
// leg plus both transitions
type Plan struct {
	SwimSeconds float64
	BikeSeconds float64
	RunSeconds  float64
	T1          Transition
	T2          Transition
}

// Leg returns the saved time of a discipline
func (p Plan) Leg(d analysis.Discipline) float64 {
	switch d {
	case analysis.Swim:
		return p.SwimSeconds
	case analysis.Bike:
		return p.BikeSeconds
	case analysis.Run:
		return p.RunSeconds
	}
	return 0
}

// SetLeg replaces the saved time of a discipline
func (p *Plan) SetLeg(d analysis.Discipline, seconds float64) {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	switch d {
	case analysis.Swim:
		p.SwimSeconds = seconds
	case analysis.Bike:
		p.BikeSeconds = seconds
	case analysis.Run:
		p.RunSeconds = seconds
	}
}

// TotalSeconds is swim + T1 + bike + T2 + run
func (p Plan) TotalSeconds() float64 {
	return p.SwimSeconds + p.BikeSeconds + p.RunSeconds + p.T1.TotalSeconds() + p.T2.TotalSeconds()
}

// Session is the calculator state shared by all screens
type Session struct {
	Mode Mode
	Swim SwimInput
	Bike BikeInput
	Run  RunInput
	Plan Plan

	defaults config.DefaultsConfig
}

// NewSession creates a session populated from the configured defaults
func NewSession(defaults config.DefaultsConfig) *Session {
	s := &Session{defaults: defaults}
	s.Mode = ModeTime
	if m, ok := ParseMode(defaults.Mode); ok {
		s.Mode = m
	}
	s.Reset()
	return s
}

// Reset restores every input to its default and clears the plan.
// The calculation mode is kept.
func (s *Session) Reset() {
	fallback := config.DefaultConfig().Defaults
	d := s.defaults

	s.Swim = SwimInput{
		DistanceMeters: d.SwimMeters,
		Pace:           parsePaceOr(d.SwimPace, fallback.SwimPace),
		Target:         parseDurationOr(d.SwimTarget, fallback.SwimTarget),
	}
	s.Bike = BikeInput{
		DistanceKm: d.BikeKm,
		SpeedKmh:   d.BikeSpeed,
		Target:     parseDurationOr(d.BikeTarget, fallback.BikeTarget),
	}
	s.Run = RunInput{
		DistanceKm: d.RunKm,
		Pace:       parsePaceOr(d.RunPace, fallback.RunPace),
		Target:     parseDurationOr(d.RunTarget, fallback.RunTarget),
	}
	if c := analysis.ParseCategory(d.Preset); c.Valid() {
		s.ApplyPreset(c)
	}
	s.Plan = Plan{}
}

// Distances returns the distances currently entered on the leg screens
func (s *Session) Distances() analysis.RaceDistances {
	return analysis.RaceDistances{
		SwimMeters: s.Swim.DistanceMeters,
		BikeKm:     s.Bike.DistanceKm,
		RunKm:      s.Run.DistanceKm,
	}
}

// SetDistances replaces all three leg distances
func (s *Session) SetDistances(r analysis.RaceDistances) {
	s.Swim.DistanceMeters = r.SwimMeters
	s.Bike.DistanceKm = r.BikeKm
	s.Run.DistanceKm = r.RunKm
}

// ApplyPreset sets the standard distances of a race category
func (s *Session) ApplyPreset(c analysis.RaceCategory) bool {
	r, ok := analysis.PresetFor(c)
	if !ok {
		return false
	}
	s.SetDistances(r)
	return true
}

// StepDistance moves a leg distance one stepper increment up (dir > 0) or down
func (s *Session) StepDistance(d analysis.Discipline, dir int) {
	sign := 1.0
	if dir < 0 {
		sign = -1
	}
	switch d {
	case analysis.Swim:
		s.Swim.DistanceMeters = analysis.StepDistance(s.Swim.DistanceMeters, sign*SwimStepMeters)
	case analysis.Bike:
		s.Bike.DistanceKm = analysis.StepDistance(s.Bike.DistanceKm, sign*BikeStepKm)
	case analysis.Run:
		s.Run.DistanceKm = analysis.StepDistance(s.Run.DistanceKm, sign*RunStepKm)
	}
}

// EnterDistance sets a leg distance from typed input. Every leg is entered
// in kilometers; the swim distance is stored in whole meters. Input that
// does not start with a number leaves the distance unchanged and reports
// false.
func (s *Session) EnterDistance(d analysis.Discipline, raw string) bool {
	km, ok := analysis.LookupLocaleNumber(raw)
	if !ok {
		return false
	}
	if km < 0 {
		km = 0
	}
	switch d {
	case analysis.Swim:
		s.Swim.DistanceMeters = math.Round(km * analysis.MetersPerKm)
	case analysis.Bike:
		s.Bike.DistanceKm = km
	case analysis.Run:
		s.Run.DistanceKm = km
	}
	return true
}

// StepPace moves the swim or run pace. The bike leg steps its speed instead,
// with minutes acting on the integer part and seconds on the tenths.
func (s *Session) StepPace(d analysis.Discipline, minutes, seconds int) {
	switch d {
	case analysis.Swim:
		s.Swim.Pace = analysis.Pace{Minutes: s.Swim.Pace.Minutes + minutes, Seconds: s.Swim.Pace.Seconds + seconds}.Normalize()
	case analysis.Run:
		s.Run.Pace = analysis.Pace{Minutes: s.Run.Pace.Minutes + minutes, Seconds: s.Run.Pace.Seconds + seconds}.Normalize()
	case analysis.Bike:
		whole, tenth := analysis.SplitSpeed(s.Bike.SpeedKmh)
		whole, tenth = analysis.NormalizeSpeed(whole+minutes, tenth+seconds)
		s.Bike.SpeedKmh = analysis.JoinSpeed(whole, tenth)
	}
}

// StepTarget moves a leg's target time
func (s *Session) StepTarget(d analysis.Discipline, hours, minutes, seconds int) {
	step := func(t analysis.TimeComponents) analysis.TimeComponents {
		return analysis.TimeComponents{
			Hours:   t.Hours + hours,
			Minutes: t.Minutes + minutes,
			Seconds: t.Seconds + seconds,
		}.Normalize()
	}
	switch d {
	case analysis.Swim:
		s.Swim.Target = step(s.Swim.Target)
	case analysis.Bike:
		s.Bike.Target = step(s.Bike.Target)
	case analysis.Run:
		s.Run.Target = step(s.Run.Target)
	}
}

// Target returns the target time of a leg
func (s *Session) Target(d analysis.Discipline) analysis.TimeComponents {
	switch d {
	case analysis.Swim:
		return s.Swim.Target
	case analysis.Bike:
		return s.Bike.Target
	case analysis.Run:
		return s.Run.Target
	}
	return analysis.TimeComponents{}
}

// SetTarget replaces the target time of a leg
func (s *Session) SetTarget(d analysis.Discipline, t analysis.TimeComponents) {
	t = t.Normalize()
	switch d {
	case analysis.Swim:
		s.Swim.Target = t
	case analysis.Bike:
		s.Bike.Target = t
	case analysis.Run:
		s.Run.Target = t
	}
}

func parsePaceOr(raw, fallback string) analysis.Pace {
	if p, ok := analysis.ParsePace(raw); ok {
		return p
	}
	p, _ := analysis.ParsePace(fallback)
	return p
}

func parseDurationOr(raw, fallback string) analysis.TimeComponents {
	if t, ok := analysis.ParseDuration(raw); ok {
		return t
	}
	t, _ := analysis.ParseDuration(fallback)
	return t
}
