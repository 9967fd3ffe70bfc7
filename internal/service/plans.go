package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"tricalc/internal/analysis"
	"tricalc/internal/store"
)

// Export formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// PlanService saves and restores race plans and the athlete profile
type PlanService struct {
	store *store.Store
	now   func() time.Time
}

// NewPlanService creates a plan service over the store
func NewPlanService(st *store.Store) *PlanService {
	return &PlanService{store: st, now: time.Now}
}

// PlanSummary is one row of the plan list
type PlanSummary struct {
	ID       string
	ShortID  string
	Name     string
	Category string
	Total    string
	SavedAgo string // "3 days ago"
}

// Save stores the session's plan under name and returns the stored record.
// Saving under an existing name overwrites that plan.
func (s *PlanService) Save(name string, sess *Session) (*store.RacePlan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}

	id := uuid.NewString()
	if existing, err := s.store.FindPlan(name); err == nil && existing.Name == name {
		id = existing.ID
	}

	distances := sess.Distances()
	p := &store.RacePlan{
		ID:          id,
		Name:        name,
		Mode:        string(sess.Mode),
		SwimMeters:  distances.SwimMeters,
		BikeKm:      distances.BikeKm,
		RunKm:       distances.RunKm,
		SwimSeconds: sess.Plan.SwimSeconds,
		BikeSeconds: sess.Plan.BikeSeconds,
		RunSeconds:  sess.Plan.RunSeconds,
		T1Seconds:   int(sess.Plan.T1.TotalSeconds()),
		T2Seconds:   int(sess.Plan.T2.TotalSeconds()),
		SavedAt:     s.now(),
	}
	if err := s.store.SavePlan(p); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	return p, nil
}

// List returns all plans, most recent first
func (s *PlanService) List() ([]PlanSummary, error) {
	plans, err := s.store.ListPlans()
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}

	now := s.now()
	summaries := make([]PlanSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, PlanSummary{
			ID:       p.ID,
			ShortID:  shortID(p.ID),
			Name:     p.Name,
			Category: planDistances(p).Category().String(),
			Total:    analysis.FormatDuration(planOf(p).TotalSeconds()),
			SavedAgo: humanize.RelTime(p.SavedAt, now, "ago", "from now"),
		})
	}
	return summaries, nil
}

// Find resolves a plan by ID, ID prefix or name
func (s *PlanService) Find(ref string) (*store.RacePlan, error) {
	p, err := s.store.FindPlan(strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("finding plan %q: %w", ref, err)
	}
	return p, nil
}

// RestorePlan loads a stored plan into the session: distances, mode and
// leg times
func RestorePlan(sess *Session, p store.RacePlan) {
	sess.SetDistances(planDistances(p))
	if m, ok := ParseMode(p.Mode); ok {
		sess.Mode = m
	}
	sess.Plan = planOf(p)
}

// Delete removes a plan by ID, ID prefix or name
func (s *PlanService) Delete(ref string) (*store.RacePlan, error) {
	p, err := s.Find(ref)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeletePlan(p.ID); err != nil {
		return nil, fmt.Errorf("deleting plan: %w", err)
	}
	return p, nil
}

// PlanExport is the portable form of a plan
type PlanExport struct {
	ID         string                 `json:"id" yaml:"id"`
	Name       string                 `json:"name" yaml:"name"`
	Mode       string                 `json:"mode" yaml:"mode"`
	Category   string                 `json:"category" yaml:"category"`
	Distances  analysis.RaceDistances `json:"distances" yaml:"distances"`
	Swim       string                 `json:"swim" yaml:"swim"`
	T1         string                 `json:"t1" yaml:"t1"`
	Bike       string                 `json:"bike" yaml:"bike"`
	T2         string                 `json:"t2" yaml:"t2"`
	Run        string                 `json:"run" yaml:"run"`
	Total      string                 `json:"total" yaml:"total"`
	Percentile *ExportPercentile      `json:"percentile,omitempty" yaml:"percentile,omitempty"`
	SavedAt    time.Time              `json:"saved_at" yaml:"saved_at"`
}

// ExportPercentile is the estimate included when a profile exists
type ExportPercentile struct {
	Value    int    `json:"value" yaml:"value"`
	AgeGroup string `json:"age_group" yaml:"age_group"`
}

// BuildExport converts a stored plan. The calculator adds the percentile
// when it has a profile; it may be nil.
func BuildExport(p store.RacePlan, calc *CalculatorService) PlanExport {
	plan := planOf(p)
	distances := planDistances(p)

	e := PlanExport{
		ID:        p.ID,
		Name:      p.Name,
		Mode:      p.Mode,
		Category:  distances.Category().String(),
		Distances: distances,
		Swim:      analysis.FormatDuration(plan.SwimSeconds),
		T1:        plan.T1.String(),
		Bike:      analysis.FormatDuration(plan.BikeSeconds),
		T2:        plan.T2.String(),
		Run:       analysis.FormatDuration(plan.RunSeconds),
		Total:     analysis.FormatDuration(plan.TotalSeconds()),
		SavedAt:   p.SavedAt.UTC(),
	}
	if calc != nil && plan.TotalSeconds() > 0 {
		if pd := calc.EstimateRace(plan.TotalSeconds(), distances); pd != nil {
			e.Percentile = &ExportPercentile{Value: pd.Percentile, AgeGroup: pd.AgeGroup}
		}
	}
	return e
}

// Export writes a plan to w as YAML or JSON
func (s *PlanService) Export(w io.Writer, ref, format string, calc *CalculatorService) error {
	p, err := s.Find(ref)
	if err != nil {
		return err
	}
	e := BuildExport(*p, calc)

	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q (use yaml or json)", format)
	}
}

func planOf(p store.RacePlan) Plan {
	return Plan{
		SwimSeconds: p.SwimSeconds,
		BikeSeconds: p.BikeSeconds,
		RunSeconds:  p.RunSeconds,
		T1:          TransitionFromSeconds(p.T1Seconds),
		T2:          TransitionFromSeconds(p.T2Seconds),
	}
}

func planDistances(p store.RacePlan) analysis.RaceDistances {
	return analysis.RaceDistances{SwimMeters: p.SwimMeters, BikeKm: p.BikeKm, RunKm: p.RunKm}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
