package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"tricalc/internal/analysis"
	"tricalc/internal/store"
	"tricalc/internal/strava"
)

// ActivityLister fetches activity summaries; *strava.Client implements it
type ActivityLister interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
}

// ImportService pulls recent training from Strava and derives default paces
type ImportService struct {
	client ActivityLister
	store  *store.Store
	now    func() time.Time
}

// NewImportService creates an import service
func NewImportService(client ActivityLister, st *store.Store) *ImportService {
	return &ImportService{client: client, store: st, now: time.Now}
}

// ImportProgress reports progress during an import
type ImportProgress struct {
	Phase   string // "fetching", "storing", "paces"
	Fetched int
	Stored  int
}

// ImportResult contains the results of an import
type ImportResult struct {
	ActivitiesFetched int
	ActivitiesStored  int
	ActivitiesSkipped int
	Paces             []PaceSummary
	Errors            []error
}

// PaceSummary is the averaged training pace of one discipline
type PaceSummary struct {
	Discipline    analysis.Discipline
	Pace          string // "2:05/100m", "28.4 km/h", "5:40/km"
	ActivityCount int
	Distance      string // "42.5 km"
}

// Import fetches the last days of activities, stores the swims, rides and
// runs among them, and recomputes the training pace of each discipline
func (s *ImportService) Import(ctx context.Context, days int, progress chan<- ImportProgress) (*ImportResult, error) {
	if progress != nil {
		defer close(progress)
	}
	if days <= 0 {
		days = DefaultImportDays
	}
	since := s.now().AddDate(0, 0, -days)
	result := &ImportResult{}

	activities, err := s.client.GetAllActivities(ctx, since, func(n int) {
		send(progress, ImportProgress{Phase: "fetching", Fetched: n})
	})
	if err != nil {
		return result, fmt.Errorf("fetching activities: %w", err)
	}
	result.ActivitiesFetched = len(activities)

	for _, a := range activities {
		if _, ok := a.Discipline(); !ok {
			result.ActivitiesSkipped++
			continue
		}
		if err := s.store.UpsertActivity(&store.Activity{
			ID:           a.ID,
			Name:         a.Name,
			Type:         storedType(a),
			StartDate:    a.StartDate,
			Distance:     a.Distance,
			MovingTime:   a.MovingTime,
			AverageSpeed: a.AverageSpeed,
		}); err != nil {
			log.Printf("storing activity %d: %v", a.ID, err)
			result.Errors = append(result.Errors, fmt.Errorf("activity %d: %w", a.ID, err))
			continue
		}
		result.ActivitiesStored++
		send(progress, ImportProgress{Phase: "storing", Fetched: result.ActivitiesFetched, Stored: result.ActivitiesStored})
	}

	send(progress, ImportProgress{Phase: "paces", Fetched: result.ActivitiesFetched, Stored: result.ActivitiesStored})
	paces, err := s.computePaces(since)
	if err != nil {
		return result, fmt.Errorf("computing paces: %w", err)
	}
	for _, d := range analysis.Disciplines {
		if p, ok := paces[d]; ok {
			result.Paces = append(result.Paces, summarizePace(d, p))
		}
	}

	return result, nil
}

// computePaces averages the stored activities of each discipline since a
// date (total time over total distance) and persists the result
func (s *ImportService) computePaces(since time.Time) (map[analysis.Discipline]store.TrainingPace, error) {
	paces := make(map[analysis.Discipline]store.TrainingPace)

	for _, d := range analysis.Disciplines {
		activities, err := s.store.ListActivitiesSince(since, strava.TypesFor(d)...)
		if err != nil {
			return nil, err
		}

		var meters, seconds float64
		var count int
		for _, a := range activities {
			if a.Distance < MinImportMeters || a.MovingTime < MinImportSeconds {
				continue
			}
			meters += a.Distance
			seconds += float64(a.MovingTime)
			count++
		}
		if count == 0 {
			continue
		}

		p := store.TrainingPace{
			Discipline:    d.String(),
			ActivityCount: count,
			TotalMeters:   meters,
			UpdatedAt:     s.now(),
		}
		switch d {
		case analysis.Swim:
			p.SecondsPerUnit = analysis.SwimPace(meters, seconds).Total()
		case analysis.Bike:
			p.SpeedKmh = analysis.BikeSpeed(meters/analysis.MetersPerKm, seconds)
		case analysis.Run:
			p.SecondsPerUnit = analysis.RunPace(meters/analysis.MetersPerKm, seconds).Total()
		}

		if err := s.store.UpsertTrainingPace(&p); err != nil {
			return nil, fmt.Errorf("saving %s pace: %w", d, err)
		}
		paces[d] = p
	}

	return paces, nil
}

// LoadTrainingPaces reads the stored training paces in swim, bike, run order
func LoadTrainingPaces(st *store.Store) ([]PaceSummary, error) {
	stored, err := st.GetTrainingPaces()
	if err != nil {
		return nil, fmt.Errorf("loading training paces: %w", err)
	}

	var out []PaceSummary
	for _, d := range analysis.Disciplines {
		if p, ok := stored[d.String()]; ok {
			out = append(out, summarizePace(d, p))
		}
	}
	return out, nil
}

// ApplyTrainingPaces sets the session's paces and bike speed to stored
// training averages, as returned by store.GetTrainingPaces. It reports
// whether anything was applied.
func ApplyTrainingPaces(sess *Session, stored map[string]store.TrainingPace) bool {
	applied := false
	if p, ok := stored[analysis.Swim.String()]; ok && p.SecondsPerUnit > 0 {
		sess.Swim.Pace = analysis.PaceFromSeconds(p.SecondsPerUnit)
		applied = true
	}
	if p, ok := stored[analysis.Bike.String()]; ok && p.SpeedKmh > 0 {
		sess.Bike.SpeedKmh = analysis.JoinSpeed(analysis.SplitSpeed(p.SpeedKmh))
		applied = true
	}
	if p, ok := stored[analysis.Run.String()]; ok && p.SecondsPerUnit > 0 {
		sess.Run.Pace = analysis.PaceFromSeconds(p.SecondsPerUnit)
		applied = true
	}
	return applied
}

func summarizePace(d analysis.Discipline, p store.TrainingPace) PaceSummary {
	s := PaceSummary{
		Discipline:    d,
		ActivityCount: p.ActivityCount,
		Distance:      fmt.Sprintf("%.1f km", p.TotalMeters/analysis.MetersPerKm),
	}
	switch d {
	case analysis.Swim:
		s.Pace = analysis.FormatPace(analysis.PaceFromSeconds(p.SecondsPerUnit)) + "/100m"
	case analysis.Bike:
		s.Pace = analysis.FormatSpeed(p.SpeedKmh)
	case analysis.Run:
		s.Pace = analysis.FormatPace(analysis.PaceFromSeconds(p.SecondsPerUnit)) + "/km"
	}
	return s
}

// storedType is the Strava type the activity was classified by, so that
// strava.TypesFor finds it again
func storedType(a strava.Activity) string {
	if _, ok := (strava.Activity{SportType: a.SportType}).Discipline(); ok {
		return a.SportType
	}
	return a.Type
}

// send delivers progress without blocking when nobody is listening
func send(ch chan<- ImportProgress, p ImportProgress) {
	if ch == nil {
		return
	}
	select {
	case ch <- p:
	default:
	}
}
