package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SavePlan inserts or replaces a race plan
func (s *Store) SavePlan(p *RacePlan) error {
	_, err := s.db.Exec(`
		INSERT INTO race_plans (
			id, name, mode, swim_meters, bike_km, run_km,
			swim_seconds, bike_seconds, run_seconds, t1_seconds, t2_seconds, saved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mode = excluded.mode,
			swim_meters = excluded.swim_meters,
			bike_km = excluded.bike_km,
			run_km = excluded.run_km,
			swim_seconds = excluded.swim_seconds,
			bike_seconds = excluded.bike_seconds,
			run_seconds = excluded.run_seconds,
			t1_seconds = excluded.t1_seconds,
			t2_seconds = excluded.t2_seconds,
			saved_at = excluded.saved_at
	`,
		p.ID, p.Name, p.Mode, p.SwimMeters, p.BikeKm, p.RunKm,
		p.SwimSeconds, p.BikeSeconds, p.RunSeconds, p.T1Seconds, p.T2Seconds,
		p.SavedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// ListPlans retrieves all race plans, most recently saved first
func (s *Store) ListPlans() ([]RacePlan, error) {
	rows, err := s.db.Query(`
		SELECT id, name, mode, swim_meters, bike_km, run_km,
			swim_seconds, bike_seconds, run_seconds, t1_seconds, t2_seconds, saved_at
		FROM race_plans
		ORDER BY saved_at DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRacePlans(rows)
}

// GetPlan retrieves a single plan by ID
func (s *Store) GetPlan(id string) (*RacePlan, error) {
	row := s.db.QueryRow(`
		SELECT id, name, mode, swim_meters, bike_km, run_km,
			swim_seconds, bike_seconds, run_seconds, t1_seconds, t2_seconds, saved_at
		FROM race_plans
		WHERE id = ?
	`, id)

	return scanRacePlan(row)
}

// FindPlan retrieves a plan by ID, an ID prefix of at least four characters,
// or its exact name
func (s *Store) FindPlan(ref string) (*RacePlan, error) {
	p, err := s.GetPlan(ref)
	if !errors.Is(err, ErrPlanNotFound) {
		return p, err
	}

	prefix := ""
	if len(ref) >= 4 {
		prefix = ref + "%"
	}
	row := s.db.QueryRow(`
		SELECT id, name, mode, swim_meters, bike_km, run_km,
			swim_seconds, bike_seconds, run_seconds, t1_seconds, t2_seconds, saved_at
		FROM race_plans
		WHERE name = ? OR (? != '' AND id LIKE ?)
		ORDER BY saved_at DESC
		LIMIT 1
	`, ref, prefix, prefix)

	return scanRacePlan(row)
}

// DeletePlan removes a plan by ID
func (s *Store) DeletePlan(id string) error {
	result, err := s.db.Exec(`DELETE FROM race_plans WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// scanRacePlan scans a single plan from a row
func scanRacePlan(row *sql.Row) (*RacePlan, error) {
	var p RacePlan
	var savedAt string

	err := row.Scan(
		&p.ID, &p.Name, &p.Mode, &p.SwimMeters, &p.BikeKm, &p.RunKm,
		&p.SwimSeconds, &p.BikeSeconds, &p.RunSeconds, &p.T1Seconds, &p.T2Seconds,
		&savedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	var parseErr error
	p.SavedAt, parseErr = time.Parse(time.RFC3339, savedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing saved_at %q: %w", savedAt, parseErr)
	}

	return &p, nil
}

// scanRacePlans scans multiple plans from rows
func scanRacePlans(rows *sql.Rows) ([]RacePlan, error) {
	var plans []RacePlan

	for rows.Next() {
		var p RacePlan
		var savedAt string

		err := rows.Scan(
			&p.ID, &p.Name, &p.Mode, &p.SwimMeters, &p.BikeKm, &p.RunKm,
			&p.SwimSeconds, &p.BikeSeconds, &p.RunSeconds, &p.T1Seconds, &p.T2Seconds,
			&savedAt,
		)
		if err != nil {
			return nil, err
		}

		var parseErr error
		p.SavedAt, parseErr = time.Parse(time.RFC3339, savedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing saved_at %q: %w", savedAt, parseErr)
		}

		plans = append(plans, p)
	}

	return plans, rows.Err()
}
