package store

import (
	"fmt"
	"time"
)

// UpsertTrainingPace inserts or replaces the pace of one discipline
func (s *Store) UpsertTrainingPace(p *TrainingPace) error {
	_, err := s.db.Exec(`
		INSERT INTO training_paces (
			discipline, seconds_per_unit, speed_kmh, activity_count, total_meters, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(discipline) DO UPDATE SET
			seconds_per_unit = excluded.seconds_per_unit,
			speed_kmh = excluded.speed_kmh,
			activity_count = excluded.activity_count,
			total_meters = excluded.total_meters,
			updated_at = excluded.updated_at
	`,
		p.Discipline, p.SecondsPerUnit, p.SpeedKmh, p.ActivityCount, p.TotalMeters,
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetTrainingPaces returns the stored paces keyed by discipline
func (s *Store) GetTrainingPaces() (map[string]TrainingPace, error) {
	rows, err := s.db.Query(`
		SELECT discipline, seconds_per_unit, speed_kmh, activity_count, total_meters, updated_at
		FROM training_paces
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paces := make(map[string]TrainingPace)
	for rows.Next() {
		var p TrainingPace
		var updatedAt string
		if err := rows.Scan(&p.Discipline, &p.SecondsPerUnit, &p.SpeedKmh, &p.ActivityCount, &p.TotalMeters, &updatedAt); err != nil {
			return nil, err
		}

		var parseErr error
		p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing updated_at %q: %w", updatedAt, parseErr)
		}
		paces[p.Discipline] = p
	}

	return paces, rows.Err()
}
