package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// UpsertActivity inserts or updates an imported activity
func (s *Store) UpsertActivity(a *Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (
			id, name, type, start_date, distance, moving_time, average_speed, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			start_date = excluded.start_date,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			average_speed = excluded.average_speed,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, a.Type, a.StartDate.UTC().Format(time.RFC3339),
		a.Distance, a.MovingTime, a.AverageSpeed,
	)
	return err
}

// ListActivitiesSince returns activities of the given Strava types that
// started at or after since, newest first. No types means all types.
func (s *Store) ListActivitiesSince(since time.Time, types ...string) ([]Activity, error) {
	query := `
		SELECT id, name, type, start_date, distance, moving_time, COALESCE(average_speed, 0)
		FROM activities
		WHERE start_date >= ?`
	args := []any{since.UTC().Format(time.RFC3339)}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += ` AND type IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY start_date DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of imported activities
func (s *Store) CountActivities() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity

	for rows.Next() {
		var a Activity
		var startDate string

		err := rows.Scan(&a.ID, &a.Name, &a.Type, &startDate, &a.Distance, &a.MovingTime, &a.AverageSpeed)
		if err != nil {
			return nil, err
		}

		var parseErr error
		a.StartDate, parseErr = time.Parse(time.RFC3339, startDate)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing start_date %q: %w", startDate, parseErr)
		}

		activities = append(activities, a)
	}

	return activities, rows.Err()
}
