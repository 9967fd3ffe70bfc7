package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings (key-value store, the profile lives under "profile")
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Saved race plans
		`CREATE TABLE IF NOT EXISTS race_plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			mode TEXT NOT NULL,
			swim_meters REAL NOT NULL,
			bike_km REAL NOT NULL,
			run_km REAL NOT NULL,
			swim_seconds REAL NOT NULL,
			bike_seconds REAL NOT NULL,
			run_seconds REAL NOT NULL,
			t1_seconds INTEGER NOT NULL,
			t2_seconds INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_race_plans_saved_at ON race_plans(saved_at)`,

		// Activities imported from Strava (summary data only)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			average_speed REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Training paces averaged per discipline from imported activities
		`CREATE TABLE IF NOT EXISTS training_paces (
			discipline TEXT PRIMARY KEY,
			seconds_per_unit REAL NOT NULL,
			speed_kmh REAL NOT NULL,
			activity_count INTEGER NOT NULL,
			total_meters REAL NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
