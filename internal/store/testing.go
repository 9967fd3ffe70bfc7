package store

import (
	"database/sql"
)

// NewTestStore wraps an open database, typically ":memory:", and runs the
// migrations on it. This is only intended for use in tests.
func NewTestStore(sqlDB *sql.DB) (*Store, error) {
	sqlDB.SetMaxOpenConns(1)
	if err := migrate(sqlDB); err != nil {
		return nil, err
	}
	return &Store{db: sqlDB}, nil
}
