package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const profileKey = "profile"

// GetSetting retrieves a setting value by key.
// Returns empty string if key doesn't exist
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`
		SELECT value FROM settings WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// GetProfile returns the saved profile or ErrNoProfile
func (s *Store) GetProfile() (*Profile, error) {
	raw, err := s.GetSetting(profileKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNoProfile
	}

	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &p, nil
}

// SaveProfile stores the profile as JSON under the "profile" setting
func (s *Store) SaveProfile(p *Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return s.SetSetting(profileKey, string(data))
}
