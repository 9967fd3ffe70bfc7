package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tricalc/internal/analysis"
	"tricalc/internal/store"
)

// ValidateProfile checks that all three profile fields are usable for an estimate
func ValidateProfile(p store.Profile, now time.Time) error {
	var errs []string

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}

	if strings.TrimSpace(p.BirthDate) == "" {
		errs = append(errs, "birth date is required")
	} else if birth, err := time.Parse(BirthDateLayout, strings.TrimSpace(p.BirthDate)); err != nil {
		errs = append(errs, fmt.Sprintf("birth date %q must be YYYY-MM-DD", p.BirthDate))
	} else if birth.After(now) {
		errs = append(errs, "birth date is in the future")
	}

	if strings.TrimSpace(p.Gender) == "" {
		errs = append(errs, "gender is required")
	} else if _, ok := analysis.ParseGender(p.Gender); !ok {
		errs = append(errs, fmt.Sprintf("gender %q must be male or female", p.Gender))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid profile: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Demographic converts a stored profile into estimator input
func Demographic(p store.Profile) (analysis.Demographic, error) {
	gender, ok := analysis.ParseGender(p.Gender)
	if !ok {
		return analysis.Demographic{}, fmt.Errorf("unknown gender %q", p.Gender)
	}
	birth, err := time.Parse(BirthDateLayout, strings.TrimSpace(p.BirthDate))
	if err != nil {
		return analysis.Demographic{}, fmt.Errorf("parsing birth date: %w", err)
	}
	return analysis.Demographic{Gender: gender, BirthDate: birth}, nil
}

// Profile returns the stored profile, or nil when none has been saved
func (s *PlanService) Profile() (*store.Profile, error) {
	p, err := s.store.GetProfile()
	if errors.Is(err, store.ErrNoProfile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return p, nil
}

// SaveProfile validates and stores a profile
func (s *PlanService) SaveProfile(name, birthDate, gender string) (*store.Profile, error) {
	p := store.Profile{
		Name:      strings.TrimSpace(name),
		BirthDate: strings.TrimSpace(birthDate),
		Gender:    strings.ToLower(strings.TrimSpace(gender)),
	}
	if err := ValidateProfile(p, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(&p); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return &p, nil
}
