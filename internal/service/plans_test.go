package service

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"tricalc/internal/analysis"
	"tricalc/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	st, err := store.NewTestStore(sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

func newTestPlanService(t *testing.T) *PlanService {
	t.Helper()
	svc := NewPlanService(setupTestStore(t))
	svc.now = func() time.Time { return testNow }
	return svc
}

// sprintSession is a sprint race planned right on the male 25-29 benchmark
func sprintSession() *Session {
	s := newDefaultSession()
	s.Plan = Plan{
		SwimSeconds: 900,
		BikeSeconds: 2400,
		RunSeconds:  1500,
		T1:          Transition{Minutes: 1, Seconds: 30},
		T2:          Transition{Minutes: 1, Seconds: 30},
	}
	return s
}

func TestPlanService_SaveAndList(t *testing.T) {
	svc := newTestPlanService(t)

	saved, err := svc.Save("  Lake Sprint ", sprintSession())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.Name != "Lake Sprint" || saved.T1Seconds != 90 || saved.SwimMeters != 750 {
		t.Errorf("saved = %+v", saved)
	}

	svc.now = func() time.Time { return testNow.Add(72 * time.Hour) }
	plans, err := svc.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("len(plans) = %d, want 1", len(plans))
	}
	got := plans[0]
	if got.Category != "Sprint" || got.Total != "1:23:00" {
		t.Errorf("summary = %+v", got)
	}
	if got.SavedAgo != "3 days ago" {
		t.Errorf("SavedAgo = %q, want 3 days ago", got.SavedAgo)
	}
	if len(got.ShortID) != 8 || !strings.HasPrefix(got.ID, got.ShortID) {
		t.Errorf("ShortID = %q for %q", got.ShortID, got.ID)
	}
}

func TestPlanService_SaveSameNameOverwrites(t *testing.T) {
	svc := newTestPlanService(t)

	first, err := svc.Save("A", sprintSession())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	sess := sprintSession()
	sess.Plan.RunSeconds = 1200
	second, err := svc.Save("A", sess)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("IDs differ: %s vs %s", first.ID, second.ID)
	}
	plans, _ := svc.List()
	if len(plans) != 1 {
		t.Errorf("len(plans) = %d, want 1", len(plans))
	}
}

func TestPlanService_SaveRequiresName(t *testing.T) {
	svc := newTestPlanService(t)
	if _, err := svc.Save("   ", sprintSession()); err == nil {
		t.Error("Save() with blank name should fail")
	}
}

func TestRestorePlan(t *testing.T) {
	svc := newTestPlanService(t)

	src := sprintSession()
	src.Mode = ModePace
	src.ApplyPreset(analysis.CategoryOlympic)
	saved, err := svc.Save("Olympic", src)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	found, err := svc.Find(saved.ID[:6])
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	dst := newDefaultSession()
	RestorePlan(dst, *found)
	if dst.Mode != ModePace {
		t.Errorf("Mode = %q, want pace", dst.Mode)
	}
	if dst.Distances() != src.Distances() {
		t.Errorf("Distances() = %+v, want %+v", dst.Distances(), src.Distances())
	}
	if dst.Plan != src.Plan {
		t.Errorf("Plan = %+v, want %+v", dst.Plan, src.Plan)
	}
}

func TestPlanService_Delete(t *testing.T) {
	svc := newTestPlanService(t)
	if _, err := svc.Save("Gone", sprintSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := svc.Delete("Gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Find("Gone"); !errors.Is(err, store.ErrPlanNotFound) {
		t.Errorf("Find() after delete error = %v, want ErrPlanNotFound", err)
	}
	if _, err := svc.Delete("Gone"); !errors.Is(err, store.ErrPlanNotFound) {
		t.Errorf("second Delete() error = %v, want ErrPlanNotFound", err)
	}
}

func TestPlanService_Export(t *testing.T) {
	svc := newTestPlanService(t)
	if _, err := svc.Save("Lake Sprint", sprintSession()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	calc := newTestCalculator(testProfile)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := svc.Export(&buf, "Lake Sprint", FormatYAML, calc); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		var got PlanExport
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("yaml.Unmarshal: %v\n%s", err, buf.String())
		}
		if got.Name != "Lake Sprint" || got.Total != "1:23:00" || got.T1 != "1:30" {
			t.Errorf("export = %+v", got)
		}
		if got.Distances.BikeKm != 20 || got.Category != "Sprint" {
			t.Errorf("distances = %+v category = %q", got.Distances, got.Category)
		}
		if got.Percentile == nil || got.Percentile.Value != 50 || got.Percentile.AgeGroup != "AK 25-29" {
			t.Errorf("percentile = %+v", got.Percentile)
		}
	})

	t.Run("json without profile", func(t *testing.T) {
		var buf bytes.Buffer
		if err := svc.Export(&buf, "Lake Sprint", FormatJSON, newTestCalculator(nil)); err != nil {
			t.Fatalf("Export() error = %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal: %v", err)
		}
		if got["swim"] != "0:15:00" {
			t.Errorf("swim = %v", got["swim"])
		}
		if _, ok := got["percentile"]; ok {
			t.Error("guest export should omit percentile")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		err := svc.Export(&bytes.Buffer{}, "Lake Sprint", "xml", nil)
		if err == nil || !strings.Contains(err.Error(), "unknown export format") {
			t.Errorf("Export(xml) error = %v", err)
		}
	})
}

func TestPlanService_Profile(t *testing.T) {
	svc := newTestPlanService(t)

	p, err := svc.Profile()
	if err != nil || p != nil {
		t.Fatalf("Profile() = %+v, %v; want nil, nil", p, err)
	}

	if _, err := svc.SaveProfile("Jana", "2030-01-01", "female"); err == nil {
		t.Error("SaveProfile() with future birth date should fail")
	}

	saved, err := svc.SaveProfile(" Jana ", "1990-06-15", "Female")
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if saved.Name != "Jana" || saved.Gender != "female" {
		t.Errorf("saved = %+v", saved)
	}

	p, err = svc.Profile()
	if err != nil || p == nil || *p != *saved {
		t.Errorf("Profile() = %+v, %v; want %+v", p, err, saved)
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile store.Profile
		wantErr string
	}{
		{"valid", store.Profile{Name: "Jana", BirthDate: "1990-06-15", Gender: "female"}, ""},
		{"missing name", store.Profile{BirthDate: "1990-06-15", Gender: "female"}, "name is required"},
		{"missing birth date", store.Profile{Name: "Jana", Gender: "female"}, "birth date is required"},
		{"bad birth date", store.Profile{Name: "Jana", BirthDate: "15.06.1990", Gender: "female"}, "YYYY-MM-DD"},
		{"bad gender", store.Profile{Name: "Jana", BirthDate: "1990-06-15", Gender: "x"}, "male or female"},
		{"missing gender", store.Profile{Name: "Jana", BirthDate: "1990-06-15"}, "gender is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(tt.profile, testNow)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateProfile() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateProfile() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
