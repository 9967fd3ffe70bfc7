package store

import (
	"errors"
	"testing"
	"time"
)

func TestAuth(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Fatalf("GetAuth() on empty store error = %v, want ErrNoAuth", err)
	}
	if err := s.UpdateTokens("a", "r", time.Now()); !errors.Is(err, ErrNoAuth) {
		t.Errorf("UpdateTokens() without auth error = %v, want ErrNoAuth", err)
	}

	expires := time.Unix(1_800_000_000, 0)
	if err := s.SaveAuth(&Auth{AthleteID: 42, AccessToken: "access", RefreshToken: "refresh", ExpiresAt: expires}); err != nil {
		t.Fatalf("SaveAuth() error = %v", err)
	}

	later := expires.Add(6 * time.Hour)
	if err := s.UpdateTokens("access2", "refresh2", later); err != nil {
		t.Fatalf("UpdateTokens() error = %v", err)
	}

	got, err := s.GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() error = %v", err)
	}
	if got.AthleteID != 42 {
		t.Errorf("AthleteID = %d, want 42", got.AthleteID)
	}
	if got.AccessToken != "access2" || got.RefreshToken != "refresh2" {
		t.Errorf("tokens = %q/%q, want access2/refresh2", got.AccessToken, got.RefreshToken)
	}
	if !got.ExpiresAt.Equal(later) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, later)
	}

	if err := s.DeleteAuth(); err != nil {
		t.Fatalf("DeleteAuth() error = %v", err)
	}
	if _, err := s.GetAuth(); !errors.Is(err, ErrNoAuth) {
		t.Errorf("GetAuth() after delete error = %v, want ErrNoAuth", err)
	}
}

func TestSettings(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.GetSetting("missing")
	if err != nil || got != "" {
		t.Errorf("GetSetting(missing) = %q, %v; want empty, nil", got, err)
	}

	if err := s.SetSetting("mode", "time"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if err := s.SetSetting("mode", "pace"); err != nil {
		t.Fatalf("SetSetting() overwrite error = %v", err)
	}
	if got, _ := s.GetSetting("mode"); got != "pace" {
		t.Errorf("GetSetting(mode) = %q, want pace", got)
	}
}

func TestProfile(t *testing.T) {
	s := setupTestStore(t)

	if _, err := s.GetProfile(); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("GetProfile() on empty store error = %v, want ErrNoProfile", err)
	}

	want := Profile{Name: "Jana", BirthDate: "1999-03-14", Gender: "female"}
	if err := s.SaveProfile(&want); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	got, err := s.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if *got != want {
		t.Errorf("GetProfile() = %+v, want %+v", *got, want)
	}

	raw, _ := s.GetSetting("profile")
	if raw != `{"name":"Jana","birthDate":"1999-03-14","gender":"female"}` {
		t.Errorf("stored profile = %s", raw)
	}

	if err := s.SetSetting("profile", "{broken"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetProfile(); err == nil || errors.Is(err, ErrNoProfile) {
		t.Errorf("GetProfile() with broken JSON error = %v, want decode error", err)
	}
}

func TestActivities(t *testing.T) {
	s := setupTestStore(t)
	base := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	activities := []Activity{
		{ID: 1, Name: "Morning Swim", Type: "Swim", StartDate: base, Distance: 1500, MovingTime: 1800, AverageSpeed: 0.83},
		{ID: 2, Name: "Long Ride", Type: "Ride", StartDate: base.AddDate(0, 0, 1), Distance: 60000, MovingTime: 7200, AverageSpeed: 8.33},
		{ID: 3, Name: "Tempo Run", Type: "Run", StartDate: base.AddDate(0, 0, 2), Distance: 10000, MovingTime: 3000, AverageSpeed: 3.33},
		{ID: 4, Name: "Old Run", Type: "Run", StartDate: base.AddDate(0, -6, 0), Distance: 5000, MovingTime: 1600},
		{ID: 5, Name: "Yoga", Type: "Yoga", StartDate: base, MovingTime: 3600},
	}
	for i := range activities {
		if err := s.UpsertActivity(&activities[i]); err != nil {
			t.Fatalf("UpsertActivity(%d) error = %v", activities[i].ID, err)
		}
	}

	// re-import must not duplicate
	activities[2].Name = "Tempo Run (edited)"
	if err := s.UpsertActivity(&activities[2]); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.CountActivities(); n != 5 {
		t.Errorf("CountActivities() = %d, want 5", n)
	}

	got, err := s.ListActivitiesSince(base.AddDate(0, 0, -7), "Swim", "Ride", "Run")
	if err != nil {
		t.Fatalf("ListActivitiesSince() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != 3 || got[0].Name != "Tempo Run (edited)" {
		t.Errorf("newest = %+v, want edited run", got[0])
	}
	if !got[2].StartDate.Equal(base) {
		t.Errorf("StartDate = %v, want %v", got[2].StartDate, base)
	}

	all, err := s.ListActivitiesSince(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("ListActivitiesSince(zero) len = %d, want 5", len(all))
	}
}

func TestTrainingPaces(t *testing.T) {
	s := setupTestStore(t)
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for _, p := range []TrainingPace{
		{Discipline: "swim", SecondsPerUnit: 115, ActivityCount: 4, TotalMeters: 6000, UpdatedAt: now},
		{Discipline: "bike", SpeedKmh: 29.5, ActivityCount: 3, TotalMeters: 180000, UpdatedAt: now},
		{Discipline: "swim", SecondsPerUnit: 112, ActivityCount: 5, TotalMeters: 7500, UpdatedAt: now},
	} {
		if err := s.UpsertTrainingPace(&p); err != nil {
			t.Fatalf("UpsertTrainingPace(%s) error = %v", p.Discipline, err)
		}
	}

	paces, err := s.GetTrainingPaces()
	if err != nil {
		t.Fatalf("GetTrainingPaces() error = %v", err)
	}
	if len(paces) != 2 {
		t.Fatalf("len(paces) = %d, want 2", len(paces))
	}
	if paces["swim"].SecondsPerUnit != 112 || paces["swim"].ActivityCount != 5 {
		t.Errorf("swim = %+v, want updated values", paces["swim"])
	}
	if paces["bike"].SpeedKmh != 29.5 {
		t.Errorf("bike speed = %v, want 29.5", paces["bike"].SpeedKmh)
	}
	if !paces["bike"].UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", paces["bike"].UpdatedAt, now)
	}
}

func TestOpenPathMemory(t *testing.T) {
	s, err := OpenPath(":memory:")
	if err != nil {
		t.Fatalf("OpenPath() error = %v", err)
	}
	defer s.Close()

	if err := s.SetSetting("k", "v"); err != nil {
		t.Fatalf("SetSetting() error = %v", err)
	}
	if got, _ := s.GetSetting("k"); got != "v" {
		t.Errorf("GetSetting() = %q, want v", got)
	}
}
