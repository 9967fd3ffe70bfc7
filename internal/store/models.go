package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64     `db:"athlete_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// Profile is the athlete the percentile estimate is personalized for
type Profile struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD
	Gender    string `json:"gender"`    // "male" or "female"
}

// RacePlan is a saved set of leg times, transitions and distances
type RacePlan struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Mode        string    `db:"mode"` // "time" or "pace"
	SwimMeters  float64   `db:"swim_meters"`
	BikeKm      float64   `db:"bike_km"`
	RunKm       float64   `db:"run_km"`
	SwimSeconds float64   `db:"swim_seconds"`
	BikeSeconds float64   `db:"bike_seconds"`
	RunSeconds  float64   `db:"run_seconds"`
	T1Seconds   int       `db:"t1_seconds"`
	T2Seconds   int       `db:"t2_seconds"`
	SavedAt     time.Time `db:"saved_at"`
}

// Activity is the summary of an imported Strava activity
type Activity struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Type         string    `db:"type"` // Strava type: "Swim", "Ride", "Run", ...
	StartDate    time.Time `db:"start_date"`
	Distance     float64   `db:"distance"`      // meters
	MovingTime   int       `db:"moving_time"`   // seconds
	AverageSpeed float64   `db:"average_speed"` // m/s
}

// TrainingPace is the average pace of one discipline over imported activities
type TrainingPace struct {
	Discipline     string    `db:"discipline"`       // "swim", "bike", "run"
	SecondsPerUnit float64   `db:"seconds_per_unit"` // per 100m swim, per km run
	SpeedKmh       float64   `db:"speed_kmh"`        // bike
	ActivityCount  int       `db:"activity_count"`
	TotalMeters    float64   `db:"total_meters"`
	UpdatedAt      time.Time `db:"updated_at"`
}
