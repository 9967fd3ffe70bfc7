package analysis

import (
	"math"
	"testing"
)

func TestSwimDuration(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		pace     Pace
		wantSecs float64
	}{
		{"sprint swim at 2:00/100m", 750, Pace{2, 0}, 900},
		{"olympic swim at 1:45/100m", 1500, Pace{1, 45}, 1575},
		{"full swim at 2:06/100m", 3800, Pace{2, 6}, 4788},
		{"zero distance", 0, Pace{2, 0}, 0},
		{"zero pace", 1500, Pace{}, 0},
		{"negative distance clamps to zero", -100, Pace{2, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SwimDuration(tt.meters, tt.pace)
			if math.Abs(got-tt.wantSecs) > 1e-9 {
				t.Errorf("SwimDuration(%v, %v) = %v, want %v", tt.meters, tt.pace, got, tt.wantSecs)
			}
		})
	}
}

func TestSwimDuration_Monotonic(t *testing.T) {
	pace := Pace{1, 50}
	prev := -1.0
	for meters := 0.0; meters <= 5000; meters += 50 {
		got := SwimDuration(meters, pace)
		if got < prev {
			t.Fatalf("SwimDuration not monotonic in distance at %vm: %v < %v", meters, got, prev)
		}
		prev = got
	}

	prev = -1.0
	for secs := 0; secs <= 300; secs += 5 {
		got := SwimDuration(1500, Pace{Minutes: secs / 60, Seconds: secs % 60})
		if got < prev {
			t.Fatalf("SwimDuration not monotonic in pace at %ds: %v < %v", secs, got, prev)
		}
		prev = got
	}
}

func TestBikeDuration(t *testing.T) {
	tests := []struct {
		name     string
		km       float64
		kmh      float64
		wantSecs float64
	}{
		{"sprint bike at 30 km/h", 20, 30, 2400},
		{"half bike at 30 km/h", 90, 30, 10800},
		{"full bike at 36 km/h", 180, 36, 18000},
		{"zero speed", 40, 0, 0},
		{"zero distance", 0, 30, 0},
		{"negative speed clamps to zero", 40, -20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BikeDuration(tt.km, tt.kmh)
			if math.Abs(got-tt.wantSecs) > 1e-6 {
				t.Errorf("BikeDuration(%v, %v) = %v, want %v", tt.km, tt.kmh, got, tt.wantSecs)
			}
		})
	}
}

func TestBikeDuration_ZeroEdges(t *testing.T) {
	for _, d := range []float64{0, 1, 20, 180, 1e6} {
		if got := BikeDuration(d, 0); got != 0 {
			t.Errorf("BikeDuration(%v, 0) = %v, want 0", d, got)
		}
	}
	for _, s := range []float64{0.1, 1, 30, 55.5} {
		if got := BikeDuration(0, s); got != 0 {
			t.Errorf("BikeDuration(0, %v) = %v, want 0", s, got)
		}
	}
}

func TestRunDuration(t *testing.T) {
	tests := []struct {
		name     string
		km       float64
		pace     Pace
		wantSecs float64
	}{
		{"sprint run at 6:00/km", 5, Pace{6, 0}, 1800},
		{"olympic run at 5:12/km", 10, Pace{5, 12}, 3120},
		{"zero pace", 10, Pace{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunDuration(tt.km, tt.pace)
			if math.Abs(got-tt.wantSecs) > 1e-9 {
				t.Errorf("RunDuration(%v, %v) = %v, want %v", tt.km, tt.pace, got, tt.wantSecs)
			}
		})
	}
}

func TestInversePaces(t *testing.T) {
	t.Run("swim pace from target time", func(t *testing.T) {
		if got := SwimPace(750, 900); got != (Pace{2, 0}) {
			t.Errorf("SwimPace(750, 900) = %v, want 2:00", got)
		}
	})

	t.Run("run pace rounds seconds", func(t *testing.T) {
		// 312.5 s/km
		if got := RunPace(10, 3125); got != (Pace{5, 13}) {
			t.Errorf("RunPace(10, 3125) = %v, want 5:13", got)
		}
	})

	t.Run("rounded 60 seconds carries", func(t *testing.T) {
		if got := RunPace(1, 119.7); got != (Pace{2, 0}) {
			t.Errorf("RunPace(1, 119.7) = %v, want 2:00", got)
		}
	})

	t.Run("bike speed from target time", func(t *testing.T) {
		if got := BikeSpeed(90, 3*3600); got != 30 {
			t.Errorf("BikeSpeed(90, 3h) = %v, want 30", got)
		}
	})

	t.Run("zero distance gives zero rate", func(t *testing.T) {
		if got := SwimPace(0, 900); !got.IsZero() {
			t.Errorf("SwimPace(0, 900) = %v, want 0:00", got)
		}
		if got := RunPace(0, 900); !got.IsZero() {
			t.Errorf("RunPace(0, 900) = %v, want 0:00", got)
		}
		if got := BikeSpeed(0, 3600); got != 0 {
			t.Errorf("BikeSpeed(0, 3600) = %v, want 0", got)
		}
	})

	t.Run("zero duration gives zero rate", func(t *testing.T) {
		if got := BikeSpeed(40, 0); got != 0 {
			t.Errorf("BikeSpeed(40, 0) = %v, want 0", got)
		}
		if got := RunPace(10, 0); !got.IsZero() {
			t.Errorf("RunPace(10, 0) = %v, want 0:00", got)
		}
	})
}

func TestSplitSpeed(t *testing.T) {
	tests := []struct {
		kmh       float64
		wantWhole int
		wantTenth int
	}{
		{30, 30, 0},
		{30.5, 30, 5},
		{29.96, 30, 0}, // rounds to .10 and carries
		{0, 0, 0},
		{-4, 0, 0},
		{math.NaN(), 0, 0},
	}

	for _, tt := range tests {
		w, d := SplitSpeed(tt.kmh)
		if w != tt.wantWhole || d != tt.wantTenth {
			t.Errorf("SplitSpeed(%v) = (%d, %d), want (%d, %d)", tt.kmh, w, d, tt.wantWhole, tt.wantTenth)
		}
	}

	if got := JoinSpeed(30, 5); got != 30.5 {
		t.Errorf("JoinSpeed(30, 5) = %v, want 30.5", got)
	}
}

func TestStepDistance(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		delta float64
		want  float64
	}{
		{"run step up", 21.1, 0.1, 21.2},
		{"run step down", 5, -0.1, 4.9},
		{"clamps at zero", 0.05, -0.1, 0},
		{"bike step", 40, 1, 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepDistance(tt.value, tt.delta); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("StepDistance(%v, %v) = %v, want %v", tt.value, tt.delta, got, tt.want)
			}
		})
	}
}
