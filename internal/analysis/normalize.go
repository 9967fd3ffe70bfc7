package analysis

// The pickers step one unit at a time, so rollover moves a single unit into
// the next field and resets the stepped field. Hours (or minutes for a pace)
// never go below zero; clamping zeroes everything beneath them.

// NormalizeTimeComponents applies the picker rollover to a target or transition time
func NormalizeTimeComponents(hours, minutes, seconds int) (int, int, int) {
	h, m, s := hours, minutes, seconds

	if s >= SecondsPerMinute {
		m++
		s = 0
	}
	if s < 0 {
		m--
		s = 59
	}

	if m >= 60 {
		h++
		m = 0
	}
	if m < 0 {
		h--
		m = 59
	}

	if h < 0 {
		return 0, 0, 0
	}
	return h, m, s
}

// NormalizePace applies the picker rollover to a pace
func NormalizePace(minutes, seconds int) (int, int) {
	m, s := minutes, seconds

	if s >= SecondsPerMinute {
		m++
		s = 0
	}
	if s < 0 {
		m--
		s = 59
	}

	if m < 0 {
		return 0, 0
	}
	return m, s
}

// NormalizeSpeed applies the picker rollover to a speed split into whole
// km/h and one decimal digit
func NormalizeSpeed(whole, tenth int) (int, int) {
	w, d := whole, tenth

	if d > 9 {
		w++
		d = 0
	}
	if d < 0 {
		w--
		d = 9
	}

	if w < 0 {
		return 0, 0
	}
	return w, d
}

// Normalize returns the time with picker rollover applied
func (t TimeComponents) Normalize() TimeComponents {
	h, m, s := NormalizeTimeComponents(t.Hours, t.Minutes, t.Seconds)
	return TimeComponents{Hours: h, Minutes: m, Seconds: s}
}

// Normalize returns the pace with picker rollover applied
func (p Pace) Normalize() Pace {
	m, s := NormalizePace(p.Minutes, p.Seconds)
	return Pace{Minutes: m, Seconds: s}
}
