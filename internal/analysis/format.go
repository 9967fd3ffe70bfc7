package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ZeroDuration is what FormatDuration renders for zero and non-finite input
const ZeroDuration = "0:00:00"

// TimeComponents is a duration split into whole hours, minutes and seconds
type TimeComponents struct {
	Hours   int
	Minutes int
	Seconds int
}

// TotalSeconds returns the components as seconds
func (t TimeComponents) TotalSeconds() float64 {
	return float64(t.Hours*SecondsPerHour + t.Minutes*SecondsPerMinute + t.Seconds)
}

// ToTimeComponents floors a duration into hours, minutes and seconds.
// Negative and non-finite input yields all zeros.
func ToTimeComponents(totalSeconds float64) TimeComponents {
	if !isFinite(totalSeconds) || totalSeconds <= 0 {
		return TimeComponents{}
	}
	return TimeComponents{
		Hours:   int(math.Floor(totalSeconds / SecondsPerHour)),
		Minutes: int(math.Floor(math.Mod(totalSeconds, SecondsPerHour) / SecondsPerMinute)),
		Seconds: int(math.Floor(math.Mod(totalSeconds, SecondsPerMinute))),
	}
}

// FormatDuration renders seconds as H:MM:SS with an unpadded hour field
func FormatDuration(totalSeconds float64) string {
	t := ToTimeComponents(totalSeconds)
	return fmt.Sprintf("%d:%s:%s", t.Hours, FormatTwoDigit(t.Minutes), FormatTwoDigit(t.Seconds))
}

// FormatTwoDigit zero-pads n to width 2
func FormatTwoDigit(n int) string {
	return fmt.Sprintf("%02d", n)
}

// FormatPace renders a pace as M:SS
func FormatPace(p Pace) string {
	return fmt.Sprintf("%d:%s", p.Minutes, FormatTwoDigit(p.Seconds))
}

// FormatSpeed renders km/h with one decimal
func FormatSpeed(kmh float64) string {
	if !isFinite(kmh) || kmh < 0 {
		kmh = 0
	}
	return fmt.Sprintf("%.1f km/h", kmh)
}

// FormatTransition renders a transition as M:SS, or "---" when it is empty
func FormatTransition(minutes, seconds int) string {
	if minutes == 0 && seconds == 0 {
		return "---"
	}
	return fmt.Sprintf("%d:%s", minutes, FormatTwoDigit(seconds))
}

// ParseLocaleNumber reads a number written with either '.' or ',' as the
// decimal separator. Like a lenient form field it uses the longest numeric
// prefix ("1,5 km" is 1.5) and returns 0 when there is none.
func ParseLocaleNumber(raw string) float64 {
	v, _ := LookupLocaleNumber(raw)
	return v
}

// LookupLocaleNumber is ParseLocaleNumber that also reports whether raw
// starts with a finite number at all
func LookupLocaleNumber(raw string) (float64, bool) {
	s := strings.Replace(raw, ",", ".", 1)
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	prefix := numericPrefix(s)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// ParsePace reads "M:SS" into a pace.
// A bare number is taken as whole minutes.
func ParsePace(raw string) (Pace, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Pace{}, false
	}
	sep := strings.Index(s, ":")
	if sep < 0 {
		m, err := strconv.Atoi(s)
		if err != nil || m < 0 {
			return Pace{}, false
		}
		return Pace{Minutes: m}, true
	}
	m, errM := strconv.Atoi(s[:sep])
	sec, errS := strconv.Atoi(s[sep+1:])
	if errM != nil || errS != nil || m < 0 || sec < 0 || sec >= SecondsPerMinute {
		return Pace{}, false
	}
	return Pace{Minutes: m, Seconds: sec}, true
}

// ParseDuration reads "H:MM:SS", "MM:SS" or plain seconds
func ParseDuration(raw string) (TimeComponents, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TimeComponents{}, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return TimeComponents{}, false
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return TimeComponents{}, false
		}
		vals[i] = v
	}

	switch len(vals) {
	case 1:
		return ToTimeComponents(float64(vals[0])), true
	case 2:
		if vals[1] >= SecondsPerMinute {
			return TimeComponents{}, false
		}
		return ToTimeComponents(float64(vals[0]*SecondsPerMinute + vals[1])), true
	default:
		if vals[1] >= SecondsPerMinute || vals[2] >= SecondsPerMinute {
			return TimeComponents{}, false
		}
		return TimeComponents{Hours: vals[0], Minutes: vals[1], Seconds: vals[2]}, true
	}
}

// numericPrefix returns the longest prefix of s that is a decimal float literal
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i

	// exponent only counts when at least one digit follows
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}
	return strings.TrimSuffix(s[:end], ".")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
