package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the canonical calendar-date form used everywhere in the
	// snapshot. Dotted European dates are accepted on input only.
	DateLayout    = "2006-01-02"
	dottedLayout  = "02.01.2006"
	StampLayout   = "2006-01-02 15:04"
	CreatedLayout = "2006-01-02T15:04:05"
)

var stampLayouts = []string{
	StampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	CreatedLayout,
}

// ParseDate parses YYYY-MM-DD, falling back to DD.MM.YYYY. The boolean is
// false for empty or unparseable input; callers decide what missing means
// (eligibility treats it as minimal, ordering as maximal).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dottedLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// NormalizeDate rewrites any parseable date to YYYY-MM-DD and returns
// unparseable input unchanged.
func NormalizeDate(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return s
}

// ParseStamp parses a session timestamp: space- or T-separated date+time,
// optionally with seconds, then RFC3339, then a bare date.
func ParseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func Today() string {
	return time.Now().Format(DateLayout)
}

// TodayDate returns today's local calendar date at midnight UTC, comparable
// with ParseDate results (which carry no zone either).
func TodayDate() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NowStamp() string {
	return time.Now().Format(StampLayout)
}

// NowISO returns the creation-timestamp form (ISO-8601, seconds precision).
func NowISO() string {
	return time.Now().Format(CreatedLayout)
}

// Validation errors for free-text durations. These are the one class of
// error surfaced to users instead of being normalized away, because the
// input can be corrected and retried.
var (
	ErrNoDuration          = errors.New("no time entered")
	ErrBadDuration         = errors.New("invalid time format")
	ErrNonPositiveDuration = errors.New("time must be greater than zero")
)

// ParseMinutes turns free-text durations into whole minutes.
//
// Accepted forms: "1:30" (hours:minutes), "1h30m", "2h", "45m", "90"
// (bare minutes), "1.5h". Whitespace and case are ignored.
func ParseMinutes(raw string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, " ", "")
	if v == "" {
		return 0, ErrNoDuration
	}

	var total int
	switch {
	case strings.Contains(v, ":"):
		parts := strings.SplitN(v, ":", 2)
		h, err := atoiOrZero(parts[0])
		if err != nil {
			return 0, ErrBadDuration
		}
		m, err := atoiOrZero(parts[1])
		if err != nil {
			return 0, ErrBadDuration
		}
		total = h*60 + m
	case strings.Contains(v, "h"):
		parts := strings.SplitN(v, "h", 2)
		hours, err := floatOrZero(parts[0])
		if err != nil {
			return 0, ErrBadDuration
		}
		mins, err := floatOrZero(strings.TrimSuffix(parts[1], "m"))
		if err != nil {
			return 0, ErrBadDuration
		}
		total = int(math.Round(hours*60 + mins))
	default:
		num := v
		if c := v[len(v)-1]; c >= 'a' && c <= 'z' {
			num = v[:len(v)-1]
		}
		amount, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, ErrBadDuration
		}
		total = int(math.Round(amount))
	}

	if total <= 0 {
		return 0, ErrNonPositiveDuration
	}
	return total, nil
}

// FormatMinutes renders minutes the way durations are entered: "45m",
// "2h", "2h 15m". Non-positive totals render as "0m".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0m"
	}
	h, m := total/60, total%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func floatOrZero(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
