package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME POINT - Calendar day
// =============================================================================

// DateLayout is the ISO calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

type TimePoint struct {
	Time time.Time
}

func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() TimePoint {
	now := time.Now()
	return NewTimePoint(now.Year(), now.Month(), now.Day())
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and truncates to the day.
func ParseDate(s string) (TimePoint, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return TimePoint{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return TimePoint{}, &DateError{Input: s}
	}
	return NewTimePoint(t.Year(), t.Month(), t.Day()), nil
}

// Comparison (day granularity)
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func (tp TimePoint) AddDays(n int) TimePoint { return TimePoint{Time: tp.Time.AddDate(0, 0, n)} }
func (tp TimePoint) IsZero() bool            { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(DateLayout)
}

// =============================================================================
// CLOCK TIME - HH:MM minute-of-day offsets
// =============================================================================

// MinutesPerClockDay wraps overnight shifts.
const MinutesPerClockDay = 24 * 60

// ParseClock converts "HH:MM" into minutes since midnight. Empty or
// malformed input yields 0.
func ParseClock(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	hh, mm, ok := strings.Cut(s, ":")
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0
	}
	m := 0
	if ok {
		if m, err = strconv.Atoi(mm); err != nil {
			m = 0
		}
	}
	return h*60 + m
}

// FormatClock is the inverse of ParseClock for values in [0, 1440).
func FormatClock(mins int) string {
	mins = ((mins % MinutesPerClockDay) + MinutesPerClockDay) % MinutesPerClockDay
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// MinutesToDayFraction returns mins/480 without rounding.
func MinutesToDayFraction(mins int) decimal.Decimal {
	return decimal.NewFromInt(int64(mins)).Div(minutesPerDay)
}
