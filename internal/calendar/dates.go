package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidArgument is returned when an enumerated input (weekday, time of
// day, count) falls outside its closed set. It is never coerced.
var ErrInvalidArgument = errors.New("invalid argument")

const daysPerWeek = 7

// ValidWeekday reports whether w is one of Sunday (0) through Saturday (6).
func ValidWeekday(w time.Weekday) bool {
	return w >= time.Sunday && w <= time.Saturday
}

// ParseWeekday maps an English weekday name ("friday", "Fri") to its index.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) >= 3 {
		for w := time.Sunday; w <= time.Saturday; w++ {
			full := strings.ToLower(w.String())
			if n == full || n == full[:3] {
				return w, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("%w: weekday %q", ErrInvalidArgument, name)
}

// StartOfDay returns the first instant of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return midnight(y, m, d, t.Location())
}

// midnight returns 00:00 of the given date in loc, normalizing d overflow
// like time.Date. Where a DST jump skips local midnight (America/Santiago,
// Asia/Beirut) the day starts at the transition instead.
func midnight(y int, m time.Month, d int, loc *time.Location) time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	want := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != want.Day() {
		_, end := t.ZoneBounds()
		if !end.IsZero() {
			t = end
		}
	}
	return t
}

// weekdayOf is the weekday of a calendar date, independent of any zone.
func weekdayOf(y int, m time.Month, d int) time.Weekday {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Weekday()
}

// NextOccurrence returns the first date on or after ref's calendar day that
// falls on w. When ref already is a w, ref's own day is returned.
func NextOccurrence(ref time.Time, w time.Weekday) (time.Time, error) {
	if !ValidWeekday(w) {
		return time.Time{}, fmt.Errorf("%w: weekday %d", ErrInvalidArgument, int(w))
	}
	y, m, d := ref.Date()
	return midnight(y, m, d+daysAhead(y, m, d, w), ref.Location()), nil
}

func daysAhead(y int, m time.Month, d int, w time.Weekday) int {
	return (int(w) - int(weekdayOf(y, m, d)) + daysPerWeek) % daysPerWeek
}

// UpcomingOccurrences returns count dates, one week apart, starting
// weekOffset weeks after the next occurrence of w. weekOffset may be
// negative; the provider decides how far back it can serve.
func UpcomingOccurrences(w time.Weekday, weekOffset, count int, ref time.Time) ([]time.Time, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidArgument, count)
	}
	if !ValidWeekday(w) {
		return nil, fmt.Errorf("%w: weekday %d", ErrInvalidArgument, int(w))
	}

	// Every date is derived from ref's calendar date, never from an earlier
	// result, so a skipped midnight cannot shift the following weeks.
	y, m, d := ref.Date()
	first := d + daysAhead(y, m, d, w)
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, midnight(y, m, first+daysPerWeek*(weekOffset+i), ref.Location()))
	}
	return dates, nil
}

// CalendarDaysBetween counts whole calendar days from ref to date using each
// value's own wall-clock date. Time of day and zone offsets are ignored.
func CalendarDaysBetween(date, ref time.Time) int {
	dy, dm, dd := date.Date()
	ry, rm, rd := ref.Date()
	a := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b) / (24 * time.Hour))
}
