package calendar

import (
	"fmt"
	"time"
)

// TimeOfDay is a coarse day bucket chosen by the user.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// TimesOfDay lists every bucket in declaration order.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Evening}

// viewPadding widens the chart window on both sides of the bucket.
const viewPadding = 2 * time.Hour

// ParseTimeOfDay accepts exactly one of "morning", "afternoon" or "evening".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch t := TimeOfDay(s); t {
	case Morning, Afternoon, Evening:
		return t, nil
	default:
		return "", fmt.Errorf("%w: time of day %q", ErrInvalidArgument, s)
	}
}

// HourRange is a half-open [Start, End) range of 24-hour clock hours.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// HourRange maps the bucket to its hours.
func (t TimeOfDay) HourRange() (HourRange, error) {
	switch t {
	case Morning:
		return HourRange{Start: 8, End: 12}, nil
	case Afternoon:
		return HourRange{Start: 12, End: 17}, nil
	case Evening:
		return HourRange{Start: 17, End: 21}, nil
	default:
		return HourRange{}, fmt.Errorf("%w: time of day %q", ErrInvalidArgument, string(t))
	}
}

// TimeRange is a closed interval of absolute instants.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// HourOf returns hour:00:00 on day's calendar date. hour is clamped to 0..23.
func HourOf(day time.Time, hour int) time.Time {
	hour = max(0, min(23, hour))
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, day.Location())
}

// Bounds returns the unpadded bucket on ref's day, used for chart markers.
func Bounds(t TimeOfDay, ref time.Time) (TimeRange, error) {
	hr, err := t.HourRange()
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: HourOf(ref, hr.Start), End: HourOf(ref, hr.End)}, nil
}

// ViewWindow returns Bounds padded by two hours on each side.
func ViewWindow(t TimeOfDay, ref time.Time) (TimeRange, error) {
	b, err := Bounds(t, ref)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: b.Start.Add(-viewPadding), End: b.End.Add(viewPadding)}, nil
}
