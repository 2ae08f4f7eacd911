package calendar

import (
	"fmt"
	"time"
)

var clockLayouts = []string{"15:04:05", "15:04"}

// HourPoint is one hourly sample as reported upstream. Clock is a local
// wall-clock time without date or offset, e.g. "14:30:00".
type HourPoint struct {
	Clock      string  `json:"clock"`
	Temp       float64 `json:"temp"`
	Humidity   float64 `json:"humidity"`
	Precip     float64 `json:"precip"`
	PrecipProb float64 `json:"precipProb"`
}

// AnchoredPoint is an HourPoint placed on a concrete day.
type AnchoredPoint struct {
	HourPoint
	At time.Time `json:"at"`
}

// ParseClock combines a wall-clock string with day's calendar date in day's
// location. Hour, minute and second are kept as written.
func ParseClock(day time.Time, clock string) (time.Time, error) {
	var (
		parsed time.Time
		err    error
	)
	for _, layout := range clockLayouts {
		if parsed, err = time.Parse(layout, clock); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, day.Location()), nil
}

// Reanchor places every point on referenceDay, whatever date it was
// reported for, and keeps those inside the view window of t. Input order is
// preserved. Points with an unreadable clock are dropped. An empty or nil
// series yields an empty, non-nil slice.
func Reanchor(points []HourPoint, t TimeOfDay, referenceDay time.Time) ([]AnchoredPoint, error) {
	window, err := ViewWindow(t, referenceDay)
	if err != nil {
		return nil, err
	}

	out := make([]AnchoredPoint, 0, len(points))
	for _, p := range points {
		at, err := ParseClock(referenceDay, p.Clock)
		if err != nil {
			continue
		}
		if window.Contains(at) {
			out = append(out, AnchoredPoint{HourPoint: p, At: at})
		}
	}
	return out, nil
}
