package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/fr"
)

var translators = map[string]func() locales.Translator{
	"en":    en.New,
	"en_GB": en_GB.New,
	"de":    de.New,
	"fr":    fr.New,
}

// Translator returns the locale translator used for weekday and month names.
func Translator(locale string) (locales.Translator, error) {
	newTranslator, ok := translators[strings.TrimSpace(locale)]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	return newTranslator(), nil
}

// WeekdayOption is one entry of the day-selection control.
type WeekdayOption struct {
	Index time.Weekday `json:"index"`
	Name  string       `json:"name"`
}

// Labeler renders human-facing day labels.
type Labeler struct {
	tr        locales.Translator
	weekStart time.Weekday
}

// NewLabeler builds a Labeler. weekStart is the first column of the
// day-selection control.
func NewLabeler(tr locales.Translator, weekStart time.Weekday) *Labeler {
	if tr == nil {
		tr = en.New()
	}
	if !ValidWeekday(weekStart) {
		weekStart = time.Sunday
	}
	return &Labeler{tr: tr, weekStart: weekStart}
}

// RelativeDay labels date relative to ref:
//
//	0 days    "Today, Friday the 15th"
//	1-6 days  "This Friday the 15th"
//	7-13 days "Next Friday the 22nd"
//	otherwise "Friday March 29th"
func (l *Labeler) RelativeDay(date, ref time.Time) string {
	weekday := l.tr.WeekdayWide(date.Weekday())
	ordinal := humanize.Ordinal(date.Day())

	switch d := CalendarDaysBetween(date, ref); {
	case d == 0:
		return fmt.Sprintf("Today, %s the %s", weekday, ordinal)
	case d > 0 && d < 7:
		return fmt.Sprintf("This %s the %s", weekday, ordinal)
	case d >= 7 && d < 14:
		return fmt.Sprintf("Next %s the %s", weekday, ordinal)
	default:
		return fmt.Sprintf("%s %s %s", weekday, l.tr.MonthWide(date.Month()), ordinal)
	}
}

// StartOfWeek returns midnight of the first day of the week containing ref.
func (l *Labeler) StartOfWeek(ref time.Time) time.Time {
	y, m, d := ref.Date()
	back := (int(weekdayOf(y, m, d)) - int(l.weekStart) + daysPerWeek) % daysPerWeek
	return midnight(y, m, d-back, ref.Location())
}

// WeekdayOptions lists the seven days of ref's week in display order, each
// paired with the index NextOccurrence expects. The order depends only on the
// week start.
func (l *Labeler) WeekdayOptions(_ time.Time) []WeekdayOption {
	opts := make([]WeekdayOption, 0, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		w := time.Weekday((int(l.weekStart) + i) % daysPerWeek)
		opts = append(opts, WeekdayOption{Index: w, Name: l.tr.WeekdayWide(w)})
	}
	return opts
}

// WeekdayNames is WeekdayOptions without the indices.
func (l *Labeler) WeekdayNames(ref time.Time) []string {
	opts := l.WeekdayOptions(ref)
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.Name
	}
	return names
}

// HourLabel renders a chart tick such as "2PM" or "12AM".
func HourLabel(t time.Time) string {
	return t.Format("3PM")
}
