package store

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/whether/internal/calendar"
	"github.com/i474232898/whether/internal/weather"
)

func prefs(location string, at time.Time) weather.Preferences {
	return weather.Preferences{
		Location:  location,
		Weekday:   time.Friday,
		TimeOfDay: calendar.Afternoon,
		UpdatedAt: at,
	}
}

func TestMemoryStore_EmptyReturnsNotFound(t *testing.T) {
	s := NewMemoryStore(5, 0, nil)

	_, err := s.GetPreferences()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.RecentPreferences(0))
}

func TestMemoryStore_LatestWins(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(5, 0, clock)

	s.SavePreferences(prefs("Seattle, WA", clock.Now()))
	s.SavePreferences(prefs("Portland, OR", clock.Now()))

	got, err := s.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, "Portland, OR", got.Location)

	recent := s.RecentPreferences(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "Portland, OR", recent[0].Location)
	assert.Equal(t, "Seattle, WA", recent[1].Location)
}

func TestMemoryStore_SameLocationReplaced(t *testing.T) {
	s := NewMemoryStore(5, 0, nil)
	now := time.Now()

	s.SavePreferences(prefs("Seattle, WA", now))
	s.SavePreferences(prefs("Portland, OR", now))
	evening := prefs("Seattle, WA", now)
	evening.TimeOfDay = calendar.Evening
	s.SavePreferences(evening)

	recent := s.RecentPreferences(0)
	require.Len(t, recent, 2)
	assert.Equal(t, calendar.Evening, recent[0].TimeOfDay)
	assert.Equal(t, "Portland, OR", recent[1].Location)
}

func TestMemoryStore_RetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0, nil)
	now := time.Now()

	s.SavePreferences(prefs("A", now))
	s.SavePreferences(prefs("B", now))
	s.SavePreferences(prefs("C", now))

	recent := s.RecentPreferences(10)
	require.Len(t, recent, 2)
	assert.Equal(t, "C", recent[0].Location)
	assert.Equal(t, "B", recent[1].Location)
	assert.Len(t, s.RecentPreferences(1), 1)
}

func TestMemoryStore_RetentionByAge(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s := NewMemoryStore(0, time.Hour, clock)

	s.SavePreferences(prefs("Old", clock.Now()))
	clock.Advance(2 * time.Hour)
	s.SavePreferences(prefs("New", clock.Now()))

	recent := s.RecentPreferences(0)
	require.Len(t, recent, 1)
	assert.Equal(t, "New", recent[0].Location)

	// The current selection survives even when it is itself old.
	clock.Advance(5 * time.Hour)
	s.SavePreferences(prefs("Stale", clock.Now().Add(-3*time.Hour)))
	got, err := s.GetPreferences()
	require.NoError(t, err)
	assert.Equal(t, "Stale", got.Location)
}
