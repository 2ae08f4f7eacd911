package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/whether/internal/weather"
)

var (
	// ErrNotFound is returned before any preferences have been saved.
	ErrNotFound = errors.New("no dashboard preferences saved")
)

// MemoryStore is a concurrency-safe in-memory store of dashboard selections.
// Nothing survives a restart.
type MemoryStore struct {
	mu sync.RWMutex

	// oldest first; the last entry is the current selection
	history []weather.Preferences

	// retention configuration
	maxHistory int           // max number of selections kept
	maxAge     time.Duration // optional max age of past selections
	clock      clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SavePreferences makes p the current selection and enforces retention.
// An earlier entry for the same location is replaced.
func (s *MemoryStore) SavePreferences(p weather.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.history[:0]
	for _, prev := range s.history {
		if prev.Location != p.Location {
			kept = append(kept, prev)
		}
	}
	s.history = append(kept, p)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		over := len(s.history) - s.maxHistory
		s.history = s.history[over:]
	}

	// Enforce retention by age; the current selection is always kept.
	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.history)-1; i++ {
			if !s.history[i].UpdatedAt.Before(cutoff) {
				break
			}
		}
		s.history = s.history[i:]
	}
}

// GetPreferences returns the current selection.
func (s *MemoryStore) GetPreferences() (weather.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.history) == 0 {
		return weather.Preferences{}, ErrNotFound
	}
	return s.history[len(s.history)-1], nil
}

// RecentPreferences returns up to limit selections, newest first.
// A limit <= 0 returns all of them.
func (s *MemoryStore) RecentPreferences(limit int) []weather.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.history)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]weather.Preferences, 0, n)
	for i := len(s.history) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.history[i])
	}
	return result
}
