// Package events keeps the append-only log of discovered events.
package events

import (
	"sync"
	"time"

	"bevakning/internal/domain"
)

// Store is the in-memory event log. Appends happen from the polling cycle
// while the HTTP API reads concurrently, so all access goes through the
// lock. Events are never removed; retention is an external concern.
type Store struct {
	mu     sync.RWMutex
	events []domain.Event
}

// NewStore creates an empty log.
func NewStore() *Store {
	return &Store{}
}

// Append adds events to the end of the log. No deduplication happens here:
// if the source hands out the same announcement twice, two events are
// stored. Suppression, when wanted, sits in front of the store.
func (s *Store) Append(events ...domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// Filter narrows a query. Zero values mean no filtering on that field.
type Filter struct {
	Orgnr string
	Type  domain.EventType
	Since time.Time
}

// Query returns events matching every set filter, in insertion order.
func (s *Store) Query(f Filter) []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]domain.Event, 0)
	for _, event := range s.events {
		if f.Orgnr != "" && event.Orgnr != f.Orgnr {
			continue
		}
		if f.Type != "" && event.Type != f.Type {
			continue
		}
		if !f.Since.IsZero() && event.DiscoveredAt.Before(f.Since) {
			continue
		}
		matched = append(matched, event)
	}
	return matched
}

// CountToday returns how many events were discovered on the current
// calendar date, by the process-local clock.
func (s *Store) CountToday() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	year, month, day := time.Now().Date()
	count := 0
	for _, event := range s.events {
		y, m, d := event.DiscoveredAt.Local().Date()
		if y == year && m == month && d == day {
			count++
		}
	}
	return count
}

// Len returns the total number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
