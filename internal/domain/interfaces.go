package domain

import (
	"context"
	"time"
)

// SearchResult is the tagged outcome of one announcement search. A failed
// search carries OK=false and the source's error text; the announcement
// slice is empty in that case.
type SearchResult struct {
	OK            bool
	Orgnr         string
	Hits          int
	Announcements []Announcement
	Err           string
}

// AnnouncementSource searches a public registry for announcements tied to
// one organisationsnummer. daysBack is a hint forwarded to the source and
// not enforced here. Transport failures return an error; failures reported
// by the source itself come back as OK=false.
type AnnouncementSource interface {
	Search(ctx context.Context, orgnr string, daysBack int) (SearchResult, error)
}

// EventArchive persists company snapshots and events to durable storage.
// The in-memory log stays the source of truth; archive failures are
// logged and never abort a polling cycle.
type EventArchive interface {
	UpsertCompany(ctx context.Context, company Company) error
	SaveEvent(ctx context.Context, event Event) error
}

// EventQueue hands newly discovered events to the external notification
// pipeline.
type EventQueue interface {
	Publish(ctx context.Context, event Event) error
}

// Cache is a simple TTL store.
type Cache interface {
	Once(key string, ttl time.Duration, fn func() error) error
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
