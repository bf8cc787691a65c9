package events

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"bevakning/internal/domain"
)

func makeEvent(orgnr string, eventType domain.EventType, discoveredAt time.Time) domain.Event {
	return domain.Event{
		ID:           uuid.New(),
		Orgnr:        orgnr,
		Type:         eventType,
		Source:       "POIT",
		DiscoveredAt: discoveredAt,
	}
}

func TestQueryByOrgnrKeepsInsertionOrder(t *testing.T) {
	store := NewStore()
	now := time.Now()
	first := makeEvent("5560000000", domain.EventBankruptcy, now)
	other := makeEvent("5560000001", domain.EventOther, now)
	second := makeEvent("5560000000", domain.EventBoardChange, now)
	store.Append(first, other, second)

	matched := store.Query(Filter{Orgnr: "5560000000"})
	if len(matched) != 2 {
		t.Fatalf("expected 2 events, got %d", len(matched))
	}
	if matched[0].ID != first.ID || matched[1].ID != second.ID {
		t.Fatalf("insertion order not preserved")
	}
}

func TestQueryByTypeAndSince(t *testing.T) {
	store := NewStore()
	now := time.Now()
	old := makeEvent("5560000000", domain.EventBankruptcy, now.Add(-48*time.Hour))
	recent := makeEvent("5560000000", domain.EventBankruptcy, now)
	otherType := makeEvent("5560000000", domain.EventMerger, now)
	store.Append(old, recent, otherType)

	matched := store.Query(Filter{Type: domain.EventBankruptcy, Since: now.Add(-time.Hour)})
	if len(matched) != 1 {
		t.Fatalf("expected 1 event, got %d", len(matched))
	}
	if matched[0].ID != recent.ID {
		t.Fatalf("expected the recent konkurs event")
	}
}

func TestQueryWithoutFiltersReturnsAll(t *testing.T) {
	store := NewStore()
	now := time.Now()
	store.Append(makeEvent("5560000000", domain.EventOther, now), makeEvent("5560000001", domain.EventOther, now))
	if got := len(store.Query(Filter{})); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
}

func TestCountToday(t *testing.T) {
	store := NewStore()
	now := time.Now()
	store.Append(
		makeEvent("5560000000", domain.EventOther, now),
		makeEvent("5560000000", domain.EventOther, now.Add(-48*time.Hour)),
	)
	if got := store.CountToday(); got != 1 {
		t.Fatalf("expected 1 event today, got %d", got)
	}
}

func TestAppendKeepsDuplicates(t *testing.T) {
	store := NewStore()
	event := makeEvent("5560000000", domain.EventOther, time.Now())
	store.Append(event)
	store.Append(event)
	if store.Len() != 2 {
		t.Fatalf("expected duplicate append to be kept, got %d events", store.Len())
	}
}
