package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is a watched company, keyed by its normalized 10-digit
// organisationsnummer.
type Company struct {
	Orgnr  string `json:"orgnr"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Announcement is one raw record from an announcement source. It is consumed
// immediately by classification and never stored as-is.
type Announcement struct {
	ID        string
	Reporter  string
	Category  string
	Summary   string
	Published string
	URL       string
}

// EventType classifies an announcement into a closed set of business events.
// The values are the wire representation used in the API and the archive.
type EventType string

const (
	EventBankruptcy            EventType = "konkurs"
	EventLiquidation           EventType = "likvidation"
	EventMerger                EventType = "fusion"
	EventBoardChange           EventType = "styrelse_andring"
	EventCeoChange             EventType = "vd_byte"
	EventArticlesAmendment     EventType = "bolagsordning_andring"
	EventShareIssue            EventType = "nyemission"
	EventUnknownCreditorNotice EventType = "kallelse_okand_borgenar"
	EventAnnualReport          EventType = "arsredovisning"
	EventOther                 EventType = "annan"
)

var eventTypeNames = map[EventType]string{
	EventBankruptcy:            "Bankruptcy",
	EventLiquidation:           "Liquidation",
	EventMerger:                "Merger",
	EventBoardChange:           "BoardChange",
	EventCeoChange:             "CeoChange",
	EventArticlesAmendment:     "ArticlesAmendment",
	EventShareIssue:            "ShareIssue",
	EventUnknownCreditorNotice: "UnknownCreditorNotice",
	EventAnnualReport:          "AnnualReport",
	EventOther:                 "Other",
}

// EventTypes returns all event types in classification priority order.
func EventTypes() []EventType {
	return []EventType{
		EventBankruptcy,
		EventLiquidation,
		EventMerger,
		EventBoardChange,
		EventCeoChange,
		EventArticlesAmendment,
		EventShareIssue,
		EventUnknownCreditorNotice,
		EventAnnualReport,
		EventOther,
	}
}

// Name returns the English name of the event type.
func (t EventType) Name() string {
	return eventTypeNames[t]
}

// Valid reports whether t belongs to the closed set.
func (t EventType) Valid() bool {
	_, ok := eventTypeNames[t]
	return ok
}

// Event is a classified announcement for a watched company. Events are
// append-only; only Notified is ever updated, by the notification pipeline.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Orgnr        string    `json:"orgnr"`
	CompanyName  string    `json:"company_name"`
	Type         EventType `json:"event_type"`
	Headline     string    `json:"headline"`
	Description  string    `json:"description,omitempty"`
	Source       string    `json:"source"`
	SourceURL    string    `json:"source_url,omitempty"`
	SourceID     string    `json:"source_id,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Notified     bool      `json:"notified"`
}

// Status is the aggregate state of the watch service.
type Status struct {
	WatchedCompanies int        `json:"watched_companies"`
	EventsToday      int        `json:"events_today"`
	LastRunAt        *time.Time `json:"last_run_at"`
	NextRunAt        *time.Time `json:"next_run_at"`
	Status           string     `json:"status"`
}
