// Package poll coordinates polling cycles over the watch list: it drives
// the announcement source per company, classifies the results and feeds
// the event log.
package poll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bevakning/internal/domain"
	"bevakning/internal/infra/metrics"
	"bevakning/internal/usecase/classify"
	"bevakning/internal/usecase/events"
	"bevakning/internal/usecase/watchlist"
)

// ErrCycleRunning is returned when a poll trigger arrives while another
// cycle is still in flight. The trigger is rejected, never queued.
var ErrCycleRunning = errors.New("a polling cycle is already running")

// Options tunes the coordinator.
type Options struct {
	Interval time.Duration // scheduler interval, also drives the next-run estimate
	Workers  int           // concurrent source calls, 1 = sequential
	DaysBack int           // default look-back hint for scheduled cycles
	DedupTTL time.Duration // >0 suppresses re-discovered source IDs for that long
	Source   string        // event source literal, defaults to "POIT"
}

// Service runs polling cycles. At most one cycle is in flight at a time;
// the archive, queue and cache collaborators are optional.
type Service struct {
	watch   *watchlist.Service
	store   *events.Store
	source  domain.AnnouncementSource
	archive domain.EventArchive
	queue   domain.EventQueue
	cache   domain.Cache
	log     zerolog.Logger
	opts    Options

	running atomic.Bool

	mu        sync.Mutex
	lastRunAt time.Time
}

// NewService creates the coordinator.
func NewService(watch *watchlist.Service, store *events.Store, source domain.AnnouncementSource, archive domain.EventArchive, queue domain.EventQueue, cache domain.Cache, logger zerolog.Logger, opts Options) *Service {
	if opts.Source == "" {
		opts.Source = "POIT"
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.DaysBack < 1 {
		opts.DaysBack = 1
	}
	return &Service{watch: watch, store: store, source: source, archive: archive, queue: queue, cache: cache, log: logger, opts: opts}
}

// CycleParams narrows a single cycle.
type CycleParams struct {
	Limit    int // cap on companies polled, 0 = all
	DaysBack int // look-back hint forwarded to the source, 0 = configured default
}

// RunCycle runs one polling cycle and blocks until it finishes, returning
// the events discovered by this cycle only. A second caller gets
// ErrCycleRunning while the first one is still going.
func (s *Service) RunCycle(ctx context.Context, params CycleParams) ([]domain.Event, error) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.PollRejected.Inc()
		return nil, ErrCycleRunning
	}
	defer s.running.Store(false)
	return s.cycle(ctx, params), nil
}

// TriggerCycle starts a cycle in the background and returns immediately.
// The guard is taken before the goroutine starts, so a trigger racing a
// running cycle still gets ErrCycleRunning.
func (s *Service) TriggerCycle(ctx context.Context, params CycleParams) error {
	if !s.running.CompareAndSwap(false, true) {
		metrics.PollRejected.Inc()
		return ErrCycleRunning
	}
	go func() {
		defer s.running.Store(false)
		s.cycle(ctx, params)
	}()
	return nil
}

func (s *Service) cycle(ctx context.Context, params CycleParams) []domain.Event {
	start := time.Now()
	daysBack := params.DaysBack
	if daysBack <= 0 {
		daysBack = s.opts.DaysBack
	}

	companies := make([]domain.Company, 0, s.watch.Len())
	for _, company := range s.watch.All() {
		if !company.Active {
			continue
		}
		companies = append(companies, company)
		if params.Limit > 0 && len(companies) == params.Limit {
			break
		}
	}

	s.log.Info().Int("companies", len(companies)).Int("days_back", daysBack).Msg("polling cycle started")

	var (
		mu        sync.Mutex
		newEvents []domain.Event
		failed    int
	)
	process := func(company domain.Company) {
		discovered, err := s.pollCompany(ctx, company, daysBack)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			failed++
			return
		}
		newEvents = append(newEvents, discovered...)
	}

	if s.opts.Workers <= 1 {
		for _, company := range companies {
			process(company)
		}
	} else {
		sem := make(chan struct{}, s.opts.Workers)
		var wg sync.WaitGroup
		for _, company := range companies {
			wg.Add(1)
			sem <- struct{}{}
			go func(c domain.Company) {
				defer wg.Done()
				defer func() { <-sem }()
				process(c)
			}(company)
		}
		wg.Wait()
	}

	s.mu.Lock()
	s.lastRunAt = time.Now()
	s.mu.Unlock()

	metrics.PollCyclesTotal.Inc()
	metrics.PollCycleSeconds.Observe(time.Since(start).Seconds())

	s.log.Info().
		Int("companies", len(companies)).
		Int("failed", failed).
		Int("new_events", len(newEvents)).
		Dur("took", time.Since(start)).
		Msg("polling cycle finished")
	return newEvents
}

// pollCompany searches announcements for one company and records the
// resulting events. A failure here never aborts the cycle.
func (s *Service) pollCompany(ctx context.Context, company domain.Company, daysBack int) ([]domain.Event, error) {
	logger := s.log.With().Str("orgnr", company.Orgnr).Str("company", company.Name).Logger()

	result, err := s.source.Search(ctx, company.Orgnr, daysBack)
	if err != nil {
		metrics.PollCompanyFailures.Inc()
		logger.Warn().Err(err).Msg("announcement search failed")
		return nil, err
	}
	if !result.OK {
		metrics.PollCompanyFailures.Inc()
		logger.Warn().Str("source_error", result.Err).Msg("announcement search rejected")
		return nil, fmt.Errorf("source failure: %s", result.Err)
	}
	logger.Debug().Int("hits", result.Hits).Msg("announcements fetched")

	discovered := make([]domain.Event, 0, len(result.Announcements))
	for _, a := range result.Announcements {
		event := domain.Event{
			ID:           uuid.New(),
			Orgnr:        company.Orgnr,
			CompanyName:  company.Name,
			Type:         classify.Classify(a),
			Headline:     a.Category,
			Description:  a.Summary,
			Source:       s.opts.Source,
			SourceURL:    a.URL,
			SourceID:     a.ID,
			DiscoveredAt: time.Now(),
		}
		if !s.record(ctx, event) {
			continue
		}
		discovered = append(discovered, event)
		logger.Info().Str("event_type", string(event.Type)).Str("headline", event.Headline).Msg("new event")
	}
	return discovered, nil
}

// record appends the event to the log, skipping it when the dedup guard
// has already seen its source ID. Archive and queue failures are logged
// and otherwise ignored.
func (s *Service) record(ctx context.Context, event domain.Event) bool {
	if s.cache != nil && s.opts.DedupTTL > 0 && event.SourceID != "" {
		seen := true
		err := s.cache.Once("poit:seen:"+event.SourceID, s.opts.DedupTTL, func() error {
			seen = false
			s.store.Append(event)
			return nil
		})
		if err != nil {
			// guard unavailable: favor recording over suppression
			s.log.Warn().Err(err).Msg("dedup guard unavailable")
			s.store.Append(event)
		} else if seen {
			return false
		}
	} else {
		s.store.Append(event)
	}

	metrics.IncEventDiscovered(string(event.Type))
	if s.archive != nil {
		if err := s.archive.SaveEvent(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("archive event failed")
		}
	}
	if s.queue != nil {
		if err := s.queue.Publish(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("event_id", event.ID.String()).Msg("publish event failed")
		}
	}
	return true
}

// Status derives the aggregate service status. The next-run estimate is
// lastRunAt plus the configured interval, absent before the first run.
func (s *Service) Status() domain.Status {
	s.mu.Lock()
	lastRun := s.lastRunAt
	s.mu.Unlock()

	status := domain.Status{
		WatchedCompanies: s.watch.Len(),
		EventsToday:      s.store.CountToday(),
		Status:           "OK",
	}
	if !lastRun.IsZero() {
		next := lastRun.Add(s.opts.Interval)
		status.LastRunAt = &lastRun
		status.NextRunAt = &next
	}
	return status
}
