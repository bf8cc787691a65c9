// Package httpapi serves the watch service's REST surface.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"bevakning/internal/domain"
	"bevakning/internal/usecase/events"
	"bevakning/internal/usecase/poll"
	"bevakning/internal/usecase/watchlist"
)

// Server wires the usecases into chi handlers.
type Server struct {
	appCtx context.Context
	watch  *watchlist.Service
	poller *poll.Service
	store  *events.Store
	log    zerolog.Logger
}

// NewServer creates the API server. appCtx bounds background polling
// cycles, so they stop with the process rather than with the request.
func NewServer(appCtx context.Context, watch *watchlist.Service, poller *poll.Service, store *events.Store, logger zerolog.Logger) *Server {
	return &Server{appCtx: appCtx, watch: watch, poller: poller, store: store, log: logger}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type eventTypeResponse struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

type pollAccepted struct {
	Message   string    `json:"message"`
	DaysBack  int       `json:"days_back"`
	Timestamp time.Time `json:"timestamp"`
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/status", s.handleStatus)
		api.Get("/entities", s.handleListEntities)
		api.Get("/entities/{orgnr}", s.handleGetEntity)
		api.Get("/entities/{orgnr}/events", s.handleEntityEvents)
		api.Get("/events", s.handleListEvents)
		api.Get("/events/types", s.handleEventTypes)
		api.Post("/poll", s.handlePoll)
		api.Post("/poll/sync", s.handlePollSync)
	})
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name": "bevakning",
		"api":  "/api/v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.poller.Status())
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100, 1, 1000)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	companies := s.watch.All()
	if offset > len(companies) {
		offset = len(companies)
	}
	end := offset + limit
	if end > len(companies) {
		end = len(companies)
	}
	writeJSON(w, http.StatusOK, companies[offset:end])
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	orgnr := chi.URLParam(r, "orgnr")
	company, err := s.watch.Get(orgnr)
	if err != nil {
		writeError(w, http.StatusNotFound, "entity_not_found", "company "+orgnr+" is not watched")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleEntityEvents(w http.ResponseWriter, r *http.Request) {
	orgnr := chi.URLParam(r, "orgnr")
	if !s.watch.Contains(orgnr) {
		writeError(w, http.StatusNotFound, "entity_not_found", "company "+orgnr+" is not watched")
		return
	}
	matched := s.store.Query(events.Filter{Orgnr: watchlist.Normalize(orgnr)})
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100, 1, 1000)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	filter := events.Filter{}
	if raw := r.URL.Query().Get("eventType"); raw != "" {
		eventType := domain.EventType(raw)
		if !eventType.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown event type "+raw)
			return
		}
		filter.Type = eventType
	}
	if raw := r.URL.Query().Get("fromDate"); raw != "" {
		since, err := parseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "fromDate must be RFC3339 or YYYY-MM-DD")
			return
		}
		filter.Since = since
	}

	matched := s.store.Query(filter)
	if len(matched) > limit {
		matched = matched[:limit]
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) handleEventTypes(w http.ResponseWriter, r *http.Request) {
	types := make([]eventTypeResponse, 0, len(domain.EventTypes()))
	for _, t := range domain.EventTypes() {
		types = append(types, eventTypeResponse{Value: string(t), Name: t.Name()})
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	daysBack, err := queryInt(r, "daysBack", 1, 1, 30)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := s.poller.TriggerCycle(s.appCtx, poll.CycleParams{DaysBack: daysBack}); err != nil {
		if errors.Is(err, poll.ErrCycleRunning) {
			writeError(w, http.StatusConflict, "cycle_running", err.Error())
			return
		}
		s.log.Error().Err(err).Msg("poll trigger failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to start polling cycle")
		return
	}
	writeJSON(w, http.StatusAccepted, pollAccepted{
		Message:   "polling cycle started",
		DaysBack:  daysBack,
		Timestamp: time.Now(),
	})
}

func (s *Server) handlePollSync(w http.ResponseWriter, r *http.Request) {
	daysBack, err := queryInt(r, "daysBack", 1, 1, 7)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	// runs on the app context: a dropped client must not cancel the cycle
	newEvents, err := s.poller.RunCycle(s.appCtx, poll.CycleParams{DaysBack: daysBack})
	if err != nil {
		if errors.Is(err, poll.ErrCycleRunning) {
			writeError(w, http.StatusConflict, "cycle_running", err.Error())
			return
		}
		s.log.Error().Err(err).Msg("sync poll failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "polling cycle failed")
		return
	}
	if newEvents == nil {
		newEvents = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, newEvents)
}

func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	if value < min || value > max {
		return 0, errors.New(name + " must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max))
	}
	return value, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, Code: code})
}
