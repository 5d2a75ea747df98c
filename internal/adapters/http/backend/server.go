// Package backend serves stored events the way the league site publishes
// them: upcoming events, past events per season, and the events page with
// the upcoming list embedded for the fast path.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/okian/eventfacets/internal/adapters/http/api"
	"github.com/okian/eventfacets/internal/adapters/repository"
	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/internal/domain/season"
	"github.com/okian/eventfacets/pkg/logger"
	"github.com/okian/eventfacets/pkg/metrics"
)

// Server exposes a repository.Store over the league site's event endpoints.
type Server struct {
	store    repository.Store
	calendar season.Calendar
	now      func() time.Time
	logger   logger.Logger
}

// NewServer creates a backend over store.
func NewServer(store repository.Store, opts ...Option) *Server {
	s := &Server{
		store:    store,
		calendar: season.DefaultCalendar(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("backend")
	}
	return s
}

// Router returns a chi router with every backend route registered.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(api.MetricsMiddleware)
	s.Register(ctx, r)
	return r
}

// Register attaches the backend routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/api/future-events/", s.handleFuture)
	r.Get("/api/past-events/{slug}/", s.handlePast)
	r.Get("/api/formats/", s.handleFormats)
	r.Get("/events", s.handlePage)
}

func (s *Server) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Upcoming returns events starting today or later, soonest first.
func (s *Server) Upcoming(ctx context.Context) ([]model.Event, error) {
	return s.query(ctx, "future-events", s.today(), time.Time{}, repository.Ascending)
}

// Past returns the events of the season with the given slug that started
// before today, most recent first.
func (s *Server) Past(ctx context.Context, slug string) ([]model.Event, error) {
	r, err := s.calendar.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	to := r.End.AddDate(0, 0, 1)
	if today := s.today(); today.Before(to) {
		to = today
	}
	if !r.Start.Before(to) {
		return []model.Event{}, nil
	}
	return s.query(ctx, "past-events", r.Start, to, repository.Descending)
}

func (s *Server) query(ctx context.Context, endpoint string, from, to time.Time, order repository.Order) ([]model.Event, error) {
	start := time.Now()
	events, err := s.store.Between(ctx, from, to, order)
	metrics.RecordBackendQuery(endpoint, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordErrorByComponent("backend", "query")
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return events, nil
}

func (s *Server) handleFuture(w http.ResponseWriter, r *http.Request) {
	events, err := s.Upcoming(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handlePast(w http.ResponseWriter, r *http.Request) {
	events, err := s.Past(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	formats, err := s.store.Formats(r.Context())
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %w", ErrQuery, err))
		return
	}
	writeJSON(w, http.StatusOK, formats)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	events, err := s.Upcoming(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderPage(w, events, s.calendar.Visible()); err != nil {
		s.logger.Error(r.Context(), "render events page", logger.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, season.ErrUnknownSeason) {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": err.Error()})
		return
	}
	s.logger.Error(r.Context(), "backend request failed",
		logger.String("path", r.URL.Path),
		logger.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"code": "internal_error", "message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
