// Package api exposes the filter engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	engine "github.com/okian/eventfacets/internal/app"
	"github.com/okian/eventfacets/internal/domain/facet"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the engine implementation.
type Dependencies interface {
	LoadSeason(ctx context.Context, name string) error
	Seasons() []engine.SeasonStatus
	Listing() engine.Listing

	Facets() []facet.View
	ToggleAll(index int) error
	Select(index int, value string, selected bool) error
	ResetFilters()
}

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	seasonsHandler *SeasonsHandler
	eventsHandler  *EventsHandler
	facetsHandler  *FacetsHandler

	corsOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins sets the origins allowed to call the API.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		seasonsHandler: NewSeasonsHandler(deps),
		eventsHandler:  NewEventsHandler(deps),
		facetsHandler:  NewFacetsHandler(deps, validator.New()),
		corsOrigins:    []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns a chi router with the standard middleware stack and every
// API route registered.
func (s *Server) Router(ctx context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)
	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/seasons", func(r chi.Router) {
		r.Get("/", s.seasonsHandler.HandleList)
		r.Post("/{name}/load", s.seasonsHandler.HandleLoad)
	})

	r.Get("/events", s.eventsHandler.HandleList)

	r.Route("/facets", func(r chi.Router) {
		r.Get("/", s.facetsHandler.HandleList)
		r.Post("/reset", s.facetsHandler.HandleReset)
		r.Post("/{index}/clear", s.facetsHandler.HandleClear)
		r.Put("/{index}/values/{value}", s.facetsHandler.HandleSelect)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// pathParam returns the decoded route parameter key. chi matches on
// RawPath when the request has one, and only then are params still escaped.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

// writeEngineError translates an engine error kind into a response.
func writeEngineError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
