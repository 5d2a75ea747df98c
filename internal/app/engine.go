// Package engine owns the faceted filter state of the events page: the
// per-season event cache, the facet selections and the displayed list.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/eventfacets/internal/adapters/source"
	"github.com/okian/eventfacets/internal/domain/facet"
	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/internal/domain/season"
	"github.com/okian/eventfacets/pkg/logger"
	"github.com/okian/eventfacets/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Engine is the single filter engine of a process.
type Engine struct {
	// mu guards filter, current, displayed, displayedSeason and embeddedUsed.
	// It is never held across a fetch. current is the season last requested;
	// displayedSeason trails it until that season's events arrive.
	mu              sync.Mutex
	filter          *facet.Filter
	current         string
	displayed       []model.Event
	displayedSeason string
	embeddedUsed    bool

	seasons *season.Registry
	loads   singleflight.Group

	// Configuration
	defs          []facet.Definition
	sources       []season.Source
	defaultSeason string
	fetcher       source.Fetcher
	embedded      source.Embedded

	logger logger.Logger
}

// Listing is the displayed season with the visibility of each event, read
// under one lock. Season names the season the events belong to, which lags
// CurrentSeason while a fetch is in flight. Shown[i] belongs to Events[i].
type Listing struct {
	Season  string
	Events  []model.Event
	Shown   []bool
	Visible int
}

// SeasonStatus describes one configured season.
type SeasonStatus struct {
	season.Status
	Current bool `json:"current"`
}

// New constructs an Engine. The current season starts as the default season
// with nothing displayed; call LoadSeason to populate it.
func New(opts ...Option) *Engine {
	e := &Engine{
		defs:    facet.Defaults(),
		fetcher: source.NewHTTPFetcher(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}
	if e.defaultSeason == "" && len(e.sources) > 0 {
		e.defaultSeason = e.sources[0].Name
	}

	e.filter = facet.NewFilter(e.defs...)
	e.seasons = season.NewRegistry(e.sources...)
	e.current = e.defaultSeason
	return e
}

// LoadSeason makes name the current season and displays its events, fetching
// them on first use. An empty name reloads the current season.
//
// Cached seasons are never refetched. A fetch that completes after the user
// moved to another season still fills the cache but leaves the display alone.
// Concurrent loads of the same uncached season share one fetch.
func (e *Engine) LoadSeason(ctx context.Context, name string) error {
	if name == "" {
		name = e.CurrentSeason()
	}
	entry, err := e.seasons.Lookup(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.current = name
	events, cached := entry.Events()
	if cached {
		e.updateLocked(events)
	}
	e.mu.Unlock()

	if cached {
		e.recordLoad(name, metrics.OutcomeCacheHit)
		return nil
	}

	_, err, shared := e.loads.Do(name, func() (interface{}, error) {
		return nil, e.populate(ctx, entry)
	})
	if shared {
		e.logger.Debug(ctx, "joined in-flight season load", logger.String("season", name))
	}
	return err
}

// populate fills an uncached entry from the embedded payload or the fetcher.
// It runs at most once at a time per season.
func (e *Engine) populate(ctx context.Context, entry *season.Entry) error {
	name := entry.Name()

	if events, ok := entry.Events(); ok {
		e.recordLoad(name, metrics.OutcomeCacheHit)
		e.apply(name, events)
		return nil
	}
	if !entry.Begin() {
		return fmt.Errorf("%w: %s: %w", ErrFetch, name, season.ErrNotLoading)
	}

	if e.takeEmbedded(name) {
		events, err := e.embedded.Events()
		if err != nil {
			entry.Fail()
			e.recordLoad(name, metrics.OutcomeError)
			metrics.RecordErrorByComponent("engine", "embedded")
			return fmt.Errorf("%w: %w", ErrEmbedded, err)
		}
		if err := entry.Store(events); err != nil {
			return err
		}
		e.logger.Info(ctx, "season loaded from embedded data",
			logger.String("season", name),
			logger.Int("events", len(events)),
		)
		e.recordLoad(name, metrics.OutcomeEmbedded)
		e.afterStore(name, events)
		return nil
	}

	start := time.Now()
	events, err := e.fetcher.Fetch(ctx, entry.URL())
	metrics.RecordFetchLatency(name, float64(time.Since(start).Milliseconds()))
	if err != nil {
		entry.Fail()
		e.logger.Error(ctx, "failed to fetch season",
			logger.String("season", name),
			logger.String("url", entry.URL()),
			logger.Error(err),
		)
		e.recordLoad(name, metrics.OutcomeError)
		metrics.RecordErrorByComponent("engine", errorType(err))
		return fmt.Errorf("%w: %s: %w", ErrFetch, name, err)
	}
	if events == nil {
		events = []model.Event{}
	}
	if err := entry.Store(events); err != nil {
		return err
	}

	e.logger.Info(ctx, "season fetched",
		logger.String("season", name),
		logger.Int("events", len(events)),
		logger.Duration("took", time.Since(start)),
	)
	e.recordLoad(name, metrics.OutcomeFetched)
	e.afterStore(name, events)
	return nil
}

// takeEmbedded reports whether the embedded payload should serve name. The
// payload is consumed by the first attempt whether or not it parses.
func (e *Engine) takeEmbedded(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.embedded == nil || e.embeddedUsed || name != e.defaultSeason {
		return false
	}
	e.embeddedUsed = true
	return true
}

func (e *Engine) afterStore(name string, events []model.Event) {
	metrics.UpdateCachedSeasons(e.seasons.LoadedCount())
	if !e.apply(name, events) {
		e.logger.Debug(context.Background(), "season cached but no longer current",
			logger.String("season", name),
		)
	}
}

// apply displays events if name is still the current season.
func (e *Engine) apply(name string, events []model.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current != name {
		return false
	}
	e.updateLocked(events)
	return true
}

// Update replaces the displayed list and folds its facet values into the
// selections.
func (e *Engine) Update(events []model.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updateLocked(events)
}

func (e *Engine) updateLocked(events []model.Event) {
	e.displayed = events
	e.displayedSeason = e.current
	e.filter.Update(events)
	e.observeLocked()
}

func (e *Engine) observeLocked() {
	for _, v := range e.filter.Views() {
		metrics.UpdateFacetValues(v.Label, len(v.Values))
	}
	metrics.UpdateDisplayedEvents(len(e.displayed))
	metrics.UpdateVisibleEvents(e.countVisibleLocked())
}

func (e *Engine) countVisibleLocked() int {
	n := 0
	for _, ev := range e.displayed {
		if e.filter.ShouldShow(ev) {
			n++
		}
	}
	return n
}

// ShouldShow reports whether ev passes every facet selection.
func (e *Engine) ShouldShow(ev model.Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.ShouldShow(ev)
}

// Displayed returns a copy of the current season's events.
func (e *Engine) Displayed() []model.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.displayed)
}

// Visible returns the displayed events that pass the filter, in order.
func (e *Engine) Visible() []model.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Event, 0, len(e.displayed))
	for _, ev := range e.displayed {
		if e.filter.ShouldShow(ev) {
			out = append(out, ev)
		}
	}
	return out
}

// Listing snapshots the current season, its displayed events and their
// visibility together.
func (e *Engine) Listing() Listing {
	e.mu.Lock()
	defer e.mu.Unlock()
	l := Listing{
		Season: e.displayedSeason,
		Events: slices.Clone(e.displayed),
		Shown:  make([]bool, len(e.displayed)),
	}
	for i, ev := range e.displayed {
		if e.filter.ShouldShow(ev) {
			l.Shown[i] = true
			l.Visible++
		}
	}
	return l
}

// ToggleAll clears every selection of the facet at index so that the facet
// no longer restricts visibility.
func (e *Engine) ToggleAll(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.filter.ToggleAll(index); err != nil {
		return err
	}
	metrics.RecordSelectionChange(e.defs[index].Label, "clear")
	metrics.UpdateVisibleEvents(e.countVisibleLocked())
	return nil
}

// Select sets one value of the facet at index.
func (e *Engine) Select(index int, value string, selected bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.filter.Select(index, value, selected); err != nil {
		return err
	}
	action := "deselect"
	if selected {
		action = "select"
	}
	metrics.RecordSelectionChange(e.defs[index].Label, action)
	metrics.UpdateVisibleEvents(e.countVisibleLocked())
	return nil
}

// ResetFilters forgets every discovered value and rediscovers those of the
// displayed list, all deselected.
func (e *Engine) ResetFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter.Reset()
	e.filter.Update(e.displayed)
	e.observeLocked()
	for _, d := range e.defs {
		metrics.RecordSelectionChange(d.Label, "reset")
	}
}

// Facets snapshots every facet in definition order.
func (e *Engine) Facets() []facet.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Views()
}

// Seasons reports every configured season in order.
func (e *Engine) Seasons() []SeasonStatus {
	current := e.CurrentSeason()
	snap := e.seasons.Snapshot()
	out := make([]SeasonStatus, len(snap))
	for i, s := range snap {
		out[i] = SeasonStatus{Status: s, Current: s.Name == current}
	}
	return out
}

// CurrentSeason returns the season most recently requested.
func (e *Engine) CurrentSeason() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// DefaultSeason returns the season eligible for the embedded fast path.
func (e *Engine) DefaultSeason() string { return e.defaultSeason }

// GetStats returns engine statistics for monitoring.
func (e *Engine) GetStats() map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	facetValues := make(map[string]int, len(e.defs))
	for _, v := range e.filter.Views() {
		facetValues[v.Label] = len(v.Values)
	}
	loaded := e.seasons.LoadedCount()
	metrics.UpdateCachedSeasons(loaded)

	return map[string]interface{}{
		"currentSeason":   e.current,
		"defaultSeason":   e.defaultSeason,
		"seasons":         len(e.seasons.Names()),
		"cachedSeasons":   loaded,
		"displayedEvents": len(e.displayed),
		"visibleEvents":   e.countVisibleLocked(),
		"facetValues":     facetValues,
	}
}

func (e *Engine) recordLoad(name, outcome string) {
	if err := metrics.RecordSeasonLoad(name, outcome); err != nil {
		e.logger.Warn(context.Background(), "failed to record season load", logger.Error(err))
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.Is(err, source.ErrStatus):
		return "status"
	case errors.Is(err, source.ErrDecode):
		return "decode"
	case errors.Is(err, source.ErrScheme):
		return "scheme"
	default:
		return "transport"
	}
}
