// Package season models the named partitions of the event list: the sources
// the engine fetches from, their cache slots, and the dated calendar the
// backend uses to cut events into seasons.
package season

import (
	"fmt"
	"slices"
	"sync"

	"github.com/okian/eventfacets/internal/domain/model"
)

// State is the cache state of one season.
type State int

const (
	NotLoaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state for JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Source binds a season name to the URL its events are fetched from.
type Source struct {
	Name string
	URL  string
}

// Entry is the cache slot of one season.
type Entry struct {
	mu     sync.RWMutex
	source Source
	state  State
	events []model.Event
}

// Name returns the season name.
func (e *Entry) Name() string { return e.source.Name }

// URL returns the fetch URL.
func (e *Entry) URL() string { return e.source.URL }

// State returns the current cache state.
func (e *Entry) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Events returns the cached events and whether the entry is loaded.
func (e *Entry) Events() ([]model.Event, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.events, e.state == Loaded
}

// Begin moves a not-loaded entry to Loading. It reports false when the entry
// is already loading or loaded.
func (e *Entry) Begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != NotLoaded {
		return false
	}
	e.state = Loading
	return true
}

// Store records the full event list of a loading entry. A loaded entry is
// never overwritten.
func (e *Entry) Store(events []model.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Loading {
		return fmt.Errorf("%w: %s is %s", ErrNotLoading, e.source.Name, e.state)
	}
	e.events = events
	e.state = Loaded
	return nil
}

// Fail returns a loading entry to NotLoaded so a later load can retry.
func (e *Entry) Fail() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Loading {
		e.state = NotLoaded
	}
}

// Status is a snapshot of one entry.
type Status struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	State  State  `json:"state"`
	Events int    `json:"events"`
}

// Registry holds one Entry per configured season in configuration order.
// The set of seasons is fixed at construction.
type Registry struct {
	order   []string
	entries map[string]*Entry
}

// NewRegistry creates an entry per source; later duplicates of a name are
// ignored.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{entries: make(map[string]*Entry, len(sources))}
	for _, s := range sources {
		if _, ok := r.entries[s.Name]; ok {
			continue
		}
		r.order = append(r.order, s.Name)
		r.entries[s.Name] = &Entry{source: s}
	}
	return r
}

// Names returns the season names in configuration order.
func (r *Registry) Names() []string { return slices.Clone(r.order) }

// Lookup returns the entry for name.
func (r *Registry) Lookup(name string) (*Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeason, name)
	}
	return e, nil
}

// Snapshot reports every entry in order.
func (r *Registry) Snapshot() []Status {
	out := make([]Status, 0, len(r.order))
	for _, name := range r.order {
		e := r.entries[name]
		events, _ := e.Events()
		out = append(out, Status{Name: name, URL: e.URL(), State: e.State(), Events: len(events)})
	}
	return out
}

// LoadedCount returns how many seasons are cached.
func (r *Registry) LoadedCount() int {
	n := 0
	for _, e := range r.entries {
		if e.State() == Loaded {
			n++
		}
	}
	return n
}
