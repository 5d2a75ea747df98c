package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/okian/eventfacets/internal/domain/model"
)

// Mux dispatches a fetch to the Fetcher registered for the URL scheme.
type Mux struct {
	schemes map[string]Fetcher
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{schemes: make(map[string]Fetcher)}
}

// Handle registers f for scheme, replacing any previous registration.
func (m *Mux) Handle(scheme string, f Fetcher) *Mux {
	m.schemes[strings.ToLower(scheme)] = f
	return m
}

// Fetch implements Fetcher.
func (m *Mux) Fetch(ctx context.Context, rawURL string) ([]model.Event, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheme, err)
	}
	f, ok := m.schemes[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrScheme, u.Scheme)
	}
	return f.Fetch(ctx, rawURL)
}
