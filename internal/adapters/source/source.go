// Package source retrieves season event lists from the places they are
// published: the season backend over HTTP, object storage, and the snapshot
// embedded in the events page.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/okian/eventfacets/internal/domain/model"
)

// Fetcher retrieves the full event list published at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]model.Event, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]model.Event, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]model.Event, error) {
	return f(ctx, url)
}

// Decode reads a JSON array of events. A JSON null decodes to an empty list.
// Anything but whitespace after the value is an error.
func Decode(r io.Reader) ([]model.Event, error) {
	var events []model.Event
	dec := json.NewDecoder(r)
	if err := dec.Decode(&events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after event list", ErrDecode)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}
