package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/eventfacets/internal/domain/model"
)

// HTTPFetcher fetches events with a plain GET.
type HTTPFetcher struct {
	client *http.Client
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout bounds every request. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			c := *f.client
			c.Timeout = d
			f.client = &c
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher using http.DefaultClient unless
// configured otherwise.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{client: http.DefaultClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues GET url and decodes the JSON array body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]model.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: get %s: %s", ErrStatus, url, resp.Status)
	}
	return Decode(resp.Body)
}
