// Package repository stores the events served by the season backend.
package repository

import (
	"context"
	"time"

	"github.com/okian/eventfacets/internal/domain/model"
)

// Order selects the sort direction of Between.
type Order int

// Sort directions by start day, start time, then name.
const (
	Ascending Order = iota
	Descending
)

// Store provides read/write access to stored events.
type Store interface {
	// Insert stores events and returns how many were written. Events without
	// a parseable start date are rejected with ErrInvalidEvent.
	Insert(ctx context.Context, events ...model.Event) (int, error)

	// Between returns events whose start day lies in [from, to). A zero bound
	// is open.
	Between(ctx context.Context, from, to time.Time, order Order) ([]model.Event, error)

	// Formats returns the distinct non-empty formats, sorted.
	Formats(ctx context.Context) ([]string, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) int

	Close() error
}
