// Package fixtures generates plausible league events and seeds them into an
// event store for local development of the season backend.
package fixtures

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	NumEvents    int       // Number of events to generate
	From         time.Time // First possible event day
	To           time.Time // Last possible event day
	Today        time.Time // Split between upcoming and past events
	Workers      int       // Concurrent generator workers
	BatchSize    int       // Events per insert transaction
	SnapshotFile string    // Where to write the upcoming events; empty skips it
}

// Stats holds seeding statistics.
type Stats struct {
	EventsGenerated int
	EventsInserted  int
	EventsUpcoming  int
	StoreTotal      int
	SnapshotFile    string
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
