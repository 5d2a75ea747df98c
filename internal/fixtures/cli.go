package fixtures

import "os"

// ShowHelp prints usage information for the season backend.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Season Backend
==============

Serves league events the way the league site publishes them, backed by a
SQLite store that can be seeded with generated events.

Usage:
  go run ./cmd/season-backend [options]

Options:
  -addr string
        Listen address (default ":9090")
  -db string
        SQLite database path (default "events.db", ":memory:" for throwaway)
  -seed int
        Number of events to generate before serving (default 0)
  -from string
        First event day, YYYY-MM-DD (default: start of the earliest season)
  -to string
        Last event day, YYYY-MM-DD (default: 90 days from today)
  -workers int
        Generator workers (default CPU cores)
  -snapshot string
        Write the upcoming events as JSON to this file after seeding
  -log-level string
        debug, info, warn or error (default "info")
  -help
        Show this help message

Examples:
  # Seed a fresh in-memory store and serve it
  go run ./cmd/season-backend -db :memory: -seed 1000

  # Seed and write the embedded fast-path payload for the engine
  go run ./cmd/season-backend -seed 600 -snapshot data/upcoming.json
`)
}
