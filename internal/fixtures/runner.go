package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/eventfacets/internal/adapters/repository"
	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/pkg/logger"
)

// Seed generates events, writes them to store in batches, verifies the
// store grew accordingly and optionally writes the upcoming snapshot.
func Seed(ctx context.Context, store repository.Store, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	before := store.Count(ctx)

	logger.Get().Info(ctx, "starting seed",
		logger.Int("events", cfg.NumEvents),
		logger.String("from", cfg.From.Format(time.DateOnly)),
		logger.String("to", cfg.To.Format(time.DateOnly)),
		logger.Int("workers", cfg.Workers),
		logger.String("snapshot", cfg.SnapshotFile))

	// Step 1: Generate events
	events, err := Generate(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("event generation failed: %w", err)
	}
	stats.EventsGenerated = len(events)

	// Step 2: Insert in batches
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	for start := 0; start < len(events); start += batch {
		end := min(start+batch, len(events))
		n, err := store.Insert(ctx, events[start:end]...)
		if err != nil {
			return nil, fmt.Errorf("insert batch at %d: %w", start, err)
		}
		stats.EventsInserted += n
	}

	// Step 3: Verify
	stats.StoreTotal = store.Count(ctx)
	if stats.StoreTotal != before+stats.EventsInserted {
		return nil, fmt.Errorf("%w: store has %d events, expected %d",
			ErrVerify, stats.StoreTotal, before+stats.EventsInserted)
	}

	// Step 4: Snapshot of the upcoming list
	if cfg.SnapshotFile != "" {
		upcoming, err := store.Between(ctx, cfg.Today, time.Time{}, repository.Ascending)
		if err != nil {
			return nil, fmt.Errorf("load upcoming events: %w", err)
		}
		if err := WriteSnapshot(cfg.SnapshotFile, upcoming); err != nil {
			return nil, err
		}
		stats.EventsUpcoming = len(upcoming)
		stats.SnapshotFile = cfg.SnapshotFile
		logger.Get().Info(ctx, "snapshot written",
			logger.String("filename", cfg.SnapshotFile),
			logger.Int("events", len(upcoming)))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// WriteSnapshot writes events as a JSON array, creating parent directories.
func WriteSnapshot(filename string, events []model.Event) error {
	if events == nil {
		events = []model.Event{}
	}
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// displayFinalStats logs the seeding statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var eventsPerSecond float64
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsInserted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("eventsInserted", stats.EventsInserted),
		logger.Int("eventsUpcoming", stats.EventsUpcoming),
		logger.Int("storeTotal", stats.StoreTotal),
		logger.Duration("duration", stats.Duration),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
