package fixtures

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/pkg/logger"
)

// randomIndex returns a uniform index in [0, n) using crypto/rand.
func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// randomFloat returns a random float64 between 0.0 and 1.0.
func randomFloat() float64 {
	return float64(randomIndex(randomDivisor)) / float64(randomDivisor)
}

// Generate creates cfg.NumEvents events spread over [cfg.From, cfg.To].
func Generate(ctx context.Context, cfg *Config) ([]model.Event, error) {
	if cfg.NumEvents <= 0 {
		return []model.Event{}, nil
	}
	if !cfg.From.Before(cfg.To) {
		return nil, fmt.Errorf("%w: from %s is not before to %s", ErrInvalidConfig,
			cfg.From.Format(time.DateOnly), cfg.To.Format(time.DateOnly))
	}
	logger.Get().Info(ctx, "generating events", logger.Int("numEvents", cfg.NumEvents))

	type eventResult struct {
		index int
		event model.Event
		err   error
	}

	events := make([]model.Event, cfg.NumEvents)
	resultChan := make(chan eventResult, cfg.NumEvents)

	workerCount := min(max(cfg.Workers, 1), cfg.NumEvents)
	perWorker := cfg.NumEvents / workerCount
	span := cfg.To.Sub(cfg.From)

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = cfg.NumEvents
		}
		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- eventResult{index: i, err: ctx.Err()}
					return
				default:
					day := cfg.From.Add(time.Duration(randomFloat() * float64(span)))
					resultChan <- eventResult{index: i, event: generateSingleEvent(day)}
				}
			}
		}(start, end)
	}

	for i := 0; i < cfg.NumEvents; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during event generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate event %d: %w", result.index, result.err)
			}
			events[result.index] = result.event
		}
	}

	logger.Get().Info(ctx, "generated events", logger.Int("count", len(events)))
	return events, nil
}

// generateSingleEvent builds one event on the calendar day of day.
func generateSingleEvent(day time.Time) model.Event {
	org := organizers[randomIndex(len(organizers))]
	format := formats[randomIndex(len(formats))]
	category := categories[randomIndex(len(categories))]

	clock, _ := time.Parse("15:04", startTimes[randomIndex(len(startTimes))])
	y, m, d := day.Date()
	start := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	end := start.Add(eventLength)

	name := org.Name + " " + format
	if category != "Regular" {
		name += " " + category + " Qualifier"
	}

	e := model.Event{
		Name:          name,
		Date:          start.Format("Mon, 02.01.2006"),
		Time:          start.Format("15:04"),
		StartDateTime: start.Format("2006-01-02T15:04:05"),
		EndDateTime:   end.Format("2006-01-02T15:04:05"),
		Organizer:     org.Name,
		Format:        format,
		LocationName:  org.Location,
		ShortAddress:  org.Address,
		Region:        org.Region,
		Category:      category,
		DetailsURL:    "/event/" + uuid.NewString() + "/",
		OrganizerURL:  "/organizer/" + org.Slug + "/",
		IconURL:       "/static/types/icons/" + strings.ToLower(category) + ".png",
	}
	if org.Address != "" {
		e.SEOAddress = org.Location + ", " + org.Address + ", Switzerland"
	}
	return e
}
