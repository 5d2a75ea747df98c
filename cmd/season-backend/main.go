package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/eventfacets/internal/adapters/http/backend"
	"github.com/okian/eventfacets/internal/adapters/repository"
	"github.com/okian/eventfacets/internal/domain/season"
	"github.com/okian/eventfacets/internal/fixtures"
	"github.com/okian/eventfacets/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr        = ":9090"
	defaultDB          = "events.db"
	defaultHorizon     = 90 * 24 * time.Hour
	defaultSeedTimeout = 5 * time.Minute
	readHeaderTimeout  = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", defaultAddr, "Listen address")
		dbPath   = flag.String("db", defaultDB, "SQLite database path")
		seed     = flag.Int("seed", 0, "Number of events to generate before serving")
		from     = flag.String("from", "", "First event day, YYYY-MM-DD")
		to       = flag.String("to", "", "Last event day, YYYY-MM-DD")
		workers  = flag.Int("workers", runtime.NumCPU(), "Generator workers")
		snapshot = flag.String("snapshot", "", "Write the upcoming events as JSON to this file after seeding")
		logLevel = flag.String("log-level", "info", "Log level")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("season-backend")
	if err := logger.SetLevelString(*logLevel); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.NewSQLiteStore(ctx, *dbPath, repository.WithLogger(log))
	if err != nil {
		log.Fatal(ctx, "failed to open store", logger.String("db", *dbPath), logger.Error(err))
	}
	defer func() { _ = store.Close() }()

	if *seed > 0 {
		cfg, err := seedConfig(*seed, *from, *to, *workers, *snapshot, time.Now())
		if err != nil {
			log.Fatal(ctx, "invalid seed flags", logger.Error(err))
		}
		seedCtx, cancel := context.WithTimeout(ctx, defaultSeedTimeout)
		_, err = fixtures.Seed(seedCtx, store, cfg)
		cancel()
		if err != nil {
			log.Fatal(ctx, "seeding failed", logger.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend.NewServer(store, backend.WithLogger(log)).Router(ctx),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving season backend",
			logger.String("addr", *addr),
			logger.Int("events", store.Count(ctx)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
}

// seedConfig turns the seeding flags into a fixtures config. Empty bounds
// default to the earliest season start and a horizon past today.
func seedConfig(n int, from, to string, workers int, snapshot string, now time.Time) (*fixtures.Config, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cfg := &fixtures.Config{
		NumEvents:    n,
		From:         earliestStart(season.DefaultCalendar()),
		To:           today.Add(defaultHorizon),
		Today:        today,
		Workers:      workers,
		BatchSize:    fixtures.DefaultBatchSize,
		SnapshotFile: snapshot,
	}
	var err error
	if from != "" {
		if cfg.From, err = time.Parse(time.DateOnly, from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if cfg.To, err = time.Parse(time.DateOnly, to); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func earliestStart(cal season.Calendar) time.Time {
	var first time.Time
	for _, r := range cal {
		if first.IsZero() || r.Start.Before(first) {
			first = r.Start
		}
	}
	return first
}
