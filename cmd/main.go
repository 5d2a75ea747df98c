package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/eventfacets/internal/adapters/http/api"
	"github.com/okian/eventfacets/internal/adapters/http/swagger"
	"github.com/okian/eventfacets/internal/adapters/source"
	engine "github.com/okian/eventfacets/internal/app"
	"github.com/okian/eventfacets/internal/config"
	"github.com/okian/eventfacets/pkg/logger"
	"github.com/okian/eventfacets/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	engineMetricsInterval     = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Keep /metrics limited to the engine's own series.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't configured yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	eng, err := buildEngine(ctx, cfg, log)
	if err != nil {
		log.Fatal(ctx, "failed to build engine", logger.Error(err))
	}

	// The first load decides whether the service can start: a malformed
	// embedded payload or an unreachable default season is fatal.
	if err := eng.LoadSeason(ctx, cfg.DefaultSeason); err != nil {
		log.Fatal(ctx, "initial season load failed",
			logger.String("season", cfg.DefaultSeason),
			logger.Error(err))
	}

	go startSystemMetricsUpdater(ctx)
	go startEngineMetricsUpdater(ctx, eng)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, cfg, eng),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("season", eng.CurrentSeason()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}

// buildEngine wires configuration into an engine and its season sources.
func buildEngine(ctx context.Context, cfg *config.Config, log logger.Logger) (*engine.Engine, error) {
	sources, err := cfg.SeasonSources()
	if err != nil {
		return nil, err
	}

	mux := source.NewMux()
	httpFetcher := source.NewHTTPFetcher(source.WithTimeout(cfg.FetchTimeout()))
	mux.Handle("http", httpFetcher).Handle("https", httpFetcher)

	for _, s := range sources {
		u, err := url.Parse(s.URL)
		if err != nil || u.Scheme != "s3" {
			continue
		}
		s3Fetcher, err := source.NewS3Fetcher(ctx, source.S3Config{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		mux.Handle("s3", s3Fetcher)
		break
	}

	opts := []engine.Option{
		engine.WithLogger(log.Named("engine")),
		engine.WithSeasons(sources...),
		engine.WithDefaultSeason(cfg.DefaultSeason),
		engine.WithFacets(cfg.FacetDefinitions()...),
		engine.WithFetcher(mux),
	}
	if cfg.EmbeddedPath != "" {
		opts = append(opts, engine.WithEmbedded(source.EmbeddedFile{Path: cfg.EmbeddedPath}))
	}
	return engine.New(opts...), nil
}

// newRouter mounts the API and its documentation.
func newRouter(ctx context.Context, cfg *config.Config, eng *engine.Engine) chi.Router {
	r := api.NewServer(eng, eng, api.WithCORSOrigins(cfg.CORSOrigins...)).Router(ctx)
	swagger.Register(ctx, r)
	return r
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startEngineMetricsUpdater refreshes the engine gauges periodically.
func startEngineMetricsUpdater(ctx context.Context, eng *engine.Engine) {
	ticker := time.NewTicker(engineMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the cached season gauge as a side effect.
			_ = eng.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
