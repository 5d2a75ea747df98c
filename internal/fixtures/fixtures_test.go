package fixtures_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/eventfacets/internal/adapters/repository"
	"github.com/okian/eventfacets/internal/adapters/source"
	"github.com/okian/eventfacets/internal/fixtures"
	"github.com/okian/eventfacets/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	Convey("Given a generator config", t, func() {
		cfg := &fixtures.Config{NumEvents: 250, From: from, To: to, Workers: 4}

		Convey("When generating events", func() {
			events, err := fixtures.Generate(ctx, cfg)

			Convey("Then every event is complete and within range", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 250)
				for _, e := range events {
					day, err := e.Day()
					So(err, ShouldBeNil)
					So(day.Before(from), ShouldBeFalse)
					So(day.After(to), ShouldBeFalse)
					So(e.Format, ShouldNotBeEmpty)
					So(e.Category, ShouldNotBeEmpty)
					So(strings.HasPrefix(e.DetailsURL, "/event/"), ShouldBeTrue)
				}
			})

			Convey("And detail URLs are unique", func() {
				seen := map[string]bool{}
				for _, e := range events {
					seen[e.DetailsURL] = true
				}
				So(len(seen), ShouldEqual, 250)
			})
		})

		Convey("When the range is inverted", func() {
			cfg.From, cfg.To = to, from
			_, err := fixtures.Generate(ctx, cfg)

			Convey("Then ErrInvalidConfig is returned", func() {
				So(errors.Is(err, fixtures.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			cfg.NumEvents = 5000
			_, err := fixtures.Generate(cctx, cfg)

			Convey("Then generation stops with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store, err := repository.NewSQLiteStore(ctx, ":memory:")
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		snapshot := filepath.Join(t.TempDir(), "data", "upcoming.json")
		cfg := &fixtures.Config{
			NumEvents:    120,
			From:         time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:           time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			Today:        time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			Workers:      3,
			BatchSize:    50,
			SnapshotFile: snapshot,
		}

		Convey("When seeding", func() {
			stats, err := fixtures.Seed(ctx, store, cfg)

			Convey("Then every event is stored", func() {
				So(err, ShouldBeNil)
				So(stats.EventsInserted, ShouldEqual, 120)
				So(store.Count(ctx), ShouldEqual, 120)
			})

			Convey("And the snapshot holds the upcoming events as an embedded payload", func() {
				events, err := source.EmbeddedFile{Path: snapshot}.Events()
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, stats.EventsUpcoming)
				for _, e := range events {
					day, _ := e.Day()
					So(day.Before(cfg.Today), ShouldBeFalse)
				}
			})
		})
	})
}
