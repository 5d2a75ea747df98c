package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/eventfacets/internal/adapters/repository"
	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func names(events []model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Name
	}
	return out
}

var seed = []model.Event{
	{Name: "Spring Modern", StartDateTime: "2025-03-01T14:00:00", Format: "Modern", Region: "Zurich"},
	{Name: "Winter Legacy", StartDateTime: "2024-12-14T10:00:00+01:00", Format: "Legacy", Region: "Bern"},
	{Name: "Morning Pauper", StartDateTime: "2025-03-01T09:30:00", Format: "Pauper"},
	{Name: "Summer Standard", StartDateTime: "2025-07-19", Format: "Standard"},
	{Name: "Unranked Draft", StartDateTime: "2025-05-03", Format: ""},
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory store with events", t, func() {
		store, err := repository.NewSQLiteStore(ctx, ":memory:")
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()

		n, err := store.Insert(ctx, seed...)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, len(seed))

		Convey("Then every event is counted", func() {
			So(store.Count(ctx), ShouldEqual, 5)
		})

		Convey("When querying without bounds ascending", func() {
			events, err := store.Between(ctx, time.Time{}, time.Time{}, repository.Ascending)

			Convey("Then events come back by day then start time", func() {
				So(err, ShouldBeNil)
				So(names(events), ShouldResemble, []string{
					"Winter Legacy", "Morning Pauper", "Spring Modern", "Unranked Draft", "Summer Standard",
				})
			})

			Convey("And the stored payload round-trips", func() {
				So(events[0].Region, ShouldEqual, "Bern")
				So(events[0].StartDateTime, ShouldEqual, "2024-12-14T10:00:00+01:00")
			})
		})

		Convey("When querying a half-open range descending", func() {
			events, err := store.Between(ctx, day(2025, 1, 1), day(2025, 7, 19), repository.Descending)

			Convey("Then the upper bound is excluded and order is reversed", func() {
				So(err, ShouldBeNil)
				So(names(events), ShouldResemble, []string{"Unranked Draft", "Spring Modern", "Morning Pauper"})
			})
		})

		Convey("When querying from a lower bound only", func() {
			events, err := store.Between(ctx, day(2025, 5, 3), time.Time{}, repository.Ascending)

			Convey("Then the lower bound is included", func() {
				So(err, ShouldBeNil)
				So(names(events), ShouldResemble, []string{"Unranked Draft", "Summer Standard"})
			})
		})

		Convey("When querying an empty range", func() {
			events, err := store.Between(ctx, day(2030, 1, 1), time.Time{}, repository.Ascending)

			Convey("Then an empty, non-nil list is returned", func() {
				So(err, ShouldBeNil)
				So(events, ShouldNotBeNil)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When listing formats", func() {
			formats, err := store.Formats(ctx)

			Convey("Then distinct non-empty formats are sorted", func() {
				So(err, ShouldBeNil)
				So(formats, ShouldResemble, []string{"Legacy", "Modern", "Pauper", "Standard"})
			})
		})

		Convey("When a batch contains an event without a date", func() {
			_, err := store.Insert(ctx,
				model.Event{Name: "Dated", StartDateTime: "2025-09-01"},
				model.Event{Name: "Undated"},
			)

			Convey("Then the whole batch is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidEvent), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 5)
			})
		})

		Convey("When inserting nothing", func() {
			n, err := store.Insert(ctx)

			Convey("Then nothing happens", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a file-backed store", t, func() {
		path := filepath.Join(t.TempDir(), "events.db")
		store, err := repository.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		_, err = store.Insert(ctx, seed[0])
		So(err, ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("When it is reopened", func() {
			again, err := repository.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer func() { _ = again.Close() }()

			Convey("Then migrations are not reapplied and data survives", func() {
				So(again.Count(ctx), ShouldEqual, 1)
			})
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := repository.NewSQLiteStore(ctx, "  ")

		Convey("Then ErrInvalidPath is returned", func() {
			So(errors.Is(err, repository.ErrInvalidPath), ShouldBeTrue)
		})
	})
}
