package season_test

import (
	"errors"
	"testing"

	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/internal/domain/season"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given a registry with two seasons", t, func() {
		r := season.NewRegistry(
			season.Source{Name: "Upcoming", URL: "http://x/api/future-events/"},
			season.Source{Name: "Season 2025", URL: "http://x/api/past-events/2025/"},
			season.Source{Name: "Upcoming", URL: "http://ignored/"},
		)

		Convey("Then names keep configuration order without duplicates", func() {
			So(r.Names(), ShouldResemble, []string{"Upcoming", "Season 2025"})
		})

		Convey("Then every entry starts not loaded", func() {
			for _, st := range r.Snapshot() {
				So(st.State, ShouldEqual, season.NotLoaded)
				So(st.Events, ShouldEqual, 0)
			}
			So(r.LoadedCount(), ShouldEqual, 0)
		})

		Convey("When looking up an unconfigured season", func() {
			_, err := r.Lookup("Season 1999")
			So(errors.Is(err, season.ErrUnknownSeason), ShouldBeTrue)
		})

		Convey("When an entry goes through a successful load", func() {
			e, err := r.Lookup("Upcoming")
			So(err, ShouldBeNil)
			So(e.URL(), ShouldEqual, "http://x/api/future-events/")

			So(e.Begin(), ShouldBeTrue)
			So(e.State(), ShouldEqual, season.Loading)
			So(e.Begin(), ShouldBeFalse)

			So(e.Store([]model.Event{{Name: "a"}, {Name: "b"}}), ShouldBeNil)

			Convey("Then it is loaded and keeps its events", func() {
				events, ok := e.Events()
				So(ok, ShouldBeTrue)
				So(len(events), ShouldEqual, 2)
				So(r.LoadedCount(), ShouldEqual, 1)
			})

			Convey("And it cannot be loaded or stored again", func() {
				So(e.Begin(), ShouldBeFalse)
				err := e.Store([]model.Event{{Name: "c"}})
				So(errors.Is(err, season.ErrNotLoading), ShouldBeTrue)
				events, _ := e.Events()
				So(len(events), ShouldEqual, 2)
			})

			Convey("And a failure does not evict it", func() {
				e.Fail()
				So(e.State(), ShouldEqual, season.Loaded)
			})
		})

		Convey("When a load fails", func() {
			e, _ := r.Lookup("Season 2025")
			So(e.Begin(), ShouldBeTrue)
			e.Fail()

			Convey("Then the entry can be retried", func() {
				So(e.State(), ShouldEqual, season.NotLoaded)
				So(e.Begin(), ShouldBeTrue)
			})
		})
	})
}

func TestState_String(t *testing.T) {
	Convey("Given the cache states", t, func() {
		So(season.NotLoaded.String(), ShouldEqual, "not_loaded")
		So(season.Loading.String(), ShouldEqual, "loading")
		So(season.Loaded.String(), ShouldEqual, "loaded")
		So(season.State(9).String(), ShouldEqual, "state(9)")
	})
}
