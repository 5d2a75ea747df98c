package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/eventfacets/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvent_Decode(t *testing.T) {
	convey.Convey("Given a backend event payload", t, func() {
		payload := `{
			"name": "Modern Monday",
			"date": "Mon, 03.03.2025",
			"startDateTime": "2025-03-03T19:00:00",
			"organizer": "Card Lair",
			"format": "Modern",
			"region": null,
			"category": "SUL Regular"
		}`

		convey.Convey("When decoding it", func() {
			var e model.Event
			err := json.Unmarshal([]byte(payload), &e)

			convey.Convey("Then known fields are populated and null becomes empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(e.Name, convey.ShouldEqual, "Modern Monday")
				convey.So(e.Format, convey.ShouldEqual, "Modern")
				convey.So(e.Category, convey.ShouldEqual, "SUL Regular")
				convey.So(e.Region, convey.ShouldEqual, "")
			})
		})
	})
}

func TestEvent_Field(t *testing.T) {
	convey.Convey("Given an event", t, func() {
		e := model.Event{Format: "Legacy", Organizer: "Mana Ship", Region: "Bern", Category: "SUL Premier"}

		convey.Convey("Then every field name resolves", func() {
			for _, name := range model.FieldNames() {
				_, ok := e.Field(name)
				convey.So(ok, convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then the facet fields return their values", func() {
			v, _ := e.Field("format")
			convey.So(v, convey.ShouldEqual, "Legacy")
			v, _ = e.Field("organizer")
			convey.So(v, convey.ShouldEqual, "Mana Ship")
			v, _ = e.Field("region")
			convey.So(v, convey.ShouldEqual, "Bern")
			v, _ = e.Field("category")
			convey.So(v, convey.ShouldEqual, "SUL Premier")
		})

		convey.Convey("Then an unknown field is reported", func() {
			v, ok := e.Field("colour")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(v, convey.ShouldEqual, "")
		})
	})
}

func TestEvent_Day(t *testing.T) {
	convey.Convey("Given events with different start formats", t, func() {
		want := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

		convey.Convey("When the start has a time component", func() {
			e := model.Event{StartDateTime: "2025-03-03T19:00:00"}
			day, err := e.Day()
			convey.So(err, convey.ShouldBeNil)
			convey.So(day.Equal(want), convey.ShouldBeTrue)
		})

		convey.Convey("When the start is a bare date", func() {
			e := model.Event{StartDateTime: "2025-03-03"}
			day, err := e.Day()
			convey.So(err, convey.ShouldBeNil)
			convey.So(day.Equal(want), convey.ShouldBeTrue)
		})

		convey.Convey("When the start is RFC3339", func() {
			e := model.Event{StartDateTime: "2025-03-03T10:00:00Z"}
			day, err := e.Day()
			convey.So(err, convey.ShouldBeNil)
			convey.So(day.Equal(want), convey.ShouldBeTrue)
		})

		convey.Convey("When the start is missing", func() {
			e := model.Event{}
			_, err := e.Day()
			convey.So(err, convey.ShouldEqual, model.ErrNoDate)
		})

		convey.Convey("When the start is garbage", func() {
			e := model.Event{StartDateTime: "next tuesday"}
			_, err := e.Day()
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
