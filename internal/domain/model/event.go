// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"
	"time"
)

// Layouts accepted for StartDateTime, most specific first.
var dayLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ErrNoDate is returned by Day when the event carries no usable start date.
var ErrNoDate = errors.New("event has no start date")

// Event is a single tournament as served by the season backend.
// Fields mirror the JSON shape of GET /api/future-events/ and
// GET /api/past-events/{slug}/; absent or null values decode to "".
type Event struct {
	Name          string `json:"name"`
	Date          string `json:"date"` // display form, e.g. "Sat, 01.03.2025"
	Time          string `json:"time"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
	Organizer     string `json:"organizer"`
	Format        string `json:"format"`
	LocationName  string `json:"locationName"`
	SEOAddress    string `json:"seoAddress"`
	ShortAddress  string `json:"shortAddress"`
	Region        string `json:"region"`
	Category      string `json:"category"`
	DetailsURL    string `json:"details_url"`
	OrganizerURL  string `json:"organizer_url"`
	IconURL       string `json:"icon_url"`
}

// Field returns the value of the field with the given JSON name.
func (e *Event) Field(name string) (string, bool) {
	switch name {
	case "name":
		return e.Name, true
	case "date":
		return e.Date, true
	case "time":
		return e.Time, true
	case "startDateTime":
		return e.StartDateTime, true
	case "endDateTime":
		return e.EndDateTime, true
	case "organizer":
		return e.Organizer, true
	case "format":
		return e.Format, true
	case "locationName":
		return e.LocationName, true
	case "seoAddress":
		return e.SEOAddress, true
	case "shortAddress":
		return e.ShortAddress, true
	case "region":
		return e.Region, true
	case "category":
		return e.Category, true
	case "details_url":
		return e.DetailsURL, true
	case "organizer_url":
		return e.OrganizerURL, true
	case "icon_url":
		return e.IconURL, true
	}
	return "", false
}

// FieldNames lists every name accepted by Field.
func FieldNames() []string {
	return []string{
		"name", "date", "time", "startDateTime", "endDateTime", "organizer",
		"format", "locationName", "seoAddress", "shortAddress", "region",
		"category", "details_url", "organizer_url", "icon_url",
	}
}

// Day returns the calendar day the event starts on, in UTC.
func (e *Event) Day() (time.Time, error) {
	raw := strings.TrimSpace(e.StartDateTime)
	if raw == "" {
		return time.Time{}, ErrNoDate
	}
	var lastErr error
	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
