// Package facet holds facet definitions, per-facet selection state and the
// visibility predicate built on top of them.
package facet

import "github.com/okian/eventfacets/internal/domain/model"

// Extractor maps an event to its value under one facet. The empty string is
// the value for events that do not carry the field.
type Extractor func(e model.Event) string

// Definition describes one filterable dimension. Definitions are fixed for
// the lifetime of a Filter.
type Definition struct {
	Label    string
	AllLabel string
	Extract  Extractor
}

// Field returns an extractor reading the named event field.
func Field(name string) Extractor {
	return func(e model.Event) string {
		v, _ := e.Field(name)
		return v
	}
}

// Defaults returns the facets shown on the events page.
func Defaults() []Definition {
	return []Definition{
		{Label: "Type", AllLabel: "All Types", Extract: Field("category")},
		{Label: "Format", AllLabel: "All Formats", Extract: Field("format")},
		{Label: "Organizer", AllLabel: "All Organizers", Extract: Field("organizer")},
		{Label: "Region", AllLabel: "All Regions", Extract: Field("region")},
	}
}
