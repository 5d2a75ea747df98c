package season

import (
	"fmt"
	"net/url"
	"time"
)

// Upcoming is the season holding every event from today on.
const Upcoming = "Upcoming"

// Range is a dated season as the backend defines it.
type Range struct {
	Name    string
	Slug    string
	Start   time.Time
	End     time.Time
	Main    bool // yearly season rather than a special one
	Default bool
	Visible bool
}

// Contains reports whether day falls inside the range, both ends inclusive.
func (r Range) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Calendar is an ordered list of ranges, newest first.
type Calendar []Range

// DefaultCalendar returns the league seasons plus the synthetic range
// spanning every main season.
func DefaultCalendar() Calendar {
	s2025 := Range{Name: "Season 2025", Slug: "2025", Start: date(2024, time.November, 1), End: date(2025, time.October, 31), Main: true, Default: true, Visible: true}
	cal := Calendar{
		s2025,
		{Name: "Spring Invitational 2025", Slug: "invitational-spring-2025", Start: s2025.Start, End: date(2025, time.March, 31), Visible: true},
		{Name: "Season 2024", Slug: "2024", Start: date(2023, time.November, 1), End: date(2024, time.October, 31), Main: true, Visible: true},
		{Name: "Season 2023", Slug: "2023", Start: date(2023, time.January, 1), End: date(2023, time.October, 31), Main: true, Visible: true},
	}
	return append(cal, cal.all())
}

// all spans the earliest start to the latest end of the main seasons.
func (c Calendar) all() Range {
	r := Range{Name: "all seasons", Slug: "all", Visible: true}
	for _, s := range c {
		if !s.Main {
			continue
		}
		if r.Start.IsZero() || s.Start.Before(r.Start) {
			r.Start = s.Start
		}
		if s.End.After(r.End) {
			r.End = s.End
		}
	}
	return r
}

// FindBySlug returns the range with the given slug.
func (c Calendar) FindBySlug(slug string) (Range, error) {
	for _, r := range c {
		if r.Slug == slug {
			return r, nil
		}
	}
	return Range{}, fmt.Errorf("%w: slug %q", ErrUnknownSeason, slug)
}

// Visible returns the ranges offered in the season picker.
func (c Calendar) Visible() []Range {
	var out []Range
	for _, r := range c {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// Sources derives the engine's season list: Upcoming first, then one past
// events source per visible range, resolved against base.
func (c Calendar) Sources(base string) ([]Source, error) {
	b, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	resolve := func(p string) string {
		return b.ResolveReference(&url.URL{Path: p}).String()
	}
	out := []Source{{Name: Upcoming, URL: resolve("/api/future-events/")}}
	for _, r := range c.Visible() {
		out = append(out, Source{Name: r.Name, URL: resolve("/api/past-events/" + r.Slug + "/")})
	}
	return out, nil
}
