package facet

import (
	"fmt"
	"strings"

	"github.com/okian/eventfacets/internal/domain/model"
	"golang.org/x/text/cases"
)

// View is a read-only snapshot of one facet for rendering.
type View struct {
	Index    int     `json:"index"`
	Label    string  `json:"label"`
	AllLabel string  `json:"all_label"`
	Values   []Entry `json:"values"`
}

type state struct {
	def Definition
	sel *Selection
}

// Filter pairs every Definition with its Selection. It is not safe for
// concurrent use; the owner serialises access.
type Filter struct {
	facets []state
}

// NewFilter builds a filter with an empty selection per definition.
func NewFilter(defs ...Definition) *Filter {
	f := &Filter{facets: make([]state, len(defs))}
	for i, d := range defs {
		f.facets[i] = state{def: d, sel: NewSelection()}
	}
	return f
}

// Len returns the number of facets.
func (f *Filter) Len() int { return len(f.facets) }

// Update discovers the facet values present in events. Unseen values are
// added deselected, existing flags are kept, and every facet is re-sorted
// case-insensitively. Values are never removed here.
func (f *Filter) Update(events []model.Event) {
	for _, st := range f.facets {
		for _, e := range events {
			st.sel.InsertIfAbsent(st.def.Extract(e), false)
		}
		st.sel.SortFold()
	}
}

// ShouldShow reports whether e passes every facet. A facet passes when the
// event's value is selected, or when nothing in that facet is selected.
func (f *Filter) ShouldShow(e model.Event) bool {
	for _, st := range f.facets {
		if selected, _ := st.sel.Get(st.def.Extract(e)); selected {
			continue
		}
		if !st.sel.AllFalse() {
			return false
		}
	}
	return true
}

// ToggleAll clears every value of the facet at index.
func (f *Filter) ToggleAll(index int) error {
	st, err := f.at(index)
	if err != nil {
		return err
	}
	st.sel.SetAll(false)
	return nil
}

// Select sets the flag of one value of the facet at index.
func (f *Filter) Select(index int, value string, selected bool) error {
	st, err := f.at(index)
	if err != nil {
		return err
	}
	return st.sel.Set(value, selected)
}

// Reset forgets every discovered value.
func (f *Filter) Reset() {
	for _, st := range f.facets {
		st.sel.Reset()
	}
}

// Views snapshots all facets in definition order.
func (f *Filter) Views() []View {
	out := make([]View, len(f.facets))
	for i, st := range f.facets {
		out[i] = View{
			Index:    i,
			Label:    st.def.Label,
			AllLabel: st.def.AllLabel,
			Values:   st.sel.Entries(),
		}
	}
	return out
}

func (f *Filter) at(index int) (state, error) {
	if index < 0 || index >= len(f.facets) {
		return state{}, fmt.Errorf("%w: %d", ErrUnknownFacet, index)
	}
	return f.facets[index], nil
}

// CompareFold orders strings alphabetically ignoring case. Strings that fold
// to the same form are ordered by their raw bytes so the result is total.
func CompareFold(a, b string) int {
	caser := cases.Fold()
	if c := strings.Compare(caser.String(a), caser.String(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
