package facet

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Entry is one value of a facet together with its selection flag.
type Entry struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Selection is an ordered map from facet value to selection flag.
// Iteration follows insertion order until SortBy rearranges it.
type Selection struct {
	keys     []string
	selected map[string]bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{selected: make(map[string]bool)}
}

// InsertIfAbsent adds value with the given flag unless it is already a key.
// Reports whether the value was inserted.
func (s *Selection) InsertIfAbsent(value string, selected bool) bool {
	if _, ok := s.selected[value]; ok {
		return false
	}
	s.keys = append(s.keys, value)
	s.selected[value] = selected
	return true
}

// Get returns the flag for value and whether value is a key.
func (s *Selection) Get(value string) (selected, ok bool) {
	selected, ok = s.selected[value]
	return selected, ok
}

// Set updates the flag of an existing key.
func (s *Selection) Set(value string, selected bool) error {
	if _, ok := s.selected[value]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownValue, value)
	}
	s.selected[value] = selected
	return nil
}

// SetAll assigns the same flag to every key.
func (s *Selection) SetAll(selected bool) {
	for _, k := range s.keys {
		s.selected[k] = selected
	}
}

// SortBy reorders the keys with cmp; flags stay attached to their keys.
func (s *Selection) SortBy(cmp func(a, b string) int) {
	slices.SortStableFunc(s.keys, cmp)
}

// SortFold orders the keys alphabetically ignoring case, folding each key
// once. Keys that fold alike are ordered by their raw bytes.
func (s *Selection) SortFold() {
	type pair struct{ folded, key string }
	caser := cases.Fold()
	pairs := make([]pair, len(s.keys))
	for i, k := range s.keys {
		pairs[i] = pair{folded: caser.String(k), key: k}
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		if c := strings.Compare(a.folded, b.folded); c != 0 {
			return c
		}
		return strings.Compare(a.key, b.key)
	})
	for i, p := range pairs {
		s.keys[i] = p.key
	}
}

// Keys returns a copy of the keys in order.
func (s *Selection) Keys() []string {
	return slices.Clone(s.keys)
}

// Entries returns the keys and flags in order.
func (s *Selection) Entries() []Entry {
	out := make([]Entry, len(s.keys))
	for i, k := range s.keys {
		out[i] = Entry{Value: k, Selected: s.selected[k]}
	}
	return out
}

// Len returns the number of keys.
func (s *Selection) Len() int { return len(s.keys) }

// AllFalse reports whether no key is selected. An empty selection counts as
// all false.
func (s *Selection) AllFalse() bool {
	for _, k := range s.keys {
		if s.selected[k] {
			return false
		}
	}
	return true
}

// Reset drops every key.
func (s *Selection) Reset() {
	s.keys = nil
	s.selected = make(map[string]bool)
}
