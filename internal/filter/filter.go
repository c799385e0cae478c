// Package filter narrows in-memory record collections by a free-text query and
// categorical selectors. Filtering is a pure function of its arguments: the
// source slice is never modified and no state is kept between calls.
package filter

import (
	"fmt"
	"maps"
	"strings"
)

// Wildcard is the selector value that matches every record. An empty value
// is treated the same way.
const Wildcard = "all"

// MatchMode decides how a selector value is compared with a record field.
type MatchMode int

const (
	// MatchExact compares byte for byte.
	MatchExact MatchMode = iota
	// MatchFold compares case-insensitively.
	MatchFold
	// MatchContains is a case-insensitive substring test.
	MatchContains
)

func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchFold:
		return "fold"
	case MatchContains:
		return "contains"
	}
	return fmt.Sprintf("MatchMode(%d)", int(m))
}

// ParseMatchMode converts a config value into a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return MatchExact, nil
	case "fold":
		return MatchFold, nil
	case "contains":
		return MatchContains, nil
	}
	return MatchExact, fmt.Errorf("unknown match mode %q", s)
}

func (m MatchMode) match(have, want string) bool {
	switch m {
	case MatchFold:
		return strings.EqualFold(have, want)
	case MatchContains:
		return strings.Contains(strings.ToLower(have), strings.ToLower(want))
	}
	return have == want
}

// Criteria is the caller-owned filter state: a text query plus selector
// values keyed by selector name.
type Criteria struct {
	Query   string            `json:"search"`
	Filters map[string]string `json:"filters,omitempty"`
}

// With returns a copy of c with one selector set.
func (c Criteria) With(name, value string) Criteria {
	filters := make(map[string]string, len(c.Filters)+1)
	maps.Copy(filters, c.Filters)
	filters[name] = value
	return Criteria{Query: c.Query, Filters: filters}
}

// IsEmpty reports whether c matches everything.
func (c Criteria) IsEmpty() bool {
	if c.Query != "" {
		return false
	}
	for _, v := range c.Filters {
		if !isWildcard(v) {
			return false
		}
	}
	return true
}

func isWildcard(v string) bool {
	return v == "" || v == Wildcard
}

// TextField is a field searched by the free-text query.
type TextField[T any] struct {
	Name  string
	Value func(T) string
}

// Selector is one categorical filter dimension. Multi-valued fields set
// Values instead of Value; such a record matches if any of its values does.
type Selector[T any] struct {
	Name   string
	Mode   MatchMode
	Value  func(T) string
	Values func(T) []string
}

func (s Selector[T]) matches(record T, want string) bool {
	if isWildcard(want) {
		return true
	}
	if s.Values != nil {
		for _, v := range s.Values(record) {
			if s.Mode.match(v, want) {
				return true
			}
		}
		return false
	}
	if s.Value == nil {
		return false
	}
	return s.Mode.match(s.Value(record), want)
}

// Spec describes how records of type T are searched and filtered.
type Spec[T any] struct {
	Text      []TextField[T]
	Selectors []Selector[T]
}

// SelectorNames lists the selector names in declaration order.
func (s Spec[T]) SelectorNames() []string {
	names := make([]string, len(s.Selectors))
	for i, sel := range s.Selectors {
		names[i] = sel.Name
	}
	return names
}

// Selector returns the named selector.
func (s Spec[T]) Selector(name string) (Selector[T], bool) {
	for _, sel := range s.Selectors {
		if sel.Name == name {
			return sel, true
		}
	}
	return Selector[T]{}, false
}

// WithModes returns a copy of s with the match mode of the named selectors
// replaced. Names that do not exist are reported as an error.
func (s Spec[T]) WithModes(modes map[string]MatchMode) (Spec[T], error) {
	out := Spec[T]{
		Text:      s.Text,
		Selectors: make([]Selector[T], len(s.Selectors)),
	}
	copy(out.Selectors, s.Selectors)
	for name, mode := range modes {
		found := false
		for i := range out.Selectors {
			if out.Selectors[i].Name == name {
				out.Selectors[i].Mode = mode
				found = true
			}
		}
		if !found {
			return s, fmt.Errorf("no selector named %q", name)
		}
	}
	return out, nil
}

// Match reports whether record satisfies every dimension of c.
func (s Spec[T]) Match(record T, c Criteria) bool {
	return s.matchText(record, strings.ToLower(c.Query)) && s.matchSelectors(record, c.Filters)
}

// matchText expects an already lower-cased query.
func (s Spec[T]) matchText(record T, query string) bool {
	if query == "" {
		return true
	}
	for _, f := range s.Text {
		if strings.Contains(strings.ToLower(f.Value(record)), query) {
			return true
		}
	}
	return false
}

func (s Spec[T]) matchSelectors(record T, filters map[string]string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, sel := range s.Selectors {
		want, ok := filters[sel.Name]
		if !ok {
			continue
		}
		if !sel.matches(record, want) {
			return false
		}
	}
	return true
}

// Apply returns the records matching c, in their original order. The result
// is a new slice and is never nil.
func Apply[T any](records []T, spec Spec[T], c Criteria) []T {
	query := strings.ToLower(c.Query)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if spec.matchText(r, query) && spec.matchSelectors(r, c.Filters) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many records satisfy pred.
func Count[T any](records []T, pred func(T) bool) int {
	n := 0
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// Tally counts records per value of a field.
func Tally[T any](records []T, value func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[value(r)]++
	}
	return counts
}
