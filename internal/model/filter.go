package model

import (
	"fmt"
	"strings"
)

// Filter is the search term plus selected type labels.
// An empty Types set means no type restriction.
type Filter struct {
	Search string   `json:"search"`
	Types  []string `json:"types"`
}

// Normalize trims the search term and removes blank or duplicate type labels, keeping first-seen order.
func (f Filter) Normalize() Filter {
	out := Filter{Search: strings.TrimSpace(f.Search)}
	seen := make(map[string]struct{}, len(f.Types))
	for _, t := range f.Types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out.Types = append(out.Types, t)
	}
	return out
}

// IsEmpty reports whether the filter restricts nothing.
func (f Filter) IsEmpty() bool {
	return strings.TrimSpace(f.Search) == "" && len(f.Types) == 0
}

// Matches applies the search/type conjunction to a single document.
func (f Filter) Matches(d Document) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(d.Name), term) &&
			!strings.Contains(strings.ToLower(d.Summary), term) {
			return false
		}
	}
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if d.Type == t {
			return true
		}
	}
	return false
}

// Equal compares two filters, treating type sets as ordered lists.
func (f Filter) Equal(o Filter) bool {
	if f.Search != o.Search || len(f.Types) != len(o.Types) {
		return false
	}
	for i := range f.Types {
		if f.Types[i] != o.Types[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy with its own Types slice.
func (f Filter) Clone() Filter {
	out := Filter{Search: f.Search}
	if f.Types != nil {
		out.Types = append([]string(nil), f.Types...)
	}
	return out
}

// SortField is a sortable document column.
type SortField string

const (
	SortNone         SortField = ""
	SortName         SortField = "name"
	SortType         SortField = "type"
	SortUploadedDate SortField = "uploadedDate"
	SortLastViewed   SortField = "lastViewed"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SortSpec is a chosen field plus direction. A zero SortSpec keeps store order.
type SortSpec struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// ParseSortField validates a field name coming from an outer surface.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortNone, SortName, SortType, SortUploadedDate, SortLastViewed:
		return f, nil
	default:
		return SortNone, fmt.Errorf("unknown sort field %q", s)
	}
}

// ParseSortDirection validates a direction, defaulting to ascending when empty.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(s)); d {
	case "":
		return Ascending, nil
	case Ascending, Descending:
		return d, nil
	default:
		return Ascending, fmt.Errorf("unknown sort direction %q", s)
	}
}
