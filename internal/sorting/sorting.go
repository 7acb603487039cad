// Package sorting orders already-loaded documents for display. It never touches a store.
package sorting

import (
	"sort"
	"time"

	"docdash/internal/model"
)

// Sort returns a new slice ordered by spec. Equal keys keep their input order, so sorting
// an already sorted list is a no-op. A spec with no field returns an unmodified copy.
// Missing LastViewed sorts as the earliest possible time.
func Sort(docs []model.Document, spec model.SortSpec) []model.Document {
	out := make([]model.Document, len(docs))
	copy(out, docs)
	if spec.Field == model.SortNone {
		return out
	}
	desc := spec.Direction == model.Descending
	sort.SliceStable(out, func(i, j int) bool {
		c := Compare(out[i], out[j], spec.Field)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Compare orders a and b by field, returning -1, 0 or 1.
func Compare(a, b model.Document, field model.SortField) int {
	switch field {
	case model.SortName:
		return compareStrings(a.Name, b.Name)
	case model.SortType:
		return compareStrings(a.Type, b.Type)
	case model.SortUploadedDate:
		return a.UploadedDate.Compare(b.UploadedDate)
	case model.SortLastViewed:
		return lastViewed(a).Compare(lastViewed(b))
	default:
		return 0
	}
}

// Toggle returns the spec after the user picks field: the same field flips direction,
// a new field starts ascending.
func Toggle(current model.SortSpec, field model.SortField) model.SortSpec {
	if current.Field == field && field != model.SortNone {
		if current.Direction == model.Descending {
			return model.SortSpec{Field: field, Direction: model.Ascending}
		}
		return model.SortSpec{Field: field, Direction: model.Descending}
	}
	return model.SortSpec{Field: field, Direction: model.Ascending}
}

// IsSorted reports whether every adjacent pair of docs satisfies spec.
func IsSorted(docs []model.Document, spec model.SortSpec) bool {
	for i := 1; i < len(docs); i++ {
		c := Compare(docs[i-1], docs[i], spec.Field)
		if spec.Direction == model.Descending && c < 0 {
			return false
		}
		if spec.Direction != model.Descending && c > 0 {
			return false
		}
	}
	return true
}

func lastViewed(d model.Document) time.Time {
	if d.LastViewed == nil {
		return time.Time{}
	}
	return *d.LastViewed
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
