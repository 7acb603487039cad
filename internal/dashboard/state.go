package dashboard

import "docdash/internal/model"

// Status is the load state of one data slice.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// Slice names an independently loaded part of the dashboard.
type Slice string

const (
	SliceDocuments        Slice = "documents"
	SliceKPIs             Slice = "kpis"
	SliceTypes            Slice = "types"
	SliceRecentlyViewed   Slice = "recently_viewed"
	SliceRecentlyUploaded Slice = "recently_uploaded"
)

var allSlices = []Slice{SliceDocuments, SliceKPIs, SliceTypes, SliceRecentlyViewed, SliceRecentlyUploaded}

// Statuses holds one Status per slice.
type Statuses struct {
	Documents        Status `json:"documents"`
	KPIs             Status `json:"kpis"`
	Types            Status `json:"types"`
	RecentlyViewed   Status `json:"recentlyViewed"`
	RecentlyUploaded Status `json:"recentlyUploaded"`
}

// Of returns the status of s.
func (st Statuses) Of(s Slice) Status {
	switch s {
	case SliceDocuments:
		return st.Documents
	case SliceKPIs:
		return st.KPIs
	case SliceTypes:
		return st.Types
	case SliceRecentlyViewed:
		return st.RecentlyViewed
	case SliceRecentlyUploaded:
		return st.RecentlyUploaded
	}
	return ""
}

// Loading reports whether any slice is loading.
func (st Statuses) Loading() bool {
	for _, s := range allSlices {
		if st.Of(s) == StatusLoading {
			return true
		}
	}
	return false
}

func (st *Statuses) set(s Slice, v Status) {
	switch s {
	case SliceDocuments:
		st.Documents = v
	case SliceKPIs:
		st.KPIs = v
	case SliceTypes:
		st.Types = v
	case SliceRecentlyViewed:
		st.RecentlyViewed = v
	case SliceRecentlyUploaded:
		st.RecentlyUploaded = v
	}
}

// State is a snapshot of everything the dashboard renders.
// Documents is the current query result ordered by Sort.
type State struct {
	Documents        []model.Document  `json:"documents"`
	KPIs             model.KPISnapshot `json:"kpis"`
	Types            []string          `json:"types"`
	RecentlyViewed   []model.Document  `json:"recentlyViewed"`
	RecentlyUploaded []model.Document  `json:"recentlyUploaded"`

	Status        Statuses `json:"status"`
	MarkingViewed bool     `json:"markingViewed"`

	Filter       model.Filter     `json:"filter"`
	Sort         model.SortSpec   `json:"sort"`
	Selected     *model.Document  `json:"selected,omitempty"`
	PreviewOpen  bool             `json:"previewOpen"`
	Notification string           `json:"notification,omitempty"`
	Suggestion   model.Suggestion `json:"suggestion"`
}

func (s State) clone() State {
	out := s
	out.Documents = model.CloneAll(s.Documents)
	out.RecentlyViewed = model.CloneAll(s.RecentlyViewed)
	out.RecentlyUploaded = model.CloneAll(s.RecentlyUploaded)
	out.Types = append([]string(nil), s.Types...)
	out.Filter = s.Filter.Clone()
	out.Suggestion.TypeFilters = append([]string(nil), s.Suggestion.TypeFilters...)
	if s.Selected != nil {
		sel := s.Selected.Clone()
		out.Selected = &sel
	}
	return out
}

// HasType reports whether t is in the active type filter.
func (s State) HasType(t string) bool {
	for _, v := range s.Filter.Types {
		if v == t {
			return true
		}
	}
	return false
}

// Stats counts controller activity.
type Stats struct {
	QueriesIssued  uint64 `json:"queriesIssued"`
	StaleDiscarded uint64 `json:"staleDiscarded"`
	FetchFailures  uint64 `json:"fetchFailures"`
	MarkFailures   uint64 `json:"markFailures"`
}
