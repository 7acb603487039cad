package model

import (
	"time"
)

// Document represents a user-owned file listed on the dashboard.
// This is a pure domain model with no database-specific dependencies or tags.
// LastViewed is nil until the document is opened for the first time.
type Document struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Summary      string     `json:"summary"`
	UploadedDate time.Time  `json:"uploadedDate"`
	LastViewed   *time.Time `json:"lastViewed,omitempty"`
	FileURL      string     `json:"fileUrl"`
}

// Viewed reports whether the document has a LastViewed timestamp.
func (d Document) Viewed() bool {
	return d.LastViewed != nil && !d.LastViewed.IsZero()
}

// Clone returns a deep copy so callers cannot mutate a store's record through LastViewed.
func (d Document) Clone() Document {
	out := d
	if d.LastViewed != nil {
		lv := *d.LastViewed
		out.LastViewed = &lv
	}
	return out
}

// CloneAll deep-copies a slice of documents.
func CloneAll(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = docs[i].Clone()
	}
	return out
}

// KPISnapshot holds aggregate counts over the collection at a point in time.
type KPISnapshot struct {
	TotalDocuments   int `json:"totalDocuments"`
	RecentlyViewed   int `json:"recentlyViewed"`
	RecentlyUploaded int `json:"recentlyUploaded"`
}

// DownloadLink is what the download trigger and preview surface need: a locator and a file name.
type DownloadLink struct {
	DocumentID string    `json:"documentId"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
}
