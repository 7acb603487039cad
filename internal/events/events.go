// Package events publishes domain events about documents to interested subscribers.
package events

import (
	"context"
	"time"
)

// DocumentViewed is emitted after a document's LastViewed timestamp is set.
type DocumentViewed struct {
	DocumentID string    `json:"documentId"`
	Name       string    `json:"name"`
	ViewedAt   time.Time `json:"viewedAt"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishDocumentViewed(ctx context.Context, evt DocumentViewed) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishDocumentViewed(context.Context, DocumentViewed) error { return nil }
