package repository

import (
	"context"
	"errors"
	"time"

	"docdash/internal/model"
)

// ErrNotFound is returned when a document ID is not present in the store.
var ErrNotFound = errors.New("document not found")

// DocumentRepository is the document store capability set: list, mark viewed and ping.
// No business logic here — strictly persistence operations. Filtering, aggregation and
// ordering are done by the service on top of ListAll.
type DocumentRepository interface {
	// ListAll returns every document in insertion order.
	// Implementations return copies; mutating the result must not affect the store.
	ListAll(ctx context.Context) ([]model.Document, error)

	// MarkViewed sets LastViewed to at and returns the updated document.
	// It returns ErrNotFound when id is absent.
	MarkViewed(ctx context.Context, id string, at time.Time) (*model.Document, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
