package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

// Package storage contains object storage abstractions for document content (S3-compatible).
// Documents reference content with an opaque locator; locators with the s3:// scheme are
// resolved against the configured bucket, everything else is passed through untouched.

// LocatorScheme prefixes file locators that live in object storage.
const LocatorScheme = "s3://"

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a read-only, S3-compatible object storage client interface.
// Methods use context and streaming readers; no local disk is used.
type Storage interface {
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// PresignGet returns a time-limited URL that downloads the object under filename without credentials.
	PresignGet(ctx context.Context, key, filename string, expiry time.Duration) (string, error)
}

// ObjectKey extracts the object key from an s3:// locator.
func ObjectKey(locator string) (string, bool) {
	if !strings.HasPrefix(locator, LocatorScheme) {
		return "", false
	}
	key := strings.TrimPrefix(locator, LocatorScheme)
	key = strings.TrimLeft(key, "/")
	return key, key != ""
}
