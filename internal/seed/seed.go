// Package seed loads the document fixture that stores are populated with at startup
// and validates every record on ingestion.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"docdash/internal/model"
)

//go:embed documents.yaml
var defaultFixture []byte

// ErrDuplicateID is returned when two records share an ID.
var ErrDuplicateID = errors.New("duplicate document id")

// ValidationError describes a rejected record.
type ValidationError struct {
	Record string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("document %q: %s: %s", e.Record, e.Field, e.Reason)
}

// Record is the on-disk shape of a document. Dates stay strings until validated.
type Record struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Summary      string `yaml:"summary"`
	UploadedDate string `yaml:"uploadedDate"`
	LastViewed   string `yaml:"lastViewed"`
	FileURL      string `yaml:"fileUrl"`
}

type file struct {
	Documents []Record `yaml:"documents"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339Nano, time.RFC3339}

// text fields are rendered verbatim by every presentation surface
var strict = bluemonday.StrictPolicy()

// Default returns the built-in fixture.
func Default() ([]model.Document, error) {
	return Parse(defaultFixture)
}

// LoadFile reads and validates a YAML fixture from path.
func LoadFile(path string) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	docs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return docs, nil
}

// Load returns the fixture at path, or the built-in one when path is empty.
func Load(path string) ([]model.Document, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes a YAML fixture and validates every record. The first invalid record aborts the load.
func Parse(data []byte) ([]model.Document, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return Validate(f.Documents)
}

// Validate converts records into documents, enforcing ID uniqueness, parsable dates and
// LastViewed >= UploadedDate.
func Validate(records []Record) ([]model.Document, error) {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.Document, 0, len(records))
	for _, r := range records {
		doc, err := r.Document()
		if err != nil {
			return nil, err
		}
		if _, ok := seen[doc.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, doc.ID)
		}
		seen[doc.ID] = struct{}{}
		out = append(out, doc)
	}
	return out, nil
}

// Document validates a single record.
func (r Record) Document() (model.Document, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return model.Document{}, &ValidationError{Record: r.Name, Field: "id", Reason: "is required"}
	}
	name := sanitize(r.Name)
	if name == "" {
		return model.Document{}, &ValidationError{Record: id, Field: "name", Reason: "is required"}
	}
	docType := sanitize(r.Type)
	if docType == "" {
		return model.Document{}, &ValidationError{Record: id, Field: "type", Reason: "is required"}
	}

	uploaded, err := ParseDate(r.UploadedDate)
	if err != nil {
		return model.Document{}, &ValidationError{Record: id, Field: "uploadedDate", Reason: err.Error()}
	}
	doc := model.Document{
		ID:           id,
		Name:         name,
		Type:         docType,
		Summary:      sanitize(r.Summary),
		UploadedDate: uploaded,
		FileURL:      strings.TrimSpace(r.FileURL),
	}
	if strings.TrimSpace(r.LastViewed) != "" {
		viewed, err := ParseDate(r.LastViewed)
		if err != nil {
			return model.Document{}, &ValidationError{Record: id, Field: "lastViewed", Reason: err.Error()}
		}
		if viewed.Before(uploaded) {
			return model.Document{}, &ValidationError{Record: id, Field: "lastViewed", Reason: "is before uploadedDate"}
		}
		doc.LastViewed = &viewed
	}
	return doc, nil
}

// ParseDate accepts a calendar date (UTC midnight) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", s)
}

func sanitize(s string) string {
	// StrictPolicy escapes entities; the stored value is plain text.
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
