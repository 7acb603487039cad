package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	docs, err := Default()
	require.NoError(t, err)
	require.Len(t, docs, 8)

	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "Sample Bank Statement.pdf", docs[0].Name)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), docs[0].UploadedDate)
	require.NotNil(t, docs[0].LastViewed)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), *docs[0].LastViewed)

	viewed := 0
	for _, d := range docs {
		if d.Viewed() {
			viewed++
		}
	}
	assert.Equal(t, 5, viewed)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantField string
		wantDup   bool
	}{
		{
			name: "missing id",
			yaml: `documents:
  - name: a.pdf
    type: T
    uploadedDate: "2024-01-01"`,
			wantField: "id",
		},
		{
			name: "unparsable upload date",
			yaml: `documents:
  - id: "1"
    name: a.pdf
    type: T
    uploadedDate: "not-a-date"`,
			wantField: "uploadedDate",
		},
		{
			name: "viewed before upload",
			yaml: `documents:
  - id: "1"
    name: a.pdf
    type: T
    uploadedDate: "2024-02-01"
    lastViewed: "2024-01-01"`,
			wantField: "lastViewed",
		},
		{
			name: "duplicate id",
			yaml: `documents:
  - id: "1"
    name: a.pdf
    type: T
    uploadedDate: "2024-02-01"
  - id: "1"
    name: b.pdf
    type: T
    uploadedDate: "2024-02-01"`,
			wantDup: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Nil(t, docs)
			if tt.wantDup {
				assert.ErrorIs(t, err, ErrDuplicateID)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestParse_SanitizesText(t *testing.T) {
	docs, err := Parse([]byte(`documents:
  - id: "9"
    name: "<b>Bills & Receipts</b>.pdf"
    type: Receipts
    summary: "<script>alert(1)</script>Grocery receipts"
    uploadedDate: "2024-03-02T10:30:00Z"`))
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Equal(t, "Bills & Receipts.pdf", docs[0].Name)
	assert.Equal(t, "Grocery receipts", docs[0].Summary)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC), docs[0].UploadedDate)
	assert.Nil(t, docs[0].LastViewed)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`documents:
  - id: "a"
    name: a.pdf
    type: T
    uploadedDate: "2024-01-01"`), 0o600))

	docs, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = Load("")
	require.NoError(t, err)
	assert.Len(t, docs, 8)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
