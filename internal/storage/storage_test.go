package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		locator string
		wantKey string
		wantOK  bool
	}{
		{locator: "s3://documents/tax-2023.pdf", wantKey: "documents/tax-2023.pdf", wantOK: true},
		{locator: "s3:///leading/slash.pdf", wantKey: "leading/slash.pdf", wantOK: true},
		{locator: "s3://", wantOK: false},
		{locator: "/documents/sample.pdf", wantOK: false},
		{locator: "https://example.com/a.pdf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			key, ok := ObjectKey(tt.locator)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
