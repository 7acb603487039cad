package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"docdash/internal/model"
	"docdash/internal/repository"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()), WithRateLimit(0, 0))
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)
}

func TestClient_ListAll(t *testing.T) {
	uploaded := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/store/documents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.Document{{ID: "1", Name: "a.pdf", Type: "A", UploadedDate: uploaded}})
	})

	docs, err := c.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].Name)
	assert.True(t, uploaded.Equal(docs[0].UploadedDate))
	assert.Nil(t, docs[0].LastViewed)
}

func TestClient_MarkViewed(t *testing.T) {
	at := time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/documents/2/view", r.URL.Path)
			var req markViewedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.True(t, at.Equal(req.ViewedAt))
			json.NewEncoder(w).Encode(model.Document{ID: "2", LastViewed: &req.ViewedAt})
		})

		doc, err := c.MarkViewed(context.Background(), "2", at)

		require.NoError(t, err)
		require.NotNil(t, doc.LastViewed)
		assert.True(t, at.Equal(*doc.LastViewed))
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"request_id":"x","error":{"code":"NOT_FOUND","message":"document not found"}}`))
		})

		doc, err := c.MarkViewed(context.Background(), "99", at)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	t.Run("server error carries message", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"request_id":"x","error":{"code":"INTERNAL_ERROR","message":"boom"}}`))
		})

		_, err := c.MarkViewed(context.Background(), "1", at)

		assert.EqualError(t, err, "POST /api/v1/documents/1/view: status 500: boom")
	})
}

func TestClient_Ping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, c.Ping(context.Background()))
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	c.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.ListAll(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
