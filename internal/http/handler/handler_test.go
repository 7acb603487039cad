package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docdash/internal/model"
	repoMocks "docdash/internal/repository/mocks"
	"docdash/internal/repository/postgres"
	"docdash/internal/service"
	serviceMocks "docdash/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return refNow }

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(postgres.NewDocumentPostgres(db)))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestQueryDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents", QueryDocuments(mockSvc))

	docs := []model.Document{
		{ID: "2", Name: "Tax Return 2023.pdf", Type: "Tax Documents"},
		{ID: "5", Name: "Property Tax Assessment.pdf", Type: "Tax Documents"},
	}

	t.Run("filter and sort", func(t *testing.T) {
		want := model.Filter{Search: "tax", Types: []string{"Tax Documents", "401k documents"}}
		mockSvc.On("Query", mock.Anything, want).Return(&service.QueryResult{Documents: docs, Total: 2}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?search=%20tax%20&type=Tax%20Documents&type=401k%20documents&sort=name&dir=asc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.QueryResult
		json.NewDecoder(resp.Body).Decode(&result)
		require.Len(t, result.Documents, 2)
		assert.Equal(t, "5", result.Documents[0].ID)
		assert.Equal(t, 2, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("comma separated types", func(t *testing.T) {
		want := model.Filter{Types: []string{"Bank statements", "Tax Documents"}}
		mockSvc.On("Query", mock.Anything, want).Return(&service.QueryResult{Documents: []model.Document{}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?type=Bank%20statements,Tax%20Documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid sort", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?sort=size", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_SORT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid direction", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?sort=name&dir=up", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_SORT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Query", mock.Anything, model.Filter{}).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestRecentLists(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/viewed", RecentlyViewed(mockSvc, 3))
	app.Get("/uploaded", RecentlyUploaded(mockSvc, fixedClock, 3))

	t.Run("default limit", func(t *testing.T) {
		mockSvc.On("RecentlyViewed", mock.Anything, 3).Return([]model.Document{{ID: "8"}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/viewed", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("zero means unbounded", func(t *testing.T) {
		mockSvc.On("RecentlyUploaded", mock.Anything, refNow, 0).Return([]model.Document{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/uploaded?limit=0", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	for _, q := range []string{"abc", "-1"} {
		t.Run("invalid limit "+q, func(t *testing.T) {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/viewed?limit="+q, nil))

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
		})
	}
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "8").Return(&model.Document{ID: "8", Name: "Investment Portfolio Q1 2024.pdf"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/8", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "8", result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "99").Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/99", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestMarkViewed(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/documents/:id/view", MarkViewed(mockSvc, fixedClock))

	t.Run("server clock without body", func(t *testing.T) {
		mockSvc.On("MarkViewed", mock.Anything, "3", refNow).Return(&model.Document{ID: "3", LastViewed: &refNow}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents/3/view", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("viewedAt from body", func(t *testing.T) {
		at := time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC)
		mockSvc.On("MarkViewed", mock.Anything, "3", mock.MatchedBy(func(got time.Time) bool {
			return got.Equal(at)
		})).Return(&model.Document{ID: "3", LastViewed: &at}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/3/view", strings.NewReader(`{"viewedAt":"2024-03-19T12:00:00Z"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents/3/view", strings.NewReader(`{"viewedAt":`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("MarkViewed", mock.Anything, "99", refNow).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/documents/99/view", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id/download", DownloadDocument(mockSvc))

	t.Run("link", func(t *testing.T) {
		link := &model.DownloadLink{DocumentID: "1", URL: "/documents/sample-bank-statement.pdf", Filename: "Sample Bank Statement.pdf"}
		mockSvc.On("ResolveFile", mock.Anything, "1").Return(link, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/1/download", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got model.DownloadLink
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, link.URL, got.URL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("stream", func(t *testing.T) {
		info := &service.FileInfo{Filename: "a.pdf", ContentType: "application/pdf", Size: 8}
		mockSvc.On("OpenFile", mock.Anything, "1").Return(io.NopCloser(strings.NewReader("%PDF-1.7")), info, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/1/download?stream=true", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "a.pdf")
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.7", string(body))
		mockSvc.AssertExpectations(t)
	})

	t.Run("not stored", func(t *testing.T) {
		mockSvc.On("OpenFile", mock.Anything, "2").Return(nil, nil, service.ErrNotStored).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/2/download?stream=true", nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "NOT_STORED", decodeError(t, resp).Error.Code)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		mockSvc.On("OpenFile", mock.Anything, "3").Return(nil, nil, service.ErrStorageUnavailable).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/3/download?stream=true", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestExportDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/export.xlsx", ExportDocuments(mockSvc))

	spec := model.SortSpec{Field: model.SortUploadedDate, Direction: model.Descending}
	mockSvc.On("Export", mock.Anything, model.Filter{Search: "tax"}, spec, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(3).(io.Writer).Write([]byte("PK"))
		}).
		Return(nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/export.xlsx?search=tax&sort=uploadedDate&dir=desc", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "PK", string(body))
	mockSvc.AssertExpectations(t)
}

func TestDashboardEndpoints(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/kpis", GetKPIs(mockSvc, fixedClock))
	app.Get("/overview", GetOverview(mockSvc, fixedClock, 3))
	app.Get("/suggestion", GetSuggestion(fixedClock, time.UTC))

	t.Run("kpis", func(t *testing.T) {
		mockSvc.On("ComputeKPIs", mock.Anything, refNow).Return(&model.KPISnapshot{TotalDocuments: 8, RecentlyViewed: 5, RecentlyUploaded: 3}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/kpis", nil))

		var got model.KPISnapshot
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, model.KPISnapshot{TotalDocuments: 8, RecentlyViewed: 5, RecentlyUploaded: 3}, got)
	})

	t.Run("overview", func(t *testing.T) {
		mockSvc.On("Overview", mock.Anything, refNow, 5).Return(&service.Overview{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/overview?limit=5", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("suggestion from clock", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/suggestion", nil))

		var got model.Suggestion
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "Tax Filing Season", got.Title)
	})

	t.Run("suggestion for date", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/suggestion?date=2024-11-02", nil))

		var got model.Suggestion
		json.NewDecoder(resp.Body).Decode(&got)
		assert.Equal(t, "Year-End Planning", got.Title)
		assert.Equal(t, "2024", got.SearchTerm)
	})

	t.Run("invalid date", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/suggestion?date=11/02/2024", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE", decodeError(t, resp).Error.Code)
	})
}

func TestStoreDocuments(t *testing.T) {
	repo := new(repoMocks.MockDocumentRepository)
	app := fiber.New()
	app.Get("/store", StoreDocuments(repo))

	repo.On("ListAll", mock.Anything).Return([]model.Document{{ID: "1"}, {ID: "2"}}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/store", nil))

	var got []model.Document
	json.NewDecoder(resp.Body).Decode(&got)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockDocumentService)
	RegisterRoutes(app, nil, mockSvc, RouteConfig{Clock: fixedClock})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("types is not an id", func(t *testing.T) {
		mockSvc.On("ListTypes", mock.Anything).Return([]string{"Bank statements"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/types", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("health uses the service", func(t *testing.T) {
		mockSvc.On("Ping", mock.Anything).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}
