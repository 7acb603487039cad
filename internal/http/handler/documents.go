package handler

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"docdash/internal/model"
	"docdash/internal/repository"
	"docdash/internal/service"
	"docdash/internal/sorting"
	"docdash/internal/suggestion"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck reports whether the document store answers within two seconds.
//
// @Summary Readiness probe
// @Tags health
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// QueryDocuments filters by search/type and optionally sorts the result.
//
// @Summary Query documents
// @Tags documents
// @Param search query string false "case-insensitive substring of name or summary"
// @Param type query []string false "type label, repeatable" collectionFormat(multi)
// @Param sort query string false "name | type | uploadedDate | lastViewed"
// @Param dir query string false "asc | desc"
// @Success 200 {object} service.QueryResult
// @Failure 400 {object} errorPayload
// @Router /api/v1/documents [get]
func QueryDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, ok := parseSort(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SORT", "invalid sort field or direction")
		}

		res, err := svc.Query(c.UserContext(), parseFilter(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		res.Documents = sorting.Sort(res.Documents, spec)
		return c.JSON(res)
	}
}

// ListTypes returns the distinct type labels.
//
// @Summary Distinct document types
// @Tags documents
// @Success 200 {array} string
// @Router /api/v1/documents/types [get]
func ListTypes(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		types, err := svc.ListTypes(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(types)
	}
}

// RecentlyViewed lists viewed documents, most recent first.
//
// @Summary Recently viewed documents
// @Tags documents
// @Param limit query int false "0 means no limit"
// @Success 200 {array} model.Document
// @Failure 400 {object} errorPayload
// @Router /api/v1/documents/recent/viewed [get]
func RecentlyViewed(svc service.DocumentService, defaultLimit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, ok := parseLimit(c, defaultLimit)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		docs, err := svc.RecentlyViewed(c.UserContext(), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// RecentlyUploaded lists documents uploaded inside the recency window, newest first.
//
// @Summary Recently uploaded documents
// @Tags documents
// @Param limit query int false "0 means no limit"
// @Success 200 {array} model.Document
// @Failure 400 {object} errorPayload
// @Router /api/v1/documents/recent/uploaded [get]
func RecentlyUploaded(svc service.DocumentService, clock func() time.Time, defaultLimit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, ok := parseLimit(c, defaultLimit)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		docs, err := svc.RecentlyUploaded(c.UserContext(), clock(), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// GetDocument returns a single document.
//
// @Summary Get document
// @Tags documents
// @Param id path string true "document id"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /api/v1/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type markViewedRequest struct {
	ViewedAt *time.Time `json:"viewedAt"`
}

// MarkViewed stamps the document's LastViewed. The body is optional; without viewedAt the server clock is used.
//
// @Summary Mark document viewed
// @Tags documents
// @Param id path string true "document id"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/v1/documents/{id}/view [post]
func MarkViewed(svc service.DocumentService, clock func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		at := clock()
		if len(bytes.TrimSpace(c.Body())) > 0 {
			var req markViewedRequest
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
			if req.ViewedAt != nil && !req.ViewedAt.IsZero() {
				at = *req.ViewedAt
			}
		}

		doc, err := svc.MarkViewed(c.UserContext(), c.Params("id"), at)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument resolves the download link. With ?stream=true the content is streamed from object storage.
//
// @Summary Download document
// @Tags documents
// @Param id path string true "document id"
// @Param stream query bool false "stream content instead of returning the link"
// @Success 200 {object} model.DownloadLink
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/v1/documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !c.QueryBool("stream") {
			link, err := svc.ResolveFile(c.UserContext(), c.Params("id"))
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(link)
		}

		rc, info, err := svc.OpenFile(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment(info.Filename)
		c.Set(fiber.HeaderContentType, info.ContentType)
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(info.Size))
	}
}

// ExportDocuments writes the filtered, sorted list as an XLSX workbook.
//
// @Summary Export documents
// @Tags documents
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/v1/documents/export.xlsx [get]
func ExportDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, ok := parseSort(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SORT", "invalid sort field or direction")
		}

		var buf bytes.Buffer
		if err := svc.Export(c.UserContext(), parseFilter(c), spec, &buf); err != nil {
			return writeServiceError(c, err)
		}
		c.Attachment("documents.xlsx")
		c.Set(fiber.HeaderContentType, xlsxContentType)
		return c.Send(buf.Bytes())
	}
}

// GetKPIs returns the KPI snapshot at the server clock.
//
// @Summary KPI snapshot
// @Tags dashboard
// @Success 200 {object} model.KPISnapshot
// @Router /api/v1/kpis [get]
func GetKPIs(svc service.DocumentService, clock func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kpis, err := svc.ComputeKPIs(c.UserContext(), clock())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(kpis)
	}
}

// GetOverview returns KPIs and both recent lists.
//
// @Summary Dashboard overview
// @Tags dashboard
// @Param limit query int false "recent list length, 0 means no limit"
// @Success 200 {object} service.Overview
// @Router /api/v1/overview [get]
func GetOverview(svc service.DocumentService, clock func() time.Time, defaultLimit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, ok := parseLimit(c, defaultLimit)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		ov, err := svc.Overview(c.UserContext(), clock(), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(ov)
	}
}

// GetSuggestion returns the seasonal suggestion for ?date=YYYY-MM-DD, or for today in loc.
//
// @Summary Seasonal suggestion
// @Tags dashboard
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} model.Suggestion
// @Failure 400 {object} errorPayload
// @Router /api/v1/suggestion [get]
func GetSuggestion(clock func() time.Time, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := clock().In(loc)
		if s := c.Query("date"); s != "" {
			d, err := time.ParseInLocation(time.DateOnly, s, loc)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			}
			date = d
		}
		return c.JSON(suggestion.For(date))
	}
}

// StoreDocuments exposes the raw store contents in insertion order for remote clients.
//
// @Summary Raw store listing
// @Tags store
// @Success 200 {array} model.Document
// @Router /api/v1/store/documents [get]
func StoreDocuments(repo repository.DocumentRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := repo.ListAll(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(docs)
	}
}

// parseFilter reads ?search= and repeated or comma-separated ?type=.
func parseFilter(c *fiber.Ctx) model.Filter {
	f := model.Filter{Search: c.Query("search")}
	for _, raw := range c.Context().QueryArgs().PeekMulti("type") {
		f.Types = append(f.Types, strings.Split(string(raw), ",")...)
	}
	return f.Normalize()
}

func parseSort(c *fiber.Ctx) (model.SortSpec, bool) {
	field, err := model.ParseSortField(c.Query("sort"))
	if err != nil {
		return model.SortSpec{}, false
	}
	dir, err := model.ParseSortDirection(c.Query("dir"))
	if err != nil {
		return model.SortSpec{}, false
	}
	if field == model.SortNone {
		return model.SortSpec{}, true
	}
	return model.SortSpec{Field: field, Direction: dir}, true
}

func parseLimit(c *fiber.Ctx, def int) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
