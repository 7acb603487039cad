package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docdash/internal/repository"
	"docdash/internal/service"
)

// RouteConfig carries the request-independent inputs of the dashboard endpoints.
type RouteConfig struct {
	Clock       func() time.Time
	Location    *time.Location
	RecentLimit int
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only parse input and map errors; all dashboard logic lives in the service.
func RegisterRoutes(app *fiber.App, repo repository.DocumentRepository, docSvc service.DocumentService, cfg RouteConfig) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RecentLimit == 0 {
		cfg.RecentLimit = service.DefaultRecentLimit
	}

	// Readiness checks the document store; liveness never does.
	app.Get("/health", HealthCheck(docSvc))
	app.Get("/healthz", LivenessProbe())

	v1 := app.Group("/api/v1")

	// Static segments are registered before /documents/:id so they are not captured as IDs.
	docs := v1.Group("/documents")
	docs.Get("/", QueryDocuments(docSvc))
	docs.Get("/types", ListTypes(docSvc))
	docs.Get("/recent/viewed", RecentlyViewed(docSvc, cfg.RecentLimit))
	docs.Get("/recent/uploaded", RecentlyUploaded(docSvc, cfg.Clock, cfg.RecentLimit))
	docs.Get("/export.xlsx", ExportDocuments(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Post("/:id/view", MarkViewed(docSvc, cfg.Clock))
	docs.Get("/:id/download", DownloadDocument(docSvc))

	v1.Get("/kpis", GetKPIs(docSvc, cfg.Clock))
	v1.Get("/overview", GetOverview(docSvc, cfg.Clock, cfg.RecentLimit))
	v1.Get("/suggestion", GetSuggestion(cfg.Clock, cfg.Location))

	if repo != nil {
		v1.Get("/store/documents", StoreDocuments(repo))
	}
}
