package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docdash/docs"
	"docdash/internal/config"
	"docdash/internal/database"
	"docdash/internal/database/migration"
	"docdash/internal/events"
	handlers "docdash/internal/http/handler"
	"docdash/internal/http/middleware"
	"docdash/internal/logging"
	"docdash/internal/model"
	"docdash/internal/otel"
	"docdash/internal/repository"
	"docdash/internal/repository/memory"
	"docdash/internal/repository/postgres"
	"docdash/internal/resilience"
	"docdash/internal/seed"
	"docdash/internal/service"
	"docdash/internal/storage"
)

// @title Document Dashboard API
// @version 1.0
// @description Query, KPI and seasonal suggestion endpoints of the document dashboard.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.NewJSONLogger("docdash-api", cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "docdash", log)
	if err != nil {
		fatal(log, "tracing_init_failed", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	seedDocs, err := seed.Load(cfg.Store.SeedFile)
	if err != nil {
		fatal(log, "seed_load_failed", err)
	}

	repo, db, err := openStore(ctx, cfg, seedDocs, log)
	if err != nil {
		fatal(log, "store_init_failed", err)
	}
	if db != nil {
		defer db.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	viewed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "docdash_documents_viewed_total",
		Help: "Documents marked as viewed.",
	})
	reg.MustRegister(viewed)

	opts := []service.Option{
		service.WithRecencyDays(cfg.Dashboard.RecencyDays),
		service.WithViewedCounter(viewed),
		service.WithLogger(log),
	}

	// Object storage is optional; without it file locators are returned as-is.
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			fatal(log, "object_storage_init_failed", err)
		}
		opts = append(opts, service.WithStorage(objStore, time.Duration(cfg.MinIO.PresignExpirySec)*time.Second))
	}

	if cfg.NATS.URL != "" {
		exec := resilience.NewExecutor(resilience.DefaultConfig(), log)
		pub, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, exec, log)
		if err != nil {
			fatal(log, "nats_init_failed", err)
		}
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))
	}

	docSvc := service.NewDocumentService(repo, opts...)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// RequestID runs first so the access log and error envelope can read it.
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger())

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterRoutes(app, repo, docSvc, handlers.RouteConfig{
		Clock:       time.Now,
		Location:    cfg.Location(),
		RecentLimit: cfg.Dashboard.RecentLimit,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Error("server_shutdown_failed", "error", err)
		}
	}()

	log.Info("server_starting", "port", cfg.Port, "store_backend", cfg.Store.Backend, "documents", len(seedDocs))
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal(log, "server_failed", err)
	}
	log.Info("server_stopped")
}

// openStore builds the configured document store. The database handle is nil for the memory backend.
func openStore(ctx context.Context, cfg *config.AppConfig, seedDocs []model.Document, log *slog.Logger) (repository.DocumentRepository, *sql.DB, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		var opts []memory.Option
		if cfg.Store.LatencyEnabled {
			opts = append(opts, memory.WithLatency(memory.DefaultLatency()))
		}
		return memory.NewDocumentMemory(seedDocs, opts...), nil, nil
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		repo := postgres.NewDocumentPostgres(db)
		n, err := repo.SeedIfEmpty(ctx, seedDocs)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("store_seeded", "inserted", n)
		return repo, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

func fatal(log *slog.Logger, event string, err error) {
	log.Error(event, "error", err)
	os.Exit(1)
}
