package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docdash/internal/events"
	"docdash/internal/model"
	"docdash/internal/repository"
	"docdash/internal/sorting"
	"docdash/internal/storage"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("document not found")
	ErrStorageUnavailable = errors.New("object storage is not configured")
	ErrNotStored          = errors.New("document content is not in object storage")
)

const (
	// DefaultRecencyDays is the trailing window for "recently uploaded".
	DefaultRecencyDays = 30
	// DefaultRecentLimit truncates the recent lists.
	DefaultRecentLimit = 3
	// DefaultPresignExpiry is how long a presigned download link stays valid.
	DefaultPresignExpiry = 15 * time.Minute
)

// QueryResult is the filtered view of the store.
type QueryResult struct {
	Documents []model.Document `json:"documents"`
	Total     int              `json:"total"`
}

// Overview bundles the KPI snapshot with both recent lists, computed from one read.
type Overview struct {
	KPIs             model.KPISnapshot `json:"kpis"`
	RecentlyViewed   []model.Document  `json:"recentlyViewed"`
	RecentlyUploaded []model.Document  `json:"recentlyUploaded"`
}

// FileInfo describes streamed document content.
type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// DocumentService defines the dashboard's read/query use cases plus the mark-viewed mutation.
// Every time-dependent operation takes "now" explicitly.
type DocumentService interface {
	// Query returns documents matching the search/type conjunction, in store order.
	Query(ctx context.Context, filter model.Filter) (*QueryResult, error)

	// ComputeKPIs counts all documents, viewed documents and documents uploaded within the recency window.
	ComputeKPIs(ctx context.Context, now time.Time) (*model.KPISnapshot, error)

	// ListTypes returns the distinct type labels sorted alphabetically.
	ListTypes(ctx context.Context) ([]string, error)

	// RecentlyViewed returns viewed documents, most recent first. limit <= 0 means no limit.
	RecentlyViewed(ctx context.Context, limit int) ([]model.Document, error)

	// RecentlyUploaded returns documents inside the recency window, newest first. limit <= 0 means no limit.
	RecentlyUploaded(ctx context.Context, now time.Time, limit int) ([]model.Document, error)

	// Overview computes the KPIs and both recent lists in a single pass.
	Overview(ctx context.Context, now time.Time, limit int) (*Overview, error)

	// Get returns a single document by ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// MarkViewed stamps LastViewed with now and publishes a DocumentViewed event.
	MarkViewed(ctx context.Context, id string, now time.Time) (*model.Document, error)

	// ResolveFile returns the locator and file name the preview and download surfaces need.
	ResolveFile(ctx context.Context, id string) (*model.DownloadLink, error)

	// OpenFile streams content for documents held in object storage.
	OpenFile(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error)

	// Export writes the filtered, sorted list as an XLSX workbook.
	Export(ctx context.Context, filter model.Filter, spec model.SortSpec, w io.Writer) error

	// Ping checks the backing store.
	Ping(ctx context.Context) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	repo          repository.DocumentRepository
	store         storage.Storage
	publisher     events.Publisher
	recencyDays   int
	presignExpiry time.Duration
	clock         func() time.Time
	viewed        prometheus.Counter
	log           *slog.Logger
	tracer        trace.Tracer
}

// Option configures the service.
type Option func(*documentService)

// WithStorage enables presigned links and streaming for s3:// locators.
func WithStorage(store storage.Storage, expiry time.Duration) Option {
	return func(s *documentService) {
		s.store = store
		if expiry > 0 {
			s.presignExpiry = expiry
		}
	}
}

// WithPublisher sets the DocumentViewed publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *documentService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithRecencyDays sets the "recently uploaded" window.
func WithRecencyDays(days int) Option {
	return func(s *documentService) {
		if days > 0 {
			s.recencyDays = days
		}
	}
}

// WithClock sets the clock used for link expiry timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *documentService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithViewedCounter counts successful MarkViewed calls.
func WithViewedCounter(c prometheus.Counter) Option {
	return func(s *documentService) { s.viewed = c }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *documentService) {
		if log != nil {
			s.log = log
		}
	}
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(repo repository.DocumentRepository, opts ...Option) DocumentService {
	s := &documentService{
		repo:          repo,
		publisher:     events.Noop{},
		recencyDays:   DefaultRecencyDays,
		presignExpiry: DefaultPresignExpiry,
		clock:         time.Now,
		log:           slog.Default(),
		tracer:        otel.Tracer("docdash/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *documentService) listAll(ctx context.Context, op string) ([]model.Document, trace.Span, context.Context, error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService."+op)
	docs, err := s.repo.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list documents")
		return nil, span, ctx, fmt.Errorf("list documents: %w", err)
	}
	span.SetAttributes(attribute.Int("docdash.store.size", len(docs)))
	return docs, span, ctx, nil
}

func (s *documentService) Query(ctx context.Context, filter model.Filter) (*QueryResult, error) {
	docs, span, _, err := s.listAll(ctx, "Query")
	defer span.End()
	if err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	span.SetAttributes(
		attribute.String("docdash.filter.search", filter.Search),
		attribute.StringSlice("docdash.filter.types", filter.Types),
	)

	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if filter.Matches(d) {
			out = append(out, d)
		}
	}
	return &QueryResult{Documents: out, Total: len(out)}, nil
}

func (s *documentService) ComputeKPIs(ctx context.Context, now time.Time) (*model.KPISnapshot, error) {
	docs, span, _, err := s.listAll(ctx, "ComputeKPIs")
	defer span.End()
	if err != nil {
		return nil, err
	}
	kpis := model.KPISnapshot{TotalDocuments: len(docs)}
	for _, d := range docs {
		if d.Viewed() {
			kpis.RecentlyViewed++
		}
		if s.uploadedWithin(d, now) {
			kpis.RecentlyUploaded++
		}
	}
	return &kpis, nil
}

func (s *documentService) ListTypes(ctx context.Context) ([]string, error) {
	docs, span, _, err := s.listAll(ctx, "ListTypes")
	defer span.End()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, d := range docs {
		if _, ok := seen[d.Type]; ok {
			continue
		}
		seen[d.Type] = struct{}{}
		types = append(types, d.Type)
	}
	sort.Strings(types)
	return types, nil
}

func (s *documentService) RecentlyViewed(ctx context.Context, limit int) ([]model.Document, error) {
	docs, span, _, err := s.listAll(ctx, "RecentlyViewed")
	defer span.End()
	if err != nil {
		return nil, err
	}
	viewed := make([]model.Document, 0)
	for _, d := range docs {
		if d.Viewed() {
			viewed = append(viewed, d)
		}
	}
	return newestFirst(viewed, model.SortLastViewed, limit), nil
}

func (s *documentService) RecentlyUploaded(ctx context.Context, now time.Time, limit int) ([]model.Document, error) {
	docs, span, _, err := s.listAll(ctx, "RecentlyUploaded")
	defer span.End()
	if err != nil {
		return nil, err
	}
	recent := make([]model.Document, 0)
	for _, d := range docs {
		if s.uploadedWithin(d, now) {
			recent = append(recent, d)
		}
	}
	return newestFirst(recent, model.SortUploadedDate, limit), nil
}

func (s *documentService) Overview(ctx context.Context, now time.Time, limit int) (*Overview, error) {
	docs, span, _, err := s.listAll(ctx, "Overview")
	defer span.End()
	if err != nil {
		return nil, err
	}
	out := &Overview{KPIs: model.KPISnapshot{TotalDocuments: len(docs)}}
	viewed := make([]model.Document, 0)
	uploaded := make([]model.Document, 0)
	for _, d := range docs {
		if d.Viewed() {
			viewed = append(viewed, d)
		}
		if s.uploadedWithin(d, now) {
			uploaded = append(uploaded, d)
		}
	}
	out.KPIs.RecentlyViewed = len(viewed)
	out.KPIs.RecentlyUploaded = len(uploaded)
	out.RecentlyViewed = newestFirst(viewed, model.SortLastViewed, limit)
	out.RecentlyUploaded = newestFirst(uploaded, model.SortUploadedDate, limit)
	return out, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	docs, span, _, err := s.listAll(ctx, "Get")
	defer span.End()
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (s *documentService) MarkViewed(ctx context.Context, id string, now time.Time) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ctx, span := s.tracer.Start(ctx, "DocumentService.MarkViewed",
		trace.WithAttributes(attribute.String("docdash.document.id", id)))
	defer span.End()

	doc, err := s.repo.MarkViewed(ctx, id, now)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			span.SetStatus(codes.Error, "not found")
			return nil, ErrNotFound
		}
		span.SetStatus(codes.Error, "mark viewed")
		return nil, fmt.Errorf("mark viewed: %w", err)
	}
	if s.viewed != nil {
		s.viewed.Inc()
	}

	evt := events.DocumentViewed{DocumentID: doc.ID, Name: doc.Name, ViewedAt: now}
	if err := s.publisher.PublishDocumentViewed(ctx, evt); err != nil {
		// The view is already recorded; the event is best effort.
		s.log.Warn("publish_document_viewed_failed", "document_id", id, "error", err)
	}
	return doc, nil
}

func (s *documentService) ResolveFile(ctx context.Context, id string) (*model.DownloadLink, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	link := &model.DownloadLink{DocumentID: doc.ID, URL: doc.FileURL, Filename: doc.Name}

	key, stored := storage.ObjectKey(doc.FileURL)
	if !stored {
		return link, nil
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	u, err := s.store.PresignGet(ctx, key, doc.Name, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	link.URL = u
	link.ExpiresAt = s.clock().Add(s.presignExpiry).UTC()
	return link, nil
}

func (s *documentService) OpenFile(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	key, stored := storage.ObjectKey(doc.FileURL)
	if !stored {
		return nil, nil, ErrNotStored
	}
	if s.store == nil {
		return nil, nil, ErrStorageUnavailable
	}
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("get object %s: %w", key, err)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	return rc, &FileInfo{Filename: doc.Name, ContentType: contentType, Size: info.Size}, nil
}

func (s *documentService) Export(ctx context.Context, filter model.Filter, spec model.SortSpec, w io.Writer) error {
	res, err := s.Query(ctx, filter)
	if err != nil {
		return err
	}
	return writeWorkbook(w, sorting.Sort(res.Documents, spec))
}

func (s *documentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// uploadedWithin reports whether d was uploaded in [now - recencyDays, now].
func (s *documentService) uploadedWithin(d model.Document, now time.Time) bool {
	from := now.AddDate(0, 0, -s.recencyDays)
	return !d.UploadedDate.Before(from) && !d.UploadedDate.After(now)
}

func newestFirst(docs []model.Document, field model.SortField, limit int) []model.Document {
	sorted := sorting.Sort(docs, model.SortSpec{Field: field, Direction: model.Descending})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
