// Package dashboard holds the view state of the document dashboard and coordinates
// every read and the mark-viewed write against the query service.
//
// All methods are safe for concurrent use. Mutators return immediately; queries issued by
// filter changes run in the background and report through Options.OnChange.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"docdash/internal/model"
	"docdash/internal/resilience"
	"docdash/internal/service"
	"docdash/internal/sorting"
	"docdash/internal/suggestion"
)

const (
	DefaultDebounce        = 300 * time.Millisecond
	DefaultRecentLimit     = 3
	DefaultNotificationTTL = 4 * time.Second
)

var (
	ErrClosed            = errors.New("dashboard is closed")
	ErrDocumentNotLoaded = errors.New("document is not loaded")
)

// Options configures a Controller. Zero values take the package defaults.
type Options struct {
	Debounce        time.Duration
	RecentLimit     int
	NotificationTTL time.Duration
	Clock           func() time.Time
	// Refresh is the retry policy of the background refresh after a document is viewed.
	Refresh resilience.Config
	Logger  *slog.Logger
	// OnChange receives a snapshot after every state change. It must not block
	// and must not call Controller mutators synchronously.
	OnChange func(State)
}

// Controller is the view state controller.
type Controller struct {
	svc  service.DocumentService
	opts Options
	exec *resilience.Executor
	log  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	emitMu sync.Mutex

	mu          sync.Mutex
	state       State
	loaded      []model.Document // query result in store order
	tokens      map[Slice]uint64
	debounce    *time.Timer
	debounceGen uint64
	notifyTimer *time.Timer
	notifyGen   uint64
	marking     int
	stats       Stats
	closed      bool
}

// New creates a Controller. Call Mount to load the initial data.
func New(svc service.DocumentService, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.RecentLimit == 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = DefaultNotificationTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	log := opts.Logger.With("component", "dashboard")
	return &Controller{
		svc:    svc,
		opts:   opts,
		exec:   resilience.NewExecutor(opts.Refresh, log),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		tokens: make(map[Slice]uint64, len(allSlices)),
		state: State{
			Status: Statuses{
				Documents:        StatusIdle,
				KPIs:             StatusIdle,
				Types:            StatusIdle,
				RecentlyViewed:   StatusIdle,
				RecentlyUploaded: StatusIdle,
			},
			Documents:        []model.Document{},
			Types:            []string{},
			RecentlyViewed:   []model.Document{},
			RecentlyUploaded: []model.Document{},
		},
	}
}

// State returns a deep copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Stats returns activity counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Mount issues the five reads concurrently and waits for all of them.
// A failed read marks only its own slice; the first error is returned.
func (c *Controller) Mount(ctx context.Context) error {
	now := c.opts.Clock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	tokens := make(map[Slice]uint64, len(allSlices))
	for _, s := range allSlices {
		tokens[s] = c.issueLocked(s)
		c.state.Status.set(s, StatusLoading)
	}
	c.state.Suggestion = suggestion.For(now)
	filter := c.state.Filter.Clone()
	c.mu.Unlock()
	c.emit()

	var g errgroup.Group
	g.Go(func() error { return c.loadDocuments(ctx, tokens[SliceDocuments], filter) })
	g.Go(func() error { return c.loadKPIs(ctx, tokens[SliceKPIs], now, false) })
	g.Go(func() error { return c.loadTypes(ctx, tokens[SliceTypes]) })
	g.Go(func() error { return c.loadRecentlyViewed(ctx, tokens[SliceRecentlyViewed], false) })
	g.Go(func() error { return c.loadRecentlyUploaded(ctx, tokens[SliceRecentlyUploaded], now) })
	return g.Wait()
}

// Refresh reloads every slice, keeping the current filter and sort.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Mount(ctx)
}

// SetSearch changes the search term and schedules a debounced query.
func (c *Controller) SetSearch(term string) {
	c.updateFilter(func(f *model.Filter) { f.Search = term })
}

// SetTypes replaces the type filter and schedules a debounced query.
func (c *Controller) SetTypes(types []string) {
	c.updateFilter(func(f *model.Filter) { f.Types = append([]string(nil), types...) })
}

// ToggleType adds t to the type filter, or removes it when present.
func (c *Controller) ToggleType(t string) {
	c.updateFilter(func(f *model.Filter) {
		for i, v := range f.Types {
			if v == t {
				f.Types = append(f.Types[:i:i], f.Types[i+1:]...)
				return
			}
		}
		f.Types = append(f.Types, t)
	})
}

// SetFilter replaces search term and types together.
func (c *Controller) SetFilter(filter model.Filter) {
	c.updateFilter(func(f *model.Filter) { *f = filter.Clone() })
}

func (c *Controller) updateFilter(change func(*model.Filter)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	f := c.state.Filter.Clone()
	change(&f)
	c.state.Filter = f.Normalize()
	c.scheduleQueryLocked()
	c.mu.Unlock()
	c.emit()
}

// scheduleQueryLocked (re)starts the debounce timer. Only the filter current when the timer
// fires is queried.
func (c *Controller) scheduleQueryLocked() {
	c.stopDebounceLocked()
	gen := c.debounceGen
	c.debounce = time.AfterFunc(c.opts.Debounce, func() { c.fireQuery(gen) })
}

func (c *Controller) stopDebounceLocked() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.debounceGen++
}

func (c *Controller) fireQuery(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.debounceGen {
		c.mu.Unlock()
		return
	}
	c.debounce = nil
	c.startQueryLocked()
	c.mu.Unlock()
	c.emit()
}

// startQueryLocked issues a document query for the current filter in the background.
func (c *Controller) startQueryLocked() {
	token := c.issueLocked(SliceDocuments)
	filter := c.state.Filter.Clone()
	c.state.Status.set(SliceDocuments, StatusLoading)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.loadDocuments(c.ctx, token, filter)
	}()
}

// SortBy toggles the sort on field and re-derives the visible list without querying.
func (c *Controller) SortBy(field model.SortField) {
	c.mu.Lock()
	c.state.Sort = sorting.Toggle(c.state.Sort, field)
	c.state.Documents = sorting.Sort(c.loaded, c.state.Sort)
	c.mu.Unlock()
	c.emit()
}

// ClearFilters empties search and types, drops any pending query and the suggestion
// notification, and queries once with the empty filter.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopDebounceLocked()
	c.clearNotificationLocked()
	c.state.Filter = model.Filter{}
	c.startQueryLocked()
	c.mu.Unlock()
	c.emit()
}

// ApplySuggestion applies the seasonal preset for now through the filter-change path
// and shows a transient notification.
func (c *Controller) ApplySuggestion(now time.Time) model.Suggestion {
	s := suggestion.For(now)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return s
	}
	c.state.Suggestion = s
	c.state.Filter = s.Filter().Normalize()
	c.scheduleQueryLocked()
	c.notifyLocked(s.Notification())
	c.mu.Unlock()
	c.emit()
	return s
}

// DismissNotification hides the notification immediately.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	c.clearNotificationLocked()
	c.mu.Unlock()
	c.emit()
}

func (c *Controller) notifyLocked(msg string) {
	c.clearNotificationLocked()
	if c.closed {
		return
	}
	gen := c.notifyGen
	c.state.Notification = msg
	c.notifyTimer = time.AfterFunc(c.opts.NotificationTTL, func() { c.expireNotification(gen) })
}

func (c *Controller) clearNotificationLocked() {
	if c.notifyTimer != nil {
		c.notifyTimer.Stop()
		c.notifyTimer = nil
	}
	c.notifyGen++
	c.state.Notification = ""
}

func (c *Controller) expireNotification(gen uint64) {
	c.mu.Lock()
	if gen != c.notifyGen {
		c.mu.Unlock()
		return
	}
	c.notifyTimer = nil
	c.state.Notification = ""
	c.mu.Unlock()
	c.emit()
}

// ViewDocument selects a loaded document and opens the preview, then marks it viewed
// in the background and refreshes the KPIs and the recently viewed list.
func (c *Controller) ViewDocument(id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	doc, ok := c.findLocked(id)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDocumentNotLoaded, id)
	}
	c.state.Selected = &doc
	c.state.PreviewOpen = true
	c.marking++
	c.state.MarkingViewed = true
	c.wg.Add(1)
	c.mu.Unlock()
	c.emit()

	go func() {
		defer c.wg.Done()
		c.markViewed(doc)
	}()
	return nil
}

// ClosePreview hides the preview; the selection is dropped with it.
func (c *Controller) ClosePreview() {
	c.mu.Lock()
	c.state.PreviewOpen = false
	c.state.Selected = nil
	c.mu.Unlock()
	c.emit()
}

// Download resolves the locator and file name for the download trigger.
func (c *Controller) Download(ctx context.Context, id string) (*model.DownloadLink, error) {
	return c.svc.ResolveFile(ctx, id)
}

// Close stops pending timers, cancels background work and waits for it to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopDebounceLocked()
	if c.notifyTimer != nil {
		c.notifyTimer.Stop()
		c.notifyTimer = nil
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) markViewed(doc model.Document) {
	now := c.opts.Clock()
	_, err := c.svc.MarkViewed(c.ctx, doc.ID, now)

	c.mu.Lock()
	c.marking--
	c.state.MarkingViewed = c.marking > 0
	if err != nil {
		c.stats.MarkFailures++
		if errors.Is(err, service.ErrNotFound) {
			c.notifyLocked(fmt.Sprintf("%s is no longer available", doc.Name))
		}
		c.mu.Unlock()
		c.log.Warn("mark_viewed_failed", "document_id", doc.ID, "error", err)
		c.emit()
		return
	}
	c.applyViewedLocked(doc.ID, now)
	c.mu.Unlock()
	c.emit()

	c.refreshAfterView(now)
}

// refreshAfterView is best effort: failures are logged and the slices keep their data.
func (c *Controller) refreshAfterView(now time.Time) {
	err := c.exec.Execute(c.ctx, "dashboard.refresh_kpis", func(ctx context.Context) error {
		return c.loadKPIs(ctx, c.issue(SliceKPIs), now, true)
	}, nil)
	if err != nil {
		c.log.Warn("refresh_failed", "slice", SliceKPIs, "error", err)
	}
	err = c.exec.Execute(c.ctx, "dashboard.refresh_recently_viewed", func(ctx context.Context) error {
		return c.loadRecentlyViewed(ctx, c.issue(SliceRecentlyViewed), true)
	}, nil)
	if err != nil {
		c.log.Warn("refresh_failed", "slice", SliceRecentlyViewed, "error", err)
	}
}

// applyViewedLocked stamps the local copies so the table reflects the view before the refresh lands.
func (c *Controller) applyViewedLocked(id string, at time.Time) {
	for i := range c.loaded {
		if c.loaded[i].ID == id {
			t := at
			c.loaded[i].LastViewed = &t
		}
	}
	c.state.Documents = sorting.Sort(c.loaded, c.state.Sort)
	if c.state.Selected != nil && c.state.Selected.ID == id {
		t := at
		c.state.Selected.LastViewed = &t
	}
}

func (c *Controller) findLocked(id string) (model.Document, bool) {
	for _, list := range [][]model.Document{c.loaded, c.state.RecentlyViewed, c.state.RecentlyUploaded} {
		for _, d := range list {
			if d.ID == id {
				return d.Clone(), true
			}
		}
	}
	return model.Document{}, false
}

func (c *Controller) issue(s Slice) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueLocked(s)
}

// issueLocked returns a new token for s; only the response carrying the latest token is applied.
func (c *Controller) issueLocked(s Slice) uint64 {
	c.tokens[s]++
	if s == SliceDocuments {
		c.stats.QueriesIssued++
	}
	return c.tokens[s]
}

func (c *Controller) loadDocuments(ctx context.Context, token uint64, filter model.Filter) error {
	return load(c, ctx, SliceDocuments, token, false,
		func(ctx context.Context) (*service.QueryResult, error) { return c.svc.Query(ctx, filter) },
		func(res *service.QueryResult) {
			c.loaded = model.CloneAll(res.Documents)
			c.state.Documents = sorting.Sort(c.loaded, c.state.Sort)
		})
}

func (c *Controller) loadKPIs(ctx context.Context, token uint64, now time.Time, quiet bool) error {
	return load(c, ctx, SliceKPIs, token, quiet,
		func(ctx context.Context) (*model.KPISnapshot, error) { return c.svc.ComputeKPIs(ctx, now) },
		func(k *model.KPISnapshot) { c.state.KPIs = *k })
}

func (c *Controller) loadTypes(ctx context.Context, token uint64) error {
	return load(c, ctx, SliceTypes, token, false,
		c.svc.ListTypes,
		func(types []string) { c.state.Types = append([]string{}, types...) })
}

func (c *Controller) loadRecentlyViewed(ctx context.Context, token uint64, quiet bool) error {
	return load(c, ctx, SliceRecentlyViewed, token, quiet,
		func(ctx context.Context) ([]model.Document, error) { return c.svc.RecentlyViewed(ctx, c.opts.RecentLimit) },
		func(docs []model.Document) { c.state.RecentlyViewed = model.CloneAll(docs) })
}

func (c *Controller) loadRecentlyUploaded(ctx context.Context, token uint64, now time.Time) error {
	return load(c, ctx, SliceRecentlyUploaded, token, false,
		func(ctx context.Context) ([]model.Document, error) {
			return c.svc.RecentlyUploaded(ctx, now, c.opts.RecentLimit)
		},
		func(docs []model.Document) { c.state.RecentlyUploaded = model.CloneAll(docs) })
}

// load runs fetch and applies its result under the lock unless a newer request for the same
// slice was issued meanwhile. A quiet load never touches the slice status.
func load[T any](c *Controller, ctx context.Context, s Slice, token uint64, quiet bool,
	fetch func(context.Context) (T, error), apply func(T)) error {
	v, err := fetch(ctx)

	c.mu.Lock()
	if token != c.tokens[s] {
		c.stats.StaleDiscarded++
		c.mu.Unlock()
		c.log.Debug("stale_response_discarded", "slice", s, "token", token)
		return nil
	}
	if err != nil {
		c.stats.FetchFailures++
		if !quiet {
			c.state.Status.set(s, StatusError)
		}
		c.mu.Unlock()
		c.log.Warn("fetch_failed", "slice", s, "error", err)
		c.emit()
		return fmt.Errorf("fetch %s: %w", s, err)
	}
	apply(v)
	if !quiet {
		c.state.Status.set(s, StatusIdle)
	}
	c.mu.Unlock()
	c.emit()
	return nil
}

func (c *Controller) emit() {
	if c.opts.OnChange == nil {
		return
	}
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	c.opts.OnChange(c.State())
}
