package memory

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"docdash/internal/model"
	"docdash/internal/repository"
)

// Latency is a simulated response time range. A zero range disables the delay.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// LatencyProfile holds the simulated delay for each store operation.
type LatencyProfile struct {
	List       Latency
	MarkViewed Latency
}

// DefaultLatency mirrors the response times of the dashboard's mock backend.
func DefaultLatency() LatencyProfile {
	return LatencyProfile{
		List:       Latency{Min: 800 * time.Millisecond, Max: 1200 * time.Millisecond},
		MarkViewed: Latency{Min: 200 * time.Millisecond, Max: 300 * time.Millisecond},
	}
}

// DocumentMemory is an in-memory implementation of repository.DocumentRepository.
// It is safe for concurrent use; MarkViewed calls for the same ID are serialized.
type DocumentMemory struct {
	mu    sync.RWMutex
	docs  []model.Document
	index map[string]int

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	latency LatencyProfile
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

// Option configures a DocumentMemory.
type Option func(*DocumentMemory)

// WithLatency enables simulated latency.
func WithLatency(p LatencyProfile) Option {
	return func(m *DocumentMemory) { m.latency = p }
}

// NewDocumentMemory creates a store seeded with docs. Documents are copied; IDs are assumed
// unique (seed.Validate enforces it). A later duplicate replaces the index entry of an earlier one.
func NewDocumentMemory(docs []model.Document, opts ...Option) *DocumentMemory {
	m := &DocumentMemory{
		docs:  model.CloneAll(docs),
		index: make(map[string]int, len(docs)),
		locks: make(map[string]*sync.Mutex),
	}
	for i, d := range m.docs {
		m.index[d.ID] = i
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ListAll returns a copy of every document in insertion order.
func (m *DocumentMemory) ListAll(ctx context.Context) ([]model.Document, error) {
	if err := sleep(ctx, m.latency.List); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return model.CloneAll(m.docs), nil
}

// MarkViewed sets LastViewed for id. Unknown IDs return repository.ErrNotFound.
func (m *DocumentMemory) MarkViewed(ctx context.Context, id string, at time.Time) (*model.Document, error) {
	lock := m.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if err := sleep(ctx, m.latency.MarkViewed); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	viewed := at
	m.docs[i].LastViewed = &viewed
	out := m.docs[i].Clone()
	return &out, nil
}

// Ping always succeeds for the in-memory store.
func (m *DocumentMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *DocumentMemory) lockFor(id string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func sleep(ctx context.Context, l Latency) error {
	d := l.Min
	if l.Max > l.Min {
		d += rand.N(l.Max - l.Min)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
