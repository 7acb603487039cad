package mocks

import (
	"context"
	"io"
	"time"

	"docdash/internal/model"
	"docdash/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

var _ service.DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) Query(ctx context.Context, filter model.Filter) (*service.QueryResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QueryResult), args.Error(1)
}

func (m *MockDocumentService) ComputeKPIs(ctx context.Context, now time.Time) (*model.KPISnapshot, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.KPISnapshot), args.Error(1)
}

func (m *MockDocumentService) ListTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentService) RecentlyViewed(ctx context.Context, limit int) ([]model.Document, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) RecentlyUploaded(ctx context.Context, now time.Time, limit int) ([]model.Document, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Overview(ctx context.Context, now time.Time, limit int) (*service.Overview, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Overview), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) MarkViewed(ctx context.Context, id string, now time.Time) (*model.Document, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ResolveFile(ctx context.Context, id string) (*model.DownloadLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DownloadLink), args.Error(1)
}

func (m *MockDocumentService) OpenFile(ctx context.Context, id string) (io.ReadCloser, *service.FileInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*service.FileInfo), args.Error(2)
}

func (m *MockDocumentService) Export(ctx context.Context, filter model.Filter, spec model.SortSpec, w io.Writer) error {
	args := m.Called(ctx, filter, spec, w)
	return args.Error(0)
}

func (m *MockDocumentService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
