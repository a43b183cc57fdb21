package mocks

import (
	"context"

	"bazaar/catalog-service/internal/app/catalog/repository"

	"github.com/stretchr/testify/mock"
)

// MockTable мок для repository.Table
type MockTable[T repository.Row] struct {
	mock.Mock
}

func (m *MockTable[T]) Select(ctx context.Context, filters ...repository.Filter) ([]T, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockTable[T]) Insert(ctx context.Context, row *T) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockTable[T]) Update(ctx context.Context, values map[string]interface{}, filters ...repository.Filter) (int64, error) {
	args := m.Called(ctx, values, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTable[T]) Delete(ctx context.Context, filters ...repository.Filter) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

// MockPendingCascadeRepository мок для PendingCascadeRepository
type MockPendingCascadeRepository struct {
	mock.Mock
}

func (m *MockPendingCascadeRepository) Add(ctx context.Context, categoryID int64) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

func (m *MockPendingCascadeRepository) Remove(ctx context.Context, categoryID int64) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

func (m *MockPendingCascadeRepository) List(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockPendingCascadeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockBlobStorage мок для infrastructure.BlobStorage
type MockBlobStorage struct {
	mock.Mock
}

func (m *MockBlobStorage) Upload(ctx context.Context, bucket, key, contentType string, payload []byte) error {
	args := m.Called(ctx, bucket, key, contentType, payload)
	return args.Error(0)
}

func (m *MockBlobStorage) PublicURL(bucket, key string) string {
	args := m.Called(bucket, key)
	return args.String(0)
}

// MockMessagePublisher мок для infrastructure.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
