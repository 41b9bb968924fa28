package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feed-hub/domain"
)

// MockFeedStorePort is a mock implementation of port.FeedStorePort.
type MockFeedStorePort struct {
	mock.Mock
}

func (m *MockFeedStorePort) PublishItem(ctx context.Context, feed domain.FeedConfig, id, content string) (*domain.PublishReceipt, error) {
	args := m.Called(ctx, feed, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublishReceipt), args.Error(1)
}

func (m *MockFeedStorePort) RetractItem(ctx context.Context, feed domain.FeedConfig, id string) error {
	args := m.Called(ctx, feed, id)
	return args.Error(0)
}

func (m *MockFeedStorePort) GetIDs(ctx context.Context, feed domain.FeedName) ([]string, error) {
	args := m.Called(ctx, feed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFeedStorePort) GetItem(ctx context.Context, feed domain.FeedName, id string) (string, error) {
	args := m.Called(ctx, feed, id)
	return args.String(0), args.Error(1)
}

func (m *MockFeedStorePort) GetAll(ctx context.Context, feed domain.FeedName) (map[string]string, error) {
	args := m.Called(ctx, feed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockFeedStorePort) PublishCount(ctx context.Context, feed domain.FeedName) (int64, error) {
	args := m.Called(ctx, feed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFeedStorePort) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestFeedUsecase_Publish(t *testing.T) {
	feed := domain.FeedConfig{Name: "news", MaxLength: 5}

	t.Run("publishes with the caller's id", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		uc := NewFeedUsecase(mockPort, feed)

		ctx := context.Background()
		receipt := &domain.PublishReceipt{ID: "a1", WasNew: true}
		mockPort.On("PublishItem", ctx, feed, "a1", "hello").Return(receipt, nil)

		result, err := uc.Publish(ctx, "hello", "a1")

		require.NoError(t, err)
		assert.Equal(t, "a1", result.ID)
		assert.Equal(t, "hello", result.Content)
		assert.False(t, result.Edited)
		assert.Empty(t, result.Evicted)
		mockPort.AssertExpectations(t)
	})

	t.Run("generates a unique id when omitted", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		uc := NewFeedUsecase(mockPort, feed)

		ctx := context.Background()
		mockPort.On("PublishItem", ctx, feed, mock.MatchedBy(func(id string) bool {
			_, err := uuid.Parse(id)
			return err == nil
		}), "hello").Return(&domain.PublishReceipt{WasNew: true}, nil)

		_, err := uc.Publish(ctx, "hello", "")

		require.NoError(t, err)
		mockPort.AssertExpectations(t)
	})

	t.Run("reports an edit for an existing id", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		uc := NewFeedUsecase(mockPort, feed)

		ctx := context.Background()
		receipt := &domain.PublishReceipt{ID: "a1", WasNew: false, Evicted: []string{"z9"}}
		mockPort.On("PublishItem", ctx, feed, "a1", "v2").Return(receipt, nil)

		result, err := uc.Publish(ctx, "v2", "a1")

		require.NoError(t, err)
		assert.True(t, result.Edited)
		assert.Equal(t, []string{"z9"}, result.Evicted)
		mockPort.AssertExpectations(t)
	})

	t.Run("returns error when the store fails", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		uc := NewFeedUsecase(mockPort, feed)

		ctx := context.Background()
		mockPort.On("PublishItem", ctx, feed, "a1", "x").Return(nil, errors.New("redis error"))

		_, err := uc.Publish(ctx, "x", "a1")

		require.Error(t, err)
		mockPort.AssertExpectations(t)
	})
}

func TestFeedUsecase_Retract(t *testing.T) {
	feed := domain.FeedConfig{Name: "news"}

	t.Run("retracts an existing item", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		uc := NewFeedUsecase(mockPort, feed)

		ctx := context.Background()
		mockPort.On("RetractItem", ctx, feed, "a1").Return(nil)

		err := uc.Retract(ctx, "a1")

		require.NoError(t, err)
		mockPort.AssertExpectations(t)
	})

	t.Run("surfaces not found to the caller", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		uc := NewFeedUsecase(mockPort, feed)

		ctx := context.Background()
		mockPort.On("RetractItem", ctx, feed, "missing").Return(domain.ErrItemNotFound)

		err := uc.Retract(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		mockPort.AssertExpectations(t)
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Run("returns the same handle for the same name", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		registry := NewRegistry(mockPort, 10)

		first := registry.Get("news")
		second := registry.Get("news")

		assert.Same(t, first, second)
	})

	t.Run("applies the default bound", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		registry := NewRegistry(mockPort, 10)

		uc := registry.Get("news")

		assert.Equal(t, domain.FeedConfig{Name: "news", MaxLength: 10}, uc.Feed())
	})

	t.Run("configure overrides the default", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		registry := NewRegistry(mockPort, 10)

		configured, err := registry.Configure(domain.FeedConfig{Name: "news", MaxLength: 2})
		require.NoError(t, err)

		assert.Equal(t, int64(2), configured.Feed().MaxLength)
		assert.Same(t, configured, registry.Get("news"))
	})

	t.Run("configure rejects invalid config", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		registry := NewRegistry(mockPort, 0)

		_, err := registry.Configure(domain.FeedConfig{MaxLength: 2})

		require.Error(t, err)
	})
}

func TestRegistry_HealthCheck(t *testing.T) {
	t.Run("reports healthy when redis responds", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		registry := NewRegistry(mockPort, 0)

		ctx := context.Background()
		mockPort.On("Ping", ctx).Return(nil)

		health := registry.HealthCheck(ctx)

		assert.True(t, health.Healthy)
		assert.Equal(t, "connected", health.RedisStatus)
		mockPort.AssertExpectations(t)
	})

	t.Run("reports unhealthy when redis is down", func(t *testing.T) {
		mockPort := new(MockFeedStorePort)
		registry := NewRegistry(mockPort, 0)

		ctx := context.Background()
		mockPort.On("Ping", ctx).Return(errors.New("connection refused"))

		health := registry.HealthCheck(ctx)

		assert.False(t, health.Healthy)
		assert.Equal(t, "connection refused", health.RedisStatus)
		mockPort.AssertExpectations(t)
	})
}
