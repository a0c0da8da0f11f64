package search

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"marketplace/server/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of the ListingQuerier interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) QueryListings(ctx context.Context, p Predicate) ([]models.Listing, int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]models.Listing), args.Get(1).(int64), args.Error(2)
}

func TestServiceSearch(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(12, 100)

	t.Run("Builds predicate and paginates", func(t *testing.T) {
		store := &MockStore{}
		raw := url.Values{"mode": {"rent"}, "city": {"Phoenix"}, "state": {"AZ"}, "page": {"2"}}
		expected := Build(normalizer.Normalize(raw), ScopePublic)

		rows := []models.Listing{{ID: 1}, {ID: 2}, {ID: 3}}
		store.On("QueryListings", ctx, expected).Return(rows, int64(15), nil)

		svc := NewService(store, normalizer, logrus.New())
		result, err := svc.Search(ctx, raw)
		require.NoError(t, err)

		assert.Equal(t, rows, result.Data)
		assert.Equal(t, Pagination{Page: 2, Limit: 12, Total: 15, Pages: 2}, result.Pagination)
		store.AssertExpectations(t)
	})

	t.Run("Distance post-filter keeps pre-filter total", func(t *testing.T) {
		store := &MockStore{}
		rows := []models.Listing{
			located(1, 33.4484, -112.074),
			located(2, 32.2226, -110.9747),
			{ID: 3},
		}
		store.On("QueryListings", ctx, mock.Anything).Return(rows, int64(3), nil)

		svc := NewService(store, normalizer, nil)
		result, err := svc.Search(ctx, url.Values{"lat": {"33.45"}, "lng": {"-112.07"}, "distance": {"10"}})
		require.NoError(t, err)

		require.Len(t, result.Data, 2)
		assert.NotNil(t, result.Data[0].DistanceFromSearch)
		assert.Nil(t, result.Data[1].DistanceFromSearch)
		assert.Equal(t, int64(3), result.Pagination.Total)
	})

	t.Run("Empty result is an empty slice", func(t *testing.T) {
		store := &MockStore{}
		store.On("QueryListings", ctx, mock.Anything).Return([]models.Listing(nil), int64(0), nil)

		result, err := NewService(store, normalizer, nil).Search(ctx, url.Values{})
		require.NoError(t, err)
		assert.NotNil(t, result.Data)
		assert.Empty(t, result.Data)
		assert.Equal(t, 0, result.Pagination.Pages)
	})

	t.Run("Store failure is returned", func(t *testing.T) {
		store := &MockStore{}
		store.On("QueryListings", ctx, mock.Anything).Return([]models.Listing(nil), int64(0), errors.New("disk I/O error")).Once()

		_, err := NewService(store, normalizer, nil).Search(ctx, url.Values{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk I/O error")
		store.AssertNumberOfCalls(t, "QueryListings", 1)
	})
}
