package searchclient

import (
	"net/url"
	"testing"

	"marketplace/server/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	n := search.NewNormalizer(12, 100)
	start := n.Normalize(url.Values{"city": {"Phoenix"}, "state": {"AZ"}, "page": {"3"}})

	t.Run("Filter change resets page", func(t *testing.T) {
		next := Reduce(n, start, url.Values{"minPrice": {"50"}})
		assert.Equal(t, 1, next.Page)
		require.NotNil(t, next.MinPrice)
		assert.Equal(t, 50.0, *next.MinPrice)
		assert.Equal(t, "Phoenix", next.City)
	})

	t.Run("Page change keeps filters", func(t *testing.T) {
		next := Reduce(n, start, url.Values{"page": {"4"}})
		assert.Equal(t, 4, next.Page)
		assert.Equal(t, "Phoenix", next.City)
	})

	t.Run("No changes is identity", func(t *testing.T) {
		assert.Equal(t, start, Reduce(n, start, url.Values{}))
	})

	t.Run("Input is not mutated", func(t *testing.T) {
		before := start
		Reduce(n, start, url.Values{"city": {"Tempe"}})
		assert.Equal(t, before, start)
	})
}

func TestStore(t *testing.T) {
	n := search.NewNormalizer(12, 100)
	store := NewStore(n)

	assert.Equal(t, search.ModeRent, store.Filter().Mode)
	assert.Equal(t, 1, store.Filter().Page)

	store.Apply(url.Values{"page": {"2"}})
	f := store.Apply(url.Values{"location": {"Tempe, az"}})
	assert.Equal(t, "Tempe", f.City)
	assert.Equal(t, "AZ", f.State)
	assert.Equal(t, 1, f.Page)

	t.Run("URL round trip", func(t *testing.T) {
		store.Apply(url.Values{"lat": {"33.45"}, "lng": {"-112.07"}, "distance": {"10"}})
		query := store.URL()

		other := NewStore(n)
		got, err := other.SetURL("?" + query)
		require.NoError(t, err)
		assert.Equal(t, store.Filter(), got)
		assert.Equal(t, query, other.URL())
	})

	t.Run("Bad query string leaves state alone", func(t *testing.T) {
		before := store.Filter()
		_, err := store.SetURL("%zz")
		assert.Error(t, err)
		assert.Equal(t, before, store.Filter())
	})
}
