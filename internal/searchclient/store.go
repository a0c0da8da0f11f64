package searchclient

import (
	"net/url"
	"strings"
	"sync"

	"marketplace/server/internal/search"
)

// Reduce applies changes to prev and returns the next filter. Any change
// other than the page moves the result back to page 1.
func Reduce(n search.Normalizer, prev search.Filter, changes url.Values) search.Filter {
	next := n.Update(prev, changes)
	if _, paged := changes["page"]; !paged && len(changes) > 0 {
		next.Page = 1
	}
	return next
}

// Store holds the filter state of one search screen. State only changes
// through Apply, Replace and SetURL.
type Store struct {
	mu         sync.RWMutex
	normalizer search.Normalizer
	filter     search.Filter
}

func NewStore(n search.Normalizer) *Store {
	return &Store{normalizer: n, filter: n.Normalize(url.Values{})}
}

// Filter returns the current state
func (s *Store) Filter() search.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Apply reduces changes into the state and returns the new filter
func (s *Store) Apply(changes url.Values) search.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = Reduce(s.normalizer, s.filter, changes)
	return s.filter
}

// Replace resets the state to the normalized form of raw
func (s *Store) Replace(raw url.Values) search.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = s.normalizer.Normalize(raw)
	return s.filter
}

// URL projects the state onto a query string
func (s *Store) URL() string {
	return s.Filter().Values().Encode()
}

// SetURL replaces the state with the filter encoded in a query string,
// with or without the leading question mark.
func (s *Store) SetURL(rawQuery string) (search.Filter, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		return s.Filter(), err
	}
	return s.Replace(values), nil
}
