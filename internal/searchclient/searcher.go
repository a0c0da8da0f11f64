package searchclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"marketplace/server/internal/models"
	"marketplace/server/internal/search"

	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned by a search that was cancelled because a newer
// search started.
var ErrSuperseded = errors.New("search superseded by a newer request")

// StatusError is a non-2xx answer from the search endpoint
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search failed with status %d: %s", e.Code, e.Message)
}

// Response is one page of search results
type Response struct {
	Data       []models.Listing  `json:"data"`
	Pagination search.Pagination `json:"pagination"`
	Samples    []models.Listing  `json:"samples,omitempty"`
}

func emptyResponse() *Response {
	return &Response{Data: []models.Listing{}}
}

// Searcher calls the listing search endpoint. At most one search is in flight:
// starting a new one cancels the previous.
type Searcher struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSearcher(baseURL string, client *http.Client, logger *logrus.Logger) *Searcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Searcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

func (s *Searcher) begin(ctx context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.cancel = cancel
	return ctx, s.seq
}

func (s *Searcher) end(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == id && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Searcher) superseded(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq != id
}

// Search fetches the page described by f. Failures return an empty response
// with the error; nothing is retried.
func (s *Searcher) Search(ctx context.Context, f search.Filter) (*Response, error) {
	ctx, id := s.begin(ctx)
	defer s.end(id)

	endpoint := s.baseURL + "/api/listings?" + f.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return emptyResponse(), fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if s.superseded(id) {
			s.logger.WithField("search_id", id).Debug("Search superseded")
			return emptyResponse(), ErrSuperseded
		}
		return emptyResponse(), fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
		return emptyResponse(), &StatusError{Code: resp.StatusCode, Message: body.Error}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if s.superseded(id) {
			return emptyResponse(), ErrSuperseded
		}
		return emptyResponse(), fmt.Errorf("failed to decode search response: %w", err)
	}
	// A newer search owns the screen even if this one finished first
	if s.superseded(id) {
		return emptyResponse(), ErrSuperseded
	}
	if out.Data == nil {
		out.Data = []models.Listing{}
	}
	return &out, nil
}
