package search

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"marketplace/server/internal/models"

	"github.com/sirupsen/logrus"
)

// ListingQuerier runs a predicate against the listing store, returning one
// page of rows and the unbounded match count.
type ListingQuerier interface {
	QueryListings(ctx context.Context, p Predicate) ([]models.Listing, int64, error)
}

// Result is one page of public search results
type Result struct {
	Filter     Filter           `json:"-"`
	Data       []models.Listing `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// Service runs the public listing search pipeline
type Service struct {
	store      ListingQuerier
	normalizer Normalizer
	logger     *logrus.Logger
}

func NewService(store ListingQuerier, normalizer Normalizer, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Service{
		store:      store,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Search normalizes raw, queries one page and applies the distance filter
func (s *Service) Search(ctx context.Context, raw url.Values) (*Result, error) {
	filter := s.normalizer.Normalize(raw)
	predicate := Build(filter, ScopePublic)

	rows, total, err := s.store.QueryListings(ctx, predicate)
	if err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}

	rows = FilterByDistance(rows, filter.Center(), filter.DistanceMiles)
	if rows == nil {
		rows = []models.Listing{}
	}

	s.logger.WithFields(logrus.Fields{
		"mode":     filter.Mode,
		"page":     filter.Page,
		"limit":    filter.Limit,
		"total":    total,
		"returned": len(rows),
	}).Debug("Listing search completed")

	return &Result{
		Filter:     filter,
		Data:       rows,
		Pagination: Assemble(total, filter.Page, filter.Limit),
	}, nil
}
