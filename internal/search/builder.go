package search

import (
	"strings"

	"marketplace/server/internal/models"
)

// Scope selects which listings a caller may see
type Scope int

const (
	// ScopePublic restricts results to active listings
	ScopePublic Scope = iota
	// ScopeAll applies no visibility restriction
	ScopeAll
)

// Build translates a filter into a predicate. Dates, coordinates and
// distance never become predicates; distance is applied after retrieval.
func Build(f Filter, scope Scope) Predicate {
	var p Predicate
	if scope == ScopePublic {
		p.where(FieldStatus, OpEq, models.ListingStatusActive)
	}
	if f.ListingType != "" {
		p.where(FieldListingType, OpEq, f.ListingType)
	}
	if needle := locationNeedle(f.City, f.State); needle != "" {
		p.where(FieldLocation, OpContains, needle)
	}
	if f.MinPrice != nil {
		p.where(FieldPrice, OpGte, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		p.where(FieldPrice, OpLte, *f.MaxPrice)
	}

	p.Skip = f.Skip()
	p.Limit = f.Limit
	return p
}

func locationNeedle(city, state string) string {
	city, state = strings.TrimSpace(city), strings.TrimSpace(state)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}
