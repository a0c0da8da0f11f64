package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"marketplace/server/internal/geometry"

	"github.com/paulmach/orb"
)

const (
	defaultLimit = 12
	maxLimit     = 100
	dateLayout   = "2006-01-02"
)

// Filter is the canonical, fully resolved listing search filter
type Filter struct {
	Mode          Mode     `json:"mode"`
	ListingType   string   `json:"listingType,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	DistanceMiles *float64 `json:"distanceMiles,omitempty"`
	MinPrice      *float64 `json:"minPrice,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty"`
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
}

// Center returns the search point, or nil unless both coordinates are set
func (f Filter) Center() *orb.Point {
	if f.Latitude == nil || f.Longitude == nil {
		return nil
	}
	return &orb.Point{*f.Longitude, *f.Latitude}
}

// Skip is the number of rows before the requested page
func (f Filter) Skip() int {
	return (f.Page - 1) * f.Limit
}

// Values projects the filter back to raw query parameters. Normalizing the
// result yields the same filter.
func (f Filter) Values() url.Values {
	v := url.Values{}
	v.Set("mode", f.Mode.Param())
	setString(v, "listing_type", f.ListingType)
	setString(v, "city", f.City)
	setString(v, "state", f.State)
	setString(v, "startDate", f.StartDate)
	setString(v, "endDate", f.EndDate)
	setFloat(v, "lat", f.Latitude)
	setFloat(v, "lng", f.Longitude)
	setFloat(v, "distance", f.DistanceMiles)
	setFloat(v, "minPrice", f.MinPrice)
	setFloat(v, "maxPrice", f.MaxPrice)
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setFloat(v url.Values, key string, value *float64) {
	if value != nil {
		v.Set(key, strconv.FormatFloat(*value, 'f', -1, 64))
	}
}

// Normalizer turns raw query parameters into a Filter
type Normalizer struct {
	DefaultLimit int
	MaxLimit     int
}

func NewNormalizer(defaultLimit, maxLimit int) Normalizer {
	return Normalizer{DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// Normalize parses raw parameters from scratch. Unusable values are treated
// as absent.
func (n Normalizer) Normalize(raw url.Values) Filter {
	return n.resolve(Filter{}, raw)
}

// Update applies raw parameters on top of prev. Parameters missing from raw
// or failing numeric coercion keep the value they had in prev; an empty
// value clears the field.
func (n Normalizer) Update(prev Filter, raw url.Values) Filter {
	return n.resolve(prev, raw)
}

func (n Normalizer) resolve(base Filter, raw url.Values) Filter {
	f := base

	if s, ok := lookup(raw, "mode"); ok {
		f.Mode, _ = ParseMode(s)
	}

	if s, ok := lookup(raw, "location"); ok {
		f.City, f.State = DeriveCityState(s)
	}
	if s, ok := lookup(raw, "city"); ok {
		f.City = strings.TrimSpace(s)
	}
	if s, ok := lookup(raw, "state"); ok {
		f.State = normalizeState(s)
	}
	if s, ok := lookup(raw, "listing_type", "listingType"); ok {
		f.ListingType = canonicalListingType(s)
	}
	if s, ok := lookup(raw, "startDate"); ok {
		f.StartDate = sanitizeDate(s)
	}
	if s, ok := lookup(raw, "endDate"); ok {
		f.EndDate = sanitizeDate(s)
	}

	f.Latitude = sanitizeFloat(raw, base.Latitude, "lat", "latitude")
	f.Longitude = sanitizeFloat(raw, base.Longitude, "lng", "longitude")
	f.DistanceMiles = sanitizeFloat(raw, base.DistanceMiles, "distance")
	f.MinPrice = sanitizeFloat(raw, base.MinPrice, "minPrice", "min_price")
	f.MaxPrice = sanitizeFloat(raw, base.MaxPrice, "maxPrice", "max_price")
	f.Page = sanitizeInt(raw, base.Page, "page")
	f.Limit = sanitizeInt(raw, base.Limit, "limit", "pageSize")

	return n.canonicalize(f)
}

// canonicalize enforces the cross-field rules of a resolved filter
func (n Normalizer) canonicalize(f Filter) Filter {
	if _, ok := ParseMode(string(f.Mode)); !ok {
		f.Mode = ModeRent
	}
	if f.ListingType != "" && !f.Mode.AllowsListingType(f.ListingType) {
		f.ListingType = ""
	}

	if f.Latitude == nil || f.Longitude == nil || !geometry.ValidPoint(*f.Latitude, *f.Longitude) {
		f.Latitude, f.Longitude = nil, nil
	}
	if f.DistanceMiles != nil && *f.DistanceMiles <= 0 {
		f.DistanceMiles = nil
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		f.MinPrice = nil
	}
	if f.MaxPrice != nil && (*f.MaxPrice < 0 || (f.MinPrice != nil && *f.MaxPrice < *f.MinPrice)) {
		f.MaxPrice = nil
	}

	// Inverted ranges keep the start date only
	if f.StartDate != "" && f.EndDate != "" && f.EndDate < f.StartDate {
		f.EndDate = ""
	}

	if f.Page < 1 {
		f.Page = 1
	}
	f.Limit = n.clampLimit(f.Limit)
	return f
}

func (n Normalizer) clampLimit(limit int) int {
	def, max := n.DefaultLimit, n.MaxLimit
	if def <= 0 {
		def = defaultLimit
	}
	if max <= 0 {
		max = maxLimit
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

// DeriveCityState splits free-text location into a city and a state code.
// "Phoenix, AZ" gives ("Phoenix", "AZ"), "AZ" gives ("", "AZ") and "Tempe"
// gives ("Tempe", "").
func DeriveCityState(text string) (city, state string) {
	var segments []string
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}

	switch {
	case len(segments) == 0:
		return "", ""
	case len(segments) == 1 && len([]rune(segments[0])) <= 2:
		return "", strings.ToUpper(segments[0])
	case len(segments) == 1:
		return segments[0], ""
	}

	state = segments[1]
	if r := []rune(state); len(r) > 2 {
		state = string(r[:2])
	}
	return segments[0], strings.ToUpper(strings.TrimSpace(state))
}

// normalizeState upper-cases plausible two letter state codes
func normalizeState(raw string) string {
	s := strings.TrimSpace(raw)
	r := []rune(s)
	if len(r) == 2 && unicode.IsLetter(r[0]) && unicode.IsLetter(r[1]) {
		return strings.ToUpper(s)
	}
	return s
}

func sanitizeDate(raw string) string {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return t.Format(dateLayout)
}

// lookup returns the first present key's value
func lookup(raw url.Values, keys ...string) (string, bool) {
	for _, key := range keys {
		if values, ok := raw[key]; ok && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

// sanitizeFloat coerces a numeric parameter. Non-numeric and non-finite
// input keeps prev; an empty value clears the field.
func sanitizeFloat(raw url.Values, prev *float64, keys ...string) *float64 {
	s, ok := lookup(raw, keys...)
	if !ok {
		return prev
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return prev
	}
	return &v
}

func sanitizeInt(raw url.Values, prev int, keys ...string) int {
	var p *float64
	if prev != 0 {
		f := float64(prev)
		p = &f
	}
	v := sanitizeFloat(raw, p, keys...)
	if v == nil {
		return 0
	}
	if *v > math.MaxInt32 || *v < math.MinInt32 {
		return prev
	}
	return int(math.Floor(*v))
}
