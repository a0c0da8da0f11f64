package search

import "strings"

// Mode is the marketplace segment a search runs in
type Mode string

const (
	ModeRent         Mode = "RENT"
	ModeBuy          Mode = "BUY"
	ModeEventPro     Mode = "EVENT_PRO"
	ModeVendorMarket Mode = "VENDOR_MARKET"
)

// listingTypes is the allow-list of listing types selectable in each mode
var listingTypes = map[Mode][]string{
	ModeRent:         {"food-trucks", "trailers", "commercial-kitchens", "equipment"},
	ModeBuy:          {"food-trucks", "trailers", "equipment"},
	ModeEventPro:     {"caterers", "bartenders", "djs", "photographers", "event-planners"},
	ModeVendorMarket: {"farmers-markets", "pop-up-markets", "festivals", "vendor-spaces"},
}

// ParseMode accepts the URL form (rent, event-pro) and the enum form
// (EVENT_PRO), case-insensitively.
func ParseMode(raw string) (Mode, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	switch m := Mode(s); m {
	case ModeRent, ModeBuy, ModeEventPro, ModeVendorMarket:
		return m, true
	}
	return "", false
}

// Param returns the URL form of the mode
func (m Mode) Param() string {
	return strings.ToLower(strings.ReplaceAll(string(m), "_", "-"))
}

// ListingTypes returns the listing types selectable in the mode
func (m Mode) ListingTypes() []string {
	types := listingTypes[m]
	out := make([]string, len(types))
	copy(out, types)
	return out
}

// AllowsListingType reports whether listingType belongs to the mode's allow-list
func (m Mode) AllowsListingType(listingType string) bool {
	for _, t := range listingTypes[m] {
		if t == listingType {
			return true
		}
	}
	return false
}

// canonicalListingType lower-cases and hyphenates a listing type
func canonicalListingType(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	return strings.Join(fields, "-")
}
