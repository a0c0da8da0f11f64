package search

import (
	"net/url"
	"strconv"
	"strings"
)

// Page is a resolved page/limit pair
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParsePage reads page and limit with the same sanitation as Normalize
func ParsePage(raw url.Values, defaultLimit, maxLimit int) Page {
	n := NewNormalizer(defaultLimit, maxLimit)
	page := sanitizeInt(raw, 0, "page")
	if page < 1 {
		page = 1
	}
	return Page{Page: page, Limit: n.clampLimit(sanitizeInt(raw, 0, "limit", "pageSize"))}
}

func (p Page) bound(pred Predicate) Predicate {
	pred.Skip = (p.Page - 1) * p.Limit
	pred.Limit = p.Limit
	return pred
}

// AdminListingParams filters the moderation view of listings
type AdminListingParams struct {
	Page
	Status      string
	ListingType string
}

func ParseAdminListingParams(raw url.Values, defaultLimit, maxLimit int) AdminListingParams {
	params := AdminListingParams{Page: ParsePage(raw, defaultLimit, maxLimit)}
	params.Status = strings.ToLower(strings.TrimSpace(raw.Get("status")))
	if s, ok := lookup(raw, "listingType", "listing_type"); ok {
		params.ListingType = canonicalListingType(s)
	}
	return params
}

func (a AdminListingParams) Predicate() Predicate {
	var p Predicate
	if a.Status != "" {
		p.where(FieldStatus, OpEq, a.Status)
	}
	if a.ListingType != "" {
		p.where(FieldListingType, OpEq, a.ListingType)
	}
	return a.bound(p)
}

// AdminBookingParams filters the moderation view of bookings
type AdminBookingParams struct {
	Page
	Status string
}

func ParseAdminBookingParams(raw url.Values, defaultLimit, maxLimit int) AdminBookingParams {
	return AdminBookingParams{
		Page:   ParsePage(raw, defaultLimit, maxLimit),
		Status: strings.ToUpper(strings.TrimSpace(raw.Get("status"))),
	}
}

func (a AdminBookingParams) Predicate() Predicate {
	var p Predicate
	if a.Status != "" {
		p.where(FieldStatus, OpEq, a.Status)
	}
	return a.bound(p)
}

// AdminUserParams filters users by role and a free-text search over name and email
type AdminUserParams struct {
	Page
	Role   string
	Search string
}

func ParseAdminUserParams(raw url.Values, defaultLimit, maxLimit int) AdminUserParams {
	return AdminUserParams{
		Page:   ParsePage(raw, defaultLimit, maxLimit),
		Role:   strings.ToUpper(strings.TrimSpace(raw.Get("role"))),
		Search: strings.TrimSpace(raw.Get("search")),
	}
}

func (a AdminUserParams) Predicate() Predicate {
	var p Predicate
	if a.Role != "" {
		p.where(FieldRole, OpEq, a.Role)
	}
	if a.Search != "" {
		p.Any = []Condition{
			{Field: FieldName, Op: OpContains, Value: a.Search},
			{Field: FieldEmail, Op: OpContains, Value: a.Search},
		}
	}
	return a.bound(p)
}

// HostBookingParams filters the bookings made on a host's listings
type HostBookingParams struct {
	Page
	Status    string
	ListingID *uint
}

func ParseHostBookingParams(raw url.Values, defaultLimit, maxLimit int) HostBookingParams {
	params := HostBookingParams{
		Page:   ParsePage(raw, defaultLimit, maxLimit),
		Status: strings.ToUpper(strings.TrimSpace(raw.Get("status"))),
	}
	if s, ok := lookup(raw, "listingId", "listing_id"); ok {
		if id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64); err == nil && id > 0 {
			listingID := uint(id)
			params.ListingID = &listingID
		}
	}
	return params
}

// Predicate scopes bookings to listingIDs, the listings owned by the caller.
// An empty set matches nothing.
func (h HostBookingParams) Predicate(listingIDs []uint) Predicate {
	var p Predicate
	if listingIDs == nil {
		listingIDs = []uint{}
	}
	p.where(FieldListingID, OpIn, listingIDs)
	if h.Status != "" {
		p.where(FieldStatus, OpEq, h.Status)
	}
	return h.bound(p)
}

// NotificationParams filters a user's notifications
type NotificationParams struct {
	Page
	UnreadOnly bool
}

func ParseNotificationParams(raw url.Values, defaultLimit, maxLimit int) NotificationParams {
	unread, _ := strconv.ParseBool(raw.Get("unread"))
	return NotificationParams{Page: ParsePage(raw, defaultLimit, maxLimit), UnreadOnly: unread}
}

func (n NotificationParams) Predicate(userID uint) Predicate {
	var p Predicate
	p.where(FieldUserID, OpEq, userID)
	if n.UnreadOnly {
		p.where(FieldRead, OpEq, false)
	}
	return n.bound(p)
}
