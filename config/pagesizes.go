package config

// Endpoint identifies a paginated endpoint for page size lookups
type Endpoint string

const (
	EndpointListings      Endpoint = "listings"
	EndpointAdminListings Endpoint = "admin_listings"
	EndpointAdminBookings Endpoint = "admin_bookings"
	EndpointAdminUsers    Endpoint = "admin_users"
	EndpointHostBookings  Endpoint = "host_bookings"
	EndpointNotifications Endpoint = "notifications"
)

// PageSizes holds the default page size of every paginated endpoint.
// The defaults differ per endpoint and are not meant to be unified.
type PageSizes struct {
	Listings      int `env:"PAGE_SIZE_LISTINGS" envDefault:"12"`
	AdminListings int `env:"PAGE_SIZE_ADMIN_LISTINGS" envDefault:"50"`
	AdminBookings int `env:"PAGE_SIZE_ADMIN_BOOKINGS" envDefault:"50"`
	AdminUsers    int `env:"PAGE_SIZE_ADMIN_USERS" envDefault:"50"`
	HostBookings  int `env:"PAGE_SIZE_HOST_BOOKINGS" envDefault:"20"`
	Notifications int `env:"PAGE_SIZE_NOTIFICATIONS" envDefault:"20"`

	// Upper bound for any client supplied limit
	Max int `env:"PAGE_SIZE_MAX" envDefault:"100"`
}

// DefaultPageSizes returns the table used when no environment is parsed.
func DefaultPageSizes() PageSizes {
	return PageSizes{
		Listings:      defaultSizes[EndpointListings],
		AdminListings: defaultSizes[EndpointAdminListings],
		AdminBookings: defaultSizes[EndpointAdminBookings],
		AdminUsers:    defaultSizes[EndpointAdminUsers],
		HostBookings:  defaultSizes[EndpointHostBookings],
		Notifications: defaultSizes[EndpointNotifications],
		Max:           100,
	}
}

// For returns the default page size of an endpoint
func (p PageSizes) For(endpoint Endpoint) int {
	var size int
	switch endpoint {
	case EndpointListings:
		size = p.Listings
	case EndpointAdminListings:
		size = p.AdminListings
	case EndpointAdminBookings:
		size = p.AdminBookings
	case EndpointAdminUsers:
		size = p.AdminUsers
	case EndpointHostBookings:
		size = p.HostBookings
	case EndpointNotifications:
		size = p.Notifications
	}
	if size <= 0 {
		if def, ok := defaultSizes[endpoint]; ok {
			return def
		}
		return defaultSizes[EndpointListings]
	}
	return size
}

var defaultSizes = map[Endpoint]int{
	EndpointListings:      12,
	EndpointAdminListings: 50,
	EndpointAdminBookings: 50,
	EndpointAdminUsers:    50,
	EndpointHostBookings:  20,
	EndpointNotifications: 20,
}

// MaxLimit returns the configured upper bound, falling back to 100
func (p PageSizes) MaxLimit() int {
	if p.Max <= 0 {
		return 100
	}
	return p.Max
}
