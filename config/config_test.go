package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 12, cfg.PageSizes.Listings)
	assert.Equal(t, 50, cfg.PageSizes.AdminUsers)
	assert.Equal(t, 20, cfg.PageSizes.HostBookings)
	assert.Equal(t, 3, cfg.BatchProcessing.MaxRetries)
	assert.False(t, cfg.Presentation.EmptyStateSamples)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PAGE_SIZE_LISTINGS", "24")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("EMPTY_STATE_SAMPLES", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24, cfg.PageSizes.Listings)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Presentation.EmptyStateSamples)
}

func TestPageSizesFor(t *testing.T) {
	tests := []struct {
		name     string
		sizes    PageSizes
		endpoint Endpoint
		expected int
	}{
		{"Public listings", DefaultPageSizes(), EndpointListings, 12},
		{"Admin listings", DefaultPageSizes(), EndpointAdminListings, 50},
		{"Admin bookings", DefaultPageSizes(), EndpointAdminBookings, 50},
		{"Admin users", DefaultPageSizes(), EndpointAdminUsers, 50},
		{"Host bookings", DefaultPageSizes(), EndpointHostBookings, 20},
		{"Notifications", DefaultPageSizes(), EndpointNotifications, 20},
		{"Zero value falls back", PageSizes{}, EndpointHostBookings, 20},
		{"Override", PageSizes{AdminUsers: 5}, EndpointAdminUsers, 5},
		{"Unknown endpoint", PageSizes{}, Endpoint("other"), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sizes.For(tt.endpoint))
		})
	}
}

func TestPageSizesMaxLimit(t *testing.T) {
	assert.Equal(t, 100, PageSizes{}.MaxLimit())
	assert.Equal(t, 30, PageSizes{Max: 30}.MaxLimit())
}
