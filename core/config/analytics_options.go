// ABOUTME: Analytics configuration for service-level control of tracking and view refresh
// ABOUTME: Provides configuration options independent of HTTP request structures

package config

import "time"

// AnalyticsConfig holds the analytics settings used by the core services
type AnalyticsConfig struct {
	// Enabled turns tracking on
	Enabled bool

	// EnabledAdmin allows tracking on admin pages
	EnabledAdmin bool

	// Debug enables debug logging of disabled features
	Debug bool

	// SiteID is the analytics site id
	SiteID int

	// URL is the analytics base URL, always with a trailing slash when set
	URL string

	// Token is the analytics auth token
	Token string

	// ViewsDays is the lookback window of the views count, 0 disables it
	ViewsDays int

	// TrendingDays is the lookback window of the trending count, 0 disables it
	TrendingDays int

	// ViewsInterval is the staleness interval in minutes, 0 disables refreshes
	ViewsInterval int
}

// DefaultAnalyticsConfig returns the defaults: tracking off, 365 day views,
// 30 day trending, refreshed every 60 minutes
func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		ViewsDays:     365,
		TrendingDays:  30,
		ViewsInterval: 60,
	}
}

// HasCredentials reports whether site id, base URL and token are all set
func (c AnalyticsConfig) HasCredentials() bool {
	return c.SiteID > 0 && c.URL != "" && c.Token != ""
}

// Interval returns the staleness interval as a duration
func (c AnalyticsConfig) Interval() time.Duration {
	return time.Duration(c.ViewsInterval) * time.Minute
}

// RefreshEnabled reports whether any view metric is configured for refresh
func (c AnalyticsConfig) RefreshEnabled() bool {
	return (c.ViewsDays > 0 || c.TrendingDays > 0) && c.ViewsInterval > 0
}

// AnalyticsOption is a functional option for configuring analytics
type AnalyticsOption func(*AnalyticsConfig)

// WithTracking enables or disables tracking
func WithTracking(enabled bool) AnalyticsOption {
	return func(c *AnalyticsConfig) {
		c.Enabled = enabled
	}
}

// WithCredentials sets the analytics site id, base URL and token
func WithCredentials(siteID int, url, token string) AnalyticsOption {
	return func(c *AnalyticsConfig) {
		c.SiteID = siteID
		c.URL = url
		c.Token = token
	}
}

// WithWindows sets the views and trending lookback windows in days
func WithWindows(viewsDays, trendingDays int) AnalyticsOption {
	return func(c *AnalyticsConfig) {
		c.ViewsDays = viewsDays
		c.TrendingDays = trendingDays
	}
}

// WithInterval sets the staleness interval in minutes
func WithInterval(minutes int) AnalyticsOption {
	return func(c *AnalyticsConfig) {
		c.ViewsInterval = minutes
	}
}

// NewAnalyticsConfig creates a new analytics configuration with the given options
func NewAnalyticsConfig(opts ...AnalyticsOption) AnalyticsConfig {
	config := DefaultAnalyticsConfig()

	for _, opt := range opts {
		opt(&config)
	}

	return config
}
