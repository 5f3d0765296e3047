package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAnalyticsConfig(t *testing.T) {
	cfg := DefaultAnalyticsConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 365, cfg.ViewsDays)
	assert.Equal(t, 30, cfg.TrendingDays)
	assert.Equal(t, time.Hour, cfg.Interval())
	assert.False(t, cfg.HasCredentials())
	assert.True(t, cfg.RefreshEnabled())
}

func TestNewAnalyticsConfig_Options(t *testing.T) {
	cfg := NewAnalyticsConfig(
		WithTracking(true),
		WithCredentials(3, "https://analytics.example.com/", "abc123"),
		WithWindows(0, 7),
		WithInterval(15),
	)

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.HasCredentials())
	assert.Equal(t, 0, cfg.ViewsDays)
	assert.Equal(t, 7, cfg.TrendingDays)
	assert.Equal(t, 15*time.Minute, cfg.Interval())
	assert.True(t, cfg.RefreshEnabled())
}

func TestRefreshEnabled(t *testing.T) {
	assert.False(t, NewAnalyticsConfig(WithWindows(0, 0)).RefreshEnabled())
	assert.False(t, NewAnalyticsConfig(WithInterval(0)).RefreshEnabled())
}
