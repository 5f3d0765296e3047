package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"mai-analytics-api/api/dto/responses"
	"mai-analytics-api/core/config"
	"mai-analytics-api/core/domain"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackingConfig() config.AnalyticsConfig {
	return config.NewAnalyticsConfig(
		config.WithTracking(true),
		config.WithCredentials(3, "https://stats.example.com/", "tok"),
	)
}

func getBootstrap(t *testing.T, handler *TrackingHandler, query string) responses.BootstrapResponse {
	t.Helper()
	_, api := humatest.New(t)
	handler.RegisterRoutes(api)

	resp := api.Get("/bootstrap" + query)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body responses.BootstrapResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestTrackingHandler_Bootstrap(t *testing.T) {
	trigger := &mockTrigger{params: &domain.RefreshParams{AjaxURL: AjaxPath, Action: domain.RefreshAction, Nonce: "n", Type: "post", ID: 42}}
	handler := NewTrackingHandler(trackingConfig(), nil, trigger)

	body := getBootstrap(t, handler, "?type=post&id=42&url=https://example.com/hello/&user_id=7&user_email=ann@example.com&group=Gold%20%26%20Silver")

	require.True(t, body.Tracked)
	require.NotNil(t, body.Vars)
	assert.Equal(t, "https://stats.example.com/", body.Vars.TrackerURL)
	assert.Equal(t, 3, body.Vars.SiteID)
	assert.Equal(t, "ann@example.com", body.Vars.UserID)
	assert.Equal(t, "Gold &amp; Silver", body.Vars.Dimensions[domain.GroupDimension])
	require.NotNil(t, body.Vars.Views)
	assert.Equal(t, uint64(42), body.Vars.Views.ID)

	require.Len(t, trigger.pages, 1)
	assert.Equal(t, domain.Page{Type: domain.EntityPost, ID: 42, URL: "https://example.com/hello/"}, trigger.pages[0])
}

func TestTrackingHandler_NotTracked(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.AnalyticsConfig
		query string
	}{
		{"tracking disabled", config.NewAnalyticsConfig(config.WithCredentials(3, "https://stats.example.com/", "tok")), ""},
		{"missing credentials", config.NewAnalyticsConfig(config.WithTracking(true)), ""},
		{"ajax request", trackingConfig(), "?ajax=true"},
		{"admin page", trackingConfig(), "?admin=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := getBootstrap(t, NewTrackingHandler(tt.cfg, nil, nil), tt.query)

			assert.False(t, body.Tracked)
			assert.Nil(t, body.Vars)
		})
	}
}

func TestTrackingHandler_RefreshCheckFailureStillTracks(t *testing.T) {
	trigger := &mockTrigger{err: errors.New("store down")}

	body := getBootstrap(t, NewTrackingHandler(trackingConfig(), nil, trigger), "?type=term&id=5&url=https://example.com/cat/")

	assert.True(t, body.Tracked)
	require.NotNil(t, body.Vars)
	assert.Nil(t, body.Vars.Views)
}

func TestTrackingHandler_InvalidType(t *testing.T) {
	_, api := humatest.New(t)
	NewTrackingHandler(trackingConfig(), nil, nil).RegisterRoutes(api)

	resp := api.Get("/bootstrap?type=page&id=1")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
