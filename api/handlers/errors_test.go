package handlers

import (
	"fmt"
	"testing"

	"mai-analytics-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name   string
		input  error
		status int
		detail string
	}{
		{"validation", &errors.ValidationError{Field: "type", Message: "must be post or term"}, 400, "invalid type: must be post or term"},
		{"wrapped validation", fmt.Errorf("display: %w", &errors.ValidationError{Field: "id", Message: "required"}), 400, "invalid id: required"},
		{"configuration", &errors.ConfigurationError{Setting: "token"}, 503, "Analytics is not configured"},
		{"analytics 500", &errors.ExternalAPIError{API: "matomo", StatusCode: 500}, 503, "Analytics server unavailable"},
		{"analytics 429", &errors.ExternalAPIError{API: "matomo", StatusCode: 429}, 429, "Analytics server is rate limiting"},
		{"analytics 403", &errors.ExternalAPIError{API: "matomo", StatusCode: 403}, 502, "Analytics server rejected the query"},
		{"unusable body", &errors.ExternalAPIError{API: "matomo", StatusCode: 200, Message: "nb_visits missing"}, 502, "Unexpected analytics server response"},
		{"wrapped analytics", fmt.Errorf("fetch views: %w", &errors.ExternalAPIError{API: "matomo", StatusCode: 502}), 503, "Analytics server unavailable"},
		{"unknown", fmt.Errorf("disk full"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			humaErr, ok := toHumaError(tt.input).(*huma.ErrorModel)
			require.True(t, ok, "expected huma.ErrorModel")
			assert.Equal(t, tt.status, humaErr.Status)
			assert.Equal(t, tt.detail, humaErr.Detail)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}
