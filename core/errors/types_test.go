package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &ValidationError{Field: "nonce", Message: "expired"}, "invalid nonce: expired"},
		{"configuration", &ConfigurationError{Setting: "token"}, "token is not configured"},
		{"external", &ExternalAPIError{API: "matomo", StatusCode: 503, Message: "unavailable"}, "matomo answered 503: unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"validation", &ValidationError{Field: "id"}, IsValidation, true},
		{"validation plain", errors.New("x"), IsValidation, false},
		{"configuration", &ConfigurationError{Setting: "site_id"}, IsConfiguration, true},
		{"configuration is not validation", &ConfigurationError{Setting: "site_id"}, IsValidation, false},
		{"external", &ExternalAPIError{StatusCode: 500, API: "matomo"}, IsExternalAPI, true},
		{"external plain", errors.New("x"), IsExternalAPI, false},
		{"wrapped validation", fmt.Errorf("refresh: %w", &ValidationError{Field: "url"}), IsValidation, true},
		{"wrapped external", fmt.Errorf("fetch views: %w", &ExternalAPIError{API: "matomo"}), IsExternalAPI, true},
		{"nil", nil, IsValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestExternalAPIError_Retryable(t *testing.T) {
	for status, want := range map[int]bool{200: false, 403: false, 429: true, 500: true, 503: true} {
		err := &ExternalAPIError{API: "matomo", StatusCode: status}
		assert.Equal(t, want, err.Retryable(), "status %d", status)
	}
}

func TestWrapError(t *testing.T) {
	wrapped := WrapError(&ValidationError{Field: "type", Message: "must be post or term"}, "refresh post:9")

	assert.EqualError(t, wrapped, "refresh post:9: invalid type: must be post or term")
	assert.True(t, IsValidation(wrapped))
	assert.Nil(t, WrapError(nil, "unused"))
}
