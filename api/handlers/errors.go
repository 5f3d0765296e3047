// ABOUTME: Maps service errors onto problem responses for the JSON endpoints
// ABOUTME: Analytics server failures never leak their cause beyond the status

package handlers

import (
	stderrors "errors"
	"net/http"

	"mai-analytics-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *errors.ExternalAPIError
	switch {
	case errors.IsValidation(err):
		return huma.Error400BadRequest(err.Error())
	case errors.IsConfiguration(err):
		return huma.Error503ServiceUnavailable("Analytics is not configured")
	case stderrors.As(err, &apiErr):
		return externalError(apiErr)
	default:
		return huma.Error500InternalServerError("Internal server error", err)
	}
}

func externalError(apiErr *errors.ExternalAPIError) error {
	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests:
		return huma.Error429TooManyRequests("Analytics server is rate limiting")
	case apiErr.Retryable():
		return huma.Error503ServiceUnavailable("Analytics server unavailable")
	case apiErr.StatusCode >= 400:
		return huma.Error502BadGateway("Analytics server rejected the query")
	default:
		return huma.Error502BadGateway("Unexpected analytics server response")
	}
}
