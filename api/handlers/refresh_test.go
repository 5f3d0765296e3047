package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/errors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRefreshRouter(service RefreshService) chi.Router {
	router := chi.NewRouter()
	NewRefreshHandler(service, nil).RegisterRoutes(router)
	return router
}

func postForm(router http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, AjaxPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func refreshForm() url.Values {
	return url.Values{
		"action":  {domain.RefreshAction},
		"nonce":   {"0123456789abcdef0123"},
		"type":    {"post"},
		"id":      {"42"},
		"url":     {"https://example.com/hello-world/"},
		"current": {"1792065600"},
	}
}

func TestRefreshHandler_Success(t *testing.T) {
	service := &mockRefreshService{result: domain.RefreshResult{domain.MetricViews: 1200, domain.MetricTrending: 35}}

	rec := postForm(newRefreshRouter(service), refreshForm())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"success":true,"data":{"views":1200,"trending":35}}`, rec.Body.String())

	require.Len(t, service.calls, 1)
	assert.Equal(t, domain.RefreshRequest{
		Action:  domain.RefreshAction,
		Nonce:   "0123456789abcdef0123",
		Type:    "post",
		ID:      42,
		URL:     "https://example.com/hello-world/",
		Current: 1792065600,
	}, service.calls[0])
}

func TestRefreshHandler_Failures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad nonce", &errors.ValidationError{Field: "nonce", Message: "invalid or expired"}, http.StatusForbidden},
		{"missing field", &errors.ValidationError{Field: "url", Message: "cannot be empty"}, http.StatusOK},
		{"not configured", &errors.ConfigurationError{Setting: "token"}, http.StatusOK},
		{"upstream failure", fmt.Errorf("fetch views: %w", &errors.ExternalAPIError{API: "matomo", StatusCode: 500}), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockRefreshService{err: tt.err}

			rec := postForm(newRefreshRouter(service), refreshForm())

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, `{"success":false}`, rec.Body.String())
		})
	}
}

func TestRefreshHandler_UnknownAction(t *testing.T) {
	service := &mockRefreshService{}
	form := refreshForm()
	form.Set("action", "heartbeat")

	rec := postForm(newRefreshRouter(service), form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
	assert.Empty(t, service.calls)
}

func TestRefreshHandler_IgnoresQueryString(t *testing.T) {
	service := &mockRefreshService{}
	req := httptest.NewRequest(http.MethodPost, AjaxPath+"?action="+domain.RefreshAction, strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	newRefreshRouter(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.calls)
}

func TestRefreshHandler_OnlyPost(t *testing.T) {
	rec := httptest.NewRecorder()
	newRefreshRouter(&mockRefreshService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, AjaxPath, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRefreshHandler_OversizedBody(t *testing.T) {
	service := &mockRefreshService{}
	form := refreshForm()
	form.Set("url", "https://example.com/"+strings.Repeat("a", maxFormBytes))

	rec := postForm(newRefreshRouter(service), form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.calls)
}
