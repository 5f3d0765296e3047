// ABOUTME: Handler for the client view refresh call posted by the tracking script
// ABOUTME: Speaks the CMS ajax dialect: form fields in, success/error envelope out

package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"mai-analytics-api/api/dto/requests"
	"mai-analytics-api/api/dto/responses"
	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/errors"
	"mai-analytics-api/core/interfaces"

	"github.com/go-chi/chi/v5"
)

// AjaxPath is where the tracking script posts refresh calls
const AjaxPath = "/wp-admin/admin-ajax.php"

const maxFormBytes = 64 << 10

// RefreshService performs validated view refreshes
type RefreshService interface {
	Refresh(ctx context.Context, req domain.RefreshRequest) (domain.RefreshResult, error)
}

// RefreshHandler handles the refresh call
type RefreshHandler struct {
	service RefreshService
	logger  interfaces.Logger
}

// NewRefreshHandler creates a new refresh handler
func NewRefreshHandler(service RefreshService, logger interfaces.Logger) *RefreshHandler {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &RefreshHandler{service: service, logger: logger}
}

// RegisterRoutes mounts the handler on the chi router. The call is
// form-encoded, so it bypasses huma's JSON binding.
func (h *RefreshHandler) RegisterRoutes(r chi.Router) {
	r.Post(AjaxPath, h.ServeHTTP)
}

// ServeHTTP answers {"success":true,"data":{...}} or {"success":false}.
// A bad nonce answers 403 and an unknown action 400; every other failure
// is a 200 with success false so the page never sees the cause.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeAjax(w, http.StatusBadRequest, responses.AjaxResponse{})
		return
	}

	req := requests.ParseRefreshForm(r.PostForm)
	if req.Action != domain.RefreshAction {
		writeAjax(w, http.StatusBadRequest, responses.AjaxResponse{})
		return
	}

	result, err := h.service.Refresh(r.Context(), req)
	if err != nil {
		writeAjax(w, ajaxStatus(err), responses.AjaxResponse{})
		return
	}

	writeAjax(w, http.StatusOK, responses.NewAjaxSuccess(result))
}

func ajaxStatus(err error) int {
	var verr *errors.ValidationError
	if stderrors.As(err, &verr) && verr.Field == "nonce" {
		return http.StatusForbidden
	}
	return http.StatusOK
}

func writeAjax(w http.ResponseWriter, status int, body responses.AjaxResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
