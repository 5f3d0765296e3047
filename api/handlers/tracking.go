// ABOUTME: Handler for the tracking script bootstrap embedded in rendered pages
// ABOUTME: Builds per-request tracking vars including view refresh parameters when due

package handlers

import (
	"context"
	"net/http"
	"strings"

	"mai-analytics-api/api/dto/requests"
	"mai-analytics-api/api/dto/responses"
	"mai-analytics-api/core/config"
	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/errors"
	"mai-analytics-api/core/interfaces"
	"mai-analytics-api/core/render"
	"mai-analytics-api/core/tracking"

	"github.com/danielgtaylor/huma/v2"
)

// TrackingHandler handles bootstrap requests
type TrackingHandler struct {
	cfg    config.AnalyticsConfig
	logger interfaces.Logger
	views  tracking.RefreshTrigger
}

// NewTrackingHandler creates a new tracking handler. views may be nil when
// view refresh is not served.
func NewTrackingHandler(cfg config.AnalyticsConfig, logger interfaces.Logger, views tracking.RefreshTrigger) *TrackingHandler {
	return &TrackingHandler{cfg: cfg, logger: logger, views: views}
}

// RegisterRoutes registers the tracking routes
func (h *TrackingHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "tracking-bootstrap",
		Method:      http.MethodGet,
		Path:        "/bootstrap",
		Summary:     "Build tracking bootstrap",
		Description: "Returns the configuration object the page embeds for the tracking script",
		Tags:        []string{"Tracking"},
	}, h.Bootstrap)
}

// Bootstrap builds the tracking vars for one page render
func (h *TrackingHandler) Bootstrap(ctx context.Context, input *requests.BootstrapInput) (*responses.BootstrapOutput, error) {
	page := domain.Page{Name: input.Name, ID: input.ID, URL: strings.TrimSpace(input.URL)}
	if input.Type != "" {
		entityType, err := domain.ParseEntityType(input.Type)
		if err != nil {
			return nil, toHumaError(&errors.ValidationError{Field: "type", Message: err.Error()})
		}
		page.Type = entityType
	}

	builder := tracking.NewBuilder(h.cfg, h.logger, h.views, staticGroup(input.Group))
	req := tracking.Request{Admin: input.Admin, Ajax: input.Ajax, JSON: input.JSON, CLI: input.CLI}
	user := domain.User{ID: input.UserID, Email: strings.TrimSpace(input.UserEmail)}

	vars, err := builder.Build(ctx, render.NewContext(page), req, user)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &responses.BootstrapOutput{Body: responses.BootstrapResponse{Tracked: vars != nil, Vars: vars}}, nil
}

// staticGroup serves the group label resolved by the CMS for the request
func staticGroup(label string) interfaces.UserGroupingProvider {
	return func(context.Context, uint64) (string, error) {
		return label, nil
	}
}
