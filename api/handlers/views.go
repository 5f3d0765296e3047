// ABOUTME: Handlers for displaying stored view counts and ranking entities by them
// ABOUTME: Backs view count badges and trending or most viewed grids

package handlers

import (
	"context"
	"net/http"

	"mai-analytics-api/api/dto/requests"
	"mai-analytics-api/api/dto/responses"
	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/views"

	"github.com/danielgtaylor/huma/v2"
)

// ViewsService reads stored view metrics
type ViewsService interface {
	Display(ctx context.Context, ref domain.EntityRef, opts views.DisplayOptions) (*views.Display, error)
	Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error)
}

// ViewsHandler handles view count reads
type ViewsHandler struct {
	service ViewsService
}

// NewViewsHandler creates a new views handler
func NewViewsHandler(service ViewsService) *ViewsHandler {
	return &ViewsHandler{service: service}
}

// RegisterRoutes registers the view count routes
func (h *ViewsHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-views",
		Method:      http.MethodGet,
		Path:        "/views/{type}/{id}",
		Summary:     "Display view count",
		Description: "Returns the formatted view or trending count of a post or term when it reaches the minimum",
		Tags:        []string{"Views"},
	}, h.GetViews)

	huma.Register(api, huma.Operation{
		OperationID: "get-top",
		Method:      http.MethodGet,
		Path:        "/top/{type}/{kind}",
		Summary:     "Rank entities",
		Description: "Lists posts or terms with the highest stored view or trending counts",
		Tags:        []string{"Views"},
	}, h.GetTop)
}

// GetViews returns the display of one entity's count
func (h *ViewsHandler) GetViews(ctx context.Context, input *requests.ViewsInput) (*responses.ViewsOutput, error) {
	ref := domain.EntityRef{Type: domain.EntityType(input.Type), ID: input.ID}
	display, err := h.service.Display(ctx, ref, views.DisplayOptions{
		Kind:  domain.MetricKind(input.Kind),
		Min:   input.Min,
		Short: input.Short,
	})
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &responses.ViewsOutput{}
	if display != nil {
		out.Body = responses.ViewsResponse{Visible: true, Count: display.Count, Formatted: display.Formatted}
	}
	return out, nil
}

// GetTop returns the ranking of one entity type
func (h *ViewsHandler) GetTop(ctx context.Context, input *requests.TopInput) (*responses.TopOutput, error) {
	kind := domain.MetricKind(input.Kind)
	ranked, err := h.service.Top(ctx, domain.EntityType(input.Type), kind, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &responses.TopOutput{Body: responses.NewTopResponse(kind, ranked)}, nil
}
