// ABOUTME: Response DTOs for the refresh call and the JSON API endpoints
// ABOUTME: The refresh envelope mirrors the CMS ajax success/error shape

package responses

import "mai-analytics-api/core/domain"

// AjaxResponse is the refresh call envelope. Data is omitted on failure.
type AjaxResponse struct {
	Success bool             `json:"success"`
	Data    map[string]int64 `json:"data,omitempty"`
}

// NewAjaxSuccess wraps refresh counts keyed by metric kind
func NewAjaxSuccess(result domain.RefreshResult) AjaxResponse {
	data := make(map[string]int64, len(result))
	for kind, count := range result {
		data[string(kind)] = count
	}
	return AjaxResponse{Success: true, Data: data}
}

// TaggedFragment is one tagged fragment and the name it was tagged with
type TaggedFragment struct {
	HTML string `json:"html" doc:"Tagged fragment, unchanged when name is empty"`
	Name string `json:"name" doc:"Tracking name applied"`
}

// TagResponse lists tagged fragments in request order
type TagResponse struct {
	Items []TaggedFragment `json:"items"`
}

// TagOutput wraps TagResponse for huma
type TagOutput struct {
	Body TagResponse
}

// BootstrapResponse holds the tracking script configuration. Vars is absent
// when the page is not tracked.
type BootstrapResponse struct {
	Tracked bool                 `json:"tracked"`
	Vars    *domain.TrackingVars `json:"vars,omitempty"`
}

// BootstrapOutput wraps BootstrapResponse for huma
type BootstrapOutput struct {
	Body BootstrapResponse
}

// ViewsResponse is a displayable view count. Visible is false when the
// entity has no count or it is below the minimum.
type ViewsResponse struct {
	Visible   bool   `json:"visible"`
	Count     int64  `json:"count,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

// ViewsOutput wraps ViewsResponse for huma
type ViewsOutput struct {
	Body ViewsResponse
}

// RankedEntity is one row of a ranking
type RankedEntity struct {
	Type  string `json:"type"`
	ID    uint64 `json:"id"`
	Count int64  `json:"count"`
}

// TopResponse lists entities, highest count first
type TopResponse struct {
	Kind     string         `json:"kind"`
	Entities []RankedEntity `json:"entities"`
}

// TopOutput wraps TopResponse for huma
type TopOutput struct {
	Body TopResponse
}

// NewTopResponse converts domain rankings
func NewTopResponse(kind domain.MetricKind, ranked []domain.RankedEntity) TopResponse {
	entities := make([]RankedEntity, 0, len(ranked))
	for _, r := range ranked {
		entities = append(entities, RankedEntity{Type: string(r.Ref.Type), ID: r.Ref.ID, Count: r.Count})
	}
	return TopResponse{Kind: string(kind), Entities: entities}
}
