// ABOUTME: RefreshRequest domain model is the client message asking for a metric refresh
// ABOUTME: Also defines the refresh parameters embedded in the tracking bootstrap

package domain

// RefreshAction is the fixed dispatch key of the refresh call
const RefreshAction = "mai_analytics_views"

// RefreshRequest is a single client refresh call
type RefreshRequest struct {
	Action  string
	Nonce   string
	Type    string
	ID      uint64
	URL     string
	Current int64
}

// Ref returns the entity reference named by the request.
// The type is not validated here.
func (r RefreshRequest) Ref() EntityRef {
	return EntityRef{Type: EntityType(r.Type), ID: r.ID}
}

// RefreshParams are the values the client needs to issue a refresh call
type RefreshParams struct {
	AjaxURL string `json:"ajaxUrl"`
	Action  string `json:"action"`
	Nonce   string `json:"nonce"`
	Type    string `json:"type"`
	ID      uint64 `json:"id"`
	URL     string `json:"url"`
	Current int64  `json:"current"`
}

// RefreshResult holds the counts fetched by a successful refresh
type RefreshResult map[MetricKind]int64
