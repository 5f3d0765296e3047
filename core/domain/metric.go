// ABOUTME: ViewMetric domain model holds cached view and trending counts for an entity
// ABOUTME: Defines metric kinds and the persisted key names shared by every store

package domain

import "time"

// MetricKind is a kind of view count fetched from the analytics service
type MetricKind string

const (
	// MetricViews is the long-window popular view count
	MetricViews MetricKind = "views"

	// MetricTrending is the short-window trending view count
	MetricTrending MetricKind = "trending"
)

// Persisted metadata keys. These match the keys the CMS reads for ordering and display.
const (
	KeyViews    = "mai_views"
	KeyTrending = "mai_trending"
	KeyUpdated  = "mai_views_updated"
)

// MetricKinds lists kinds in fetch order
var MetricKinds = []MetricKind{MetricViews, MetricTrending}

// MetaKey returns the persisted key for a metric kind
func (k MetricKind) MetaKey() string {
	return "mai_" + string(k)
}

// ViewMetric is the cached analytics state of one entity
type ViewMetric struct {
	// Views is the popular view count (valid when HasViews)
	Views int64

	// Trending is the trending view count (valid when HasTrending)
	Trending int64

	// Updated is the Unix timestamp of the last successful refresh (0 if never)
	Updated int64

	HasViews    bool
	HasTrending bool
}

// Count returns the stored count for a kind, or 0 when absent
func (m *ViewMetric) Count(kind MetricKind) int64 {
	if m == nil {
		return 0
	}
	switch kind {
	case MetricTrending:
		return m.Trending
	default:
		return m.Views
	}
}

// UpdatedAt returns the last refresh time, or the zero time if never refreshed
func (m *ViewMetric) UpdatedAt() time.Time {
	if m == nil || m.Updated <= 0 {
		return time.Time{}
	}
	return time.Unix(m.Updated, 0)
}

// RefreshState is the staleness state of a ViewMetric for one page view
type RefreshState int

const (
	// StateFresh means no refresh is needed for this page view
	StateFresh RefreshState = iota

	// StateStale means the client should trigger a refresh
	StateStale
)

// String returns the state name
func (s RefreshState) String() string {
	if s == StateStale {
		return "stale"
	}
	return "fresh"
}

// RankedEntity is an entity with the count it was ranked by
type RankedEntity struct {
	Ref   EntityRef `json:"-"`
	Count int64     `json:"count"`
}
