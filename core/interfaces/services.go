// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Contracts for the analytics API, nonces, user grouping and metrics recording

package interfaces

import (
	"context"
	"time"
)

// PageVisitsQuery asks the analytics service for the visits of one page URL
type PageVisitsQuery struct {
	// PageURL is the absolute URL of the page
	PageURL string

	// Days is the lookback window ("last N days")
	Days int
}

// AnalyticsClient queries the analytics service
type AnalyticsClient interface {
	// PageVisits returns the visit count of a page over the query window.
	// A missing visit count is an error.
	PageVisits(ctx context.Context, q PageVisitsQuery) (int64, error)
}

// NonceManager issues and verifies request nonces for a named action
type NonceManager interface {
	Create(action string, now time.Time) string
	Verify(action, nonce string, now time.Time) bool
}

// UserGroupingProvider returns an optional group label for a user.
// The empty string means the user has no group.
type UserGroupingProvider func(ctx context.Context, userID uint64) (string, error)

// Recorder records service metrics. NoopRecorder is used when metrics are disabled.
type Recorder interface {
	// ObserveRefresh records the outcome of a refresh call
	ObserveRefresh(result string, duration time.Duration)

	// ObserveAnalyticsQuery records one outbound analytics query
	ObserveAnalyticsQuery(kind string, ok bool, duration time.Duration)

	// IncTagged counts tagged fragments
	IncTagged(source string)
}
