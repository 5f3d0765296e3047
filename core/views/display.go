// ABOUTME: Formats stored view counts for display and ranks entities by count
// ABOUTME: Counts below the display minimum are hidden rather than shown as small numbers

package views

import (
	"context"

	"mai-analytics-api/core/domain"
	coreerrors "mai-analytics-api/core/errors"
	"mai-analytics-api/pkg/utils/number"
)

// DefaultMinimum is the view count below which nothing is displayed
const DefaultMinimum = 20

// DisplayOptions control how a view count is shown
type DisplayOptions struct {
	// Kind selects views or trending
	Kind domain.MetricKind

	// Min is the smallest count that is displayed
	Min int64

	// Short selects the "2K+" format instead of "2,143"
	Short bool
}

// Display is a formatted view count
type Display struct {
	Count     int64
	Formatted string
}

// Display returns the formatted count of ref, or nil when the entity has no
// count or the count is below the minimum.
func (s *Service) Display(ctx context.Context, ref domain.EntityRef, opts DisplayOptions) (*Display, error) {
	if err := ref.Validate(); err != nil {
		return nil, &coreerrors.ValidationError{Field: "entity", Message: err.Error()}
	}

	metric, err := s.deps.Store.Load(ctx, ref)
	if err != nil {
		return nil, coreerrors.WrapError(err, "load view metric")
	}

	count := metric.Count(opts.Kind)
	if count <= 0 || count < opts.Min {
		return nil, nil
	}

	formatted := number.Full(count)
	if opts.Short {
		formatted = number.Short(count)
	}
	return &Display{Count: count, Formatted: formatted}, nil
}

// Top returns the entities of one type with the highest counts of kind.
// Used to order "trending" and "most viewed" grids.
func (s *Service) Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error) {
	if entityType != domain.EntityPost && entityType != domain.EntityTerm {
		return nil, &coreerrors.ValidationError{Field: "type", Message: "must be post or term"}
	}
	if kind != domain.MetricViews && kind != domain.MetricTrending {
		return nil, &coreerrors.ValidationError{Field: "kind", Message: "must be views or trending"}
	}
	if limit <= 0 {
		limit = 10
	}
	return s.deps.Store.Top(ctx, entityType, kind, limit)
}
