// ABOUTME: In-memory MetricStore for development and tests
// ABOUTME: Saves are applied under a single lock so readers never see a partial refresh

package memory

import (
	"context"
	"sort"
	"sync"

	"mai-analytics-api/core/domain"
	coreerrors "mai-analytics-api/core/errors"
)

// Store implements interfaces.MetricStore using a map
type Store struct {
	mu      sync.RWMutex
	metrics map[domain.EntityRef]domain.ViewMetric
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{metrics: make(map[domain.EntityRef]domain.ViewMetric)}
}

// Load returns a copy of the stored metric, or nil if the entity was never refreshed
func (s *Store) Load(ctx context.Context, ref domain.EntityRef) (*domain.ViewMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	metric, ok := s.metrics[ref]
	if !ok {
		return nil, nil
	}
	return &metric, nil
}

// Save writes counts and updated for ref in one step
func (s *Store) Save(ctx context.Context, ref domain.EntityRef, counts domain.RefreshResult, updated int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ref.Validate(); err != nil {
		return &coreerrors.ValidationError{Field: "entity", Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	metric := s.metrics[ref]
	if v, ok := counts[domain.MetricViews]; ok {
		metric.Views, metric.HasViews = v, true
	}
	if v, ok := counts[domain.MetricTrending]; ok {
		metric.Trending, metric.HasTrending = v, true
	}
	metric.Updated = updated
	s.metrics[ref] = metric

	return nil
}

// Top ranks entities of entityType by kind, highest first, ties by ascending id
func (s *Store) Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	ranked := make([]domain.RankedEntity, 0)
	for ref, metric := range s.metrics {
		if ref.Type != entityType || !has(metric, kind) {
			continue
		}
		ranked = append(ranked, domain.RankedEntity{Ref: ref, Count: metric.Count(kind)})
	}
	s.mu.RUnlock()

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Ref.ID < ranked[j].Ref.ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func has(m domain.ViewMetric, kind domain.MetricKind) bool {
	if kind == domain.MetricTrending {
		return m.HasTrending
	}
	return m.HasViews
}
