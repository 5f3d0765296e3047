// ABOUTME: Metric store interface for persisting entity view metrics
// ABOUTME: Implementations are the memory, sqlite and redis backends in infrastructure/store

package interfaces

import (
	"context"

	"mai-analytics-api/core/domain"
)

// MetricStore defines persistence for per-entity view metrics.
// It plays the role of the CMS entity metadata table: three scalar
// fields per entity, read and written by key name.
//
// Example usage:
//
//	ref := domain.EntityRef{Type: domain.EntityPost, ID: 42}
//
//	// Persist fetched counts with a shared timestamp
//	err := store.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: 120}, time.Now().Unix())
//
//	// Read them back (nil metric, nil error when never refreshed)
//	metric, err := store.Load(ctx, ref)
type MetricStore interface {
	// Load returns the metric of an entity, or nil if it was never refreshed.
	Load(ctx context.Context, ref domain.EntityRef) (*domain.ViewMetric, error)

	// Save writes every count in counts plus the updated timestamp as one
	// atomic operation. Kinds absent from counts keep their stored values.
	Save(ctx context.Context, ref domain.EntityRef, counts domain.RefreshResult, updated int64) error

	// Top returns up to limit entities of one type ordered by the count of
	// kind, highest first, equal counts by ascending id. Entities without that
	// count are skipped.
	Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error)
}
