// ABOUTME: Shared behaviour tests every MetricStore backend must pass
// ABOUTME: Backends call Run from their own package tests with a fresh-store factory

package storetest

import (
	"context"
	"testing"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a MetricStore. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) interfaces.MetricStore) {
	t.Run("load missing returns nil", func(t *testing.T) {
		s := newStore(t)
		metric, err := s.Load(context.Background(), domain.EntityRef{Type: domain.EntityPost, ID: 1})
		require.NoError(t, err)
		assert.Nil(t, metric)
	})

	t.Run("save then load", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ref := domain.EntityRef{Type: domain.EntityPost, ID: 42}

		err := s.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: 1200, domain.MetricTrending: 85}, 1700000000)
		require.NoError(t, err)

		metric, err := s.Load(ctx, ref)
		require.NoError(t, err)
		require.NotNil(t, metric)
		assert.Equal(t, domain.ViewMetric{Views: 1200, Trending: 85, Updated: 1700000000, HasViews: true, HasTrending: true}, *metric)
	})

	t.Run("posts and terms are separate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 7}, domain.RefreshResult{domain.MetricViews: 1}, 10))

		metric, err := s.Load(ctx, domain.EntityRef{Type: domain.EntityTerm, ID: 7})
		require.NoError(t, err)
		assert.Nil(t, metric)
	})

	t.Run("partial save keeps other kind", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ref := domain.EntityRef{Type: domain.EntityTerm, ID: 3}

		require.NoError(t, s.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: 50, domain.MetricTrending: 5}, 100))
		require.NoError(t, s.Save(ctx, ref, domain.RefreshResult{domain.MetricTrending: 9}, 200))

		metric, err := s.Load(ctx, ref)
		require.NoError(t, err)
		require.NotNil(t, metric)
		assert.Equal(t, int64(50), metric.Views)
		assert.Equal(t, int64(9), metric.Trending)
		assert.Equal(t, int64(200), metric.Updated)
	})

	t.Run("replay overwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ref := domain.EntityRef{Type: domain.EntityPost, ID: 5}

		require.NoError(t, s.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: 10, domain.MetricTrending: 1}, 100))
		require.NoError(t, s.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: 11, domain.MetricTrending: 2}, 100))

		metric, err := s.Load(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, int64(11), metric.Views)
		assert.Equal(t, int64(2), metric.Trending)
	})

	t.Run("invalid ref rejected", func(t *testing.T) {
		s := newStore(t)
		err := s.Save(context.Background(), domain.EntityRef{Type: domain.EntityPost}, domain.RefreshResult{domain.MetricViews: 1}, 1)
		assert.Error(t, err)
	})

	t.Run("top orders by count", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 1}, domain.RefreshResult{domain.MetricTrending: 5}, 1))
		require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 2}, domain.RefreshResult{domain.MetricTrending: 50}, 1))
		require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 3}, domain.RefreshResult{domain.MetricTrending: 20}, 1))
		require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 4}, domain.RefreshResult{domain.MetricViews: 999}, 1))
		require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityTerm, ID: 9}, domain.RefreshResult{domain.MetricTrending: 100}, 1))

		ranked, err := s.Top(ctx, domain.EntityPost, domain.MetricTrending, 2)
		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, domain.RankedEntity{Ref: domain.EntityRef{Type: domain.EntityPost, ID: 2}, Count: 50}, ranked[0])
		assert.Equal(t, domain.RankedEntity{Ref: domain.EntityRef{Type: domain.EntityPost, ID: 3}, Count: 20}, ranked[1])

		all, err := s.Top(ctx, domain.EntityPost, domain.MetricTrending, 10)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("top orders ties by id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, id := range []uint64{9, 10, 2} {
			require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: id}, domain.RefreshResult{domain.MetricViews: 7}, 1))
		}
		require.NoError(t, s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 30}, domain.RefreshResult{domain.MetricViews: 8}, 1))

		ranked, err := s.Top(ctx, domain.EntityPost, domain.MetricViews, 3)
		require.NoError(t, err)
		assert.Equal(t, []domain.RankedEntity{
			{Ref: domain.EntityRef{Type: domain.EntityPost, ID: 30}, Count: 8},
			{Ref: domain.EntityRef{Type: domain.EntityPost, ID: 2}, Count: 7},
			{Ref: domain.EntityRef{Type: domain.EntityPost, ID: 9}, Count: 7},
		}, ranked)
	})
}
