package memory

import (
	"context"
	"sync"
	"testing"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/interfaces"
	"mai-analytics-api/infrastructure/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.MetricStore {
		return NewStore()
	})
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ref := domain.EntityRef{Type: domain.EntityPost, ID: 1}
	require.NoError(t, s.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: 3}, 1))

	metric, err := s.Load(ctx, ref)
	require.NoError(t, err)
	metric.Views = 100

	again, err := s.Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(3), again.Views)
}

func TestStore_CancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 1})
	assert.ErrorIs(t, err, context.Canceled)
	err = s.Save(ctx, domain.EntityRef{Type: domain.EntityPost, ID: 1}, domain.RefreshResult{}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentSavesAreWhole(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ref := domain.EntityRef{Type: domain.EntityPost, ID: 1}

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			_ = s.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: n, domain.MetricTrending: n}, n)
		}(i)
	}
	wg.Wait()

	metric, err := s.Load(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, metric.Views, metric.Trending)
	assert.Equal(t, metric.Views, metric.Updated)
}
