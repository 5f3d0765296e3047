// ABOUTME: Read-through cache in front of a MetricStore using patrickmn/go-cache
// ABOUTME: Page renders read metrics on every request; saves invalidate the cached entry

package cached

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/interfaces"
)

// entry caches a Load result; found is false for entities never refreshed
type entry struct {
	metric domain.ViewMetric
	found  bool
}

// Store decorates a MetricStore with an in-process read cache.
// generation counts saves; a load only fills the cache when no save
// finished while it was reading.
type Store struct {
	next  interfaces.MetricStore
	cache *cache.Cache

	mu         sync.Mutex
	generation uint64
}

// NewStore wraps next. Loads are cached for ttl; expired entries are purged every 2*ttl.
func NewStore(next interfaces.MetricStore, ttl time.Duration) *Store {
	return &Store{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Load returns the cached metric or reads it from the wrapped store
func (s *Store) Load(ctx context.Context, ref domain.EntityRef) (*domain.ViewMetric, error) {
	key := ref.String()
	if v, ok := s.cache.Get(key); ok {
		if e, ok := v.(entry); ok {
			if !e.found {
				return nil, nil
			}
			metric := e.metric
			return &metric, nil
		}
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	metric, err := s.next.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	e := entry{found: metric != nil}
	if metric != nil {
		e.metric = *metric
	}
	s.mu.Lock()
	if s.generation == generation {
		s.cache.SetDefault(key, e)
	}
	s.mu.Unlock()

	return metric, nil
}

// Save writes through and drops the cached entry
func (s *Store) Save(ctx context.Context, ref domain.EntityRef, counts domain.RefreshResult, updated int64) error {
	err := s.next.Save(ctx, ref, counts, updated)
	s.mu.Lock()
	s.generation++
	s.cache.Delete(ref.String())
	s.mu.Unlock()
	return err
}

// Top is not cached
func (s *Store) Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error) {
	return s.next.Top(ctx, entityType, kind, limit)
}

// Len returns the number of cached entries
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
