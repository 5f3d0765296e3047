package views

import (
	"context"
	"time"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/interfaces"
)

// mockStore is an in-memory MetricStore that records saves
type mockStore struct {
	metrics  map[domain.EntityRef]*domain.ViewMetric
	saves    int
	loadErr  error
	saveErr  error
	topFunc  func(ctx context.Context, t domain.EntityType, k domain.MetricKind, limit int) ([]domain.RankedEntity, error)
}

func newMockStore() *mockStore {
	return &mockStore{metrics: make(map[domain.EntityRef]*domain.ViewMetric)}
}

func (m *mockStore) Load(ctx context.Context, ref domain.EntityRef) (*domain.ViewMetric, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	metric, ok := m.metrics[ref]
	if !ok {
		return nil, nil
	}
	cp := *metric
	return &cp, nil
}

func (m *mockStore) Save(ctx context.Context, ref domain.EntityRef, counts domain.RefreshResult, updated int64) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	metric, ok := m.metrics[ref]
	if !ok {
		metric = &domain.ViewMetric{}
		m.metrics[ref] = metric
	}
	if v, ok := counts[domain.MetricViews]; ok {
		metric.Views, metric.HasViews = v, true
	}
	if v, ok := counts[domain.MetricTrending]; ok {
		metric.Trending, metric.HasTrending = v, true
	}
	metric.Updated = updated
	return nil
}

func (m *mockStore) Top(ctx context.Context, t domain.EntityType, k domain.MetricKind, limit int) ([]domain.RankedEntity, error) {
	if m.topFunc != nil {
		return m.topFunc(ctx, t, k, limit)
	}
	return nil, nil
}

// mockAnalytics answers PageVisits from a function
type mockAnalytics struct {
	queries   []interfaces.PageVisitsQuery
	visitsFor func(q interfaces.PageVisitsQuery) (int64, error)
}

func (m *mockAnalytics) PageVisits(ctx context.Context, q interfaces.PageVisitsQuery) (int64, error) {
	m.queries = append(m.queries, q)
	if m.visitsFor != nil {
		return m.visitsFor(q)
	}
	return 0, nil
}

// mockNonces accepts a single fixed nonce
type mockNonces struct {
	valid string
}

func (m *mockNonces) Create(action string, now time.Time) string {
	return m.valid
}

func (m *mockNonces) Verify(action, nonce string, now time.Time) bool {
	return action == domain.RefreshAction && nonce == m.valid
}

// mockRecorder counts refresh outcomes
type mockRecorder struct {
	refreshes map[string]int
	queries   int
}

func (m *mockRecorder) ObserveRefresh(result string, _ time.Duration) {
	if m.refreshes == nil {
		m.refreshes = make(map[string]int)
	}
	m.refreshes[result]++
}

func (m *mockRecorder) ObserveAnalyticsQuery(string, bool, time.Duration) { m.queries++ }
func (m *mockRecorder) IncTagged(string)                                  {}
