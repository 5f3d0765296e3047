package handlers

import (
	"context"
	"time"

	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/views"
)

type mockRefreshService struct {
	result domain.RefreshResult
	err    error
	calls  []domain.RefreshRequest
}

func (m *mockRefreshService) Refresh(ctx context.Context, req domain.RefreshRequest) (domain.RefreshResult, error) {
	m.calls = append(m.calls, req)
	return m.result, m.err
}

type mockViewsService struct {
	display  *views.Display
	ranked   []domain.RankedEntity
	err      error
	lastRef  domain.EntityRef
	lastOpts views.DisplayOptions
	lastTop  struct {
		entityType domain.EntityType
		kind       domain.MetricKind
		limit      int
	}
}

func (m *mockViewsService) Display(ctx context.Context, ref domain.EntityRef, opts views.DisplayOptions) (*views.Display, error) {
	m.lastRef = ref
	m.lastOpts = opts
	return m.display, m.err
}

func (m *mockViewsService) Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error) {
	m.lastTop.entityType = entityType
	m.lastTop.kind = kind
	m.lastTop.limit = limit
	return m.ranked, m.err
}

type mockTrigger struct {
	params *domain.RefreshParams
	err    error
	pages  []domain.Page
}

func (m *mockTrigger) ClientTrigger(ctx context.Context, page domain.Page) (*domain.RefreshParams, error) {
	m.pages = append(m.pages, page)
	return m.params, m.err
}

type mockRecorder struct {
	tagged map[string]int
}

func (m *mockRecorder) ObserveRefresh(string, time.Duration)              {}
func (m *mockRecorder) ObserveAnalyticsQuery(string, bool, time.Duration) {}
func (m *mockRecorder) IncTagged(source string) {
	if m.tagged == nil {
		m.tagged = make(map[string]int)
	}
	m.tagged[source]++
}
