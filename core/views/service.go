// ABOUTME: View refresh service decides when cached view counts are stale and refreshes them
// ABOUTME: Refreshes are validated, fetched per metric kind and persisted all-or-nothing

package views

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"mai-analytics-api/core/config"
	"mai-analytics-api/core/domain"
	coreerrors "mai-analytics-api/core/errors"
	"mai-analytics-api/core/interfaces"
)

// Refresh outcomes reported to the Recorder
const (
	ResultSuccess       = "success"
	ResultInvalid       = "invalid"
	ResultUnconfigured  = "unconfigured"
	ResultUpstreamError = "upstream_error"
	ResultStoreError    = "store_error"
)

// Bounds on the client timestamp of a refresh call
const (
	maxClockSkew  = 5 * time.Minute
	DefaultMaxAge = 24 * time.Hour
)

// Service refreshes and serves entity view metrics
type Service struct {
	cfg       config.AnalyticsConfig
	deps      interfaces.Dependencies
	analytics interfaces.AnalyticsClient
	nonces    interfaces.NonceManager
	ajaxURL   string
	maxAge    time.Duration
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithAjaxURL sets the URL the client posts refresh calls to
func WithAjaxURL(u string) Option {
	return func(s *Service) {
		s.ajaxURL = u
	}
}

// WithMaxAge sets how old the timestamp of a refresh call may be. It should
// match the nonce lifetime, since the timestamp is issued with the nonce.
func WithMaxAge(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// NewService creates a new view refresh service
func NewService(cfg config.AnalyticsConfig, deps interfaces.Dependencies, analytics interfaces.AnalyticsClient, nonces interfaces.NonceManager, opts ...Option) *Service {
	if deps.Logger == nil {
		deps.Logger = interfaces.NopLogger{}
	}
	s := &Service{
		cfg:       cfg,
		deps:      deps,
		analytics: analytics,
		nonces:    nonces,
		ajaxURL:   "/wp-admin/admin-ajax.php",
		maxAge:    DefaultMaxAge,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsStale reports whether a metric last updated at updated must be refreshed at now.
// A zero updated time is always stale.
func IsStale(updated, now time.Time, interval time.Duration) bool {
	if updated.IsZero() {
		return true
	}
	return now.Sub(updated) > interval
}

// State returns the refresh state of metric for a page view at now.
// When no metric kind is enabled the state is always fresh.
func (s *Service) State(metric *domain.ViewMetric, now time.Time) domain.RefreshState {
	if !s.cfg.RefreshEnabled() {
		return domain.StateFresh
	}
	if IsStale(metric.UpdatedAt(), now, s.cfg.Interval()) {
		return domain.StateStale
	}
	return domain.StateFresh
}

// ClientTrigger returns the refresh parameters the page should embed when the
// metric of page is stale, or nil when no refresh call should be made.
func (s *Service) ClientTrigger(ctx context.Context, page domain.Page) (*domain.RefreshParams, error) {
	ref, ok := page.Ref()
	if !ok {
		return nil, nil
	}

	if !s.cfg.HasCredentials() {
		s.debug("View refresh disabled, analytics credentials missing", nil)
		return nil, nil
	}

	metric, err := s.deps.Store.Load(ctx, ref)
	if err != nil {
		return nil, coreerrors.WrapError(err, "load view metric")
	}

	now := s.now()
	if s.State(metric, now) == domain.StateFresh {
		return nil, nil
	}

	return &domain.RefreshParams{
		AjaxURL: s.ajaxURL,
		Action:  domain.RefreshAction,
		Nonce:   s.nonces.Create(domain.RefreshAction, now),
		Type:    string(ref.Type),
		ID:      ref.ID,
		URL:     page.URL,
		Current: now.Unix(),
	}, nil
}

// Refresh validates a client refresh call, fetches every enabled metric kind from
// the analytics service and persists them with the client timestamp. Nothing is
// written unless every fetch succeeds.
func (s *Service) Refresh(ctx context.Context, req domain.RefreshRequest) (domain.RefreshResult, error) {
	start := time.Now()

	result, outcome, err := s.refresh(ctx, req)
	s.recorder().ObserveRefresh(outcome, time.Since(start))

	fields := map[string]interface{}{
		"type":    req.Type,
		"id":      req.ID,
		"url":     req.URL,
		"outcome": outcome,
	}
	if err != nil {
		fields["error"] = err.Error()
		if outcome == ResultUnconfigured {
			s.debug("View refresh rejected", fields)
		} else {
			s.deps.Logger.Warn("View refresh failed", fields)
		}
		return nil, err
	}

	for kind, count := range result {
		fields[string(kind)] = count
	}
	s.deps.Logger.Info("View metrics refreshed", fields)

	return result, nil
}

func (s *Service) refresh(ctx context.Context, req domain.RefreshRequest) (domain.RefreshResult, string, error) {
	if !s.nonces.Verify(domain.RefreshAction, req.Nonce, s.now()) {
		return nil, ResultInvalid, &coreerrors.ValidationError{Field: "nonce", Message: "invalid or expired"}
	}

	if err := s.checkConfig(); err != nil {
		return nil, ResultUnconfigured, err
	}

	ref, err := validateRequest(req)
	if err != nil {
		return nil, ResultInvalid, err
	}
	if err := s.checkCurrent(req.Current); err != nil {
		return nil, ResultInvalid, err
	}

	result := make(domain.RefreshResult, len(domain.MetricKinds))
	for _, kind := range domain.MetricKinds {
		days := s.days(kind)
		if days <= 0 {
			continue
		}

		queryStart := time.Now()
		visits, err := s.analytics.PageVisits(ctx, interfaces.PageVisitsQuery{PageURL: req.URL, Days: days})
		s.recorder().ObserveAnalyticsQuery(string(kind), err == nil, time.Since(queryStart))
		if err != nil {
			return nil, ResultUpstreamError, coreerrors.WrapError(err, fmt.Sprintf("fetch %s", kind))
		}
		result[kind] = visits
	}

	if err := s.deps.Store.Save(ctx, ref, result, req.Current); err != nil {
		return nil, ResultStoreError, coreerrors.WrapError(err, "save view metric")
	}

	return result, ResultSuccess, nil
}

func (s *Service) checkConfig() error {
	switch {
	case s.cfg.SiteID <= 0:
		return &coreerrors.ConfigurationError{Setting: "site_id"}
	case s.cfg.URL == "":
		return &coreerrors.ConfigurationError{Setting: "url"}
	case s.cfg.Token == "":
		return &coreerrors.ConfigurationError{Setting: "token"}
	case !s.cfg.RefreshEnabled():
		return &coreerrors.ConfigurationError{Setting: "views_days, trending_days, views_interval"}
	}
	return nil
}

func validateRequest(req domain.RefreshRequest) (domain.EntityRef, error) {
	entityType, err := domain.ParseEntityType(req.Type)
	if err != nil {
		return domain.EntityRef{}, &coreerrors.ValidationError{Field: "type", Message: err.Error()}
	}
	if req.ID == 0 {
		return domain.EntityRef{}, &coreerrors.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	if req.URL == "" {
		return domain.EntityRef{}, &coreerrors.ValidationError{Field: "url", Message: "cannot be empty"}
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.EntityRef{}, &coreerrors.ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}
	if req.Current <= 0 {
		return domain.EntityRef{}, &coreerrors.ValidationError{Field: "current", Message: "must be a positive Unix timestamp"}
	}
	return domain.EntityRef{Type: entityType, ID: req.ID}, nil
}

// checkCurrent rejects timestamps from the future or older than the nonce
// that came with them. The timestamp becomes the last-updated time, so a
// future value would keep the metric fresh indefinitely.
func (s *Service) checkCurrent(current int64) error {
	now := s.now()
	at := time.Unix(current, 0)
	if at.After(now.Add(maxClockSkew)) {
		return &coreerrors.ValidationError{Field: "current", Message: "is in the future"}
	}
	if at.Before(now.Add(-s.maxAge)) {
		return &coreerrors.ValidationError{Field: "current", Message: "is too old"}
	}
	return nil
}

func (s *Service) days(kind domain.MetricKind) int {
	switch kind {
	case domain.MetricViews:
		return s.cfg.ViewsDays
	case domain.MetricTrending:
		return s.cfg.TrendingDays
	}
	return 0
}

func (s *Service) recorder() interfaces.Recorder {
	if s.deps.Recorder == nil {
		return noopRecorder{}
	}
	return s.deps.Recorder
}

// debug logs only when the analytics debug flag is on
func (s *Service) debug(msg string, fields map[string]interface{}) {
	if s.cfg.Debug {
		s.deps.Logger.Debug(msg, fields)
	}
}

type noopRecorder struct{}

func (noopRecorder) ObserveRefresh(string, time.Duration)              {}
func (noopRecorder) ObserveAnalyticsQuery(string, bool, time.Duration) {}
func (noopRecorder) IncTagged(string)                                  {}
