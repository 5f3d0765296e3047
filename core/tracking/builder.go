// ABOUTME: Builds the configuration object embedded in pages for the client tracking script
// ABOUTME: Adds the user grouping custom dimension and view refresh parameters when due

package tracking

import (
	"context"
	"html"
	"strings"

	"mai-analytics-api/core/config"
	"mai-analytics-api/core/domain"
	"mai-analytics-api/core/interfaces"
	"mai-analytics-api/core/render"
)

// Request describes how the current page was requested
type Request struct {
	Admin bool
	Ajax  bool
	JSON  bool
	CLI   bool
}

// RefreshTrigger returns refresh parameters for a page whose view metric is stale
type RefreshTrigger interface {
	ClientTrigger(ctx context.Context, page domain.Page) (*domain.RefreshParams, error)
}

// ShouldTrack reports whether a request is tracked at all. Ajax, JSON and CLI
// requests never are; admin pages only when admin tracking is enabled.
func ShouldTrack(cfg config.AnalyticsConfig, req Request) bool {
	if req.Ajax || req.JSON || req.CLI {
		return false
	}
	if req.Admin && !cfg.EnabledAdmin {
		return false
	}
	return true
}

// Builder assembles TrackingVars
type Builder struct {
	cfg      config.AnalyticsConfig
	logger   interfaces.Logger
	views    RefreshTrigger
	grouping interfaces.UserGroupingProvider
}

// NewBuilder creates a builder. views and grouping may be nil.
func NewBuilder(cfg config.AnalyticsConfig, logger interfaces.Logger, views RefreshTrigger, grouping interfaces.UserGroupingProvider) *Builder {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Builder{cfg: cfg, logger: logger, views: views, grouping: grouping}
}

// Build returns the bootstrap object for the page of rc, or nil when the page
// is not tracked. Missing credentials disable tracking silently outside debug mode.
func (b *Builder) Build(ctx context.Context, rc *render.Context, req Request, user domain.User) (*domain.TrackingVars, error) {
	if !b.cfg.Enabled || !ShouldTrack(b.cfg, req) {
		return nil, nil
	}

	if !b.cfg.HasCredentials() {
		b.debug("Tracking disabled, analytics credentials missing", map[string]interface{}{
			"has_site_id": b.cfg.SiteID > 0,
			"has_url":     b.cfg.URL != "",
			"has_token":   b.cfg.Token != "",
		})
		return nil, nil
	}

	vars := &domain.TrackingVars{
		TrackerURL: b.cfg.URL,
		SiteID:     b.cfg.SiteID,
		Token:      b.cfg.Token,
		UserID:     user.Email,
		Dimensions: make(map[int]string),
	}

	if user.ID != 0 {
		if group := b.group(ctx, rc, user.ID); group != "" {
			vars.Dimensions[domain.GroupDimension] = group
		}
	}

	if b.views != nil {
		params, err := b.views.ClientTrigger(ctx, rc.Page())
		if err != nil {
			b.logger.Warn("View refresh check failed", map[string]interface{}{
				"url":   rc.Page().URL,
				"error": err.Error(),
			})
		} else {
			vars.Views = params
		}
	}

	return vars, nil
}

func (b *Builder) group(ctx context.Context, rc *render.Context, userID uint64) string {
	label, err := rc.UserGroup(ctx, b.grouping, userID)
	if err != nil {
		b.logger.Warn("User grouping lookup failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return ""
	}

	group := strings.TrimSpace(html.EscapeString(label))
	if group == "" {
		b.debug("No group name found", map[string]interface{}{"user_id": userID})
		return ""
	}
	b.debug("Group name", map[string]interface{}{"user_id": userID, "group": group})
	return group
}

func (b *Builder) debug(msg string, fields map[string]interface{}) {
	if b.cfg.Debug {
		b.logger.Debug(msg, fields)
	}
}
