// Package core contains the business logic of the Mai Analytics service.
// It does not depend on the HTTP framework or on any storage engine.
//
// The core package is organized into several sub-packages:
//
// - domain: entity references, view metrics, refresh requests, tracking vars
// - tagging: content tracking attributes on HTML fragments and content naming
// - render: state scoped to one page render (menu slug counter, lookup caches)
// - views: staleness policy, validated view refresh and count display
// - tracking: the tracking script bootstrap
// - config: analytics settings seen by the services
// - errors: typed errors for validation, configuration and analytics API failures
// - interfaces: contracts for stores, the analytics client, nonces, logging and metrics
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Store:    store,    // implements interfaces.MetricStore
//	    Logger:   logger,   // implements interfaces.Logger
//	    Recorder: recorder, // implements interfaces.Recorder
//	}
//
//	svc := views.NewService(analyticsConfig, deps, matomoClient, nonces)
//
//	result, err := svc.Refresh(ctx, domain.RefreshRequest{
//	    Action:  domain.RefreshAction,
//	    Nonce:   nonce,
//	    Type:    "post",
//	    ID:      42,
//	    URL:     "https://example.com/hello-world/",
//	    Current: time.Now().Unix(),
//	})
package core
