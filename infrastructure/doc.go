// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
// - store/memory: process-local metric store
// - store/sqlite: entity meta table on SQLite
// - store/redis: one hash per entity plus a sorted set per ranking
// - store/cached: go-cache read-through decorator for any store
// - store/storetest: behaviour suite every store passes
// - matomo: Actions.getPageUrl query client
// - http/standard: net/http client with optional retries
// - nonce: keyed BLAKE2b nonces for the refresh call
// - logger/logrus: JSON logger with optional rotated file output
// - metrics: Prometheus recorder
//
// # Stores
//
//	store, err := sqlite.NewStore("mai-analytics.db", logger)
//	reads := cached.NewStore(store, time.Minute)
//
//	err = reads.Save(ctx, ref, domain.RefreshResult{domain.MetricViews: 1200}, time.Now().Unix())
//	metric, err := reads.Load(ctx, ref)
//
// # Analytics Client
//
//	client := matomo.NewClient(standard.NewClient(30*time.Second), logger, "https://stats.example.com/", 3, token)
//	visits, err := client.PageVisits(ctx, interfaces.PageVisitsQuery{PageURL: url, Days: 30})
package infrastructure
