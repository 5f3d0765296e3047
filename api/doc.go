// Package api provides the HTTP layer of the Mai Analytics service.
// It uses the Huma framework on a chi router for the JSON endpoints and
// plain chi routing for the form-encoded refresh call.
//
// # Architecture
//
// - server.go: Huma API configuration, CORS and shared middleware
// - handlers/: refresh call, fragment tagging, tracking bootstrap, view counts
// - dto/: request decoding and response envelopes
// - middleware/: request logging with request IDs and per-client rate limiting
//
// # Endpoints
//
//	POST /wp-admin/admin-ajax.php   refresh call from the tracking script (form encoded)
//	POST /tag                       tag HTML fragments
//	GET  /bootstrap                 tracking script configuration for a page render
//	GET  /views/{type}/{id}         formatted view or trending count
//	GET  /top/{type}/{kind}         entities ranked by a count
//	GET  /metrics                   Prometheus metrics, when enabled
//
// The OpenAPI document is served at /openapi.json and interactive docs at /docs.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{Logger: logger})
//
//	handlers.NewRefreshHandler(viewsService, logger).RegisterRoutes(router)
//	handlers.NewViewsHandler(viewsService).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// Huma endpoints answer RFC 7807 problem documents; domain errors are mapped
// to status codes in handlers/errors.go. The refresh call never exposes the
// cause of a failure and answers {"success":false}.
package api
