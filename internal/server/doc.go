// Package server provides HTTP routing, middleware, metrics and the listener lifecycle for the web app.
//
// # Router Infrastructure
//
// [Router] registers method-scoped routes and collects [Middleware]. Middleware passed to
// Use applies to routes registered afterwards, and the first one given is the outermost.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so paths may carry
// wildcards such as "/album/{id}/content" and a method mismatch answers 405.
//
// # Middleware
//
//   - [RequestID] tags each request and response with an X-Request-ID
//   - [Logging] writes one structured line per request
//   - [Recover] turns handler panics into 500s
//   - [RateLimit] sheds load with a token bucket
//   - [Metrics.Middleware] counts requests by route pattern
//
// # Handler Interface
//
// A [Handler] is an [http.Handler] that also lists the patterns it serves, so one value can
// own several routes and be mounted with a single Router.Handler call.
//
// # Lifecycle
//
// [Server.Start] listens until its context is cancelled and then shuts down gracefully.
package server
