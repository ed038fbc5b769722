// Package server provides HTTP routing, middleware, and the proxy API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; method matching and
// path wildcards come from the mux pattern syntax.
//
// # Middleware Stack
//
// The serve command installs, in order: [Recovery], [RequestID], [Logging], and
// [RateLimit]. [HTTPSRedirect] is added when enabled in the server configuration.
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler
// interface and adds Routes, allowing handlers to register multiple patterns and keep
// route definitions within the implementation:
//
//   - [HealthHandler] : liveness, uptime, version
//   - [AuthStatusHandler] : session configuration snapshot with cookie validation and
//     token-server reachability
//   - [MusicHandler] : search, song, playlist, and library endpoints
//   - [CacheHandler] : session and client cache administration
//
// # Session Overrides
//
// Every catalog endpoint accepts cookies, visitorData, poToken, tokenServer, and
// location query parameters. These feed the session resolver as highest-priority
// candidates, so a single proxy instance can serve multiple accounts.
//
// # Error Responses
//
// Failures are written as JSON {error, detail?} bodies. Facade sentinels map to
// status codes: invalid input 400, missing credentials 401, not-found-or-private 404,
// upstream failures 502, everything else 500.
package server
