// Package server provides the local audio handoff proxy.
//
// # Why a proxy
//
// Sample audio lives behind the backend's cookie-guarded streaming
// endpoint. External media players cannot present that cookie, so the
// client runs a small HTTP server on localhost that accepts plain GET
// requests, attaches the saved session and relays the stream.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Playback
//
// The [PlaybackRegistry] tracks in-flight audio streams. In exclusive
// mode, starting a stream aborts every other one, so at most one sample
// plays at a time; POST /audio/stop aborts them all.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
