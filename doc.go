// Package rhttp composes route handlers, filters and hooks into request pipelines with
// buffered responses.
//
// # Overview
//
// rhttp models a route's request handling as one composed unit, the pipeline: an optional
// [Filter] wraps the route [Handler], and an optional [After] hook observes the outcome.
// The composition rules are the interesting part: they decide how failures, early
// responses and suppressed errors propagate without ever corrupting a response that has
// already begun transmission.
//
// A minimal example:
//
//	mux := rhttp.NewServeMux()
//	mux.HandleFunc("GET /items/{id}", func(ctx rhttp.Context) (any, error) {
//	    id := ctx.Request().PathValue("id")
//	    if id == "" {
//	        return nil, rhttp.NewError(rhttp.CodeBadRequest, errors.New("missing id"))
//	    }
//	    w := ctx.Response()
//	    w.Header().Set("Content-Type", "application/json")
//	    return nil, json.NewEncoder(w).Encode(map[string]string{"id": id})
//	}, "get-item")
//
// # Capabilities
//
// Four function types compose into a pipeline:
//
//   - [Handler] runs the core route logic and returns a value or fails.
//   - [Filter] decorates a handler with before/around logic. Filters chain with
//     [Filter.Then]; the first filter is the outermost wrapping.
//   - [Before] runs preparatory logic. A failing before aborts the chain; a before that
//     starts the response short-circuits everything further in.
//   - [After] observes the handler's outcome exactly once, success or failure.
//
// All composition operators are pure: they allocate a new capability and never mutate
// their operands, so composed pipelines are safe for concurrent reentrant invocation.
//
// # Failure propagation
//
// The handler/after boundary follows strict rules. A handler failure sets the response
// status (via [ErrorCoder]) before the after hook runs. Failures of the after hook never
// replace an existing handler failure; they attach to it as suppressed secondary causes,
// retrievable with [Suppressed]. And once a response has started streaming, failures are
// no longer propagated to the dispatcher: they are logged through [Logger] and the
// exchange completes with whatever is on the wire.
//
// # Buffered responses
//
// Handlers write to a [ResponseWriter] that buffers output. Until the first explicit
// flush the response can be reset and replaced entirely, which is how clean error
// responses are produced for failed pipelines. An explicit flush (via http.Flusher or
// [ResponseBuffer.FlushError]) marks the response as started; from that point on status
// and headers are immutable and after/complete hooks observe the exchange through a
// read-only [Context] view.
//
// # Routes and dispatch
//
// [Route] aggregates a method, a pattern, the capabilities above and a memoized pipeline:
// [Route.Pipeline] composes once and caches, [Route.SetPipeline] overrides the cache for
// callers that build a custom pipeline. [ServeMux] registers routes against standard
// library patterns, dispatches one pipeline invocation per request, runs [Complete]
// hooks in reverse registration order once the response is fully written, and renders
// failed pipelines by their [Code].
//
// # Named routes and URL reversing
//
// Routes can be named for URL generation, avoiding hardcoded paths:
//
//	mux.HandleFunc("GET /users/{id}", getUser, "get-user")
//	url, err := mux.Reverse("get-user", "123") // "/users/123"
package rhttp
