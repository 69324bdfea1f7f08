// Package rapp provides a batteries-included runtime for services built on the rhttp mux.
//
// It wires the pieces a production service needs but that no individual handler wants to
// own: environment parsing, a zap logger, an OpenTelemetry tracer provider with traced
// inbound and outbound HTTP, per-request timeouts, a health endpoint and a managed
// http.Server lifecycle. Dependency injection is handled by fx; the application declares
// its environment struct and a routing function and gets a runnable app back.
//
// # Quick start
//
//	type Env struct {
//	    rapp.BaseEnvironment
//
//	    GreetingPrefix string `env:"APP_GREETING_PREFIX" envDefault:"hello"`
//	}
//
//	func main() {
//	    rapp.NewApp[Env](func(m *rapp.Mux, rt *rapp.Runtime[Env]) {
//	        m.HandleFunc("GET /greet/{name}", func(ctx rhttp.Context) (any, error) {
//	            fmt.Fprintf(ctx.Response(), "%s, %s",
//	                rt.Env().GreetingPrefix, ctx.Request().PathValue("name"))
//	            return nil, nil
//	        }, "greet")
//	    }).Run()
//	}
//
// # Environment
//
// Configuration comes exclusively from environment variables, parsed with caarlos0/env.
// Embed [BaseEnvironment] for the variables the runtime itself needs (RAPP_PORT,
// RAPP_SERVICE_NAME, RAPP_LOG_LEVEL, ...) and add service-specific fields next to it.
//
// # Request-scoped logging and tracing
//
// Handlers obtain a trace-correlated logger with [Log] and the active span with [Span].
// Outbound calls made through [Runtime.NewRequest] or [NewHTTPClient] propagate the
// trace context automatically.
//
// # Timeouts
//
// Every request runs under a deadline of RAPP_REQUEST_TIMEOUT; the http.Server timeouts
// sit slightly above it so handlers observe the context deadline rather than a dropped
// connection. [RequestRemainingTime] reports the budget a handler has left.
package rapp
