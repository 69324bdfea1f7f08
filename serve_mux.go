package rhttp

import (
	"log"
	"net/http"
	"strings"
)

// ServeMux is an HTTP multiplexer that dispatches requests to route pipelines. It layers
// buffered responses, filter/after composition, completion hooks and named routes on top
// of the standard library's pattern matching.
type ServeMux struct {
	logs     Logger
	bufLimit int
	coder    ErrorCoder
	reverser *Reverser
	mux      *http.ServeMux
	routes   []*Route
	chain    struct {
		captured bool
		filters  []Filter
		after    After
	}
}

// NewServeMux creates a new ServeMux with default settings.
func NewServeMux() *ServeMux {
	return NewServeMuxWith(-1, NewStdLogger(log.Default()), http.NewServeMux(), NewReverser())
}

// NewServeMuxWith creates a ServeMux with custom settings.
func NewServeMuxWith(bufLimit int, logger Logger, baseMux *http.ServeMux, reverser *Reverser) *ServeMux {
	return &ServeMux{
		bufLimit: bufLimit,
		logs:     logger,
		coder:    DefaultErrorCoder,
		reverser: reverser,
		mux:      baseMux,
	}
}

// SetErrorCoder replaces the failure-to-status mapping applied to routes registered after
// this call and to the mux's own error rendering.
func (m *ServeMux) SetErrorCoder(c ErrorCoder) { m.coder = c }

// Reverse returns the url based on the name and parameter values.
func (m *ServeMux) Reverse(name string, vals ...string) (string, error) {
	return m.reverser.Reverse(name, vals...)
}

// Use registers filters. The filter provided first is the outermost wrapping, the one
// provided last sits closest to the route handler.
func (m *ServeMux) Use(filters ...Filter) {
	m.ensureNoUseAfterHandle()
	m.chain.filters = append(m.chain.filters, filters...)
}

// Before registers before hooks as filters, preserving their short-circuit rules: a hook
// that fails or starts the response prevents everything further in from running.
func (m *ServeMux) Before(hooks ...Before) {
	m.ensureNoUseAfterHandle()
	for _, b := range hooks {
		m.chain.filters = append(m.chain.filters, b.Filter())
	}
}

// After registers after hooks. Each newly registered hook executes before the previously
// registered ones.
func (m *ServeMux) After(hooks ...After) {
	m.ensureNoUseAfterHandle()
	for _, a := range hooks {
		if m.chain.after == nil {
			m.chain.after = a
		} else {
			m.chain.after = m.chain.after.Then(a)
		}
	}
}

// HandleFunc handles the request given the pattern using a function.
func (m *ServeMux) HandleFunc(pattern string, handler Handler, name ...string) *Route {
	return m.Handle(pattern, handler, name...)
}

// Handle registers a route for the given pattern (e.g. "GET /items/{id}") and returns it.
// Filters and after hooks registered via [ServeMux.Use], [ServeMux.Before] and
// [ServeMux.After] are attached to the route; its pipeline is composed lazily on the
// first request.
func (m *ServeMux) Handle(pattern string, handler Handler, name ...string) *Route {
	method, path := splitMethodPattern(pattern)

	rt := NewRoute(method, path, handler)
	rt.SetErrorCoder(m.coder)
	rt.SetLogger(m.logs)
	if len(m.chain.filters) > 0 {
		rt.SetFilter(ChainFilters(m.chain.filters...))
	}
	if m.chain.after != nil {
		rt.SetAfter(m.chain.after)
	}
	if len(name) > 0 {
		rt.SetName(name[0])
	}

	m.handle(pattern, m.dispatch(rt), name...)
	m.routes = append(m.routes, rt)

	return rt
}

// HandleStd registers a standard library [http.Handler] for the given pattern. Filters
// registered via [ServeMux.Use] are applied; errors the handler writes itself are its own.
func (m *ServeMux) HandleStd(pattern string, handler http.Handler, name ...string) *Route {
	return m.Handle(pattern, func(ctx Context) (any, error) {
		handler.ServeHTTP(ctx.Response(), ctx.Request())
		return nil, nil
	}, name...)
}

// Routes returns the registered routes in registration order.
func (m *ServeMux) Routes() []*Route { return m.routes }

// Route returns the route registered under the given name, or nil.
func (m *ServeMux) Route(name string) *Route {
	for _, rt := range m.routes {
		if rt.Name() == name {
			return rt
		}
	}

	return nil
}

// ServeHTTP makes the server mux implement the http.Handler interface.
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mux.ServeHTTP(w, r)
}

// dispatch adapts a route to the standard library: one buffered context per request, one
// pipeline invocation, completion hooks, implicit flush.
func (m *ServeMux) dispatch(rt *Route) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		bresp := NewResponseBuffer(resp, m.bufLimit)
		defer bresp.Free()

		ctx := newWebContext(bresp, req)

		if _, err := rt.Pipeline()(ctx); err != nil {
			m.logs.LogUnhandledServeError(err)

			// The pipeline only fails while the response has not started, so the
			// buffer can still be replaced with a clean error response.
			if !bresp.Started() {
				bresp.Reset()
				code := m.coder.ErrorCode(err)
				http.Error(bresp, http.StatusText(int(code)), int(code))
			}
		}

		runComplete(ctx, m.logs)

		if err := bresp.FlushBuffer(); err != nil {
			m.logs.LogImplicitFlushError(err)
		}
	})
}

func (m *ServeMux) handle(pattern string, handler http.Handler, name ...string) {
	m.chain.captured = true

	if len(name) > 0 {
		pattern = m.reverser.Named(name[0], pattern)
	}

	m.mux.Handle(pattern, handler)
}

func (m *ServeMux) ensureNoUseAfterHandle() {
	if m.chain.captured {
		panic("rhttp: cannot register filters after calling Handle")
	}
}

// splitMethodPattern splits a pattern like "GET /items/{id}" into its method and path
// parts. Patterns without a method return an empty method.
func splitMethodPattern(pattern string) (method, path string) {
	if idx := strings.IndexByte(pattern, '/'); idx > 0 {
		if spaceIdx := strings.IndexByte(pattern[:idx], ' '); spaceIdx >= 0 {
			return pattern[:spaceIdx], strings.TrimSpace(pattern[spaceIdx+1:])
		}
	}

	return "", pattern
}
