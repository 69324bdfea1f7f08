package rhttp

import (
	"strings"
	"sync"
)

// Route aggregates the method, path pattern and the capabilities that compose into a
// single request pipeline: an optional [Filter], the mandatory [Handler] and an optional
// [After]. The composed pipeline is computed at most once and cached; reads of the cache
// are referentially stable for the life of the route.
type Route struct {
	method  string
	pattern string
	name    string

	filter  Filter
	handler Handler
	after   After

	coder ErrorCoder
	logs  Logger

	mu       sync.Mutex
	pipeline Handler
}

// NewRoute creates a new route. The handler is mandatory.
func NewRoute(method, pattern string, handler Handler) *Route {
	if handler == nil {
		panic("rhttp: route requires a handler")
	}

	return &Route{
		method:  strings.ToUpper(strings.TrimSpace(method)),
		pattern: pattern,
		handler: handler,
		coder:   DefaultErrorCoder,
		logs:    NewStdLogger(nil),
	}
}

// Method returns the HTTP method, or the empty string when the route matches any method.
func (r *Route) Method() string { return r.method }

// Pattern returns the path pattern.
func (r *Route) Pattern() string { return r.pattern }

// Name returns the route name used for URL reversing, or the empty string.
func (r *Route) Name() string { return r.name }

// Handler returns the core route handler.
func (r *Route) Handler() Handler { return r.handler }

// Filter returns the route filter or nil.
func (r *Route) Filter() Filter { return r.filter }

// After returns the after hook or nil.
func (r *Route) After() After { return r.after }

// SetName sets the route name.
func (r *Route) SetName(name string) *Route {
	r.name = name
	return r
}

// SetFilter sets the route filter. It has no effect on an already computed pipeline.
func (r *Route) SetFilter(f Filter) *Route {
	r.filter = f
	return r
}

// SetAfter sets the after hook. It has no effect on an already computed pipeline.
func (r *Route) SetAfter(a After) *Route {
	r.after = a
	return r
}

// SetErrorCoder sets the failure-to-status mapping the pipeline applies before the after
// hook observes a failed exchange.
func (r *Route) SetErrorCoder(c ErrorCoder) *Route {
	r.coder = c
	return r
}

// SetLogger sets the logger that keeps swallowed failures observable.
func (r *Route) SetLogger(l Logger) *Route {
	r.logs = l
	return r
}

// Pipeline returns the composed handler, computing and caching it on first use. Repeated
// calls return the same handler; invoking it concurrently with independent contexts is
// safe since composition carries no shared mutable state.
func (r *Route) Pipeline() Handler {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pipeline == nil {
		r.pipeline = r.computePipeline()
	}

	return r.pipeline
}

// SetPipeline overwrites the cached pipeline, bypassing composition entirely. This is an
// escape hatch for callers that pre-build a custom composed handler.
func (r *Route) SetPipeline(h Handler) *Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pipeline = h

	return r
}

func (r *Route) computePipeline() Handler {
	head := r.handler
	if r.filter != nil {
		head = r.filter.ThenHandler(r.handler)
	}
	if r.after != nil {
		head = head.thenWith(r.after, r.coder, r.logs)
	}

	return head
}

func (r *Route) String() string {
	if r.method == "" {
		return r.pattern
	}

	return r.method + " " + r.pattern
}
