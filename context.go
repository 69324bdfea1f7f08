package rhttp

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrReadOnlyResponse is returned from response mutations attempted through a read-only
// context view.
var ErrReadOnlyResponse = errors.New("rhttp: response is read-only")

// ResponseWriter is the buffered response surface handlers write to.
type ResponseWriter interface {
	http.ResponseWriter
	Started() bool
	Reset()
	Free()
	FlushError() error
	FlushBuffer() error
}

var _ ResponseWriter = &ResponseBuffer{}

// Context carries the mutable per-request state a route pipeline operates on. It is owned
// by the dispatcher for the duration of one request; pipelines never outlive it.
type Context interface {
	context.Context

	// Request returns the incoming request.
	Request() *http.Request
	// Response returns the buffered response writer.
	Response() ResponseWriter
	// ResponseStarted reports whether response transmission has begun. The flag is
	// monotonic: once true it stays true for the life of the request.
	ResponseStarted() bool
	// SetResponseStatus force-sets the response status code. It is a no-op once the
	// response has started.
	SetResponseStatus(status int)
	// AsReadOnly returns a view of this context that forwards all reads but rejects or
	// no-ops any mutation of response state.
	AsReadOnly() Context
	// OnComplete registers a hook that runs after the request/response cycle has fully
	// ended. Hooks run in reverse registration order against a read-only context.
	OnComplete(fn Complete)
}

// webContext is the dispatcher-owned Context implementation. The context.Context methods
// delegate to the request's context on every call, so filters that replace the request
// context stay visible downstream.
type webContext struct {
	req         *http.Request
	resp        *ResponseBuffer
	completions []Complete
}

// NewContext builds the per-request Context that a route's pipeline is invoked with. The
// dispatcher calls this once per request; it is exported for tests and custom transports.
func NewContext(resp *ResponseBuffer, req *http.Request) Context {
	return newWebContext(resp, req)
}

func newWebContext(resp *ResponseBuffer, req *http.Request) *webContext {
	return &webContext{req: req, resp: resp}
}

func (c *webContext) Deadline() (time.Time, bool) { return c.req.Context().Deadline() }
func (c *webContext) Done() <-chan struct{}       { return c.req.Context().Done() }
func (c *webContext) Err() error                  { return c.req.Context().Err() }
func (c *webContext) Value(key any) any           { return c.req.Context().Value(key) }

func (c *webContext) Request() *http.Request          { return c.req }
func (c *webContext) Response() ResponseWriter        { return c.resp }
func (c *webContext) ResponseStarted() bool           { return c.resp.Started() }
func (c *webContext) SetResponseStatus(status int)    { c.resp.setStatus(status) }
func (c *webContext) AsReadOnly() Context             { return readOnlyContext{c} }
func (c *webContext) OnComplete(fn Complete)          { c.completions = append(c.completions, fn) }

// readOnlyContext forwards all reads to the live context and neutralizes response mutation.
type readOnlyContext struct {
	Context
}

func (c readOnlyContext) Response() ResponseWriter { return readOnlyResponse{c.Context.Response()} }

func (c readOnlyContext) SetResponseStatus(int) {}

func (c readOnlyContext) AsReadOnly() Context { return c }

// readOnlyResponse permits response reads but rejects writes. Header returns a clone so
// mutations of the map don't reach the wire either.
type readOnlyResponse struct {
	resp ResponseWriter
}

func (r readOnlyResponse) Header() http.Header { return r.resp.Header().Clone() }

func (r readOnlyResponse) Write([]byte) (int, error) { return 0, ErrReadOnlyResponse }

func (r readOnlyResponse) WriteHeader(int) {}

func (r readOnlyResponse) Started() bool { return r.resp.Started() }

func (r readOnlyResponse) Reset() {}

func (r readOnlyResponse) Free() {}

func (r readOnlyResponse) FlushError() error { return ErrReadOnlyResponse }

func (r readOnlyResponse) FlushBuffer() error { return ErrReadOnlyResponse }
