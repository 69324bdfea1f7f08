package rapp

import (
	"context"
	"time"

	"github.com/advdv/rhttp"
)

// DefaultTimeoutBuffer is the time reserved between the per-request deadline and the
// server-level write timeout so handlers can still render an error response.
const DefaultTimeoutBuffer = 500 * time.Millisecond

// TimeoutConfig derives http.Server timeout values from the per-request budget.
type TimeoutConfig struct {
	// RequestTimeout is the per-request budget from RAPP_REQUEST_TIMEOUT.
	RequestTimeout time.Duration

	// TimeoutBuffer is added on top of the request budget for the server-level bounds.
	// Defaults to DefaultTimeoutBuffer.
	TimeoutBuffer time.Duration
}

// ServerTimeouts returns the http.Server timeout values. The server bounds sit one
// buffer above the per-request deadline so the deadline, not the connection teardown,
// is what a slow handler observes first.
func (tc TimeoutConfig) ServerTimeouts() (readHeaderTimeout, readTimeout, writeTimeout, idleTimeout time.Duration) {
	buffer := tc.TimeoutBuffer
	if buffer <= 0 {
		buffer = DefaultTimeoutBuffer
	}

	outer := tc.RequestTimeout + buffer

	readHeaderTimeout = min(outer, 5*time.Second)
	readTimeout = outer
	writeTimeout = outer
	idleTimeout = 2 * outer

	return
}

// WithRequestTimeout returns a before hook that puts a deadline on the request context.
// The deadline's cancel func is released through a completion hook once the
// request/response cycle has fully ended, so late after hooks still see the live context.
func WithRequestTimeout(timeout time.Duration) rhttp.Before {
	return func(ctx rhttp.Context) error {
		if timeout <= 0 {
			return nil
		}

		req := ctx.Request()
		tctx, cancel := context.WithTimeout(req.Context(), timeout)
		*req = *req.WithContext(tctx)

		ctx.OnComplete(func(rhttp.Context) error {
			cancel()
			return nil
		})

		return nil
	}
}

// RequestDeadline returns the context deadline for the current request.
// Returns the zero time and false if no deadline is set.
func RequestDeadline(ctx context.Context) (time.Time, bool) {
	return ctx.Deadline()
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
