package rhttp

// Handler is the atomic unit of request-processing logic: it takes the per-request
// Context and produces a result value or fails. Handlers are stateless function values;
// composition allocates new handlers and never mutates the originals. A handler that
// sends the response directly (explicit flush) returns the Context itself as its value,
// which downstream layers treat as the "response already emitted" sentinel.
type Handler func(ctx Context) (any, error)

// Filter decorates a handler by running logic before and after it, producing a new
// handler.
//
//	mux.Use(func(next rhttp.Handler) rhttp.Handler {
//		return func(ctx rhttp.Context) (any, error) {
//			start := time.Now()
//			v, err := next(ctx)
//			log.Printf("took: %s", time.Since(start))
//			return v, err
//		}
//	})
type Filter func(next Handler) Handler

// Then chains this filter with another and produces a new filter. The receiver's logic is
// outermost: applying the result to a handler h yields f(next(h)). Chaining is
// associative and side-effect free.
func (f Filter) Then(next Filter) Filter {
	return func(h Handler) Handler { return f(next(h)) }
}

// ThenHandler chains this filter with a handler and produces a new handler.
func (f Filter) ThenHandler(next Handler) Handler {
	return func(ctx Context) (any, error) { return f(next)(ctx) }
}

// Before runs preparatory logic ahead of a handler. It is both usable standalone and as a
// [Filter] via [Before.Filter]: a failing before aborts the chain before the handler runs,
// and a before that starts the response short-circuits the handler entirely.
type Before func(ctx Context) error

// Filter converts the before hook into a [Filter] wrapping any downstream handler with
// the short-circuit rules of [Before.ThenHandler].
func (b Before) Filter() Filter {
	return func(next Handler) Handler { return b.ThenHandler(next) }
}

// Then chains this before hook with the next one. The next hook only runs when this one
// succeeded and the response has not started.
func (b Before) Then(next Before) Before {
	return func(ctx Context) error {
		if err := b(ctx); err != nil {
			return err
		}
		if ctx.ResponseStarted() {
			return nil
		}

		return next(ctx)
	}
}

// ThenHandler chains this before hook with a handler. A failure propagates immediately
// and next never runs. When the hook succeeds but has started the response, next is
// skipped and the Context sentinel is returned instead of a handler value.
func (b Before) ThenHandler(next Handler) Handler {
	return func(ctx Context) (any, error) {
		if err := b(ctx); err != nil {
			return nil, err
		}
		if ctx.ResponseStarted() {
			return ctx, nil
		}

		return next(ctx)
	}
}

// After runs once a handler has produced a result or failed. Exactly one of result and
// failure is meaningful: on failure result is nil, and once the response has started the
// hook receives a nil result and a read-only context regardless of what the handler
// returned.
type After func(ctx Context, result any, failure error) error

// Then chains this after hook with the next one, producing a hook that runs next first
// and this one second. Both always run: a failure of either does not stop the other, the
// first failure stays primary and later failures attach to it as suppressed.
func (a After) Then(next After) After {
	return func(ctx Context, result any, failure error) error {
		err := next(ctx, result, failure)
		if herr := a(ctx, result, failure); herr != nil {
			err = Suppress(err, herr)
		}

		return err
	}
}

// Complete is a terminal notification hook invoked exactly once per request after the
// response has been fully written. It observes the exchange through a read-only context;
// it is too late to modify anything.
type Complete func(ctx Context) error

// Then chains the handler with an after hook using the default error coder and logger.
// Routes compose with their own collaborators; see [Route.Pipeline].
func (h Handler) Then(next After) Handler {
	return h.thenWith(next, DefaultErrorCoder, NewStdLogger(nil))
}

// thenWith builds the handler/after boundary:
//
//  1. Run the handler, capturing a value or a failure.
//  2. On failure, set the response status from the failure before anything else so the
//     after hook observes a response that already reflects it.
//  3. Run the after hook. Once the response has started it gets a read-only context and a
//     nil value; otherwise the live context and the handler's value.
//  4. A failure of the after hook replaces the result with nil and either becomes the
//     primary failure or attaches to the existing one as suppressed.
//  5. With no failure left, return the result. With a failure and a started response,
//     log it and return the live Context: the status line is already on the wire, so
//     rethrowing could only corrupt it. Otherwise fail the invocation.
func (h Handler) thenWith(next After, coder ErrorCoder, logs Logger) Handler {
	return func(ctx Context) (any, error) {
		value, cause := h(ctx)
		if cause != nil {
			value = nil
			ctx.SetResponseStatus(int(coder.ErrorCode(cause)))
		}

		actx, avalue := ctx, value
		if ctx.ResponseStarted() {
			actx, avalue = ctx.AsReadOnly(), nil
		}

		result := value
		if err := next(actx, avalue, cause); err != nil {
			result = nil
			cause = Suppress(cause, err)
		}

		if cause == nil {
			return result, nil
		}
		if ctx.ResponseStarted() {
			logs.LogSwallowedError(cause)
			return ctx, nil
		}

		return nil, cause
	}
}

// ChainFilters combines filters into one. The filter provided first is the outermost
// wrapping, the one provided last sits closest to the handler.
func ChainFilters(filters ...Filter) Filter {
	return func(h Handler) Handler {
		wrapped := h
		for i := len(filters) - 1; i >= 0; i-- {
			wrapped = filters[i](wrapped)
		}

		return wrapped
	}
}
