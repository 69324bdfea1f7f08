package rhttp

// runComplete invokes the hooks registered on the context in reverse registration order,
// exactly once, against the read-only view. Hook failures are logged; at this point the
// response is fully written and there is nothing left to fail.
func runComplete(ctx *webContext, logs Logger) {
	hooks := ctx.completions
	if len(hooks) == 0 {
		return
	}
	ctx.completions = nil

	ro := ctx.AsReadOnly()
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ro); err != nil {
			logs.LogCompleteHookError(err)
		}
	}
}
