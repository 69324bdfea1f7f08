// Package example implements an example filter in an outside package.
package example

import (
	"context"
	"log/slog"

	"github.com/advdv/rhttp"
)

// ctxKey type scopes filter values.
type ctxKey string

// Filter provides an example for a filter that adds a request-scoped logger to the
// context carried by the request.
func Filter(logs *slog.Logger) rhttp.Filter {
	return func(next rhttp.Handler) rhttp.Handler {
		return func(ctx rhttp.Context) (any, error) {
			r := ctx.Request()
			logs := logs.With(slog.String("method", r.Method))

			*r = *r.WithContext(context.WithValue(r.Context(), ctxKey("slog"), logs))

			return next(ctx)
		}
	}
}

func Log(ctx context.Context) *slog.Logger {
	v, _ := ctx.Value(ctxKey("slog")).(*slog.Logger)

	return v
}
