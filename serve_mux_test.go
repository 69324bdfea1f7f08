package rhttp_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advdv/rhttp"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(mux *rhttp.ServeMux, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	return rec
}

func TestServeMuxDispatch(t *testing.T) {
	t.Run("serves a handler with path values", func(t *testing.T) {
		mux := rhttp.NewServeMux()
		mux.HandleFunc("GET /hello/{name}", func(ctx rhttp.Context) (any, error) {
			fmt.Fprintf(ctx.Response(), "hello, %s", ctx.Request().PathValue("name"))
			return nil, nil
		})

		rec := serve(mux, http.MethodGet, "/hello/world")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "hello, world", rec.Body.String())
	})

	t.Run("renders coded errors as their status", func(t *testing.T) {
		logs := rhttp.NewTestLogger(t)
		mux := rhttp.NewServeMuxWith(-1, logs, http.NewServeMux(), rhttp.NewReverser())
		mux.HandleFunc("GET /missing", func(ctx rhttp.Context) (any, error) {
			return nil, rhttp.NewError(rhttp.CodeNotFound, errors.New("no such thing"))
		})

		rec := serve(mux, http.MethodGet, "/missing")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Not Found\n", rec.Body.String())
		assert.Equal(t, int64(1), logs.NumLogUnhandledServeError)
	})

	t.Run("renders uncoded errors as 500", func(t *testing.T) {
		logs := rhttp.NewTestLogger(t)
		mux := rhttp.NewServeMuxWith(-1, logs, http.NewServeMux(), rhttp.NewReverser())
		mux.HandleFunc("GET /boom", func(ctx rhttp.Context) (any, error) {
			return nil, errors.New("some internal mistake")
		})

		rec := serve(mux, http.MethodGet, "/boom")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("replaces a half-written buffer on failure", func(t *testing.T) {
		mux := rhttp.NewServeMuxWith(-1, rhttp.NewTestLogger(t), http.NewServeMux(), rhttp.NewReverser())
		mux.HandleFunc("GET /half", func(ctx rhttp.Context) (any, error) {
			fmt.Fprintf(ctx.Response(), "these bytes must never reach the client")
			return nil, rhttp.NewError(rhttp.CodeBadRequest, errors.New("changed my mind"))
		})

		rec := serve(mux, http.MethodGet, "/half")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotContains(t, rec.Body.String(), "these bytes")
	})

	t.Run("swallows failures once the response started", func(t *testing.T) {
		logs := rhttp.NewTestLogger(t)
		mux := rhttp.NewServeMuxWith(-1, logs, http.NewServeMux(), rhttp.NewReverser())
		mux.HandleFunc("GET /stream", func(ctx rhttp.Context) (any, error) {
			fmt.Fprintf(ctx.Response(), "partial")
			require.NoError(t, ctx.Response().FlushError())

			return nil, errors.New("broke mid-stream")
		})

		rec := serve(mux, http.MethodGet, "/stream")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "partial", rec.Body.String())
		assert.Equal(t, int64(1), logs.NumLogSwallowedError)
		assert.Zero(t, logs.NumLogUnhandledServeError)
	})

	t.Run("custom error coder", func(t *testing.T) {
		mux := rhttp.NewServeMux()
		mux.SetErrorCoder(rhttp.ErrorCoderFunc(func(err error) rhttp.Code {
			return rhttp.CodeTeapot
		}))
		mux.HandleFunc("GET /brew", func(ctx rhttp.Context) (any, error) {
			return nil, errors.New("coffee requested")
		})

		rec := serve(mux, http.MethodGet, "/brew")
		require.Equal(t, http.StatusTeapot, rec.Code)
	})
}

func TestServeMuxChains(t *testing.T) {
	t.Run("filters wrap in registration order", func(t *testing.T) {
		var order []string
		tag := func(name string) rhttp.Filter {
			return func(next rhttp.Handler) rhttp.Handler {
				return func(ctx rhttp.Context) (any, error) {
					order = append(order, name)
					return next(ctx)
				}
			}
		}

		mux := rhttp.NewServeMux()
		mux.Use(tag("outer"), tag("middle"))
		mux.Use(tag("inner"))
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			order = append(order, "handler")
			return nil, nil
		})

		serve(mux, http.MethodGet, "/")
		require.Equal(t, []string{"outer", "middle", "inner", "handler"}, order)
	})

	t.Run("before hooks can reject the request", func(t *testing.T) {
		mux := rhttp.NewServeMux()
		mux.Before(func(ctx rhttp.Context) error {
			if ctx.Request().Header.Get("Authorization") == "" {
				return rhttp.NewError(rhttp.CodeUnauthorized, errors.New("no credentials"))
			}

			return nil
		})
		mux.HandleFunc("GET /private", func(ctx rhttp.Context) (any, error) {
			fmt.Fprintf(ctx.Response(), "secret")
			return nil, nil
		})

		rec := serve(mux, http.MethodGet, "/private")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotContains(t, rec.Body.String(), "secret")

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer x")
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, "secret", rec.Body.String())
	})

	t.Run("before hook that responds short-circuits", func(t *testing.T) {
		mux := rhttp.NewServeMux()
		mux.Before(func(ctx rhttp.Context) error {
			ctx.SetResponseStatus(http.StatusNoContent)
			return ctx.Response().FlushError()
		})

		var handled bool
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			handled = true
			return nil, nil
		})

		rec := serve(mux, http.MethodGet, "/")
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.False(t, handled, "handler should not have run")
	})

	t.Run("after hooks run newest first", func(t *testing.T) {
		var order []string
		mux := rhttp.NewServeMux()
		mux.After(func(ctx rhttp.Context, v any, err error) error {
			order = append(order, "first-registered")
			return nil
		})
		mux.After(func(ctx rhttp.Context, v any, err error) error {
			order = append(order, "second-registered")
			return nil
		})
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			return nil, nil
		})

		serve(mux, http.MethodGet, "/")
		require.Equal(t, []string{"second-registered", "first-registered"}, order)
	})

	t.Run("after hook observes the handler failure", func(t *testing.T) {
		var seen error
		mux := rhttp.NewServeMuxWith(-1, rhttp.NewTestLogger(t), http.NewServeMux(), rhttp.NewReverser())
		mux.After(func(ctx rhttp.Context, v any, err error) error {
			seen = err
			return nil
		})
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			return nil, rhttp.NewError(rhttp.CodeConflict, errors.New("already exists"))
		})

		rec := serve(mux, http.MethodGet, "/")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, rhttp.CodeConflict, rhttp.CodeOf(seen))
	})

	t.Run("panics when registering after Handle", func(t *testing.T) {
		mux := rhttp.NewServeMux()
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) { return nil, nil })

		noop := func(next rhttp.Handler) rhttp.Handler { return next }
		require.PanicsWithValue(t, "rhttp: cannot register filters after calling Handle", func() {
			mux.Use(noop)
		})
		require.Panics(t, func() { mux.Before(func(rhttp.Context) error { return nil }) })
		require.Panics(t, func() { mux.After(func(rhttp.Context, any, error) error { return nil }) })
	})
}

func TestServeMuxComplete(t *testing.T) {
	t.Run("hooks run in reverse order against a read-only view", func(t *testing.T) {
		var order []string
		mux := rhttp.NewServeMux()
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			ctx.OnComplete(func(c rhttp.Context) error {
				order = append(order, "first")
				_, err := c.Response().Write([]byte("too late"))
				require.ErrorIs(t, err, rhttp.ErrReadOnlyResponse)

				return nil
			})
			ctx.OnComplete(func(c rhttp.Context) error {
				order = append(order, "second")
				return nil
			})

			fmt.Fprintf(ctx.Response(), "done")

			return nil, nil
		})

		rec := serve(mux, http.MethodGet, "/")
		require.Equal(t, "done", rec.Body.String())
		require.Equal(t, []string{"second", "first"}, order)
	})

	t.Run("hook failures are logged, not rendered", func(t *testing.T) {
		logs := rhttp.NewTestLogger(t)
		mux := rhttp.NewServeMuxWith(-1, logs, http.NewServeMux(), rhttp.NewReverser())
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			ctx.OnComplete(func(rhttp.Context) error {
				return errors.New("audit write failed")
			})

			return nil, nil
		})

		rec := serve(mux, http.MethodGet, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(1), logs.NumLogCompleteHookError)
	})

	t.Run("hooks run even when the pipeline fails", func(t *testing.T) {
		var ran bool
		mux := rhttp.NewServeMuxWith(-1, rhttp.NewTestLogger(t), http.NewServeMux(), rhttp.NewReverser())
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			ctx.OnComplete(func(rhttp.Context) error {
				ran = true
				return nil
			})

			return nil, errors.New("fail after registering")
		})

		serve(mux, http.MethodGet, "/")
		require.True(t, ran)
	})
}

func TestServeMuxNaming(t *testing.T) {
	t.Run("reverses named routes", func(t *testing.T) {
		mux := rhttp.NewServeMux()
		mux.HandleFunc("GET /users/{id}/posts/{post}", func(ctx rhttp.Context) (any, error) {
			return nil, nil
		}, "user_post")

		loc, err := mux.Reverse("user_post", "5", "a-slug")
		require.NoError(t, err)
		require.Equal(t, "/users/5/posts/a-slug", loc)
	})

	t.Run("finds routes by name", func(t *testing.T) {
		mux := rhttp.NewServeMux()
		rt := mux.HandleFunc("GET /a", func(ctx rhttp.Context) (any, error) { return nil, nil }, "route_a")
		mux.HandleFunc("GET /b", func(ctx rhttp.Context) (any, error) { return nil, nil })

		require.Same(t, rt, mux.Route("route_a"))
		require.Nil(t, mux.Route("nope"))
		require.Len(t, mux.Routes(), 2)
	})
}

func TestServeMuxMount(t *testing.T) {
	t.Run("mounts a sub-mux with the prefix stripped", func(t *testing.T) {
		api := rhttp.NewServeMux()
		api.HandleFunc("GET /items/{id}", func(ctx rhttp.Context) (any, error) {
			fmt.Fprintf(ctx.Response(), "item %s", ctx.Request().PathValue("id"))
			return nil, nil
		})

		root := rhttp.NewServeMux()
		root.Mount("/api/v1", api)

		rec := serve(root, http.MethodGet, "/api/v1/items/42")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "item 42", rec.Body.String())
	})

	t.Run("mounts a plain handler func", func(t *testing.T) {
		root := rhttp.NewServeMux()
		root.MountFunc("/debug", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "path=%s", r.URL.Path)
		})

		rec := serve(root, http.MethodGet, "/debug/vars")
		require.Equal(t, "path=/vars", rec.Body.String())

		rec = serve(root, http.MethodGet, "/debug")
		require.Equal(t, "path=/", rec.Body.String())
	})
}

func TestServeMuxHandleStd(t *testing.T) {
	mux := rhttp.NewServeMux()
	mux.Use(func(next rhttp.Handler) rhttp.Handler {
		return func(ctx rhttp.Context) (any, error) {
			ctx.Response().Header().Set("X-Filtered", "yes")
			return next(ctx)
		}
	})
	mux.HandleStd("GET /std", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, strings.ToUpper("std says hi"))
	}))

	rec := serve(mux, http.MethodGet, "/std")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "STD SAYS HI", rec.Body.String())
	require.Equal(t, "yes", rec.Header().Get("X-Filtered"))
}
