package rapp_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/advdv/rhttp"
	"github.com/advdv/rhttp/rapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerTimeouts(t *testing.T) {
	t.Run("bounds sit above the request budget", func(t *testing.T) {
		tc := rapp.TimeoutConfig{RequestTimeout: 25 * time.Second}
		rh, r, w, idle := tc.ServerTimeouts()

		assert.Equal(t, 5*time.Second, rh)
		assert.Equal(t, 25*time.Second+rapp.DefaultTimeoutBuffer, r)
		assert.Equal(t, 25*time.Second+rapp.DefaultTimeoutBuffer, w)
		assert.Equal(t, 2*(25*time.Second+rapp.DefaultTimeoutBuffer), idle)
	})

	t.Run("short budgets cap the header timeout", func(t *testing.T) {
		tc := rapp.TimeoutConfig{RequestTimeout: time.Second, TimeoutBuffer: 100 * time.Millisecond}
		rh, _, _, _ := tc.ServerTimeouts()
		assert.Equal(t, 1100*time.Millisecond, rh)
	})
}

func TestWithRequestTimeout(t *testing.T) {
	newCtx := func(t *testing.T) rhttp.Context {
		t.Helper()
		resp := rhttp.NewResponseBuffer(httptest.NewRecorder(), -1)
		t.Cleanup(resp.Free)

		return rhttp.NewContext(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	}

	t.Run("puts a deadline on the request context", func(t *testing.T) {
		ctx := newCtx(t)
		require.NoError(t, rapp.WithRequestTimeout(10*time.Second)(ctx))

		deadline, ok := ctx.Request().Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(10*time.Second), deadline, time.Second)

		// the web context delegates to the request context, so handlers see it too
		_, ok = ctx.Deadline()
		require.True(t, ok)
		assert.Positive(t, rapp.RequestRemainingTime(ctx))
	})

	t.Run("zero timeout leaves the context alone", func(t *testing.T) {
		ctx := newCtx(t)
		require.NoError(t, rapp.WithRequestTimeout(0)(ctx))

		_, ok := ctx.Request().Context().Deadline()
		require.False(t, ok)
		assert.Zero(t, rapp.RequestRemainingTime(ctx))
	})

	t.Run("cancels the context once the request cycle ends", func(t *testing.T) {
		var done <-chan struct{}

		mux := rhttp.NewServeMux()
		mux.Before(rapp.WithRequestTimeout(time.Minute))
		mux.HandleFunc("GET /", func(ctx rhttp.Context) (any, error) {
			done = ctx.Request().Context().Done()
			return nil, nil
		})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotNil(t, done)
		select {
		case <-done:
		default:
			t.Fatal("request context should be canceled after the cycle ended")
		}
	})
}
