package rapp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zapcore"
)

func TestNewTracerProvider(t *testing.T) {
	t.Run("stdout exporter", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		tp, err := NewTracerProvider(lc, testEnv{level: zapcore.InfoLevel, otelExp: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, tp)

		lc.RequireStart()
		lc.RequireStop()
	})

	t.Run("none disables tracing", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		tp, err := NewTracerProvider(lc, testEnv{otelExp: "none"})
		require.NoError(t, err)
		require.NotNil(t, tp)
		assert.IsType(t, noop.TracerProvider{}, tp)
	})

	t.Run("unsupported exporter", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		_, err := NewTracerProvider(lc, testEnv{otelExp: "bogus"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported RAPP_OTEL_EXPORTER")
	})
}

func TestNewPropagator(t *testing.T) {
	prop := NewPropagator()
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, prop.Fields())
}

func TestWithTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	handler := withTracing(tp, NewPropagator(), "test-service", "/healthz")(inner)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	for _, path := range []string{"/items", "/healthz"} {
		resp, err := srv.Client().Get(srv.URL + path) //nolint:noctx
		require.NoError(t, err)
		resp.Body.Close()
	}

	spans := recorder.Ended()
	require.Len(t, spans, 1, "the health path must not be traced")
	assert.Equal(t, "GET /items", spans[0].Name())
}
