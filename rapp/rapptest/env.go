package rapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [rapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [rapp.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - RAPP_SERVICE_NAME: "test"
//   - RAPP_HEALTH_CHECK_PATH: "/healthz"
//   - RAPP_OTEL_EXPORTER: "none"
//   - RAPP_REQUEST_TIMEOUT: "5s"
//
// Use the returned [Env] to override individual values:
//
//	rapptest.SetBaseEnv(t, 18085).ServiceName("billing").RequestTimeout("1s")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("RAPP_PORT", strconv.Itoa(port))
	t.Setenv("RAPP_SERVICE_NAME", "test")
	t.Setenv("RAPP_HEALTH_CHECK_PATH", "/healthz")
	t.Setenv("RAPP_OTEL_EXPORTER", "none")
	t.Setenv("RAPP_REQUEST_TIMEOUT", "5s")
	return &Env{t: t}
}

// ServiceName overrides RAPP_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("RAPP_SERVICE_NAME", name)
	return e
}

// HealthCheckPath overrides RAPP_HEALTH_CHECK_PATH.
func (e *Env) HealthCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("RAPP_HEALTH_CHECK_PATH", path)
	return e
}

// LogLevel overrides RAPP_LOG_LEVEL.
func (e *Env) LogLevel(level string) *Env {
	e.t.Helper()
	e.t.Setenv("RAPP_LOG_LEVEL", level)
	return e
}

// OtelExporter overrides RAPP_OTEL_EXPORTER.
func (e *Env) OtelExporter(exp string) *Env {
	e.t.Helper()
	e.t.Setenv("RAPP_OTEL_EXPORTER", exp)
	return e
}

// RequestTimeout overrides RAPP_REQUEST_TIMEOUT.
func (e *Env) RequestTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("RAPP_REQUEST_TIMEOUT", d)
	return e
}
