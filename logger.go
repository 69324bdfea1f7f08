package rhttp

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states. Failures that occur
// after the response has started cannot be reported to the client anymore; this is the
// channel that keeps them observable.
type Logger interface {
	LogUnhandledServeError(err error)
	LogSwallowedError(err error)
	LogCompleteHookError(err error)
	LogImplicitFlushError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Printf("rhttp: unhandled server error: %s", err)
}

func (l stdLogger) LogSwallowedError(err error) {
	l.Printf("rhttp: failure after response started: %s", err)
}

func (l stdLogger) LogCompleteHookError(err error) {
	l.Printf("rhttp: complete hook failed: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Printf("rhttp: error while flushing implicitly: %s", err)
}

// NewStdLogger inits a Logger on the standard library's logger. A nil argument uses
// log.Default().
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

// TestLogger counts logged events while forwarding them to the test log.
type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogSwallowedError      int64
	NumLogCompleteHookError   int64
	NumLogImplicitFlushError  int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.logf("rhttp: unhandled server error: %s", err)
}

func (l *TestLogger) LogSwallowedError(err error) {
	atomic.AddInt64(&l.NumLogSwallowedError, 1)
	l.logf("rhttp: failure after response started: %s", err)
}

func (l *TestLogger) LogCompleteHookError(err error) {
	atomic.AddInt64(&l.NumLogCompleteHookError, 1)
	l.logf("rhttp: complete hook failed: %s", err)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.logf("rhttp: error while flushing implicitly: %s", err)
}

func (l *TestLogger) logf(format string, args ...any) {
	if l.tb != nil {
		l.tb.Logf(format, args...)
	}
}

var _ Logger = &TestLogger{}
