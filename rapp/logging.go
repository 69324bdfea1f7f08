package rapp

import (
	"github.com/advdv/rhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment. It uses JSON encoding
// suitable for log aggregation; RAPP_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogSwallowedError(err error) {
	l.Logger.Error("failure after response started", zap.Error(err))
}

func (l zapLogger) LogCompleteHookError(err error) {
	l.Logger.Error("complete hook failed", zap.Error(err))
}

func (l zapLogger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while flushing implicitly", zap.Error(err))
}

func newZapHTTPLogger(l *zap.Logger) rhttp.Logger {
	return zapLogger{l.Named("rhttp")}
}
