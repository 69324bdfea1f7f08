package rapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	healthCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	requestTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every app needs. Embed this in your
// custom environment struct and add your own fields next to it.
type BaseEnvironment struct {
	Port            int           `env:"RAPP_PORT" envDefault:"8080"`
	ServiceName     string        `env:"RAPP_SERVICE_NAME,required"`
	HealthCheckPath string        `env:"RAPP_HEALTH_CHECK_PATH" envDefault:"/healthz"`
	LogLevel        zapcore.Level `env:"RAPP_LOG_LEVEL" envDefault:"info"`
	OtelExporter    string        `env:"RAPP_OTEL_EXPORTER" envDefault:"stdout"`
	RequestTimeout  time.Duration `env:"RAPP_REQUEST_TIMEOUT" envDefault:"25s"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) healthCheckPath() string {
	return e.HealthCheckPath
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) requestTimeout() time.Duration {
	return e.RequestTimeout
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
