package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var base = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Init configures the process-wide logger. Plain JSON output in prod,
// console writer for local dev.
func Init(serviceName string) {
	level := zerolog.InfoLevel
	if lv, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lv != zerolog.NoLevel {
		level = lv
	}

	var out = os.Stderr
	logger := zerolog.New(out)
	if os.Getenv("LOG_PRETTY") == "true" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	base = logger.Level(level).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Logger returns the configured base logger.
func Logger() *zerolog.Logger {
	return &base
}

// Ctx returns a logger enriched with the trace and span ids of the active
// span, so log lines can be correlated with traces in Jaeger.
func Ctx(ctx context.Context) *zerolog.Logger {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return &base
	}
	l := base.With().
		Str("trace_id", span.TraceID().String()).
		Str("span_id", span.SpanID().String()).
		Logger()
	return &l
}
