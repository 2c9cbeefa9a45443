// Package logger builds the zap logger shared by all fitstore packages and
// correlates log lines with OpenTelemetry spans.
package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// New returns a production (JSON) logger when json is true, a development
// console logger otherwise.
func New(json bool) (*zap.Logger, error) {
	if json {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	return zap.NewDevelopment()
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// With adds fields to the logger stored in ctx.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return WithContext(ctx, stored(ctx).With(fields...))
}

// FromContext returns the logger stored in ctx, falling back to the global
// zap logger. Trace and span IDs are attached when ctx carries a valid span.
func FromContext(ctx context.Context) *zap.Logger {
	return Enrich(ctx, stored(ctx))
}

func stored(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(ctxKey{}).(*zap.Logger)
	if !ok || l == nil {
		return zap.L()
	}
	return l
}

// Enrich adds the trace and span IDs carried by ctx to l.
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
