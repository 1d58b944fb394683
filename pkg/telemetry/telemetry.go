// Package telemetry configures OpenTelemetry tracing for the API.
package telemetry

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Option configures the tracer provider.
type Option func(*options)

type options struct {
	writer io.Writer
	pretty bool
	sync   bool
}

// WithWriter sends exported spans to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithPrettyPrint indents exported spans.
func WithPrettyPrint() Option {
	return func(o *options) {
		o.pretty = true
	}
}

// WithSyncExport exports each span as it ends. Meant for tests.
func WithSyncExport() Option {
	return func(o *options) {
		o.sync = true
	}
}

// Init installs a global tracer provider exporting to stdout and returns
// its shutdown function.
func Init(serviceName string, log *slog.Logger, opts ...Option) (func(context.Context) error, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var exOpts []stdouttrace.Option
	if o.writer != nil {
		exOpts = append(exOpts, stdouttrace.WithWriter(o.writer))
	}
	if o.pretty {
		exOpts = append(exOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exOpts...)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes("", semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	export := sdktrace.WithBatcher(exporter)
	if o.sync {
		export = sdktrace.WithSyncer(exporter)
	}
	tp := sdktrace.NewTracerProvider(export, sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)

	log.Info("tracing enabled", slog.String("service", serviceName))
	return tp.Shutdown, nil
}

// Middleware wraps an http.Handler with server spans named after operation.
func Middleware(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, operation)
	}
}
