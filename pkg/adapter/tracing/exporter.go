// pkg/adapter/tracing/exporter.go

package tracing

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/njweb/webapi/pkg/domain/tracing"
)

// isURL reports whether endpoint carries a scheme, e.g.
// "https://collector:4318/v1/traces".
func isURL(endpoint string) bool {
	return strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://")
}

func newExporter(ctx context.Context, opts tracing.Options) (sdktrace.SpanExporter, error) {
	endpoint := opts.Endpoint()

	switch opts.ExporterType {
	case tracing.HTTPExporter:
		var httpOpts []otlptracehttp.Option
		if isURL(endpoint) {
			httpOpts = append(httpOpts, otlptracehttp.WithEndpointURL(endpoint))
		} else {
			httpOpts = append(httpOpts, otlptracehttp.WithEndpoint(endpoint))
		}
		if opts.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		if len(opts.Headers) > 0 {
			httpOpts = append(httpOpts, otlptracehttp.WithHeaders(opts.Headers))
		}
		return otlptracehttp.New(ctx, httpOpts...)

	case tracing.GRPCExporter:
		var grpcOpts []otlptracegrpc.Option
		if isURL(endpoint) {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithEndpointURL(endpoint))
		} else {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithEndpoint(endpoint))
		}
		if opts.Insecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		if len(opts.Headers) > 0 {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithHeaders(opts.Headers))
		}
		return otlptracegrpc.New(ctx, grpcOpts...)

	case tracing.StdoutExporter:
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))

	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", opts.ExporterType)
	}
}
