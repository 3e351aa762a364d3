// Command lakereveal runs the lake assessment engine over batches of
// text-extracted monitoring documents: per-document compliance scoring and
// per-lake multi-year trend assessment.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func main() {
	shutdown, err := initTracing(context.Background())
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	}
	if shutdown != nil {
		defer shutdown()
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initTracing wires an OTLP/HTTP trace exporter when an endpoint is
// configured; otherwise spans stay no-op.
func initTracing(ctx context.Context) (func(), error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName("lakereveal")),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("trace shutdown: %v", err)
		}
	}, nil
}
