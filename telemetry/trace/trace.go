//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package trace provides the tracer-provider bootstrap for evaluation runs.
// It integrates with OpenTelemetry and exports spans over OTLP.
package trace

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// Start configures the global tracer provider and returns a clean function
// that flushes and shuts it down.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	tracerProvider, err := NewTracerProvider(ctx, opts...)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tracerProvider)
	return func() error {
		return tracerProvider.Shutdown(context.Background())
	}, nil
}

// NewTracerProvider creates a new tracer provider with optional configuration.
// The environment variables described below can be used for endpoint
// configuration.
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_TRACES_ENDPOINT (default: "localhost:4317")
// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc
func NewTracerProvider(ctx context.Context, opts ...Option) (*sdktrace.TracerProvider, error) {
	// Set default options
	options := &options{
		serviceName:      telemetry.ServiceName,
		serviceVersion:   telemetry.ServiceVersion,
		serviceNamespace: telemetry.ServiceNamespace,
		protocol:         telemetry.ProtocolGRPC, // Default to gRPC
	}
	for _, opt := range opts {
		opt(options)
	}

	// Set endpoint based on protocol if not explicitly set
	if options.tracesEndpoint == "" {
		options.tracesEndpoint = tracesEndpoint(options.protocol)
	}

	res, err := buildResource(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter *otlptrace.Exporter
	switch options.protocol {
	case telemetry.ProtocolHTTP:
		exporter, err = newHTTPExporter(ctx, options.tracesEndpoint)
	default:
		exporter, err = newGRPCExporter(ctx, options.tracesEndpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trace exporter: %w", err)
	}

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	}
	for _, processor := range options.spanProcessors {
		providerOpts = append(providerOpts, sdktrace.WithSpanProcessor(processor))
	}
	return sdktrace.NewTracerProvider(providerOpts...), nil
}

func tracesEndpoint(protocol string) string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}

	// Return different default endpoints based on protocol
	switch protocol {
	case telemetry.ProtocolHTTP:
		return "localhost:4318" // HTTP endpoint base URL (otlptracehttp will add /v1/traces automatically)
	default:
		return "localhost:4317" // gRPC endpoint (host:port)
	}
}

// Initializes an OTLP HTTP span exporter.
func newHTTPExporter(ctx context.Context, endpoint string) (*otlptrace.Exporter, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP traces exporter: %w", err)
	}
	return exporter, nil
}

// Initializes an OTLP gRPC span exporter.
func newGRPCExporter(ctx context.Context, endpoint string) (*otlptrace.Exporter, error) {
	tracesConn, err := telemetry.NewGRPCConn(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create traces connection: %w", err)
	}
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(tracesConn))
	if err != nil {
		return nil, fmt.Errorf("failed to create traces exporter: %w", err)
	}
	return exporter, nil
}

func buildResource(ctx context.Context, options *options) (*resource.Resource, error) {
	// Build resource with options values
	resourceOpts := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNamespace(options.serviceNamespace),
			semconv.ServiceName(options.serviceName),
			semconv.ServiceVersion(options.serviceVersion),
		),
		resource.WithFromEnv(),
		resource.WithHost(),         // Adds host.name
		resource.WithTelemetrySDK(), // Adds telemetry.sdk.{name,language,version}
	}

	// Append custom resource attributes
	if len(options.resourceAttributes) > 0 {
		resourceOpts = append(resourceOpts, resource.WithAttributes(options.resourceAttributes...))
	}

	return resource.New(ctx, resourceOpts...)
}

// Option is a function that configures tracer options.
type Option func(*options)

// options holds the configuration options for the tracer provider.
type options struct {
	tracesEndpoint     string
	serviceName        string
	serviceVersion     string
	serviceNamespace   string
	protocol           string // Protocol to use (grpc or http)
	resourceAttributes []attribute.KeyValue
	spanProcessors     []sdktrace.SpanProcessor
}

// WithEndpoint sets the traces endpoint (host and port) the exporter will
// connect to. The provided endpoint should resemble "example.com:4317"
// (no scheme or path).
// If the OTEL_EXPORTER_OTLP_ENDPOINT or OTEL_EXPORTER_OTLP_TRACES_ENDPOINT
// environment variable is set, and this option is not passed, that variable
// value will be used. If both environment variables are set,
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT will take precedence.
// If an environment variable is set, and this option is passed, this option
// will take precedence.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.tracesEndpoint = endpoint
	}
}

// WithProtocol sets the protocol to use for trace export.
// Supported protocols are "grpc" (default) and "http".
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}

// WithServiceName overrides the service.name resource attribute.
func WithServiceName(serviceName string) Option {
	return func(opts *options) {
		opts.serviceName = serviceName
	}
}

// WithServiceVersion overrides the service.version resource attribute.
func WithServiceVersion(serviceVersion string) Option {
	return func(opts *options) {
		opts.serviceVersion = serviceVersion
	}
}

// WithServiceNamespace overrides the service.namespace resource attribute.
func WithServiceNamespace(serviceNamespace string) Option {
	return func(opts *options) {
		opts.serviceNamespace = serviceNamespace
	}
}

// WithResourceAttributes appends custom resource attributes.
func WithResourceAttributes(attrs ...attribute.KeyValue) Option {
	return func(opts *options) {
		opts.resourceAttributes = append(opts.resourceAttributes, attrs...)
	}
}

// WithSpanProcessor registers an additional span processor on the provider,
// typically the execution span collector.
func WithSpanProcessor(processor sdktrace.SpanProcessor) Option {
	return func(opts *options) {
		opts.spanProcessors = append(opts.spanProcessors, processor)
	}
}
