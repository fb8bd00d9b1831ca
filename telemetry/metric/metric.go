//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package metric bootstraps the global meter provider and records the
// engine instruments (item outcomes, agent durations, evaluator scores)
// over OTLP.
package metric

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// Start installs the configured meter provider as the global one, binds the
// engine instruments to it and returns the shutdown function.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	provider, err := NewMeterProvider(ctx, opts...)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(provider)
	if err := initInstruments(provider); err != nil {
		return nil, err
	}
	return func() error {
		return provider.Shutdown(context.Background())
	}, nil
}

// NewMeterProvider builds a meter provider exporting over OTLP. The export
// endpoint falls back to OTEL_EXPORTER_OTLP_METRICS_ENDPOINT, then
// OTEL_EXPORTER_OTLP_ENDPOINT, then the protocol's localhost default.
func NewMeterProvider(ctx context.Context, opts ...Option) (*sdkmetric.MeterProvider, error) {
	options := &options{
		serviceName:      telemetry.ServiceName,
		serviceVersion:   telemetry.ServiceVersion,
		serviceNamespace: telemetry.ServiceNamespace,
		protocol:         telemetry.ProtocolGRPC,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.endpoint == "" {
		options.endpoint = metricsEndpoint(options.protocol)
	}

	res, err := newResource(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("build metric resource: %w", err)
	}
	exporter, err := newExporter(ctx, options)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	), nil
}

func newExporter(ctx context.Context, options *options) (sdkmetric.Exporter, error) {
	if options.protocol == telemetry.ProtocolHTTP {
		exporter, err := otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(options.endpoint),
			otlpmetrichttp.WithInsecure())
		if err != nil {
			return nil, fmt.Errorf("create http metric exporter: %w", err)
		}
		return exporter, nil
	}
	conn, err := telemetry.NewGRPCConn(options.endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial metric endpoint %s: %w", options.endpoint, err)
	}
	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("create grpc metric exporter: %w", err)
	}
	return exporter, nil
}

func metricsEndpoint(protocol string) string {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	if protocol == telemetry.ProtocolHTTP {
		// The http exporter appends /v1/metrics itself.
		return "localhost:4318"
	}
	return "localhost:4317"
}

func newResource(ctx context.Context, options *options) (*resource.Resource, error) {
	resourceOpts := []resource.Option{
		resource.WithAttributes(
			semconv.ServiceNamespace(options.serviceNamespace),
			semconv.ServiceName(options.serviceName),
			semconv.ServiceVersion(options.serviceVersion),
		),
		resource.WithFromEnv(),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	}
	if len(options.resourceAttributes) > 0 {
		resourceOpts = append(resourceOpts, resource.WithAttributes(options.resourceAttributes...))
	}
	return resource.New(ctx, resourceOpts...)
}

// Option configures the meter provider bootstrap.
type Option func(*options)

type options struct {
	endpoint           string
	serviceName        string
	serviceVersion     string
	serviceNamespace   string
	protocol           string
	resourceAttributes []attribute.KeyValue
}

// WithEndpoint pins the export endpoint ("host:port", no scheme or path),
// overriding the OTEL_EXPORTER_OTLP_* environment variables.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.endpoint = endpoint
	}
}

// WithProtocol selects the export protocol, "grpc" (default) or "http".
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
