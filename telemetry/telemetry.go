//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package telemetry carries the service identity, the span attribute keys and
// the serializable span model shared by the trace and metric subpackages and
// by the evaluation engine.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Service identity reported through the OTLP resource attributes.
const (
	ServiceName      = "trpc-agent-evals"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go-agent"
	InstrumentName   = "trpc.agent.evals"
)

// Protocols supported by the OTLP exporters.
const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// Span attribute keys attached to evaluation spans.
const (
	KeyRunID       = attribute.Key("evaluation.run.id")
	KeyItemID      = attribute.Key("evaluation.item.id")
	KeyExecutionID = attribute.Key("evaluation.execution.id")
	KeyToolName    = attribute.Key("tool.name")
	KeyToolArgs    = attribute.Key("tool.arguments")
)

// NewGRPCConn creates a client connection to the OTLP collector endpoint.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// Note the use of insecure transport here. TLS is recommended in production.
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}

type executionIDKey struct{}

// ContextWithExecutionID marks ctx with the logical execution id so spans
// started below it can be grouped by the collector. The id is scoped to the
// context, never stored globally, which keeps concurrent items independent.
func ContextWithExecutionID(ctx context.Context, executionID string) context.Context {
	return context.WithValue(ctx, executionIDKey{}, executionID)
}

// ExecutionIDFromContext returns the execution id carried by ctx, if any.
func ExecutionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(executionIDKey{}).(string)
	return id
}

// SpanRecord is the serializable form of a finished span, kept in execution
// results and persisted run reports.
type SpanRecord struct {
	// Name is the span name.
	Name string `json:"name"`
	// TraceID is the hex encoded trace id (32 characters).
	TraceID string `json:"traceId"`
	// SpanID is the hex encoded span id (16 characters).
	SpanID string `json:"spanId"`
	// ParentSpanID is the hex encoded parent span id, empty for roots.
	ParentSpanID string `json:"parentSpanId,omitempty"`
	// StartTime is the span start time.
	StartTime time.Time `json:"startTime"`
	// EndTime is the span end time.
	EndTime time.Time `json:"endTime"`
	// Attributes holds the span attributes.
	Attributes map[string]any `json:"attributes,omitempty"`
	// Status is the span status code as text.
	Status string `json:"status,omitempty"`
}

// Collector hands back the spans and log lines recorded for one execution id
// and clears them. Implementations live with the tracer provider; the
// evaluation engine only consumes this interface.
type Collector interface {
	// Drain returns the spans and logs recorded for executionID and removes
	// them from the collector.
	Drain(executionID string) ([]*SpanRecord, []string)
}
