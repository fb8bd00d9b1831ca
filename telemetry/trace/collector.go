//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// Collector is a span processor that groups finished spans by the logical
// execution id carried in the span start context. The evaluation engine
// drains one execution's spans after the agent invocation completes.
//
// Register it on the tracer provider through WithSpanProcessor. A collector
// that is never registered simply drains empty.
type Collector struct {
	mu    sync.Mutex
	spans map[string][]*telemetry.SpanRecord
	logs  map[string][]string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		spans: make(map[string][]*telemetry.SpanRecord),
		logs:  make(map[string][]string),
	}
}

// OnStart tags the span with the execution id found in the start context so
// OnEnd can group it without keeping per-span bookkeeping.
func (c *Collector) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if executionID := telemetry.ExecutionIDFromContext(parent); executionID != "" {
		s.SetAttributes(telemetry.KeyExecutionID.String(executionID))
	}
}

// OnEnd records the finished span under its execution id.
func (c *Collector) OnEnd(s sdktrace.ReadOnlySpan) {
	var executionID string
	attrs := make(map[string]any, len(s.Attributes()))
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
		if kv.Key == telemetry.KeyExecutionID {
			executionID = kv.Value.AsString()
		}
	}
	if executionID == "" {
		return
	}

	record := &telemetry.SpanRecord{
		Name:       s.Name(),
		TraceID:    s.SpanContext().TraceID().String(),
		SpanID:     s.SpanContext().SpanID().String(),
		StartTime:  s.StartTime(),
		EndTime:    s.EndTime(),
		Attributes: attrs,
		Status:     s.Status().Code.String(),
	}
	if s.Parent().IsValid() {
		record.ParentSpanID = s.Parent().SpanID().String()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.spans[executionID] = append(c.spans[executionID], record)
}

// Shutdown implements sdktrace.SpanProcessor.
func (c *Collector) Shutdown(context.Context) error { return nil }

// ForceFlush implements sdktrace.SpanProcessor.
func (c *Collector) ForceFlush(context.Context) error { return nil }

// AppendLog attaches a log line to an execution so it is returned alongside
// the spans on the next Drain.
func (c *Collector) AppendLog(executionID, line string) {
	if executionID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs[executionID] = append(c.logs[executionID], line)
}

// Drain returns the spans and logs recorded for executionID and clears them.
func (c *Collector) Drain(executionID string) ([]*telemetry.SpanRecord, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	spans := c.spans[executionID]
	logs := c.logs[executionID]
	delete(c.spans, executionID)
	delete(c.logs, executionID)
	return spans, logs
}

var _ sdktrace.SpanProcessor = (*Collector)(nil)
var _ telemetry.Collector = (*Collector)(nil)
