//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package checkpoint persists the trace identifiers of evaluation scopes so
// a run interrupted by a suspension can be resumed by a later process
// without starting a new, disconnected trace. The record is written through
// the runtime's key-value storage when a trace scope closes and read back
// on resume to synthesize a non-recording parent span context.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
)

// Namespace is the storage namespace holding checkpoint records.
const Namespace = "eval_parent_span"

// RunLevelKey is the storage key of the run-level (set scope) record; item
// scopes use the item id as key.
const RunLevelKey = "eval_set_run"

// Record is the persisted span context of one closed trace scope.
type Record struct {
	// TraceID is the hex encoded trace id (32 characters).
	TraceID string `json:"trace_id"`
	// SpanID is the hex encoded span id (16 characters).
	SpanID string `json:"span_id"`
}

// FromSpanContext captures a record from a live span context.
func FromSpanContext(sc trace.SpanContext) (*Record, error) {
	if !sc.IsValid() {
		return nil, errors.New("span context is not valid")
	}
	return &Record{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}, nil
}

// SpanContext synthesizes a remote, sampled span context from the record.
// Spans started under it attach to the original trace; the parent itself is
// non-recording because it lives in another process.
func (r *Record) SpanContext() (trace.SpanContext, error) {
	traceID, err := trace.TraceIDFromHex(r.TraceID)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("parse trace id %q: %w", r.TraceID, err)
	}
	spanID, err := trace.SpanIDFromHex(r.SpanID)
	if err != nil {
		return trace.SpanContext{}, fmt.Errorf("parse span id %q: %w", r.SpanID, err)
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	}), nil
}

// Save persists the record under (runID, Namespace, key).
func Save(ctx context.Context, storage runtime.Storage, runID, key string, record *Record) error {
	if storage == nil {
		return nil
	}
	if record == nil {
		return errors.New("checkpoint record is nil")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode checkpoint record: %w", err)
	}
	if err := storage.SetValue(ctx, runID, Namespace, key, data); err != nil {
		return fmt.Errorf("save checkpoint %s/%s: %w", runID, key, err)
	}
	return nil
}

// Load reads the record persisted under (runID, Namespace, key). Returns
// nil without error when no record was persisted.
func Load(ctx context.Context, storage runtime.Storage, runID, key string) (*Record, error) {
	if storage == nil {
		return nil, nil
	}
	data, err := storage.GetValue(ctx, runID, Namespace, key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load checkpoint %s/%s: %w", runID, key, err)
	}
	record := &Record{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("decode checkpoint record: %w", err)
	}
	return record, nil
}

// ContextWithParent attaches the record's synthesized span context to ctx
// so new spans re-parent onto the original trace.
func ContextWithParent(ctx context.Context, record *Record) (context.Context, error) {
	sc, err := record.SpanContext()
	if err != nil {
		return ctx, err
	}
	return trace.ContextWithRemoteSpanContext(ctx, sc), nil
}
