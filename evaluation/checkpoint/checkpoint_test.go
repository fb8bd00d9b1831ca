//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package checkpoint

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

// memoryStorage is an in-memory runtime.Storage for checkpoint tests.
type memoryStorage struct {
	values map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{values: map[string][]byte{}}
}

func (s *memoryStorage) GetValue(_ context.Context, runID, namespace, key string) ([]byte, error) {
	value, ok := s.values[runID+"/"+namespace+"/"+key]
	if !ok {
		return nil, fmt.Errorf("value not found: %w", os.ErrNotExist)
	}
	return value, nil
}

func (s *memoryStorage) SetValue(_ context.Context, runID, namespace, key string, value []byte) error {
	s.values[runID+"/"+namespace+"/"+key] = value
	return nil
}

func sampleSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()

	record, err := FromSpanContext(sampleSpanContext(t))
	require.NoError(t, err)
	require.NoError(t, Save(ctx, storage, "run-1", "item-1", record))

	loaded, err := Load(ctx, storage, "run-1", "item-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", loaded.TraceID)
	assert.Equal(t, "00f067aa0ba902b7", loaded.SpanID)

	// The synthesized parent belongs to the original trace.
	sc, err := loaded.SpanContext()
	require.NoError(t, err)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
	assert.True(t, sc.IsRemote())
	assert.True(t, sc.IsSampled())
}

func TestLoadMissingReturnsNil(t *testing.T) {
	loaded, err := Load(context.Background(), newMemoryStorage(), "run-1", RunLevelKey)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestNilStorageTolerated(t *testing.T) {
	record := &Record{TraceID: "4bf92f3577b34da6a3ce929d0e0e4736", SpanID: "00f067aa0ba902b7"}
	assert.NoError(t, Save(context.Background(), nil, "run-1", "item-1", record))
	loaded, err := Load(context.Background(), nil, "run-1", "item-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestFromSpanContextInvalid(t *testing.T) {
	_, err := FromSpanContext(trace.SpanContext{})
	assert.Error(t, err)
}

func TestContextWithParent(t *testing.T) {
	record := &Record{TraceID: "4bf92f3577b34da6a3ce929d0e0e4736", SpanID: "00f067aa0ba902b7"}
	ctx, err := ContextWithParent(context.Background(), record)
	require.NoError(t, err)
	sc := trace.SpanContextFromContext(ctx)
	assert.Equal(t, record.TraceID, sc.TraceID().String())
	assert.True(t, sc.IsRemote())

	_, err = ContextWithParent(context.Background(), &Record{TraceID: "bad", SpanID: "bad"})
	assert.Error(t, err)
}

func TestRecordSpanContextInvalidHex(t *testing.T) {
	_, err := (&Record{TraceID: "zz", SpanID: "00f067aa0ba902b7"}).SpanContext()
	assert.Error(t, err)
}
