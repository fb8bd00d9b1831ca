//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package runtime defines the boundary to the externally supplied agent
// runtime. The evaluation engine never runs an agent itself: it asks a
// Factory for a Runtime bound to one run id, executes it with the item
// inputs, and reads the outcome back as an ExecutionResult. Suspensions and
// resumes cross process boundaries through the runtime's Storage.
package runtime

import (
	"context"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/mocks"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// Trigger describes one pending external action that caused a suspension.
// It is opaque to the engine: the engine only carries it from the suspended
// execution to the run report, and hands it back on resume.
type Trigger struct {
	// ID identifies the trigger within the run.
	ID string `json:"id,omitempty"`
	// Type names the kind of pending action, e.g. an approval task.
	Type string `json:"type,omitempty"`
	// ItemID is the evaluation item whose execution raised the trigger.
	ItemID string `json:"itemId,omitempty"`
	// Payload is the serialized pending-action descriptor.
	Payload map[string]any `json:"payload,omitempty"`
}

// ExecutionError carries the error surfaced by a faulted agent execution.
type ExecutionError struct {
	// Code is a machine-readable error code when the runtime provides one.
	Code string `json:"code,omitempty"`
	// Message is the human-readable error description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// ExecutionResult is the outcome of one agent invocation.
type ExecutionResult struct {
	// Output is the agent output payload. For faulted executions the engine
	// substitutes the error payload here before reporting.
	Output map[string]any `json:"output,omitempty"`
	// Status is the terminal status of the execution.
	Status status.ExecutionStatus `json:"status"`
	// Error is set iff Status is Faulted.
	Error *ExecutionError `json:"error,omitempty"`
	// Triggers holds the pending-action descriptors of a suspended execution.
	Triggers []*Trigger `json:"triggers,omitempty"`
	// Spans are the trace spans recorded during the execution.
	Spans []*telemetry.SpanRecord `json:"spans,omitempty"`
	// Logs are the log lines recorded during the execution.
	Logs []string `json:"logs,omitempty"`
	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration,omitempty"`
}

// ExecuteOptions configure one Runtime.Execute call.
type ExecuteOptions struct {
	// Resume resumes a previously suspended execution. The runtime derives
	// the resume data from its persisted triggers; the caller must not
	// re-supply the original inputs.
	Resume bool
	// Mocks is the item's resolved mocking context, nil when the item has
	// no mocking strategy. The runtime queries Mocks.Simulated before each
	// external call and substitutes Mocks.Response for simulated ones.
	Mocks *mocks.Context
}

// Runtime executes the agent under evaluation. One Runtime is bound to one
// run id for its whole lifetime.
type Runtime interface {
	// Execute runs the agent with the given inputs and blocks until the
	// execution reaches a terminal status (successful, faulted or suspended).
	Execute(ctx context.Context, input map[string]any, opts ExecuteOptions) (*ExecutionResult, error)
	// Storage returns the run-scoped key-value storage that outlives the
	// process, used for checkpoints and persisted mock caches.
	Storage() Storage
}

// Factory creates a Runtime for the agent entrypoint bound to runID.
type Factory interface {
	NewRuntime(ctx context.Context, entrypoint, runID string) (Runtime, error)
}

// Storage is the narrow key-value interface backing cross-process state.
// Keys are namespaced per run; values are raw JSON documents.
type Storage interface {
	// GetValue returns the value stored under (runID, namespace, key), or
	// os.ErrNotExist-wrapped error when absent.
	GetValue(ctx context.Context, runID, namespace, key string) ([]byte, error)
	// SetValue stores the value under (runID, namespace, key), replacing any
	// previous value.
	SetValue(ctx context.Context, runID, namespace, key string, value []byte) error
}
