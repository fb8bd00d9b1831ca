//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package evalresult provides the persisted result model of evaluation
// runs: per-evaluator results, per-item run results and the set-level
// aggregate.
package evalresult

import (
	"context"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/epochtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// EvalItemResult combines one evaluator's identity with the result it
// produced for one item.
type EvalItemResult struct {
	// EvaluatorID identifies the evaluator.
	EvaluatorID string `json:"evaluatorId"`
	// Result is the evaluator's immutable result.
	Result *evaluator.Result `json:"result"`
}

// RunResult is the report of one evaluation item: one agent invocation plus
// its evaluator pass.
type RunResult struct {
	// ExecutionID identifies the agent execution within the run.
	ExecutionID string `json:"executionId,omitempty"`
	// ItemID identifies the evaluation item.
	ItemID string `json:"itemId"`
	// ItemName is the display name of the item.
	ItemName string `json:"itemName,omitempty"`
	// Status is the terminal status of the item's agent execution.
	Status status.ExecutionStatus `json:"status"`
	// Success reports whether the agent execution completed successfully.
	Success bool `json:"success"`
	// Output is the agent output, or the error payload for faulted items.
	Output map[string]any `json:"output,omitempty"`
	// EvaluatorResults holds one result per evaluator the item referenced.
	// Empty for suspended items: no evaluator runs until resume.
	EvaluatorResults []*EvalItemResult `json:"evaluatorResults,omitempty"`
	// Triggers are the pending-action descriptors of a suspended item.
	Triggers []*runtime.Trigger `json:"triggers,omitempty"`
	// Spans are the trace spans recorded during the execution.
	Spans []*telemetry.SpanRecord `json:"spans,omitempty"`
	// Logs are the log lines recorded during the execution.
	Logs []string `json:"logs,omitempty"`
	// ExecutionTime is the wall-clock agent execution time.
	ExecutionTime time.Duration `json:"executionTime,omitempty"`
	// CreationTimestamp when this result was produced.
	CreationTimestamp *epochtime.EpochTime `json:"creationTimestamp,omitempty"`
}

// SetRunResult is the set-level aggregate of one evaluation run.
type SetRunResult struct {
	// RunID identifies the run.
	RunID string `json:"runId"`
	// EvalSetID identifies the evaluated set.
	EvalSetID string `json:"evalSetId,omitempty"`
	// RunResults holds one report per evaluation item.
	RunResults []*RunResult `json:"runResults,omitempty"`
	// AverageScores maps evaluator ids to the arithmetic mean of their
	// normalized scores across the items that referenced them.
	AverageScores map[string]float64 `json:"averageScores,omitempty"`
	// Status is the overall run status, merged with priority
	// Suspended > Faulted > Successful.
	Status status.ExecutionStatus `json:"status"`
	// Success reports whether every item's agent execution succeeded.
	Success bool `json:"success"`
	// Triggers passes through the pending-action descriptors of all
	// suspended items.
	Triggers []*runtime.Trigger `json:"triggers,omitempty"`
	// ExecutionTime is the wall-clock duration of the whole run.
	ExecutionTime time.Duration `json:"executionTime,omitempty"`
	// CreationTimestamp when this result was produced.
	CreationTimestamp *epochtime.EpochTime `json:"creationTimestamp,omitempty"`
}

// Manager defines the interface for managing evaluation run results.
type Manager interface {
	// Save stores the set run result, merging per-item reports into any
	// previously saved result for the same run id.
	Save(ctx context.Context, result *SetRunResult) error
	// Get retrieves a set run result by run id.
	Get(ctx context.Context, runID string) (*SetRunResult, error)
	// List returns all available run ids.
	List(ctx context.Context) ([]string, error)
}
