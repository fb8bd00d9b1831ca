//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package service defines the evaluation dispatcher contract: executing one
// evaluation set as one run, fanning its items out concurrently and
// aggregating the set-level result.
package service

import (
	"context"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
)

// Service executes evaluation sets.
type Service interface {
	// ExecuteSet runs every item of the request's evaluation set and
	// returns the aggregated set run result. Per-item failures are
	// isolated into zero-score item reports; only dispatcher-level
	// failures return an error.
	ExecuteSet(ctx context.Context, request *ExecuteSetRequest) (*evalresult.SetRunResult, error)
	// Close releases owned resources.
	Close() error
}

// ExecuteSetRequest describes one evaluation run.
type ExecuteSetRequest struct {
	// RunID identifies the run. On resume it must be the run id of the
	// suspended run so persisted state is found.
	RunID string `json:"runId"`
	// EvalSet is the immutable set to execute.
	EvalSet *evalset.EvalSet `json:"evalSet"`
	// Resume resumes a previously suspended run. Defined only for a
	// singleton item: requests with more than one item are rejected before
	// any agent work.
	Resume bool `json:"resume,omitempty"`
}
