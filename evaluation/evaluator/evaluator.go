//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package evaluator defines the evaluator contract: a strategy that assigns
// one score to one (agent execution, criterion) pair.
package evaluator

import (
	"context"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
)

// ScoreType tells how the Score field of a Result must be read.
type ScoreType string

const (
	// ScoreTypeBoolean marks a pass/fail score, coerced to {0, 1}.
	ScoreTypeBoolean ScoreType = "boolean"
	// ScoreTypeNumerical marks a score normalized to [0, 1].
	ScoreTypeNumerical ScoreType = "numerical"
	// ScoreTypeError marks a score produced by a failed evaluator call.
	ScoreTypeError ScoreType = "error"
)

// Result is the outcome of one evaluator call. It is immutable once
// produced.
type Result struct {
	// Score is the assigned score. Boolean results carry 0 or 1.
	Score float64 `json:"score"`
	// ScoreType tells how Score must be read.
	ScoreType ScoreType `json:"scoreType"`
	// Details carries the evaluator's justification or error text.
	Details string `json:"details,omitempty"`
	// EvaluationTime is the wall-clock time the evaluator took.
	EvaluationTime time.Duration `json:"evaluationTime,omitempty"`
}

// NewBooleanResult builds a pass/fail result.
func NewBooleanResult(pass bool, details string) *Result {
	score := 0.0
	if pass {
		score = 1.0
	}
	return &Result{Score: score, ScoreType: ScoreTypeBoolean, Details: details}
}

// NewNumericalResult builds a numerical result with score in [0, 1].
func NewNumericalResult(score float64, details string) *Result {
	return &Result{Score: score, ScoreType: ScoreTypeNumerical, Details: details}
}

// NewErrorResult folds an evaluator failure into a zero score.
func NewErrorResult(err error) *Result {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &Result{Score: 0, ScoreType: ScoreTypeError, Details: details}
}

// NormalizedScore coerces the score to [0, 1] regardless of score type.
// Error results score zero.
func (r *Result) NormalizedScore() float64 {
	if r == nil || r.ScoreType == ScoreTypeError {
		return 0
	}
	if r.Score < 0 {
		return 0
	}
	if r.Score > 1 {
		return 1
	}
	return r.Score
}

// Evaluator scores one agent execution against one criterion.
type Evaluator interface {
	// ID returns the evaluator reference id this instance was built for.
	ID() string
	// Description returns a description of what this evaluator checks.
	Description() string
	// Evaluate scores the execution against the criterion.
	Evaluate(ctx context.Context, execution *runtime.ExecutionResult, criterion *Criterion) (*Result, error)
}
