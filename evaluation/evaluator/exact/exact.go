//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package exact provides the deterministic exact-match evaluator.
package exact

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/internal/output"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
)

// exactEvaluator scores 1 when the actual output text equals the expected
// text after NFKC normalization and whitespace trimming, 0 otherwise.
type exactEvaluator struct {
	id string
}

// New creates an exact-match evaluator for the given reference id.
func New(id string) evaluator.Evaluator {
	return &exactEvaluator{id: id}
}

// ID returns the evaluator reference id.
func (e *exactEvaluator) ID() string { return e.id }

// Description returns a description of what this evaluator checks.
func (e *exactEvaluator) Description() string {
	return "Checks that the agent output exactly matches the expected output"
}

// Evaluate compares the selected output value against the expected value.
func (e *exactEvaluator) Evaluate(ctx context.Context, execution *runtime.ExecutionResult,
	criterion *evaluator.Criterion) (*evaluator.Result, error) {
	_ = ctx
	start := time.Now()
	if criterion == nil || criterion.ExpectedOutput == nil {
		return nil, errors.New("exact match criterion has no expected output")
	}
	actual, err := output.Actual(execution, criterion)
	if err != nil {
		return nil, err
	}
	expected, err := output.Expected(criterion)
	if err != nil {
		return nil, err
	}
	actualText, err := output.Text(actual)
	if err != nil {
		return nil, err
	}
	expectedText, err := output.Text(expected)
	if err != nil {
		return nil, err
	}
	pass := canonical(actualText) == canonical(expectedText)
	details := ""
	if !pass {
		details = "actual output does not match expected output"
	}
	result := evaluator.NewBooleanResult(pass, details)
	result.EvaluationTime = time.Since(start)
	return result, nil
}

// canonical folds compatibility equivalents and trims surrounding space so
// visually identical outputs compare equal.
func canonical(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}
