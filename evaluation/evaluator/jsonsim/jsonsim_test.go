//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package jsonsim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
)

func evaluate(t *testing.T, output, expected map[string]any) *evaluator.Result {
	t.Helper()
	e := New("jsonsim")
	result, err := e.Evaluate(context.Background(),
		&runtime.ExecutionResult{Output: output},
		&evaluator.Criterion{ExpectedOutput: expected})
	require.NoError(t, err)
	return result
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		output   map[string]any
		expected map[string]any
		score    float64
	}{
		{
			name:     "identical documents",
			output:   map[string]any{"a": 1, "b": "x"},
			expected: map[string]any{"a": 1, "b": "x"},
			score:    1,
		},
		{
			name:     "integer and float compare equal after round trip",
			output:   map[string]any{"a": 1},
			expected: map[string]any{"a": 1.0},
			score:    1,
		},
		{
			name:     "half the leaves match",
			output:   map[string]any{"a": 1, "b": "x"},
			expected: map[string]any{"a": 1, "b": "y"},
			score:    0.5,
		},
		{
			name:     "missing expected key counts against the score",
			output:   map[string]any{"a": 1},
			expected: map[string]any{"a": 1, "b": "y"},
			score:    0.5,
		},
		{
			name:     "extra actual key counts against the score",
			output:   map[string]any{"a": 1, "extra": true},
			expected: map[string]any{"a": 1},
			score:    0.5,
		},
		{
			name:     "nested structures walk recursively",
			output:   map[string]any{"o": map[string]any{"x": 1, "y": 2}},
			expected: map[string]any{"o": map[string]any{"x": 1, "y": 3}},
			score:    0.5,
		},
		{
			name:     "slices compare index-wise",
			output:   map[string]any{"s": []any{1, 2, 3}},
			expected: map[string]any{"s": []any{1, 2, 4}},
			score:    2.0 / 3.0,
		},
		{
			name:     "both empty scores full marks",
			output:   map[string]any{},
			expected: map[string]any{},
			score:    1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := evaluate(t, c.output, c.expected)
			assert.Equal(t, evaluator.ScoreTypeNumerical, result.ScoreType)
			assert.InDelta(t, c.score, result.Score, 1e-9)
		})
	}
}

func TestEvaluateOutputKey(t *testing.T) {
	e := New("jsonsim")
	result, err := e.Evaluate(context.Background(),
		&runtime.ExecutionResult{Output: map[string]any{
			"answer": map[string]any{"a": 1},
			"noise":  "ignored",
		}},
		&evaluator.Criterion{
			ExpectedOutput: map[string]any{"answer": map[string]any{"a": 1}},
			OutputKey:      "answer",
		})
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
}

func TestEvaluateNoCriterion(t *testing.T) {
	e := New("jsonsim")
	_, err := e.Evaluate(context.Background(), &runtime.ExecutionResult{}, nil)
	assert.Error(t, err)
}
