//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package jsonsim provides the deterministic JSON-similarity evaluator. It
// compares the actual and expected outputs structurally: values pass through
// a JSON round trip so numeric types collapse to float64, object keys are
// compared in sorted order, and the score is the fraction of matching leaf
// values over the union of leaf paths.
package jsonsim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/internal/output"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
)

// jsonEvaluator scores the structural similarity of two JSON documents.
type jsonEvaluator struct {
	id string
}

// New creates a JSON-similarity evaluator for the given reference id.
func New(id string) evaluator.Evaluator {
	return &jsonEvaluator{id: id}
}

// ID returns the evaluator reference id.
func (e *jsonEvaluator) ID() string { return e.id }

// Description returns a description of what this evaluator checks.
func (e *jsonEvaluator) Description() string {
	return "Scores the structural similarity between the agent output and the expected JSON"
}

// Evaluate compares the selected output value against the expected value.
func (e *jsonEvaluator) Evaluate(ctx context.Context, execution *runtime.ExecutionResult,
	criterion *evaluator.Criterion) (*evaluator.Result, error) {
	_ = ctx
	start := time.Now()
	if criterion == nil || criterion.ExpectedOutput == nil {
		return nil, errors.New("json similarity criterion has no expected output")
	}
	actual, err := output.Actual(execution, criterion)
	if err != nil {
		return nil, err
	}
	expected, err := output.Expected(criterion)
	if err != nil {
		return nil, err
	}
	actualNorm, err := normalize(actual)
	if err != nil {
		return nil, fmt.Errorf("normalize actual output: %w", err)
	}
	expectedNorm, err := normalize(expected)
	if err != nil {
		return nil, fmt.Errorf("normalize expected output: %w", err)
	}

	matched, total := similarity(actualNorm, expectedNorm)
	score := 1.0
	if total > 0 {
		score = float64(matched) / float64(total)
	}
	details := ""
	if score < 1 {
		details = fmt.Sprintf("%d of %d leaf values match", matched, total)
	}
	result := evaluator.NewNumericalResult(score, details)
	result.EvaluationTime = time.Since(start)
	return result, nil
}

// normalize runs the value through a JSON round trip so numbers collapse to
// float64 and maps become map[string]any regardless of their source type.
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// similarity walks both documents in lockstep and counts matching leaves
// over the union of leaf paths.
func similarity(actual, expected any) (matched, total int) {
	switch expectedValue := expected.(type) {
	case map[string]any:
		actualMap, ok := actual.(map[string]any)
		if !ok {
			return 0, leafCount(expected)
		}
		keys := unionKeys(actualMap, expectedValue)
		for _, key := range keys {
			expectedChild, inExpected := expectedValue[key]
			actualChild, inActual := actualMap[key]
			if !inExpected || !inActual {
				if inExpected {
					total += leafCount(expectedChild)
				} else {
					total += leafCount(actualChild)
				}
				continue
			}
			m, t := similarity(actualChild, expectedChild)
			matched += m
			total += t
		}
		return matched, total
	case []any:
		actualSlice, ok := actual.([]any)
		if !ok {
			return 0, leafCount(expected)
		}
		longest := len(expectedValue)
		if len(actualSlice) > longest {
			longest = len(actualSlice)
		}
		for i := 0; i < longest; i++ {
			switch {
			case i >= len(expectedValue):
				total += leafCount(actualSlice[i])
			case i >= len(actualSlice):
				total += leafCount(expectedValue[i])
			default:
				m, t := similarity(actualSlice[i], expectedValue[i])
				matched += m
				total += t
			}
		}
		return matched, total
	default:
		if leafEqual(actual, expected) {
			return 1, 1
		}
		return 0, 1
	}
}

func leafEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == expected
	}
	actualNum, actualIsNum := actual.(float64)
	expectedNum, expectedIsNum := expected.(float64)
	if actualIsNum && expectedIsNum {
		return strconv.FormatFloat(actualNum, 'g', -1, 64) == strconv.FormatFloat(expectedNum, 'g', -1, 64)
	}
	return actual == expected
}

// leafCount counts the leaves of a document; empty containers count as one
// leaf so they still weigh in the total.
func leafCount(value any) int {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return 1
		}
		count := 0
		for _, child := range typed {
			count += leafCount(child)
		}
		return count
	case []any:
		if len(typed) == 0 {
			return 1
		}
		count := 0
		for _, child := range typed {
			count += leafCount(child)
		}
		return count
	default:
		return 1
	}
}

func unionKeys(a, b map[string]any) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for key := range a {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	for key := range b {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
