//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package trajectory provides the tool-call trajectory evaluator. It reads
// the tool calls recorded in the execution's spans and checks them against
// the declared expected calls: presence, argument values, call counts and,
// optionally, ordering.
package trajectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/internal/toolname"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// RecordedCall is one tool call reconstructed from the execution spans.
type RecordedCall struct {
	// Name is the tool name.
	Name string
	// Arguments are the decoded call arguments, nil when the span carried
	// none.
	Arguments map[string]any
}

// trajectoryEvaluator checks recorded tool calls against the criterion.
type trajectoryEvaluator struct {
	id string
}

// New creates a trajectory evaluator for the given reference id.
func New(id string) evaluator.Evaluator {
	return &trajectoryEvaluator{id: id}
}

// ID returns the evaluator reference id.
func (e *trajectoryEvaluator) ID() string { return e.id }

// Description returns a description of what this evaluator checks.
func (e *trajectoryEvaluator) Description() string {
	return "Checks the agent's recorded tool calls against the expected trajectory"
}

// Evaluate checks every expected call against the recorded trajectory. The
// result is boolean: all expectations must hold.
func (e *trajectoryEvaluator) Evaluate(ctx context.Context, execution *runtime.ExecutionResult,
	criterion *evaluator.Criterion) (*evaluator.Result, error) {
	_ = ctx
	start := time.Now()
	if criterion == nil || criterion.Trajectory == nil || len(criterion.Trajectory.Calls) == 0 {
		return nil, errors.New("trajectory criterion has no expected calls")
	}
	if execution == nil {
		return nil, errors.New("execution is nil")
	}
	recorded := CallsFromSpans(execution.Spans)

	var failures []string
	lastIndex := -1
	for _, expected := range criterion.Trajectory.Calls {
		indexes := matchingIndexes(recorded, expected)
		if failure := checkCount(expected, len(indexes)); failure != "" {
			failures = append(failures, failure)
			continue
		}
		if criterion.Trajectory.StrictOrder {
			index := firstAfter(indexes, lastIndex)
			if index < 0 {
				failures = append(failures, fmt.Sprintf("tool %q called out of order", expected.Name))
				continue
			}
			lastIndex = index
		}
	}

	pass := len(failures) == 0
	result := evaluator.NewBooleanResult(pass, strings.Join(failures, "; "))
	result.EvaluationTime = time.Since(start)
	return result, nil
}

func checkCount(expected *evaluator.ExpectedToolCall, matches int) string {
	if expected.Count > 0 && matches != expected.Count {
		return fmt.Sprintf("tool %q called %d times, expected %d", expected.Name, matches, expected.Count)
	}
	if expected.Count == 0 && matches == 0 {
		return fmt.Sprintf("tool %q was not called", expected.Name)
	}
	return ""
}

func firstAfter(indexes []int, after int) int {
	for _, index := range indexes {
		if index > after {
			return index
		}
	}
	return -1
}

// matchingIndexes returns the positions of recorded calls that match the
// expected call's name and declared argument values.
func matchingIndexes(recorded []*RecordedCall, expected *evaluator.ExpectedToolCall) []int {
	var indexes []int
	for i, call := range recorded {
		if !toolname.Equal(call.Name, expected.Name) {
			continue
		}
		if !argumentsMatch(call.Arguments, expected.Arguments) {
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes
}

// argumentsMatch checks that every declared argument value appears in the
// actual call. Keys absent from the expectation are not checked.
func argumentsMatch(actual, expected map[string]any) bool {
	for key, expectedValue := range expected {
		actualValue, ok := actual[key]
		if !ok {
			return false
		}
		expectedJSON, err := json.Marshal(expectedValue)
		if err != nil {
			return false
		}
		actualJSON, err := json.Marshal(actualValue)
		if err != nil {
			return false
		}
		if string(expectedJSON) != string(actualJSON) {
			return false
		}
	}
	return true
}

// CallsFromSpans reconstructs the tool-call trajectory from the execution
// spans, in span start order as recorded.
func CallsFromSpans(spans []*telemetry.SpanRecord) []*RecordedCall {
	var calls []*RecordedCall
	for _, span := range spans {
		if span == nil || span.Attributes == nil {
			continue
		}
		name, ok := span.Attributes[string(telemetry.KeyToolName)].(string)
		if !ok || name == "" {
			continue
		}
		call := &RecordedCall{Name: name}
		if raw, ok := span.Attributes[string(telemetry.KeyToolArgs)].(string); ok && raw != "" {
			args := map[string]any{}
			if err := json.Unmarshal([]byte(raw), &args); err == nil {
				call.Arguments = args
			}
		}
		calls = append(calls, call)
	}
	return calls
}
