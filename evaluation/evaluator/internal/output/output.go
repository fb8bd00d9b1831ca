//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package output extracts comparable values from agent outputs for the
// deterministic and judge evaluators.
package output

import (
	"encoding/json"
	"fmt"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
)

// Actual returns the agent output value the criterion selects: the field at
// OutputKey when set, otherwise the whole output map.
func Actual(execution *runtime.ExecutionResult, criterion *evaluator.Criterion) (any, error) {
	if execution == nil {
		return nil, fmt.Errorf("execution is nil")
	}
	if criterion == nil || criterion.OutputKey == "" {
		return execution.Output, nil
	}
	value, ok := execution.Output[criterion.OutputKey]
	if !ok {
		return nil, fmt.Errorf("output key %q not found in agent output", criterion.OutputKey)
	}
	return value, nil
}

// Expected returns the expected value the criterion selects, mirroring the
// OutputKey narrowing applied to the actual output.
func Expected(criterion *evaluator.Criterion) (any, error) {
	if criterion == nil || criterion.ExpectedOutput == nil {
		return nil, fmt.Errorf("expected output is empty")
	}
	if criterion.OutputKey == "" {
		return criterion.ExpectedOutput, nil
	}
	value, ok := criterion.ExpectedOutput[criterion.OutputKey]
	if !ok {
		return nil, fmt.Errorf("output key %q not found in expected output", criterion.OutputKey)
	}
	return value, nil
}

// Text renders a value as text for string comparison and prompt formatting.
// Strings render as-is; everything else renders as compact JSON.
func Text(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("render value: %w", err)
	}
	return string(data), nil
}
