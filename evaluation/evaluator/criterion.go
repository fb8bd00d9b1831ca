//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package evaluator

// Criterion is what one evaluator scores one item against. An evaluation
// item carries one Criterion per referenced evaluator id; fields that a
// concrete evaluator does not use are ignored by it.
type Criterion struct {
	// ExpectedOutput is the expected agent output. Deterministic evaluators
	// compare against it; the LLM judge formats it into the prompt.
	ExpectedOutput map[string]any `json:"expectedOutput,omitempty"`
	// OutputKey narrows the comparison to a single output field. When empty
	// the whole output map is compared.
	OutputKey string `json:"outputKey,omitempty"`
	// ExpectedAgentBehavior describes in natural language what the agent was
	// expected to do. Used by the LLM judge alongside ExpectedOutput.
	ExpectedAgentBehavior string `json:"expectedAgentBehavior,omitempty"`
	// Trajectory configures tool-call sequence checks.
	Trajectory *TrajectoryCriterion `json:"trajectory,omitempty"`
}

// TrajectoryCriterion declares the expected tool-call trajectory of one
// execution.
type TrajectoryCriterion struct {
	// Calls are the expected tool calls.
	Calls []*ExpectedToolCall `json:"calls,omitempty"`
	// StrictOrder requires the expected calls to appear in declaration
	// order within the recorded trajectory. Without it only presence,
	// arguments and counts are checked.
	StrictOrder bool `json:"strictOrder,omitempty"`
}

// ExpectedToolCall declares one expected tool call.
type ExpectedToolCall struct {
	// Name is the tool name. Underscores and spaces are equivalent.
	Name string `json:"name"`
	// Arguments are argument values that must appear in the actual call.
	// Absent keys are not checked.
	Arguments map[string]any `json:"arguments,omitempty"`
	// Count is the exact number of times the tool must be called. Zero
	// means at least once.
	Count int `json:"count,omitempty"`
}
