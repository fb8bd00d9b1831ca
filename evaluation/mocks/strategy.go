//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package mocks

import (
	"errors"
	"fmt"
)

// Strategy is the tagged union describing how an item's external calls are
// intercepted. Exactly one arm must be set.
type Strategy struct {
	// LLM synthesizes plausible responses from a natural-language
	// description of intended behavior.
	LLM *LLMStrategy `json:"llm,omitempty"`
	// Behavior returns literal configured values for declared calls.
	Behavior *BehaviorStrategy `json:"behavior,omitempty"`
}

// Validate checks that exactly one strategy arm is set.
func (s *Strategy) Validate() error {
	if s == nil {
		return errors.New("mocking strategy is nil")
	}
	if (s.LLM == nil) == (s.Behavior == nil) {
		return errors.New("mocking strategy must set exactly one of llm or behavior")
	}
	if s.Behavior != nil {
		for i, behavior := range s.Behavior.Behaviors {
			if behavior == nil || behavior.Function == "" {
				return fmt.Errorf("behavior %d has no function name", i)
			}
		}
	}
	return nil
}

// LLMStrategy synthesizes mocked responses with a model.
type LLMStrategy struct {
	// Prompt describes the intended behavior of the simulated tools.
	Prompt string `json:"prompt,omitempty"`
	// ToolsToSimulate lists the tool names to intercept.
	ToolsToSimulate []string `json:"toolsToSimulate,omitempty"`
	// Model overrides the model used for synthesis.
	Model string `json:"model,omitempty"`
}

// BehaviorStrategy returns literal configured values, first match wins.
type BehaviorStrategy struct {
	// Behaviors is the ordered list of declared call behaviors.
	Behaviors []*ToolBehavior `json:"behaviors,omitempty"`
}

// ToolBehavior declares the canned outcome for calls matching a
// {function, argument matcher} pair.
type ToolBehavior struct {
	// Function is the tool name to match. Underscores and spaces are
	// equivalent.
	Function string `json:"function"`
	// Arguments are argument values that must appear in the intercepted
	// call for this behavior to apply. Absent keys match anything.
	Arguments map[string]any `json:"arguments,omitempty"`
	// Then is the canned answer returned on match.
	Then any `json:"then,omitempty"`
	// ThenError raises the configured error text instead of answering.
	ThenError string `json:"thenError,omitempty"`
}
