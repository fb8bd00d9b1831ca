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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-agent-evals/model"
)

// InputStrategy configures LLM-based input generation: before the agent is
// invoked, a model produces fresh inputs from the prompt and the item's
// declared inputs serve as a shape example.
type InputStrategy struct {
	// Prompt describes the inputs to generate.
	Prompt string `json:"prompt"`
	// Model overrides the model used for generation.
	Model string `json:"model,omitempty"`
}

const inputGeneratorSystemPrompt = `You generate test inputs for an AI agent under evaluation.
You receive a description of the inputs to produce and an example input
object showing the expected shape. Answer with one JSON object of the same
shape. Answer with JSON only, no prose.`

// GenerateInputs produces replacement inputs for an evaluation item. The
// returned map is frozen by the caller before the agent is invoked.
func GenerateInputs(ctx context.Context, factory model.Factory, strategy *InputStrategy,
	example map[string]any) (map[string]any, error) {
	if strategy == nil || strategy.Prompt == "" {
		return nil, errors.New("input strategy has no prompt")
	}
	if factory == nil {
		return nil, errors.New("input generation requires a model factory")
	}
	generator, err := factory(ctx, strategy.Model)
	if err != nil {
		return nil, fmt.Errorf("resolve input model %q: %w", strategy.Model, err)
	}
	var prompt strings.Builder
	prompt.WriteString(strategy.Prompt)
	if len(example) > 0 {
		shape, err := json.Marshal(example)
		if err != nil {
			return nil, fmt.Errorf("marshal example inputs: %w", err)
		}
		fmt.Fprintf(&prompt, "\n\nExample input shape:\n%s", shape)
	}
	response, err := generator.GenerateContent(ctx, &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage(inputGeneratorSystemPrompt),
			model.NewUserMessage(prompt.String()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generate inputs: %w", err)
	}
	content := strings.TrimSpace(response.Message.Content)
	inputs := map[string]any{}
	if err := json.Unmarshal([]byte(content), &inputs); err != nil {
		return nil, fmt.Errorf("decode generated inputs: %w", err)
	}
	return inputs, nil
}
