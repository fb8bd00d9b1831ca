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
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/internal/toolname"
	"trpc.group/trpc-go/trpc-agent-evals/model"
)

const llmMockerSystemPrompt = `You simulate the tools of an AI agent under test.
You receive a description of the intended tool behavior and one tool call.
Answer with the JSON value the real tool would plausibly return. Answer with
JSON only, no prose.`

// llmMocker synthesizes plausible responses for intercepted calls with a
// model.
type llmMocker struct {
	strategy *LLMStrategy
	factory  model.Factory
}

func (m *llmMocker) simulated(name string) bool {
	for _, tool := range m.strategy.ToolsToSimulate {
		if toolname.Equal(tool, name) {
			return true
		}
	}
	return false
}

func (m *llmMocker) response(ctx context.Context, call Call) (any, error) {
	synthesizer, err := m.factory(ctx, m.strategy.Model)
	if err != nil {
		return nil, fmt.Errorf("resolve mock model %q: %w", m.strategy.Model, err)
	}
	arguments, err := json.Marshal(call.Arguments)
	if err != nil {
		return nil, fmt.Errorf("marshal call arguments: %w", err)
	}
	var prompt strings.Builder
	if m.strategy.Prompt != "" {
		prompt.WriteString("Intended behavior:\n")
		prompt.WriteString(m.strategy.Prompt)
		prompt.WriteString("\n\n")
	}
	fmt.Fprintf(&prompt, "Tool call: %s\nArguments: %s\n", call.Function, arguments)

	response, err := synthesizer.GenerateContent(ctx, &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage(llmMockerSystemPrompt),
			model.NewUserMessage(prompt.String()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize mock response for %s: %w", call.Function, err)
	}
	content := strings.TrimSpace(response.Message.Content)
	if content == "" {
		return nil, fmt.Errorf("mock model returned empty response for %s", call.Function)
	}
	var value any
	if err := json.Unmarshal([]byte(content), &value); err != nil {
		// Keep non-JSON answers as plain text rather than failing the call.
		return content, nil
	}
	return value, nil
}
