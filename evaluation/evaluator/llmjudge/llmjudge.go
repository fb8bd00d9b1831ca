//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package llmjudge provides the LLM-as-judge evaluator. The judge model
// receives the actual and expected outputs formatted into a prompt and
// reports its verdict through a forced "submit_score" tool call carrying a
// score in [0, 100] and a justification; the score is normalized to [0, 1].
package llmjudge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/internal/output"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/model"
)

// Placeholders the prompt template must carry.
const (
	PlaceholderActual   = "{{ActualOutput}}"
	PlaceholderExpected = "{{ExpectedOutput}}"
	// PlaceholderBehavior is optional; when present it receives the item's
	// expected agent behavior description.
	PlaceholderBehavior = "{{ExpectedAgentBehavior}}"
)

// submitScoreTool is the structured verdict tool offered to the judge.
const submitScoreTool = "submit_score"

const defaultPrompt = `You are an impartial evaluator grading the output of an AI agent.

Compare the actual output against the expected output and judge how well the
actual output fulfills the intent of the expected output. Ignore purely
cosmetic differences such as formatting or key order.

Expected output:
` + PlaceholderExpected + `

Actual output:
` + PlaceholderActual + `

Call ` + submitScoreTool + ` exactly once with a score from 0 (completely
wrong) to 100 (fully equivalent) and a short justification.`

// judgeEvaluator delegates scoring to a judge model.
type judgeEvaluator struct {
	id       string
	modelRef string
	prompt   string
	factory  model.Factory
}

// New creates an LLM judge evaluator. modelRef names the judge model
// resolved through the factory; prompt overrides the default template when
// non-empty and must carry the actual/expected placeholders.
func New(id, modelRef, prompt string, factory model.Factory) (evaluator.Evaluator, error) {
	if factory == nil {
		return nil, errors.New("model factory is nil")
	}
	if prompt == "" {
		prompt = defaultPrompt
	}
	if !strings.Contains(prompt, PlaceholderActual) || !strings.Contains(prompt, PlaceholderExpected) {
		return nil, fmt.Errorf("judge prompt must contain the %s and %s placeholders",
			PlaceholderActual, PlaceholderExpected)
	}
	return &judgeEvaluator{id: id, modelRef: modelRef, prompt: prompt, factory: factory}, nil
}

// ID returns the evaluator reference id.
func (e *judgeEvaluator) ID() string { return e.id }

// Description returns a description of what this evaluator checks.
func (e *judgeEvaluator) Description() string {
	return "Scores the agent output with an LLM judge"
}

// Evaluate formats the prompt, calls the judge model and parses the verdict.
func (e *judgeEvaluator) Evaluate(ctx context.Context, execution *runtime.ExecutionResult,
	criterion *evaluator.Criterion) (*evaluator.Result, error) {
	start := time.Now()
	if criterion == nil || len(criterion.ExpectedOutput) == 0 {
		return nil, errors.New("llm judge requires a non-empty expected output")
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

	prompt := strings.ReplaceAll(e.prompt, PlaceholderActual, actualText)
	prompt = strings.ReplaceAll(prompt, PlaceholderExpected, expectedText)
	prompt = strings.ReplaceAll(prompt, PlaceholderBehavior, criterion.ExpectedAgentBehavior)

	judge, err := e.factory(ctx, e.modelRef)
	if err != nil {
		return nil, fmt.Errorf("resolve judge model %q: %w", e.modelRef, err)
	}
	response, err := judge.GenerateContent(ctx, &model.Request{
		Messages: []model.Message{model.NewUserMessage(prompt)},
		Tools: []*model.ToolDefinition{{
			Name:        submitScoreTool,
			Description: "Submit the final evaluation verdict.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"score": map[string]any{
						"type":        "number",
						"description": "Score from 0 to 100.",
					},
					"justification": map[string]any{
						"type":        "string",
						"description": "Short explanation of the score.",
					},
				},
				"required": []any{"score", "justification"},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("judge model call: %w", err)
	}

	verdict, err := parseVerdict(response)
	if err != nil {
		return nil, err
	}
	result := evaluator.NewNumericalResult(verdict.Score/100, verdict.Justification)
	result.EvaluationTime = time.Since(start)
	return result, nil
}

type verdict struct {
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// parseVerdict extracts the submit_score call from the judge response. A
// judge that answered with plain JSON text instead of the tool call is still
// accepted.
func parseVerdict(response *model.Response) (*verdict, error) {
	if response == nil {
		return nil, errors.New("judge model returned no response")
	}
	var raw []byte
	for _, call := range response.Message.ToolCalls {
		if call.Function.Name == submitScoreTool {
			raw = call.Function.Arguments
			break
		}
	}
	if raw == nil && response.Message.Content != "" {
		raw = []byte(response.Message.Content)
	}
	if raw == nil {
		return nil, errors.New("judge model returned neither a submit_score call nor content")
	}
	var v verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse judge verdict: %w", err)
	}
	if v.Score < 0 || v.Score > 100 {
		return nil, fmt.Errorf("judge score %v out of range [0, 100]", v.Score)
	}
	return &v, nil
}
