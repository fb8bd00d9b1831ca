//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package llmjudge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/model"
)

// fakeModel replays a canned response and records the last request.
type fakeModel struct {
	response *model.Response
	err      error
	lastReq  *model.Request
}

func (m *fakeModel) GenerateContent(_ context.Context, req *model.Request) (*model.Response, error) {
	m.lastReq = req
	return m.response, m.err
}

func (m *fakeModel) Info() model.Info { return model.Info{Name: "fake"} }

func factoryFor(m model.Model) model.Factory {
	return func(context.Context, string) (model.Model, error) { return m, nil }
}

func toolCallResponse(args string) *model.Response {
	return &model.Response{Message: model.Message{
		Role: model.RoleAssistant,
		ToolCalls: []model.ToolCall{{
			Function: model.FunctionCall{Name: submitScoreTool, Arguments: []byte(args)},
		}},
	}}
}

func TestNewValidatesPrompt(t *testing.T) {
	_, err := New("judge", "gpt-4o-mini", "no placeholders here", factoryFor(&fakeModel{}))
	assert.Error(t, err)

	_, err = New("judge", "gpt-4o-mini", "", nil)
	assert.Error(t, err)

	e, err := New("judge", "gpt-4o-mini", "", factoryFor(&fakeModel{}))
	require.NoError(t, err)
	assert.Equal(t, "judge", e.ID())
}

func TestEvaluateToolCallVerdict(t *testing.T) {
	judge := &fakeModel{response: toolCallResponse(`{"score": 85, "justification": "close enough"}`)}
	e, err := New("judge", "gpt-4o-mini", "", factoryFor(judge))
	require.NoError(t, err)

	result, err := e.Evaluate(context.Background(),
		&runtime.ExecutionResult{Output: map[string]any{"answer": "Paris"}},
		&evaluator.Criterion{ExpectedOutput: map[string]any{"answer": "Paris, France"}})
	require.NoError(t, err)
	assert.Equal(t, evaluator.ScoreTypeNumerical, result.ScoreType)
	assert.InDelta(t, 0.85, result.Score, 1e-9)
	assert.Equal(t, "close enough", result.Details)

	// The judge is forced to answer through the verdict tool.
	require.Len(t, judge.lastReq.Tools, 1)
	assert.Equal(t, submitScoreTool, judge.lastReq.Tools[0].Name)
	// The prompt carries both rendered outputs.
	prompt := judge.lastReq.Messages[0].Content
	assert.Contains(t, prompt, "Paris")
	assert.Contains(t, prompt, "Paris, France")
	assert.NotContains(t, prompt, PlaceholderActual)
	assert.NotContains(t, prompt, PlaceholderExpected)
}

func TestEvaluatePlainContentVerdict(t *testing.T) {
	judge := &fakeModel{response: &model.Response{Message: model.Message{
		Role:    model.RoleAssistant,
		Content: `{"score": 40, "justification": "partially correct"}`,
	}}}
	e, err := New("judge", "gpt-4o-mini", "", factoryFor(judge))
	require.NoError(t, err)

	result, err := e.Evaluate(context.Background(),
		&runtime.ExecutionResult{Output: map[string]any{"answer": "Lyon"}},
		&evaluator.Criterion{ExpectedOutput: map[string]any{"answer": "Paris"}})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, result.Score, 1e-9)
}

func TestEvaluateErrors(t *testing.T) {
	criterion := &evaluator.Criterion{ExpectedOutput: map[string]any{"answer": "Paris"}}
	execution := &runtime.ExecutionResult{Output: map[string]any{"answer": "Paris"}}

	judgeErr := &fakeModel{err: errors.New("rate limited")}
	e, err := New("judge", "gpt-4o-mini", "", factoryFor(judgeErr))
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), execution, criterion)
	assert.ErrorContains(t, err, "rate limited")

	outOfRange := &fakeModel{response: toolCallResponse(`{"score": 140, "justification": "?"}`)}
	e, err = New("judge", "gpt-4o-mini", "", factoryFor(outOfRange))
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), execution, criterion)
	assert.ErrorContains(t, err, "out of range")

	// Empty expected output is rejected before any model call.
	e, err = New("judge", "gpt-4o-mini", "", factoryFor(&fakeModel{}))
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), execution, &evaluator.Criterion{})
	assert.Error(t, err)
}
