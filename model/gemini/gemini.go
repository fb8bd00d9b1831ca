//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package gemini provides the Gemini-backed implementation of model.Model.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"trpc.group/trpc-go/trpc-agent-evals/model"
)

// Model implements model.Model using the Gemini API.
type Model struct {
	name   string
	client *genai.Client
}

// New creates a Gemini-backed model. Credentials default to the environment
// handled by the genai client (GOOGLE_API_KEY / GEMINI_API_KEY).
func New(ctx context.Context, name string, opts ...Option) (*Model, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	client, err := genai.NewClient(ctx, options.clientConfig())
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Model{
		name:   name,
		client: client,
	}, nil
}

// Info returns the basic information of the model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// GenerateContent generates one completed response for the request.
func (m *Model) GenerateContent(ctx context.Context, request *model.Request) (*model.Response, error) {
	if request == nil {
		return nil, errors.New("request is nil")
	}
	contents := convertMessages(request.Messages)
	config := buildChatConfig(request)

	rsp, err := m.client.Models.GenerateContent(ctx, m.name, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(rsp.Candidates) == 0 {
		return nil, errors.New("gemini generate content returned no candidates")
	}

	response := &model.Response{
		Model:   m.name,
		Message: convertCandidates(rsp.Candidates),
	}
	if rsp.UsageMetadata != nil {
		response.Usage = &model.Usage{
			PromptTokens:     int(rsp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(rsp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(rsp.UsageMetadata.TotalTokenCount),
		}
	}
	return response, nil
}

// buildChatConfig converts the request generation parameters to Gemini config.
func buildChatConfig(request *model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Tools: convertTools(request.Tools),
	}
	// Explicitly set ToolConfig when tools are present to use AUTO mode.
	// AUTO mode allows the model to decide whether to call tools or respond
	// with text.
	if len(config.Tools) > 0 {
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		}
	}
	if request.MaxTokens != nil && *request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(*request.MaxTokens)
	}
	if request.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*request.Temperature))
	}
	return config
}

func convertMessages(messages []model.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		role := genai.RoleUser
		if msg.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		var parts []*genai.Part
		if msg.Content != "" && msg.Role != model.RoleTool {
			parts = append(parts, genai.NewPartFromText(msg.Content))
		}
		for _, toolCall := range msg.ToolCalls {
			args := map[string]any{}
			_ = json.Unmarshal(toolCall.Function.Arguments, &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   toolCall.ID,
					Name: toolCall.Function.Name,
					Args: args,
				},
			})
		}
		if msg.Role == model.RoleTool {
			response := map[string]any{}
			if err := json.Unmarshal([]byte(msg.Content), &response); err != nil {
				response = map[string]any{"output": msg.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       msg.ToolID,
					Name:     msg.ToolName,
					Response: response,
				},
			})
		}
		if len(parts) == 0 {
			continue
		}
		result = append(result, genai.NewContentFromParts(parts, genai.Role(role)))
	}
	return result
}

func convertTools(tools []*model.ToolDefinition) []*genai.Tool {
	result := make([]*genai.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:                 t.Name,
				Description:          t.Description,
				ParametersJsonSchema: t.Parameters,
			}},
		})
	}
	return result
}

func convertCandidates(candidates []*genai.Candidate) model.Message {
	var (
		textBuilder strings.Builder
		toolCalls   []model.ToolCall
	)
	for _, candidate := range candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				textBuilder.WriteString(part.Text)
			}
			if part.FunctionCall != nil {
				args, _ := json.Marshal(part.FunctionCall.Args)
				toolCalls = append(toolCalls, model.ToolCall{
					ID:   part.FunctionCall.ID,
					Type: "function",
					Function: model.FunctionCall{
						Name:      part.FunctionCall.Name,
						Arguments: args,
					},
				})
			}
		}
	}
	return model.Message{
		Role:      model.RoleAssistant,
		Content:   textBuilder.String(),
		ToolCalls: toolCalls,
	}
}
