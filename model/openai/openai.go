//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package openai provides the OpenAI-backed implementation of model.Model.
// It works with api.openai.com and with OpenAI-compatible endpoints through
// the base URL option.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"trpc.group/trpc-go/trpc-agent-evals/model"
)

// Model implements model.Model using the OpenAI chat completions API.
type Model struct {
	name   string
	client openai.Client
}

// New creates an OpenAI-backed model. The API key defaults to the
// OPENAI_API_KEY environment variable handled by the underlying client.
func New(name string, opts ...Option) *Model {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	var clientOpts []openaiopt.RequestOption
	if options.APIKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(options.APIKey))
	}
	if options.BaseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(options.BaseURL))
	}
	return &Model{
		name:   name,
		client: openai.NewClient(clientOpts...),
	}
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
	chatRequest := m.buildChatRequest(request)
	chatCompletion, err := m.client.Chat.Completions.New(ctx, chatRequest)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return nil, errors.New("openai chat completion returned no choices")
	}

	choice := chatCompletion.Choices[0]
	message := model.Message{
		Role:    model.RoleAssistant,
		Content: choice.Message.Content,
	}
	for j, toolCall := range choice.Message.ToolCalls {
		synthesizedID := toolCall.ID
		if synthesizedID == "" {
			// Synthesize an id for providers that omit it.
			synthesizedID = fmt.Sprintf("auto_call_%d", j)
		}
		message.ToolCalls = append(message.ToolCalls, model.ToolCall{
			ID:   synthesizedID,
			Type: string(toolCall.Type),
			Function: model.FunctionCall{
				Name:      toolCall.Function.Name,
				Arguments: []byte(toolCall.Function.Arguments),
			},
		})
	}

	response := &model.Response{
		Model:   chatCompletion.Model,
		Message: message,
	}
	if chatCompletion.Usage.TotalTokens > 0 {
		response.Usage = &model.Usage{
			PromptTokens:     int(chatCompletion.Usage.PromptTokens),
			CompletionTokens: int(chatCompletion.Usage.CompletionTokens),
			TotalTokens:      int(chatCompletion.Usage.TotalTokens),
		}
	}
	return response, nil
}

func (m *Model) buildChatRequest(request *model.Request) openai.ChatCompletionNewParams {
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: convertMessages(request.Messages),
		Tools:    convertTools(request.Tools),
	}
	if request.MaxTokens != nil && *request.MaxTokens > 0 {
		chatRequest.MaxCompletionTokens = openai.Int(int64(*request.MaxTokens))
	}
	if request.Temperature != nil {
		chatRequest.Temperature = openai.Float(*request.Temperature)
	}
	return chatRequest
}

func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		case model.RoleAssistant:
			assistantMsg := &openai.ChatCompletionAssistantMessageParam{
				ToolCalls: convertToolCalls(msg.ToolCalls),
			}
			if msg.Content != "" {
				assistantMsg.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfAssistant: assistantMsg,
			}
		case model.RoleTool:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
					ToolCallID: msg.ToolID,
				},
			}
		default: // Default to user message if role is unknown.
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		}
	}
	return result
}

func convertToolCalls(toolCalls []model.ToolCall) []openai.ChatCompletionMessageToolCallParam {
	var result []openai.ChatCompletionMessageToolCallParam
	for _, toolCall := range toolCalls {
		result = append(result, openai.ChatCompletionMessageToolCallParam{
			ID: toolCall.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      toolCall.Function.Name,
				Arguments: string(toolCall.Function.Arguments),
			},
		})
	}
	return result
}

func convertTools(tools []*model.ToolDefinition) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, t := range tools {
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  shared.FunctionParameters(t.Parameters),
			},
		})
	}
	return result
}
