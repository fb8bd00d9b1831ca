//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package model provides the minimal LLM abstraction used by the evaluation
// engine: the LLM judge, the mocked-response synthesizer and the input
// generator all talk to a Model.
package model

import "context"

// Role represents the role of a message author.
type Role string

const (
	// RoleSystem is the system role.
	RoleSystem Role = "system"
	// RoleUser is the user role.
	RoleUser Role = "user"
	// RoleAssistant is the assistant role.
	RoleAssistant Role = "assistant"
	// RoleTool is the tool role.
	RoleTool Role = "tool"
)

// Message represents one message in a chat conversation.
type Message struct {
	// Role is the author of the message.
	Role Role `json:"role"`
	// Content is the text content.
	Content string `json:"content,omitempty"`
	// ToolID is the id of the tool call this message responds to.
	ToolID string `json:"tool_id,omitempty"`
	// ToolName is the name of the tool this message responds to.
	ToolName string `json:"tool_name,omitempty"`
	// ToolCalls carries the tool calls requested by the assistant.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage creates a tool response message.
func NewToolMessage(toolID, toolName, content string) Message {
	return Message{Role: RoleTool, ToolID: toolID, ToolName: toolName, Content: content}
}

// ToolCall represents a tool call requested by the model.
type ToolCall struct {
	// ID is the unique identifier of the tool call.
	ID string `json:"id,omitempty"`
	// Type is the type of the tool, currently always "function".
	Type string `json:"type,omitempty"`
	// Function is the called function.
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the function name and raw JSON arguments of a call.
type FunctionCall struct {
	// Name is the function name.
	Name string `json:"name"`
	// Arguments is the raw JSON argument payload.
	Arguments []byte `json:"arguments,omitempty"`
}

// ToolDefinition declares a callable tool offered to the model.
type ToolDefinition struct {
	// Name is the tool name.
	Name string `json:"name"`
	// Description tells the model when to call the tool.
	Description string `json:"description,omitempty"`
	// Parameters is the JSON schema of the tool input.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// GenerationConfig bundles the generation parameters of a request.
type GenerationConfig struct {
	// Temperature controls the randomness of the output.
	Temperature *float64 `json:"temperature,omitempty"`
	// MaxTokens limits the number of generated tokens.
	MaxTokens *int `json:"max_tokens,omitempty"`
}

// Request is a chat generation request.
type Request struct {
	// Messages is the conversation so far.
	Messages []Message `json:"messages"`
	// Tools lists the tools the model may call.
	Tools []*ToolDefinition `json:"-"`

	GenerationConfig
}

// Usage reports token consumption of one response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a completed, non-streaming chat generation.
type Response struct {
	// Model is the concrete model that produced the response.
	Model string `json:"model,omitempty"`
	// Message is the assistant message.
	Message Message `json:"message"`
	// Usage reports token consumption when the provider returns it.
	Usage *Usage `json:"usage,omitempty"`
}

// Info describes a model instance.
type Info struct {
	// Name is the model name, e.g. "gpt-4o-mini".
	Name string
}

// Model generates a single completed response per request. The evaluation
// engine has no streaming consumers, so implementations block until the
// provider returns.
type Model interface {
	// GenerateContent generates one response for the request.
	GenerateContent(ctx context.Context, request *Request) (*Response, error)
	// Info returns the basic information of the model.
	Info() Info
}

// Factory resolves a model name to a concrete implementation. The engine
// threads a Factory everywhere a model override string can appear so tests
// can substitute fakes.
type Factory func(ctx context.Context, name string) (Model, error)
