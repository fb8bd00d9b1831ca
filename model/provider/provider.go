//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package provider resolves model names to concrete model.Model
// implementations. The engine threads the resulting model.Factory through
// the LLM judge, the mocked-response synthesizer and the input generator so
// an item-level model override only has to carry a name.
package provider

import (
	"context"
	"strings"

	"trpc.group/trpc-go/trpc-agent-evals/model"
	"trpc.group/trpc-go/trpc-agent-evals/model/gemini"
	"trpc.group/trpc-go/trpc-agent-evals/model/openai"
)

// DefaultModel is used when a request carries no model name at all.
const DefaultModel = "gpt-4o-mini"

// Factory returns a model.Factory that dispatches on the model name prefix:
// "gemini-*" names resolve to the Gemini backend, everything else to the
// OpenAI-compatible backend.
func Factory() model.Factory {
	return func(ctx context.Context, name string) (model.Model, error) {
		if name == "" {
			name = DefaultModel
		}
		if strings.HasPrefix(name, "gemini") {
			return gemini.New(ctx, name)
		}
		return openai.New(name), nil
	}
}
