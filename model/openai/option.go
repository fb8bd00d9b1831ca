//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package openai

// Options contains configuration options for the OpenAI model.
type Options struct {
	// APIKey is the API key. Falls back to OPENAI_API_KEY when empty.
	APIKey string
	// BaseURL points the client at an OpenAI-compatible endpoint.
	BaseURL string
}

// Option is a function that configures the OpenAI model.
type Option func(*Options)

// WithAPIKey sets the API key.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithBaseURL sets the base URL of an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}
