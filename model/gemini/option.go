//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package gemini

import "google.golang.org/genai"

// Options contains configuration options for the Gemini model.
type Options struct {
	// APIKey is the API key. Falls back to GOOGLE_API_KEY / GEMINI_API_KEY
	// when empty.
	APIKey string
	// Backend selects the Gemini API backend.
	Backend genai.Backend
}

// Option is a function that configures the Gemini model.
type Option func(*Options)

// WithAPIKey sets the API key.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithBackend sets the Gemini API backend.
func WithBackend(backend genai.Backend) Option {
	return func(opts *Options) {
		opts.Backend = backend
	}
}

func (o *Options) clientConfig() *genai.ClientConfig {
	config := &genai.ClientConfig{Backend: o.Backend}
	if o.APIKey != "" {
		config.APIKey = o.APIKey
	}
	return config
}
