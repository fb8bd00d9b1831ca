//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package evalresult

// defaultBaseDir is the default base directory for result files.
const defaultBaseDir = "."

// Options configure the local evaluation result manager.
type Options struct {
	BaseDir string // BaseDir is the base directory for result files.
}

// NewOptions constructs Options with the default values.
func NewOptions(opts ...Option) *Options {
	options := &Options{BaseDir: defaultBaseDir}
	for _, o := range opts {
		o(options)
	}
	return options
}

// Option is a functional option for configuring the result manager.
type Option func(*Options)

// WithBaseDir sets the root directory for storing result files.
func WithBaseDir(dir string) Option {
	return func(o *Options) {
		o.BaseDir = dir
	}
}
