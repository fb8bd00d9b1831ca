//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package coded loads user-supplied evaluators from a Go plugin at a
// designated file path. The plugin must export exactly one conforming
// constructor symbol named NewEvaluator:
//
//	func NewEvaluator(id string) (evaluator.Evaluator, error)
//
// Loading fails when the symbol is absent or does not conform, so a
// malformed plugin is rejected before any agent work begins.
package coded

import (
	"errors"
	"fmt"
	"plugin"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
)

// SymbolName is the constructor symbol a coded evaluator plugin must export.
const SymbolName = "NewEvaluator"

// Constructor is the required type of the exported constructor symbol.
type Constructor = func(id string) (evaluator.Evaluator, error)

// opener abstracts plugin loading for tests.
type opener func(path string) (lookup, error)

type lookup interface {
	Lookup(symbol string) (plugin.Symbol, error)
}

var openPlugin opener = func(path string) (lookup, error) {
	return plugin.Open(path)
}

// Load opens the plugin at path and builds the evaluator it exports.
func Load(id, path string) (evaluator.Evaluator, error) {
	if path == "" {
		return nil, errors.New("coded evaluator has no file path")
	}
	p, err := openPlugin(path)
	if err != nil {
		return nil, fmt.Errorf("open evaluator plugin %s: %w", path, err)
	}
	symbol, err := p.Lookup(SymbolName)
	if err != nil {
		return nil, fmt.Errorf("evaluator plugin %s does not export %s: %w", path, SymbolName, err)
	}
	construct, ok := symbol.(Constructor)
	if !ok {
		return nil, fmt.Errorf("evaluator plugin %s: symbol %s has type %T, want %T",
			path, SymbolName, symbol, Constructor(nil))
	}
	built, err := construct(id)
	if err != nil {
		return nil, fmt.Errorf("construct coded evaluator %s: %w", id, err)
	}
	if built == nil {
		return nil, fmt.Errorf("evaluator plugin %s: constructor returned nil", path)
	}
	return built, nil
}
