//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package registry builds and retrieves evaluator instances from
// configuration. Unknown (category, type) pairs fail when the registry is
// built, before any agent work begins.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/coded"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/exact"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/jsonsim"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/llmjudge"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/trajectory"
	"trpc.group/trpc-go/trpc-agent-evals/model"
)

// Registry holds the evaluators built for one run.
type Registry struct {
	mu         sync.RWMutex
	evaluators map[string]evaluator.Evaluator
}

// Build constructs all evaluators described by configs. The model factory is
// only required when an LLM evaluator is configured.
func Build(configs []*evaluator.Config, factory model.Factory) (*Registry, error) {
	r := &Registry{evaluators: make(map[string]evaluator.Evaluator, len(configs))}
	for _, config := range configs {
		if config == nil {
			return nil, errors.New("evaluator config is nil")
		}
		if config.ID == "" {
			return nil, errors.New("evaluator config has no id")
		}
		built, err := build(config, factory)
		if err != nil {
			return nil, fmt.Errorf("build evaluator %s: %w", config.ID, err)
		}
		if err := r.Register(config.ID, built); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// build dispatches on the (category, type) pair.
func build(config *evaluator.Config, factory model.Factory) (evaluator.Evaluator, error) {
	switch {
	case config.Category == evaluator.CategoryDeterministic && config.Type == evaluator.TypeExactMatch:
		return exact.New(config.ID), nil
	case config.Category == evaluator.CategoryDeterministic && config.Type == evaluator.TypeJSONSimilarity:
		return jsonsim.New(config.ID), nil
	case config.Category == evaluator.CategoryLLM && config.Type == evaluator.TypeJudge:
		return llmjudge.New(config.ID, config.Model, config.Prompt, factory)
	case config.Category == evaluator.CategoryTrajectory && config.Type == evaluator.TypeToolCalls:
		return trajectory.New(config.ID), nil
	case config.Category == evaluator.CategoryCoded && config.Type == evaluator.TypePlugin:
		return coded.Load(config.ID, config.FilePath)
	default:
		return nil, fmt.Errorf("unknown evaluator category/type %q/%q", config.Category, config.Type)
	}
}

// Register adds an evaluator under the given id. An existing id is
// rejected: evaluator references must be unambiguous.
func (r *Registry) Register(id string, e evaluator.Evaluator) error {
	if e == nil {
		return errors.New("evaluator is nil")
	}
	if id == "" {
		id = e.ID()
	}
	if id == "" {
		return errors.New("evaluator id is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.evaluators[id]; exists {
		return fmt.Errorf("evaluator %s registered twice", id)
	}
	r.evaluators[id] = e
	return nil
}

// Get retrieves an evaluator by id.
// Returns os.ErrNotExist if the evaluator is not found.
func (r *Registry) Get(id string) (evaluator.Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.evaluators[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("get evaluator %s: %w", id, os.ErrNotExist)
}

// IDs returns the ids of all registered evaluators sorted lexicographically.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.evaluators))
	for id := range r.evaluators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
