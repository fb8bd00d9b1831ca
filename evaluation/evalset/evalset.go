//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package evalset provides the immutable evaluation set model: a named
// collection of evaluation items plus the evaluator references used to
// score them.
package evalset

import (
	"context"
	"fmt"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/internal/clone"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/mocks"
)

// EvalSet represents a collection of evaluation items. It is created once
// per run from a stored definition and immutable thereafter; Select returns
// a narrowed copy instead of mutating.
type EvalSet struct {
	// ID uniquely identifies this evaluation set.
	ID string `json:"id"`
	// Name of the evaluation set.
	Name string `json:"name,omitempty"`
	// Description of the evaluation set.
	Description string `json:"description,omitempty"`
	// EvaluatorRefs are the evaluator ids this set scores with. Every
	// evaluator id referenced by any item's criteria must appear here.
	EvaluatorRefs []string `json:"evaluatorRefs,omitempty"`
	// Items contains all the evaluation items.
	Items []*EvaluationItem `json:"items"`
	// BatchSize bounds how many agent invocations run concurrently.
	BatchSize int `json:"batchSize,omitempty"`
	// Timeout is the declared per-run timeout. It is carried for external
	// schedulers; the engine does not enforce it.
	Timeout time.Duration `json:"timeout,omitempty"`
	// CreationTimestamp when this eval set was created.
	CreationTimestamp time.Time `json:"creationTimestamp"`
}

// EvaluationItem is one agent invocation plus its evaluator pass. It is
// read-only after load; WithInputs returns a modified copy.
type EvaluationItem struct {
	// ID uniquely identifies the item within the set.
	ID string `json:"id"`
	// Name of the item.
	Name string `json:"name,omitempty"`
	// Inputs are the agent inputs for this item.
	Inputs map[string]any `json:"inputs,omitempty"`
	// Criteria maps evaluator ids to the criterion each scores against.
	// Evaluators not referenced here are skipped for this item.
	Criteria map[string]*evaluator.Criterion `json:"criteria,omitempty"`
	// ExpectedAgentBehavior describes in natural language what the agent is
	// expected to do.
	ExpectedAgentBehavior string `json:"expectedAgentBehavior,omitempty"`
	// Mocking intercepts the item's external calls when set.
	Mocking *mocks.Strategy `json:"mocking,omitempty"`
	// InputGeneration replaces Inputs with LLM-generated ones when set.
	InputGeneration *mocks.InputStrategy `json:"inputGeneration,omitempty"`
}

// WithInputs returns a copy of the item with the inputs replaced. The
// receiver is left untouched.
func (i *EvaluationItem) WithInputs(inputs map[string]any) (*EvaluationItem, error) {
	copied, err := clone.Clone(i)
	if err != nil {
		return nil, fmt.Errorf("clone evaluation item %s: %w", i.ID, err)
	}
	copied.Inputs = inputs
	return copied, nil
}

// Select returns a copy of the set narrowed to the requested item ids. It
// fails when any requested id is absent, naming the id.
func (s *EvalSet) Select(itemIDs []string) (*EvalSet, error) {
	byID := make(map[string]*EvaluationItem, len(s.Items))
	for _, item := range s.Items {
		byID[item.ID] = item
	}
	selected := make([]*EvaluationItem, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("eval set %s has no item %q", s.ID, id)
		}
		selected = append(selected, item)
	}
	narrowed := *s
	narrowed.Items = selected
	return &narrowed, nil
}

// Validate checks the set against the known evaluator ids: every evaluator
// ref must resolve, and every evaluator id referenced by an item's criteria
// must appear in EvaluatorRefs. The returned error names the first
// unresolved id.
func (s *EvalSet) Validate(knownEvaluators []string) error {
	if s.ID == "" {
		return fmt.Errorf("eval set has no id")
	}
	known := make(map[string]struct{}, len(knownEvaluators))
	for _, id := range knownEvaluators {
		known[id] = struct{}{}
	}
	refs := make(map[string]struct{}, len(s.EvaluatorRefs))
	for _, ref := range s.EvaluatorRefs {
		if _, ok := known[ref]; !ok {
			return fmt.Errorf("eval set %s references unknown evaluator %q", s.ID, ref)
		}
		refs[ref] = struct{}{}
	}
	for _, item := range s.Items {
		if item == nil || item.ID == "" {
			return fmt.Errorf("eval set %s contains an item without id", s.ID)
		}
		for evaluatorID := range item.Criteria {
			if _, ok := refs[evaluatorID]; !ok {
				return fmt.Errorf("item %s references evaluator %q not listed in evaluator refs",
					item.ID, evaluatorID)
			}
		}
	}
	return nil
}

// Manager defines the interface for managing evaluation sets.
type Manager interface {
	// Get returns the EvalSet identified by evalSetID.
	Get(ctx context.Context, evalSetID string) (*EvalSet, error)
	// Create creates and returns an empty EvalSet given the evalSetID.
	Create(ctx context.Context, evalSetID string) (*EvalSet, error)
	// AddItem adds the given item to an existing EvalSet.
	AddItem(ctx context.Context, evalSetID string, item *EvaluationItem) error
	// DeleteItem deletes the item identified by evalSetID and itemID.
	DeleteItem(ctx context.Context, evalSetID, itemID string) error
	// List returns all available eval set ids.
	List(ctx context.Context) ([]string, error)
}
