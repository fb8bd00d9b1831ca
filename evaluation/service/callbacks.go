//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package service

import (
	"context"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	"trpc.group/trpc-go/trpc-agent-evals/log"
)

// NamedCallback binds a callback function with a component name.
type NamedCallback[T any] struct {
	// Name is the component name for the callback.
	Name string
	// Callback is the callback function.
	Callback T
}

// BeforeSetCallback is called before a run starts for an eval set.
type BeforeSetCallback func(ctx context.Context, request *ExecuteSetRequest) error

// AfterSetCallback is called after a run finishes for an eval set.
type AfterSetCallback func(ctx context.Context, request *ExecuteSetRequest, result *evalresult.SetRunResult) error

// BeforeItemCallback is called before an item's agent execution starts.
type BeforeItemCallback func(ctx context.Context, request *ExecuteSetRequest, item *evalset.EvaluationItem) error

// AfterItemCallback is called after an item reaches its terminal report.
type AfterItemCallback func(ctx context.Context, request *ExecuteSetRequest, result *evalresult.RunResult) error

// Callbacks stores the registered callbacks for run lifecycle points.
// Hosts use them to observe progress without subscribing to the event bus.
type Callbacks struct {
	// BeforeSet contains callbacks called before a set run starts.
	BeforeSet []NamedCallback[BeforeSetCallback]
	// AfterSet contains callbacks called after a set run finishes.
	AfterSet []NamedCallback[AfterSetCallback]
	// BeforeItem contains callbacks called before each item executes.
	BeforeItem []NamedCallback[BeforeItemCallback]
	// AfterItem contains callbacks called after each item reports.
	AfterItem []NamedCallback[AfterItemCallback]
}

// NewCallbacks creates an empty callback registry.
func NewCallbacks() *Callbacks {
	return &Callbacks{}
}

// RegisterBeforeSet appends a named before-set callback.
func (c *Callbacks) RegisterBeforeSet(name string, callback BeforeSetCallback) *Callbacks {
	c.BeforeSet = append(c.BeforeSet, NamedCallback[BeforeSetCallback]{Name: name, Callback: callback})
	return c
}

// RegisterAfterSet appends a named after-set callback.
func (c *Callbacks) RegisterAfterSet(name string, callback AfterSetCallback) *Callbacks {
	c.AfterSet = append(c.AfterSet, NamedCallback[AfterSetCallback]{Name: name, Callback: callback})
	return c
}

// RegisterBeforeItem appends a named before-item callback.
func (c *Callbacks) RegisterBeforeItem(name string, callback BeforeItemCallback) *Callbacks {
	c.BeforeItem = append(c.BeforeItem, NamedCallback[BeforeItemCallback]{Name: name, Callback: callback})
	return c
}

// RegisterAfterItem appends a named after-item callback.
func (c *Callbacks) RegisterAfterItem(name string, callback AfterItemCallback) *Callbacks {
	c.AfterItem = append(c.AfterItem, NamedCallback[AfterItemCallback]{Name: name, Callback: callback})
	return c
}

// RunBeforeSet invokes the before-set callbacks. Callback errors are logged
// and swallowed: observation must not fail the run.
func (c *Callbacks) RunBeforeSet(ctx context.Context, request *ExecuteSetRequest) {
	if c == nil {
		return
	}
	for _, named := range c.BeforeSet {
		if err := named.Callback(ctx, request); err != nil {
			log.Warnf("before-set callback %s: %v", named.Name, err)
		}
	}
}

// RunAfterSet invokes the after-set callbacks.
func (c *Callbacks) RunAfterSet(ctx context.Context, request *ExecuteSetRequest, result *evalresult.SetRunResult) {
	if c == nil {
		return
	}
	for _, named := range c.AfterSet {
		if err := named.Callback(ctx, request, result); err != nil {
			log.Warnf("after-set callback %s: %v", named.Name, err)
		}
	}
}

// RunBeforeItem invokes the before-item callbacks.
func (c *Callbacks) RunBeforeItem(ctx context.Context, request *ExecuteSetRequest, item *evalset.EvaluationItem) {
	if c == nil {
		return
	}
	for _, named := range c.BeforeItem {
		if err := named.Callback(ctx, request, item); err != nil {
			log.Warnf("before-item callback %s: %v", named.Name, err)
		}
	}
}

// RunAfterItem invokes the after-item callbacks.
func (c *Callbacks) RunAfterItem(ctx context.Context, request *ExecuteSetRequest, result *evalresult.RunResult) {
	if c == nil {
		return
	}
	for _, named := range c.AfterItem {
		if err := named.Callback(ctx, request, result); err != nil {
			log.Warnf("after-item callback %s: %v", named.Name, err)
		}
	}
}
