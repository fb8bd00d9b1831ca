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
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/events"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/registry"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/mocks"
	"trpc.group/trpc-go/trpc-agent-evals/model"
	"trpc.group/trpc-go/trpc-agent-evals/model/provider"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// defaultWorkers bounds concurrent agent invocations when the eval set
// declares no batch size.
const defaultWorkers = 4

// Options holds the options for the evaluation service.
type Options struct {
	Registry     *registry.Registry  // Registry resolves evaluator references.
	Bus          *events.Bus         // Bus receives run lifecycle events.
	ModelFactory model.Factory       // ModelFactory resolves judge/mock/input models.
	Collector    telemetry.Collector // Collector drains engine-side spans per execution.
	MockCache    *mocks.Cache        // MockCache deduplicates mock responses across items.
	Workers      int                 // Workers bounds concurrent agent invocations.
	Callbacks    *Callbacks          // Callbacks observe run lifecycle points.
}

// Option defines a function type for configuring the evaluation service.
type Option func(*Options)

// NewOptions creates a new Options with the default values.
func NewOptions(opt ...Option) *Options {
	opts := &Options{
		ModelFactory: provider.Factory(),
		Workers:      defaultWorkers,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithRegistry sets the evaluator registry.
func WithRegistry(r *registry.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithBus sets the progress event bus. Without a bus no events are
// published.
func WithBus(b *events.Bus) Option {
	return func(o *Options) {
		o.Bus = b
	}
}

// WithModelFactory sets the model factory.
// The provider-name factory is used by default.
func WithModelFactory(f model.Factory) Option {
	return func(o *Options) {
		o.ModelFactory = f
	}
}

// WithCollector sets the execution span collector.
func WithCollector(c telemetry.Collector) Option {
	return func(o *Options) {
		o.Collector = c
	}
}

// WithMockCache sets the run-scoped mock response cache.
func WithMockCache(c *mocks.Cache) Option {
	return func(o *Options) {
		o.MockCache = c
	}
}

// WithWorkers bounds how many agent invocations run concurrently. The eval
// set's batch size takes precedence when set.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithCallbacks sets the lifecycle callbacks.
func WithCallbacks(c *Callbacks) Option {
	return func(o *Options) {
		o.Callbacks = c
	}
}
