//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package evaluation

import (
	"trpc.group/trpc-go/trpc-agent-evals/bucket"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	resultinmemory "trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult/inmemory"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	setinmemory "trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset/inmemory"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/events"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/service"
	"trpc.group/trpc-go/trpc-agent-evals/model"
	"trpc.group/trpc-go/trpc-agent-evals/model/provider"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// Subscriber pairs a name with a progress event handler registered on the
// engine's bus.
type Subscriber struct {
	Name    string
	Handler events.Handler
}

// Options holds the options for the evaluation engine.
type Options struct {
	EvalSetID        string              // EvalSetID names the set to execute.
	ItemIDs          []string            // ItemIDs narrows the run to these items.
	RunID            string              // RunID identifies the run. Generated when empty.
	Entrypoint       string              // Entrypoint is the agent entrypoint passed to the runtime.
	Resume           bool                // Resume resumes a previously suspended run.
	EvaluatorConfigs []*evaluator.Config // EvaluatorConfigs declare the evaluators.
	SetManager       evalset.Manager     // SetManager loads evaluation sets.
	ResultManager    evalresult.Manager  // ResultManager persists run results.
	ModelFactory     model.Factory       // ModelFactory resolves judge/mock/input models.
	Collector        telemetry.Collector // Collector drains engine-side spans per execution.
	Workers          int                 // Workers bounds concurrent agent invocations.
	Subscribers      []Subscriber        // Subscribers receive progress events.
	Callbacks        *service.Callbacks  // Callbacks observe run lifecycle points.
	Service          service.Service     // Service overrides the dispatcher, mainly for tests.
	Bucket           bucket.Service      // Bucket archives the final run result when set.
	ArchivePrefix    string              // ArchivePrefix prefixes archived object names.
}

// Option defines a function type for configuring the evaluation engine.
type Option func(*Options)

// NewOptions creates a new Options with the default values.
func NewOptions(opt ...Option) *Options {
	opts := &Options{
		SetManager:    setinmemory.New(),
		ResultManager: resultinmemory.New(),
		ModelFactory:  provider.Factory(),
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithEvalSetID names the evaluation set to execute.
func WithEvalSetID(evalSetID string) Option {
	return func(o *Options) {
		o.EvalSetID = evalSetID
	}
}

// WithItemIDs narrows the run to the given item ids. Unknown ids fail the
// run before any agent work.
func WithItemIDs(itemIDs ...string) Option {
	return func(o *Options) {
		o.ItemIDs = itemIDs
	}
}

// WithRunID pins the run id. Required when resuming; generated otherwise.
func WithRunID(runID string) Option {
	return func(o *Options) {
		o.RunID = runID
	}
}

// WithEntrypoint sets the agent entrypoint passed to the runtime factory.
func WithEntrypoint(entrypoint string) Option {
	return func(o *Options) {
		o.Entrypoint = entrypoint
	}
}

// WithResume resumes the suspended run identified by the run id.
func WithResume(resume bool) Option {
	return func(o *Options) {
		o.Resume = resume
	}
}

// WithEvaluatorConfigs declares the evaluators available to the run.
func WithEvaluatorConfigs(configs ...*evaluator.Config) Option {
	return func(o *Options) {
		o.EvaluatorConfigs = configs
	}
}

// WithSetManager sets the eval set manager.
// The in-memory manager is used by default.
func WithSetManager(m evalset.Manager) Option {
	return func(o *Options) {
		o.SetManager = m
	}
}

// WithResultManager sets the run result manager.
// The in-memory manager is used by default.
func WithResultManager(m evalresult.Manager) Option {
	return func(o *Options) {
		o.ResultManager = m
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

// WithWorkers bounds how many agent invocations run concurrently. The eval
// set's batch size takes precedence when set.
func WithWorkers(workers int) Option {
	return func(o *Options) {
		o.Workers = workers
	}
}

// WithSubscriber registers an extra progress event subscriber.
func WithSubscriber(name string, handler events.Handler) Option {
	return func(o *Options) {
		o.Subscribers = append(o.Subscribers, Subscriber{Name: name, Handler: handler})
	}
}

// WithCallbacks sets the lifecycle callbacks.
func WithCallbacks(c *service.Callbacks) Option {
	return func(o *Options) {
		o.Callbacks = c
	}
}

// WithService overrides the dispatcher service.
func WithService(s service.Service) Option {
	return func(o *Options) {
		o.Service = s
	}
}

// WithBucket archives the final run result JSON to the bucket under the
// given prefix.
func WithBucket(b bucket.Service, prefix string) Option {
	return func(o *Options) {
		o.Bucket = b
		o.ArchivePrefix = prefix
	}
}
