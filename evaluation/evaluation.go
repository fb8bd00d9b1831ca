//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package evaluation provides the evaluation engine: it loads an evaluation
// set, builds the referenced evaluators, dispatches the items through the
// evaluation service and persists the run results as they arrive on the
// progress bus.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/registry"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/events"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/mocks"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/service"
	servicelocal "trpc.group/trpc-go/trpc-agent-evals/evaluation/service/local"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
	"trpc.group/trpc-go/trpc-agent-evals/log"
)

// RuntimeResult is the engine-level outcome of one evaluation run.
type RuntimeResult struct {
	// Output is the aggregated set run result.
	Output *evalresult.SetRunResult `json:"output,omitempty"`
	// Status is the overall run status.
	Status status.ExecutionStatus `json:"status"`
	// Triggers are the pending-action descriptors of suspended items. A
	// caller resumes the run by satisfying them and executing again with
	// the same run id.
	Triggers []*runtime.Trigger `json:"triggers,omitempty"`
}

// Engine executes evaluation runs end to end.
type Engine struct {
	factory  runtime.Factory
	registry *registry.Registry
	opts     *Options
}

// New creates an evaluation engine for the given runtime factory. Evaluator
// configuration errors fail here, before any run starts.
func New(factory runtime.Factory, opt ...Option) (*Engine, error) {
	if factory == nil {
		return nil, errors.New("runtime factory is nil")
	}
	opts := NewOptions(opt...)
	if opts.EvalSetID == "" {
		return nil, errors.New("eval set id is empty")
	}
	if opts.Resume && opts.RunID == "" {
		return nil, errors.New("resume requires the run id of the suspended run")
	}
	reg, err := registry.Build(opts.EvaluatorConfigs, opts.ModelFactory)
	if err != nil {
		return nil, fmt.Errorf("build evaluator registry: %w", err)
	}
	return &Engine{factory: factory, registry: reg, opts: opts}, nil
}

// Execute runs the configured evaluation set once and returns the run
// outcome. Results are persisted through the result manager as items
// complete, so a partial run still leaves its finished items on record.
func (e *Engine) Execute(ctx context.Context) (*RuntimeResult, error) {
	set, err := e.loadSet(ctx)
	if err != nil {
		return nil, err
	}
	if err := set.Validate(e.registry.IDs()); err != nil {
		return nil, err
	}
	runID := e.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	bus := events.NewBus()
	if err := bus.Subscribe("result-writer", resultWriter(e.opts.ResultManager, set.ID)); err != nil {
		return nil, err
	}
	for _, s := range e.opts.Subscribers {
		if err := bus.Subscribe(s.Name, s.Handler); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", s.Name, err)
		}
	}
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warnf("close event bus for run %s: %v", runID, err)
		}
	}()

	svc, err := e.buildService(bus)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Warnf("close evaluation service for run %s: %v", runID, err)
		}
	}()

	aggregate, err := svc.ExecuteSet(ctx, &service.ExecuteSetRequest{
		RunID:   runID,
		EvalSet: set,
		Resume:  e.opts.Resume,
	})
	if err != nil {
		return nil, err
	}
	e.archive(ctx, aggregate)
	return &RuntimeResult{
		Output:   aggregate,
		Status:   aggregate.Status,
		Triggers: aggregate.Triggers,
	}, nil
}

// loadSet retrieves the eval set and narrows it to the requested items.
func (e *Engine) loadSet(ctx context.Context) (*evalset.EvalSet, error) {
	set, err := e.opts.SetManager.Get(ctx, e.opts.EvalSetID)
	if err != nil {
		return nil, fmt.Errorf("load eval set %s: %w", e.opts.EvalSetID, err)
	}
	if len(e.opts.ItemIDs) > 0 {
		if set, err = set.Select(e.opts.ItemIDs); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (e *Engine) buildService(bus *events.Bus) (service.Service, error) {
	if e.opts.Service != nil {
		return e.opts.Service, nil
	}
	serviceOpts := []service.Option{
		service.WithRegistry(e.registry),
		service.WithBus(bus),
		service.WithModelFactory(e.opts.ModelFactory),
		service.WithCollector(e.opts.Collector),
		service.WithMockCache(mocks.NewCache()),
		service.WithCallbacks(e.opts.Callbacks),
	}
	if e.opts.Workers > 0 {
		serviceOpts = append(serviceOpts, service.WithWorkers(e.opts.Workers))
	}
	return servicelocal.New(e.factory, e.opts.Entrypoint, serviceOpts...)
}

// archive uploads the final run result to the bucket. Archive failures are
// logged and swallowed, the run result stands.
func (e *Engine) archive(ctx context.Context, result *evalresult.SetRunResult) {
	if e.opts.Bucket == nil || result == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		log.Warnf("encode run result %s for archive: %v", result.RunID, err)
		return
	}
	name := path.Join(e.opts.ArchivePrefix, result.RunID+".runresult.json")
	if err := e.opts.Bucket.Put(ctx, name, data); err != nil {
		log.Warnf("archive run result %s: %v", result.RunID, err)
	}
}

// resultWriter persists run progress: item-level reports are merged into
// the stored set run result as they arrive, the set-level aggregate
// replaces the summary fields once the run joins.
func resultWriter(manager evalresult.Manager, evalSetID string) events.Handler {
	return func(ctx context.Context, event *events.Event) error {
		switch event.Type {
		case events.TypeRunUpdated:
			r, ok := event.Payload.(*evalresult.RunResult)
			if !ok {
				return fmt.Errorf("run_updated payload has type %T", event.Payload)
			}
			return manager.Save(ctx, &evalresult.SetRunResult{
				RunID:      event.RunID,
				EvalSetID:  evalSetID,
				RunResults: []*evalresult.RunResult{r},
				Status:     r.Status,
				Success:    r.Success,
			})
		case events.TypeSetRunUpdated:
			r, ok := event.Payload.(*evalresult.SetRunResult)
			if !ok {
				return fmt.Errorf("set_run_updated payload has type %T", event.Payload)
			}
			return manager.Save(ctx, r)
		}
		return nil
	}
}
