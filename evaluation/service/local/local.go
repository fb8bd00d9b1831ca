//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package local provides the local implementation of the evaluation
// dispatcher: it fans the items of one evaluation set out to a worker pool,
// bounds the agent-invocation phase with a counting admission gate,
// isolates per-item failures and aggregates the set-level result.
package local

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/checkpoint"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/events"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator/registry"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/mocks"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/service"
	"trpc.group/trpc-go/trpc-agent-evals/log"
	"trpc.group/trpc-go/trpc-agent-evals/model"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// local is the local implementation of service.Service.
type local struct {
	factory      runtime.Factory
	entrypoint   string
	registry     *registry.Registry
	bus          *events.Bus
	modelFactory model.Factory
	collector    telemetry.Collector
	mockCache    *mocks.Cache
	workers      int
	callbacks    *service.Callbacks
	tracer       trace.Tracer
}

// New returns a new local evaluation service for the given agent
// entrypoint. If no service.Option is provided, the service uses the
// default options.
func New(factory runtime.Factory, entrypoint string, opt ...service.Option) (service.Service, error) {
	if factory == nil {
		return nil, errors.New("runtime factory is nil")
	}
	opts := service.NewOptions(opt...)
	if opts.Registry == nil {
		return nil, errors.New("registry is nil")
	}
	if opts.Workers <= 0 {
		return nil, errors.New("workers must be greater than 0")
	}
	return &local{
		factory:      factory,
		entrypoint:   entrypoint,
		registry:     opts.Registry,
		bus:          opts.Bus,
		modelFactory: opts.ModelFactory,
		collector:    opts.Collector,
		mockCache:    opts.MockCache,
		workers:      opts.Workers,
		callbacks:    opts.Callbacks,
		tracer:       otel.Tracer(telemetry.InstrumentName),
	}, nil
}

// Close releases owned resources.
func (s *local) Close() error {
	return nil
}

// ExecuteSet runs every item of the evaluation set and aggregates the
// set-level result. A failure inside one item never cancels its siblings;
// only dispatcher-level failures return an error.
func (s *local) ExecuteSet(ctx context.Context, req *service.ExecuteSetRequest) (*evalresult.SetRunResult, error) {
	if req == nil {
		return nil, errors.New("execute set request is nil")
	}
	if req.RunID == "" {
		return nil, errors.New("run id is empty")
	}
	if req.EvalSet == nil {
		return nil, errors.New("eval set is nil")
	}
	set := req.EvalSet
	if len(set.Items) == 0 {
		return nil, fmt.Errorf("eval set %s has no items", set.ID)
	}
	// Resume is defined only for a singleton item: suspension state is
	// associated with one agent checkpoint.
	if req.Resume && len(set.Items) != 1 {
		return nil, fmt.Errorf("resume supports exactly one item, eval set %s has %d", set.ID, len(set.Items))
	}
	if err := set.Validate(s.registry.IDs()); err != nil {
		return nil, err
	}

	rt, err := s.factory.NewRuntime(ctx, s.entrypoint, req.RunID)
	if err != nil {
		return nil, fmt.Errorf("create runtime for run %s: %w", req.RunID, err)
	}
	if req.Resume && s.mockCache != nil {
		if err := s.mockCache.Load(ctx, rt.Storage(), req.RunID); err != nil {
			return nil, fmt.Errorf("reload mock cache for run %s: %w", req.RunID, err)
		}
	}

	start := time.Now()
	s.callbacks.RunBeforeSet(ctx, req)

	setCtx, finishScope, err := s.enterSetScope(ctx, req, rt.Storage())
	if err != nil {
		return nil, err
	}
	defer finishScope()

	if !req.Resume {
		s.publish(setCtx, events.TypeSetRunCreated, req.RunID, "", set.ID)
	}

	results, err := s.dispatch(setCtx, req, rt)
	if err != nil {
		return nil, err
	}

	// All items have joined: flush the mock cache exactly once. Infra
	// failures are logged and swallowed, the run result stands.
	if s.mockCache != nil {
		if err := s.mockCache.Flush(ctx, rt.Storage(), req.RunID); err != nil {
			log.Warnf("flush mock cache for run %s: %v", req.RunID, err)
		}
	}

	aggregate := evalresult.Aggregate(req.RunID, set.ID, results)
	aggregate.ExecutionTime = time.Since(start)
	s.publishWait(setCtx, events.TypeSetRunUpdated, req.RunID, "", aggregate)
	s.callbacks.RunAfterSet(ctx, req, aggregate)
	return aggregate, nil
}

// dispatch fans the items out to a per-run worker pool sized to the item
// count. The admission gate bounds only the agent-invocation phase inside
// each item.
func (s *local) dispatch(ctx context.Context, req *service.ExecuteSetRequest,
	rt runtime.Runtime) ([]*evalresult.RunResult, error) {
	items := req.EvalSet.Items
	pool, err := newItemPool(len(items))
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	workers := s.workers
	if req.EvalSet.BatchSize > 0 {
		workers = req.EvalSet.BatchSize
	}
	gate := semaphore.NewWeighted(int64(workers))

	results := make([]*evalresult.RunResult, len(items))
	wg := &sync.WaitGroup{}
	for idx, item := range items {
		param := itemParamPool.Get().(*itemParam)
		param.idx = idx
		param.ctx = ctx
		param.req = req
		param.item = item
		param.rt = rt
		param.gate = gate
		param.svc = s
		param.results = results
		param.wg = wg
		wg.Add(1)
		if err := pool.Invoke(param); err != nil {
			// Dispatcher-level failure: the run cannot continue.
			wg.Done()
			param.reset()
			itemParamPool.Put(param)
			return nil, fmt.Errorf("schedule item %s: %w", item.ID, err)
		}
	}
	wg.Wait()
	return results, nil
}

// enterSetScope opens the run-level trace scope. On resume the scope is
// re-parented onto the trace persisted by the suspended run; on close the
// current identifiers are persisted under the run-level key.
func (s *local) enterSetScope(ctx context.Context, req *service.ExecuteSetRequest,
	storage runtime.Storage) (context.Context, func(), error) {
	if req.Resume {
		record, err := checkpoint.Load(ctx, storage, req.RunID, checkpoint.RunLevelKey)
		if err != nil {
			return nil, nil, err
		}
		if record != nil {
			if ctx, err = checkpoint.ContextWithParent(ctx, record); err != nil {
				return nil, nil, err
			}
		}
	}
	setCtx, span := s.tracer.Start(ctx, "evaluation.set_run",
		trace.WithAttributes(telemetry.KeyRunID.String(req.RunID)))
	finish := func() {
		sc := span.SpanContext()
		span.End()
		record, err := checkpoint.FromSpanContext(sc)
		if err != nil {
			return
		}
		if err := checkpoint.Save(context.WithoutCancel(ctx), storage, req.RunID,
			checkpoint.RunLevelKey, record); err != nil {
			log.Warnf("save run-level checkpoint for run %s: %v", req.RunID, err)
		}
	}
	return setCtx, finish, nil
}

func (s *local) publish(ctx context.Context, eventType events.Type, runID, itemID string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, &events.Event{Type: eventType, RunID: runID, ItemID: itemID, Payload: payload})
}

func (s *local) publishWait(ctx context.Context, eventType events.Type, runID, itemID string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.PublishWait(ctx, &events.Event{Type: eventType, RunID: runID, ItemID: itemID, Payload: payload})
}

var _ service.Service = (*local)(nil)
