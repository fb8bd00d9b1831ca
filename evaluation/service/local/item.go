//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package local

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/checkpoint"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/epochtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/events"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/mocks"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/service"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
	"trpc.group/trpc-go/trpc-agent-evals/log"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
	"trpc.group/trpc-go/trpc-agent-evals/telemetry/metric"
)

// processItem drives one evaluation item through its states: resolve the
// mocking context, invoke the agent, detect suspension, run evaluators,
// report. Any failure, including a panic, folds into a faulted zero-score
// report so sibling items are never affected.
func (s *local) processItem(ctx context.Context, req *service.ExecuteSetRequest,
	item *evalset.EvaluationItem, rt runtime.Runtime,
	gate *semaphore.Weighted) (result *evalresult.RunResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("item %s panicked: %v", item.ID, r)
			result = s.faultedResult(item, "", fmt.Errorf("item processing panicked: %v", r))
		}
	}()
	result = s.runItem(ctx, req, item, rt, gate)
	return result
}

// runItem is the per-item state machine body.
func (s *local) runItem(ctx context.Context, req *service.ExecuteSetRequest,
	item *evalset.EvaluationItem, rt runtime.Runtime,
	gate *semaphore.Weighted) *evalresult.RunResult {
	executionID := uuid.NewString()
	s.callbacks.RunBeforeItem(ctx, req, item)

	// Start: resolve input generation and the mocking context, then freeze
	// the inputs. Resumed items keep their persisted inputs: the runtime
	// derives resume data from its stored triggers instead.
	if !req.Resume && item.InputGeneration != nil {
		inputs, err := mocks.GenerateInputs(ctx, s.modelFactory, item.InputGeneration, item.Inputs)
		if err != nil {
			return s.reportFault(ctx, req, item, executionID, fmt.Errorf("generate inputs: %w", err))
		}
		replaced, err := item.WithInputs(inputs)
		if err != nil {
			return s.reportFault(ctx, req, item, executionID, err)
		}
		item = replaced
	}
	var mockContext *mocks.Context
	if item.Mocking != nil {
		var err error
		mockContext, err = mocks.NewContext(item.Mocking, s.modelFactory, s.mockCache)
		if err != nil {
			return s.reportFault(ctx, req, item, executionID, fmt.Errorf("resolve mocking strategy: %w", err))
		}
	}

	// Execution-scoped state is carried by the context, keyed by execution
	// id, and torn down when the item scope closes.
	ctx = telemetry.ContextWithExecutionID(ctx, executionID)
	itemCtx, finishScope, err := s.enterItemScope(ctx, req, item, rt.Storage())
	if err != nil {
		return s.reportFault(ctx, req, item, executionID, err)
	}
	defer finishScope()

	// The run-created event fires at most once per item per run: only when
	// this process starts the execution, never when it resumes one.
	if !req.Resume {
		s.publish(itemCtx, events.TypeRunCreated, req.RunID, item.ID, item)
	}

	// AgentInvoked: only this phase is throttled by the admission gate.
	execution, err := s.invokeAgent(itemCtx, req, item, rt, mockContext, gate)
	if err != nil {
		return s.reportFault(itemCtx, req, item, executionID, err)
	}
	s.drainInto(executionID, execution)

	switch execution.Status {
	case status.ExecutionStatusSuspended:
		// Suspended: attach the triggers and return without invoking any
		// evaluator. The published run status stays "in progress" until a
		// future process resumes the run.
		metric.RecordItem(itemCtx, execution.Status.String())
		result := s.newRunResult(item, executionID, execution)
		s.callbacks.RunAfterItem(ctx, req, result)
		return result
	case status.ExecutionStatusFaulted:
		// Faulted agent: short-circuit to Reported with a zero score per
		// referenced evaluator and the error payload as output.
		metric.RecordItem(itemCtx, execution.Status.String())
		result := s.newRunResult(item, executionID, execution)
		result.EvaluatorResults = faultedEvaluatorResults(item, execution.Error)
		s.publish(itemCtx, events.TypeRunUpdated, req.RunID, item.ID, result)
		s.callbacks.RunAfterItem(ctx, req, result)
		return result
	default:
		// EvaluatorsRun → Reported.
		metric.RecordItem(itemCtx, execution.Status.String())
		result := s.newRunResult(item, executionID, execution)
		result.EvaluatorResults = s.runEvaluators(itemCtx, item, execution)
		s.publish(itemCtx, events.TypeRunUpdated, req.RunID, item.ID, result)
		s.callbacks.RunAfterItem(ctx, req, result)
		return result
	}
}

// invokeAgent runs the agent under the admission gate. Resumed executions
// get no inputs: the runtime reads its persisted triggers instead.
func (s *local) invokeAgent(ctx context.Context, req *service.ExecuteSetRequest,
	item *evalset.EvaluationItem, rt runtime.Runtime, mockContext *mocks.Context,
	gate *semaphore.Weighted) (*runtime.ExecutionResult, error) {
	if err := gate.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("admission gate: %w", err)
	}
	defer gate.Release(1)

	var inputs map[string]any
	if !req.Resume {
		inputs = item.Inputs
	}
	start := time.Now()
	execution, err := rt.Execute(ctx, inputs, runtime.ExecuteOptions{
		Resume: req.Resume,
		Mocks:  mockContext,
	})
	elapsed := time.Since(start)
	metric.RecordAgentDuration(ctx, elapsed.Seconds())
	if err != nil {
		return nil, fmt.Errorf("agent execution: %w", err)
	}
	if execution == nil {
		return nil, fmt.Errorf("agent runtime returned no result")
	}
	if execution.Duration == 0 {
		execution.Duration = elapsed
	}
	return execution, nil
}

// drainInto merges the engine-side spans and logs recorded for the
// execution into the runtime result, clearing the collector.
func (s *local) drainInto(executionID string, execution *runtime.ExecutionResult) {
	if s.collector == nil {
		return
	}
	spans, logs := s.collector.Drain(executionID)
	execution.Spans = append(execution.Spans, spans...)
	execution.Logs = append(execution.Logs, logs...)
}

// enterItemScope opens the item-level trace scope, re-parenting onto the
// persisted trace on resume and persisting the identifiers on close.
func (s *local) enterItemScope(ctx context.Context, req *service.ExecuteSetRequest,
	item *evalset.EvaluationItem, storage runtime.Storage) (context.Context, func(), error) {
	if req.Resume {
		record, err := checkpoint.Load(ctx, storage, req.RunID, item.ID)
		if err != nil {
			return nil, nil, err
		}
		if record != nil {
			if ctx, err = checkpoint.ContextWithParent(ctx, record); err != nil {
				return nil, nil, err
			}
		}
	}
	itemCtx, span := s.tracer.Start(ctx, "evaluation.item",
		trace.WithAttributes(
			telemetry.KeyRunID.String(req.RunID),
			telemetry.KeyItemID.String(item.ID),
		))
	finish := func() {
		sc := span.SpanContext()
		span.End()
		record, err := checkpoint.FromSpanContext(sc)
		if err != nil {
			return
		}
		if err := checkpoint.Save(context.WithoutCancel(ctx), storage, req.RunID,
			item.ID, record); err != nil {
			log.Warnf("save checkpoint for item %s: %v", item.ID, err)
		}
	}
	return itemCtx, finish, nil
}

// runEvaluators invokes every evaluator the item's criteria reference, in
// id order. One evaluator's failure folds into an error-typed result
// without aborting the others.
func (s *local) runEvaluators(ctx context.Context, item *evalset.EvaluationItem,
	execution *runtime.ExecutionResult) []*evalresult.EvalItemResult {
	ids := make([]string, 0, len(item.Criteria))
	for id := range item.Criteria {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]*evalresult.EvalItemResult, 0, len(ids))
	for _, id := range ids {
		result := s.runEvaluator(ctx, id, execution, item.Criteria[id])
		metric.RecordScore(ctx, id, result.NormalizedScore())
		results = append(results, &evalresult.EvalItemResult{EvaluatorID: id, Result: result})
	}
	return results
}

// runEvaluator isolates one evaluator call, converting errors and panics
// into an error-typed result.
func (s *local) runEvaluator(ctx context.Context, id string,
	execution *runtime.ExecutionResult, criterion *evaluator.Criterion) (result *evaluator.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("evaluator %s panicked: %v", id, r)
			result = evaluator.NewErrorResult(fmt.Errorf("evaluator panicked: %v", r))
		}
	}()
	e, err := s.registry.Get(id)
	if err != nil {
		return evaluator.NewErrorResult(err)
	}
	evaluated, err := e.Evaluate(ctx, execution, criterion)
	if err != nil {
		log.Warnf("evaluator %s: %v", id, err)
		return evaluator.NewErrorResult(err)
	}
	return evaluated
}

// newRunResult builds the base report for the item from its execution.
func (s *local) newRunResult(item *evalset.EvaluationItem, executionID string,
	execution *runtime.ExecutionResult) *evalresult.RunResult {
	output := execution.Output
	if execution.Status == status.ExecutionStatusFaulted && execution.Error != nil {
		output = map[string]any{"error": execution.Error.Message}
		if execution.Error.Code != "" {
			output["code"] = execution.Error.Code
		}
	}
	now := epochtime.Now()
	return &evalresult.RunResult{
		ExecutionID:       executionID,
		ItemID:            item.ID,
		ItemName:          item.Name,
		Status:            execution.Status,
		Success:           execution.Status == status.ExecutionStatusSuccessful,
		Output:            output,
		Triggers:          execution.Triggers,
		Spans:             execution.Spans,
		Logs:              execution.Logs,
		ExecutionTime:     execution.Duration,
		CreationTimestamp: &now,
	}
}

// reportFault converts an item-level failure into a faulted zero-score
// report and publishes it.
func (s *local) reportFault(ctx context.Context, req *service.ExecuteSetRequest,
	item *evalset.EvaluationItem, executionID string, err error) *evalresult.RunResult {
	log.Errorf("item %s faulted: %v", item.ID, err)
	metric.RecordItem(ctx, status.ExecutionStatusFaulted.String())
	result := s.faultedResult(item, executionID, err)
	s.publish(ctx, events.TypeRunUpdated, req.RunID, item.ID, result)
	s.callbacks.RunAfterItem(ctx, req, result)
	return result
}

// faultedResult builds a zero-score report for a failure that happened
// outside a completed agent execution.
func (s *local) faultedResult(item *evalset.EvaluationItem, executionID string, err error) *evalresult.RunResult {
	execError := &runtime.ExecutionError{Message: err.Error()}
	now := epochtime.Now()
	return &evalresult.RunResult{
		ExecutionID:       executionID,
		ItemID:            item.ID,
		ItemName:          item.Name,
		Status:            status.ExecutionStatusFaulted,
		Success:           false,
		Output:            map[string]any{"error": execError.Message},
		EvaluatorResults:  faultedEvaluatorResults(item, execError),
		CreationTimestamp: &now,
	}
}

// faultedEvaluatorResults yields a zero score for every evaluator the item
// referenced, carrying the agent's error payload.
func faultedEvaluatorResults(item *evalset.EvaluationItem,
	execError *runtime.ExecutionError) []*evalresult.EvalItemResult {
	ids := make([]string, 0, len(item.Criteria))
	for id := range item.Criteria {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	results := make([]*evalresult.EvalItemResult, 0, len(ids))
	for _, id := range ids {
		var err error
		if execError != nil {
			err = execError
		} else {
			err = fmt.Errorf("agent execution faulted")
		}
		results = append(results, &evalresult.EvalItemResult{
			EvaluatorID: id,
			Result:      evaluator.NewErrorResult(err),
		})
	}
	return results
}
