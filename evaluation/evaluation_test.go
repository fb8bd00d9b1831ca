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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evals/bucket/inmemory"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	resultinmemory "trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult/inmemory"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	setinmemory "trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset/inmemory"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/events"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/service"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
)

type engineStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func (s *engineStorage) GetValue(_ context.Context, runID, namespace, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[runID+"/"+namespace+"/"+key]
	if !ok {
		return nil, fmt.Errorf("value not found: %w", os.ErrNotExist)
	}
	return value, nil
}

func (s *engineStorage) SetValue(_ context.Context, runID, namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[runID+"/"+namespace+"/"+key] = value
	return nil
}

type engineRuntime struct {
	storage *engineStorage
	execute func(ctx context.Context, input map[string]any, opts runtime.ExecuteOptions) (*runtime.ExecutionResult, error)
}

func (r *engineRuntime) Execute(ctx context.Context, input map[string]any,
	opts runtime.ExecuteOptions) (*runtime.ExecutionResult, error) {
	return r.execute(ctx, input, opts)
}

func (r *engineRuntime) Storage() runtime.Storage { return r.storage }

type engineFactory struct {
	rt *engineRuntime
}

func (f *engineFactory) NewRuntime(_ context.Context, _, _ string) (runtime.Runtime, error) {
	return f.rt, nil
}

func echoFactory(answer string) *engineFactory {
	return &engineFactory{rt: &engineRuntime{
		storage: &engineStorage{values: map[string][]byte{}},
		execute: func(context.Context, map[string]any,
			runtime.ExecuteOptions) (*runtime.ExecutionResult, error) {
			return &runtime.ExecutionResult{
				Output: map[string]any{"answer": answer},
				Status: status.ExecutionStatusSuccessful,
			}, nil
		},
	}}
}

func exactConfig(id string) *evaluator.Config {
	return &evaluator.Config{
		ID:       id,
		Category: evaluator.CategoryDeterministic,
		Type:     evaluator.TypeExactMatch,
	}
}

func seededSetManager(t *testing.T, set *evalset.EvalSet) evalset.Manager {
	t.Helper()
	manager := setinmemory.New()
	require.NoError(t, setinmemory.Put(manager, set))
	return manager
}

func geographySet() *evalset.EvalSet {
	criterion := func(answer string) map[string]*evaluator.Criterion {
		return map[string]*evaluator.Criterion{
			"exact": {
				ExpectedOutput: map[string]any{"answer": answer},
				OutputKey:      "answer",
			},
		}
	}
	return &evalset.EvalSet{
		ID:            "geography",
		EvaluatorRefs: []string{"exact"},
		Items: []*evalset.EvaluationItem{
			{
				ID:       "capital-france",
				Inputs:   map[string]any{"question": "Capital of France?"},
				Criteria: criterion("Paris"),
			},
			{
				ID:       "capital-japan",
				Inputs:   map[string]any{"question": "Capital of Japan?"},
				Criteria: criterion("Tokyo"),
			},
		},
	}
}

func TestNewValidatesConfiguration(t *testing.T) {
	factory := echoFactory("Paris")

	_, err := New(nil, WithEvalSetID("geography"))
	assert.Error(t, err)

	_, err = New(factory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eval set id")

	_, err = New(factory, WithEvalSetID("geography"), WithResume(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run id")

	// Evaluator misconfiguration fails at construction, before any run.
	_, err = New(factory,
		WithEvalSetID("geography"),
		WithEvaluatorConfigs(&evaluator.Config{
			ID:       "bogus",
			Category: evaluator.CategoryDeterministic,
			Type:     "no_such_type",
		}),
	)
	assert.Error(t, err)
}

func TestExecutePersistsResults(t *testing.T) {
	results := resultinmemory.New()
	engine, err := New(echoFactory("Paris"),
		WithEvalSetID("geography"),
		WithRunID("run-geo"),
		WithEvaluatorConfigs(exactConfig("exact")),
		WithSetManager(seededSetManager(t, geographySet())),
		WithResultManager(results),
	)
	require.NoError(t, err)

	outcome, err := engine.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.ExecutionStatusSuccessful, outcome.Status)
	assert.Empty(t, outcome.Triggers)
	require.NotNil(t, outcome.Output)
	assert.Equal(t, "run-geo", outcome.Output.RunID)
	require.Len(t, outcome.Output.RunResults, 2)
	// "Paris" answers both questions, so exactly one item matches.
	assert.InDelta(t, 0.5, outcome.Output.AverageScores["exact"], 1e-9)

	// The result-writer subscriber persisted the run through the manager.
	stored, err := results.Get(context.Background(), "run-geo")
	require.NoError(t, err)
	assert.Equal(t, "geography", stored.EvalSetID)
	assert.Len(t, stored.RunResults, 2)
	assert.Equal(t, outcome.Output.Status, stored.Status)
}

func TestExecuteNarrowsToRequestedItems(t *testing.T) {
	engine, err := New(echoFactory("Tokyo"),
		WithEvalSetID("geography"),
		WithItemIDs("capital-japan"),
		WithEvaluatorConfigs(exactConfig("exact")),
		WithSetManager(seededSetManager(t, geographySet())),
	)
	require.NoError(t, err)

	outcome, err := engine.Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, outcome.Output.RunResults, 1)
	assert.Equal(t, "capital-japan", outcome.Output.RunResults[0].ItemID)
	assert.True(t, outcome.Output.Success)
}

func TestExecuteRejectsUnknownEvaluatorRef(t *testing.T) {
	set := geographySet()
	set.EvaluatorRefs = append(set.EvaluatorRefs, "nonexistent")
	engine, err := New(echoFactory("Paris"),
		WithEvalSetID("geography"),
		WithEvaluatorConfigs(exactConfig("exact")),
		WithSetManager(seededSetManager(t, set)),
	)
	require.NoError(t, err)

	_, err = engine.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestExecuteMissingSet(t *testing.T) {
	engine, err := New(echoFactory("Paris"),
		WithEvalSetID("missing"),
		WithEvaluatorConfigs(exactConfig("exact")),
	)
	require.NoError(t, err)

	_, err = engine.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExecuteSuspendedRun(t *testing.T) {
	trigger := &runtime.Trigger{ID: "approval-1", Type: "approval", ItemID: "capital-france"}
	factory := &engineFactory{rt: &engineRuntime{
		storage: &engineStorage{values: map[string][]byte{}},
		execute: func(context.Context, map[string]any,
			runtime.ExecuteOptions) (*runtime.ExecutionResult, error) {
			return &runtime.ExecutionResult{
				Status:   status.ExecutionStatusSuspended,
				Triggers: []*runtime.Trigger{trigger},
			}, nil
		},
	}}
	engine, err := New(factory,
		WithEvalSetID("geography"),
		WithItemIDs("capital-france"),
		WithEvaluatorConfigs(exactConfig("exact")),
		WithSetManager(seededSetManager(t, geographySet())),
	)
	require.NoError(t, err)

	outcome, err := engine.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.ExecutionStatusSuspended, outcome.Status)
	require.Len(t, outcome.Triggers, 1)
	assert.Equal(t, "approval-1", outcome.Triggers[0].ID)
	assert.Empty(t, outcome.Output.RunResults[0].EvaluatorResults)
}

func TestExecuteNotifiesSubscribers(t *testing.T) {
	var mu sync.Mutex
	counts := map[events.Type]int{}
	engine, err := New(echoFactory("Paris"),
		WithEvalSetID("geography"),
		WithEvaluatorConfigs(exactConfig("exact")),
		WithSetManager(seededSetManager(t, geographySet())),
		WithSubscriber("counter", func(_ context.Context, event *events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			counts[event.Type]++
			return nil
		}),
	)
	require.NoError(t, err)

	_, err = engine.Execute(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, counts[events.TypeSetRunCreated])
	assert.Equal(t, 2, counts[events.TypeRunCreated])
	assert.Equal(t, 2, counts[events.TypeRunUpdated])
	assert.Equal(t, 1, counts[events.TypeSetRunUpdated])
}

func TestExecuteArchivesRunResult(t *testing.T) {
	archive := inmemory.New()
	engine, err := New(echoFactory("Paris"),
		WithEvalSetID("geography"),
		WithRunID("run-geo"),
		WithEvaluatorConfigs(exactConfig("exact")),
		WithSetManager(seededSetManager(t, geographySet())),
		WithBucket(archive, "evals/archive"),
	)
	require.NoError(t, err)

	_, err = engine.Execute(context.Background())
	require.NoError(t, err)

	data, err := archive.Get(context.Background(), "evals/archive/run-geo.runresult.json")
	require.NoError(t, err)
	var stored evalresult.SetRunResult
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, "run-geo", stored.RunID)
	assert.Len(t, stored.RunResults, 2)
}

func TestExecuteWithServiceOverride(t *testing.T) {
	override := &stubService{result: &evalresult.SetRunResult{
		RunID:   "run-geo",
		Status:  status.ExecutionStatusSuccessful,
		Success: true,
	}}
	engine, err := New(echoFactory("Paris"),
		WithEvalSetID("geography"),
		WithRunID("run-geo"),
		WithEvaluatorConfigs(exactConfig("exact")),
		WithSetManager(seededSetManager(t, geographySet())),
		WithService(override),
	)
	require.NoError(t, err)

	outcome, err := engine.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, override.executed)
	assert.True(t, override.closed)
	assert.Equal(t, "run-geo", outcome.Output.RunID)
}

type stubService struct {
	result   *evalresult.SetRunResult
	executed bool
	closed   bool
}

func (s *stubService) ExecuteSet(_ context.Context,
	_ *service.ExecuteSetRequest) (*evalresult.SetRunResult, error) {
	s.executed = true
	return s.result, nil
}

func (s *stubService) Close() error {
	s.closed = true
	return nil
}
