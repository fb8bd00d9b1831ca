//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory implementation of
// evalresult.Manager, used in tests and as the default manager.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/internal/clone"
)

// manager implements evalresult.Manager with an in-process map.
type manager struct {
	mu      sync.RWMutex
	results map[string]*evalresult.SetRunResult
}

// New creates an empty in-memory result manager.
func New() evalresult.Manager {
	return &manager{results: make(map[string]*evalresult.SetRunResult)}
}

// Save stores the set run result, merging per-item reports into any
// previously saved result for the same run id.
func (m *manager) Save(ctx context.Context, result *evalresult.SetRunResult) error {
	_ = ctx
	if result == nil {
		return errors.New("result is nil")
	}
	if result.RunID == "" {
		return errors.New("run id is empty")
	}
	copied, err := clone.Clone(result)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.results[result.RunID]; ok {
		copied.RunResults = evalresult.MergeRunResults(existing.RunResults, copied.RunResults)
	}
	m.results[result.RunID] = copied
	return nil
}

// Get retrieves a deep copy of a set run result by run id.
func (m *manager) Get(ctx context.Context, runID string) (*evalresult.SetRunResult, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	result, ok := m.results[runID]
	if !ok {
		return nil, fmt.Errorf("get run result %s: %w", runID, os.ErrNotExist)
	}
	return clone.Clone(result)
}

// List returns all available run ids sorted lexicographically.
func (m *manager) List(ctx context.Context) ([]string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	runIDs := make([]string, 0, len(m.results))
	for runID := range m.results {
		runIDs = append(runIDs, runID)
	}
	sort.Strings(runIDs)
	return runIDs, nil
}
