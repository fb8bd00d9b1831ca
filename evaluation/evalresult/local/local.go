//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package local provides a local file storage implementation for evaluation
// run results. Save is a read-modify-write critical section under a mutex:
// the current file is read, the new per-item reports are merged in, and the
// whole document is written back, so concurrent items never interleave a
// partial write.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
)

// resultFileSuffix is the suffix of persisted run result files.
const resultFileSuffix = ".runresult.json"

// manager implements the evalresult.Manager interface using local files.
type manager struct {
	baseDir string
	mu      sync.Mutex
}

// NewManager creates a new local file evaluation result manager.
// Use functional options to override the default directory.
func NewManager(opt ...evalresult.Option) evalresult.Manager {
	opts := evalresult.NewOptions(opt...)
	return &manager{baseDir: opts.BaseDir}
}

// Save stores the set run result, merging its per-item reports into any
// previously saved result for the same run id.
func (m *manager) Save(ctx context.Context, result *evalresult.SetRunResult) error {
	_ = ctx
	if result == nil {
		return errors.New("result is nil")
	}
	if result.RunID == "" {
		return errors.New("run id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, err := m.load(result.RunID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	merged := result
	if existing != nil {
		merged = &evalresult.SetRunResult{}
		*merged = *result
		merged.RunResults = evalresult.MergeRunResults(existing.RunResults, result.RunResults)
	}
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return err
	}
	path := m.resultPath(result.RunID)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(merged); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Get retrieves a set run result by run id.
func (m *manager) Get(ctx context.Context, runID string) (*evalresult.SetRunResult, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(runID)
}

// List returns all available run ids.
func (m *manager) List(ctx context.Context) ([]string, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	var runIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), resultFileSuffix) {
			runIDs = append(runIDs, strings.TrimSuffix(entry.Name(), resultFileSuffix))
		}
	}
	return runIDs, nil
}

func (m *manager) resultPath(runID string) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("%s%s", runID, resultFileSuffix))
}

func (m *manager) load(runID string) (*evalresult.SetRunResult, error) {
	f, err := os.Open(m.resultPath(runID))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var result evalresult.SetRunResult
	if err := json.NewDecoder(f).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
