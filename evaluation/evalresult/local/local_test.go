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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
)

func TestSaveGetList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m := NewManager(evalresult.WithBaseDir(dir))

	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:     "run-1",
		EvalSetID: "geography",
		RunResults: []*evalresult.RunResult{
			{ItemID: "a", Status: status.ExecutionStatusSuccessful, Success: true},
		},
		Status:  status.ExecutionStatusSuccessful,
		Success: true,
	}))
	assert.FileExists(t, filepath.Join(dir, "run-1.runresult.json"))

	got, err := m.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "geography", got.EvalSetID)
	require.Len(t, got.RunResults, 1)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, ids)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveMergesPerItemReports(t *testing.T) {
	ctx := context.Background()
	m := NewManager(evalresult.WithBaseDir(t.TempDir()))

	// Item reports arrive one save at a time, as the bus delivers them.
	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:      "run-1",
		RunResults: []*evalresult.RunResult{{ItemID: "a", Status: status.ExecutionStatusSuspended}},
	}))
	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:      "run-1",
		RunResults: []*evalresult.RunResult{{ItemID: "b", Status: status.ExecutionStatusSuccessful}},
	}))
	// The resumed report for item a replaces the suspended one.
	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:      "run-1",
		RunResults: []*evalresult.RunResult{{ItemID: "a", Status: status.ExecutionStatusSuccessful}},
	}))

	got, err := m.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got.RunResults, 2)
	assert.Equal(t, "a", got.RunResults[0].ItemID)
	assert.Equal(t, status.ExecutionStatusSuccessful, got.RunResults[0].Status)
	assert.Equal(t, "b", got.RunResults[1].ItemID)
}

func TestSaveValidation(t *testing.T) {
	m := NewManager(evalresult.WithBaseDir(t.TempDir()))
	assert.Error(t, m.Save(context.Background(), nil))
	assert.Error(t, m.Save(context.Background(), &evalresult.SetRunResult{}))
}
