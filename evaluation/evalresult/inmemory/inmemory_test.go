//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package inmemory

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
)

func itemReport(itemID string, success bool) *evalresult.RunResult {
	s := status.ExecutionStatusSuccessful
	if !success {
		s = status.ExecutionStatusFaulted
	}
	return &evalresult.RunResult{ItemID: itemID, Status: s, Success: success}
}

func TestSaveGet(t *testing.T) {
	m := New()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:      "run-1",
		EvalSetID:  "geography",
		RunResults: []*evalresult.RunResult{itemReport("a", true)},
		Status:     status.ExecutionStatusSuccessful,
		Success:    true,
	}))

	got, err := m.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "geography", got.EvalSetID)
	require.Len(t, got.RunResults, 1)

	// Reads are isolated copies.
	got.RunResults[0].ItemID = "mutated"
	again, err := m.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.RunResults[0].ItemID)
}

func TestSaveMergesItemReports(t *testing.T) {
	m := New()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:      "run-1",
		RunResults: []*evalresult.RunResult{itemReport("a", false)},
	}))
	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:      "run-1",
		RunResults: []*evalresult.RunResult{itemReport("b", true)},
	}))
	// Resuming item "a" replaces its report in place.
	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{
		RunID:      "run-1",
		RunResults: []*evalresult.RunResult{itemReport("a", true)},
	}))

	got, err := m.Get(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got.RunResults, 2)
	assert.Equal(t, "a", got.RunResults[0].ItemID)
	assert.True(t, got.RunResults[0].Success)
	assert.Equal(t, "b", got.RunResults[1].ItemID)
}

func TestGetMissing(t *testing.T) {
	m := New()
	_, err := m.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestList(t *testing.T) {
	m := New()
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{RunID: "run-b"}))
	require.NoError(t, m.Save(ctx, &evalresult.SetRunResult{RunID: "run-a"}))

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, ids)
}

func TestSaveValidation(t *testing.T) {
	m := New()
	assert.Error(t, m.Save(context.Background(), nil))
	assert.Error(t, m.Save(context.Background(), &evalresult.SetRunResult{}))
}
