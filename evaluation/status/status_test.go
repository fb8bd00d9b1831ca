//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	cases := []struct {
		in       ExecutionStatus
		expected string
	}{
		{ExecutionStatusUnknown, "unknown"},
		{ExecutionStatusInProgress, "in_progress"},
		{ExecutionStatusSuccessful, "successful"},
		{ExecutionStatusFaulted, "faulted"},
		{ExecutionStatusSuspended, "suspended"},
		{ExecutionStatus(42), "unknown"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, c.in.String())
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, ExecutionStatusUnknown.Terminal())
	assert.False(t, ExecutionStatusInProgress.Terminal())
	assert.True(t, ExecutionStatusSuccessful.Terminal())
	assert.True(t, ExecutionStatusFaulted.Terminal())
	assert.True(t, ExecutionStatusSuspended.Terminal())
}

func TestMerge(t *testing.T) {
	cases := []struct {
		name     string
		in       []ExecutionStatus
		expected ExecutionStatus
	}{
		{
			name:     "empty defaults to successful",
			in:       nil,
			expected: ExecutionStatusSuccessful,
		},
		{
			name:     "all successful",
			in:       []ExecutionStatus{ExecutionStatusSuccessful, ExecutionStatusSuccessful},
			expected: ExecutionStatusSuccessful,
		},
		{
			name:     "fault wins over success",
			in:       []ExecutionStatus{ExecutionStatusSuccessful, ExecutionStatusFaulted},
			expected: ExecutionStatusFaulted,
		},
		{
			name:     "suspension wins over fault",
			in:       []ExecutionStatus{ExecutionStatusFaulted, ExecutionStatusSuspended, ExecutionStatusSuccessful},
			expected: ExecutionStatusSuspended,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, Merge(c.in...))
		})
	}
}
