//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package evaluator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBooleanResult(t *testing.T) {
	pass := NewBooleanResult(true, "")
	assert.Equal(t, 1.0, pass.Score)
	assert.Equal(t, ScoreTypeBoolean, pass.ScoreType)

	fail := NewBooleanResult(false, "mismatch")
	assert.Equal(t, 0.0, fail.Score)
	assert.Equal(t, "mismatch", fail.Details)
}

func TestNewErrorResult(t *testing.T) {
	result := NewErrorResult(errors.New("judge unavailable"))
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, ScoreTypeError, result.ScoreType)
	assert.Equal(t, "judge unavailable", result.Details)

	assert.Empty(t, NewErrorResult(nil).Details)
}

func TestNormalizedScore(t *testing.T) {
	cases := []struct {
		name     string
		result   *Result
		expected float64
	}{
		{"nil result", nil, 0},
		{"error result scores zero", &Result{Score: 0.8, ScoreType: ScoreTypeError}, 0},
		{"in range", &Result{Score: 0.5, ScoreType: ScoreTypeNumerical}, 0.5},
		{"clamped above", &Result{Score: 1.5, ScoreType: ScoreTypeNumerical}, 1},
		{"clamped below", &Result{Score: -0.2, ScoreType: ScoreTypeNumerical}, 0},
		{"boolean pass", &Result{Score: 1, ScoreType: ScoreTypeBoolean}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, c.result.NormalizedScore())
		})
	}
}
