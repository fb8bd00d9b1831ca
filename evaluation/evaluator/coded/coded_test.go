//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package coded

import (
	"context"
	"errors"
	"plugin"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evaluator"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
)

type fakeEvaluator struct {
	id string
}

func (e *fakeEvaluator) ID() string { return e.id }

func (e *fakeEvaluator) Description() string { return "always passes" }

func (e *fakeEvaluator) Evaluate(context.Context, *runtime.ExecutionResult,
	*evaluator.Criterion) (*evaluator.Result, error) {
	return evaluator.NewBooleanResult(true, ""), nil
}

type fakeLookup struct {
	symbols map[string]plugin.Symbol
}

func (l *fakeLookup) Lookup(symbol string) (plugin.Symbol, error) {
	s, ok := l.symbols[symbol]
	if !ok {
		return nil, errors.New("symbol not found")
	}
	return s, nil
}

func withOpener(t *testing.T, open opener) {
	t.Helper()
	previous := openPlugin
	openPlugin = open
	t.Cleanup(func() { openPlugin = previous })
}

func TestLoad(t *testing.T) {
	withOpener(t, func(string) (lookup, error) {
		return &fakeLookup{symbols: map[string]plugin.Symbol{
			SymbolName: Constructor(func(id string) (evaluator.Evaluator, error) {
				return &fakeEvaluator{id: id}, nil
			}),
		}}, nil
	})

	e, err := Load("custom", "/opt/evals/custom.so")
	require.NoError(t, err)
	require.IsType(t, &fakeEvaluator{}, e)
	assert.Equal(t, "custom", e.(*fakeEvaluator).id)
}

func TestLoadErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := Load("custom", "")
		assert.Error(t, err)
	})

	t.Run("open failure", func(t *testing.T) {
		withOpener(t, func(string) (lookup, error) {
			return nil, errors.New("no such file")
		})
		_, err := Load("custom", "/missing.so")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/missing.so")
	})

	t.Run("missing symbol", func(t *testing.T) {
		withOpener(t, func(string) (lookup, error) {
			return &fakeLookup{symbols: map[string]plugin.Symbol{}}, nil
		})
		_, err := Load("custom", "/custom.so")
		require.Error(t, err)
		assert.Contains(t, err.Error(), SymbolName)
	})

	t.Run("wrong symbol type", func(t *testing.T) {
		withOpener(t, func(string) (lookup, error) {
			return &fakeLookup{symbols: map[string]plugin.Symbol{
				SymbolName: func() {},
			}}, nil
		})
		_, err := Load("custom", "/custom.so")
		assert.Error(t, err)
	})

	t.Run("constructor error", func(t *testing.T) {
		withOpener(t, func(string) (lookup, error) {
			return &fakeLookup{symbols: map[string]plugin.Symbol{
				SymbolName: Constructor(func(string) (evaluator.Evaluator, error) {
					return nil, errors.New("bad config")
				}),
			}}, nil
		})
		_, err := Load("custom", "/custom.so")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad config")
	})

	t.Run("nil evaluator", func(t *testing.T) {
		withOpener(t, func(string) (lookup, error) {
			return &fakeLookup{symbols: map[string]plugin.Symbol{
				SymbolName: Constructor(func(string) (evaluator.Evaluator, error) {
					return nil, nil
				}),
			}}, nil
		})
		_, err := Load("custom", "/custom.so")
		assert.Error(t, err)
	})
}
