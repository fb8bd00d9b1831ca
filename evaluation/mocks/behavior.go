//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package mocks

import (
	"context"
	"encoding/json"
	"fmt"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/internal/toolname"
)

// behaviorMocker answers intercepted calls from the declared behavior list,
// first match wins.
type behaviorMocker struct {
	strategy *BehaviorStrategy
}

func (m *behaviorMocker) simulated(name string) bool {
	for _, behavior := range m.strategy.Behaviors {
		if toolname.Equal(behavior.Function, name) {
			return true
		}
	}
	return false
}

func (m *behaviorMocker) response(ctx context.Context, call Call) (any, error) {
	_ = ctx
	for _, behavior := range m.strategy.Behaviors {
		if !toolname.Equal(behavior.Function, call.Function) {
			continue
		}
		if !argumentsMatch(call.Arguments, behavior.Arguments) {
			continue
		}
		if behavior.ThenError != "" {
			return nil, fmt.Errorf("mocked error for %s: %s", call.Function, behavior.ThenError)
		}
		return behavior.Then, nil
	}
	return nil, fmt.Errorf("%w: no behavior matches call to %q", ErrNoMockFound, call.Function)
}

// argumentsMatch checks that every declared argument value appears in the
// intercepted call. Keys absent from the declaration match anything.
func argumentsMatch(actual, declared map[string]any) bool {
	for key, declaredValue := range declared {
		actualValue, ok := actual[key]
		if !ok {
			return false
		}
		declaredJSON, err := json.Marshal(declaredValue)
		if err != nil {
			return false
		}
		actualJSON, err := json.Marshal(actualValue)
		if err != nil {
			return false
		}
		if string(declaredJSON) != string(actualJSON) {
			return false
		}
	}
	return true
}
