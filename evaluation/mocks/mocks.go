//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package mocks substitutes deterministic canned responses for the external
// calls an agent makes during evaluation, so runs are repeatable and cheap.
// A per-execution Context decides for each intercepted call whether to
// answer it; a run-scoped Cache deduplicates synthesized answers.
package mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/internal/toolname"
	"trpc.group/trpc-go/trpc-agent-evals/model"
)

// ErrNoMockFound is returned when the active strategy declares no answer
// for the intercepted call.
var ErrNoMockFound = errors.New("no mock found for call")

// Call is one intercepted external call.
type Call struct {
	// Function is the called tool or completion name.
	Function string `json:"function"`
	// Arguments are the call arguments.
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Signature returns the normalized call signature used as cache key: the
// normalized function name plus the arguments rendered with sorted keys.
func (c Call) Signature() string {
	var b strings.Builder
	b.WriteString(toolname.Normalize(c.Function))
	b.WriteByte('(')
	keys := make([]string, 0, len(c.Arguments))
	for key := range c.Arguments {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		value, err := json.Marshal(c.Arguments[key])
		if err != nil {
			value = []byte(fmt.Sprintf("%v", c.Arguments[key]))
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.Write(value)
	}
	b.WriteByte(')')
	return b.String()
}

// mocker produces a mocked response for an intercepted call.
type mocker interface {
	// response computes the mocked value for the call.
	response(ctx context.Context, call Call) (any, error)
	// simulated reports whether the tool is intercepted at all.
	simulated(name string) bool
}

// Context is the per-execution mocking context. It is resolved once per
// item at execution start and never shared between items; the cache it
// holds may be shared across items of one run.
type Context struct {
	mocker mocker
	cache  *Cache
}

// NewContext resolves the strategy into a mocking context. The model
// factory is only required for LLM strategies; cache may be nil to disable
// response caching.
func NewContext(strategy *Strategy, factory model.Factory, cache *Cache) (*Context, error) {
	if err := strategy.Validate(); err != nil {
		return nil, err
	}
	var m mocker
	switch {
	case strategy.Behavior != nil:
		m = &behaviorMocker{strategy: strategy.Behavior}
	case strategy.LLM != nil:
		if factory == nil {
			return nil, errors.New("llm mocking strategy requires a model factory")
		}
		m = &llmMocker{strategy: strategy.LLM, factory: factory}
	}
	return &Context{mocker: m, cache: cache}, nil
}

// Simulated reports whether the tool is intercepted by the active strategy.
// It is a pure query: the agent runtime uses it to decide whether to call
// Response at all.
func (c *Context) Simulated(name string) bool {
	if c == nil {
		return false
	}
	return c.mocker.simulated(name)
}

// Response returns the mocked value for the call, computing it at most once
// per run for a given call signature when caching is enabled.
func (c *Context) Response(ctx context.Context, call Call) (any, error) {
	if !c.Simulated(call.Function) {
		return nil, fmt.Errorf("%w: tool %q is not simulated", ErrNoMockFound, call.Function)
	}
	signature := call.Signature()
	if c.cache != nil {
		if value, ok := c.cache.get(signature); ok {
			return value, nil
		}
	}
	value, err := c.mocker.response(ctx, call)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.put(signature, value)
	}
	return value, nil
}
