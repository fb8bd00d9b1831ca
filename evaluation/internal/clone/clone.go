//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package clone provides functions to clone.
package clone

import (
	"encoding/json"
	"errors"
)

// Clone performs a deep copy of src through a JSON round trip. The evaluation
// model is built from JSON-compatible values, so the round trip preserves it.
func Clone[T any](src *T) (*T, error) {
	if src == nil {
		return nil, errors.New("nil input")
	}
	data, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	var dst T
	if err := json.Unmarshal(data, &dst); err != nil {
		return nil, err
	}
	return &dst, nil
}

// Map deep copies a JSON-compatible map. A nil map clones to nil.
func Map(src map[string]any) (map[string]any, error) {
	if src == nil {
		return nil, nil
	}
	data, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	dst := make(map[string]any, len(src))
	if err := json.Unmarshal(data, &dst); err != nil {
		return nil, err
	}
	return dst, nil
}
