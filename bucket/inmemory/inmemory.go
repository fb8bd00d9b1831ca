//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory implementation of bucket.Service,
// used in tests and local runs.
package inmemory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"trpc.group/trpc-go/trpc-agent-evals/bucket"
)

// service implements bucket.Service with an in-process map.
type service struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates an empty in-memory bucket.
func New() bucket.Service {
	return &service{objects: make(map[string][]byte)}
}

// Put stores data under the object name.
func (s *service) Put(ctx context.Context, name string, data []byte) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[name] = copied
	return nil
}

// Get returns the object stored under name.
func (s *service) Get(ctx context.Context, name string) ([]byte, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("get object %s: %w", name, os.ErrNotExist)
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// List returns the object names with the given prefix, sorted.
func (s *service) List(ctx context.Context, prefix string) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for name := range s.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
