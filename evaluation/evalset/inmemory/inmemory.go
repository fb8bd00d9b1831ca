//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory implementation of evalset.Manager,
// used in tests and as the default manager.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/internal/clone"
)

// manager implements evalset.Manager with an in-process map.
type manager struct {
	mu   sync.RWMutex
	sets map[string]*evalset.EvalSet
}

// New creates an empty in-memory eval set manager.
func New() evalset.Manager {
	return &manager{sets: make(map[string]*evalset.EvalSet)}
}

// Get returns a deep copy of the EvalSet identified by evalSetID.
func (m *manager) Get(ctx context.Context, evalSetID string) (*evalset.EvalSet, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	set, ok := m.sets[evalSetID]
	if !ok {
		return nil, fmt.Errorf("get eval set %s: %w", evalSetID, os.ErrNotExist)
	}
	return clone.Clone(set)
}

// Create creates and returns an empty EvalSet given the evalSetID.
func (m *manager) Create(ctx context.Context, evalSetID string) (*evalset.EvalSet, error) {
	_ = ctx
	if evalSetID == "" {
		return nil, errors.New("eval set id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sets[evalSetID]; ok {
		return nil, fmt.Errorf("eval set %s already exists", evalSetID)
	}
	set := &evalset.EvalSet{
		ID:                evalSetID,
		Items:             []*evalset.EvaluationItem{},
		CreationTimestamp: time.Now().UTC(),
	}
	m.sets[evalSetID] = set
	return clone.Clone(set)
}

// Put stores a complete EvalSet, replacing any existing one with the same
// id. Convenient for seeding tests.
func Put(m evalset.Manager, set *evalset.EvalSet) error {
	im, ok := m.(*manager)
	if !ok {
		return errors.New("manager is not the in-memory implementation")
	}
	if set == nil || set.ID == "" {
		return errors.New("eval set has no id")
	}
	copied, err := clone.Clone(set)
	if err != nil {
		return err
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.sets[set.ID] = copied
	return nil
}

// AddItem adds the given item to an existing EvalSet.
func (m *manager) AddItem(ctx context.Context, evalSetID string, item *evalset.EvaluationItem) error {
	_ = ctx
	if item == nil || item.ID == "" {
		return errors.New("item has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[evalSetID]
	if !ok {
		return fmt.Errorf("get eval set %s: %w", evalSetID, os.ErrNotExist)
	}
	for _, existing := range set.Items {
		if existing.ID == item.ID {
			return fmt.Errorf("eval set %s already has item %s", evalSetID, item.ID)
		}
	}
	copied, err := clone.Clone(item)
	if err != nil {
		return err
	}
	set.Items = append(set.Items, copied)
	return nil
}

// DeleteItem deletes the item identified by evalSetID and itemID.
func (m *manager) DeleteItem(ctx context.Context, evalSetID, itemID string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[evalSetID]
	if !ok {
		return fmt.Errorf("get eval set %s: %w", evalSetID, os.ErrNotExist)
	}
	for i, item := range set.Items {
		if item.ID == itemID {
			set.Items = append(set.Items[:i], set.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete item %s: %w", itemID, os.ErrNotExist)
}

// List returns all available eval set ids sorted lexicographically.
func (m *manager) List(ctx context.Context) ([]string, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sets))
	for id := range m.sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
