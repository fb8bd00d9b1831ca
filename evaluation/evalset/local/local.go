//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package local provides a file-backed implementation of evalset.Manager.
// Definitions are JSON or YAML files discovered recursively under the base
// directory.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
)

// manager implements the evalset.Manager interface using local files.
type manager struct {
	baseDir string
	locator evalset.Locator
	mu      sync.Mutex
}

// NewManager creates a new local file evaluation set manager.
// Use functional options to override the default directory.
func NewManager(opt ...evalset.Option) evalset.Manager {
	opts := evalset.NewOptions(opt...)
	return &manager{baseDir: opts.BaseDir, locator: opts.Locator}
}

// Get returns the EvalSet identified by evalSetID.
func (m *manager) Get(ctx context.Context, evalSetID string) (*evalset.EvalSet, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	_, set, err := m.load(evalSetID)
	return set, err
}

// Create creates and persists an empty EvalSet given the evalSetID.
func (m *manager) Create(ctx context.Context, evalSetID string) (*evalset.EvalSet, error) {
	_ = ctx
	if evalSetID == "" {
		return nil, errors.New("eval set id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, _, err := m.load(evalSetID); err == nil {
		return nil, fmt.Errorf("eval set %s already exists", evalSetID)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	set := &evalset.EvalSet{
		ID:                evalSetID,
		Items:             []*evalset.EvaluationItem{},
		CreationTimestamp: time.Now().UTC(),
	}
	if err := m.save(m.locator.Build(m.baseDir, evalSetID), set); err != nil {
		return nil, err
	}
	return set, nil
}

// AddItem adds the given item to an existing EvalSet.
func (m *manager) AddItem(ctx context.Context, evalSetID string, item *evalset.EvaluationItem) error {
	_ = ctx
	if item == nil || item.ID == "" {
		return errors.New("item has no id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path, set, err := m.load(evalSetID)
	if err != nil {
		return err
	}
	for _, existing := range set.Items {
		if existing.ID == item.ID {
			return fmt.Errorf("eval set %s already has item %s", evalSetID, item.ID)
		}
	}
	set.Items = append(set.Items, item)
	return m.save(path, set)
}

// DeleteItem deletes the item identified by evalSetID and itemID.
func (m *manager) DeleteItem(ctx context.Context, evalSetID, itemID string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	path, set, err := m.load(evalSetID)
	if err != nil {
		return err
	}
	for i, item := range set.Items {
		if item.ID == itemID {
			set.Items = append(set.Items[:i], set.Items[i+1:]...)
			return m.save(path, set)
		}
	}
	return fmt.Errorf("delete item %s: %w", itemID, os.ErrNotExist)
}

// List returns all available eval set ids.
func (m *manager) List(ctx context.Context) ([]string, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locator.List(m.baseDir)
}

func (m *manager) load(evalSetID string) (string, *evalset.EvalSet, error) {
	path, err := m.locator.Locate(m.baseDir, evalSetID)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read eval set file %s: %w", path, err)
	}
	// YAML definitions pass through a JSON round trip so the json field
	// tags stay authoritative for both formats.
	if isYAML(path) {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return "", nil, fmt.Errorf("decode eval set file %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return "", nil, fmt.Errorf("decode eval set file %s: %w", path, err)
		}
	}
	set := &evalset.EvalSet{}
	if err := json.Unmarshal(data, set); err != nil {
		return "", nil, fmt.Errorf("decode eval set file %s: %w", path, err)
	}
	return path, set, nil
}

func (m *manager) save(path string, set *evalset.EvalSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encode eval set %s: %w", set.ID, err)
	}
	if isYAML(path) {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("encode eval set %s: %w", set.ID, err)
		}
		if data, err = yaml.Marshal(doc); err != nil {
			return fmt.Errorf("encode eval set %s: %w", set.ID, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func isYAML(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
