//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package evalset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Definition file suffixes accepted by the local manager.
var evalSetFileSuffixes = []string{".evalset.json", ".evalset.yaml", ".evalset.yml"}

// defaultEvalSetFileSuffix is the suffix used for newly created eval sets.
const defaultEvalSetFileSuffix = ".evalset.json"

// Locator provides Build, Locate and List methods for eval set files.
type Locator interface {
	// Build builds the path where a new eval set file is created.
	Build(baseDir, evalSetID string) string
	// Locate finds the existing eval set file for evalSetID anywhere under
	// baseDir. Returns os.ErrNotExist-wrapped error when absent.
	Locate(baseDir, evalSetID string) (string, error)
	// List lists all eval set IDs found under baseDir.
	List(baseDir string) ([]string, error)
}

// locator is the default Locator implementation. Discovery is recursive:
// definitions may be organized in subdirectories.
type locator struct {
}

// Build builds the path of a new eval set file.
func (l *locator) Build(baseDir, evalSetID string) string {
	return filepath.Join(baseDir, evalSetID+defaultEvalSetFileSuffix)
}

// Locate finds the eval set file for evalSetID under baseDir.
func (l *locator) Locate(baseDir, evalSetID string) (string, error) {
	for _, suffix := range evalSetFileSuffixes {
		pattern := filepath.Join(baseDir, "**", evalSetID+suffix)
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return "", fmt.Errorf("glob eval set files: %w", err)
		}
		if len(matches) > 0 {
			sort.Strings(matches)
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("locate eval set %s: %w", evalSetID, os.ErrNotExist)
}

// List lists all eval set IDs found under baseDir.
func (l *locator) List(baseDir string) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, suffix := range evalSetFileSuffixes {
		pattern := filepath.Join(baseDir, "**", "*"+suffix)
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob eval set files: %w", err)
		}
		for _, match := range matches {
			id := strings.TrimSuffix(filepath.Base(match), suffix)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
