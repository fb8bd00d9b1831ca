//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package bucket defines the object-storage boundary used to archive run
// attachments: the engine writes the final run report there when archiving
// is configured, and hosts fetch it back by name.
package bucket

import "context"

// Service stores named run attachments.
type Service interface {
	// Put stores data under the object name, replacing any previous object.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the object stored under name, or an
	// os.ErrNotExist-wrapped error when absent.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns the object names with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
