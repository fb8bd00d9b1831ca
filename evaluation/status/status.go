//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package status provides the status of an agent execution and of an
// evaluation run built on top of it.
package status

// ExecutionStatus represents the status of an agent execution.
type ExecutionStatus int

const (
	// ExecutionStatusUnknown represents an unknown execution status.
	ExecutionStatusUnknown ExecutionStatus = iota
	// ExecutionStatusInProgress represents an execution that has started and
	// not yet produced a terminal status.
	ExecutionStatusInProgress
	// ExecutionStatusSuccessful represents a completed execution.
	ExecutionStatusSuccessful
	// ExecutionStatusFaulted represents an execution terminated by an error.
	ExecutionStatusFaulted
	// ExecutionStatusSuspended represents an execution paused on a pending
	// external action, to be resumed by a later process.
	ExecutionStatusSuspended
)

// String returns the string representation of the execution status.
func (s ExecutionStatus) String() string {
	switch s {
	case ExecutionStatusInProgress:
		return "in_progress"
	case ExecutionStatusSuccessful:
		return "successful"
	case ExecutionStatusFaulted:
		return "faulted"
	case ExecutionStatusSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status ends the execution for this run.
// Suspended is terminal for the current run even though a later process
// may resume it.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case ExecutionStatusSuccessful, ExecutionStatusFaulted, ExecutionStatusSuspended:
		return true
	default:
		return false
	}
}

// Merge combines item statuses into the overall run status with priority
// Suspended > Faulted > Successful. A suspended item keeps the whole run
// open even when sibling items faulted.
func Merge(statuses ...ExecutionStatus) ExecutionStatus {
	merged := ExecutionStatusSuccessful
	for _, s := range statuses {
		switch s {
		case ExecutionStatusSuspended:
			return ExecutionStatusSuspended
		case ExecutionStatusFaulted:
			merged = ExecutionStatusFaulted
		}
	}
	return merged
}
