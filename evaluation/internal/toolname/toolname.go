//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package toolname normalizes tool names so declarations and recorded calls
// compare equal when they only differ in separator style or case.
package toolname

import "strings"

// Normalize lowercases the name and treats underscores and spaces as
// equivalent separators.
func Normalize(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return strings.ReplaceAll(name, " ", "_")
}

// Equal reports whether two tool names refer to the same tool.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
