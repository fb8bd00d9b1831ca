//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package evaluator

// Category groups evaluator implementations by how they score.
type Category string

const (
	// CategoryDeterministic covers evaluators that compare outputs without
	// calling a model.
	CategoryDeterministic Category = "deterministic"
	// CategoryLLM covers evaluators that delegate scoring to a judge model.
	CategoryLLM Category = "llm"
	// CategoryTrajectory covers evaluators that check recorded tool calls.
	CategoryTrajectory Category = "trajectory"
	// CategoryCoded covers user-supplied evaluators loaded from a plugin.
	CategoryCoded Category = "coded"
)

// Type selects the concrete evaluator within a category.
type Type string

const (
	// TypeExactMatch compares outputs for string equality.
	TypeExactMatch Type = "exact_match"
	// TypeJSONSimilarity compares outputs structurally after canonicalization.
	TypeJSONSimilarity Type = "json_similarity"
	// TypeJudge scores outputs with an LLM judge.
	TypeJudge Type = "judge"
	// TypeToolCalls checks the recorded tool-call trajectory.
	TypeToolCalls Type = "tool_calls"
	// TypePlugin loads a user-supplied evaluator from a designated path.
	TypePlugin Type = "plugin"
)

// Config describes one evaluator instance to build. The (Category, Type)
// pair selects the implementation; unknown pairs are rejected when the
// registry is built, before any agent work starts.
type Config struct {
	// ID is the evaluator reference id used by evaluation items.
	ID string `json:"id"`
	// Name is the display name, defaults to ID.
	Name string `json:"name,omitempty"`
	// Category groups the evaluator implementation.
	Category Category `json:"category"`
	// Type selects the concrete evaluator within the category.
	Type Type `json:"type"`
	// Model overrides the judge model name for LLM evaluators.
	Model string `json:"model,omitempty"`
	// Prompt overrides the judge prompt template for LLM evaluators. The
	// template must carry the actual/expected placeholders.
	Prompt string `json:"prompt,omitempty"`
	// FilePath locates the plugin of a coded evaluator.
	FilePath string `json:"filePath,omitempty"`
}
