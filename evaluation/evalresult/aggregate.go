//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package evalresult

import (
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/epochtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/status"
)

// Aggregate assembles the set-level result from the per-item reports:
// per-evaluator score averages across the whole set, overall status merged
// with priority Suspended > Faulted > Successful, success as the AND of all
// item agent-execution successes, and pass-through of suspended triggers.
func Aggregate(runID, evalSetID string, runResults []*RunResult) *SetRunResult {
	result := &SetRunResult{
		RunID:             runID,
		EvalSetID:         evalSetID,
		RunResults:        runResults,
		AverageScores:     averageScores(runResults),
		Success:           true,
		CreationTimestamp: &epochtime.EpochTime{Time: epochtime.Now().Time},
	}
	statuses := make([]status.ExecutionStatus, 0, len(runResults))
	for _, runResult := range runResults {
		statuses = append(statuses, runResult.Status)
		if !runResult.Success {
			result.Success = false
		}
		result.Triggers = append(result.Triggers, runResult.Triggers...)
	}
	result.Status = status.Merge(statuses...)
	return result
}

// averageScores computes the arithmetic mean of each evaluator's normalized
// scores across the items that referenced it. Items that skipped an
// evaluator do not count against it.
func averageScores(runResults []*RunResult) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, runResult := range runResults {
		for _, itemResult := range runResult.EvaluatorResults {
			sums[itemResult.EvaluatorID] += itemResult.Result.NormalizedScore()
			counts[itemResult.EvaluatorID]++
		}
	}
	if len(sums) == 0 {
		return nil
	}
	averages := make(map[string]float64, len(sums))
	for evaluatorID, sum := range sums {
		averages[evaluatorID] = sum / float64(counts[evaluatorID])
	}
	return averages
}

// MergeRunResults merges newer per-item reports into older ones: a report
// for an item already present replaces it, new items append. Used when a
// resumed run saves over the suspended run's result file.
func MergeRunResults(older, newer []*RunResult) []*RunResult {
	merged := make([]*RunResult, len(older))
	copy(merged, older)
	index := make(map[string]int, len(merged))
	for i, runResult := range merged {
		index[runResult.ItemID] = i
	}
	for _, runResult := range newer {
		if i, ok := index[runResult.ItemID]; ok {
			merged[i] = runResult
			continue
		}
		index[runResult.ItemID] = len(merged)
		merged = append(merged, runResult)
	}
	return merged
}
