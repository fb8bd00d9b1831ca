//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"trpc.group/trpc-go/trpc-agent-evals/telemetry"
)

// Instrument names recorded by the evaluation engine.
const (
	MetricItemCount     = "evaluation.item.count"
	MetricScore         = "evaluation.score"
	MetricAgentDuration = "evaluation.agent.duration"
)

// Attribute keys attached to engine metrics.
const (
	KeyItemStatus  = attribute.Key("evaluation.item.status")
	KeyEvaluatorID = attribute.Key("evaluation.evaluator.id")
)

var (
	instrumentMu  sync.Mutex
	itemCounter   metric.Int64Counter
	scoreHist     metric.Float64Histogram
	agentDuration metric.Float64Histogram
)

// initInstruments builds the engine instruments on the given provider.
// Without an explicit Start the instruments fall back to the global provider,
// which is a no-op until the host configures one.
func initInstruments(provider metric.MeterProvider) error {
	meter := provider.Meter(telemetry.InstrumentName)

	instrumentMu.Lock()
	defer instrumentMu.Unlock()
	var err error
	if itemCounter, err = meter.Int64Counter(
		MetricItemCount,
		metric.WithDescription("Total number of evaluated items"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create metric %s: %w", MetricItemCount, err)
	}
	if scoreHist, err = meter.Float64Histogram(
		MetricScore,
		metric.WithDescription("Normalized evaluator scores"),
		metric.WithUnit("1"),
	); err != nil {
		return fmt.Errorf("failed to create metric %s: %w", MetricScore, err)
	}
	if agentDuration, err = meter.Float64Histogram(
		MetricAgentDuration,
		metric.WithDescription("Duration of agent invocations"),
		metric.WithUnit("s"),
	); err != nil {
		return fmt.Errorf("failed to create metric %s: %w", MetricAgentDuration, err)
	}
	return nil
}

func instruments() (metric.Int64Counter, metric.Float64Histogram, metric.Float64Histogram) {
	instrumentMu.Lock()
	ready := itemCounter != nil
	instrumentMu.Unlock()
	if !ready {
		_ = initInstruments(otel.GetMeterProvider())
	}
	instrumentMu.Lock()
	defer instrumentMu.Unlock()
	return itemCounter, scoreHist, agentDuration
}

// RecordItem counts one evaluated item with its terminal status.
func RecordItem(ctx context.Context, statusLabel string) {
	counter, _, _ := instruments()
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(KeyItemStatus.String(statusLabel)))
}

// RecordScore observes one normalized evaluator score.
func RecordScore(ctx context.Context, evaluatorID string, score float64) {
	_, hist, _ := instruments()
	if hist == nil {
		return
	}
	hist.Record(ctx, score, metric.WithAttributes(KeyEvaluatorID.String(evaluatorID)))
}

// RecordAgentDuration observes the wall time of one agent invocation.
func RecordAgentDuration(ctx context.Context, seconds float64) {
	_, _, hist := instruments()
	if hist == nil {
		return
	}
	hist.Record(ctx, seconds)
}
