//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

package local

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/semaphore"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/runtime"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/service"
)

type itemParam struct {
	idx     int
	ctx     context.Context
	req     *service.ExecuteSetRequest
	item    *evalset.EvaluationItem
	rt      runtime.Runtime
	gate    *semaphore.Weighted
	svc     *local
	results []*evalresult.RunResult
	wg      *sync.WaitGroup
}

func (p *itemParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.req = nil
	p.item = nil
	p.rt = nil
	p.gate = nil
	p.svc = nil
	p.results = nil
	p.wg = nil
}

var itemParamPool = &sync.Pool{
	New: func() any { return new(itemParam) },
}

// newItemPool creates the per-run worker pool. One task is submitted per
// evaluation item; the pool admits all of them so evaluator scoring is
// never throttled, while the semaphore gate inside processItem bounds the
// agent-invocation phase.
func newItemPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*itemParam)
		if !ok {
			panic("item pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			itemParamPool.Put(param)
		}()
		param.results[param.idx] = param.svc.processItem(
			param.ctx, param.req, param.item, param.rt, param.gate)
	})
	if err != nil {
		return nil, fmt.Errorf("create item pool: %w", err)
	}
	return pool, nil
}
