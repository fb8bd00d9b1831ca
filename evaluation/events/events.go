//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package events provides the in-process progress event bus. The dispatcher
// and the per-item state machine publish run lifecycle events; the local
// result writer and remote progress reporters subscribe independently.
// Subscriber failures are logged and swallowed: progress reporting never
// fails the evaluation run itself.
package events

import (
	"context"
	"errors"
	"sync"

	"trpc.group/trpc-go/trpc-agent-evals/log"
)

// Type names a run lifecycle event.
type Type string

const (
	// TypeRunCreated is published once per item when its agent execution
	// starts, never on resume.
	TypeRunCreated Type = "run_created"
	// TypeRunUpdated is published when an item reaches a terminal report.
	TypeRunUpdated Type = "run_updated"
	// TypeSetRunCreated is published once when the set run starts.
	TypeSetRunCreated Type = "set_run_created"
	// TypeSetRunUpdated is published when the set-level aggregate changes.
	TypeSetRunUpdated Type = "set_run_updated"
)

// Event is one published progress event.
type Event struct {
	// Type is the lifecycle event type.
	Type Type `json:"type"`
	// RunID identifies the run.
	RunID string `json:"runId,omitempty"`
	// ItemID identifies the evaluation item for item-level events.
	ItemID string `json:"itemId,omitempty"`
	// Payload carries the event body, e.g. a RunResult or SetRunResult.
	Payload any `json:"payload,omitempty"`
}

// Handler consumes one event. Returned errors are logged and swallowed.
type Handler func(ctx context.Context, event *Event) error

// delivery pairs an event with the publish context and the optional
// completion group of a PublishWait call.
type delivery struct {
	ctx   context.Context
	event *Event
	wg    *sync.WaitGroup
}

// subscriber consumes deliveries from its own channel so a slow subscriber
// never blocks another.
type subscriber struct {
	name    string
	channel chan delivery
	done    chan struct{}
	handler Handler
}

func (s *subscriber) run() {
	defer close(s.done)
	for d := range s.channel {
		if err := s.handler(d.ctx, d.event); err != nil {
			log.Errorf("event subscriber %s: handle %s: %v", s.name, d.event.Type, err)
		}
		if d.wg != nil {
			d.wg.Done()
		}
	}
}

// Bus is the in-process pub/sub progress bus.
type Bus struct {
	mu          sync.RWMutex
	subscribers []*subscriber
	closed      bool
}

// defaultBuffer is the per-subscriber channel depth.
const defaultBuffer = 64

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a named handler. Each subscriber consumes from its
// own buffered channel on a dedicated goroutine.
func (b *Bus) Subscribe(name string, handler Handler) error {
	if handler == nil {
		return errors.New("handler is nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("bus is closed")
	}
	s := &subscriber{
		name:    name,
		channel: make(chan delivery, defaultBuffer),
		done:    make(chan struct{}),
		handler: handler,
	}
	b.subscribers = append(b.subscribers, s)
	go s.run()
	return nil
}

// Publish queues the event for every subscriber and returns without
// waiting for handlers.
func (b *Bus) Publish(ctx context.Context, event *Event) {
	b.publish(ctx, event, nil)
}

// PublishWait queues the event and blocks until every subscriber has
// handled it.
func (b *Bus) PublishWait(ctx context.Context, event *Event) {
	wg := &sync.WaitGroup{}
	b.publish(ctx, event, wg)
	wg.Wait()
}

func (b *Bus) publish(ctx context.Context, event *Event, wg *sync.WaitGroup) {
	if event == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		log.Warnf("event bus: dropping %s published after close", event.Type)
		return
	}
	for _, s := range b.subscribers {
		if wg != nil {
			wg.Add(1)
		}
		s.channel <- delivery{ctx: ctx, event: event, wg: wg}
	}
}

// Close closes all subscriber channels and joins their consumers. Events
// already queued are still handled.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subscribers := b.subscribers
	b.mu.Unlock()
	for _, s := range subscribers {
		close(s.channel)
	}
	for _, s := range subscribers {
		<-s.done
	}
	return nil
}
