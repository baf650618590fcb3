// Package coalesce serialises watch-triggered runs.
package coalesce

import (
	"context"
	"slices"
	"sync"
)

// RunFunc executes one run for targets.
type RunFunc func(ctx context.Context, targets []string) error

// Coalescer runs at most one RunFunc at a time. Triggers that arrive while a
// run is in flight are merged into a single follow-up run whose targets are
// the union of everything requested meanwhile.
type Coalescer struct {
	run     RunFunc
	onError func(error)

	mu      sync.Mutex
	busy    bool
	pending []string
	idle    chan struct{}
}

// New creates a Coalescer. onError receives every run error and may be nil.
func New(run RunFunc, onError func(error)) *Coalescer {
	idle := make(chan struct{})
	close(idle)
	return &Coalescer{run: run, onError: onError, idle: idle}
}

// Trigger requests a run for targets without blocking.
func (c *Coalescer) Trigger(ctx context.Context, targets []string) {
	if len(targets) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		c.pending = union(c.pending, targets)
		return
	}

	c.busy = true
	c.idle = make(chan struct{})
	go c.loop(ctx, slices.Clone(targets), c.idle)
}

func (c *Coalescer) loop(ctx context.Context, targets []string, idle chan struct{}) {
	defer close(idle)

	for {
		if err := c.run(ctx, targets); err != nil && c.onError != nil {
			c.onError(err)
		}

		c.mu.Lock()
		if len(c.pending) == 0 || ctx.Err() != nil {
			c.pending = nil
			c.busy = false
			c.mu.Unlock()
			return
		}
		targets = c.pending
		c.pending = nil
		c.mu.Unlock()
	}
}

// Wait blocks until no run is in flight or pending.
func (c *Coalescer) Wait() {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()
	<-idle
}

// union appends the targets missing from dst, keeping first-seen order.
func union(dst, targets []string) []string {
	for _, t := range targets {
		if !slices.Contains(dst, t) {
			dst = append(dst, t)
		}
	}
	return dst
}
