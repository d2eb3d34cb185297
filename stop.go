// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package acqsession

import "sync"

// stopChannel is a single mutex-guarded boolean, safe to flip from any
// goroutine. The loop never waits on this flag: there is no condition
// variable, it is simply polled between dispatches, so a plain
// sync.Mutex is enough. There is no reader/writer split worth an
// RWMutex, since checkAndClear always both reads and potentially clears.
type stopChannel struct {
	mu      sync.Mutex
	pending bool
}

// request sets the pending flag. Safe to call from any goroutine,
// including the loop's own.
func (c *stopChannel) request() {
	c.mu.Lock()
	c.pending = true
	c.mu.Unlock()
}

// checkAndClear reports whether a stop was pending, clearing it under the
// same lock so at most one synchronous stop runs per request.
func (c *stopChannel) checkAndClear() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pending {
		return false
	}
	c.pending = false
	return true
}

// peek reports whether a stop is pending, without clearing it. Used by
// the dispatch loop to cut a pass short as soon as possible; the actual
// checkAndClear happens once, at the point that runs the synchronous
// stop sequence.
func (c *stopChannel) peek() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
