// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package profile implements optional per-frame GPU timestamp
// profiling: nested named scopes bracketed by timestamp queries, read
// back once the GPU has caught up (typically MAX_INFLIGHT frames
// later) and reported as elapsed milliseconds per scope.
//
// Grounded on Common/GPU/Vulkan/VulkanProfiler.cpp's query-pool/scope
// bookkeeping, adapted from a fixed query-pool-per-frame design to a
// backend-agnostic QueryPool interface.
package profile

import "fmt"

// QueryPool is implemented by a backend to write GPU timestamps into a
// pool of query slots and later read them back as raw ticks.
type QueryPool interface {
	// WriteTimestamp records the current GPU timestamp into slot.
	WriteTimestamp(slot int) error
	// Results reads back count timestamps starting at slot 0; returns
	// false if the GPU hasn't finished writing them yet.
	Results(count int) ([]uint64, bool, error)
	// TimestampPeriod is nanoseconds per tick, a device-reported constant.
	TimestampPeriod() float64
}

// scope is one named begin/end bracket recorded this frame.
type scope struct {
	name           string
	depth          int
	beginSlot      int
	endSlot        int
}

// Context tracks one frame's worth of profiling scopes. A fresh
// Context is used per frame; Results() is read back once the owning
// frame's fence has signaled (same lifetime as package frame's deferred
// deletion).
type Context struct {
	pool    QueryPool
	enabled bool

	scopes    []scope
	stack     []int // indices into scopes, open scopes
	nextSlot  int
}

// NewContext creates a profiling Context. enabled lets callers compile
// out the query-write calls entirely when profiling is off, the same
// role VulkanProfiler.cpp's validBits_ == 0 early return plays.
func NewContext(pool QueryPool, enabled bool) *Context {
	return &Context{pool: pool, enabled: enabled}
}

// Enabled reports whether this Context is actually recording.
func (c *Context) Enabled() bool { return c.enabled }

// Begin opens a named scope, writing a GPU timestamp now.
func (c *Context) Begin(name string) error {
	if !c.enabled {
		return nil
	}
	slot := c.nextSlot
	c.nextSlot++
	if err := c.pool.WriteTimestamp(slot); err != nil {
		return fmt.Errorf("profile: begin %q: %w", name, err)
	}
	idx := len(c.scopes)
	c.scopes = append(c.scopes, scope{name: name, depth: len(c.stack), beginSlot: slot, endSlot: -1})
	c.stack = append(c.stack, idx)
	return nil
}

// End closes the innermost open scope.
func (c *Context) End() error {
	if !c.enabled {
		return nil
	}
	if len(c.stack) == 0 {
		return fmt.Errorf("profile: End called with no open scope")
	}
	idx := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]

	slot := c.nextSlot
	c.nextSlot++
	if err := c.pool.WriteTimestamp(slot); err != nil {
		return fmt.Errorf("profile: end %q: %w", c.scopes[idx].name, err)
	}
	c.scopes[idx].endSlot = slot
	return nil
}

// Entry is one resolved scope's timing, ready for display.
type Entry struct {
	Name       string
	Depth      int
	ElapsedMS  float64
}

// Results reads back every scope's timestamps and computes elapsed
// milliseconds, returning ok=false if the GPU hasn't finished writing
// them yet (the caller should retry next frame).
func (c *Context) Results() (entries []Entry, ok bool, err error) {
	if !c.enabled || c.nextSlot == 0 {
		return nil, true, nil
	}
	raw, ready, err := c.pool.Results(c.nextSlot)
	if err != nil {
		return nil, false, err
	}
	if !ready {
		return nil, false, nil
	}
	factor := c.pool.TimestampPeriod() / 1e6 // ns/tick -> ms/tick
	out := make([]Entry, 0, len(c.scopes))
	for _, s := range c.scopes {
		if s.endSlot < 0 {
			continue // unclosed scope, skip rather than report garbage
		}
		elapsed := float64(raw[s.endSlot]-raw[s.beginSlot]) * factor
		out = append(out, Entry{Name: s.name, Depth: s.depth, ElapsedMS: elapsed})
	}
	return out, true, nil
}

// Summary formats entries as an indented text report, one line per
// scope, for logging.
func Summary(entries []Entry) string {
	out := ""
	for _, e := range entries {
		for i := 0; i < e.Depth; i++ {
			out += "  "
		}
		out += fmt.Sprintf("%s: %.3fms\n", e.Name, e.ElapsedMS)
	}
	return out
}
