// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package profile

import "testing"

type fakePool struct {
	ticks []uint64
	ready bool
}

func (p *fakePool) WriteTimestamp(slot int) error {
	for len(p.ticks) <= slot {
		p.ticks = append(p.ticks, 0)
	}
	p.ticks[slot] = uint64(slot) * 1000
	return nil
}

func (p *fakePool) Results(count int) ([]uint64, bool, error) {
	if !p.ready {
		return nil, false, nil
	}
	return p.ticks[:count], true, nil
}

func (p *fakePool) TimestampPeriod() float64 { return 1.0 } // 1ns/tick

func TestBeginEndComputesElapsed(t *testing.T) {
	pool := &fakePool{ready: true}
	c := NewContext(pool, true)

	if err := c.Begin("frame"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.Begin("draw"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := c.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	entries, ok, err := c.Results()
	if err != nil || !ok {
		t.Fatalf("Results: ok=%v err=%v", ok, err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[1].Depth != 1 {
		t.Errorf("nested scope depth = %d, want 1", entries[1].Depth)
	}
}

func TestResultsNotReadyReturnsFalse(t *testing.T) {
	pool := &fakePool{ready: false}
	c := NewContext(pool, true)
	c.Begin("x")
	c.End()

	_, ok, err := c.Results()
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if ok {
		t.Error("Results should report not-ready when the GPU hasn't finished")
	}
}

func TestDisabledContextIsNoOp(t *testing.T) {
	pool := &fakePool{ready: true}
	c := NewContext(pool, false)
	if err := c.Begin("x"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := c.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	entries, ok, err := c.Results()
	if err != nil || !ok {
		t.Fatalf("Results: %v %v", ok, err)
	}
	if entries != nil {
		t.Error("disabled context should report no entries")
	}
}
