// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package descriptor

import "testing"

type fakePool struct {
	allocCalls int
	writes     []Set
}

func (p *fakePool) AllocGroup(layout any, count int) ([]any, error) {
	p.allocCalls++
	out := make([]any, count)
	for i := range out {
		out[i] = &struct{ n int }{n: i}
	}
	return out, nil
}

func (p *fakePool) Write(native any, bindings []Binding) {}

func TestBatcherDedupesConsecutiveIdenticalSets(t *testing.T) {
	pool := &fakePool{}
	b := NewBatcher(pool)

	set := Set{Layout: "layoutA", Bindings: []Binding{{Slot: 0, Texture: "tex1"}}}

	n1, err := b.Get(set)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	n2, err := b.Get(set)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n1 != n2 {
		t.Error("identical consecutive sets should reuse the same native handle")
	}
	if pool.allocCalls != 1 {
		t.Errorf("allocCalls = %d, want 1", pool.allocCalls)
	}
}

func TestBatcherAllocatesFreshForDifferentSet(t *testing.T) {
	pool := &fakePool{}
	b := NewBatcher(pool)

	setA := Set{Layout: "layoutA", Bindings: []Binding{{Slot: 0, Texture: "tex1"}}}
	setB := Set{Layout: "layoutA", Bindings: []Binding{{Slot: 0, Texture: "tex2"}}}

	nA, _ := b.Get(setA)
	nB, _ := b.Get(setB)
	if nA == nB {
		t.Error("distinct sets should not share a native handle")
	}
}

func TestBatcherGrowsInGroups(t *testing.T) {
	pool := &fakePool{}
	b := NewBatcher(pool)

	for i := 0; i < groupSize+1; i++ {
		set := Set{Layout: "layoutA", Bindings: []Binding{{Slot: 0, Texture: i}}}
		if _, err := b.Get(set); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if pool.allocCalls != 2 {
		t.Errorf("allocCalls = %d, want 2 (groupSize=%d, requested %d distinct sets)", pool.allocCalls, groupSize, groupSize+1)
	}
}

func TestResetClearsDedupWindow(t *testing.T) {
	pool := &fakePool{}
	b := NewBatcher(pool)
	set := Set{Layout: "layoutA", Bindings: []Binding{{Slot: 0, Texture: "tex1"}}}

	b.Get(set)
	b.Reset()
	if _, err := b.Get(set); err != nil {
		t.Fatalf("Get after Reset: %v", err)
	}
	if pool.allocCalls != 2 {
		t.Errorf("allocCalls = %d, want 2 (Reset should drop the stale free list)", pool.allocCalls)
	}
}
