// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"bytes"
	"testing"

	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

type fakeCompiler struct{ calls int }

func (f *fakeCompiler) CompilePipeline(key Key, desc res.PipelineDesc) (any, error) {
	f.calls++
	return "native-pipeline", nil
}

func TestGetOrCompileCachesPerKey(t *testing.T) {
	fc := &fakeCompiler{}
	c := NewCache(fc, 2)

	k := Key{VertexShader: 1, FragmentShader: 2, RPType: queue.RPHasDepth, SampleCount: 4}
	h1 := c.GetOrCompile(k, res.PipelineDesc{})
	native, err := h1.Await()
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if native != "native-pipeline" {
		t.Errorf("native = %v", native)
	}

	h2 := c.GetOrCompile(k, res.PipelineDesc{})
	if _, err := h2.Await(); err != nil {
		t.Fatalf("second Await: %v", err)
	}
	if fc.calls != 1 {
		t.Errorf("compile calls = %d, want 1 (second request should reuse the cached slot)", fc.calls)
	}
}

func TestGetOrCompileDistinctSampleCountIsDistinctVariant(t *testing.T) {
	fc := &fakeCompiler{}
	c := NewCache(fc, 2)

	k1 := Key{VertexShader: 1, FragmentShader: 2, RPType: queue.RPHasDepth, SampleCount: 1}
	k4 := k1
	k4.SampleCount = 4

	c.GetOrCompile(k1, res.PipelineDesc{}).Await()
	c.GetOrCompile(k4, res.PipelineDesc{}).Await()

	if fc.calls != 2 {
		t.Errorf("compile calls = %d, want 2 (sample count is part of the key)", fc.calls)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	entries := []struct {
		Key  Key
		Blob []byte
	}{
		{Key: Key{VertexShader: 10, FragmentShader: 20, InputLayout: 3, HWTransform: true, RPType: queue.RPHasDepth | queue.RPMultisample, SampleCount: 4}, Blob: []byte{1, 2, 3, 4}},
		{Key: Key{VertexShader: 11, FragmentShader: 21}, Blob: []byte{}},
	}
	var buf bytes.Buffer
	if err := SaveDisk(&buf, entries); err != nil {
		t.Fatalf("SaveDisk: %v", err)
	}

	loaded, err := LoadDisk(&buf)
	if err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	if len(loaded) != len(entries) {
		t.Fatalf("len(loaded) = %d, want %d", len(loaded), len(entries))
	}
	if loaded[0].Key != entries[0].Key {
		t.Errorf("loaded[0].Key = %+v, want %+v", loaded[0].Key, entries[0].Key)
	}
	if !bytes.Equal(loaded[0].Blob, entries[0].Blob) {
		t.Errorf("loaded[0].Blob mismatch")
	}
}
