// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package runner

import (
	"testing"

	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

type fakeExecutor struct {
	transitions    []queue.Transition
	passes         []string
	commandCount   int
	copies, blits  int
	readbacks      int
	acquireCalls   int
}

func (f *fakeExecutor) TransitionLayout(fb res.ID, aspect res.Aspect, to queue.Layout) error {
	f.transitions = append(f.transitions, queue.Transition{FB: fb, Aspect: aspect, To: to})
	return nil
}
func (f *fakeExecutor) BeginRenderPass(step *queue.Step) error { f.passes = append(f.passes, step.Tag); return nil }
func (f *fakeExecutor) ExecuteCommand(step *queue.Step, cmd queue.Command) error {
	f.commandCount++
	return nil
}
func (f *fakeExecutor) EndRenderPass(step *queue.Step) error { return nil }
func (f *fakeExecutor) Copy(step *queue.Step) error          { f.copies++; return nil }
func (f *fakeExecutor) Blit(step *queue.Step) error          { f.blits++; return nil }
func (f *fakeExecutor) Readback(step *queue.Step) error      { f.readbacks++; return nil }
func (f *fakeExecutor) ReadbackImage(step *queue.Step) error { f.readbacks++; return nil }
func (f *fakeExecutor) AcquireBackbuffer() error             { f.acquireCalls++; return nil }

func TestRunDispatchesEachStepType(t *testing.T) {
	offscreen := &queue.Step{Type: queue.StepRender, Tag: "offscreen"}
	offscreen.Render.FB = 1
	offscreen.Render.Commands = []queue.Command{{Op: queue.OpDraw, VertexCount: 3}}

	cp := &queue.Step{Type: queue.StepCopy, Tag: "copy"}
	cp.Copy.SrcFB, cp.Copy.DstFB = 1, 2

	backbuffer := &queue.Step{Type: queue.StepRender, Tag: "backbuffer"}
	backbuffer.Render.FB = 0
	backbuffer.Render.PreTransitions = []queue.Transition{{FB: 1, Aspect: res.AspectColor, To: queue.LayoutShaderRead}}
	backbuffer.Render.Commands = []queue.Command{{Op: queue.OpDraw, VertexCount: 6}}

	rb := &queue.Step{Type: queue.StepReadback, Tag: "readback"}

	f := &fakeExecutor{}
	if err := Run([]*queue.Step{offscreen, cp, backbuffer, rb}, f, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(f.passes) != 2 {
		t.Errorf("passes = %v, want 2 render passes", f.passes)
	}
	if f.copies != 1 {
		t.Errorf("copies = %d, want 1", f.copies)
	}
	if f.readbacks != 1 {
		t.Errorf("readbacks = %d, want 1", f.readbacks)
	}
	if f.commandCount != 2 {
		t.Errorf("commandCount = %d, want 2", f.commandCount)
	}
	if len(f.transitions) != 1 {
		t.Fatalf("transitions = %v, want 1", f.transitions)
	}
	if f.acquireCalls != 1 {
		t.Errorf("acquireCalls = %d, want 1", f.acquireCalls)
	}
}

func TestRunSkipsFailedFramebuffers(t *testing.T) {
	s := &queue.Step{Type: queue.StepRender, Tag: "broken"}
	s.Render.FB = 9

	f := &fakeExecutor{}
	failed := func(id res.ID) bool { return id == 9 }
	if err := Run([]*queue.Step{s}, f, failed); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.passes) != 0 {
		t.Errorf("passes = %v, want none (failed framebuffer should be skipped)", f.passes)
	}
}

func TestRunSkipsRenderSkipSteps(t *testing.T) {
	s := &queue.Step{Type: queue.StepRenderSkip, Tag: "dead"}
	f := &fakeExecutor{}
	if err := Run([]*queue.Step{s}, f, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.passes) != 0 {
		t.Error("StepRenderSkip should never reach BeginRenderPass")
	}
}

func TestRunDeduplicatesRepeatedTransitions(t *testing.T) {
	s1 := &queue.Step{Type: queue.StepRender, Tag: "a"}
	s1.Render.FB = 0
	s1.Render.PreTransitions = []queue.Transition{{FB: 1, Aspect: res.AspectColor, To: queue.LayoutShaderRead}}

	s2 := &queue.Step{Type: queue.StepRender, Tag: "b"}
	s2.Render.FB = 0
	s2.Render.PreTransitions = []queue.Transition{{FB: 1, Aspect: res.AspectColor, To: queue.LayoutShaderRead}}

	f := &fakeExecutor{}
	if err := Run([]*queue.Step{s1, s2}, f, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(f.transitions) != 1 {
		t.Errorf("transitions = %v, want 1 (second identical transition should be a no-op)", f.transitions)
	}
}
