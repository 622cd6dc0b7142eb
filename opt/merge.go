// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package opt

import (
	"github.com/tinygpu/rq/queue"
	"github.com/tinygpu/rq/res"
)

// mergeRenderPasses finds framebuffers rendered to more than once in a
// frame and slurps later passes to the same framebuffer into the
// earliest one, as long as nothing in between reads the framebuffer in
// its intermediate state, nothing re-clears it, and no copy/blit
// clobbers it along the way.
func mergeRenderPasses(steps []*queue.Step) []*queue.Step {
	counts := make(map[res.ID]int)
	for _, s := range steps {
		if s.Type == queue.StepRender {
			counts[s.Render.FB]++
		}
	}

	for i, s := range steps {
		if s.Type != queue.StepRender || counts[s.Render.FB] <= 1 {
			continue
		}
		fb := s.Render.FB
		touched := map[res.ID]bool{}

	scan:
		for j := i + 1; j < len(steps); j++ {
			t := steps[j]
			if dependsOn(t, fb) && !(t.Type == queue.StepRender && t.Render.FB == fb) {
				// A read of fb in its intermediate state (other than the
				// natural KEEP-read of re-rendering to it) blocks merging.
				break
			}
			switch t.Type {
			case queue.StepRender:
				if t.Render.FB == fb {
					if renderHasClear(t) || touched[fb] {
						break scan
					}
					mergeInto(s, t)
				} else {
					touched[t.Render.FB] = true
				}
			case queue.StepCopy, queue.StepBlit:
				if t.Copy.DstFB == fb {
					break scan
				}
				touched[t.Copy.DstFB] = true
			case queue.StepReadback, queue.StepRenderSkip, queue.StepReadbackImage:
				// No effect on mergeability.
			default:
				break scan
			}
		}
	}
	return steps
}

func dependsOn(s *queue.Step, fb res.ID) bool {
	for _, d := range s.Deps {
		if d.FB == fb && d.Read {
			return true
		}
	}
	return false
}

func renderHasClear(s *queue.Step) bool {
	return s.Render.ColorLoad == queue.LoadClear || s.Render.DepthLoad == queue.LoadClear || s.Render.StencilLoad == queue.LoadClear
}

func mergeInto(dst, src *queue.Step) {
	dst.Render.PreTransitions = append(dst.Render.PreTransitions, src.Render.PreTransitions...)
	dst.Render.Commands = append(dst.Render.Commands, src.Render.Commands...)
	dst.Render.Area = dst.Render.Area.Union(src.Render.Area)
	src.Deps = nil
	src.Type = queue.StepRenderSkip
	dst.Render.NumDraws += src.Render.NumDraws
	dst.Render.NumReads += src.Render.NumReads
	dst.Render.PipelineFlagsAccum |= src.Render.PipelineFlagsAccum
	if merged, ok := dst.Render.RPType.Merge(src.Render.RPType); ok {
		dst.Render.RPType = merged
	}
}
