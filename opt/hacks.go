// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package opt

import "github.com/tinygpu/rq/queue"

// applyMGS2AcidHack reorders a copy,render(1),copy,render(1),...
// sequence into copies...,render(n): a title that re-renders a small
// decal once per copy makes far better use of the GPU if all the
// copies run back to back and the single-draw renders are combined
// into one pass, since each copy/pass switch has fixed overhead that
// dominates when each pass only issues one draw.
func applyMGS2AcidHack(steps []*queue.Step) {
	for i := 0; i < len(steps)-3; i++ {
		if !(steps[i].Type == queue.StepCopy &&
			steps[i+1].Type == queue.StepRender &&
			steps[i+2].Type == queue.StepCopy &&
			steps[i+1].Render.NumDraws == 1 &&
			steps[i].Copy.DstFB == steps[i+2].Copy.DstFB) {
			continue
		}

		last := -1
		for j := i; j < len(steps); j++ {
			switch steps[j].Type {
			case queue.StepRender:
				if steps[j].Render.NumDraws > 1 {
					last = j - 1
				}
			case queue.StepCopy:
				if steps[j].Copy.DstFB != steps[i].Copy.DstFB {
					last = j - 1
				}
			}
			if last != -1 {
				break
			}
		}
		if last == -1 {
			continue
		}

		var copies, renders []*queue.Step
		for n := i; n <= last; n++ {
			switch steps[n].Type {
			case queue.StepCopy:
				copies = append(copies, steps[n])
			case queue.StepRender:
				renders = append(renders, steps[n])
			}
		}
		for j, c := range copies {
			steps[i+j] = c
		}
		for j, r := range renders {
			steps[i+j+len(copies)] = r
		}
		head := steps[i+len(copies)]
		for j := 1; j < len(renders); j++ {
			head.Render.Commands = append(head.Render.Commands, renders[j].Render.Commands...)
			head.Render.NumDraws += renders[j].Render.NumDraws
			steps[i+len(copies)+j].Type = queue.StepRenderSkip
		}
		return
	}
}

// applySonicHack reorders an alternating render(3),render(1),render(6),
// render(1),... sequence (two distinct framebuffers ping-ponged every
// other pass) into every pass for framebuffer A followed by every pass
// for framebuffer B, eliminating the back-and-forth pass switches.
func applySonicHack(steps []*queue.Step) {
	for i := 0; i < len(steps)-4; i++ {
		s0, s1, s2, s3 := steps[i], steps[i+1], steps[i+2], steps[i+3]
		if !(s0.Type == queue.StepRender && s1.Type == queue.StepRender &&
			s2.Type == queue.StepRender && s3.Type == queue.StepRender &&
			s0.Render.NumDraws == 3 && s1.Render.NumDraws == 1 &&
			s2.Render.NumDraws == 6 && s3.Render.NumDraws == 1 &&
			s0.Render.FB == s2.Render.FB && s1.Render.FB == s3.Render.FB) {
			continue
		}

		last := -1
		for j := i; j < len(steps); j++ {
			if steps[j].Type != queue.StepRender {
				break
			}
			if (j-i)&1 != 0 {
				if steps[j].Render.FB != s1.Render.FB || steps[j].Render.NumDraws != 1 {
					last = j - 1
				}
			} else {
				if steps[j].Render.FB != s0.Render.FB ||
					(steps[j].Render.NumDraws != 3 && steps[j].Render.NumDraws != 6) {
					last = j - 1
				}
			}
			if last != -1 {
				break
			}
		}
		if last == -1 {
			continue
		}

		var typeA, typeB []*queue.Step
		for n := i; n <= last; n++ {
			if steps[n].Render.FB == s0.Render.FB {
				typeA = append(typeA, steps[n])
			} else {
				typeB = append(typeB, steps[n])
			}
		}
		for j, s := range typeA {
			steps[i+j] = s
		}
		for j, s := range typeB {
			steps[i+len(typeA)+j] = s
		}
		return
	}
}
