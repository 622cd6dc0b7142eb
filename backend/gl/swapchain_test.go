// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import "testing"

func TestSwapchainAcquireNextAlwaysZero(t *testing.T) {
	sc := NewSwapchain(640, 480, func() error { return nil })
	idx, err := sc.AcquireNext()
	if err != nil {
		t.Fatalf("AcquireNext: %v", err)
	}
	if idx != 0 {
		t.Fatalf("AcquireNext index = %d, want 0", idx)
	}
}

func TestSwapchainPresentCallsSwapBuffers(t *testing.T) {
	called := false
	sc := NewSwapchain(640, 480, func() error {
		called = true
		return nil
	})
	if err := sc.Present(0); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !called {
		t.Fatal("Present did not invoke the swapBuffers callback")
	}
}

func TestSwapchainRecreateReportsLastSetSize(t *testing.T) {
	sc := NewSwapchain(640, 480, func() error { return nil })
	sc.SetSize(1920, 1080)
	w, h, err := sc.Recreate()
	if err != nil {
		t.Fatalf("Recreate: %v", err)
	}
	if w != 1920 || h != 1080 {
		t.Fatalf("Recreate = (%d, %d), want (1920, 1080)", w, h)
	}
}

func TestFenceWaitAndPollBeforeFirstReset(t *testing.T) {
	f := NewFence(nil)
	if err := f.Wait(); err != nil {
		t.Fatalf("Wait on never-reset fence: %v", err)
	}
	signaled, err := f.Poll()
	if err != nil {
		t.Fatalf("Poll on never-reset fence: %v", err)
	}
	if !signaled {
		t.Fatal("Poll on never-reset fence = false, want true (nothing to wait for)")
	}
}
