// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

// Swapchain implements frame.Swapchain for GL. Unlike Vulkan, GL has no
// explicit swapchain image array to acquire from: the default
// framebuffer is always image 0, and presentation is the platform's
// SwapBuffers call (wglSwapBuffers/glXSwapBuffers/eglSwapBuffers), which
// lives outside backend/gl/gl's cross-platform binding and is supplied
// here as a caller-provided function so this package stays
// windowing-system-agnostic.
type Swapchain struct {
	swapBuffers func() error
	width, height int
}

// NewSwapchain wraps a platform-specific SwapBuffers call. width/height
// are the current backbuffer dimensions, updated by Recreate.
func NewSwapchain(width, height int, swapBuffers func() error) *Swapchain {
	return &Swapchain{swapBuffers: swapBuffers, width: width, height: height}
}

// AcquireNext always returns image index 0: GL's default framebuffer is
// the only "swapchain image" this backend knows about.
func (s *Swapchain) AcquireNext() (int, error) { return 0, nil }

func (s *Swapchain) Present(imageIndex int) error { return s.swapBuffers() }

// Recreate reports the swapchain's current size; GL has no explicit
// swapchain object to rebuild, the platform context already tracks the
// window's size, so this just returns what was last set via SetSize.
func (s *Swapchain) Recreate() (width, height int, err error) {
	return s.width, s.height, nil
}

// SetSize updates the dimensions Recreate reports, called by the
// windowing layer after a resize event.
func (s *Swapchain) SetSize(w, h int) { s.width, s.height = w, h }
