// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"testing"

	"github.com/tinygpu/rq/descriptor"
	"github.com/tinygpu/rq/drawctx"
	"github.com/tinygpu/rq/frame"
	"github.com/tinygpu/rq/pipeline"
	"github.com/tinygpu/rq/res"
	"github.com/tinygpu/rq/runner"
)

func TestInterfaceSatisfaction(t *testing.T) {
	var _ res.Device = (*Device)(nil)
	var _ runner.Executor = (*Executor)(nil)
	var _ frame.Fence = (*Fence)(nil)
	var _ frame.Swapchain = (*Swapchain)(nil)
	var _ pipeline.Compiler = (*Compiler)(nil)
	var _ descriptor.Pool = (*Pool)(nil)
	var _ drawctx.Context = (*Context)(nil)
}
