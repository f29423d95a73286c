// Copyright 2026 Strata ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU-accelerated backend for record arrays,
// built on go-webgpu's zero-CGO WebGPU bindings.
package webgpu

import (
	internalwebgpu "github.com/strata-ml/strata/internal/backend/webgpu"
	"github.com/strata-ml/strata/record"
)

// Backend is the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements record.Backend.
var _ record.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available on this machine.
func New() (*Backend, error) {
	return internalwebgpu.New()
}
