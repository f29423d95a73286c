// Copyright 2026 Strata ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the deferred-execution backend for record arrays.
//
// Operations return symbolic arrays with eagerly computed shapes; buffers
// materialize only when read back to the host. Useful for building and
// validating pipelines without paying for the computation.
package graph

import (
	internalgraph "github.com/strata-ml/strata/internal/backend/graph"
	"github.com/strata-ml/strata/record"
)

// Backend is the graph backend implementation.
type Backend = internalgraph.Backend

// Compile-time check that Backend implements record.Backend.
var _ record.Backend = (*Backend)(nil)

// New creates a new graph backend.
func New() *Backend {
	return internalgraph.New()
}
