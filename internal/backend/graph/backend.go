// Package graph implements a deferred-execution backend for record arrays.
//
// Every operation returns a symbolic node whose shape and dtype are computed
// eagerly, so record validation works exactly as on the CPU backend, but no
// buffer is produced until the array is read back to the host. Realized
// buffers are cached on the node, so a graph is executed at most once.
package graph

import (
	"fmt"

	"github.com/strata-ml/strata/internal/backend/kernel"
	"github.com/strata-ml/strata/internal/record"
)

// Verify that Backend implements record.Backend.
var _ record.Backend = (*Backend)(nil)

// Backend builds deferred computation graphs over record arrays.
type Backend struct{}

// New creates a new graph backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "graph"
}

func (b *Backend) get(a record.Array) *node {
	n, ok := a.(*node)
	if !ok {
		panic(fmt.Sprintf("graph: array owned by backend %s", a.Backend().Name()))
	}
	return n
}

func (b *Backend) getFloat(a record.Array) *node {
	n := b.get(a)
	if n.dtype != record.Float32 {
		panic(fmt.Sprintf("graph: only float32 is supported for arithmetic, got %s", n.dtype))
	}
	return n
}

// FromFloat32 constructs a leaf node holding host data.
func (b *Backend) FromFloat32(data []float32, shape record.Shape) record.Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("graph: %d values for shape %v", len(data), shape))
	}
	owned := make([]float32, len(data))
	copy(owned, data)
	return &node{backend: b, kind: opLeaf, dtype: record.Float32, shape: shape.Clone(), leafF32: owned}
}

// FromInt32 constructs an integer leaf node holding host data.
func (b *Backend) FromInt32(data []int32, shape record.Shape) record.Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("graph: %d values for shape %v", len(data), shape))
	}
	owned := make([]int32, len(data))
	copy(owned, data)
	return &node{backend: b, kind: opLeaf, dtype: record.Int32, shape: shape.Clone(), leafI32: owned}
}

// Reshape defers a reshape; the element-count check stays eager so record
// validation fails at call time, not at materialization.
func (b *Backend) Reshape(a record.Array, shape record.Shape) (record.Array, error) {
	n := b.get(a)
	if shape.NumElements() != n.shape.NumElements() {
		return nil, fmt.Errorf("reshape: %d elements into shape %v (%d elements)",
			n.shape.NumElements(), shape, shape.NumElements())
	}
	return &node{backend: b, kind: opReshape, dtype: n.dtype, shape: shape.Clone(), inputs: []*node{n}}, nil
}

// Stack defers a stack along a new leading axis.
func (b *Backend) Stack(arrs []record.Array) record.Array {
	inputs := make([]*node, len(arrs))
	first := b.get(arrs[0])
	for i, a := range arrs {
		n := b.get(a)
		if !n.shape.Equal(first.shape) || n.dtype != first.dtype {
			panic(fmt.Sprintf("graph: stack mismatch: %s%v vs %s%v", first.dtype, first.shape, n.dtype, n.shape))
		}
		inputs[i] = n
	}
	return &node{
		backend: b,
		kind:    opStack,
		dtype:   first.dtype,
		shape:   record.Shape{len(arrs)}.Concat(first.shape),
		inputs:  inputs,
	}
}

// Index defers a slice along axis 0.
func (b *Backend) Index(a record.Array, i int) record.Array {
	n := b.get(a)
	if len(n.shape) == 0 {
		panic("graph: cannot index a scalar array")
	}
	if i < 0 || i >= n.shape[0] {
		panic(fmt.Sprintf("graph: index %d out of range for shape %v", i, n.shape))
	}
	return &node{backend: b, kind: opIndex, dtype: n.dtype, shape: n.shape[1:].Clone(), inputs: []*node{n}, index: i}
}

// Narrow defers a slice along the given axis.
func (b *Backend) Narrow(a record.Array, axis, start, length int) record.Array {
	n := b.get(a)
	norm := kernel.NormalizeAxis(axis, len(n.shape))
	if start < 0 || length < 0 || start+length > n.shape[norm] {
		panic(fmt.Sprintf("graph: narrow [%d:%d) out of range for dimension %d", start, start+length, n.shape[norm]))
	}
	shape := n.shape.Clone()
	shape[norm] = length
	return &node{
		backend: b, kind: opNarrow, dtype: n.dtype, shape: shape,
		inputs: []*node{n}, axis: norm, start: start, length: length,
	}
}

// Concat defers a join along an existing axis.
func (b *Backend) Concat(arrs []record.Array, axis int) record.Array {
	inputs := make([]*node, len(arrs))
	first := b.get(arrs[0])
	norm := kernel.NormalizeAxis(axis, len(first.shape))

	total := 0
	for i, a := range arrs {
		n := b.get(a)
		if len(n.shape) != len(first.shape) {
			panic("graph: concat rank mismatch")
		}
		for d := range n.shape {
			if d != norm && n.shape[d] != first.shape[d] {
				panic(fmt.Sprintf("graph: concat shape mismatch: %v vs %v", first.shape, n.shape))
			}
		}
		total += n.shape[norm]
		inputs[i] = n
	}

	shape := first.shape.Clone()
	shape[norm] = total
	return &node{backend: b, kind: opConcat, dtype: first.dtype, shape: shape, inputs: inputs, axis: norm}
}

// Add defers element-wise addition with broadcasting.
func (b *Backend) Add(x, y record.Array) record.Array {
	return b.binary(opAdd, x, y)
}

// Sub defers element-wise subtraction with broadcasting.
func (b *Backend) Sub(x, y record.Array) record.Array {
	return b.binary(opSub, x, y)
}

// Mul defers element-wise multiplication with broadcasting.
func (b *Backend) Mul(x, y record.Array) record.Array {
	return b.binary(opMul, x, y)
}

// Div defers element-wise division with broadcasting.
func (b *Backend) Div(x, y record.Array) record.Array {
	return b.binary(opDiv, x, y)
}

func (b *Backend) binary(kind opKind, x, y record.Array) record.Array {
	xn, yn := b.getFloat(x), b.getFloat(y)
	shape, _, err := record.BroadcastShapes(xn.shape, yn.shape)
	if err != nil {
		panic(fmt.Sprintf("graph: %v", err))
	}
	return &node{backend: b, kind: kind, dtype: record.Float32, shape: shape, inputs: []*node{xn, yn}}
}

// AddScalar defers adding a scalar to every element.
func (b *Backend) AddScalar(a record.Array, s float64) record.Array {
	n := b.getFloat(a)
	return &node{backend: b, kind: opAddScalar, dtype: record.Float32, shape: n.shape.Clone(), inputs: []*node{n}, scalar: s}
}

// MulScalar defers multiplying every element by a scalar.
func (b *Backend) MulScalar(a record.Array, s float64) record.Array {
	n := b.getFloat(a)
	return &node{backend: b, kind: opMulScalar, dtype: record.Float32, shape: n.shape.Clone(), inputs: []*node{n}, scalar: s}
}

// Read executes the graph below the node and returns the host values.
func (b *Backend) Read(a record.Array) []float64 {
	n := b.get(a)
	n.materialize()
	if n.dtype == record.Float32 {
		out := make([]float64, len(n.f32))
		for i, x := range n.f32 {
			out[i] = float64(x)
		}
		return out
	}
	out := make([]float64, len(n.i32))
	for i, x := range n.i32 {
		out[i] = float64(x)
	}
	return out
}
