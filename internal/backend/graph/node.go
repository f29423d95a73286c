package graph

import (
	"sync"

	"github.com/strata-ml/strata/internal/backend/kernel"
	"github.com/strata-ml/strata/internal/record"
)

type opKind int

const (
	opLeaf opKind = iota
	opReshape
	opStack
	opIndex
	opNarrow
	opConcat
	opAdd
	opSub
	opMul
	opDiv
	opAddScalar
	opMulScalar
)

// node is one symbolic array in a deferred graph. Shape and dtype are fixed
// at construction; buffers appear on first materialization and are cached
// behind once, so concurrent reads of a shared subgraph are safe.
type node struct {
	backend *Backend
	kind    opKind
	inputs  []*node
	shape   record.Shape
	dtype   record.DataType

	// leaf buffers (opLeaf only)
	leafF32 []float32
	leafI32 []int32

	// operation parameters
	scalar        float64
	axis, index   int
	start, length int

	once sync.Once
	f32  []float32
	i32  []int32
}

func (n *node) Shape() record.Shape     { return n.shape.Clone() }
func (n *node) DType() record.DataType  { return n.dtype }
func (n *node) Backend() record.Backend { return n.backend }

// materialize executes the subgraph rooted at n, depth first.
func (n *node) materialize() {
	n.once.Do(func() {
		for _, in := range n.inputs {
			in.materialize()
		}

		switch n.kind {
		case opLeaf:
			n.f32, n.i32 = n.leafF32, n.leafI32

		case opReshape:
			n.f32, n.i32 = n.inputs[0].f32, n.inputs[0].i32

		case opStack:
			if n.dtype == record.Float32 {
				parts := make([][]float32, len(n.inputs))
				for i, in := range n.inputs {
					parts[i] = in.f32
				}
				n.f32, _ = kernel.Stack(parts, n.inputs[0].shape)
			} else {
				parts := make([][]int32, len(n.inputs))
				for i, in := range n.inputs {
					parts[i] = in.i32
				}
				n.i32, _ = kernel.Stack(parts, n.inputs[0].shape)
			}

		case opIndex:
			in := n.inputs[0]
			if n.dtype == record.Float32 {
				n.f32, _ = kernel.Index(in.f32, in.shape, n.index)
			} else {
				n.i32, _ = kernel.Index(in.i32, in.shape, n.index)
			}

		case opNarrow:
			in := n.inputs[0]
			if n.dtype == record.Float32 {
				n.f32, _ = kernel.Narrow(in.f32, in.shape, n.axis, n.start, n.length)
			} else {
				n.i32, _ = kernel.Narrow(in.i32, in.shape, n.axis, n.start, n.length)
			}

		case opConcat:
			shapes := make([]record.Shape, len(n.inputs))
			if n.dtype == record.Float32 {
				parts := make([][]float32, len(n.inputs))
				for i, in := range n.inputs {
					parts[i], shapes[i] = in.f32, in.shape
				}
				n.f32, _ = kernel.Concat(parts, shapes, n.axis)
			} else {
				parts := make([][]int32, len(n.inputs))
				for i, in := range n.inputs {
					parts[i], shapes[i] = in.i32, in.shape
				}
				n.i32, _ = kernel.Concat(parts, shapes, n.axis)
			}

		case opAdd:
			n.f32 = n.binaryData(func(x, y float32) float32 { return x + y })
		case opSub:
			n.f32 = n.binaryData(func(x, y float32) float32 { return x - y })
		case opMul:
			n.f32 = n.binaryData(func(x, y float32) float32 { return x * y })
		case opDiv:
			n.f32 = n.binaryData(func(x, y float32) float32 { return x / y })

		case opAddScalar:
			s := float32(n.scalar)
			n.f32 = kernel.ScalarOp(n.inputs[0].f32, func(x float32) float32 { return x + s })
		case opMulScalar:
			s := float32(n.scalar)
			n.f32 = kernel.ScalarOp(n.inputs[0].f32, func(x float32) float32 { return x * s })
		}
	})
}

func (n *node) binaryData(op func(x, y float32) float32) []float32 {
	a, b := n.inputs[0], n.inputs[1]
	out, _ := kernel.BinaryOp(a.f32, a.shape, b.f32, b.shape, op)
	return out
}
