// Package kernel provides dense row-major host kernels shared by the CPU and
// graph backends: layout operations generic over the element type, and
// float32 elementwise arithmetic with NumPy-style broadcasting.
package kernel

import (
	"fmt"

	"github.com/strata-ml/strata/internal/record"
)

// NormalizeAxis resolves a possibly-negative axis against ndim and panics
// when out of range.
func NormalizeAxis(axis, ndim int) int {
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		panic(fmt.Sprintf("kernel: axis %d out of range for rank %d", axis, ndim))
	}
	return axis
}

// Stack joins n same-shape buffers along a new leading axis. In row-major
// layout this is buffer concatenation.
func Stack[T any](parts [][]T, part record.Shape) ([]T, record.Shape) {
	out := make([]T, 0, len(parts)*part.NumElements())
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, record.Shape{len(parts)}.Concat(part)
}

// Index slices the i-th block along axis 0, dropping that axis.
func Index[T any](data []T, shape record.Shape, i int) ([]T, record.Shape) {
	if len(shape) == 0 {
		panic("kernel: cannot index a scalar array")
	}
	if i < 0 || i >= shape[0] {
		panic(fmt.Sprintf("kernel: index %d out of range for shape %v", i, shape))
	}
	block := record.Shape(shape[1:]).NumElements()
	out := make([]T, block)
	copy(out, data[i*block:(i+1)*block])
	return out, shape[1:].Clone()
}

// Narrow copies [start, start+length) along the given axis.
func Narrow[T any](data []T, shape record.Shape, axis, start, length int) ([]T, record.Shape) {
	axis = NormalizeAxis(axis, len(shape))
	dim := shape[axis]
	if start < 0 || length < 0 || start+length > dim {
		panic(fmt.Sprintf("kernel: narrow [%d:%d) out of range for dimension %d", start, start+length, dim))
	}

	outer := record.Shape(shape[:axis]).NumElements()
	inner := record.Shape(shape[axis+1:]).NumElements()
	outShape := shape.Clone()
	outShape[axis] = length

	out := make([]T, 0, outer*length*inner)
	for o := 0; o < outer; o++ {
		base := (o*dim + start) * inner
		out = append(out, data[base:base+length*inner]...)
	}
	return out, outShape
}

// Concat joins buffers along an existing axis. Shapes must match on every
// other axis.
func Concat[T any](parts [][]T, shapes []record.Shape, axis int) ([]T, record.Shape) {
	first := shapes[0]
	axis = NormalizeAxis(axis, len(first))

	total := 0
	for _, s := range shapes {
		if len(s) != len(first) {
			panic("kernel: concat rank mismatch")
		}
		for d := range s {
			if d != axis && s[d] != first[d] {
				panic(fmt.Sprintf("kernel: concat shape mismatch: %v vs %v", first, s))
			}
		}
		total += s[axis]
	}

	outShape := first.Clone()
	outShape[axis] = total
	outer := record.Shape(first[:axis]).NumElements()
	inner := record.Shape(first[axis+1:]).NumElements()

	out := make([]T, 0, outShape.NumElements())
	for o := 0; o < outer; o++ {
		for i, p := range parts {
			block := shapes[i][axis] * inner
			out = append(out, p[o*block:(o+1)*block]...)
		}
	}
	return out, outShape
}

// BinaryOp applies op elementwise over two float32 buffers with NumPy-style
// broadcasting, returning the result buffer and its shape.
func BinaryOp(a []float32, aShape record.Shape, b []float32, bShape record.Shape, op func(x, y float32) float32) ([]float32, record.Shape) {
	outShape, needsBroadcast, err := record.BroadcastShapes(aShape, bShape)
	if err != nil {
		panic(fmt.Sprintf("kernel: %v", err))
	}

	n := outShape.NumElements()
	out := make([]float32, n)
	if !needsBroadcast && aShape.Equal(bShape) {
		for i := range out {
			out[i] = op(a[i], b[i])
		}
		return out, outShape
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)
	for i := 0; i < n; i++ {
		ai, bi := 0, 0
		rem := i
		for d := range outShape {
			c := rem / outStrides[d]
			rem %= outStrides[d]
			ai += c * aStrides[d]
			bi += c * bStrides[d]
		}
		out[i] = op(a[ai], b[bi])
	}
	return out, outShape
}

// ScalarOp applies op to every element.
func ScalarOp(a []float32, op func(x float32) float32) []float32 {
	out := make([]float32, len(a))
	for i, x := range a {
		out[i] = op(x)
	}
	return out
}

// Expand materializes a buffer broadcast from its shape to a target shape.
func Expand(a []float32, from, to record.Shape) []float32 {
	if from.Equal(to) {
		out := make([]float32, len(a))
		copy(out, a)
		return out
	}

	outStrides := to.ComputeStrides()
	aStrides := broadcastStrides(from, to)
	n := to.NumElements()
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		ai := 0
		rem := i
		for d := range to {
			c := rem / outStrides[d]
			rem %= outStrides[d]
			ai += c * aStrides[d]
		}
		out[i] = a[ai]
	}
	return out
}

// broadcastStrides maps input strides onto the output shape, zeroing the
// stride on broadcast dimensions so the same input element repeats.
func broadcastStrides(in, out record.Shape) []int {
	strides := make([]int, len(out))
	inStrides := in.ComputeStrides()
	offset := len(out) - len(in)
	for i := range out {
		j := i - offset
		if j >= 0 && in[j] != 1 {
			strides[i] = inStrides[j]
		}
	}
	return strides
}
