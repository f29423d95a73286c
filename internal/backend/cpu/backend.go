// Package cpu implements the baseline host backend for record arrays.
//
// It is the default backend: constructing a record without backend-owned
// inputs or an explicit override lands here. The package registers itself
// with the record layer from init, following the database/sql driver idiom.
package cpu

import (
	"fmt"

	"github.com/strata-ml/strata/internal/backend/kernel"
	"github.com/strata-ml/strata/internal/record"
)

func init() {
	record.RegisterDefaultBackend(New())
}

// Verify that Backend implements record.Backend.
var _ record.Backend = (*Backend)(nil)

// Backend implements record.Backend with pure Go dense kernels.
type Backend struct{}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "cpu"
}

// array is a dense row-major host array. Exactly one of f32/i32 is set,
// matching dtype.
type array struct {
	backend *Backend
	dtype   record.DataType
	shape   record.Shape
	f32     []float32
	i32     []int32
}

func (a *array) Shape() record.Shape     { return a.shape.Clone() }
func (a *array) DType() record.DataType  { return a.dtype }
func (a *array) Backend() record.Backend { return a.backend }

func (b *Backend) get(a record.Array) *array {
	arr, ok := a.(*array)
	if !ok {
		panic(fmt.Sprintf("cpu: array owned by backend %s", a.Backend().Name()))
	}
	return arr
}

func (b *Backend) getFloat(a record.Array) *array {
	arr := b.get(a)
	if arr.dtype != record.Float32 {
		panic(fmt.Sprintf("cpu: only float32 is supported for arithmetic, got %s", arr.dtype))
	}
	return arr
}

// FromFloat32 constructs an array from host data.
func (b *Backend) FromFloat32(data []float32, shape record.Shape) record.Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("cpu: %d values for shape %v", len(data), shape))
	}
	owned := make([]float32, len(data))
	copy(owned, data)
	return &array{backend: b, dtype: record.Float32, shape: shape.Clone(), f32: owned}
}

// FromInt32 constructs an integer array from host data.
func (b *Backend) FromInt32(data []int32, shape record.Shape) record.Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("cpu: %d values for shape %v", len(data), shape))
	}
	owned := make([]int32, len(data))
	copy(owned, data)
	return &array{backend: b, dtype: record.Int32, shape: shape.Clone(), i32: owned}
}

// Reshape returns a view with the new shape. The buffer is shared: records
// are immutable by convention, so views never observe writes.
func (b *Backend) Reshape(a record.Array, shape record.Shape) (record.Array, error) {
	arr := b.get(a)
	if shape.NumElements() != arr.shape.NumElements() {
		return nil, fmt.Errorf("reshape: %d elements into shape %v (%d elements)",
			arr.shape.NumElements(), shape, shape.NumElements())
	}
	return &array{backend: b, dtype: arr.dtype, shape: shape.Clone(), f32: arr.f32, i32: arr.i32}, nil
}

// Stack joins same-shape arrays along a new leading axis.
func (b *Backend) Stack(arrs []record.Array) record.Array {
	first := b.get(arrs[0])
	for _, a := range arrs[1:] {
		arr := b.get(a)
		if !arr.shape.Equal(first.shape) || arr.dtype != first.dtype {
			panic(fmt.Sprintf("cpu: stack mismatch: %s%v vs %s%v", first.dtype, first.shape, arr.dtype, arr.shape))
		}
	}

	if first.dtype == record.Float32 {
		parts := make([][]float32, len(arrs))
		for i, a := range arrs {
			parts[i] = b.get(a).f32
		}
		data, shape := kernel.Stack(parts, first.shape)
		return &array{backend: b, dtype: first.dtype, shape: shape, f32: data}
	}
	parts := make([][]int32, len(arrs))
	for i, a := range arrs {
		parts[i] = b.get(a).i32
	}
	data, shape := kernel.Stack(parts, first.shape)
	return &array{backend: b, dtype: first.dtype, shape: shape, i32: data}
}

// Index slices along axis 0, dropping that axis.
func (b *Backend) Index(a record.Array, i int) record.Array {
	arr := b.get(a)
	if arr.dtype == record.Float32 {
		data, shape := kernel.Index(arr.f32, arr.shape, i)
		return &array{backend: b, dtype: arr.dtype, shape: shape, f32: data}
	}
	data, shape := kernel.Index(arr.i32, arr.shape, i)
	return &array{backend: b, dtype: arr.dtype, shape: shape, i32: data}
}

// Narrow slices [start, start+length) along the given axis.
func (b *Backend) Narrow(a record.Array, axis, start, length int) record.Array {
	arr := b.get(a)
	if arr.dtype == record.Float32 {
		data, shape := kernel.Narrow(arr.f32, arr.shape, axis, start, length)
		return &array{backend: b, dtype: arr.dtype, shape: shape, f32: data}
	}
	data, shape := kernel.Narrow(arr.i32, arr.shape, axis, start, length)
	return &array{backend: b, dtype: arr.dtype, shape: shape, i32: data}
}

// Concat joins arrays along an existing axis.
func (b *Backend) Concat(arrs []record.Array, axis int) record.Array {
	first := b.get(arrs[0])
	shapes := make([]record.Shape, len(arrs))
	for i, a := range arrs {
		shapes[i] = b.get(a).shape
	}

	if first.dtype == record.Float32 {
		parts := make([][]float32, len(arrs))
		for i, a := range arrs {
			parts[i] = b.get(a).f32
		}
		data, shape := kernel.Concat(parts, shapes, axis)
		return &array{backend: b, dtype: first.dtype, shape: shape, f32: data}
	}
	parts := make([][]int32, len(arrs))
	for i, a := range arrs {
		parts[i] = b.get(a).i32
	}
	data, shape := kernel.Concat(parts, shapes, axis)
	return &array{backend: b, dtype: first.dtype, shape: shape, i32: data}
}

// Add performs element-wise addition with broadcasting.
func (b *Backend) Add(x, y record.Array) record.Array {
	return b.binary(x, y, func(a, c float32) float32 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *Backend) Sub(x, y record.Array) record.Array {
	return b.binary(x, y, func(a, c float32) float32 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *Backend) Mul(x, y record.Array) record.Array {
	return b.binary(x, y, func(a, c float32) float32 { return a * c })
}

// Div performs element-wise division with broadcasting.
func (b *Backend) Div(x, y record.Array) record.Array {
	return b.binary(x, y, func(a, c float32) float32 { return a / c })
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(a record.Array, s float64) record.Array {
	arr := b.getFloat(a)
	f := float32(s)
	data := kernel.ScalarOp(arr.f32, func(x float32) float32 { return x + f })
	return &array{backend: b, dtype: record.Float32, shape: arr.shape.Clone(), f32: data}
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(a record.Array, s float64) record.Array {
	arr := b.getFloat(a)
	f := float32(s)
	data := kernel.ScalarOp(arr.f32, func(x float32) float32 { return x * f })
	return &array{backend: b, dtype: record.Float32, shape: arr.shape.Clone(), f32: data}
}

func (b *Backend) binary(x, y record.Array, op func(a, c float32) float32) record.Array {
	xa, ya := b.getFloat(x), b.getFloat(y)
	data, shape := kernel.BinaryOp(xa.f32, xa.shape, ya.f32, ya.shape, op)
	return &array{backend: b, dtype: record.Float32, shape: shape, f32: data}
}

// Read materializes the array to host memory.
func (b *Backend) Read(a record.Array) []float64 {
	arr := b.get(a)
	if arr.dtype == record.Float32 {
		out := make([]float64, len(arr.f32))
		for i, x := range arr.f32 {
			out[i] = float64(x)
		}
		return out
	}
	out := make([]float64, len(arr.i32))
	for i, x := range arr.i32 {
		out[i] = float64(x)
	}
	return out
}
