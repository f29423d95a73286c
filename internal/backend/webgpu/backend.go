// Package webgpu implements a GPU-accelerated backend for record arrays.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// Elementwise float32 arithmetic runs as WGSL compute shaders with an
// upload-dispatch-readback flow. Layout operations (reshape, stack, index,
// narrow, concat) are pure memory moves and run host-side; array buffers are
// kept host-resident between dispatches.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/strata-ml/strata/internal/backend/kernel"
	"github.com/strata-ml/strata/internal/record"
)

// Verify that Backend implements record.Backend.
var _ record.Backend = (*Backend)(nil)

// Backend implements record operations on GPU using WebGPU.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex
}

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (backend *Backend, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return nil, fmt.Errorf("webgpu: failed to create instance: %w", instanceErr)
	}
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
	}, nil
}

// Release frees the GPU device, adapter and instance.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.pipelines {
		p.Release()
	}
	for _, s := range b.shaders {
		s.Release()
	}
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "webgpu"
}

// array keeps its buffer host-resident between dispatches. Exactly one of
// f32/i32 is set, matching dtype.
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
		panic(fmt.Sprintf("webgpu: array owned by backend %s", a.Backend().Name()))
	}
	return arr
}

func (b *Backend) getFloat(a record.Array) *array {
	arr := b.get(a)
	if arr.dtype != record.Float32 {
		panic(fmt.Sprintf("webgpu: only float32 is supported for arithmetic, got %s", arr.dtype))
	}
	return arr
}

// FromFloat32 constructs an array from host data.
func (b *Backend) FromFloat32(data []float32, shape record.Shape) record.Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("webgpu: %d values for shape %v", len(data), shape))
	}
	owned := make([]float32, len(data))
	copy(owned, data)
	return &array{backend: b, dtype: record.Float32, shape: shape.Clone(), f32: owned}
}

// FromInt32 constructs an integer array from host data.
func (b *Backend) FromInt32(data []int32, shape record.Shape) record.Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("webgpu: %d values for shape %v", len(data), shape))
	}
	owned := make([]int32, len(data))
	copy(owned, data)
	return &array{backend: b, dtype: record.Int32, shape: shape.Clone(), i32: owned}
}

// Reshape returns a view with the new shape.
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
			panic(fmt.Sprintf("webgpu: stack mismatch: %s%v vs %s%v", first.dtype, first.shape, arr.dtype, arr.shape))
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

// Add performs element-wise addition on GPU.
func (b *Backend) Add(x, y record.Array) record.Array {
	return b.binary(x, y, "add", addShader)
}

// Sub performs element-wise subtraction on GPU.
func (b *Backend) Sub(x, y record.Array) record.Array {
	return b.binary(x, y, "sub", subShader)
}

// Mul performs element-wise multiplication on GPU.
func (b *Backend) Mul(x, y record.Array) record.Array {
	return b.binary(x, y, "mul", mulShader)
}

// Div performs element-wise division on GPU.
func (b *Backend) Div(x, y record.Array) record.Array {
	return b.binary(x, y, "div", divShader)
}

// binary broadcasts both operands host-side to the common shape, then runs
// the same-shape elementwise shader.
func (b *Backend) binary(x, y record.Array, shaderName, shaderCode string) record.Array {
	xa, ya := b.getFloat(x), b.getFloat(y)
	outShape, _, err := record.BroadcastShapes(xa.shape, ya.shape)
	if err != nil {
		panic(fmt.Sprintf("webgpu: %s: %v", shaderName, err))
	}

	xd := kernel.Expand(xa.f32, xa.shape, outShape)
	yd := kernel.Expand(ya.f32, ya.shape, outShape)
	data, err := b.runBinaryOp(xd, yd, shaderName, shaderCode)
	if err != nil {
		panic("webgpu: " + shaderName + ": " + err.Error())
	}
	return &array{backend: b, dtype: record.Float32, shape: outShape, f32: data}
}

// AddScalar adds a scalar to every element on GPU.
func (b *Backend) AddScalar(a record.Array, s float64) record.Array {
	arr := b.getFloat(a)
	data, err := b.runScalarOp(arr.f32, float32(s), "add_scalar", addScalarShader)
	if err != nil {
		panic("webgpu: AddScalar: " + err.Error())
	}
	return &array{backend: b, dtype: record.Float32, shape: arr.shape.Clone(), f32: data}
}

// MulScalar multiplies every element by a scalar on GPU.
func (b *Backend) MulScalar(a record.Array, s float64) record.Array {
	arr := b.getFloat(a)
	data, err := b.runScalarOp(arr.f32, float32(s), "mul_scalar", mulScalarShader)
	if err != nil {
		panic("webgpu: MulScalar: " + err.Error())
	}
	return &array{backend: b, dtype: record.Float32, shape: arr.shape.Clone(), f32: data}
}

// Read returns the host copy of the array.
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
