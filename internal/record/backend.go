package record

import "sync"

// Array is an opaque handle to a backend-owned array.
//
// The data behind the handle may live on the host, on an accelerator, or in a
// deferred execution graph. The record layer only relies on the metadata
// below plus the owning backend's operations; it never touches buffer
// contents directly.
type Array interface {
	// Shape returns the array's full shape (batch dims + inner dims).
	Shape() Shape
	// DType returns the array's element type.
	DType() DataType
	// Backend returns the backend that owns this array.
	Backend() Backend
}

// Backend is the capability set every numeric backend must provide.
//
// Construction and Read return/accept host data so records can be built from
// plain Go values and compared regardless of where the backend keeps its
// buffers. All other operations stay within the backend.
//
// Backends panic on programmer misuse (wrong dtype for an arithmetic kernel,
// out-of-range axis). Reshape returns an error because an element-count
// mismatch is a caller-input failure that the record layer surfaces as a
// ReshapeError.
type Backend interface {
	// Name identifies the backend. Backend identity for conflict detection
	// is the name, not the instance: two cpu backends are the same backend.
	Name() string

	// FromFloat32 constructs an array from host data. len(data) must equal
	// shape.NumElements().
	FromFloat32(data []float32, shape Shape) Array
	// FromInt32 constructs an integer array from host data.
	FromInt32(data []int32, shape Shape) Array

	// Reshape returns a view of a with the new shape. Fails when the element
	// counts differ.
	Reshape(a Array, shape Shape) (Array, error)
	// Stack joins arrays of identical shape along a new leading axis.
	Stack(arrs []Array) Array
	// Index slices along axis 0, dropping that axis.
	Index(a Array, i int) Array
	// Narrow slices [start, start+length) along the given axis. A negative
	// axis counts from the end.
	Narrow(a Array, axis, start, length int) Array
	// Concat joins arrays along an existing axis. A negative axis counts
	// from the end.
	Concat(arrs []Array, axis int) Array

	// Elementwise arithmetic with NumPy-style broadcasting. Float32 only.
	Add(a, b Array) Array
	Sub(a, b Array) Array
	Mul(a, b Array) Array
	Div(a, b Array) Array
	AddScalar(a Array, s float64) Array
	MulScalar(a Array, s float64) Array

	// Read materializes the array to host memory as float64 values in
	// row-major order. Lossless for float32 and int32 elements.
	Read(a Array) []float64
}

var (
	defaultMu      sync.RWMutex
	defaultBackend Backend
)

// RegisterDefaultBackend sets the backend used when construction receives
// neither backend-owned arrays nor an explicit override. The baseline CPU
// backend registers itself from its init function, following the
// database/sql driver idiom.
func RegisterDefaultBackend(b Backend) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultBackend = b
}

// DefaultBackend returns the registered default backend, or nil.
func DefaultBackend() Backend {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultBackend
}
