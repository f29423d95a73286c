package record

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple host backend for testing the record machinery.
// It implements every operation naively over float64 buffers for
// correctness verification.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

type mockArray struct {
	backend *MockBackend
	dtype   DataType
	shape   Shape
	data    []float64
}

func (a *mockArray) Shape() Shape     { return a.shape.Clone() }
func (a *mockArray) DType() DataType  { return a.dtype }
func (a *mockArray) Backend() Backend { return a.backend }

func (m *MockBackend) get(a Array) *mockArray {
	arr, ok := a.(*mockArray)
	if !ok {
		panic(fmt.Sprintf("mock: array owned by backend %s", a.Backend().Name()))
	}
	return arr
}

// FromFloat32 constructs an array from host data.
func (m *MockBackend) FromFloat32(data []float32, shape Shape) Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("mock: %d values for shape %v", len(data), shape))
	}
	vals := make([]float64, len(data))
	for i, x := range data {
		vals[i] = float64(x)
	}
	return &mockArray{backend: m, dtype: Float32, shape: shape.Clone(), data: vals}
}

// FromInt32 constructs an integer array from host data.
func (m *MockBackend) FromInt32(data []int32, shape Shape) Array {
	if len(data) != shape.NumElements() {
		panic(fmt.Sprintf("mock: %d values for shape %v", len(data), shape))
	}
	vals := make([]float64, len(data))
	for i, x := range data {
		vals[i] = float64(x)
	}
	return &mockArray{backend: m, dtype: Int32, shape: shape.Clone(), data: vals}
}

// Reshape returns a view with the new shape.
func (m *MockBackend) Reshape(a Array, shape Shape) (Array, error) {
	arr := m.get(a)
	if shape.NumElements() != len(arr.data) {
		return nil, fmt.Errorf("reshape: %d elements into shape %v (%d elements)",
			len(arr.data), shape, shape.NumElements())
	}
	return &mockArray{backend: m, dtype: arr.dtype, shape: shape.Clone(), data: arr.data}, nil
}

// Stack joins same-shape arrays along a new leading axis.
func (m *MockBackend) Stack(arrs []Array) Array {
	first := m.get(arrs[0])
	data := make([]float64, 0, len(arrs)*len(first.data))
	for _, a := range arrs {
		arr := m.get(a)
		if !arr.shape.Equal(first.shape) {
			panic(fmt.Sprintf("mock: stack shape mismatch: %v vs %v", first.shape, arr.shape))
		}
		data = append(data, arr.data...)
	}
	return &mockArray{
		backend: m,
		dtype:   first.dtype,
		shape:   Shape{len(arrs)}.Concat(first.shape),
		data:    data,
	}
}

// Index slices along axis 0, dropping that axis.
func (m *MockBackend) Index(a Array, i int) Array {
	arr := m.get(a)
	if len(arr.shape) == 0 {
		panic("mock: cannot index a scalar array")
	}
	block := Shape(arr.shape[1:]).NumElements()
	data := make([]float64, block)
	copy(data, arr.data[i*block:(i+1)*block])
	return &mockArray{backend: m, dtype: arr.dtype, shape: arr.shape[1:].Clone(), data: data}
}

// Narrow slices [start, start+length) along the given axis.
func (m *MockBackend) Narrow(a Array, axis, start, length int) Array {
	arr := m.get(a)
	axis = normalizeAxis(axis, len(arr.shape))

	outer := Shape(arr.shape[:axis]).NumElements()
	dim := arr.shape[axis]
	inner := Shape(arr.shape[axis+1:]).NumElements()
	if start < 0 || start+length > dim {
		panic(fmt.Sprintf("mock: narrow [%d:%d) out of range for dimension %d", start, start+length, dim))
	}

	outShape := arr.shape.Clone()
	outShape[axis] = length
	data := make([]float64, 0, outer*length*inner)
	for o := 0; o < outer; o++ {
		base := (o*dim + start) * inner
		data = append(data, arr.data[base:base+length*inner]...)
	}
	return &mockArray{backend: m, dtype: arr.dtype, shape: outShape, data: data}
}

// Concat joins arrays along an existing axis.
func (m *MockBackend) Concat(arrs []Array, axis int) Array {
	first := m.get(arrs[0])
	axis = normalizeAxis(axis, len(first.shape))

	total := 0
	for _, a := range arrs {
		arr := m.get(a)
		if len(arr.shape) != len(first.shape) {
			panic("mock: concat rank mismatch")
		}
		for d := range arr.shape {
			if d != axis && arr.shape[d] != first.shape[d] {
				panic(fmt.Sprintf("mock: concat shape mismatch on axis %d: %v vs %v", d, first.shape, arr.shape))
			}
		}
		total += arr.shape[axis]
	}

	outShape := first.shape.Clone()
	outShape[axis] = total
	outer := Shape(first.shape[:axis]).NumElements()
	inner := Shape(first.shape[axis+1:]).NumElements()

	data := make([]float64, 0, outShape.NumElements())
	for o := 0; o < outer; o++ {
		for _, a := range arrs {
			arr := m.get(a)
			block := arr.shape[axis] * inner
			data = append(data, arr.data[o*block:(o+1)*block]...)
		}
	}
	return &mockArray{backend: m, dtype: first.dtype, shape: outShape, data: data}
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b Array) Array {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b Array) Array {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b Array) Array {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b Array) Array {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

// AddScalar adds a scalar to every element.
func (m *MockBackend) AddScalar(a Array, s float64) Array {
	return m.mapElems(a, func(x float64) float64 { return x + s })
}

// MulScalar multiplies every element by a scalar.
func (m *MockBackend) MulScalar(a Array, s float64) Array {
	return m.mapElems(a, func(x float64) float64 { return x * s })
}

// Read materializes the array to host memory.
func (m *MockBackend) Read(a Array) []float64 {
	arr := m.get(a)
	out := make([]float64, len(arr.data))
	copy(out, arr.data)
	return out
}

func (m *MockBackend) mapElems(a Array, op func(float64) float64) Array {
	arr := m.get(a)
	data := make([]float64, len(arr.data))
	for i, x := range arr.data {
		data[i] = op(x)
	}
	return &mockArray{backend: m, dtype: arr.dtype, shape: arr.shape.Clone(), data: data}
}

// elementWise performs element-wise operations with broadcasting.
func (m *MockBackend) elementWise(a, b Array, op func(x, y float64) float64) Array {
	x, y := m.get(a), m.get(b)
	outShape, _, err := BroadcastShapes(x.shape, y.shape)
	if err != nil {
		panic(err)
	}

	outStrides := outShape.ComputeStrides()
	xStrides := broadcastStrides(x.shape, outShape)
	yStrides := broadcastStrides(y.shape, outShape)

	n := outShape.NumElements()
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		xi, yi := 0, 0
		rem := i
		for d := range outShape {
			c := rem / outStrides[d]
			rem %= outStrides[d]
			xi += c * xStrides[d]
			yi += c * yStrides[d]
		}
		data[i] = op(x.data[xi], y.data[yi])
	}
	return &mockArray{backend: m, dtype: x.dtype, shape: outShape, data: data}
}

// broadcastStrides maps input strides onto the output shape, zeroing the
// stride on broadcast dimensions so the same input element repeats.
func broadcastStrides(in, out Shape) []int {
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

// normalizeAxis resolves a possibly-negative axis against ndim.
func normalizeAxis(axis, ndim int) int {
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		panic(fmt.Sprintf("axis %d out of range for rank %d", axis, ndim))
	}
	return axis
}
