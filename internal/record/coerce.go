package record

import (
	"fmt"
	"reflect"
)

// ToArray converts a raw field value to an array owned by b with the given
// element type.
//
// Accepted inputs:
//   - an Array: returned as-is when it already lives on b with the right
//     dtype, otherwise converted through host readback;
//   - Go numeric scalars and (nested) slices: flattened to host data, the
//     nesting structure becomes the shape.
//
// Float inputs coerce to float32, integer inputs to int32, regardless of the
// host value's width.
func ToArray(b Backend, dt DataType, v any) (Array, error) {
	if arr, ok := v.(Array); ok {
		if arr.Backend().Name() == b.Name() && arr.DType() == dt {
			return arr, nil
		}
		return fromHost(b, dt, arr.Backend().Read(arr), arr.Shape())
	}

	vals, shape, err := flattenHost(v)
	if err != nil {
		return nil, err
	}
	return fromHost(b, dt, vals, shape)
}

func fromHost(b Backend, dt DataType, vals []float64, shape Shape) (Array, error) {
	switch dt {
	case Float32, Float64:
		data := make([]float32, len(vals))
		for i, x := range vals {
			data[i] = float32(x)
		}
		return b.FromFloat32(data, shape), nil
	case Int32, Int64:
		data := make([]int32, len(vals))
		for i, x := range vals {
			data[i] = int32(x)
		}
		return b.FromInt32(data, shape), nil
	default:
		return nil, fmt.Errorf("unsupported field dtype %s", dt)
	}
}

// flattenHost walks a scalar or nested slice value and returns the flat
// row-major data plus the implied shape. Ragged nesting is an error.
func flattenHost(v any) ([]float64, Shape, error) {
	rv := reflect.ValueOf(v)
	shape, err := hostShape(rv)
	if err != nil {
		return nil, nil, err
	}

	vals := make([]float64, 0, shape.NumElements())
	vals, err = appendHost(vals, rv, shape)
	if err != nil {
		return nil, nil, err
	}
	return vals, shape, nil
}

func hostShape(rv reflect.Value) (Shape, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if n == 0 {
			return Shape{0}, nil
		}
		inner, err := hostShape(rv.Index(0))
		if err != nil {
			return nil, err
		}
		return Shape{n}.Concat(inner), nil
	case reflect.Interface:
		return hostShape(rv.Elem())
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Shape{}, nil
	default:
		return nil, fmt.Errorf("cannot coerce value of type %T to an array", rv.Interface())
	}
}

func appendHost(vals []float64, rv reflect.Value, shape Shape) ([]float64, error) {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	if len(shape) == 0 {
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return append(vals, rv.Float()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return append(vals, float64(rv.Int())), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return append(vals, float64(rv.Uint())), nil
		default:
			return nil, fmt.Errorf("cannot coerce element of type %s", rv.Kind())
		}
	}

	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("ragged nested sequence: expected %d more dimension(s), got %s",
			len(shape), rv.Kind())
	}
	if rv.Len() != shape[0] {
		return nil, fmt.Errorf("ragged nested sequence: expected length %d, got %d", shape[0], rv.Len())
	}

	var err error
	for i := 0; i < rv.Len(); i++ {
		vals, err = appendHost(vals, rv.Index(i), shape[1:])
		if err != nil {
			return nil, err
		}
	}
	return vals, nil
}
