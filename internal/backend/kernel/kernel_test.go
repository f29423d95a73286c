package kernel

import (
	"testing"

	"github.com/strata-ml/strata/internal/record"
)

func assertFloats(t *testing.T, got, want []float32, msg string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: %d values, want %d", msg, len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s: value[%d] = %v, want %v", msg, i, got[i], want[i])
			return
		}
	}
}

func TestStack(t *testing.T) {
	parts := [][]float32{{1, 2}, {3, 4}, {5, 6}}
	out, shape := Stack(parts, record.Shape{2})
	if !shape.Equal(record.Shape{3, 2}) {
		t.Errorf("shape = %v, want [3 2]", shape)
	}
	assertFloats(t, out, []float32{1, 2, 3, 4, 5, 6}, "stack")
}

func TestStackInt(t *testing.T) {
	parts := [][]int32{{1}, {2}}
	out, shape := Stack(parts, record.Shape{})
	if !shape.Equal(record.Shape{2}) {
		t.Errorf("shape = %v, want [2]", shape)
	}
	if out[0] != 1 || out[1] != 2 {
		t.Errorf("stack = %v", out)
	}
}

func TestIndex(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	out, shape := Index(data, record.Shape{3, 2}, 1)
	if !shape.Equal(record.Shape{2}) {
		t.Errorf("shape = %v, want [2]", shape)
	}
	assertFloats(t, out, []float32{3, 4}, "index")

	// The slice is a copy, not a view.
	out[0] = 99
	if data[2] != 3 {
		t.Error("Index should copy, not alias")
	}
}

func TestIndexOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Index out of range should panic")
		}
	}()
	Index([]float32{1, 2}, record.Shape{2}, 2)
}

func TestNarrow(t *testing.T) {
	// (2, 3) row-major: [[1 2 3] [4 5 6]]
	data := []float32{1, 2, 3, 4, 5, 6}

	out, shape := Narrow(data, record.Shape{2, 3}, 1, 1, 2)
	if !shape.Equal(record.Shape{2, 2}) {
		t.Errorf("shape = %v, want [2 2]", shape)
	}
	assertFloats(t, out, []float32{2, 3, 5, 6}, "narrow axis 1")

	out, shape = Narrow(data, record.Shape{2, 3}, 0, 1, 1)
	if !shape.Equal(record.Shape{1, 3}) {
		t.Errorf("shape = %v, want [1 3]", shape)
	}
	assertFloats(t, out, []float32{4, 5, 6}, "narrow axis 0")

	// Negative axis counts from the end.
	out, _ = Narrow(data, record.Shape{2, 3}, -1, 0, 1)
	assertFloats(t, out, []float32{1, 4}, "narrow axis -1")
}

func TestConcat(t *testing.T) {
	a := []float32{1, 2, 3, 4}    // (2, 2)
	b := []float32{5, 6}          // (2, 1)
	out, shape := Concat([][]float32{a, b}, []record.Shape{{2, 2}, {2, 1}}, -1)
	if !shape.Equal(record.Shape{2, 3}) {
		t.Errorf("shape = %v, want [2 3]", shape)
	}
	assertFloats(t, out, []float32{1, 2, 5, 3, 4, 6}, "concat axis -1")

	out, shape = Concat([][]float32{a, a}, []record.Shape{{2, 2}, {2, 2}}, 0)
	if !shape.Equal(record.Shape{4, 2}) {
		t.Errorf("shape = %v, want [4 2]", shape)
	}
	assertFloats(t, out, []float32{1, 2, 3, 4, 1, 2, 3, 4}, "concat axis 0")
}

func TestBinaryOpSameShape(t *testing.T) {
	out, shape := BinaryOp(
		[]float32{1, 2, 3}, record.Shape{3},
		[]float32{10, 20, 30}, record.Shape{3},
		func(x, y float32) float32 { return x + y },
	)
	if !shape.Equal(record.Shape{3}) {
		t.Errorf("shape = %v, want [3]", shape)
	}
	assertFloats(t, out, []float32{11, 22, 33}, "add")
}

func TestBinaryOpBroadcast(t *testing.T) {
	// (2, 2) / (2, 1): each row divided by its own scalar.
	out, shape := BinaryOp(
		[]float32{2, 4, 9, 12}, record.Shape{2, 2},
		[]float32{2, 3}, record.Shape{2, 1},
		func(x, y float32) float32 { return x / y },
	)
	if !shape.Equal(record.Shape{2, 2}) {
		t.Errorf("shape = %v, want [2 2]", shape)
	}
	assertFloats(t, out, []float32{1, 2, 3, 4}, "broadcast div")

	// Trailing-dim broadcast: (2, 2) + (2,).
	out, _ = BinaryOp(
		[]float32{1, 2, 3, 4}, record.Shape{2, 2},
		[]float32{10, 20}, record.Shape{2},
		func(x, y float32) float32 { return x + y },
	)
	assertFloats(t, out, []float32{11, 22, 13, 24}, "trailing broadcast add")
}

func TestScalarOp(t *testing.T) {
	out := ScalarOp([]float32{1, 2, 3}, func(x float32) float32 { return x * 2 })
	assertFloats(t, out, []float32{2, 4, 6}, "scalar op")
}

func TestExpand(t *testing.T) {
	out := Expand([]float32{1, 2}, record.Shape{2, 1}, record.Shape{2, 3})
	assertFloats(t, out, []float32{1, 1, 1, 2, 2, 2}, "expand")

	// Same shape copies.
	src := []float32{1, 2, 3}
	out = Expand(src, record.Shape{3}, record.Shape{3})
	assertFloats(t, out, src, "expand identity")
	out[0] = 99
	if src[0] != 1 {
		t.Error("Expand should copy, not alias")
	}
}

func TestNormalizeAxis(t *testing.T) {
	if got := NormalizeAxis(-1, 3); got != 2 {
		t.Errorf("NormalizeAxis(-1, 3) = %d, want 2", got)
	}
	if got := NormalizeAxis(0, 3); got != 0 {
		t.Errorf("NormalizeAxis(0, 3) = %d, want 0", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("out-of-range axis should panic")
		}
	}()
	NormalizeAxis(3, 3)
}
