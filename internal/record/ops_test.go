package record

import (
	"errors"
	"strings"
	"testing"
)

func assertEqualData(t *testing.T, r *Record, field string, want []float64) {
	t.Helper()
	arr, err := r.Field(field)
	if err != nil {
		t.Fatalf("Field(%s) failed: %v", field, err)
	}
	got := r.Backend().Read(arr)
	if len(got) != len(want) {
		t.Fatalf("%s: %d values, want %d", field, len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %v, want %v", field, i, got[i], want[i])
			return
		}
	}
}

func TestReshape(t *testing.T) {
	b := NewMockBackend()
	r := makePoint(t, b, Shape{2, 3})

	out, err := r.Reshape(Shape{3, 2})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	assertEqualShape(t, Shape{3, 2}, out.BatchShape(), "batch shape after reshape")

	// Inner dimensions are untouched.
	pos, _ := out.Field("pos")
	assertEqualShape(t, Shape{3, 2, 3}, pos.Shape(), "pos shape after reshape")
	rot, _ := out.Field("rot")
	assertEqualShape(t, Shape{3, 2, 3, 3}, rot.Shape(), "rot shape after reshape")

	// The original is unchanged.
	assertEqualShape(t, Shape{2, 3}, r.BatchShape(), "original batch shape")

	// Data is preserved in row-major order.
	origPos, _ := r.Field("pos")
	assertEqualData(t, out, "pos", b.Read(origPos))
}

func TestReshapeChain(t *testing.T) {
	b := NewMockBackend()
	r := makePoint(t, b, Shape{2, 3})

	// Reshaping through an intermediate shape equals reshaping directly.
	via, err := r.Reshape(Shape{6})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	chained, err := via.Reshape(Shape{3, 2})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	direct, err := r.Reshape(Shape{3, 2})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	if !chained.Equal(direct) {
		t.Error("chained reshape should equal direct reshape")
	}
}

func TestReshapeToScalarBatch(t *testing.T) {
	b := NewMockBackend()
	r := makePoint(t, b, Shape{1, 1})

	out, err := r.Reshape(Shape{})
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	assertEqualShape(t, Shape{}, out.BatchShape(), "scalar batch shape")
}

func TestReshapeError(t *testing.T) {
	b := NewMockBackend()
	r := makePoint(t, b, Shape{2, 3})

	_, err := r.Reshape(Shape{4})
	if err == nil {
		t.Fatal("Reshape to an incompatible element count should fail")
	}

	var reshapeErr *ReshapeError
	if !errors.As(err, &reshapeErr) {
		t.Fatalf("error type = %T, want *ReshapeError", err)
	}
	if !strings.Contains(err.Error(), "cannot reshape array") {
		t.Errorf("error %q should contain %q", err.Error(), "cannot reshape array")
	}

	if _, err := r.Reshape(Shape{-1, 6}); err == nil {
		t.Error("Reshape with a negative dimension should fail")
	}
}

func TestFlatten(t *testing.T) {
	b := NewMockBackend()

	tests := []struct {
		batch Shape
		want  Shape
	}{
		{Shape{2, 3}, Shape{6}},
		{Shape{4}, Shape{4}},
		{Shape{}, Shape{1}}, // a single element flattens to a 1-batch
		{Shape{2, 1, 3}, Shape{6}},
	}

	for _, tt := range tests {
		r := makePoint(t, b, tt.batch)
		out, err := r.Flatten()
		if err != nil {
			t.Fatalf("Flatten failed: %v", err)
		}
		assertEqualShape(t, tt.want, out.BatchShape(), "flattened batch shape")
	}
}

func TestAt(t *testing.T) {
	b := NewMockBackend()
	r, err := New(pointSchema, Values{
		"pos": [][]float64{{1, 2, 3}, {4, 5, 6}},
		"rot": [][][]float64{
			{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
			{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}},
		},
		"weight": []float64{10, 20},
	}, WithBackend(b))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	elem, err := r.At(1)
	if err != nil {
		t.Fatalf("At(1) failed: %v", err)
	}
	assertEqualShape(t, Shape{}, elem.BatchShape(), "element batch shape")
	assertEqualData(t, elem, "pos", []float64{4, 5, 6})
	assertEqualData(t, elem, "weight", []float64{20})

	if _, err := r.At(2); err == nil {
		t.Error("At(2) should fail on a 2-element batch")
	}
	if _, err := r.At(-1); err == nil {
		t.Error("At(-1) should fail")
	}
}

func TestElems(t *testing.T) {
	b := NewMockBackend()
	r := makePoint(t, b, Shape{3, 2})

	elems, err := r.Elems()
	if err != nil {
		t.Fatalf("Elems failed: %v", err)
	}
	if len(elems) != 3 {
		t.Fatalf("Elems returned %d records, want 3", len(elems))
	}
	for _, e := range elems {
		assertEqualShape(t, Shape{2}, e.BatchShape(), "element batch shape")
	}

	// Stacking the elements reconstructs the original record.
	back, err := Stack(elems)
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	if !back.Equal(r) {
		t.Error("Stack(Elems()) should reconstruct the original record")
	}
}

func TestElemsNotIterable(t *testing.T) {
	b := NewMockBackend()
	r := makePoint(t, b, Shape{})

	_, err := r.Elems()
	var notIter *NotIterableError
	if !errors.As(err, &notIter) {
		t.Fatalf("error = %v, want *NotIterableError", err)
	}

	if _, err := r.At(0); !errors.As(err, &notIter) {
		t.Errorf("At on an empty batch shape = %v, want *NotIterableError", err)
	}
}

func TestStack(t *testing.T) {
	b := NewMockBackend()
	r0, err := New(pointSchema, Values{
		"pos": []float64{1, 2, 3},
		"rot": [][]float64{
			{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		},
		"weight": 1.0,
	}, WithBackend(b))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r1, err := New(pointSchema, Values{
		"pos": []float64{4, 5, 6},
		"rot": [][]float64{
			{2, 0, 0}, {0, 2, 0}, {0, 0, 2},
		},
		"weight": 2.0,
	}, WithBackend(b))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := Stack([]*Record{r0, r0, r1, r1})
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	assertEqualShape(t, Shape{4}, out.BatchShape(), "stacked batch shape")
	assertEqualData(t, out, "pos", []float64{1, 2, 3, 1, 2, 3, 4, 5, 6, 4, 5, 6})
	assertEqualData(t, out, "weight", []float64{1, 1, 2, 2})

	// Elements 0,1 match r0 and 2,3 match r1.
	for i, want := range []*Record{r0, r0, r1, r1} {
		elem, err := out.At(i)
		if err != nil {
			t.Fatalf("At(%d) failed: %v", i, err)
		}
		if !elem.Equal(want) {
			t.Errorf("stacked element %d does not match its source", i)
		}
	}
}

func TestStackBatched(t *testing.T) {
	b := NewMockBackend()
	r := makePoint(t, b, Shape{2, 3})

	out, err := Stack([]*Record{r, r})
	if err != nil {
		t.Fatalf("Stack failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 2, 3}, out.BatchShape(), "stacked batch shape")
}

func TestStackErrors(t *testing.T) {
	b := NewMockBackend()
	r2 := makePoint(t, b, Shape{2})
	r3 := makePoint(t, b, Shape{3})

	if _, err := Stack(nil); err == nil {
		t.Error("Stack of zero records should fail")
	}

	_, err := Stack([]*Record{r2, r3})
	var batchErr *ConflictingBatchShapeError
	if !errors.As(err, &batchErr) {
		t.Fatalf("error = %v, want *ConflictingBatchShapeError", err)
	}

	other := MustSchema(FloatField("pos", 3))
	q, err := New(other, Values{"pos": []float64{1, 2, 3}}, WithBackend(b))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	single := makePoint(t, b, Shape{})
	if _, err := Stack([]*Record{single, q}); err == nil {
		t.Error("Stack of different schemas should fail")
	}
}
