package record

import "testing"

func TestFieldConstructors(t *testing.T) {
	f := FloatField("pos", 3)
	if f.Name != "pos" || f.DType != Float32 {
		t.Errorf("FloatField = %+v", f)
	}
	assertEqualShape(t, Shape{3}, f.Inner, "FloatField inner shape")

	s := FloatField("weight")
	assertEqualShape(t, Shape{}, s.Inner, "scalar field inner shape")

	i := IntField("label", 2, 2)
	if i.DType != Int32 {
		t.Errorf("IntField dtype = %v, want Int32", i.DType)
	}
	assertEqualShape(t, Shape{2, 2}, i.Inner, "IntField inner shape")
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(FloatField("pos", 3), FloatField("rot", 3, 3), IntField("id"))
	if err != nil {
		t.Fatalf("NewSchema failed: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	f, ok := s.Lookup("rot")
	if !ok {
		t.Fatal("Lookup(rot) not found")
	}
	assertEqualShape(t, Shape{3, 3}, f.Inner, "rot inner shape")

	if _, ok := s.Lookup("missing"); ok {
		t.Error("Lookup(missing) should not be found")
	}

	fields := s.Fields()
	if fields[0].Name != "pos" || fields[1].Name != "rot" || fields[2].Name != "id" {
		t.Errorf("Fields() order = %v", fields)
	}
}

func TestNewSchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"duplicate name", []Field{FloatField("x"), FloatField("x")}},
		{"empty name", []Field{FloatField("")}},
		{"negative inner dim", []Field{FloatField("x", -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchema(tt.fields...); err == nil {
				t.Error("NewSchema should have failed")
			}
		})
	}
}

func TestMustSchemaPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustSchema should have panicked on a duplicate field")
		}
	}()
	MustSchema(FloatField("x"), FloatField("x"))
}

func TestSchemaEqual(t *testing.T) {
	a := MustSchema(FloatField("pos", 3), IntField("id"))
	b := MustSchema(FloatField("pos", 3), IntField("id"))
	c := MustSchema(FloatField("pos", 2), IntField("id"))
	d := MustSchema(IntField("id"), FloatField("pos", 3))

	if !a.Equal(a) {
		t.Error("schema should equal itself")
	}
	if !a.Equal(b) {
		t.Error("structurally identical schemas should be equal")
	}
	if a.Equal(c) {
		t.Error("schemas with different inner shapes should differ")
	}
	if a.Equal(d) {
		t.Error("schemas with different field order should differ")
	}
}

func TestSchemaIsImmutable(t *testing.T) {
	f := FloatField("pos", 3)
	s := MustSchema(f)

	// Mutating the caller's descriptor after registration must not leak in.
	f.Inner[0] = 99
	got, _ := s.Lookup("pos")
	assertEqualShape(t, Shape{3}, got.Inner, "inner shape after caller mutation")
}
