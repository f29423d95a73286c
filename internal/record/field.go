package record

import "fmt"

// Field describes one named array field of a record type: its fixed inner
// shape (the trailing dimensions of a single element) and element type.
// Descriptors are registered once per record type through NewSchema and read
// on every construction.
type Field struct {
	Name  string
	Inner Shape
	DType DataType
}

// FloatField declares a float32 field with the given inner shape.
// An empty inner shape declares a scalar field.
func FloatField(name string, inner ...int) Field {
	return Field{Name: name, Inner: Shape(inner), DType: Float32}
}

// IntField declares an int32 field with the given inner shape.
func IntField(name string, inner ...int) Field {
	return Field{Name: name, Inner: Shape(inner), DType: Int32}
}

// Schema is the immutable field table of a record type. Build one per type
// and share it across all instances.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema validates and registers the field descriptors of a record type.
func NewSchema(fields ...Field) (*Schema, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d has an empty name", i)
		}
		if _, dup := index[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		if err := f.Inner.Validate(); err != nil {
			return nil, fmt.Errorf("schema: field %q: invalid inner shape: %w", f.Name, err)
		}
		index[f.Name] = i
	}

	owned := make([]Field, len(fields))
	for i, f := range fields {
		owned[i] = Field{Name: f.Name, Inner: f.Inner.Clone(), DType: f.DType}
	}
	return &Schema{fields: owned, index: index}, nil
}

// MustSchema is NewSchema that panics on error, for package-level schemas.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the field descriptors in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the descriptor for name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Equal reports whether two schemas declare the same fields in the same
// order. Records can only be stacked when their schemas are equal.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i, f := range s.fields {
		g := other.fields[i]
		if f.Name != g.Name || f.DType != g.DType || !f.Inner.Equal(g.Inner) {
			return false
		}
	}
	return true
}
