package record

import "fmt"

// Values maps field names to raw field inputs: backend arrays, Go scalars,
// or nested Go slices.
type Values map[string]any

type options struct {
	backend Backend
}

// Option configures record construction.
type Option func(*options)

// WithBackend forces the record onto the given backend, overriding backend
// inference from the inputs.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

// Record is an immutable structured value: named fields, each holding a
// backend array of shape batch_shape + inner_shape. All fields share one
// batch shape and one backend; both are validated at construction.
//
// Records are immutable after construction: shape operations return new
// records, and consumers must not mutate field arrays in place. Concurrent
// reads are therefore safe.
type Record struct {
	schema  *Schema
	fields  []Array // declaration order
	batch   Shape
	backend Backend
}

// New constructs a record by coercing values to backend arrays, resolving
// the shared backend, and inferring the batch shape. It fails if a value is
// missing or unknown, if array inputs mix backends, if a field's trailing
// dimensions don't match its declared inner shape, or if fields disagree on
// the batch shape. On failure no record is produced.
func New(schema *Schema, values Values, opts ...Option) (*Record, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	specs := schema.Fields()
	raw := make([]any, len(specs))
	for i, f := range specs {
		v, ok := values[f.Name]
		if !ok {
			return nil, fmt.Errorf("missing value for field %q", f.Name)
		}
		raw[i] = v
	}
	for name := range values {
		if _, ok := schema.Lookup(name); !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
	}

	backend, err := Resolve(o.backend, raw)
	if err != nil {
		return nil, err
	}

	arrays := make([]Array, len(specs))
	for i, f := range specs {
		arr, err := ToArray(backend, f.DType, raw[i])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		arrays[i] = arr
	}

	batch, err := inferBatchShape(specs, arrays)
	if err != nil {
		return nil, err
	}

	return &Record{schema: schema, fields: arrays, batch: batch, backend: backend}, nil
}

// Schema returns the record type's field table.
func (r *Record) Schema() *Schema {
	return r.schema
}

// BatchShape returns the shared leading dimensions of all fields.
func (r *Record) BatchShape() Shape {
	return r.batch.Clone()
}

// Backend returns the backend that owns every field array.
func (r *Record) Backend() Backend {
	return r.backend
}

// NumElems returns the number of record elements, the product of the batch
// dimensions. A non-batched record has one element.
func (r *Record) NumElems() int {
	return r.batch.NumElements()
}

// Field returns the array bound to the named field.
func (r *Record) Field(name string) (Array, error) {
	i, ok := r.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", name)
	}
	return r.fields[i], nil
}

// Equal reports whether two records have equal schemas, batch shapes,
// backend identity, and field contents. Contents are compared on the host,
// so graph-mode arrays are materialized.
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return false
	}
	if !r.schema.Equal(other.schema) || !r.batch.Equal(other.batch) {
		return false
	}
	if r.backend.Name() != other.backend.Name() {
		return false
	}
	for i := range r.fields {
		a := r.backend.Read(r.fields[i])
		b := other.backend.Read(other.fields[i])
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// fromFields builds a record from already-validated arrays. Callers
// guarantee the arrays match the schema and batch shape.
func fromFields(schema *Schema, fields []Array, batch Shape, backend Backend) *Record {
	return &Record{schema: schema, fields: fields, batch: batch, backend: backend}
}
