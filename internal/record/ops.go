package record

import "fmt"

// Shape operations act purely on the batch-shape prefix of every field; the
// per-field inner dimensions are never touched.

// Reshape returns a record whose fields are reshaped from
// old_batch + inner to newBatch + inner. The total number of batch elements
// must match; mismatches surface as a ReshapeError propagated from the
// backend.
func (r *Record) Reshape(newBatch Shape) (*Record, error) {
	if err := newBatch.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: %w", err)
	}

	specs := r.schema.fields
	fields := make([]Array, len(specs))
	for i, f := range specs {
		out, err := r.backend.Reshape(r.fields[i], newBatch.Concat(f.Inner))
		if err != nil {
			return nil, &ReshapeError{From: r.batch.Clone(), To: newBatch.Clone(), Cause: err}
		}
		fields[i] = out
	}
	return fromFields(r.schema, fields, newBatch.Clone(), r.backend), nil
}

// Flatten collapses the batch dimensions into one:
// batch shape S becomes (prod(S),).
func (r *Record) Flatten() (*Record, error) {
	return r.Reshape(Shape{r.NumElems()})
}

// At returns the i-th record element along batch axis 0, with one fewer
// leading batch dimension. A record with empty batch shape has no elements
// to index.
func (r *Record) At(i int) (*Record, error) {
	if len(r.batch) == 0 {
		return nil, &NotIterableError{}
	}
	if i < 0 || i >= r.batch[0] {
		return nil, fmt.Errorf("index %d out of range for batch shape %v", i, r.batch)
	}

	fields := make([]Array, len(r.fields))
	for j, arr := range r.fields {
		fields[j] = r.backend.Index(arr, i)
	}
	return fromFields(r.schema, fields, r.batch[1:].Clone(), r.backend), nil
}

// Elems returns the record's elements along batch axis 0: a record of batch
// shape (n, ...) yields n records of batch shape (...). Iterating a record
// with empty batch shape fails with NotIterableError.
func (r *Record) Elems() ([]*Record, error) {
	if len(r.batch) == 0 {
		return nil, &NotIterableError{}
	}

	out := make([]*Record, r.batch[0])
	for i := range out {
		elem, err := r.At(i)
		if err != nil {
			return nil, err
		}
		out[i] = elem
	}
	return out, nil
}

// Stack joins records of the same type, batch shape S each, into one record
// of batch shape (len(records),) + S by stacking every field along a new
// leading axis. Mixing backends or batch shapes fails with the same conflict
// errors as construction.
func Stack(records []*Record) (*Record, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("cannot stack zero records")
	}

	first := records[0]
	for _, r := range records[1:] {
		if !r.schema.Equal(first.schema) {
			return nil, fmt.Errorf("cannot stack records with different schemas")
		}
		if r.backend.Name() != first.backend.Name() {
			return nil, &ConflictingBackendsError{Names: []string{first.backend.Name(), r.backend.Name()}}
		}
		if !r.batch.Equal(first.batch) {
			return nil, &ConflictingBatchShapeError{Field: "", Want: first.batch.Clone(), Got: r.batch.Clone()}
		}
	}

	fields := make([]Array, len(first.fields))
	for i := range first.fields {
		column := make([]Array, len(records))
		for j, r := range records {
			column[j] = r.fields[i]
		}
		fields[i] = first.backend.Stack(column)
	}

	batch := Shape{len(records)}.Concat(first.batch)
	return fromFields(first.schema, fields, batch, first.backend), nil
}
