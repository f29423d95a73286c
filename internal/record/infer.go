package record

// inferBatchShape computes the single batch shape shared by every field.
//
// For each field the array's trailing dimensions must equal the field's
// declared inner shape; whatever leads them is that field's candidate batch
// shape. Candidates must match exactly across fields. Broadcasting between
// fields is deliberately not applied: a (2,) field and a (2, 1) field are a
// conflict, not a broadcast.
//
// A record with zero fields has the empty batch shape.
func inferBatchShape(fields []Field, arrays []Array) (Shape, error) {
	var (
		batch Shape
		seen  bool
	)

	for i, f := range fields {
		full := arrays[i].Shape()
		if !full.HasSuffix(f.Inner) {
			return nil, &InvalidInnerShapeError{Field: f.Name, Inner: f.Inner.Clone(), Got: full.Clone()}
		}

		candidate := Shape(full[:len(full)-len(f.Inner)])
		if !seen {
			batch = candidate.Clone()
			seen = true
			continue
		}
		if !batch.Equal(candidate) {
			return nil, &ConflictingBatchShapeError{Field: f.Name, Want: batch.Clone(), Got: candidate.Clone()}
		}
	}

	if !seen {
		return Shape{}, nil
	}
	return batch, nil
}
