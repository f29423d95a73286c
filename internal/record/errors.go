package record

import (
	"fmt"
	"strings"
)

// The validation error messages keep the recognizable substrings callers
// pattern-match on: "Conflicting numpy types", "last dimensions to be",
// "Conflicting batch shapes", "cannot reshape array". The odd wording of the
// backend-conflict message is part of the compatibility contract.

// ConflictingBackendsError reports field arrays owned by different backends.
type ConflictingBackendsError struct {
	// Names holds the distinct backend names that were mixed.
	Names []string
}

func (e *ConflictingBackendsError) Error() string {
	return fmt.Sprintf("Conflicting numpy types: %s", strings.Join(e.Names, ", "))
}

// InvalidInnerShapeError reports an array whose trailing dimensions do not
// match the field's declared inner shape.
type InvalidInnerShapeError struct {
	Field string
	Inner Shape // declared inner shape
	Got   Shape // full shape of the offending array
}

func (e *InvalidInnerShapeError) Error() string {
	return fmt.Sprintf("field %q: expected last dimensions to be %v, got array of shape %v",
		e.Field, e.Inner, e.Got)
}

// ConflictingBatchShapeError reports fields (or records being stacked) that
// disagree on the batch shape. Field is empty when the conflict is between
// whole records rather than fields of one record.
type ConflictingBatchShapeError struct {
	Field string
	Want  Shape // batch shape established by earlier fields
	Got   Shape // batch shape implied by the offending field
}

func (e *ConflictingBatchShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Conflicting batch shapes: got %v, want %v", e.Got, e.Want)
	}
	return fmt.Sprintf("Conflicting batch shapes: field %q implies %v, want %v",
		e.Field, e.Got, e.Want)
}

// ReshapeError reports a batch reshape with an element-count mismatch,
// propagated from the backend's reshape failure.
type ReshapeError struct {
	From  Shape
	To    Shape
	Cause error
}

func (e *ReshapeError) Error() string {
	return fmt.Sprintf("cannot reshape array of batch shape %v into %v: %v", e.From, e.To, e.Cause)
}

func (e *ReshapeError) Unwrap() error { return e.Cause }

// NotIterableError reports element access on a record whose batch shape is
// empty: a single record element has nothing to iterate.
type NotIterableError struct{}

func (e *NotIterableError) Error() string {
	return "record with empty batch shape is not iterable"
}
