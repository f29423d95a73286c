// Copyright 2026 Strata ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package record provides the public API for batch-shaped array records.
//
// A record type is declared once as a Schema of field descriptors; instances
// bind every field to a backend array of shape batch_shape + inner_shape.
// Shape operations transform only the batch prefix.
//
// Example:
//
//	point := record.MustSchema(
//	    record.FloatField("x"),
//	    record.FloatField("y"),
//	)
//	p, err := record.New(point, record.Values{
//	    "x": [][]float64{{1}, {2}},
//	    "y": [][]float64{{3}, {4}},
//	})
//	// p.BatchShape() == Shape{2, 1}
//
// Importing this package registers the baseline CPU backend as the default;
// pass record.WithBackend to construct on another backend.
package record

import (
	// Register the CPU backend as the construction default.
	_ "github.com/strata-ml/strata/internal/backend/cpu"
	"github.com/strata-ml/strata/internal/record"
)

// Type aliases for the public API.

// Shape represents array dimensions. The empty shape is a scalar.
type Shape = record.Shape

// DataType represents the element type of a field array.
type DataType = record.DataType

// Element type constants.
const (
	Float32 DataType = record.Float32
	Float64 DataType = record.Float64
	Int32   DataType = record.Int32
	Int64   DataType = record.Int64
)

// Array is an opaque handle to a backend-owned array.
type Array = record.Array

// Backend is the capability set every numeric backend implements.
type Backend = record.Backend

// Field describes one named array field of a record type.
type Field = record.Field

// Schema is the immutable field table of a record type.
type Schema = record.Schema

// Record is an immutable batch-shaped structured value.
type Record = record.Record

// Values maps field names to raw field inputs.
type Values = record.Values

// Option configures record construction.
type Option = record.Option

// Validation error categories.
type (
	// ConflictingBackendsError reports field arrays owned by different backends.
	ConflictingBackendsError = record.ConflictingBackendsError
	// InvalidInnerShapeError reports an array whose trailing dimensions do
	// not match the field's declared inner shape.
	InvalidInnerShapeError = record.InvalidInnerShapeError
	// ConflictingBatchShapeError reports fields that disagree on the batch shape.
	ConflictingBatchShapeError = record.ConflictingBatchShapeError
	// ReshapeError reports a batch reshape with an element-count mismatch.
	ReshapeError = record.ReshapeError
	// NotIterableError reports element access on an empty batch shape.
	NotIterableError = record.NotIterableError
)

// FloatField declares a float32 field with the given inner shape.
func FloatField(name string, inner ...int) Field {
	return record.FloatField(name, inner...)
}

// IntField declares an int32 field with the given inner shape.
func IntField(name string, inner ...int) Field {
	return record.IntField(name, inner...)
}

// NewSchema validates and registers the field descriptors of a record type.
func NewSchema(fields ...Field) (*Schema, error) {
	return record.NewSchema(fields...)
}

// MustSchema is NewSchema that panics on error, for package-level schemas.
func MustSchema(fields ...Field) *Schema {
	return record.MustSchema(fields...)
}

// New constructs a record from raw field values.
func New(schema *Schema, values Values, opts ...Option) (*Record, error) {
	return record.New(schema, values, opts...)
}

// WithBackend forces construction onto the given backend.
func WithBackend(b Backend) Option {
	return record.WithBackend(b)
}

// Stack joins same-type records along a new leading batch axis.
func Stack(records []*Record) (*Record, error) {
	return record.Stack(records)
}

// ToArray converts a raw value to an array owned by b with the given
// element type. Downstream record subtypes use it to coerce operand inputs
// without re-implementing the record layer's coercion rules.
func ToArray(b Backend, dt DataType, v any) (Array, error) {
	return record.ToArray(b, dt, v)
}

// BroadcastShapes computes the NumPy-style broadcast of two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return record.BroadcastShapes(a, b)
}

// RegisterDefaultBackend sets the backend used when construction receives
// neither backend-owned arrays nor an explicit override.
func RegisterDefaultBackend(b Backend) {
	record.RegisterDefaultBackend(b)
}

// DefaultBackend returns the registered default backend.
func DefaultBackend() Backend {
	return record.DefaultBackend()
}
