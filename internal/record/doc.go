// Package record implements batch-shaped, schema-validated array records.
//
// A record type is declared once as a Schema of field descriptors, each with
// a fixed inner shape and element type. Instances bind every field to a
// backend array of shape batch_shape + inner_shape, where the batch shape is
// the common leading prefix shared by all fields. Construction validates the
// three invariants eagerly:
//
//   - every field's trailing dimensions equal its declared inner shape;
//   - every field implies the same batch shape (exact equality, never
//     broadcasting);
//   - every field array is owned by the same backend.
//
// Shape operations (Reshape, Flatten, At, Elems, Stack) transform only the
// batch prefix and return new records; records are immutable after
// construction.
//
// Backends are pluggable through the Backend interface: a baseline CPU
// backend, a WebGPU accelerator backend, and a deferred graph backend live
// under internal/backend. MockBackend in this package serves tests.
package record
