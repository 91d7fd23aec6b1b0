// Package abi defines the type lattice and byte-level codec shared by
// hand-written guest code and generated entry-point wrappers.
//
// Every value crossing the guest boundary is classified by a Kind.
// Primitive kinds use fixed-width little-endian encodings; strings are
// UTF-8 without terminators; byte slices pass through verbatim; records
// are self-describing and carry their own layout.
//
// Multiple primitive parameters pack into a single byte sequence by
// concatenation in declaration order, with no padding between values.
// Unpack requires the exact packed length and rejects both short and
// long inputs.
package abi
