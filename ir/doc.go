// Package ir carries the small, plain data types of the typed intermediate
// representation that evaluation faults reference: source spans, binary
// operators, and arithmetic error codes.
//
// The package is deliberately leaf-level. It knows nothing about the
// machine, the heap, or the type system.
package ir
