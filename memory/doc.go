// Package memory defines the value types that address the simulated heap:
// allocation identifiers, byte offsets, pointers, and the pointer-sized
// scalars read back from it.
//
// These are plain immutable values. The heap engine that gives them meaning
// lives in package heap; the faults that reference them live in package
// fault.
package memory
