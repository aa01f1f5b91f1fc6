package memory

import "fmt"

// Scalar is a pointer-sized value read back from the simulated heap. It is
// either raw bits or a pointer into an allocation; the heap tracks which
// through its relocation tables, and readers must branch on the two cases
// explicitly.
type Scalar struct {
	ptr   Pointer
	bits  uint64
	isPtr bool
}

// BitsScalar returns a scalar holding raw bits.
func BitsScalar(bits uint64) Scalar {
	return Scalar{bits: bits}
}

// PointerScalar returns a scalar holding a pointer.
func PointerScalar(p Pointer) Scalar {
	return Scalar{ptr: p, isPtr: true}
}

// IsPointer returns true if the scalar holds a pointer.
func (s Scalar) IsPointer() bool {
	return s.isPtr
}

// IsZeroBits returns true if the scalar holds the raw bit pattern zero.
func (s Scalar) IsZeroBits() bool {
	return !s.isPtr && s.bits == 0
}

// Bits returns the raw bits.
// Panics if the scalar holds a pointer.
func (s Scalar) Bits() uint64 {
	if s.isPtr {
		panic("Scalar.Bits: scalar holds a pointer")
	}
	return s.bits
}

// Pointer returns the pointer.
// Panics if the scalar holds raw bits.
func (s Scalar) Pointer() Pointer {
	if !s.isPtr {
		panic("Scalar.Pointer: scalar holds raw bits")
	}
	return s.ptr
}

// String renders the scalar for diagnostics.
func (s Scalar) String() string {
	if s.isPtr {
		return s.ptr.String()
	}
	return fmt.Sprintf("0x%x", s.bits)
}
