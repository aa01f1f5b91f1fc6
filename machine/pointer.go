package machine

import (
	"github.com/loamvm/loam/fault"
	"github.com/loamvm/loam/memory"
)

// PointerAdd advances p by n bytes without touching memory. Whether the
// resulting pointer is in bounds is the heap's concern at access time; the
// only failure here is overflow of the offset itself. Advancing an
// undetermined offset keeps it undetermined.
func PointerAdd(p memory.Pointer, n uint64) (memory.Pointer, fault.Fault) {
	off, ok := p.Offset.AddChecked(n)
	if !ok {
		return memory.Pointer{}, fault.ArithmeticOverflow{}
	}
	return memory.Pointer{Alloc: p.Alloc, Offset: off}, nil
}

// PointerDiff returns the distance in bytes between two pointers into the
// same allocation. Pointers into different allocations cannot be compared
// or subtracted.
func PointerDiff(a, b memory.Pointer) (uint64, fault.Fault) {
	if a.Alloc != b.Alloc {
		return 0, fault.InvalidPointerMath{}
	}
	if !a.Offset.IsConcrete() || !b.Offset.IsConcrete() {
		return 0, fault.Unimplemented{Msg: "pointer arithmetic on an undetermined offset"}
	}
	x, y := a.Offset.Bytes(), b.Offset.Bytes()
	if x < y {
		return 0, fault.ArithmeticOverflow{}
	}
	return x - y, nil
}
