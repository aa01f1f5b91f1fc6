package memory

import "fmt"

// AllocID identifies one allocation in the simulated heap. IDs are never
// reused within an evaluation. The zero AllocID is reserved and never backs
// a live allocation.
type AllocID uint64

// String renders the ID the way diagnostics print allocations.
func (id AllocID) String() string {
	return fmt.Sprintf("alloc%d", uint64(id))
}

// Offset is a byte offset into an allocation. An offset is either concrete
// or undetermined. Undetermined offsets stand for positions the evaluator
// could not reduce to a number; the machine core refuses to access memory
// through them and formats them opaquely.
type Offset struct {
	bytes        uint64
	undetermined bool
}

// OffsetBytes returns a concrete offset of n bytes.
func OffsetBytes(n uint64) Offset {
	return Offset{bytes: n}
}

// UndeterminedOffset returns the undetermined offset.
func UndeterminedOffset() Offset {
	return Offset{undetermined: true}
}

// IsConcrete returns true if the offset is a known byte count.
func (o Offset) IsConcrete() bool {
	return !o.undetermined
}

// Bytes returns the concrete byte count.
// Panics if the offset is undetermined.
func (o Offset) Bytes() uint64 {
	if o.undetermined {
		panic("Offset.Bytes: offset is undetermined")
	}
	return o.bytes
}

// AddChecked returns the offset advanced by n bytes. The second result is
// false if the addition overflows. Advancing an undetermined offset yields
// an undetermined offset.
func (o Offset) AddChecked(n uint64) (Offset, bool) {
	if o.undetermined {
		return o, true
	}
	sum := o.bytes + n
	if sum < o.bytes {
		return Offset{}, false
	}
	return Offset{bytes: sum}, true
}

// String renders the offset, or "<undetermined>" when it is not concrete.
func (o Offset) String() string {
	if o.undetermined {
		return "<undetermined>"
	}
	return fmt.Sprintf("%d", o.bytes)
}

// Pointer is a pointer into the simulated heap: an allocation plus a byte
// offset. Pointers are plain values; they carry no access rights and may
// dangle.
type Pointer struct {
	Alloc  AllocID
	Offset Offset
}

// NewPointer returns a pointer to the given concrete byte offset of an
// allocation.
func NewPointer(alloc AllocID, offset uint64) Pointer {
	return Pointer{Alloc: alloc, Offset: OffsetBytes(offset)}
}

// IsZero returns true for the zero pointer, which addresses nothing.
func (p Pointer) IsZero() bool {
	return p == Pointer{}
}

// String renders the pointer as allocation plus offset.
func (p Pointer) String() string {
	return fmt.Sprintf("%s+%s", p.Alloc, p.Offset)
}
