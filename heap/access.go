package heap

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/loamvm/loam/fault"
	"github.com/loamvm/loam/memory"
)

//
// Access checks
//

// access resolves a pointer to n bytes of a live allocation. Writes to
// static allocations fault.
func (h *Heap) access(p memory.Pointer, n uint64, write bool) (*allocation, uint64, fault.Fault) {
	a, f := h.lookup(p)
	if f != nil {
		return nil, 0, f
	}
	if !p.Offset.IsConcrete() {
		return nil, 0, fault.Unimplemented{Msg: "memory access at an undetermined offset"}
	}
	off := p.Offset.Bytes()
	end := off + n
	if end < off || end > uint64(len(a.data)) {
		return nil, 0, fault.PointerOutOfBounds{Ptr: p, Access: true, AllocSize: uint64(len(a.data))}
	}
	if write && a.static {
		return nil, 0, fault.ModifiedStaticMemory{}
	}
	return a, off, nil
}

// CheckInBounds verifies that p stays within its allocation. One past
// the end is in bounds. The access flag records whether the check
// guards a memory access or a pure pointer computation; it only affects
// how a resulting fault renders.
func (h *Heap) CheckInBounds(p memory.Pointer, access bool) fault.Fault {
	a, f := h.lookup(p)
	if f != nil {
		return f
	}
	if !p.Offset.IsConcrete() {
		return fault.Unimplemented{Msg: "bounds check on an undetermined offset"}
	}
	if p.Offset.Bytes() > uint64(len(a.data)) {
		return fault.PointerOutOfBounds{Ptr: p, Access: access, AllocSize: uint64(len(a.data))}
	}
	return nil
}

// CheckAlign verifies that p is aligned to required bytes. A pointer's
// alignment is its allocation's, reduced to the largest power of two
// dividing a nonzero offset.
func (h *Heap) CheckAlign(p memory.Pointer, required uint64) fault.Fault {
	if required == 0 || required&(required-1) != 0 {
		return fault.HeapAllocNonPowerOfTwoAlign{Align: required}
	}
	a, f := h.lookup(p)
	if f != nil {
		return f
	}
	if !p.Offset.IsConcrete() {
		return fault.Unimplemented{Msg: "alignment check on an undetermined offset"}
	}
	has := a.align
	if off := p.Offset.Bytes(); off != 0 {
		if low := off & (-off); low < has {
			has = low
		}
	}
	if has < required {
		return fault.AlignmentCheckFailed{Required: required, Has: has}
	}
	return nil
}

//
// Word reads and writes
//

// WriteUsize stores a pointer-sized integer at dest.
func (h *Heap) WriteUsize(dest memory.Pointer, v uint64) fault.Fault {
	if h.ptrSize == 4 && v > math.MaxUint32 {
		panic(fmt.Sprintf("Heap.WriteUsize: value %d exceeds the pointer width", v))
	}
	a, off, f := h.access(dest, h.ptrSize, true)
	if f != nil {
		return f
	}
	h.clearRelocations(a, off, h.ptrSize)
	h.putWord(a.data[off:], v)
	return nil
}

// ReadUsize loads a pointer-sized integer from src. The word must hold
// raw bits; touching any part of a stored pointer faults.
func (h *Heap) ReadUsize(src memory.Pointer) (uint64, fault.Fault) {
	a, off, f := h.access(src, h.ptrSize, false)
	if f != nil {
		return 0, f
	}
	if overlapsRelocation(a, off, h.ptrSize, h.ptrSize) {
		return 0, fault.ReadPointerAsBytes{}
	}
	return h.word(a.data[off:]), nil
}

// WritePointer stores ptr at dest and records the relocation.
func (h *Heap) WritePointer(dest memory.Pointer, ptr memory.Pointer) fault.Fault {
	if !ptr.Offset.IsConcrete() {
		return fault.Unimplemented{Msg: "storing a pointer with an undetermined offset"}
	}
	a, off, f := h.access(dest, h.ptrSize, true)
	if f != nil {
		return f
	}
	h.clearRelocations(a, off, h.ptrSize)
	h.putWord(a.data[off:], ptr.Offset.Bytes())
	a.relocations[off] = ptr.Alloc
	return nil
}

// ReadScalar loads one pointer-sized value from src, as a pointer when
// a stored pointer sits exactly there and as raw bits otherwise. A word
// straddling part of a stored pointer faults.
func (h *Heap) ReadScalar(src memory.Pointer) (memory.Scalar, fault.Fault) {
	a, off, f := h.access(src, h.ptrSize, false)
	if f != nil {
		return memory.Scalar{}, f
	}
	if target, ok := a.relocations[off]; ok {
		return memory.PointerScalar(memory.NewPointer(target, h.word(a.data[off:]))), nil
	}
	if overlapsRelocation(a, off, h.ptrSize, h.ptrSize) {
		return memory.Scalar{}, fault.ReadPointerAsBytes{}
	}
	return memory.BitsScalar(h.word(a.data[off:])), nil
}

//
// Byte reads and writes
//

// WriteBytes copies b into the allocation at dest.
func (h *Heap) WriteBytes(dest memory.Pointer, b []byte) fault.Fault {
	a, off, f := h.access(dest, uint64(len(b)), true)
	if f != nil {
		return f
	}
	h.clearRelocations(a, off, uint64(len(b)))
	copy(a.data[off:], b)
	return nil
}

// ReadBytes copies n raw bytes out of the allocation at src. Touching
// any part of a stored pointer faults.
func (h *Heap) ReadBytes(src memory.Pointer, n uint64) ([]byte, fault.Fault) {
	a, off, f := h.access(src, n, false)
	if f != nil {
		return nil, f
	}
	if overlapsRelocation(a, off, n, h.ptrSize) {
		return nil, fault.ReadPointerAsBytes{}
	}
	out := make([]byte, n)
	copy(out, a.data[off:off+n])
	return out, nil
}

// ReadCString reads bytes from src up to a zero terminator, which must
// lie within the allocation. The terminator is not returned.
func (h *Heap) ReadCString(src memory.Pointer) ([]byte, fault.Fault) {
	a, off, f := h.access(src, 0, false)
	if f != nil {
		return nil, f
	}
	for i := off; i < uint64(len(a.data)); i++ {
		if a.data[i] == 0 {
			return h.ReadBytes(src, i-off)
		}
	}
	return nil, fault.UnterminatedCString{Ptr: src}
}

//
// Relocation bookkeeping
//

// clearRelocations removes stored pointers overlapping the written
// range and blanks their bytes the write itself does not cover, so a
// half-smashed pointer never survives as stray bits.
func (h *Heap) clearRelocations(a *allocation, off, n uint64) {
	end := off + n
	for r := range a.relocations {
		if r+h.ptrSize <= off || r >= end {
			continue
		}
		delete(a.relocations, r)
		for i := r; i < r+h.ptrSize; i++ {
			if i < off || i >= end {
				a.data[i] = 0
			}
		}
	}
}

func overlapsRelocation(a *allocation, off, n, ptrSize uint64) bool {
	end := off + n
	for r := range a.relocations {
		if r+ptrSize > off && r < end {
			return true
		}
	}
	return false
}

func (h *Heap) putWord(b []byte, v uint64) {
	if h.ptrSize == 4 {
		binary.LittleEndian.PutUint32(b, uint32(v))
		return
	}
	binary.LittleEndian.PutUint64(b, v)
}

func (h *Heap) word(b []byte) uint64 {
	if h.ptrSize == 4 {
		return uint64(binary.LittleEndian.Uint32(b))
	}
	return binary.LittleEndian.Uint64(b)
}
