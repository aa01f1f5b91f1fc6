package heap

import (
	"fmt"

	"github.com/loamvm/loam/fault"
	"github.com/loamvm/loam/memory"
	"github.com/loamvm/loam/typesys"
)

//
// Config
//

type Config struct {
	// SizeBytes caps the total live data bytes. Zero means no cap.
	SizeBytes uint64
	// PointerSize is the simulated pointer width in bytes, 4 or 8.
	// Zero defaults to 8.
	PointerSize uint64
}

//
// Heap
//

type Heap struct {
	cfg     Config
	ptrSize uint64

	allocs map[memory.AllocID]*allocation
	fns    map[memory.AllocID]typesys.Instance
	fnPtrs map[typesys.Instance]memory.AllocID

	// next is never decremented, so freed IDs are recognizably dangling.
	next  memory.AllocID
	usage uint64
}

type allocation struct {
	data   []byte
	align  uint64
	static bool
	// relocations maps the offset of each stored pointer to its target
	// allocation. The bytes at that offset hold the target offset.
	relocations map[uint64]memory.AllocID
}

func New(cfg Config) *Heap {
	ptrSize := cfg.PointerSize
	switch ptrSize {
	case 0:
		ptrSize = 8
	case 4, 8:
	default:
		panic(fmt.Sprintf("heap.New: unsupported pointer size %d", cfg.PointerSize))
	}
	return &Heap{
		cfg:     cfg,
		ptrSize: ptrSize,
		allocs:  make(map[memory.AllocID]*allocation),
		fns:     make(map[memory.AllocID]typesys.Instance),
		fnPtrs:  make(map[typesys.Instance]memory.AllocID),
		next:    1,
	}
}

// PointerSize reports the simulated pointer width in bytes.
func (h *Heap) PointerSize() uint64 { return h.ptrSize }

// Usage reports the total live data bytes.
func (h *Heap) Usage() uint64 { return h.usage }

//
// Allocation
//

// Allocate mints a fresh zero-filled allocation. Alignment must be a
// power of two. Zero-sized allocations are legal here; requests from
// the interpreted program's own allocator go through CheckHeapRequest
// first.
func (h *Heap) Allocate(size, align uint64) (memory.Pointer, fault.Fault) {
	if align == 0 || align&(align-1) != 0 {
		return memory.Pointer{}, fault.HeapAllocNonPowerOfTwoAlign{Align: align}
	}
	if h.cfg.SizeBytes != 0 && size > h.cfg.SizeBytes-h.usage {
		return memory.Pointer{}, fault.OutOfMemory{
			AllocSize:   size,
			MemorySize:  h.cfg.SizeBytes,
			MemoryUsage: h.usage,
		}
	}
	id := h.next
	h.next++
	h.allocs[id] = &allocation{
		data:        make([]byte, size),
		align:       align,
		relocations: make(map[uint64]memory.AllocID),
	}
	h.usage += size
	return memory.NewPointer(id, 0), nil
}

// Reallocate moves an allocation to a fresh ID with the requested size,
// preserving the common prefix of its bytes and stored pointers. The
// old ID becomes dangling.
func (h *Heap) Reallocate(p memory.Pointer, newSize, align uint64) (memory.Pointer, fault.Fault) {
	if f := CheckHeapRequest(newSize, align); f != nil {
		return memory.Pointer{}, f
	}
	old, f := h.wholeAllocation(p, "reallocating")
	if f != nil {
		return memory.Pointer{}, f
	}
	if old.static {
		return memory.Pointer{}, fault.ReallocatedStaticMemory{}
	}
	oldSize := uint64(len(old.data))
	if newSize > oldSize {
		grow := newSize - oldSize
		if h.cfg.SizeBytes != 0 && grow > h.cfg.SizeBytes-h.usage {
			return memory.Pointer{}, fault.OutOfMemory{
				AllocSize:   grow,
				MemorySize:  h.cfg.SizeBytes,
				MemoryUsage: h.usage,
			}
		}
	}

	id := h.next
	h.next++
	fresh := &allocation{
		data:        make([]byte, newSize),
		align:       align,
		relocations: make(map[uint64]memory.AllocID),
	}
	keep := oldSize
	if newSize < keep {
		keep = newSize
	}
	copy(fresh.data, old.data[:keep])
	for off, target := range old.relocations {
		if off+h.ptrSize <= keep {
			fresh.relocations[off] = target
		}
	}
	h.allocs[id] = fresh
	delete(h.allocs, p.Alloc)
	h.usage = h.usage - oldSize + newSize
	return memory.NewPointer(id, 0), nil
}

// Deallocate frees an allocation. The pointer must address its start.
func (h *Heap) Deallocate(p memory.Pointer) fault.Fault {
	a, f := h.wholeAllocation(p, "deallocating")
	if f != nil {
		return f
	}
	if a.static {
		return fault.DeallocatedStaticMemory{}
	}
	delete(h.allocs, p.Alloc)
	h.usage -= uint64(len(a.data))
	return nil
}

// MarkImmutable freezes an allocation. Later writes, reallocation and
// deallocation through any pointer into it fault. Panics when id names
// no live data allocation.
func (h *Heap) MarkImmutable(id memory.AllocID) {
	a, ok := h.allocs[id]
	if !ok {
		panic(fmt.Sprintf("Heap.MarkImmutable: unknown allocation %d", id))
	}
	a.static = true
}

// CheckHeapRequest validates an allocation request issued by the
// interpreted program itself, which is held to stricter rules than the
// machine: zero bytes and non-power-of-two alignments fault.
func CheckHeapRequest(size, align uint64) fault.Fault {
	if size == 0 {
		return fault.HeapAllocZeroBytes{}
	}
	if align == 0 || align&(align-1) != 0 {
		return fault.HeapAllocNonPowerOfTwoAlign{Align: align}
	}
	return nil
}

// wholeAllocation resolves a pointer that must address the start of a
// live data allocation, as the allocator entry points require.
func (h *Heap) wholeAllocation(p memory.Pointer, op string) (*allocation, fault.Fault) {
	a, f := h.lookup(p)
	if f != nil {
		return nil, f
	}
	if !p.Offset.IsConcrete() || p.Offset.Bytes() != 0 {
		return nil, fault.Unimplemented{Msg: op + " at a nonzero offset into an allocation"}
	}
	return a, nil
}

// lookup classifies the allocation a pointer names. It does not touch
// the offset.
func (h *Heap) lookup(p memory.Pointer) (*allocation, fault.Fault) {
	if p.Alloc == 0 {
		return nil, fault.NullPointerUse{}
	}
	if a, ok := h.allocs[p.Alloc]; ok {
		return a, nil
	}
	if _, ok := h.fns[p.Alloc]; ok {
		return nil, fault.DerefFunctionPointer{}
	}
	if p.Alloc < h.next {
		return nil, fault.DanglingPointer{}
	}
	return nil, fault.InvalidMemoryAccess{}
}
