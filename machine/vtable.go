package machine

import (
	"github.com/loamvm/loam/fault"
	"github.com/loamvm/loam/memory"
	"github.com/loamvm/loam/typesys"
)

// GetVTable synthesizes a dispatch table in the simulated heap for trait
// objects of concrete type t seen through ref, and returns a pointer to
// the new allocation.
//
// The table is pointer-width slots: slot 0 the destructor function pointer
// or zero when t has no destructor, slot 1 the size of t, slot 2 its
// alignment, then one function pointer per declared trait method in
// declaration order. Undispatchable methods keep their slot zeroed. The
// allocation is marked immutable before the pointer is returned and is
// never deallocated; later writes or deallocations against it fault.
//
// Synthesis happens at most once per (type, trait) pair per evaluation.
// Callers cache the returned pointer; the machine does not deduplicate.
func (m *Machine) GetVTable(t *typesys.Type, ref typesys.TraitRef) (memory.Pointer, fault.Fault) {
	layout, lerr := m.types.Layout(t)
	if lerr != nil {
		return memory.Pointer{}, fault.LayoutFailed{Err: lerr}
	}

	ptrSize := m.mem.PointerSize()
	slots := m.types.VTableMethods(ref)
	log.Debugf("get vtable for %s: size %d, align %d, %d method slots",
		m.types.RefString(ref), layout.Size, layout.Align, len(slots))

	vtable, f := m.mem.Allocate(ptrSize*uint64(3+len(slots)), ptrSize)
	if f != nil {
		return memory.Pointer{}, f
	}

	// Allocations start zeroed, so a type without a destructor leaves
	// slot 0 holding the "no destructor" value.
	if drop, ok := m.types.DropInstance(t); ok {
		if f := m.mem.WritePointer(vtable, m.mem.MaterializeFunction(drop)); f != nil {
			return memory.Pointer{}, f
		}
	}

	sizeSlot, f := PointerAdd(vtable, ptrSize)
	if f != nil {
		return memory.Pointer{}, f
	}
	if f := m.mem.WriteUsize(sizeSlot, layout.Size); f != nil {
		return memory.Pointer{}, f
	}

	alignSlot, f := PointerAdd(vtable, ptrSize*2)
	if f != nil {
		return memory.Pointer{}, f
	}
	if f := m.mem.WriteUsize(alignSlot, layout.Align); f != nil {
		return memory.Pointer{}, f
	}

	for i, slot := range slots {
		if slot.IsEmpty() {
			continue
		}
		inst := m.resolveItem(slot.Def, slot.Substs, typesys.ItemMethod)
		methodSlot, f := PointerAdd(vtable, ptrSize*uint64(3+i))
		if f != nil {
			return memory.Pointer{}, f
		}
		if f := m.mem.WritePointer(methodSlot, m.mem.MaterializeFunction(inst)); f != nil {
			return memory.Pointer{}, f
		}
	}

	m.mem.MarkImmutable(vtable.Alloc)
	return vtable, nil
}

// ReadDropFromVTable reads the destructor out of an existing dispatch
// table. A zeroed slot means the concrete type has no destructor; that is
// not a fault, and the second result is false. Any other non-pointer value
// in the slot faults.
func (m *Machine) ReadDropFromVTable(vtable memory.Pointer) (typesys.Instance, bool, fault.Fault) {
	s, f := m.mem.ReadScalar(vtable)
	if f != nil {
		return typesys.Instance{}, false, f
	}
	switch {
	case s.IsZeroBits():
		return typesys.Instance{}, false, nil
	case s.IsPointer():
		inst, f := m.mem.Function(s.Pointer())
		if f != nil {
			return typesys.Instance{}, false, f
		}
		return inst, true, nil
	default:
		return typesys.Instance{}, false, fault.ReadBytesAsPointer{}
	}
}

// ReadSizeAndAlignFromVTable reads back the size and alignment slots of an
// existing dispatch table. Tables only ever hold alignments the type
// system produced, so an alignment that is not a power of two means the
// table bytes are corrupt; the machine aborts rather than faults.
func (m *Machine) ReadSizeAndAlignFromVTable(vtable memory.Pointer) (uint64, uint64, fault.Fault) {
	ptrSize := m.mem.PointerSize()

	sizeSlot, f := PointerAdd(vtable, ptrSize)
	if f != nil {
		return 0, 0, f
	}
	size, f := m.mem.ReadUsize(sizeSlot)
	if f != nil {
		return 0, 0, f
	}

	alignSlot, f := PointerAdd(vtable, ptrSize*2)
	if f != nil {
		return 0, 0, f
	}
	raw, f := m.mem.ReadUsize(alignSlot)
	if f != nil {
		return 0, 0, f
	}
	align, err := typesys.AlignFromBytes(raw)
	if err != nil {
		bugf("vtable %s holds a corrupt alignment: %s", vtable, err)
	}
	return size, align, nil
}
