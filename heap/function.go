package heap

import (
	"github.com/loamvm/loam/fault"
	"github.com/loamvm/loam/memory"
	"github.com/loamvm/loam/typesys"
)

//
// Function pointers
//

// MaterializeFunction returns the pointer standing for an instance,
// minting a byteless allocation on first use. Materializing the same
// instance twice yields the same pointer, so function pointers compare
// equal exactly when their instances do.
func (h *Heap) MaterializeFunction(inst typesys.Instance) memory.Pointer {
	if id, ok := h.fnPtrs[inst]; ok {
		return memory.NewPointer(id, 0)
	}
	id := h.next
	h.next++
	h.fns[id] = inst
	h.fnPtrs[inst] = id
	return memory.NewPointer(id, 0)
}

// Function recovers the instance a function pointer stands for. The
// zero pointer, offsets into a function allocation and pointers to data
// allocations all fault.
func (h *Heap) Function(p memory.Pointer) (typesys.Instance, fault.Fault) {
	if p.Alloc == 0 {
		return typesys.Instance{}, fault.InvalidFunctionPointer{}
	}
	if !p.Offset.IsConcrete() || p.Offset.Bytes() != 0 {
		return typesys.Instance{}, fault.InvalidFunctionPointer{}
	}
	inst, ok := h.fns[p.Alloc]
	if !ok {
		if _, isData := h.allocs[p.Alloc]; isData {
			return typesys.Instance{}, fault.ExecuteNonFunction{}
		}
		return typesys.Instance{}, fault.InvalidFunctionPointer{}
	}
	return inst, nil
}
