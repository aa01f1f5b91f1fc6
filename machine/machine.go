package machine

import (
	"github.com/tliron/commonlog"

	"github.com/loamvm/loam/fault"
	"github.com/loamvm/loam/memory"
	"github.com/loamvm/loam/typesys"
)

var log = commonlog.GetLogger("loam.machine")

// Memory is the simulated heap as the machine core consumes it. All reads
// and writes are pointer-width. The heap package provides the production
// implementation.
type Memory interface {
	// PointerSize returns the simulated pointer width in bytes.
	PointerSize() uint64

	// Allocate reserves size bytes at the given alignment and returns a
	// pointer to the start of the new allocation.
	Allocate(size, align uint64) (memory.Pointer, fault.Fault)

	// WriteUsize stores a pointer-width integer at dest.
	WriteUsize(dest memory.Pointer, v uint64) fault.Fault

	// ReadUsize loads a pointer-width integer from src.
	ReadUsize(src memory.Pointer) (uint64, fault.Fault)

	// WritePointer stores a pointer value at dest.
	WritePointer(dest memory.Pointer, ptr memory.Pointer) fault.Fault

	// ReadScalar loads a pointer-width value from src, preserving whether
	// the bytes hold a pointer or raw bits.
	ReadScalar(src memory.Pointer) (memory.Scalar, fault.Fault)

	// MarkImmutable freezes an allocation. Later writes, reallocations,
	// and deallocations against it fault.
	MarkImmutable(id memory.AllocID)

	// Function resolves a function pointer to the instance it was
	// materialized from.
	Function(p memory.Pointer) (typesys.Instance, fault.Fault)

	// MaterializeFunction returns the function pointer for an instance,
	// minting it on first use.
	MaterializeFunction(inst typesys.Instance) memory.Pointer
}

// TypeSystem is the host type system as the machine core consumes it. The
// typesys package provides the production implementation via Types.
type TypeSystem interface {
	// Layout returns the size and alignment of a type.
	Layout(t *typesys.Type) (typesys.Layout, *typesys.LayoutError)

	// VTableMethods returns the trait's dispatch-table layout in method
	// declaration order, with empty slots for undispatchable methods.
	VTableMethods(ref typesys.TraitRef) []typesys.VTableSlot

	// DropInstance returns a type's destructor instance, if it has one.
	DropInstance(t *typesys.Type) (typesys.Instance, bool)

	// TraitOfItem returns the trait declaring an associated item, if the
	// item belongs to a trait rather than an impl.
	TraitOfItem(def typesys.DefID) (typesys.DefID, bool)

	// AssociatedItem looks up an impl's item by name and kind.
	AssociatedItem(impl typesys.DefID, name string, kind typesys.ItemKind) (typesys.DefID, bool)

	// ItemName returns the declared name of a definition.
	ItemName(def typesys.DefID) string

	// RefString renders a trait reference for diagnostics.
	RefString(ref typesys.TraitRef) string

	// Infer opens a fresh inference session.
	Infer() InferSession
}

// InferSession is one obligation-resolution session against the host type
// system. FulfillObligation drives it through exactly this surface, which
// keeps the resolution algorithm testable against a minimal type system.
type InferSession interface {
	// Select finds the unique candidate satisfying ref.
	Select(ref typesys.TraitRef) (typesys.Selection, error)

	// RegisterNested queues obligations for Drain.
	RegisterNested(obs []typesys.Obligation)

	// Drain resolves queued obligations to exhaustion.
	Drain() error

	// ResolveLift resolves inference variables in sel, erases regions,
	// and lifts the result out of the session.
	ResolveLift(sel typesys.Selection) (typesys.Selection, error)

	// Close ends the session.
	Close()
}

// Types adapts a *typesys.Context to the TypeSystem interface. The only
// impedance is Infer's return type.
type Types struct {
	*typesys.Context
}

// Infer opens a fresh inference session on the underlying context.
func (t Types) Infer() InferSession { return t.Context.Infer() }

// Machine binds the fault and dispatch machinery to a heap and a type
// system for one evaluation.
type Machine struct {
	mem    Memory
	types  TypeSystem
	limits Limits
	steps  uint64
	frames uint64
}

// New creates a machine over the given heap and type system.
func New(mem Memory, types TypeSystem, limits Limits) *Machine {
	return &Machine{mem: mem, types: types, limits: limits}
}
