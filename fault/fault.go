package fault

import (
	"fmt"

	"github.com/loamvm/loam/ir"
	"github.com/loamvm/loam/memory"
	"github.com/loamvm/loam/portable"
	"github.com/loamvm/loam/typesys"
)

// Fault is one violation of the machine's operational invariants. A nil
// Fault means the operation completed.
//
// The variant set is closed: every variant lives in this package and
// implements Error, Description and Portable. Requiring Portable on the
// interface keeps the projection total; a variant added without a portable
// counterpart does not compile.
type Fault interface {
	error

	// Description returns the fixed low-detail message for the fault.
	// Error may render payload detail on top of it; Description never
	// does, except for Unimplemented, whose message is its payload.
	Description() string

	// Portable projects the fault into its session-independent mirror,
	// dropping payloads that reference interned type handles.
	Portable() portable.Fault

	fault()
}

// ---------------------------------------------------------------------------
// Pointer and memory faults
// ---------------------------------------------------------------------------

// PointerOutOfBounds is an access or pointer computation past the end of
// an allocation. Access distinguishes a memory access from a pure pointer
// computation.
type PointerOutOfBounds struct {
	Ptr       memory.Pointer
	Access    bool
	AllocSize uint64
}

func (f PointerOutOfBounds) Error() string {
	if !f.Ptr.Offset.IsConcrete() {
		return f.Description()
	}
	verb := "pointer computed"
	if f.Access {
		verb = "memory access"
	}
	return fmt.Sprintf("%s at offset %d, outside bounds of allocation %d which has size %d",
		verb, f.Ptr.Offset.Bytes(), f.Ptr.Alloc, f.AllocSize)
}

func (f PointerOutOfBounds) Description() string { return f.Portable().Description() }

func (f PointerOutOfBounds) Portable() portable.Fault {
	return portable.PointerOutOfBounds{Ptr: f.Ptr, Access: f.Access, AllocSize: f.AllocSize}
}

func (f PointerOutOfBounds) fault() {}

// InvalidMemoryAccess is an access through a pointer that never referred
// to a live allocation.
type InvalidMemoryAccess struct{}

func (f InvalidMemoryAccess) Error() string            { return f.Description() }
func (f InvalidMemoryAccess) Description() string      { return f.Portable().Description() }
func (f InvalidMemoryAccess) Portable() portable.Fault { return portable.InvalidMemoryAccess{} }
func (f InvalidMemoryAccess) fault()                   {}

// DanglingPointer is a dereference of a pointer into a freed allocation.
type DanglingPointer struct{}

func (f DanglingPointer) Error() string            { return f.Description() }
func (f DanglingPointer) Description() string      { return f.Portable().Description() }
func (f DanglingPointer) Portable() portable.Fault { return portable.DanglingPointer{} }
func (f DanglingPointer) fault()                   {}

// NullPointerUse is a dereference of or access through the null pointer.
type NullPointerUse struct{}

func (f NullPointerUse) Error() string            { return f.Description() }
func (f NullPointerUse) Description() string      { return f.Portable().Description() }
func (f NullPointerUse) Portable() portable.Fault { return portable.NullPointerUse{} }
func (f NullPointerUse) fault()                   {}

// ReadPointerAsBytes is a raw read overlapping part of a stored pointer.
type ReadPointerAsBytes struct{}

func (f ReadPointerAsBytes) Error() string            { return f.Description() }
func (f ReadPointerAsBytes) Description() string      { return f.Portable().Description() }
func (f ReadPointerAsBytes) Portable() portable.Fault { return portable.ReadPointerAsBytes{} }
func (f ReadPointerAsBytes) fault()                   {}

// ReadBytesAsPointer is a pointer read from bytes that do not hold one.
type ReadBytesAsPointer struct{}

func (f ReadBytesAsPointer) Error() string            { return f.Description() }
func (f ReadBytesAsPointer) Description() string      { return f.Portable().Description() }
func (f ReadBytesAsPointer) Portable() portable.Fault { return portable.ReadBytesAsPointer{} }
func (f ReadBytesAsPointer) fault()                   {}

// InvalidPointerMath is arithmetic or comparison between pointers into
// different allocations.
type InvalidPointerMath struct{}

func (f InvalidPointerMath) Error() string            { return f.Description() }
func (f InvalidPointerMath) Description() string      { return f.Portable().Description() }
func (f InvalidPointerMath) Portable() portable.Fault { return portable.InvalidPointerMath{} }
func (f InvalidPointerMath) fault()                   {}

// ReadUndefinedBytes is a read of bytes that were never written.
type ReadUndefinedBytes struct{}

func (f ReadUndefinedBytes) Error() string            { return f.Description() }
func (f ReadUndefinedBytes) Description() string      { return f.Portable().Description() }
func (f ReadUndefinedBytes) Portable() portable.Fault { return portable.ReadUndefinedBytes{} }
func (f ReadUndefinedBytes) fault()                   {}

// AlignmentCheckFailed is a read or write at an address less aligned than
// the access requires.
type AlignmentCheckFailed struct {
	Required uint64
	Has      uint64
}

func (f AlignmentCheckFailed) Error() string {
	return fmt.Sprintf("tried to access memory with alignment %d, but alignment %d is required",
		f.Has, f.Required)
}

func (f AlignmentCheckFailed) Description() string { return f.Portable().Description() }

func (f AlignmentCheckFailed) Portable() portable.Fault {
	return portable.AlignmentCheckFailed{Required: f.Required, Has: f.Has}
}

func (f AlignmentCheckFailed) fault() {}

// UnterminatedCString is a C-string length scan that ran off the end of
// the allocation without finding a null byte.
type UnterminatedCString struct {
	Ptr memory.Pointer
}

func (f UnterminatedCString) Error() string       { return f.Description() }
func (f UnterminatedCString) Description() string { return f.Portable().Description() }

func (f UnterminatedCString) Portable() portable.Fault {
	return portable.UnterminatedCString{Ptr: f.Ptr}
}

func (f UnterminatedCString) fault() {}

// OutOfMemory is an allocation request exceeding the simulated memory
// budget.
type OutOfMemory struct {
	AllocSize   uint64
	MemorySize  uint64
	MemoryUsage uint64
}

func (f OutOfMemory) Error() string {
	return fmt.Sprintf("tried to allocate %d more bytes, but only %d bytes are free of the %d byte memory",
		f.AllocSize, f.MemorySize-f.MemoryUsage, f.MemorySize)
}

func (f OutOfMemory) Description() string { return f.Portable().Description() }

func (f OutOfMemory) Portable() portable.Fault {
	return portable.OutOfMemory{AllocSize: f.AllocSize, MemorySize: f.MemorySize, MemoryUsage: f.MemoryUsage}
}

func (f OutOfMemory) fault() {}

// ---------------------------------------------------------------------------
// Function and dispatch faults
// ---------------------------------------------------------------------------

// SignatureMismatch is a call through a function pointer whose signature
// differs from the function's own. Fn is the function's signature, Ptr the
// pointer's. Both are session data and are dropped by Portable.
type SignatureMismatch struct {
	Fn  *typesys.Signature
	Ptr *typesys.Signature
}

func (f SignatureMismatch) Error() string {
	return fmt.Sprintf("tried to call a function with signature %s through a function pointer of type %s",
		f.Fn, f.Ptr)
}

func (f SignatureMismatch) Description() string      { return f.Portable().Description() }
func (f SignatureMismatch) Portable() portable.Fault { return portable.SignatureMismatch{} }
func (f SignatureMismatch) fault()                   {}

// MissingBody is a reference to a function with no executable body.
type MissingBody struct {
	Function string
}

func (f MissingBody) Error() string {
	return fmt.Sprintf("no body for `%s`", f.Function)
}

func (f MissingBody) Description() string { return f.Portable().Description() }

func (f MissingBody) Portable() portable.Fault {
	return portable.MissingBody{Function: f.Function}
}

func (f MissingBody) fault() {}

// InvalidFunctionPointer is a call through a value that is not a function
// pointer.
type InvalidFunctionPointer struct{}

func (f InvalidFunctionPointer) Error() string            { return f.Description() }
func (f InvalidFunctionPointer) Description() string      { return f.Portable().Description() }
func (f InvalidFunctionPointer) Portable() portable.Fault { return portable.InvalidFunctionPointer{} }
func (f InvalidFunctionPointer) fault()                   {}

// DerefFunctionPointer is a data dereference of a function pointer.
type DerefFunctionPointer struct{}

func (f DerefFunctionPointer) Error() string            { return f.Description() }
func (f DerefFunctionPointer) Description() string      { return f.Portable().Description() }
func (f DerefFunctionPointer) Portable() portable.Fault { return portable.DerefFunctionPointer{} }
func (f DerefFunctionPointer) fault()                   {}

// ExecuteNonFunction is a call through a pointer into ordinary memory.
type ExecuteNonFunction struct{}

func (f ExecuteNonFunction) Error() string            { return f.Description() }
func (f ExecuteNonFunction) Description() string      { return f.Portable().Description() }
func (f ExecuteNonFunction) Portable() portable.Fault { return portable.ExecuteNonFunction{} }
func (f ExecuteNonFunction) fault()                   {}

// CalledClosureAsFunction is a closure invoked through a plain function
// pointer.
type CalledClosureAsFunction struct{}

func (f CalledClosureAsFunction) Error() string       { return f.Description() }
func (f CalledClosureAsFunction) Description() string { return f.Portable().Description() }
func (f CalledClosureAsFunction) Portable() portable.Fault {
	return portable.CalledClosureAsFunction{}
}
func (f CalledClosureAsFunction) fault() {}

// VTableForArgumentlessMethod is dynamic dispatch of a method that takes
// no arguments.
type VTableForArgumentlessMethod struct{}

func (f VTableForArgumentlessMethod) Error() string       { return f.Description() }
func (f VTableForArgumentlessMethod) Description() string { return f.Portable().Description() }
func (f VTableForArgumentlessMethod) Portable() portable.Fault {
	return portable.VTableForArgumentlessMethod{}
}
func (f VTableForArgumentlessMethod) fault() {}

// ---------------------------------------------------------------------------
// Value and typing faults
// ---------------------------------------------------------------------------

// InvalidBool is a boolean read whose byte pattern is neither 0 nor 1.
type InvalidBool struct{}

func (f InvalidBool) Error() string            { return f.Description() }
func (f InvalidBool) Description() string      { return f.Portable().Description() }
func (f InvalidBool) Portable() portable.Fault { return portable.InvalidBool{} }
func (f InvalidBool) fault()                   {}

// InvalidBoolOp is a binary operation that is not defined on booleans.
type InvalidBoolOp struct {
	Op ir.BinOp
}

func (f InvalidBoolOp) Error() string            { return f.Description() }
func (f InvalidBoolOp) Description() string      { return f.Portable().Description() }
func (f InvalidBoolOp) Portable() portable.Fault { return portable.InvalidBoolOp{Op: f.Op} }
func (f InvalidBoolOp) fault()                   {}

// InvalidDiscriminant is an enum discriminant read outside the variant
// range.
type InvalidDiscriminant struct{}

func (f InvalidDiscriminant) Error() string            { return f.Description() }
func (f InvalidDiscriminant) Description() string      { return f.Portable().Description() }
func (f InvalidDiscriminant) Portable() portable.Fault { return portable.InvalidDiscriminant{} }
func (f InvalidDiscriminant) fault()                   {}

// InvalidChar is a 32-bit value that is not a valid character.
type InvalidChar struct {
	Value uint32
}

func (f InvalidChar) Error() string {
	return fmt.Sprintf("tried to interpret an invalid 32-bit value as a char: %d", f.Value)
}

func (f InvalidChar) Description() string      { return f.Portable().Description() }
func (f InvalidChar) Portable() portable.Fault { return portable.InvalidChar{Value: f.Value} }
func (f InvalidChar) fault()                   {}

// TypeNotPrimitive is a primitive-typed operation applied to a
// nonprimitive type. The type handle is session data and is dropped by
// Portable.
type TypeNotPrimitive struct {
	Type *typesys.Type
}

func (f TypeNotPrimitive) Error() string {
	return fmt.Sprintf("expected primitive type, got %s", f.Type)
}

func (f TypeNotPrimitive) Description() string      { return f.Portable().Description() }
func (f TypeNotPrimitive) Portable() portable.Fault { return portable.TypeNotPrimitive{} }
func (f TypeNotPrimitive) fault()                   {}

// LayoutFailed is a failed layout computation. The underlying error holds
// a type handle and is dropped by Portable.
type LayoutFailed struct {
	Err *typesys.LayoutError
}

func (f LayoutFailed) Error() string {
	return fmt.Sprintf("layout computation failed: %s", f.Err)
}

func (f LayoutFailed) Description() string      { return f.Portable().Description() }
func (f LayoutFailed) Portable() portable.Fault { return portable.LayoutFailed{} }
func (f LayoutFailed) fault()                   {}

// TypeCheckError is constant evaluation over code that already failed
// type checking.
type TypeCheckError struct{}

func (f TypeCheckError) Error() string            { return f.Description() }
func (f TypeCheckError) Description() string      { return f.Portable().Description() }
func (f TypeCheckError) Portable() portable.Fault { return portable.TypeCheckError{} }
func (f TypeCheckError) fault()                   {}

// ---------------------------------------------------------------------------
// Arithmetic faults
// ---------------------------------------------------------------------------

// ArithmeticFailed is a checked arithmetic operation that failed, with the
// source span of the expression.
type ArithmeticFailed struct {
	Span ir.Span
	Err  ir.ArithError
}

func (f ArithmeticFailed) Error() string {
	return fmt.Sprintf("%s at %s", f.Err, f.Span)
}

func (f ArithmeticFailed) Description() string { return f.Portable().Description() }

func (f ArithmeticFailed) Portable() portable.Fault {
	return portable.ArithmeticFailed{Span: f.Span, Err: f.Err}
}

func (f ArithmeticFailed) fault() {}

// ArithmeticOverflow is unchecked math that overflowed.
type ArithmeticOverflow struct{}

func (f ArithmeticOverflow) Error() string            { return f.Description() }
func (f ArithmeticOverflow) Description() string      { return f.Portable().Description() }
func (f ArithmeticOverflow) Portable() portable.Fault { return portable.ArithmeticOverflow{} }
func (f ArithmeticOverflow) fault()                   {}

// ArrayIndexOutOfBounds is an index past the end of an array, with the
// source span of the indexing expression.
type ArrayIndexOutOfBounds struct {
	Span  ir.Span
	Len   uint64
	Index uint64
}

func (f ArrayIndexOutOfBounds) Error() string {
	return fmt.Sprintf("index out of bounds: the len is %d but the index is %d at %s",
		f.Len, f.Index, f.Span)
}

func (f ArrayIndexOutOfBounds) Description() string { return f.Portable().Description() }

func (f ArrayIndexOutOfBounds) Portable() portable.Fault {
	return portable.ArrayIndexOutOfBounds{Span: f.Span, Len: f.Len, Index: f.Index}
}

func (f ArrayIndexOutOfBounds) fault() {}

// ---------------------------------------------------------------------------
// Heap discipline faults
// ---------------------------------------------------------------------------

// ModifiedStaticMemory is a write into an allocation marked immutable.
type ModifiedStaticMemory struct{}

func (f ModifiedStaticMemory) Error() string            { return f.Description() }
func (f ModifiedStaticMemory) Description() string      { return f.Portable().Description() }
func (f ModifiedStaticMemory) Portable() portable.Fault { return portable.ModifiedStaticMemory{} }
func (f ModifiedStaticMemory) fault()                   {}

// ReallocatedStaticMemory is a reallocation attempt against an allocation
// marked immutable.
type ReallocatedStaticMemory struct{}

func (f ReallocatedStaticMemory) Error() string       { return f.Description() }
func (f ReallocatedStaticMemory) Description() string { return f.Portable().Description() }
func (f ReallocatedStaticMemory) Portable() portable.Fault {
	return portable.ReallocatedStaticMemory{}
}
func (f ReallocatedStaticMemory) fault() {}

// DeallocatedStaticMemory is a deallocation attempt against an allocation
// marked immutable.
type DeallocatedStaticMemory struct{}

func (f DeallocatedStaticMemory) Error() string       { return f.Description() }
func (f DeallocatedStaticMemory) Description() string { return f.Portable().Description() }
func (f DeallocatedStaticMemory) Portable() portable.Fault {
	return portable.DeallocatedStaticMemory{}
}
func (f DeallocatedStaticMemory) fault() {}

// HeapAllocZeroBytes is a zero-byte heap allocation request.
type HeapAllocZeroBytes struct{}

func (f HeapAllocZeroBytes) Error() string            { return f.Description() }
func (f HeapAllocZeroBytes) Description() string      { return f.Portable().Description() }
func (f HeapAllocZeroBytes) Portable() portable.Fault { return portable.HeapAllocZeroBytes{} }
func (f HeapAllocZeroBytes) fault()                   {}

// HeapAllocNonPowerOfTwoAlign is a heap request whose alignment is not a
// power of two.
type HeapAllocNonPowerOfTwoAlign struct {
	Align uint64
}

func (f HeapAllocNonPowerOfTwoAlign) Error() string       { return f.Description() }
func (f HeapAllocNonPowerOfTwoAlign) Description() string { return f.Portable().Description() }

func (f HeapAllocNonPowerOfTwoAlign) Portable() portable.Fault {
	return portable.HeapAllocNonPowerOfTwoAlign{Align: f.Align}
}

func (f HeapAllocNonPowerOfTwoAlign) fault() {}

// ---------------------------------------------------------------------------
// Budget faults
// ---------------------------------------------------------------------------

// StepLimitReached is exhaustion of the execution step budget.
type StepLimitReached struct{}

func (f StepLimitReached) Error() string            { return f.Description() }
func (f StepLimitReached) Description() string      { return f.Portable().Description() }
func (f StepLimitReached) Portable() portable.Fault { return portable.StepLimitReached{} }
func (f StepLimitReached) fault()                   {}

// FrameLimitReached is exhaustion of the stack frame budget.
type FrameLimitReached struct{}

func (f FrameLimitReached) Error() string            { return f.Description() }
func (f FrameLimitReached) Description() string      { return f.Portable().Description() }
func (f FrameLimitReached) Portable() portable.Fault { return portable.FrameLimitReached{} }
func (f FrameLimitReached) fault()                   {}

// ---------------------------------------------------------------------------
// Evaluation faults
// ---------------------------------------------------------------------------

// Unimplemented is a construct the machine does not support yet. Its
// description is the message itself.
type Unimplemented struct {
	Msg string
}

func (f Unimplemented) Error() string            { return f.Description() }
func (f Unimplemented) Description() string      { return f.Portable().Description() }
func (f Unimplemented) Portable() portable.Fault { return portable.Unimplemented{Msg: f.Msg} }
func (f Unimplemented) fault()                   {}

// IntrinsicFailed is an intrinsic-specific failure. The message is carried
// for storage; the rendered fault keeps the fixed description.
type IntrinsicFailed struct {
	Msg string
}

func (f IntrinsicFailed) Error() string            { return f.Description() }
func (f IntrinsicFailed) Description() string      { return f.Portable().Description() }
func (f IntrinsicFailed) Portable() portable.Fault { return portable.IntrinsicFailed{Msg: f.Msg} }
func (f IntrinsicFailed) fault()                   {}

// InlineAssembly is an inline assembly construct, which the machine cannot
// interpret.
type InlineAssembly struct{}

func (f InlineAssembly) Error() string            { return f.Description() }
func (f InlineAssembly) Description() string      { return f.Portable().Description() }
func (f InlineAssembly) Portable() portable.Fault { return portable.InlineAssembly{} }
func (f InlineAssembly) fault()                   {}

// AssumptionNotHeld is a runtime assumption that evaluated to false.
type AssumptionNotHeld struct{}

func (f AssumptionNotHeld) Error() string            { return f.Description() }
func (f AssumptionNotHeld) Description() string      { return f.Portable().Description() }
func (f AssumptionNotHeld) Portable() portable.Fault { return portable.AssumptionNotHeld{} }
func (f AssumptionNotHeld) fault()                   {}

// Unreachable is execution of code the program declared unreachable.
type Unreachable struct{}

func (f Unreachable) Error() string            { return f.Description() }
func (f Unreachable) Description() string      { return f.Portable().Description() }
func (f Unreachable) Portable() portable.Fault { return portable.Unreachable{} }
func (f Unreachable) fault()                   {}

// Panic is a panic raised by the evaluated program itself.
type Panic struct{}

func (f Panic) Error() string            { return f.Description() }
func (f Panic) Description() string      { return f.Portable().Description() }
func (f Panic) Portable() portable.Fault { return portable.Panic{} }
func (f Panic) fault()                   {}

// ReadFromReturnSlot is a read from a frame's return slot before it was
// written.
type ReadFromReturnSlot struct{}

func (f ReadFromReturnSlot) Error() string            { return f.Description() }
func (f ReadFromReturnSlot) Description() string      { return f.Portable().Description() }
func (f ReadFromReturnSlot) Portable() portable.Fault { return portable.ReadFromReturnSlot{} }
func (f ReadFromReturnSlot) fault()                   {}
