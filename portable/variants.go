package portable

import (
	"github.com/loamvm/loam/ir"
	"github.com/loamvm/loam/memory"
)

// SignatureMismatch reports a call through a function pointer whose
// signature differs from the function's own. The two signatures are
// session-bound and are dropped in the portable form.
type SignatureMismatch struct{}

func (SignatureMismatch) Kind() Kind { return KindSignatureMismatch }
func (SignatureMismatch) Description() string {
	return "tried to call a function through a function pointer of a different type"
}
func (SignatureMismatch) portableFault() {}

// MissingBody reports a reference to a function with no executable body.
type MissingBody struct {
	Function string
}

func (MissingBody) Kind() Kind          { return KindMissingBody }
func (MissingBody) Description() string { return "no function body found" }
func (MissingBody) portableFault()      {}

// UnterminatedCString reports a C-string length scan that ran off the end
// of the allocation without finding a null byte.
type UnterminatedCString struct {
	Ptr memory.Pointer
}

func (UnterminatedCString) Kind() Kind { return KindUnterminatedCString }
func (UnterminatedCString) Description() string {
	return "attempted to get length of a null terminated string, but no null found before end of allocation"
}
func (UnterminatedCString) portableFault() {}

// DanglingPointer reports a dereference of a pointer into a freed
// allocation.
type DanglingPointer struct{}

func (DanglingPointer) Kind() Kind          { return KindDanglingPointer }
func (DanglingPointer) Description() string { return "dangling pointer was dereferenced" }
func (DanglingPointer) portableFault()      {}

// InvalidMemoryAccess reports a memory access through a pointer that
// never referred to a live allocation.
type InvalidMemoryAccess struct{}

func (InvalidMemoryAccess) Kind() Kind { return KindInvalidMemoryAccess }
func (InvalidMemoryAccess) Description() string {
	return "tried to access memory through an invalid pointer"
}
func (InvalidMemoryAccess) portableFault() {}

// InvalidFunctionPointer reports a call through a value that is not a
// function pointer.
type InvalidFunctionPointer struct{}

func (InvalidFunctionPointer) Kind() Kind { return KindInvalidFunctionPointer }
func (InvalidFunctionPointer) Description() string {
	return "tried to use an integer pointer or a dangling pointer as a function pointer"
}
func (InvalidFunctionPointer) portableFault() {}

// InvalidBool reports a boolean read whose byte pattern is neither 0 nor 1.
type InvalidBool struct{}

func (InvalidBool) Kind() Kind          { return KindInvalidBool }
func (InvalidBool) Description() string { return "invalid boolean value read" }
func (InvalidBool) portableFault()      {}

// InvalidDiscriminant reports an enum discriminant read outside the
// variant range.
type InvalidDiscriminant struct{}

func (InvalidDiscriminant) Kind() Kind          { return KindInvalidDiscriminant }
func (InvalidDiscriminant) Description() string { return "invalid enum discriminant value read" }
func (InvalidDiscriminant) portableFault()      {}

// PointerOutOfBounds reports an access or pointer computation past the end
// of an allocation. Access distinguishes a memory access from a pure
// pointer computation.
type PointerOutOfBounds struct {
	Ptr       memory.Pointer
	Access    bool
	AllocSize uint64
}

func (PointerOutOfBounds) Kind() Kind { return KindPointerOutOfBounds }
func (PointerOutOfBounds) Description() string {
	return "pointer offset outside bounds of allocation"
}
func (PointerOutOfBounds) portableFault() {}

// NullPointerUse reports a dereference of or access through the null
// pointer.
type NullPointerUse struct{}

func (NullPointerUse) Kind() Kind          { return KindNullPointerUse }
func (NullPointerUse) Description() string { return "invalid use of NULL pointer" }
func (NullPointerUse) portableFault()      {}

// ReadPointerAsBytes reports a raw read overlapping part of a stored
// pointer value.
type ReadPointerAsBytes struct{}

func (ReadPointerAsBytes) Kind() Kind { return KindReadPointerAsBytes }
func (ReadPointerAsBytes) Description() string {
	return "a raw memory access tried to access part of a pointer value as raw bytes"
}
func (ReadPointerAsBytes) portableFault() {}

// ReadBytesAsPointer reports a pointer read from bytes that do not hold a
// pointer.
type ReadBytesAsPointer struct{}

func (ReadBytesAsPointer) Kind() Kind { return KindReadBytesAsPointer }
func (ReadBytesAsPointer) Description() string {
	return "a memory access tried to interpret some bytes as a pointer"
}
func (ReadBytesAsPointer) portableFault() {}

// InvalidPointerMath reports arithmetic or comparison between pointers
// into different allocations.
type InvalidPointerMath struct{}

func (InvalidPointerMath) Kind() Kind { return KindInvalidPointerMath }
func (InvalidPointerMath) Description() string {
	return "attempted to do math or a comparison on pointers into different allocations"
}
func (InvalidPointerMath) portableFault() {}

// ReadUndefinedBytes reports a read of bytes that were never written.
type ReadUndefinedBytes struct{}

func (ReadUndefinedBytes) Kind() Kind          { return KindReadUndefinedBytes }
func (ReadUndefinedBytes) Description() string { return "attempted to read undefined bytes" }
func (ReadUndefinedBytes) portableFault()      {}

// InvalidBoolOp reports a binary operation that is not defined on
// booleans.
type InvalidBoolOp struct {
	Op ir.BinOp
}

func (InvalidBoolOp) Kind() Kind          { return KindInvalidBoolOp }
func (InvalidBoolOp) Description() string { return "invalid boolean operation" }
func (InvalidBoolOp) portableFault()      {}

// Unimplemented reports a construct the machine does not support yet. Its
// description is the message itself.
type Unimplemented struct {
	Msg string
}

func (Unimplemented) Kind() Kind            { return KindUnimplemented }
func (u Unimplemented) Description() string { return u.Msg }
func (Unimplemented) portableFault()        {}

// DerefFunctionPointer reports a data dereference of a function pointer.
type DerefFunctionPointer struct{}

func (DerefFunctionPointer) Kind() Kind          { return KindDerefFunctionPointer }
func (DerefFunctionPointer) Description() string { return "tried to dereference a function pointer" }
func (DerefFunctionPointer) portableFault()      {}

// ExecuteNonFunction reports a call through a pointer into ordinary
// memory.
type ExecuteNonFunction struct{}

func (ExecuteNonFunction) Kind() Kind { return KindExecuteNonFunction }
func (ExecuteNonFunction) Description() string {
	return "tried to treat a memory pointer as a function pointer"
}
func (ExecuteNonFunction) portableFault() {}

// ArrayIndexOutOfBounds reports an index past the end of an array, with
// the source span of the indexing expression.
type ArrayIndexOutOfBounds struct {
	Span  ir.Span
	Len   uint64
	Index uint64
}

func (ArrayIndexOutOfBounds) Kind() Kind          { return KindArrayIndexOutOfBounds }
func (ArrayIndexOutOfBounds) Description() string { return "array index out of bounds" }
func (ArrayIndexOutOfBounds) portableFault()      {}

// ArithmeticFailed reports a checked arithmetic operation that failed,
// with the source span of the expression.
type ArithmeticFailed struct {
	Span ir.Span
	Err  ir.ArithError
}

func (ArithmeticFailed) Kind() Kind          { return KindArithmeticFailed }
func (ArithmeticFailed) Description() string { return "mathematical operation failed" }
func (ArithmeticFailed) portableFault()      {}

// IntrinsicFailed reports an intrinsic-specific failure.
type IntrinsicFailed struct {
	Msg string
}

func (IntrinsicFailed) Kind() Kind          { return KindIntrinsicFailed }
func (IntrinsicFailed) Description() string { return "intrinsic failed" }
func (IntrinsicFailed) portableFault()      {}

// ArithmeticOverflow reports unchecked math that overflowed.
type ArithmeticOverflow struct{}

func (ArithmeticOverflow) Kind() Kind          { return KindArithmeticOverflow }
func (ArithmeticOverflow) Description() string { return "attempted to do overflowing math" }
func (ArithmeticOverflow) portableFault()      {}

// InvalidChar reports a 32-bit value that is not a valid character.
type InvalidChar struct {
	Value uint32
}

func (InvalidChar) Kind() Kind { return KindInvalidChar }
func (InvalidChar) Description() string {
	return "tried to interpret an invalid 32-bit value as a char"
}
func (InvalidChar) portableFault() {}

// OutOfMemory reports an allocation request exceeding the simulated
// memory budget.
type OutOfMemory struct {
	AllocSize   uint64
	MemorySize  uint64
	MemoryUsage uint64
}

func (OutOfMemory) Kind() Kind          { return KindOutOfMemory }
func (OutOfMemory) Description() string { return "could not allocate more memory" }
func (OutOfMemory) portableFault()      {}

// StepLimitReached reports exhaustion of the execution step budget.
type StepLimitReached struct{}

func (StepLimitReached) Kind() Kind { return KindStepLimitReached }
func (StepLimitReached) Description() string {
	return "reached the configured maximum number of execution steps"
}
func (StepLimitReached) portableFault() {}

// FrameLimitReached reports exhaustion of the stack frame budget.
type FrameLimitReached struct{}

func (FrameLimitReached) Kind() Kind { return KindFrameLimitReached }
func (FrameLimitReached) Description() string {
	return "reached the configured maximum number of stack frames"
}
func (FrameLimitReached) portableFault() {}

// AlignmentCheckFailed reports a read or write at an address less aligned
// than the access requires.
type AlignmentCheckFailed struct {
	Required uint64
	Has      uint64
}

func (AlignmentCheckFailed) Kind() Kind { return KindAlignmentCheckFailed }
func (AlignmentCheckFailed) Description() string {
	return "tried to execute a misaligned read or write"
}
func (AlignmentCheckFailed) portableFault() {}

// CalledClosureAsFunction reports a closure invoked through a plain
// function pointer.
type CalledClosureAsFunction struct{}

func (CalledClosureAsFunction) Kind() Kind { return KindCalledClosureAsFunction }
func (CalledClosureAsFunction) Description() string {
	return "tried to call a closure through a function pointer"
}
func (CalledClosureAsFunction) portableFault() {}

// VTableForArgumentlessMethod reports dynamic dispatch of a method that
// takes no arguments.
type VTableForArgumentlessMethod struct{}

func (VTableForArgumentlessMethod) Kind() Kind { return KindVTableForArgumentlessMethod }
func (VTableForArgumentlessMethod) Description() string {
	return "tried to call a vtable function without arguments"
}
func (VTableForArgumentlessMethod) portableFault() {}

// ModifiedStaticMemory reports a write into an allocation marked
// immutable.
type ModifiedStaticMemory struct{}

func (ModifiedStaticMemory) Kind() Kind          { return KindModifiedStaticMemory }
func (ModifiedStaticMemory) Description() string { return "tried to modify static memory" }
func (ModifiedStaticMemory) portableFault()      {}

// AssumptionNotHeld reports a runtime assumption that evaluated to false.
type AssumptionNotHeld struct{}

func (AssumptionNotHeld) Kind() Kind          { return KindAssumptionNotHeld }
func (AssumptionNotHeld) Description() string { return "`assume` argument was false" }
func (AssumptionNotHeld) portableFault()      {}

// InlineAssembly reports an inline assembly construct, which the machine
// cannot interpret.
type InlineAssembly struct{}

func (InlineAssembly) Kind() Kind          { return KindInlineAssembly }
func (InlineAssembly) Description() string { return "inline assembly is not supported" }
func (InlineAssembly) portableFault()      {}

// TypeNotPrimitive reports a primitive-typed operation applied to a
// nonprimitive type. The offending type handle is session-bound and is
// dropped in the portable form.
type TypeNotPrimitive struct{}

func (TypeNotPrimitive) Kind() Kind          { return KindTypeNotPrimitive }
func (TypeNotPrimitive) Description() string { return "expected primitive type, got nonprimitive" }
func (TypeNotPrimitive) portableFault()      {}

// ReallocatedStaticMemory reports a reallocation attempt against an
// allocation marked immutable.
type ReallocatedStaticMemory struct{}

func (ReallocatedStaticMemory) Kind() Kind          { return KindReallocatedStaticMemory }
func (ReallocatedStaticMemory) Description() string { return "tried to reallocate static memory" }
func (ReallocatedStaticMemory) portableFault()      {}

// DeallocatedStaticMemory reports a deallocation attempt against an
// allocation marked immutable.
type DeallocatedStaticMemory struct{}

func (DeallocatedStaticMemory) Kind() Kind          { return KindDeallocatedStaticMemory }
func (DeallocatedStaticMemory) Description() string { return "tried to deallocate static memory" }
func (DeallocatedStaticMemory) portableFault()      {}

// LayoutFailed reports a layout computation failure. The underlying error
// references a session-bound type handle and is dropped in the portable
// form.
type LayoutFailed struct{}

func (LayoutFailed) Kind() Kind          { return KindLayoutFailed }
func (LayoutFailed) Description() string { return "layout computation failed" }
func (LayoutFailed) portableFault()      {}

// HeapAllocZeroBytes reports a zero-byte heap allocation request.
type HeapAllocZeroBytes struct{}

func (HeapAllocZeroBytes) Kind() Kind { return KindHeapAllocZeroBytes }
func (HeapAllocZeroBytes) Description() string {
	return "tried to re-, de- or allocate zero bytes on the heap"
}
func (HeapAllocZeroBytes) portableFault() {}

// HeapAllocNonPowerOfTwoAlign reports a heap request whose alignment is
// not a power of two.
type HeapAllocNonPowerOfTwoAlign struct {
	Align uint64
}

func (HeapAllocNonPowerOfTwoAlign) Kind() Kind { return KindHeapAllocNonPowerOfTwoAlign }
func (HeapAllocNonPowerOfTwoAlign) Description() string {
	return "tried to re-, de-, or allocate heap memory with alignment that is not a power of two"
}
func (HeapAllocNonPowerOfTwoAlign) portableFault() {}

// Unreachable reports execution of code the program declared unreachable.
type Unreachable struct{}

func (Unreachable) Kind() Kind          { return KindUnreachable }
func (Unreachable) Description() string { return "entered unreachable code" }
func (Unreachable) portableFault()      {}

// Panic reports a panic raised by the evaluated program itself.
type Panic struct{}

func (Panic) Kind() Kind          { return KindPanic }
func (Panic) Description() string { return "the evaluated program panicked" }
func (Panic) portableFault()      {}

// ReadFromReturnSlot reports a read from a frame's return slot before it
// was written.
type ReadFromReturnSlot struct{}

func (ReadFromReturnSlot) Kind() Kind          { return KindReadFromReturnSlot }
func (ReadFromReturnSlot) Description() string { return "tried to read from the return slot" }
func (ReadFromReturnSlot) portableFault()      {}

// TypeCheckError reports constant evaluation over code that already
// failed type checking.
type TypeCheckError struct{}

func (TypeCheckError) Kind() Kind { return KindTypeCheckError }
func (TypeCheckError) Description() string {
	return "encountered constants with type errors, stopping evaluation"
}
func (TypeCheckError) portableFault() {}
