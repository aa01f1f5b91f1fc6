// Package portable holds the session-independent form of evaluation faults.
//
// Every fault variant has a portable counterpart that survives the machine
// session that produced it: payloads referencing interned type handles or
// signatures are dropped, everything else is copied verbatim. Portable
// faults are storage records, not errors; they are what the wire format
// encodes and the fault cache stores.
//
// The conversion runs one way. Faults project into this package through
// fault.Fault's Portable method; nothing converts back.
package portable

// Kind is the stable discriminator of a portable fault, used by storage and
// wire encodings.
type Kind string

const (
	KindSignatureMismatch           Kind = "signature-mismatch"
	KindMissingBody                 Kind = "missing-body"
	KindUnterminatedCString         Kind = "unterminated-c-string"
	KindDanglingPointer             Kind = "dangling-pointer"
	KindInvalidMemoryAccess         Kind = "invalid-memory-access"
	KindInvalidFunctionPointer      Kind = "invalid-function-pointer"
	KindInvalidBool                 Kind = "invalid-bool"
	KindInvalidDiscriminant         Kind = "invalid-discriminant"
	KindPointerOutOfBounds          Kind = "pointer-out-of-bounds"
	KindNullPointerUse              Kind = "null-pointer-use"
	KindReadPointerAsBytes          Kind = "read-pointer-as-bytes"
	KindReadBytesAsPointer          Kind = "read-bytes-as-pointer"
	KindInvalidPointerMath          Kind = "invalid-pointer-math"
	KindReadUndefinedBytes          Kind = "read-undefined-bytes"
	KindInvalidBoolOp               Kind = "invalid-bool-op"
	KindUnimplemented               Kind = "unimplemented"
	KindDerefFunctionPointer        Kind = "deref-function-pointer"
	KindExecuteNonFunction          Kind = "execute-non-function"
	KindArrayIndexOutOfBounds       Kind = "array-index-out-of-bounds"
	KindArithmeticFailed            Kind = "arithmetic-failed"
	KindIntrinsicFailed             Kind = "intrinsic-failed"
	KindArithmeticOverflow          Kind = "arithmetic-overflow"
	KindInvalidChar                 Kind = "invalid-char"
	KindOutOfMemory                 Kind = "out-of-memory"
	KindStepLimitReached            Kind = "step-limit-reached"
	KindFrameLimitReached           Kind = "frame-limit-reached"
	KindAlignmentCheckFailed        Kind = "alignment-check-failed"
	KindCalledClosureAsFunction     Kind = "called-closure-as-function"
	KindVTableForArgumentlessMethod Kind = "vtable-for-argumentless-method"
	KindModifiedStaticMemory        Kind = "modified-static-memory"
	KindAssumptionNotHeld           Kind = "assumption-not-held"
	KindInlineAssembly              Kind = "inline-assembly"
	KindTypeNotPrimitive            Kind = "type-not-primitive"
	KindReallocatedStaticMemory     Kind = "reallocated-static-memory"
	KindDeallocatedStaticMemory     Kind = "deallocated-static-memory"
	KindLayoutFailed                Kind = "layout-failed"
	KindHeapAllocZeroBytes          Kind = "heap-alloc-zero-bytes"
	KindHeapAllocNonPowerOfTwoAlign Kind = "heap-alloc-non-power-of-two-align"
	KindUnreachable                 Kind = "unreachable"
	KindPanic                       Kind = "panic"
	KindReadFromReturnSlot          Kind = "read-from-return-slot"
	KindTypeCheckError              Kind = "type-check-error"
)

// Fault is a portable fault record. Implementations live in this package
// only; each mirrors exactly one variant of fault.Fault.
type Fault interface {
	// Kind returns the stable discriminator of the fault.
	Kind() Kind
	// Description returns the fixed, payload-independent message for the
	// fault, except Unimplemented, whose description is its message.
	Description() string

	portableFault()
}

// Kinds lists every portable fault kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindSignatureMismatch,
		KindMissingBody,
		KindUnterminatedCString,
		KindDanglingPointer,
		KindInvalidMemoryAccess,
		KindInvalidFunctionPointer,
		KindInvalidBool,
		KindInvalidDiscriminant,
		KindPointerOutOfBounds,
		KindNullPointerUse,
		KindReadPointerAsBytes,
		KindReadBytesAsPointer,
		KindInvalidPointerMath,
		KindReadUndefinedBytes,
		KindInvalidBoolOp,
		KindUnimplemented,
		KindDerefFunctionPointer,
		KindExecuteNonFunction,
		KindArrayIndexOutOfBounds,
		KindArithmeticFailed,
		KindIntrinsicFailed,
		KindArithmeticOverflow,
		KindInvalidChar,
		KindOutOfMemory,
		KindStepLimitReached,
		KindFrameLimitReached,
		KindAlignmentCheckFailed,
		KindCalledClosureAsFunction,
		KindVTableForArgumentlessMethod,
		KindModifiedStaticMemory,
		KindAssumptionNotHeld,
		KindInlineAssembly,
		KindTypeNotPrimitive,
		KindReallocatedStaticMemory,
		KindDeallocatedStaticMemory,
		KindLayoutFailed,
		KindHeapAllocZeroBytes,
		KindHeapAllocNonPowerOfTwoAlign,
		KindUnreachable,
		KindPanic,
		KindReadFromReturnSlot,
		KindTypeCheckError,
	}
}
