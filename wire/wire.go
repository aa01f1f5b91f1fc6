// Package wire encodes portable fault records as CBOR for storage and
// transport. Encoding is canonical, so equal faults produce identical
// bytes.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/loamvm/loam/ir"
	"github.com/loamvm/loam/memory"
	"github.com/loamvm/loam/portable"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// record is the wire form of one portable fault: the kind plus whichever
// payload fields that kind populates. Integer keys keep encoded records
// compact; unused fields encode to nothing.
type record struct {
	Kind string `cbor:"1,keyasint"`

	Function    string `cbor:"2,keyasint,omitempty"`
	Msg         string `cbor:"3,keyasint,omitempty"`
	Alloc       uint64 `cbor:"4,keyasint,omitempty"`
	Offset      uint64 `cbor:"5,keyasint,omitempty"`
	NoOffset    bool   `cbor:"6,keyasint,omitempty"`
	Access      bool   `cbor:"7,keyasint,omitempty"`
	AllocSize   uint64 `cbor:"8,keyasint,omitempty"`
	Op          uint8  `cbor:"9,keyasint,omitempty"`
	SpanStart   uint32 `cbor:"10,keyasint,omitempty"`
	SpanEnd     uint32 `cbor:"11,keyasint,omitempty"`
	Len         uint64 `cbor:"12,keyasint,omitempty"`
	Index       uint64 `cbor:"13,keyasint,omitempty"`
	ArithKind   uint8  `cbor:"14,keyasint,omitempty"`
	Value       uint32 `cbor:"15,keyasint,omitempty"`
	MemorySize  uint64 `cbor:"16,keyasint,omitempty"`
	MemoryUsage uint64 `cbor:"17,keyasint,omitempty"`
	Required    uint64 `cbor:"18,keyasint,omitempty"`
	Has         uint64 `cbor:"19,keyasint,omitempty"`
	Align       uint64 `cbor:"20,keyasint,omitempty"`
}

func (r *record) setPointer(p memory.Pointer) {
	r.Alloc = uint64(p.Alloc)
	if p.Offset.IsConcrete() {
		r.Offset = p.Offset.Bytes()
	} else {
		r.NoOffset = true
	}
}

func (r *record) pointer() memory.Pointer {
	if r.NoOffset {
		return memory.Pointer{Alloc: memory.AllocID(r.Alloc), Offset: memory.UndeterminedOffset()}
	}
	return memory.NewPointer(memory.AllocID(r.Alloc), r.Offset)
}

// Marshal serializes a portable fault to CBOR bytes.
func Marshal(f portable.Fault) ([]byte, error) {
	r := record{Kind: string(f.Kind())}

	switch f := f.(type) {
	case portable.MissingBody:
		r.Function = f.Function
	case portable.UnterminatedCString:
		r.setPointer(f.Ptr)
	case portable.PointerOutOfBounds:
		r.setPointer(f.Ptr)
		r.Access = f.Access
		r.AllocSize = f.AllocSize
	case portable.InvalidBoolOp:
		r.Op = uint8(f.Op)
	case portable.Unimplemented:
		r.Msg = f.Msg
	case portable.ArrayIndexOutOfBounds:
		r.SpanStart = f.Span.Start
		r.SpanEnd = f.Span.End
		r.Len = f.Len
		r.Index = f.Index
	case portable.ArithmeticFailed:
		r.SpanStart = f.Span.Start
		r.SpanEnd = f.Span.End
		r.ArithKind = uint8(f.Err.Kind)
		r.Op = uint8(f.Err.Op)
	case portable.IntrinsicFailed:
		r.Msg = f.Msg
	case portable.InvalidChar:
		r.Value = f.Value
	case portable.OutOfMemory:
		r.AllocSize = f.AllocSize
		r.MemorySize = f.MemorySize
		r.MemoryUsage = f.MemoryUsage
	case portable.AlignmentCheckFailed:
		r.Required = f.Required
		r.Has = f.Has
	case portable.HeapAllocNonPowerOfTwoAlign:
		r.Align = f.Align
	}

	return cborEncMode.Marshal(&r)
}

// Unmarshal deserializes a portable fault from CBOR bytes.
func Unmarshal(data []byte) (portable.Fault, error) {
	var r record
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("wire: unmarshal fault: %w", err)
	}

	switch portable.Kind(r.Kind) {
	case portable.KindSignatureMismatch:
		return portable.SignatureMismatch{}, nil
	case portable.KindMissingBody:
		return portable.MissingBody{Function: r.Function}, nil
	case portable.KindUnterminatedCString:
		return portable.UnterminatedCString{Ptr: r.pointer()}, nil
	case portable.KindDanglingPointer:
		return portable.DanglingPointer{}, nil
	case portable.KindInvalidMemoryAccess:
		return portable.InvalidMemoryAccess{}, nil
	case portable.KindInvalidFunctionPointer:
		return portable.InvalidFunctionPointer{}, nil
	case portable.KindInvalidBool:
		return portable.InvalidBool{}, nil
	case portable.KindInvalidDiscriminant:
		return portable.InvalidDiscriminant{}, nil
	case portable.KindPointerOutOfBounds:
		return portable.PointerOutOfBounds{
			Ptr:       r.pointer(),
			Access:    r.Access,
			AllocSize: r.AllocSize,
		}, nil
	case portable.KindNullPointerUse:
		return portable.NullPointerUse{}, nil
	case portable.KindReadPointerAsBytes:
		return portable.ReadPointerAsBytes{}, nil
	case portable.KindReadBytesAsPointer:
		return portable.ReadBytesAsPointer{}, nil
	case portable.KindInvalidPointerMath:
		return portable.InvalidPointerMath{}, nil
	case portable.KindReadUndefinedBytes:
		return portable.ReadUndefinedBytes{}, nil
	case portable.KindInvalidBoolOp:
		return portable.InvalidBoolOp{Op: ir.BinOp(r.Op)}, nil
	case portable.KindUnimplemented:
		return portable.Unimplemented{Msg: r.Msg}, nil
	case portable.KindDerefFunctionPointer:
		return portable.DerefFunctionPointer{}, nil
	case portable.KindExecuteNonFunction:
		return portable.ExecuteNonFunction{}, nil
	case portable.KindArrayIndexOutOfBounds:
		return portable.ArrayIndexOutOfBounds{
			Span:  ir.Span{Start: r.SpanStart, End: r.SpanEnd},
			Len:   r.Len,
			Index: r.Index,
		}, nil
	case portable.KindArithmeticFailed:
		return portable.ArithmeticFailed{
			Span: ir.Span{Start: r.SpanStart, End: r.SpanEnd},
			Err:  ir.ArithError{Kind: ir.ArithErrorKind(r.ArithKind), Op: ir.BinOp(r.Op)},
		}, nil
	case portable.KindIntrinsicFailed:
		return portable.IntrinsicFailed{Msg: r.Msg}, nil
	case portable.KindArithmeticOverflow:
		return portable.ArithmeticOverflow{}, nil
	case portable.KindInvalidChar:
		return portable.InvalidChar{Value: r.Value}, nil
	case portable.KindOutOfMemory:
		return portable.OutOfMemory{
			AllocSize:   r.AllocSize,
			MemorySize:  r.MemorySize,
			MemoryUsage: r.MemoryUsage,
		}, nil
	case portable.KindStepLimitReached:
		return portable.StepLimitReached{}, nil
	case portable.KindFrameLimitReached:
		return portable.FrameLimitReached{}, nil
	case portable.KindAlignmentCheckFailed:
		return portable.AlignmentCheckFailed{Required: r.Required, Has: r.Has}, nil
	case portable.KindCalledClosureAsFunction:
		return portable.CalledClosureAsFunction{}, nil
	case portable.KindVTableForArgumentlessMethod:
		return portable.VTableForArgumentlessMethod{}, nil
	case portable.KindModifiedStaticMemory:
		return portable.ModifiedStaticMemory{}, nil
	case portable.KindAssumptionNotHeld:
		return portable.AssumptionNotHeld{}, nil
	case portable.KindInlineAssembly:
		return portable.InlineAssembly{}, nil
	case portable.KindTypeNotPrimitive:
		return portable.TypeNotPrimitive{}, nil
	case portable.KindReallocatedStaticMemory:
		return portable.ReallocatedStaticMemory{}, nil
	case portable.KindDeallocatedStaticMemory:
		return portable.DeallocatedStaticMemory{}, nil
	case portable.KindLayoutFailed:
		return portable.LayoutFailed{}, nil
	case portable.KindHeapAllocZeroBytes:
		return portable.HeapAllocZeroBytes{}, nil
	case portable.KindHeapAllocNonPowerOfTwoAlign:
		return portable.HeapAllocNonPowerOfTwoAlign{Align: r.Align}, nil
	case portable.KindUnreachable:
		return portable.Unreachable{}, nil
	case portable.KindPanic:
		return portable.Panic{}, nil
	case portable.KindReadFromReturnSlot:
		return portable.ReadFromReturnSlot{}, nil
	case portable.KindTypeCheckError:
		return portable.TypeCheckError{}, nil
	}
	return nil, fmt.Errorf("wire: unknown fault kind %q", r.Kind)
}
