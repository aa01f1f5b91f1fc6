package typesys

import "fmt"

// ---------------------------------------------------------------------------
// Type handles
// ---------------------------------------------------------------------------

// TypeKind discriminates the shapes a type can take.
type TypeKind uint8

const (
	KindBool TypeKind = iota
	KindChar
	KindInt   // signed integer of explicit width
	KindUint  // unsigned integer of explicit width
	KindIsize // pointer-width signed integer
	KindUsize // pointer-width unsigned integer
	KindFloat
	KindUnit
	KindStr
	KindStruct
	KindArray
	KindSlice
	KindRef
	KindRawPtr
	KindTraitObject
	KindParam // a generic parameter inside an impl pattern
	KindInfer // an inference variable, live only within a session
)

// Region is a reference lifetime annotation. Regions carry no semantics in
// this machine beyond the rule that every type leaving an inference session
// has all its regions erased.
type Region uint32

// RegionErased is the region all references carry after lifting.
const RegionErased Region = 0

// Type is an interned type handle. Obtain handles through a Context; never
// construct Type values directly. Handles from the same Context compare
// equal with == exactly when the types are structurally equal.
type Type struct {
	kind   TypeKind
	bits   uint16 // KindInt, KindUint, KindFloat: width in bits
	def    DefID  // KindStruct: the struct; KindTraitObject: the trait
	elem   *Type  // KindRef, KindRawPtr, KindSlice, KindArray: pointee or element
	count  uint64 // KindArray: element count
	region Region // KindRef
	mut    bool   // KindRef, KindRawPtr
	index  uint32 // KindParam: parameter index; KindInfer: variable id
	name   string // KindStruct, KindTraitObject, KindParam: display name
}

// Kind returns the type's shape.
func (t *Type) Kind() TypeKind { return t.kind }

// Bits returns the width in bits of an integer or float type.
func (t *Type) Bits() uint16 { return t.bits }

// Def returns the definition behind a struct or trait-object type.
func (t *Type) Def() DefID { return t.def }

// Elem returns the pointee or element type of a reference, raw pointer,
// slice, or array.
func (t *Type) Elem() *Type { return t.elem }

// Count returns the element count of an array type.
func (t *Type) Count() uint64 { return t.count }

// Region returns the region annotation of a reference type.
func (t *Type) Region() Region { return t.region }

// Mutable returns true for mutable references and raw pointers.
func (t *Type) Mutable() bool { return t.mut }

// ParamIndex returns the index of a generic parameter type.
func (t *Type) ParamIndex() uint32 { return t.index }

// Name returns the display name of a struct, trait object, or parameter.
func (t *Type) Name() string { return t.name }

// IsPrimitive returns true for booleans, characters, integers, and floats.
func (t *Type) IsPrimitive() bool {
	switch t.kind {
	case KindBool, KindChar, KindInt, KindUint, KindIsize, KindUsize, KindFloat:
		return true
	}
	return false
}

// IsUnsized returns true for types with no statically known size. Parameter
// and inference types are not unsized; their layout is unknown, which is a
// different failure.
func (t *Type) IsUnsized() bool {
	switch t.kind {
	case KindStr, KindSlice, KindTraitObject:
		return true
	}
	return false
}

// String renders the type the way diagnostics print it.
func (t *Type) String() string {
	switch t.kind {
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return fmt.Sprintf("i%d", t.bits)
	case KindUint:
		return fmt.Sprintf("u%d", t.bits)
	case KindIsize:
		return "isize"
	case KindUsize:
		return "usize"
	case KindFloat:
		return fmt.Sprintf("f%d", t.bits)
	case KindUnit:
		return "()"
	case KindStr:
		return "str"
	case KindStruct:
		return t.name
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.elem, t.count)
	case KindSlice:
		return fmt.Sprintf("[%s]", t.elem)
	case KindRef:
		return "&" + t.refSuffix()
	case KindRawPtr:
		if t.mut {
			return fmt.Sprintf("*mut %s", t.elem)
		}
		return fmt.Sprintf("*const %s", t.elem)
	case KindTraitObject:
		return "dyn " + t.name
	case KindParam:
		if t.name != "" {
			return t.name
		}
		return fmt.Sprintf("P%d", t.index)
	case KindInfer:
		return fmt.Sprintf("?%d", t.index)
	}
	return "<invalid type>"
}

func (t *Type) refSuffix() string {
	s := ""
	if t.region != RegionErased {
		s = fmt.Sprintf("'%d ", t.region)
	}
	if t.mut {
		s += "mut "
	}
	return s + t.elem.String()
}
