package typesys

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Interning
// ---------------------------------------------------------------------------

// interner deduplicates types and substitution lists so that handle identity
// is structural identity. Children are always interned before parents, which
// lets the parent key on child pointers.
type interner struct {
	types     map[Type]*Type
	substs    map[string]*Substs
	nextInfer uint32
}

func newInterner() *interner {
	return &interner{
		types:  make(map[Type]*Type),
		substs: make(map[string]*Substs),
	}
}

func (in *interner) intern(t Type) *Type {
	if p, ok := in.types[t]; ok {
		return p
	}
	p := new(Type)
	*p = t
	in.types[t] = p
	return p
}

func (in *interner) internSubsts(types []*Type) *Substs {
	var b strings.Builder
	for _, t := range types {
		fmt.Fprintf(&b, "%p;", t)
	}
	key := b.String()
	if s, ok := in.substs[key]; ok {
		return s
	}
	s := &Substs{types: append([]*Type(nil), types...)}
	in.substs[key] = s
	return s
}

// ---------------------------------------------------------------------------
// Type constructors
// ---------------------------------------------------------------------------

// Bool returns the boolean type.
func (c *Context) Bool() *Type { return c.in.intern(Type{kind: KindBool}) }

// Char returns the 32-bit character type.
func (c *Context) Char() *Type { return c.in.intern(Type{kind: KindChar}) }

// Int returns the signed integer type of the given width in bits.
// Panics unless the width is 8, 16, 32, or 64.
func (c *Context) Int(bits uint16) *Type {
	checkIntWidth(bits)
	return c.in.intern(Type{kind: KindInt, bits: bits})
}

// Uint returns the unsigned integer type of the given width in bits.
// Panics unless the width is 8, 16, 32, or 64.
func (c *Context) Uint(bits uint16) *Type {
	checkIntWidth(bits)
	return c.in.intern(Type{kind: KindUint, bits: bits})
}

// Isize returns the pointer-width signed integer type.
func (c *Context) Isize() *Type { return c.in.intern(Type{kind: KindIsize}) }

// Usize returns the pointer-width unsigned integer type.
func (c *Context) Usize() *Type { return c.in.intern(Type{kind: KindUsize}) }

// Float returns the float type of the given width in bits.
// Panics unless the width is 32 or 64.
func (c *Context) Float(bits uint16) *Type {
	if bits != 32 && bits != 64 {
		panic(fmt.Sprintf("typesys: invalid float width %d", bits))
	}
	return c.in.intern(Type{kind: KindFloat, bits: bits})
}

// Unit returns the zero-sized unit type.
func (c *Context) Unit() *Type { return c.in.intern(Type{kind: KindUnit}) }

// Str returns the unsized string type.
func (c *Context) Str() *Type { return c.in.intern(Type{kind: KindStr}) }

// StructType returns the type of a defined struct.
// Panics if def is not a struct definition.
func (c *Context) StructType(def DefID) *Type {
	if _, ok := c.structs[def]; !ok {
		panic(fmt.Sprintf("typesys: %s is not a struct", c.defName(def)))
	}
	return c.in.intern(Type{kind: KindStruct, def: def, name: c.defName(def)})
}

// Array returns the array type of count elements.
func (c *Context) Array(elem *Type, count uint64) *Type {
	return c.in.intern(Type{kind: KindArray, elem: elem, count: count})
}

// Slice returns the unsized slice type of elem.
func (c *Context) Slice(elem *Type) *Type {
	return c.in.intern(Type{kind: KindSlice, elem: elem})
}

// Ref returns a reference type with the given region annotation.
func (c *Context) Ref(region Region, elem *Type, mut bool) *Type {
	return c.in.intern(Type{kind: KindRef, region: region, elem: elem, mut: mut})
}

// RawPtr returns a raw pointer type.
func (c *Context) RawPtr(elem *Type, mut bool) *Type {
	return c.in.intern(Type{kind: KindRawPtr, elem: elem, mut: mut})
}

// TraitObject returns the trait-object type of a defined trait.
// Panics if def is not a trait definition.
func (c *Context) TraitObject(def DefID) *Type {
	if _, ok := c.traits[def]; !ok {
		panic(fmt.Sprintf("typesys: %s is not a trait", c.defName(def)))
	}
	return c.in.intern(Type{kind: KindTraitObject, def: def, name: c.defName(def)})
}

// Param returns the generic parameter type with the given index. Parameter
// types only appear inside impl patterns and where clauses.
func (c *Context) Param(index uint32, name string) *Type {
	return c.in.intern(Type{kind: KindParam, index: index, name: name})
}

// freshInfer mints a new inference variable.
func (c *Context) freshInfer() *Type {
	c.in.nextInfer++
	return c.in.intern(Type{kind: KindInfer, index: c.in.nextInfer})
}

// Substs interns a substitution list. The empty list is shared.
func (c *Context) Substs(types ...*Type) *Substs {
	return c.in.internSubsts(types)
}

func checkIntWidth(bits uint16) {
	switch bits {
	case 8, 16, 32, 64:
	default:
		panic(fmt.Sprintf("typesys: invalid integer width %d", bits))
	}
}

// ---------------------------------------------------------------------------
// Structural rewriting
// ---------------------------------------------------------------------------

// instantiate replaces parameter types with the given bindings, re-interning
// every rewritten node. Parameters with indices outside vars are left alone.
func (c *Context) instantiate(t *Type, vars []*Type) *Type {
	switch t.kind {
	case KindParam:
		if int(t.index) < len(vars) && vars[t.index] != nil {
			return vars[t.index]
		}
		return t
	case KindRef:
		return c.Ref(t.region, c.instantiate(t.elem, vars), t.mut)
	case KindRawPtr:
		return c.RawPtr(c.instantiate(t.elem, vars), t.mut)
	case KindSlice:
		return c.Slice(c.instantiate(t.elem, vars))
	case KindArray:
		return c.Array(c.instantiate(t.elem, vars), t.count)
	}
	return t
}

func (c *Context) instantiateRef(ref TraitRef, vars []*Type) TraitRef {
	types := make([]*Type, ref.Substs.Len())
	for i := range types {
		types[i] = c.instantiate(ref.Substs.At(i), vars)
	}
	return TraitRef{Trait: ref.Trait, Substs: c.Substs(types...)}
}

// eraseRegions rewrites t so every reference carries RegionErased.
func (c *Context) eraseRegions(t *Type) *Type {
	switch t.kind {
	case KindRef:
		return c.Ref(RegionErased, c.eraseRegions(t.elem), t.mut)
	case KindRawPtr:
		return c.RawPtr(c.eraseRegions(t.elem), t.mut)
	case KindSlice:
		return c.Slice(c.eraseRegions(t.elem))
	case KindArray:
		return c.Array(c.eraseRegions(t.elem), t.count)
	}
	return t
}
