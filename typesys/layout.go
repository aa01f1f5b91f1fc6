package typesys

import "fmt"

// ---------------------------------------------------------------------------
// Layout queries
// ---------------------------------------------------------------------------

// Layout is the size and alignment in bytes of a sized type.
type Layout struct {
	Size  uint64
	Align uint64
}

// LayoutErrorKind classifies a failed layout query.
type LayoutErrorKind uint8

const (
	// LayoutUnsized marks types with no statically known size.
	LayoutUnsized LayoutErrorKind = iota
	// LayoutUnknown marks types whose layout depends on an unbound
	// parameter or inference variable.
	LayoutUnknown
	// LayoutSizeOverflow marks types whose size exceeds the address space.
	LayoutSizeOverflow
)

// LayoutError reports why a layout query failed. The Type handle inside is
// only valid within the Context that produced it; faults carrying a
// LayoutError lose it when projected to their portable form.
type LayoutError struct {
	Kind LayoutErrorKind
	Type *Type
}

// String renders the error for diagnostics.
func (e LayoutError) String() string {
	switch e.Kind {
	case LayoutUnsized:
		return fmt.Sprintf("%s has no statically known size", e.Type)
	case LayoutUnknown:
		return fmt.Sprintf("the layout of %s is not known here", e.Type)
	case LayoutSizeOverflow:
		return fmt.Sprintf("the size of %s overflows the address space", e.Type)
	}
	return "layout query failed"
}

// AlignFromBytes validates an alignment read back from memory.
// It returns an error unless v is a nonzero power of two.
func AlignFromBytes(v uint64) (uint64, error) {
	if v == 0 || v&(v-1) != 0 {
		return 0, fmt.Errorf("typesys: alignment %d is not a power of two", v)
	}
	return v, nil
}

// Layout computes the size and alignment of t.
func (c *Context) Layout(t *Type) (Layout, *LayoutError) {
	switch t.Kind() {
	case KindBool:
		return Layout{Size: 1, Align: 1}, nil
	case KindChar:
		return Layout{Size: 4, Align: 4}, nil
	case KindInt, KindUint, KindFloat:
		n := uint64(t.Bits()) / 8
		return Layout{Size: n, Align: n}, nil
	case KindIsize, KindUsize:
		return Layout{Size: c.ptrSize, Align: c.ptrSize}, nil
	case KindUnit:
		return Layout{Size: 0, Align: 1}, nil
	case KindStruct:
		si := c.structs[t.Def()]
		return Layout{Size: si.size, Align: si.align}, nil
	case KindArray:
		elem, err := c.Layout(t.Elem())
		if err != nil {
			return Layout{}, err
		}
		if t.Count() != 0 && elem.Size > ^uint64(0)/t.Count() {
			return Layout{}, &LayoutError{Kind: LayoutSizeOverflow, Type: t}
		}
		return Layout{Size: elem.Size * t.Count(), Align: elem.Align}, nil
	case KindStr, KindSlice, KindTraitObject:
		return Layout{}, &LayoutError{Kind: LayoutUnsized, Type: t}
	case KindRef, KindRawPtr:
		return c.pointerLayout(t)
	case KindParam, KindInfer:
		return Layout{}, &LayoutError{Kind: LayoutUnknown, Type: t}
	}
	panic(fmt.Sprintf("typesys: layout of invalid type kind %d", t.Kind()))
}

// pointerLayout is thin for sized pointees and fat (pointer plus metadata)
// for unsized ones.
func (c *Context) pointerLayout(t *Type) (Layout, *LayoutError) {
	if t.Elem().IsUnsized() {
		return Layout{Size: 2 * c.ptrSize, Align: c.ptrSize}, nil
	}
	if _, err := c.Layout(t.Elem()); err != nil {
		if err.Kind == LayoutUnknown {
			return Layout{}, &LayoutError{Kind: LayoutUnknown, Type: t}
		}
		return Layout{}, err
	}
	return Layout{Size: c.ptrSize, Align: c.ptrSize}, nil
}
