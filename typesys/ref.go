package typesys

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Substitutions, trait references, instances
// ---------------------------------------------------------------------------

// Substs is an interned substitution list: the type arguments that make a
// generic definition concrete. Two lists from the same Context compare equal
// with == exactly when they carry the same types in the same order.
type Substs struct {
	types []*Type
}

// Len returns the number of substitutions. A nil Substs is empty.
func (s *Substs) Len() int {
	if s == nil {
		return 0
	}
	return len(s.types)
}

// At returns the i'th substitution.
func (s *Substs) At(i int) *Type { return s.types[i] }

// Types returns a copy of the substitution list.
func (s *Substs) Types() []*Type {
	if s == nil {
		return nil
	}
	return append([]*Type(nil), s.types...)
}

// String renders the list as [T1, T2, ...].
func (s *Substs) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range s.Types() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte(']')
	return b.String()
}

// TraitRef names a trait applied to concrete type arguments. By convention
// the first substitution is the self type: Trait<Self, Args...>.
type TraitRef struct {
	Trait  DefID
	Substs *Substs
}

// Self returns the self type of the reference.
// Panics if the substitution list is empty.
func (r TraitRef) Self() *Type {
	if r.Substs.Len() == 0 {
		panic("TraitRef.Self: empty substitutions")
	}
	return r.Substs.At(0)
}

// String renders the reference without definition names, which live in the
// Context. Callers with a Context at hand should prefer Context.RefString.
func (r TraitRef) String() string {
	return fmt.Sprintf("%s%s", r.Trait, r.Substs)
}

// Instance is a resolved definition paired with the substitutions that make
// it concrete. Instances are comparable; the zero Instance means "none".
type Instance struct {
	Def    DefID
	Substs *Substs
}

// IsZero returns true for the zero Instance.
func (i Instance) IsZero() bool { return i == Instance{} }

// String renders the instance for diagnostics.
func (i Instance) String() string {
	if i.Substs.Len() == 0 {
		return i.Def.String()
	}
	return fmt.Sprintf("%s%s", i.Def, i.Substs)
}

// Obligation is a pending requirement that a trait reference hold. Depth
// tracks how many levels of nesting produced it; fulfillment refuses
// obligations past its recursion limit.
type Obligation struct {
	Ref   TraitRef
	Depth int
}

// ---------------------------------------------------------------------------
// Selection outcomes
// ---------------------------------------------------------------------------

// SelectionKind says how an obligation was satisfied.
type SelectionKind uint8

const (
	// SelectedImpl is an impl block for a specific self type.
	SelectedImpl SelectionKind = iota
	// SelectedBlanket is an impl block whose self type is a bare parameter.
	SelectedBlanket
	// SelectedBuiltin is behavior the host provides without an impl block.
	SelectedBuiltin
)

// String names the selection kind.
func (k SelectionKind) String() string {
	switch k {
	case SelectedImpl:
		return "impl"
	case SelectedBlanket:
		return "blanket impl"
	case SelectedBuiltin:
		return "builtin"
	}
	return "<invalid selection kind>"
}

// Selection is the outcome of selecting a trait obligation: which impl (if
// any) satisfies it, under which substitutions, and which nested obligations
// must hold in turn. Until the selection has been lifted out of its
// inference session, Substs may still contain inference variables.
type Selection struct {
	Kind   SelectionKind
	Impl   DefID // SelectedImpl and SelectedBlanket only
	Substs *Substs
	Nested []Obligation
}

// VTableSlot is one entry of a trait's dispatch-table layout: the trait
// method and the substitutions that apply at the object's trait reference.
// Methods that cannot be dispatched dynamically occupy an empty slot, which
// keeps its table position zeroed.
type VTableSlot struct {
	Def    DefID
	Substs *Substs
}

// IsEmpty returns true if the slot has no runtime method.
func (s VTableSlot) IsEmpty() bool { return s.Def == 0 }
