package typesys

import "strings"

// Signature is a function signature as the machine observes it at call
// time. Signatures are session data like type handles; they are never
// stored or serialized, and faults carrying them lose them when projected
// to their portable form.
type Signature struct {
	Params []*Type
	Ret    *Type
}

// NewSignature builds a signature. A nil ret stands for the unit type.
func NewSignature(params []*Type, ret *Type) *Signature {
	return &Signature{Params: append([]*Type(nil), params...), Ret: ret}
}

// String renders the signature as fn(params) -> ret, omitting a unit return.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString("fn(")
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if s.Ret != nil && s.Ret.Kind() != KindUnit {
		b.WriteString(" -> ")
		b.WriteString(s.Ret.String())
	}
	return b.String()
}
