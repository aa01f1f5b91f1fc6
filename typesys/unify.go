package typesys

// ---------------------------------------------------------------------------
// Unification
// ---------------------------------------------------------------------------

// unifier tracks inference-variable bindings within one session. Bindings
// are journaled so candidate impls can be tried and rolled back while
// scanning for the unique selection.
type unifier struct {
	ctx      *Context
	bindings map[uint32]*Type
	journal  []uint32 // binding order, for rollback
}

func newUnifier(ctx *Context) *unifier {
	return &unifier{ctx: ctx, bindings: make(map[uint32]*Type)}
}

// walk follows bindings while t is a bound inference variable.
func (u *unifier) walk(t *Type) *Type {
	for t.Kind() == KindInfer {
		bound, ok := u.bindings[t.index]
		if !ok {
			return t
		}
		t = bound
	}
	return t
}

// unify makes a and b equal under the current bindings, extending them if
// needed. Region annotations do not participate: references unify regardless
// of their regions, and lifting erases regions afterwards.
func (u *unifier) unify(a, b *Type) bool {
	a, b = u.walk(a), u.walk(b)
	if a == b {
		return true
	}
	if a.Kind() == KindInfer {
		return u.bind(a.index, b)
	}
	if b.Kind() == KindInfer {
		return u.bind(b.index, a)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindRef, KindRawPtr:
		return a.mut == b.mut && u.unify(a.elem, b.elem)
	case KindSlice:
		return u.unify(a.elem, b.elem)
	case KindArray:
		return a.count == b.count && u.unify(a.elem, b.elem)
	}
	// Remaining kinds have no children that could unify through bindings;
	// interning already made structurally equal handles identical.
	return false
}

func (u *unifier) bind(id uint32, t *Type) bool {
	if u.occurs(id, t) {
		return false
	}
	u.bindings[id] = t
	u.journal = append(u.journal, id)
	return true
}

// occurs reports whether inference variable id appears inside t, which would
// make a binding cyclic.
func (u *unifier) occurs(id uint32, t *Type) bool {
	t = u.walk(t)
	switch t.Kind() {
	case KindInfer:
		return t.index == id
	case KindRef, KindRawPtr, KindSlice, KindArray:
		return u.occurs(id, t.elem)
	}
	return false
}

// snapshot marks the current journal position.
func (u *unifier) snapshot() int {
	return len(u.journal)
}

// rollback undoes every binding made after the mark.
func (u *unifier) rollback(mark int) {
	for i := len(u.journal) - 1; i >= mark; i-- {
		delete(u.bindings, u.journal[i])
	}
	u.journal = u.journal[:mark]
}

// resolve substitutes bindings into t all the way down. The second result is
// false if an unbound inference variable remains.
func (u *unifier) resolve(t *Type) (*Type, bool) {
	t = u.walk(t)
	switch t.Kind() {
	case KindInfer:
		return nil, false
	case KindRef:
		elem, ok := u.resolve(t.elem)
		if !ok {
			return nil, false
		}
		return u.ctx.Ref(t.region, elem, t.mut), true
	case KindRawPtr:
		elem, ok := u.resolve(t.elem)
		if !ok {
			return nil, false
		}
		return u.ctx.RawPtr(elem, t.mut), true
	case KindSlice:
		elem, ok := u.resolve(t.elem)
		if !ok {
			return nil, false
		}
		return u.ctx.Slice(elem), true
	case KindArray:
		elem, ok := u.resolve(t.elem)
		if !ok {
			return nil, false
		}
		return u.ctx.Array(elem, t.count), true
	}
	return t, true
}
