package typesys

import "fmt"

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// selectRef finds the unique way to satisfy ref: builtin behavior, or
// exactly one matching impl. It extends u's bindings only when selection
// succeeds. Zero matching impls is a selection failure; several are an
// ambiguity, unless exactly one of them is non-blanket, which wins.
func (c *Context) selectRef(u *unifier, ref TraitRef) (Selection, error) {
	ti := c.traitInfo(ref.Trait)
	if ti.builtin {
		return Selection{Kind: SelectedBuiltin}, nil
	}

	type candidate struct {
		impl    DefID
		blanket bool
	}
	var found []candidate
	for _, impl := range ti.impls {
		mark := u.snapshot()
		if _, ok := c.tryImpl(u, impl, ref); ok {
			found = append(found, candidate{impl: impl, blanket: c.impls[impl].blanket})
		}
		u.rollback(mark)
	}

	var winner candidate
	switch len(found) {
	case 0:
		return Selection{}, fmt.Errorf("typesys: no implementation of %s found", c.RefString(ref))
	case 1:
		winner = found[0]
	default:
		concrete := -1
		for i, cand := range found {
			if cand.blanket {
				continue
			}
			if concrete >= 0 {
				return Selection{}, fmt.Errorf("typesys: ambiguous selection for %s: %d candidates", c.RefString(ref), len(found))
			}
			concrete = i
		}
		if concrete < 0 {
			return Selection{}, fmt.Errorf("typesys: ambiguous selection for %s: %d candidates", c.RefString(ref), len(found))
		}
		winner = found[concrete]
	}

	// Re-run the winner so its bindings persist in the session.
	vars, ok := c.tryImpl(u, winner.impl, ref)
	if !ok {
		panic(fmt.Sprintf("typesys: candidate %s stopped matching %s", c.defName(winner.impl), c.RefString(ref)))
	}

	ii := c.impls[winner.impl]
	nested := make([]Obligation, 0, len(ii.wheres))
	for _, w := range ii.wheres {
		nested = append(nested, Obligation{Ref: c.instantiateRef(w, vars)})
	}

	kind := SelectedImpl
	if ii.blanket {
		kind = SelectedBlanket
	}
	return Selection{
		Kind:   kind,
		Impl:   winner.impl,
		Substs: c.Substs(vars...),
		Nested: nested,
	}, nil
}

// tryImpl unifies ref against the impl's patterns with the impl's parameters
// standing as fresh inference variables. On success it returns those
// variables, one per parameter; bindings made along the way stay in u.
func (c *Context) tryImpl(u *unifier, impl DefID, ref TraitRef) ([]*Type, bool) {
	ii := c.impls[impl]
	if len(ii.args) != ref.Substs.Len()-1 {
		return nil, false
	}
	vars := make([]*Type, ii.params)
	for i := range vars {
		vars[i] = c.freshInfer()
	}
	if !u.unify(c.instantiate(ii.self, vars), ref.Self()) {
		return nil, false
	}
	for i, pat := range ii.args {
		if !u.unify(c.instantiate(pat, vars), ref.Substs.At(i+1)) {
			return nil, false
		}
	}
	return vars, true
}
