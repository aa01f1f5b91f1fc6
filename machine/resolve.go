package machine

import "github.com/loamvm/loam/typesys"

// FulfillObligation resolves a trait reference to the selection dynamic
// dispatch will use.
//
// The resolution runs inside a fresh inference session: select the
// candidate, drain the nested obligations the candidate brought in, then
// resolve and lift the selection out of the session. The program under
// evaluation already passed type checking, so every step must succeed;
// failure at any of them means the host pipeline contradicted itself and
// aborts evaluation.
func (m *Machine) FulfillObligation(ref typesys.TraitRef) typesys.Selection {
	log.Debugf("fulfill obligation %s", m.types.RefString(ref))

	sess := m.types.Infer()
	defer sess.Close()

	sel, err := sess.Select(ref)
	if err != nil {
		bugf("selection of %s failed: %s", m.types.RefString(ref), err)
	}
	sess.RegisterNested(sel.Nested)
	if err := sess.Drain(); err != nil {
		bugf("fulfillment of %s failed: %s", m.types.RefString(ref), err)
	}
	lifted, err := sess.ResolveLift(sel)
	if err != nil {
		bugf("lifting the selection of %s failed: %s", m.types.RefString(ref), err)
	}
	return lifted
}

// ResolveAssociatedConst resolves a reference to an associated constant.
// If the referenced item belongs to a trait, the obligation is fulfilled
// and the constant is looked up among the selected impl's items. A
// reference not owned by any trait, or an impl without the constant,
// resolves to the reference unchanged.
func (m *Machine) ResolveAssociatedConst(def typesys.DefID, substs *typesys.Substs) typesys.Instance {
	return m.resolveItem(def, substs, typesys.ItemConst)
}

// resolveItem maps a trait item reference to the impl item that provides
// it under the given substitutions, falling back to the reference itself
// when nothing more concrete exists.
func (m *Machine) resolveItem(def typesys.DefID, substs *typesys.Substs, kind typesys.ItemKind) typesys.Instance {
	trait, ok := m.types.TraitOfItem(def)
	if !ok {
		return typesys.Instance{Def: def, Substs: substs}
	}
	sel := m.FulfillObligation(typesys.TraitRef{Trait: trait, Substs: substs})
	switch sel.Kind {
	case typesys.SelectedImpl, typesys.SelectedBlanket:
		if item, ok := m.types.AssociatedItem(sel.Impl, m.types.ItemName(def), kind); ok {
			return typesys.Instance{Def: item, Substs: sel.Substs}
		}
	}
	return typesys.Instance{Def: def, Substs: substs}
}
