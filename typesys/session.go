package typesys

import "fmt"

// ---------------------------------------------------------------------------
// Inference sessions
// ---------------------------------------------------------------------------

// recursionLimit caps obligation nesting during fulfillment.
const recursionLimit = 64

// Session is one inference session: it owns the inference variables minted
// while resolving a single obligation and the worklist of nested obligations
// pending on them. Open a session per resolution, drive it to completion,
// lift the result, and Close it. Nothing produced inside a session is valid
// after Close except lifted values.
type Session struct {
	ctx     *Context
	u       *unifier
	pending []Obligation
	closed  bool
}

// Infer opens a fresh inference session.
func (c *Context) Infer() *Session {
	return &Session{ctx: c, u: newUnifier(c)}
}

func (s *Session) live() {
	if s.closed {
		panic("typesys: inference session used after Close")
	}
}

// Select selects the unique candidate satisfying ref. The selection's
// substitutions may still contain inference variables bound in this session;
// lift it with ResolveLift before letting it escape.
func (s *Session) Select(ref TraitRef) (Selection, error) {
	s.live()
	return s.ctx.selectRef(s.u, ref)
}

// RegisterNested queues obligations for Drain.
func (s *Session) RegisterNested(obs []Obligation) {
	s.live()
	s.pending = append(s.pending, obs...)
}

// Drain resolves queued obligations to exhaustion, selecting each one and
// queueing whatever its candidate requires in turn. Selections made while
// draining can bind inference variables of earlier selections; that is the
// point of draining before lifting.
func (s *Session) Drain() error {
	s.live()
	for len(s.pending) > 0 {
		ob := s.pending[0]
		s.pending = s.pending[1:]
		if ob.Depth > recursionLimit {
			return fmt.Errorf("typesys: overflow evaluating obligation %s", s.ctx.RefString(ob.Ref))
		}
		sel, err := s.ctx.selectRef(s.u, ob.Ref)
		if err != nil {
			return err
		}
		for _, nested := range sel.Nested {
			nested.Depth = ob.Depth + 1
			s.pending = append(s.pending, nested)
		}
	}
	return nil
}

// ResolveLift substitutes every binding of this session into sel, erases
// region annotations, and re-interns the result, making it valid beyond the
// session. A residual inference variable is an error: the caller gave the
// session too little to pin the selection down.
func (s *Session) ResolveLift(sel Selection) (Selection, error) {
	s.live()
	if sel.Substs.Len() > 0 {
		lifted := make([]*Type, sel.Substs.Len())
		for i := range lifted {
			t, ok := s.u.resolve(sel.Substs.At(i))
			if !ok {
				return Selection{}, fmt.Errorf("typesys: unresolved inference variable in substitutions %s", sel.Substs)
			}
			lifted[i] = s.ctx.eraseRegions(t)
		}
		sel.Substs = s.ctx.Substs(lifted...)
	}
	sel.Nested = nil
	return sel, nil
}

// Close ends the session. Any further use panics.
func (s *Session) Close() {
	s.closed = true
}
