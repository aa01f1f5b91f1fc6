package typesys

import (
	"strings"
	"testing"
)

// testWorld is the fixture most selection tests share: a Display trait with
// impls for Point and u64, a blanket Stringify impl piggybacking on Display,
// and a builtin marker trait.
type testWorld struct {
	ctx *Context

	display    DefID
	displayFmt DefID
	stringify  DefID
	marker     DefID

	point     DefID
	pointImpl DefID // impl Display for Point
	u64Impl   DefID // impl Display for u64
}

func newTestWorld() *testWorld {
	ctx := NewContext(Config{})
	w := &testWorld{ctx: ctx}

	w.display = ctx.DefineTrait("Display")
	w.displayFmt = ctx.DeclareMethod(w.display, "fmt", true)

	w.point = ctx.DefineStruct("Point", 16, 8)
	w.pointImpl = ctx.DefineImpl(w.display, ImplDecl{Self: ctx.StructType(w.point)})
	ctx.DefineImplMethod(w.pointImpl, "fmt")
	w.u64Impl = ctx.DefineImpl(w.display, ImplDecl{Self: ctx.Uint(64)})
	ctx.DefineImplMethod(w.u64Impl, "fmt")

	w.stringify = ctx.DefineTrait("Stringify")
	ctx.DefineImpl(w.stringify, ImplDecl{
		Params: 1,
		Self:   ctx.Param(0, "T"),
		Wheres: []TraitRef{ctx.TraitRefOf(w.display, ctx.Param(0, "T"))},
	})

	w.marker = ctx.DefineTrait("Marker")
	ctx.MarkBuiltin(w.marker)

	return w
}

func TestSelectConcreteImpl(t *testing.T) {
	w := newTestWorld()
	sess := w.ctx.Infer()
	defer sess.Close()

	sel, err := sess.Select(w.ctx.TraitRefOf(w.display, w.ctx.StructType(w.point)))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Kind != SelectedImpl {
		t.Errorf("Kind = %s, want impl", sel.Kind)
	}
	if sel.Impl != w.pointImpl {
		t.Errorf("Impl = %s, want %s", sel.Impl, w.pointImpl)
	}
	if len(sel.Nested) != 0 {
		t.Errorf("Nested = %d obligations, want 0", len(sel.Nested))
	}
}

func TestSelectBuiltin(t *testing.T) {
	w := newTestWorld()
	sess := w.ctx.Infer()
	defer sess.Close()

	sel, err := sess.Select(w.ctx.TraitRefOf(w.marker, w.ctx.Bool()))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Kind != SelectedBuiltin {
		t.Errorf("Kind = %s, want builtin", sel.Kind)
	}
	if sel.Impl != 0 || sel.Substs.Len() != 0 || len(sel.Nested) != 0 {
		t.Error("builtin selection should carry no impl, substs, or obligations")
	}
}

func TestSelectNoImpl(t *testing.T) {
	w := newTestWorld()
	sess := w.ctx.Infer()
	defer sess.Close()

	_, err := sess.Select(w.ctx.TraitRefOf(w.display, w.ctx.Bool()))
	if err == nil {
		t.Fatal("Select should fail for an unimplemented trait")
	}
	if !strings.Contains(err.Error(), "no implementation") {
		t.Errorf("error = %q, want a no-implementation message", err)
	}
}

func TestSelectBlanketResolvesThroughFulfillment(t *testing.T) {
	w := newTestWorld()
	sess := w.ctx.Infer()
	defer sess.Close()

	ref := w.ctx.TraitRefOf(w.stringify, w.ctx.StructType(w.point))
	sel, err := sess.Select(ref)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Kind != SelectedBlanket {
		t.Errorf("Kind = %s, want blanket impl", sel.Kind)
	}
	if len(sel.Nested) != 1 {
		t.Fatalf("Nested = %d obligations, want 1", len(sel.Nested))
	}

	sess.RegisterNested(sel.Nested)
	if err := sess.Drain(); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	lifted, err := sess.ResolveLift(sel)
	if err != nil {
		t.Fatalf("ResolveLift failed: %v", err)
	}
	if lifted.Substs.Len() != 1 || lifted.Substs.At(0) != w.ctx.StructType(w.point) {
		t.Errorf("lifted substs = %s, want [Point]", lifted.Substs)
	}
	if lifted.Nested != nil {
		t.Error("lifted selection should carry no pending obligations")
	}
}

func TestSelectPrefersConcreteOverBlanket(t *testing.T) {
	w := newTestWorld()

	// u64 now satisfies Stringify twice: the blanket impl and its own.
	own := w.ctx.DefineImpl(w.stringify, ImplDecl{Self: w.ctx.Uint(64)})

	sess := w.ctx.Infer()
	defer sess.Close()
	sel, err := sess.Select(w.ctx.TraitRefOf(w.stringify, w.ctx.Uint(64)))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if sel.Kind != SelectedImpl || sel.Impl != own {
		t.Errorf("selection = %s %s, want the concrete impl", sel.Kind, sel.Impl)
	}
}

func TestSelectAmbiguous(t *testing.T) {
	ctx := NewContext(Config{})
	tr := ctx.DefineTrait("Overlap")
	ctx.DefineImpl(tr, ImplDecl{Params: 1, Self: ctx.Param(0, "T")})
	ctx.DefineImpl(tr, ImplDecl{Params: 1, Self: ctx.Param(0, "U")})

	sess := ctx.Infer()
	defer sess.Close()
	_, err := sess.Select(ctx.TraitRefOf(tr, ctx.Bool()))
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("error = %v, want ambiguity", err)
	}
}

func TestDrainOverflow(t *testing.T) {
	ctx := NewContext(Config{})
	loop := ctx.DefineTrait("Loop")
	// Satisfying Loop requires satisfying Loop: fulfillment must give up at
	// its recursion limit rather than spin.
	ctx.DefineImpl(loop, ImplDecl{
		Params: 1,
		Self:   ctx.Param(0, "T"),
		Wheres: []TraitRef{ctx.TraitRefOf(loop, ctx.Param(0, "T"))},
	})

	sess := ctx.Infer()
	defer sess.Close()
	sel, err := sess.Select(ctx.TraitRefOf(loop, ctx.Bool()))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	sess.RegisterNested(sel.Nested)
	if err := sess.Drain(); err == nil || !strings.Contains(err.Error(), "overflow") {
		t.Errorf("Drain error = %v, want overflow", err)
	}
}

func TestResolveLiftErasesRegions(t *testing.T) {
	w := newTestWorld()

	annotated := w.ctx.Ref(Region(9), w.ctx.Uint(64), false)
	w.ctx.DefineImpl(w.display, ImplDecl{Self: w.ctx.Ref(RegionErased, w.ctx.Uint(64), false)})

	sess := w.ctx.Infer()
	defer sess.Close()
	sel, err := sess.Select(w.ctx.TraitRefOf(w.stringify, annotated))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	sess.RegisterNested(sel.Nested)
	if err := sess.Drain(); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	lifted, err := sess.ResolveLift(sel)
	if err != nil {
		t.Fatalf("ResolveLift failed: %v", err)
	}
	want := w.ctx.Ref(RegionErased, w.ctx.Uint(64), false)
	if lifted.Substs.At(0) != want {
		t.Errorf("lifted self = %s, want %s with its region erased", lifted.Substs.At(0), want)
	}
}

func TestResolveLiftUnresolvedVariable(t *testing.T) {
	ctx := NewContext(Config{})
	tr := ctx.DefineTrait("Phantom")
	// The impl's parameter appears nowhere in its patterns, so nothing can
	// ever bind it.
	ctx.DefineImpl(tr, ImplDecl{Params: 1, Self: ctx.Uint(32)})

	sess := ctx.Infer()
	defer sess.Close()
	sel, err := sess.Select(ctx.TraitRefOf(tr, ctx.Uint(32)))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if _, err := sess.ResolveLift(sel); err == nil {
		t.Error("ResolveLift should report the unresolved inference variable")
	}
}

func TestSessionClosedPanics(t *testing.T) {
	w := newTestWorld()
	sess := w.ctx.Infer()
	sess.Close()

	defer func() {
		if recover() == nil {
			t.Error("using a closed session should panic")
		}
	}()
	sess.Select(w.ctx.TraitRefOf(w.marker, w.ctx.Bool()))
}

func TestVTableMethods(t *testing.T) {
	ctx := NewContext(Config{})
	tr := ctx.DefineTrait("Shape")
	area := ctx.DeclareMethod(tr, "area", true)
	ctx.DeclareMethod(tr, "nameOf", false) // not dispatchable
	draw := ctx.DeclareMethod(tr, "draw", true)

	ref := ctx.TraitRefOf(tr, ctx.Uint(64))
	slots := ctx.VTableMethods(ref)
	if len(slots) != 3 {
		t.Fatalf("VTableMethods returned %d slots, want 3", len(slots))
	}
	if slots[0].Def != area || slots[0].IsEmpty() {
		t.Errorf("slot 0 = %v, want area", slots[0])
	}
	if !slots[1].IsEmpty() {
		t.Errorf("slot 1 = %v, want empty", slots[1])
	}
	if slots[2].Def != draw {
		t.Errorf("slot 2 = %v, want draw", slots[2])
	}
	for _, s := range slots {
		if !s.IsEmpty() && s.Substs != ref.Substs {
			t.Error("slot substitutions should be the reference's")
		}
	}
}

func TestDropInstance(t *testing.T) {
	ctx := NewContext(Config{})
	point := ctx.DefineStruct("Point", 16, 8)
	dropFn := ctx.DefineFunction("Point::drop")
	ctx.SetDestructor(point, dropFn)
	plain := ctx.DefineStruct("Plain", 8, 8)

	inst, ok := ctx.DropInstance(ctx.StructType(point))
	if !ok {
		t.Fatal("Point should have a destructor")
	}
	if inst.Def != dropFn {
		t.Errorf("destructor = %s, want %s", inst.Def, dropFn)
	}
	if inst.Substs.Len() != 1 || inst.Substs.At(0) != ctx.StructType(point) {
		t.Errorf("destructor substs = %s, want [Point]", inst.Substs)
	}

	if _, ok := ctx.DropInstance(ctx.StructType(plain)); ok {
		t.Error("Plain should have no destructor")
	}
	if _, ok := ctx.DropInstance(ctx.Uint(64)); ok {
		t.Error("u64 should have no destructor")
	}
}

func TestTraitOfItem(t *testing.T) {
	w := newTestWorld()

	trait, ok := w.ctx.TraitOfItem(w.displayFmt)
	if !ok || trait != w.display {
		t.Errorf("TraitOfItem(fmt) = %s, %v, want Display, true", trait, ok)
	}

	implFmt, ok := w.ctx.AssociatedItem(w.pointImpl, "fmt", ItemMethod)
	if !ok {
		t.Fatal("the Point impl should carry fmt")
	}
	if _, ok := w.ctx.TraitOfItem(implFmt); ok {
		t.Error("an impl's method does not belong to a trait")
	}
	if _, ok := w.ctx.TraitOfItem(w.point); ok {
		t.Error("a struct does not belong to a trait")
	}
}

func TestAssociatedItem(t *testing.T) {
	ctx := NewContext(Config{})
	tr := ctx.DefineTrait("Answer")
	ctx.DeclareConst(tr, "VALUE")
	impl := ctx.DefineImpl(tr, ImplDecl{Self: ctx.Uint(64)})
	implConst := ctx.DefineImplConst(impl, "VALUE")

	got, ok := ctx.AssociatedItem(impl, "VALUE", ItemConst)
	if !ok || got != implConst {
		t.Errorf("AssociatedItem = %s, %v, want %s, true", got, ok, implConst)
	}
	if _, ok := ctx.AssociatedItem(impl, "VALUE", ItemMethod); ok {
		t.Error("lookup with the wrong kind should miss")
	}
	if _, ok := ctx.AssociatedItem(impl, "OTHER", ItemConst); ok {
		t.Error("lookup with the wrong name should miss")
	}
}

func TestDefineImplMethodRequiresDeclaration(t *testing.T) {
	ctx := NewContext(Config{})
	tr := ctx.DefineTrait("Display")
	ctx.DeclareMethod(tr, "fmt", true)
	impl := ctx.DefineImpl(tr, ImplDecl{Self: ctx.Bool()})

	defer func() {
		if recover() == nil {
			t.Error("registering an undeclared impl method should panic")
		}
	}()
	ctx.DefineImplMethod(impl, "undeclared")
}
