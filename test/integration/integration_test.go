package integration_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/tliron/commonlog/simple"

	"github.com/loamvm/loam/config"
	"github.com/loamvm/loam/fault"
	"github.com/loamvm/loam/faultdb"
	"github.com/loamvm/loam/heap"
	"github.com/loamvm/loam/machine"
	"github.com/loamvm/loam/memory"
	"github.com/loamvm/loam/portable"
	"github.com/loamvm/loam/typesys"
	"github.com/loamvm/loam/wire"
)

// ---------------------------------------------------------------------------
// Integration test helpers
// ---------------------------------------------------------------------------

// world is one fully wired evaluation: a type system with a Hasher trait
// implemented for a destructor-carrying struct, a heap, and a machine
// configured from a loam.toml.
type world struct {
	tc  *typesys.Context
	mem *heap.Heap
	m   *machine.Machine

	hasher typesys.DefID
	hash   typesys.DefID
	fnv    *typesys.Type
	impl   typesys.DefID
	hashFn typesys.DefID
	dropFn typesys.DefID
}

// writeConfig puts a loam.toml in a fresh temp dir and loads it.
func writeConfig(t *testing.T, toml string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "loam.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

// newWorld wires typesys, heap, and machine from the given configuration.
func newWorld(t *testing.T, c *config.Config) *world {
	t.Helper()
	w := &world{}
	w.tc = typesys.NewContext(typesys.Config{PointerSize: c.Memory.PointerSize})
	w.mem = heap.New(c.HeapConfig())
	w.m = machine.New(w.mem, machine.Types{Context: w.tc}, c.MachineLimits())

	w.hasher = w.tc.DefineTrait("Hasher")
	w.hash = w.tc.DeclareMethod(w.hasher, "hash", true)
	w.tc.DeclareMethod(w.hasher, "new", false)

	st := w.tc.DefineStruct("Fnv", 16, 8)
	w.fnv = w.tc.StructType(st)
	w.dropFn = w.tc.DefineFunction("drop_fnv")
	w.tc.SetDestructor(st, w.dropFn)

	w.impl = w.tc.DefineImpl(w.hasher, typesys.ImplDecl{Self: w.fnv})
	w.hashFn = w.tc.DefineImplMethod(w.impl, "hash")
	return w
}

// ref is the obligation "Fnv implements Hasher".
func (w *world) ref() typesys.TraitRef {
	return w.tc.TraitRefOf(w.hasher, w.fnv)
}

// openStore opens a fault cache in a fresh temp dir.
func openStore(t *testing.T, dir string) *faultdb.Store {
	t.Helper()
	store, err := faultdb.Open(filepath.Join(dir, "faults.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return store
}

// ---------------------------------------------------------------------------
// 1. Dispatch: config → heap → machine → vtable → read-back
// ---------------------------------------------------------------------------

func TestIntegrationE2E_DispatchTableSynthesis(t *testing.T) {
	c := writeConfig(t, `
[memory]
pointer-size = 8
`)
	w := newWorld(t, c)

	vtable, f := w.m.GetVTable(w.fnv, w.ref())
	if f != nil {
		t.Fatalf("GetVTable failed: %v", f)
	}

	// Size and alignment slots carry the concrete type's layout.
	size, align, f := w.m.ReadSizeAndAlignFromVTable(vtable)
	if f != nil {
		t.Fatalf("ReadSizeAndAlignFromVTable failed: %v", f)
	}
	if size != 16 || align != 8 {
		t.Errorf("vtable layout = %d/%d, want 16/8", size, align)
	}

	// Slot 0 resolves back to the registered destructor.
	drop, ok, f := w.m.ReadDropFromVTable(vtable)
	if f != nil {
		t.Fatalf("ReadDropFromVTable failed: %v", f)
	}
	if !ok {
		t.Fatal("vtable has no destructor, want drop_fnv")
	}
	if want := (typesys.Instance{Def: w.dropFn, Substs: w.tc.Substs(w.fnv)}); drop != want {
		t.Errorf("destructor = %+v, want %+v", drop, want)
	}

	// The hash slot holds a function pointer for the impl's method.
	slot, f := machine.PointerAdd(vtable, 3*w.mem.PointerSize())
	if f != nil {
		t.Fatalf("PointerAdd failed: %v", f)
	}
	s, f := w.mem.ReadScalar(slot)
	if f != nil {
		t.Fatalf("ReadScalar failed: %v", f)
	}
	if !s.IsPointer() {
		t.Fatalf("hash slot = %v, want function pointer", s)
	}
	inst, f := w.mem.Function(s.Pointer())
	if f != nil {
		t.Fatalf("Function failed: %v", f)
	}
	if inst.Def != w.hashFn {
		t.Errorf("hash slot resolves to %v, want impl method", inst.Def)
	}

	// The table is frozen: the evaluator may read it forever but never
	// write through it.
	if f := w.mem.WriteUsize(vtable, 1); f == nil {
		t.Error("write to synthesized vtable succeeded, want fault")
	} else if f.Portable().Kind() != portable.KindModifiedStaticMemory {
		t.Errorf("write to vtable faulted with %v, want %v",
			f.Portable().Kind(), portable.KindModifiedStaticMemory)
	}
}

// ---------------------------------------------------------------------------
// 2. Obligation resolution backing the synthesized table
// ---------------------------------------------------------------------------

func TestIntegrationE2E_ObligationResolution(t *testing.T) {
	w := newWorld(t, config.Default())

	sel := w.m.FulfillObligation(w.ref())
	if sel.Kind != typesys.SelectedImpl {
		t.Fatalf("selection kind = %v, want SelectedImpl", sel.Kind)
	}
	if sel.Impl != w.impl {
		t.Errorf("selected impl = %v, want the Hasher-for-Fnv impl", sel.Impl)
	}
}

// ---------------------------------------------------------------------------
// 3. Faults: budget from loam.toml → fault → wire → cache → re-serve
// ---------------------------------------------------------------------------

func TestIntegrationE2E_FaultProjectionRoundTrip(t *testing.T) {
	// 48 bytes of simulated memory cannot hold a 16-byte struct plus a
	// 40-byte table (3 header slots + 2 method slots).
	c := writeConfig(t, `
[memory]
size-bytes   = 48
pointer-size = 8
`)
	w := newWorld(t, c)

	if _, f := w.mem.Allocate(16, 8); f != nil {
		t.Fatalf("Allocate failed: %v", f)
	}
	_, f := w.m.GetVTable(w.fnv, w.ref())
	if f == nil {
		t.Fatal("GetVTable fit in 48 bytes, want out-of-memory fault")
	}
	oom, ok := f.(fault.OutOfMemory)
	if !ok {
		t.Fatalf("fault = %T, want fault.OutOfMemory", f)
	}
	if oom.AllocSize != 40 || oom.MemorySize != 48 || oom.MemoryUsage != 16 {
		t.Errorf("fault payload = %+v, want a 40-byte request against 48-byte memory with 16 used", oom)
	}

	// Projection drops nothing from this payload, and the wire encoding
	// reproduces it exactly.
	p := f.Portable()
	data, err := wire.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := wire.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != p {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}

	// A cached fault is re-served across store reopens without
	// re-evaluating the failing definition.
	dir := t.TempDir()
	store := openStore(t, dir)
	if err := store.Put("demo::vtable_of<Fnv as Hasher>", p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store = openStore(t, dir)
	defer store.Close()
	got, err := store.Get("demo::vtable_of<Fnv as Hasher>")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != p {
		t.Errorf("cached fault = %+v, want %+v", got, p)
	}
	keys, err := store.ByKind(portable.KindOutOfMemory)
	if err != nil {
		t.Fatalf("ByKind failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "demo::vtable_of<Fnv as Hasher>" {
		t.Errorf("ByKind(out-of-memory) = %v, want the cached key", keys)
	}
}

// ---------------------------------------------------------------------------
// 4. Budgets: limits from loam.toml stop runaway evaluation
// ---------------------------------------------------------------------------

func TestIntegrationE2E_StepBudgetFromConfig(t *testing.T) {
	c := writeConfig(t, `
[limits]
max-steps = 3
`)
	w := newWorld(t, c)

	for i := 0; i < 3; i++ {
		if f := w.m.CountStep(); f != nil {
			t.Fatalf("step %d faulted early: %v", i+1, f)
		}
	}
	f := w.m.CountStep()
	if f == nil {
		t.Fatal("step 4 under max-steps = 3 did not fault")
	}
	if f.Portable().Kind() != portable.KindStepLimitReached {
		t.Errorf("fault kind = %v, want %v", f.Portable().Kind(), portable.KindStepLimitReached)
	}

	// Budget faults have no payload; the wire round trip is still exact.
	data, err := wire.Marshal(f.Portable())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := wire.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != f.Portable() {
		t.Errorf("round trip = %+v, want %+v", back, f.Portable())
	}
}

// ---------------------------------------------------------------------------
// 5. Memory discipline: dangling pointers survive projection and caching
// ---------------------------------------------------------------------------

func TestIntegrationE2E_DanglingPointerDetection(t *testing.T) {
	w := newWorld(t, config.Default())

	p, f := w.mem.Allocate(8, 8)
	if f != nil {
		t.Fatalf("Allocate failed: %v", f)
	}
	if f := w.mem.Deallocate(p); f != nil {
		t.Fatalf("Deallocate failed: %v", f)
	}

	_, f = w.mem.ReadUsize(p)
	if f == nil {
		t.Fatal("read through freed pointer succeeded")
	}
	if f.Portable().Kind() != portable.KindDanglingPointer {
		t.Fatalf("fault kind = %v, want %v", f.Portable().Kind(), portable.KindDanglingPointer)
	}

	dir := t.TempDir()
	store := openStore(t, dir)
	defer store.Close()
	if err := store.Put("demo::use_after_free", f.Portable()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get("demo::use_after_free")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Kind() != portable.KindDanglingPointer {
		t.Errorf("cached kind = %v, want %v", got.Kind(), portable.KindDanglingPointer)
	}

	// Unknown definitions are a miss, not an error.
	if _, err := store.Get("demo::never_evaluated"); !errors.Is(err, faultdb.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// 6. Faults with pointer payloads keep the pointer across the wire
// ---------------------------------------------------------------------------

func TestIntegrationE2E_PointerPayloadAcrossWire(t *testing.T) {
	w := newWorld(t, config.Default())

	p, f := w.mem.Allocate(8, 8)
	if f != nil {
		t.Fatalf("Allocate failed: %v", f)
	}
	end, f := machine.PointerAdd(p, 8)
	if f != nil {
		t.Fatalf("PointerAdd failed: %v", f)
	}

	// One past the end is a legal place to point, not to read.
	_, f = w.mem.ReadUsize(end)
	if f == nil {
		t.Fatal("read one past the end succeeded")
	}
	oob, ok := f.(fault.PointerOutOfBounds)
	if !ok {
		t.Fatalf("fault = %T, want fault.PointerOutOfBounds", f)
	}
	if !oob.Access || oob.AllocSize != 8 {
		t.Errorf("payload = %+v, want access fault on an 8-byte allocation", oob)
	}
	if oob.Ptr != (memory.Pointer{Alloc: p.Alloc, Offset: memory.OffsetBytes(8)}) {
		t.Errorf("payload pointer = %v, want %v+8", oob.Ptr, p.Alloc)
	}

	data, err := wire.Marshal(f.Portable())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := wire.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != f.Portable() {
		t.Errorf("round trip = %+v, want %+v", back, f.Portable())
	}
}
