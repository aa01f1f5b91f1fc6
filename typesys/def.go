package typesys

import "fmt"

// ---------------------------------------------------------------------------
// Definitions
// ---------------------------------------------------------------------------

// DefID identifies a definition: a trait, struct, impl block, function, or
// associated item. The zero DefID is reserved and identifies nothing.
type DefID uint32

// String renders the ID for diagnostics.
func (id DefID) String() string {
	return fmt.Sprintf("def%d", uint32(id))
}

// ItemKind distinguishes the associated items an impl or trait can carry.
type ItemKind uint8

const (
	ItemMethod ItemKind = iota
	ItemConst
)

// String names the item kind.
func (k ItemKind) String() string {
	switch k {
	case ItemMethod:
		return "method"
	case ItemConst:
		return "const"
	}
	return "<invalid item kind>"
}

type defKind uint8

const (
	defInvalid defKind = iota
	defTrait
	defStruct
	defImpl
	defFn
	defMethod
	defConst
)

type defInfo struct {
	kind  defKind
	name  string
	owner DefID // methods and consts: the trait or impl declaring them
}

type methodDecl struct {
	// dispatchable methods get a dispatch-table slot; the rest keep an
	// empty slot so table layout stays stable.
	dispatchable bool
}

type traitInfo struct {
	methods []DefID // declaration order
	consts  []DefID
	impls   []DefID
	builtin bool
}

type implInfo struct {
	trait   DefID
	params  int
	self    *Type
	args    []*Type // trait arguments beyond self, as patterns
	wheres  []TraitRef
	items   map[itemKey]DefID
	blanket bool
}

type itemKey struct {
	name string
	kind ItemKind
}

type structInfo struct {
	size  uint64
	align uint64
	drop  DefID // destructor function, zero for none
}

// ---------------------------------------------------------------------------
// Context
// ---------------------------------------------------------------------------

// Config configures a Context.
type Config struct {
	// PointerSize is the width in bytes of pointers and pointer-width
	// integers. 4 and 8 are supported; 0 means 8.
	PointerSize uint64
}

// Context owns every definition and every interned handle of one evaluation.
// It is not safe for concurrent use; the machine it serves is
// single-threaded.
type Context struct {
	ptrSize uint64
	in      *interner
	defs    []defInfo // index 0 reserved so that DefID 0 stays invalid
	traits  map[DefID]*traitInfo
	impls   map[DefID]*implInfo
	structs map[DefID]*structInfo
	methods map[DefID]methodDecl
}

// NewContext creates an empty Context.
// Panics if the configured pointer size is not 0, 4, or 8.
func NewContext(cfg Config) *Context {
	ptrSize := cfg.PointerSize
	switch ptrSize {
	case 0:
		ptrSize = 8
	case 4, 8:
	default:
		panic(fmt.Sprintf("typesys: unsupported pointer size %d", cfg.PointerSize))
	}
	return &Context{
		ptrSize: ptrSize,
		in:      newInterner(),
		defs:    make([]defInfo, 1),
		traits:  make(map[DefID]*traitInfo),
		impls:   make(map[DefID]*implInfo),
		structs: make(map[DefID]*structInfo),
		methods: make(map[DefID]methodDecl),
	}
}

// PointerSize returns the configured pointer width in bytes.
func (c *Context) PointerSize() uint64 { return c.ptrSize }

func (c *Context) newDef(kind defKind, name string, owner DefID) DefID {
	c.defs = append(c.defs, defInfo{kind: kind, name: name, owner: owner})
	return DefID(len(c.defs) - 1)
}

func (c *Context) def(id DefID) defInfo {
	if id == 0 || int(id) >= len(c.defs) {
		panic(fmt.Sprintf("typesys: unknown definition %s", id))
	}
	return c.defs[id]
}

func (c *Context) defName(id DefID) string {
	return c.def(id).name
}

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

// DefineTrait registers an empty trait.
func (c *Context) DefineTrait(name string) DefID {
	id := c.newDef(defTrait, name, 0)
	c.traits[id] = &traitInfo{}
	return id
}

// MarkBuiltin marks a trait as host-provided: every obligation naming it
// selects as builtin behavior with no impl block and no nested obligations.
// Panics if trait is not a trait definition.
func (c *Context) MarkBuiltin(trait DefID) {
	c.traitInfo(trait).builtin = true
}

// DeclareMethod declares a method on a trait and returns its definition.
// Dispatchable methods receive a dispatch-table slot in declaration order;
// the rest keep an empty slot.
func (c *Context) DeclareMethod(trait DefID, name string, dispatchable bool) DefID {
	ti := c.traitInfo(trait)
	id := c.newDef(defMethod, name, trait)
	ti.methods = append(ti.methods, id)
	c.methods[id] = methodDecl{dispatchable: dispatchable}
	return id
}

// DeclareConst declares an associated const on a trait and returns its
// definition.
func (c *Context) DeclareConst(trait DefID, name string) DefID {
	ti := c.traitInfo(trait)
	id := c.newDef(defConst, name, trait)
	ti.consts = append(ti.consts, id)
	return id
}

// DefineStruct registers a struct with a declared layout.
// Panics if align is not a nonzero power of two.
func (c *Context) DefineStruct(name string, size, align uint64) DefID {
	if align == 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("typesys: struct %q alignment %d is not a power of two", name, align))
	}
	id := c.newDef(defStruct, name, 0)
	c.structs[id] = &structInfo{size: size, align: align}
	return id
}

// DefineFunction registers a free function.
func (c *Context) DefineFunction(name string) DefID {
	return c.newDef(defFn, name, 0)
}

// SetDestructor attaches a destructor function to a struct.
// Panics if st is not a struct or fn is not a function.
func (c *Context) SetDestructor(st, fn DefID) {
	si, ok := c.structs[st]
	if !ok {
		panic(fmt.Sprintf("typesys: %s is not a struct", c.defName(st)))
	}
	if c.def(fn).kind != defFn {
		panic(fmt.Sprintf("typesys: %s is not a function", c.defName(fn)))
	}
	si.drop = fn
}

// ImplDecl describes an impl block to register.
type ImplDecl struct {
	// Params is the number of generic parameters the impl binds. Parameter
	// types with indices below Params may appear in Self, Args, and Wheres.
	Params int
	// Self is the implementing type pattern.
	Self *Type
	// Args are the trait's type arguments beyond self, as patterns.
	Args []*Type
	// Wheres are obligations that must hold for the impl to apply.
	Wheres []TraitRef
}

// DefineImpl registers an impl block of the given trait.
// Panics if trait is not a trait definition or the decl has no self pattern.
func (c *Context) DefineImpl(trait DefID, decl ImplDecl) DefID {
	ti := c.traitInfo(trait)
	if decl.Self == nil {
		panic("typesys: impl declaration has no self pattern")
	}
	name := fmt.Sprintf("impl %s for %s", c.defName(trait), decl.Self)
	id := c.newDef(defImpl, name, 0)
	c.impls[id] = &implInfo{
		trait:   trait,
		params:  decl.Params,
		self:    decl.Self,
		args:    append([]*Type(nil), decl.Args...),
		wheres:  append([]TraitRef(nil), decl.Wheres...),
		items:   make(map[itemKey]DefID),
		blanket: decl.Self.Kind() == KindParam,
	}
	ti.impls = append(ti.impls, id)
	return id
}

// DefineImplMethod registers an impl's method. The trait the impl belongs to
// must declare a method of the same name.
func (c *Context) DefineImplMethod(impl DefID, name string) DefID {
	return c.defineImplItem(impl, name, ItemMethod)
}

// DefineImplConst registers an impl's associated const. The trait the impl
// belongs to must declare a const of the same name.
func (c *Context) DefineImplConst(impl DefID, name string) DefID {
	return c.defineImplItem(impl, name, ItemConst)
}

func (c *Context) defineImplItem(impl DefID, name string, kind ItemKind) DefID {
	ii, ok := c.impls[impl]
	if !ok {
		panic(fmt.Sprintf("typesys: %s is not an impl", c.defName(impl)))
	}
	if !c.traitDeclares(ii.trait, name, kind) {
		panic(fmt.Sprintf("typesys: trait %s declares no %s %q", c.defName(ii.trait), kind, name))
	}
	dk := defMethod
	if kind == ItemConst {
		dk = defConst
	}
	id := c.newDef(dk, name, impl)
	ii.items[itemKey{name: name, kind: kind}] = id
	return id
}

func (c *Context) traitDeclares(trait DefID, name string, kind ItemKind) bool {
	ti := c.traitInfo(trait)
	list := ti.methods
	if kind == ItemConst {
		list = ti.consts
	}
	for _, d := range list {
		if c.defName(d) == name {
			return true
		}
	}
	return false
}

func (c *Context) traitInfo(trait DefID) *traitInfo {
	ti, ok := c.traits[trait]
	if !ok {
		panic(fmt.Sprintf("typesys: %s is not a trait", c.defName(trait)))
	}
	return ti
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// TraitRefOf builds a trait reference from a self type and further type
// arguments.
func (c *Context) TraitRefOf(trait DefID, self *Type, args ...*Type) TraitRef {
	types := append([]*Type{self}, args...)
	return TraitRef{Trait: trait, Substs: c.Substs(types...)}
}

// RefString renders a trait reference with its trait name.
func (c *Context) RefString(ref TraitRef) string {
	return c.defName(ref.Trait) + ref.Substs.String()
}

// ItemName returns the declared name of a definition.
func (c *Context) ItemName(def DefID) string {
	return c.defName(def)
}

// TraitOfItem returns the trait that declares the given associated item, if
// the item belongs to a trait rather than an impl.
func (c *Context) TraitOfItem(def DefID) (DefID, bool) {
	info := c.def(def)
	if info.owner == 0 {
		return 0, false
	}
	if c.def(info.owner).kind != defTrait {
		return 0, false
	}
	return info.owner, true
}

// AssociatedItem looks up an impl's item by name and kind.
func (c *Context) AssociatedItem(impl DefID, name string, kind ItemKind) (DefID, bool) {
	ii, ok := c.impls[impl]
	if !ok {
		panic(fmt.Sprintf("typesys: %s is not an impl", c.defName(impl)))
	}
	id, ok := ii.items[itemKey{name: name, kind: kind}]
	return id, ok
}

// VTableMethods returns the trait's dispatch-table layout for the given
// reference: every declared method in declaration order, with empty slots
// for methods that cannot be dispatched dynamically.
func (c *Context) VTableMethods(ref TraitRef) []VTableSlot {
	ti := c.traitInfo(ref.Trait)
	slots := make([]VTableSlot, 0, len(ti.methods))
	for _, m := range ti.methods {
		if !c.methods[m].dispatchable {
			slots = append(slots, VTableSlot{})
			continue
		}
		slots = append(slots, VTableSlot{Def: m, Substs: ref.Substs})
	}
	return slots
}

// DropInstance returns the destructor instance of a type, if it has one.
// Only struct types carry destructors.
func (c *Context) DropInstance(t *Type) (Instance, bool) {
	if t.Kind() != KindStruct {
		return Instance{}, false
	}
	si := c.structs[t.Def()]
	if si == nil || si.drop == 0 {
		return Instance{}, false
	}
	return Instance{Def: si.drop, Substs: c.Substs(t)}, true
}
