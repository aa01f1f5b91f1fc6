package portable

import "testing"

// catalog returns one value of every portable fault variant.
func catalog() []Fault {
	return []Fault{
		SignatureMismatch{},
		MissingBody{Function: "core::mem::swap"},
		UnterminatedCString{},
		DanglingPointer{},
		InvalidMemoryAccess{},
		InvalidFunctionPointer{},
		InvalidBool{},
		InvalidDiscriminant{},
		PointerOutOfBounds{},
		NullPointerUse{},
		ReadPointerAsBytes{},
		ReadBytesAsPointer{},
		InvalidPointerMath{},
		ReadUndefinedBytes{},
		InvalidBoolOp{},
		Unimplemented{Msg: "unsupported intrinsic"},
		DerefFunctionPointer{},
		ExecuteNonFunction{},
		ArrayIndexOutOfBounds{},
		ArithmeticFailed{},
		IntrinsicFailed{Msg: "assume"},
		ArithmeticOverflow{},
		InvalidChar{},
		OutOfMemory{},
		StepLimitReached{},
		FrameLimitReached{},
		AlignmentCheckFailed{},
		CalledClosureAsFunction{},
		VTableForArgumentlessMethod{},
		ModifiedStaticMemory{},
		AssumptionNotHeld{},
		InlineAssembly{},
		TypeNotPrimitive{},
		ReallocatedStaticMemory{},
		DeallocatedStaticMemory{},
		LayoutFailed{},
		HeapAllocZeroBytes{},
		HeapAllocNonPowerOfTwoAlign{},
		Unreachable{},
		Panic{},
		ReadFromReturnSlot{},
		TypeCheckError{},
	}
}

func TestKindsAreUnique(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 42 {
		t.Fatalf("len(Kinds()) = %d, want 42", len(kinds))
	}
	seen := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		if seen[k] {
			t.Errorf("duplicate kind %q", k)
		}
		seen[k] = true
	}
}

func TestCatalogCoversEveryKind(t *testing.T) {
	byKind := make(map[Kind]Fault, len(catalog()))
	for _, f := range catalog() {
		if _, ok := byKind[f.Kind()]; ok {
			t.Errorf("two variants report kind %q", f.Kind())
		}
		byKind[f.Kind()] = f
	}
	for _, k := range Kinds() {
		if _, ok := byKind[k]; !ok {
			t.Errorf("no variant reports kind %q", k)
		}
	}
	if len(byKind) != len(Kinds()) {
		t.Errorf("catalog has %d kinds, Kinds() has %d", len(byKind), len(Kinds()))
	}
}

func TestDescriptionsAreNonEmpty(t *testing.T) {
	for _, f := range catalog() {
		if f.Description() == "" {
			t.Errorf("%s: empty description", f.Kind())
		}
	}
}

func TestUnimplementedDescriptionIsMessage(t *testing.T) {
	f := Unimplemented{Msg: "can't handle stmt: InlineAsm"}
	if got := f.Description(); got != f.Msg {
		t.Errorf("Description() = %q, want %q", got, f.Msg)
	}
}
