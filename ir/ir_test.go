package ir

import "testing"

func TestSpanString(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{Span{}, "<generated>"},
		{Span{Start: 0, End: 4}, "bytes 0..4"},
		{Span{Start: 120, End: 155}, "bytes 120..155"},
	}
	for _, tt := range tests {
		if got := tt.span.String(); got != tt.want {
			t.Errorf("Span%v.String() = %q, want %q", tt.span, got, tt.want)
		}
	}
}

func TestSpanIsGenerated(t *testing.T) {
	if !(Span{}).IsGenerated() {
		t.Error("zero span should be generated")
	}
	if (Span{Start: 1, End: 2}).IsGenerated() {
		t.Error("non-zero span should not be generated")
	}
}

func TestBinOpString(t *testing.T) {
	tests := []struct {
		op   BinOp
		want string
	}{
		{Add, "+"},
		{Rem, "%"},
		{Shl, "<<"},
		{Ne, "!="},
		{PtrOffset, "offset"},
		{BinOp(200), "<invalid op>"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("BinOp(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestBinOpIsComparison(t *testing.T) {
	for _, op := range []BinOp{Eq, Lt, Le, Ne, Ge, Gt} {
		if !op.IsComparison() {
			t.Errorf("%s should be a comparison", op)
		}
	}
	for _, op := range []BinOp{Add, BitAnd, Shl, PtrOffset} {
		if op.IsComparison() {
			t.Errorf("%s should not be a comparison", op)
		}
	}
}

func TestArithErrorString(t *testing.T) {
	tests := []struct {
		err  ArithError
		want string
	}{
		{ArithError{Kind: ArithOverflow, Op: Add}, "attempt to add with overflow"},
		{ArithError{Kind: ArithOverflow, Op: Sub}, "attempt to subtract with overflow"},
		{ArithError{Kind: ArithOverflow, Op: Mul}, "attempt to multiply with overflow"},
		{ArithError{Kind: ArithOverflow, Op: Shr}, "attempt to shift right with overflow"},
		{ArithError{Kind: ArithOverflow, Op: BitXor}, "attempt to apply `^` with overflow"},
		{ArithError{Kind: ArithDivisionByZero}, "attempt to divide by zero"},
		{ArithError{Kind: ArithRemainderByZero}, "attempt to calculate the remainder with a divisor of zero"},
		{ArithError{Kind: ArithShiftExceedsBitWidth}, "attempt to shift by a value exceeding the type's bit width"},
		{ArithError{Kind: ArithUnsignedNegation}, "attempt to negate an unsigned value"},
	}
	for _, tt := range tests {
		if got := tt.err.String(); got != tt.want {
			t.Errorf("ArithError{%d, %s}.String() = %q, want %q", tt.err.Kind, tt.err.Op, got, tt.want)
		}
	}
}
