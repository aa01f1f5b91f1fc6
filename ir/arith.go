package ir

// ArithErrorKind classifies a failed arithmetic operation.
type ArithErrorKind uint8

const (
	// ArithOverflow is an operation whose result does not fit the type.
	ArithOverflow ArithErrorKind = iota
	// ArithDivisionByZero is a division with a zero divisor.
	ArithDivisionByZero
	// ArithRemainderByZero is a remainder with a zero divisor.
	ArithRemainderByZero
	// ArithShiftExceedsBitWidth is a shift by at least the type's bit width.
	ArithShiftExceedsBitWidth
	// ArithUnsignedNegation is a negation of an unsigned value.
	ArithUnsignedNegation
)

// ArithError describes why a checked arithmetic operation failed.
// It is carried by fault payloads and rendered into diagnostics.
type ArithError struct {
	Kind ArithErrorKind
	// Op is the operator involved. Only meaningful for ArithOverflow.
	Op BinOp
}

// String renders the error the way it appears in diagnostics.
func (e ArithError) String() string {
	switch e.Kind {
	case ArithOverflow:
		return "attempt to " + overflowVerb(e.Op) + " with overflow"
	case ArithDivisionByZero:
		return "attempt to divide by zero"
	case ArithRemainderByZero:
		return "attempt to calculate the remainder with a divisor of zero"
	case ArithShiftExceedsBitWidth:
		return "attempt to shift by a value exceeding the type's bit width"
	case ArithUnsignedNegation:
		return "attempt to negate an unsigned value"
	}
	return "arithmetic operation failed"
}

func overflowVerb(op BinOp) string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "subtract"
	case Mul:
		return "multiply"
	case Div:
		return "divide"
	case Rem:
		return "calculate the remainder"
	case Shl:
		return "shift left"
	case Shr:
		return "shift right"
	}
	return "apply `" + op.String() + "`"
}
