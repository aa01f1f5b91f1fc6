package ir

// BinOp enumerates the binary operators of the typed IR.
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	BitXor
	BitAnd
	BitOr
	Shl
	Shr
	Eq
	Lt
	Le
	Ne
	Ge
	Gt
	// PtrOffset advances a pointer by a number of elements.
	PtrOffset
)

var binOpNames = [...]string{
	Add:       "+",
	Sub:       "-",
	Mul:       "*",
	Div:       "/",
	Rem:       "%",
	BitXor:    "^",
	BitAnd:    "&",
	BitOr:     "|",
	Shl:       "<<",
	Shr:       ">>",
	Eq:        "==",
	Lt:        "<",
	Le:        "<=",
	Ne:        "!=",
	Ge:        ">=",
	Gt:        ">",
	PtrOffset: "offset",
}

// String returns the operator's surface syntax.
func (op BinOp) String() string {
	if int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "<invalid op>"
}

// IsComparison returns true for operators that produce a boolean.
func (op BinOp) IsComparison() bool {
	switch op {
	case Eq, Lt, Le, Ne, Ge, Gt:
		return true
	}
	return false
}
