package ir

import "fmt"

// Span marks the byte range of source the current IR statement was lowered
// from. Spans travel inside fault payloads so diagnostics can point back at
// the program under evaluation.
//
// The zero Span marks generated code with no source counterpart.
type Span struct {
	Start uint32
	End   uint32
}

// IsGenerated returns true if the span does not point at any source.
func (s Span) IsGenerated() bool {
	return s == Span{}
}

// String renders the span as a byte range, or "<generated>" for the zero span.
func (s Span) String() string {
	if s.IsGenerated() {
		return "<generated>"
	}
	return fmt.Sprintf("bytes %d..%d", s.Start, s.End)
}
