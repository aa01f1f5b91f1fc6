// Package typesys is the host type system the machine resolves against.
//
// This package contains:
//   - Interned type handles with structural identity
//   - Trait, impl, struct, and function definitions
//   - Layout queries (size and alignment)
//   - Trait selection and fulfillment over inference sessions
//
// Type handles (*Type) and substitution lists (*Substs) are interned per
// Context: two handles from the same Context compare equal with == exactly
// when the types are structurally equal. Handles are meaningless outside
// the Context that produced them and must never be stored or serialized.
//
// Everything here is single-threaded, matching the machine it serves.
package typesys
