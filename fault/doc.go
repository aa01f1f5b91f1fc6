// Package fault enumerates every way an operation of the abstract machine
// can fail.
//
// A Fault is the machine's recoverable error channel. Every fallible
// operation returns a Fault alongside its result; the evaluator decides
// whether to unwind the interpreted program or surface the fault to its
// own caller. Faults describe violations committed by the interpreted
// program. Violations of the machine's own invariants are not faults; the
// machine package aborts on those instead.
//
// Some variants carry interned type handles or call signatures. Those
// payloads are only valid while the session that produced them is alive,
// so a fault that must cross a storage or caching boundary is first
// projected with Portable into the portable package's mirror form, which
// drops them. The projection is total and one-directional; nothing
// reconstructs a Fault from its portable form.
package fault
