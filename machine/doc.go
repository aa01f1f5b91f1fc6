// Package machine implements the fault and dynamic-dispatch core of the
// loam abstract machine.
//
// The machine sits between a simulated heap and a host type system and
// offers the evaluator four operations: obligation fulfillment (resolving
// an abstract trait reference to the concrete implementation dynamic
// dispatch will use), associated-item resolution, dispatch-table synthesis
// in the simulated heap, and the inverse reads against an existing table.
//
// Failures split into two channels. Violations committed by the program
// under evaluation come back as fault.Fault values and are recoverable.
// Contradictions inside the host pipeline, such as the type system
// rejecting an obligation the type checker already accepted, are bugs:
// the machine panics with a *Bug and never converts them into faults.
//
// A Machine is single-threaded, like the evaluator driving it.
package machine
