// Package heap simulates the address space of the interpreted program.
//
// Allocations are byte arrays named by memory.AllocID; pointers never
// carry addresses, only an allocation and an offset. Every allocation
// starts zero filled. Stored pointers are tracked in a relocation table
// per allocation, so reads know whether a word holds raw bits or a
// pointer, and raw reads that touch part of a stored pointer fault
// instead of leaking its representation.
//
// Function pointers are allocations with no bytes: materializing an
// instance mints a fresh allocation that only the function table knows,
// and looking one up recovers the instance. Data access through them
// faults.
//
// The heap enforces the machine's memory discipline: bounds, alignment,
// immutability of allocations marked static, and the configured size
// budget. Each violation maps to one fault variant.
package heap
