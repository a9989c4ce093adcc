// Package slimset provides a small, allocation-minimizing growable
// container for sets or lists of comparable values.
//
// # Design
//
// A SlimSet starts over a caller-supplied buffer, typically sliced from a
// stack-allocated array, and only migrates to pool-rented memory when it
// outgrows that buffer. For the intended workloads (short-lived sets of at
// most a few dozen elements) the heap allocator is never touched.
//
// Membership is checked by linear scan, which beats hashing at these
// cardinalities. Removal is swap-remove and does not preserve order.
//
// # Lifecycle
//
// Pool-rented memory is released explicitly, not by a finalizer. Call
// Release on every exit path once the set is no longer needed:
//
//	var buf [8]uint32
//	s, err := slimset.New(buf[:0])
//	if err != nil {
//	    return err
//	}
//	defer s.Release()
//
// After Release every operation other than a repeated Release fails with
// ErrReleased.
package slimset
