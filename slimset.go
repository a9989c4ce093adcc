package slimset

import (
	"slices"

	"github.com/hupe1980/slimset/bufpool"
)

// growthStep is the minimum number of slots added by a growth step when the
// proportional increment rounds down to zero.
const growthStep = 4

// SlimSet is a growable container for small sets or lists of comparable
// values. It starts over a caller-supplied buffer and migrates to
// pool-rented memory only when it outgrows that buffer, so the common
// small-cardinality case never touches the allocator.
//
// At most one pool-rented buffer is held at a time; growth swaps it out as
// one step. The caller owns the lifecycle: Release must be called on every
// exit path once the set is no longer needed, there is no finalizer.
//
// SlimSet is not safe for concurrent use.
type SlimSet[T comparable] struct {
	items    []T // live elements; cap(items) is the current capacity
	pooled   []T // pool-owned backing array, nil until the first growth
	pool     *bufpool.Pool[T]
	distinct bool
	released bool
}

// New creates a SlimSet over the given buffer. The set starts empty: the
// buffer contributes cap(buf) slots of storage and any existing contents
// are ignored. Fails with ErrEmptyBuffer when the buffer has no capacity.
//
// The buffer is borrowed, never owned: it is not returned anywhere on
// Release and must outlive the set's usage window. A stack-allocated array
// is the intended source:
//
//	var buf [8]int
//	s, err := slimset.New(buf[:0])
//
// By default elements are kept distinct; see WithDuplicates.
func New[T comparable](buf []T, opts ...Option[T]) (*SlimSet[T], error) {
	if cap(buf) == 0 {
		return nil, ErrEmptyBuffer
	}

	o := options[T]{distinct: true}
	for _, opt := range opts {
		opt(&o)
	}

	pool := o.pool
	if pool == nil {
		pool = bufpool.Shared[T]()
	}

	return &SlimSet[T]{
		items:    buf[:0],
		pool:     pool,
		distinct: o.distinct,
	}, nil
}

// Count returns the number of live elements.
func (s *SlimSet[T]) Count() int {
	return len(s.items)
}

// Capacity returns the current storage capacity.
func (s *SlimSet[T]) Capacity() int {
	return cap(s.items)
}

// Distinct reports whether the set rejects duplicate elements.
func (s *SlimSet[T]) Distinct() bool {
	return s.distinct
}

// View returns the live elements as a slice aliasing the set's storage.
// It is read-only and valid only until the next mutating call. After
// Release it returns nil.
func (s *SlimSet[T]) View() []T {
	return s.items
}

// Contains reports whether item is present, by linear scan.
// Fails with ErrReleased after Release.
func (s *SlimSet[T]) Contains(item T) (bool, error) {
	if s.released {
		return false, ErrReleased
	}
	return slices.Contains(s.items, item), nil
}

// Add appends item and returns true, or returns false without mutation when
// the set is distinct and item is already present. Grows the storage first
// if it is full. Fails with ErrReleased after Release.
func (s *SlimSet[T]) Add(item T) (bool, error) {
	if s.released {
		return false, ErrReleased
	}

	if s.distinct && slices.Contains(s.items, item) {
		return false, nil
	}

	if len(s.items) == cap(s.items) {
		if err := s.grow(0); err != nil {
			return false, err
		}
	}

	s.items = append(s.items, item)

	return true, nil
}

// AddRange appends a batch of items. Fails with ErrReleased after Release.
//
// When the set is distinct, each candidate is checked against everything
// already held, including items appended earlier in the same call, and
// duplicates are skipped; storage grows on demand as in Add. This is
// O(n*count) on purpose: the container targets small cardinalities where a
// scan beats any hashing setup.
//
// When duplicates are allowed, capacity is checked once for the whole batch,
// a single exact-fit growth step is performed if needed, and the batch is
// copied in bulk.
func (s *SlimSet[T]) AddRange(items []T) error {
	if s.released {
		return ErrReleased
	}
	if len(items) == 0 {
		return nil
	}

	if s.distinct {
		for _, item := range items {
			if slices.Contains(s.items, item) {
				continue
			}
			if len(s.items) == cap(s.items) {
				if err := s.grow(0); err != nil {
					return err
				}
			}
			s.items = append(s.items, item)
		}
		return nil
	}

	if need := len(s.items) + len(items); need > cap(s.items) {
		if err := s.grow(need); err != nil {
			return err
		}
	}
	s.items = append(s.items, items...)

	return nil
}

// Remove deletes the first element equal to item and returns true, or
// returns false when item is absent. The vacated slot is filled with the
// last element, so element order is not preserved. Fails with ErrReleased
// after Release.
func (s *SlimSet[T]) Remove(item T) (bool, error) {
	if s.released {
		return false, ErrReleased
	}

	idx := slices.Index(s.items, item)
	if idx < 0 {
		return false, nil
	}

	last := len(s.items) - 1
	s.items[idx] = s.items[last]

	var zero T
	s.items[last] = zero // Drop references held by the vacated slot

	s.items = s.items[:last]

	return true, nil
}

// Clear removes all elements but keeps the current storage, including a
// pooled buffer if one was rented, so the set can refill without growing.
func (s *SlimSet[T]) Clear() {
	s.items = s.items[:0]
}

// Release returns the pooled buffer (cleared) to the pool, if one was ever
// rented, and invalidates the set: every other operation fails with
// ErrReleased afterwards. Calling Release again is a safe no-op.
//
// The initial caller-supplied buffer is not touched; its lifetime remains
// the caller's concern.
func (s *SlimSet[T]) Release() {
	if s.pooled != nil {
		s.pool.Return(s.pooled, true)
		s.pooled = nil
	}
	s.items = nil
	s.released = true
}

// grow swaps the storage for a larger pool-rented buffer. The new capacity
// is the current one plus 25%, with a floor of growthStep slots, raised to
// minCapacity when a larger exact fit is requested. On rent failure the
// existing storage and count are left untouched.
func (s *SlimSet[T]) grow(minCapacity int) error {
	if s.released {
		return ErrReleased
	}

	capacity := cap(s.items)
	increment := capacity / 4
	if increment == 0 {
		increment = growthStep
	}

	target := capacity + increment
	if minCapacity > target {
		target = minCapacity
	}

	next, err := s.pool.Rent(target)
	if err != nil {
		return err
	}

	next = next[:len(s.items)]
	copy(next, s.items)

	// Retire the previous pooled buffer; at most one is held at a time.
	if s.pooled != nil {
		s.pool.Return(s.pooled, true)
	}

	s.pooled = next[:cap(next)]
	s.items = next

	return nil
}
