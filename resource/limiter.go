// Package resource provides memory budget tracking for pooled allocations.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Limiter enforces an upper bound on outstanding managed memory.
//
// A nil *Limiter is valid and means unlimited: all reservations succeed and
// only no-ops are performed. This mirrors the optional wiring in callers,
// which pass nil when no budget is configured.
type Limiter struct {
	limit  int64
	sem    *semaphore.Weighted
	inUse  atomic.Int64
	denied atomic.Uint64
}

// NewLimiter creates a Limiter with the given hard limit in bytes.
// If maxBytes <= 0, the returned Limiter tracks usage but enforces no limit.
func NewLimiter(maxBytes int64) *Limiter {
	l := &Limiter{limit: maxBytes}
	if maxBytes > 0 {
		l.sem = semaphore.NewWeighted(maxBytes)
	}
	return l
}

// Reserve blocks until n bytes fit within the limit or ctx is canceled.
func (l *Limiter) Reserve(ctx context.Context, n int64) error {
	if l == nil || n <= 0 {
		return nil
	}
	if l.sem != nil {
		if err := l.sem.Acquire(ctx, n); err != nil {
			return err
		}
	}
	l.inUse.Add(n)
	return nil
}

// TryReserve reserves n bytes without blocking.
// Returns false if the reservation would exceed the limit.
func (l *Limiter) TryReserve(n int64) bool {
	if l == nil || n <= 0 {
		return true
	}
	if l.sem != nil && !l.sem.TryAcquire(n) {
		l.denied.Add(1)
		return false
	}
	l.inUse.Add(n)
	return true
}

// Free releases n previously reserved bytes.
func (l *Limiter) Free(n int64) {
	if l == nil || n <= 0 {
		return
	}
	if l.sem != nil {
		l.sem.Release(n)
	}
	l.inUse.Add(-n)
}

// InUse returns the number of bytes currently reserved.
func (l *Limiter) InUse() int64 {
	if l == nil {
		return 0
	}
	return l.inUse.Load()
}

// Limit returns the configured hard limit, or 0 if unlimited.
func (l *Limiter) Limit() int64 {
	if l == nil {
		return 0
	}
	return l.limit
}

// Denied returns how many non-blocking reservations were rejected.
func (l *Limiter) Denied() uint64 {
	if l == nil {
		return 0
	}
	return l.denied.Load()
}
