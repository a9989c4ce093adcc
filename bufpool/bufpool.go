package bufpool

import (
	"errors"
	"fmt"
	"math/bits"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/slimset/resource"
)

// ErrMemoryLimit is returned by Rent when a configured memory limiter
// rejects the reservation for the requested buffer.
var ErrMemoryLimit = errors.New("bufpool: memory limit exceeded")

const (
	// minClassBits is the exponent of the smallest size class (8 elements).
	minClassBits = 3

	// MinCapacity is the smallest capacity Rent hands out. Requests below
	// it are rounded up so that tiny buffers still recycle through a class.
	MinCapacity = 1 << minClassBits

	// DefaultMaxPooledCapacity is the largest capacity recycled through the
	// pool by default. Larger buffers are allocated directly and dropped on
	// return.
	DefaultMaxPooledCapacity = 1 << 20
)

// Pool is a size-classed free list of []T buffers with rent/return
// semantics. Buffer capacities are rounded up to the next power of two and
// recycled per class via sync.Pool, so a returned buffer can serve any later
// request of the same class without touching the allocator.
//
// Pool is safe for concurrent use. Buffers themselves are not: a rented
// buffer belongs to exactly one caller until it is returned.
type Pool[T any] struct {
	classes   []sync.Pool
	maxPooled int
	elemSize  int64
	limiter   *resource.Limiter
	stats     atomicStats
}

type config struct {
	limiter   *resource.Limiter
	maxPooled int
}

// Option configures a Pool.
type Option func(*config)

// WithLimiter attaches a memory budget to the pool. Rent reserves
// cap(buffer) * element size bytes against it and fails with ErrMemoryLimit
// when the reservation is denied; Return frees the reservation.
func WithLimiter(l *resource.Limiter) Option {
	return func(c *config) {
		c.limiter = l
	}
}

// WithMaxPooledCapacity sets the largest buffer capacity recycled through
// the pool. The value is rounded up to a power of two.
func WithMaxPooledCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPooled = n
		}
	}
}

// New creates a Pool for element type T.
func New[T any](opts ...Option) *Pool[T] {
	cfg := config{maxPooled: DefaultMaxPooledCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	maxBits := bits.Len(uint(cfg.maxPooled - 1))
	if maxBits < minClassBits {
		maxBits = minClassBits
	}

	var zero T
	return &Pool[T]{
		classes:   make([]sync.Pool, maxBits-minClassBits+1),
		maxPooled: 1 << maxBits,
		elemSize:  int64(unsafe.Sizeof(zero)),
		limiter:   cfg.limiter,
	}
}

// sharedPools maps element types to their process-wide Pool instance.
var sharedPools sync.Map // reflect.Type -> *Pool[T]

// Shared returns the process-wide Pool for element type T, creating it on
// first use. All callers in the process that rent buffers of the same
// element type through Shared recycle from the same free lists.
func Shared[T any]() *Pool[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := sharedPools.Load(key); ok {
		return v.(*Pool[T])
	}
	v, _ := sharedPools.LoadOrStore(key, New[T]())
	return v.(*Pool[T])
}

// Rent returns a buffer with capacity of at least minCapacity. The buffer's
// length equals its capacity. Fresh buffers are zeroed by the allocator;
// recycled buffers hold whatever the previous Return left behind unless it
// was called with clearBuf set.
//
// The buffer belongs to the caller until passed back via Return.
func (p *Pool[T]) Rent(minCapacity int) ([]T, error) {
	if minCapacity <= 0 {
		minCapacity = 1
	}

	class, capacity, pooled := p.sizeClass(minCapacity)
	if !pooled {
		capacity = minCapacity
	}

	if p.limiter != nil && !p.limiter.TryReserve(int64(capacity)*p.elemSize) {
		return nil, fmt.Errorf("%w: %d bytes requested, %d in use of %d",
			ErrMemoryLimit, int64(capacity)*p.elemSize, p.limiter.InUse(), p.limiter.Limit())
	}

	p.stats.rents.Add(1)

	if pooled {
		if v := p.classes[class].Get(); v != nil {
			p.stats.hits.Add(1)
			return *(v.(*[]T)), nil
		}
	}

	p.stats.misses.Add(1)
	return make([]T, capacity), nil
}

// Return hands a rented buffer back for reuse. If clearBuf is true the full
// capacity is zeroed first, so no stale elements leak to the next renter.
// Buffers whose capacity does not match a size class (oversize rentals) are
// dropped for the garbage collector instead.
//
// Return must only be called with buffers obtained from Rent on the same
// pool, and at most once per rental.
func (p *Pool[T]) Return(buf []T, clearBuf bool) {
	capacity := cap(buf)
	if capacity == 0 {
		return
	}

	p.limiter.Free(int64(capacity) * p.elemSize)
	p.stats.returns.Add(1)

	buf = buf[:capacity]
	if clearBuf {
		clear(buf)
	}

	class, classCap, pooled := p.sizeClass(capacity)
	if !pooled || classCap != capacity {
		p.stats.discards.Add(1)
		return
	}

	p.classes[class].Put(&buf)
}

// sizeClass maps a capacity to its class index and rounded capacity.
// ok is false when the capacity exceeds the pooled maximum.
func (p *Pool[T]) sizeClass(n int) (class, capacity int, ok bool) {
	if n > p.maxPooled {
		return 0, 0, false
	}
	b := bits.Len(uint(n - 1))
	if b < minClassBits {
		b = minClassBits
	}
	return b - minClassBits, 1 << b, true
}

// Stats is a snapshot of pool activity counters.
type Stats struct {
	Rents    uint64 // Total successful Rent calls
	Returns  uint64 // Total Return calls
	Hits     uint64 // Rents served from a free list
	Misses   uint64 // Rents that hit the allocator
	Discards uint64 // Returns dropped for GC (off-class capacity)
}

type atomicStats struct {
	rents    atomic.Uint64
	returns  atomic.Uint64
	hits     atomic.Uint64
	misses   atomic.Uint64
	discards atomic.Uint64
}

// Stats returns a snapshot of the pool's activity counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Rents:    p.stats.rents.Load(),
		Returns:  p.stats.returns.Load(),
		Hits:     p.stats.hits.Load(),
		Misses:   p.stats.misses.Load(),
		Discards: p.stats.discards.Load(),
	}
}
