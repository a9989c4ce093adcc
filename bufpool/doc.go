// Package bufpool provides a size-classed buffer pool with rent/return
// semantics.
//
// # Size Classes
//
// Capacities are rounded up to powers of two between MinCapacity and the
// pooled maximum. Each class recycles buffers through its own sync.Pool, so
// rent/return cycles of similarly sized buffers stay allocation-free.
//
// # Memory Budget
//
// A pool can be constructed with a resource.Limiter. Rent then reserves the
// buffer's byte size against the budget and fails with ErrMemoryLimit when
// the budget is exhausted; Return frees the reservation. Budgets cover
// outstanding rentals only, not buffers idling in the free lists.
package bufpool
