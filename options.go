package slimset

import "github.com/hupe1980/slimset/bufpool"

type options[T comparable] struct {
	distinct bool
	pool     *bufpool.Pool[T]
}

// Option configures a SlimSet at construction.
type Option[T comparable] func(*options[T])

// WithDuplicates disables distinctness enforcement: Add and AddRange append
// without scanning for existing equal elements, making insertion O(1)
// amortized.
func WithDuplicates[T comparable]() Option[T] {
	return func(o *options[T]) {
		o.distinct = false
	}
}

// WithPool overrides the process-wide shared pool used for growth buffers.
// Passing nil keeps the default.
func WithPool[T comparable](p *bufpool.Pool[T]) Option[T] {
	return func(o *options[T]) {
		if p != nil {
			o.pool = p
		}
	}
}
