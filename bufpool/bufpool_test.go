package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slimset/resource"
)

func TestPool_RentRounding(t *testing.T) {
	p := New[int]()

	tests := []struct {
		min     int
		wantCap int
	}{
		{min: 0, wantCap: MinCapacity},
		{min: 1, wantCap: MinCapacity},
		{min: 8, wantCap: 8},
		{min: 9, wantCap: 16},
		{min: 100, wantCap: 128},
		{min: 1024, wantCap: 1024},
	}

	for _, tt := range tests {
		buf, err := p.Rent(tt.min)
		require.NoError(t, err)
		assert.Equal(t, tt.wantCap, cap(buf), "min=%d", tt.min)
		assert.Equal(t, cap(buf), len(buf), "rented length equals capacity")
		p.Return(buf, false)
	}
}

func TestPool_Recycles(t *testing.T) {
	p := New[int]()

	buf, err := p.Rent(16)
	require.NoError(t, err)
	buf[0] = 42
	p.Return(buf, true)

	// Same class, should come back cleared. sync.Pool gives no reuse
	// guarantee, so only assert on contents, not identity.
	buf2, err := p.Rent(10)
	require.NoError(t, err)
	assert.Equal(t, 16, cap(buf2))
	assert.Equal(t, 0, buf2[0], "cleared on return")
	p.Return(buf2, false)

	stats := p.Stats()
	assert.Equal(t, uint64(2), stats.Rents)
	assert.Equal(t, uint64(2), stats.Returns)
}

func TestPool_Oversize(t *testing.T) {
	p := New[byte](WithMaxPooledCapacity(64))

	buf, err := p.Rent(1000)
	require.NoError(t, err)
	assert.Equal(t, 1000, cap(buf), "oversize rentals are exact-fit")

	p.Return(buf, false)
	assert.Equal(t, uint64(1), p.Stats().Discards, "oversize buffers are not recycled")
}

func TestPool_MemoryLimit(t *testing.T) {
	lim := resource.NewLimiter(64) // bytes
	p := New[byte](WithLimiter(lim))

	buf, err := p.Rent(32)
	require.NoError(t, err)
	assert.Equal(t, int64(32), lim.InUse())

	// Rounds up to a 64-byte class, which no longer fits next to the
	// outstanding 32 bytes.
	_, err = p.Rent(33)
	require.ErrorIs(t, err, ErrMemoryLimit)

	p.Return(buf, false)
	assert.Equal(t, int64(0), lim.InUse())

	buf, err = p.Rent(64)
	require.NoError(t, err)
	p.Return(buf, false)
}

func TestPool_ReturnZeroCap(t *testing.T) {
	p := New[int]()
	p.Return(nil, true) // must not panic or count
	assert.Equal(t, uint64(0), p.Stats().Returns)
}

func TestShared_PerType(t *testing.T) {
	assert.Same(t, Shared[int](), Shared[int]())
	assert.Same(t, Shared[string](), Shared[string]())
}

func BenchmarkPool_RentReturn(b *testing.B) {
	p := New[int]()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		buf, err := p.Rent(64)
		if err != nil {
			b.Fatal(err)
		}
		p.Return(buf, false)
	}
}
