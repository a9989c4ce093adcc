package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_TryReserve(t *testing.T) {
	l := NewLimiter(100)

	assert.True(t, l.TryReserve(60))
	assert.Equal(t, int64(60), l.InUse())

	// Would exceed the limit.
	assert.False(t, l.TryReserve(50))
	assert.Equal(t, int64(60), l.InUse())
	assert.Equal(t, uint64(1), l.Denied())

	l.Free(60)
	assert.Equal(t, int64(0), l.InUse())
	assert.True(t, l.TryReserve(100))
}

func TestLimiter_Reserve(t *testing.T) {
	l := NewLimiter(50)
	ctx := context.Background()

	require.NoError(t, l.Reserve(ctx, 50))
	assert.Equal(t, int64(50), l.InUse())

	// A blocked reservation must observe cancellation.
	ctx2, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	err := l.Reserve(ctx2, 10)
	require.Error(t, err)
	assert.Equal(t, int64(50), l.InUse())

	l.Free(50)
	require.NoError(t, l.Reserve(ctx, 10))
	l.Free(10)
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0)

	assert.True(t, l.TryReserve(1<<40))
	assert.Equal(t, int64(1<<40), l.InUse())
	assert.Equal(t, int64(0), l.Limit())
	l.Free(1 << 40)
}

func TestLimiter_Nil(t *testing.T) {
	var l *Limiter

	assert.True(t, l.TryReserve(10))
	assert.NoError(t, l.Reserve(context.Background(), 10))
	l.Free(10)
	assert.Equal(t, int64(0), l.InUse())
	assert.Equal(t, uint64(0), l.Denied())
}
