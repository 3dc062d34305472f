package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLock()

	ok, err := l.Acquire(ctx, "deadline-watch", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.Acquire(ctx, "deadline-watch", time.Minute)
	assert.False(t, ok, "held")

	require.NoError(t, l.Release(ctx, "deadline-watch"))
	ok, _ = l.Acquire(ctx, "deadline-watch", time.Minute)
	assert.True(t, ok)
}

func TestLocalLock_Expiry(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLock()

	ok, _ := l.Acquire(ctx, "k", time.Millisecond)
	require.True(t, ok)
	time.Sleep(5 * time.Millisecond)

	ok, _ = l.Acquire(ctx, "k", time.Minute)
	assert.True(t, ok)
}
