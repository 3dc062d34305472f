package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID     string `json:"id"`
	Target string `json:"target"`
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	var got item
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)

	in := item{ID: "c1", Target: "1000"}
	require.NoError(t, c.Set(ctx, "k", &in, time.Minute))
	in.Target = "changed"

	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, "1000", got.Target, "stored copy")

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}

func TestMultiLevelCache_Backfill(t *testing.T) {
	ctx := context.Background()
	l1 := NewMemoryCache(time.Minute, time.Minute)
	l2 := NewMemoryCache(time.Minute, time.Minute)
	m := NewMultiLevelCache(l1, l2)

	require.NoError(t, l2.Set(ctx, "k", item{ID: "c1"}, time.Minute))

	var got item
	require.NoError(t, m.Get(ctx, "k", &got))
	assert.Equal(t, "c1", got.ID)

	// 回写到 L1
	var local item
	require.NoError(t, l1.Get(ctx, "k", &local))
	assert.Equal(t, "c1", local.ID)

	require.NoError(t, m.Delete(ctx, "k"))
	assert.ErrorIs(t, m.Get(ctx, "k", &got), ErrMiss)
}

func TestMultiLevelCache_LocalOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMultiLevelCache(NewMemoryCache(time.Minute, time.Minute), nil)

	require.NoError(t, m.Set(ctx, "k", item{ID: "c2"}, time.Minute))
	var got item
	require.NoError(t, m.Get(ctx, "k", &got))
	assert.Equal(t, "c2", got.ID)
	assert.ErrorIs(t, m.Get(ctx, "other", &got), ErrMiss)
}
