package views_test

import (
	"context"
	"sync"
	"testing"

	"kandu_backend/internal/views"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounter(t *testing.T) {
	ctx := context.Background()
	c := views.NewMemoryCounter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Increment(ctx, "job-1")
		}()
	}
	wg.Wait()
	require.NoError(t, c.Increment(ctx, "job-2"))

	got, err := c.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"job-1": 50, "job-2": 1}, got)

	got, err = c.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCounter(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb, err := views.NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()

	c := views.NewRedisCounter(rdb)

	got, err := c.Drain(ctx)
	require.NoError(t, err, "draining an empty counter is not an error")
	assert.Empty(t, got)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Increment(ctx, "job-1"))
	}
	require.NoError(t, c.Increment(ctx, "job-2"))

	got, err = c.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"job-1": 3, "job-2": 1}, got)
	assert.False(t, mr.Exists("kandu:job_views"))
	assert.False(t, mr.Exists("kandu:job_views:draining"))
}

func TestRedisCounter_MergesLeftoverDrain(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb, err := views.NewRedisClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer rdb.Close()

	// хеш от сброса, упавшего между чтением и удалением
	mr.HSet("kandu:job_views:draining", "job-1", "5")
	mr.HSet("kandu:job_views:draining", "job-3", "2")

	c := views.NewRedisCounter(rdb)
	require.NoError(t, c.Increment(ctx, "job-1"))
	require.NoError(t, c.Increment(ctx, "job-2"))

	got, err := c.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"job-1": 6, "job-2": 1, "job-3": 2}, got)
	assert.False(t, mr.Exists("kandu:job_views"))
	assert.False(t, mr.Exists("kandu:job_views:draining"))

	// только остаток, без текущего хеша
	mr.HSet("kandu:job_views:draining", "job-4", "1")
	got, err = c.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"job-4": 1}, got)

	got, err = c.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := views.NewRedisClient(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
