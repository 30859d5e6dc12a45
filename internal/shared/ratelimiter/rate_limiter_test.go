package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiter_UnderLimit は上限以内の呼び出しが待機しないことを検証します。
func TestRateLimiter_UnderLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Hour)
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.WaitIfNeeded(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestRateLimiter_WaitsWhenExceeded は上限を超えた呼び出しが次の区間まで待機することを検証します。
func TestRateLimiter_WaitsWhenExceeded(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 50*time.Millisecond)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	start := time.Now()
	require.NoError(t, rl.WaitIfNeeded(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

// TestRateLimiter_ContextCancel は待機中のキャンセルでエラーが返ることを検証します。
func TestRateLimiter_ContextCancel(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.WaitIfNeeded(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestRateLimiter_WaitersDoNotBlockEachOther は待機中の呼び出しがあっても、
// 別の呼び出し元が自分の ctx で即座に戻れることを検証します。
func TestRateLimiter_WaitersDoNotBlockEachOther(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 2*time.Second)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	waiting := make(chan error, 1)
	go func() { waiting <- rl.WaitIfNeeded(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := rl.WaitIfNeeded(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	start = time.Now()
	assert.ErrorIs(t, rl.WaitIfNeeded(ctx2), context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	select {
	case err := <-waiting:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first waiter never returned")
	}
}
