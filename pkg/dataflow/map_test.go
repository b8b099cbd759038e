package dataflow

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 3, 9, 1}
	outcomes := Map(context.Background(), items, func(_ context.Context, n int) (string, error) {
		return strconv.Itoa(n * 10), nil
	}, WithWorkers(3))

	assert.Len(t, outcomes, 4)
	assert.Equal(t, "50", outcomes[0].Value)
	assert.Equal(t, "30", outcomes[1].Value)
	assert.Equal(t, "90", outcomes[2].Value)
	assert.Equal(t, "10", outcomes[3].Value)
}

func TestMapIsolatesFailures(t *testing.T) {
	items := []string{"ok", "boom", "ok"}
	outcomes := Map(context.Background(), items, func(_ context.Context, s string) (string, error) {
		if s == "boom" {
			return "", errors.New("exploded")
		}
		return s, nil
	}, WithWorkers(2))

	assert.NoError(t, outcomes[0].Err)
	assert.EqualError(t, outcomes[1].Err, "exploded")
	assert.NoError(t, outcomes[2].Err)
}

func TestMapRetries(t *testing.T) {
	var attempts int32
	outcomes := Map(context.Background(), []string{"item"}, func(_ context.Context, s string) (string, error) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return "", errors.New("fail")
		}
		return "success", nil
	}, WithRetry(3, ConstantBackoff(time.Millisecond)))

	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, "success", outcomes[0].Value)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestMapRetriesExhausted(t *testing.T) {
	var attempts int32
	outcomes := Map(context.Background(), []string{"item"}, func(_ context.Context, s string) (string, error) {
		atomic.AddInt32(&attempts, 1)
		return "", errors.New("permanent fail")
	}, WithRetry(3, ConstantBackoff(time.Millisecond)))

	assert.EqualError(t, outcomes[0].Err, "permanent fail")
	assert.Equal(t, int32(4), atomic.LoadInt32(&attempts))
}

func TestMapCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]int, 100)
	outcomes := Map(ctx, items, func(ctx context.Context, n int) (int, error) {
		return n, ctx.Err()
	})

	assert.Error(t, outcomes[len(outcomes)-1].Err)
}

func TestExponentialBackoff(t *testing.T) {
	backoff := ExponentialBackoff(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, backoff(0))
	assert.Equal(t, 10*time.Millisecond, backoff(1))
	assert.Equal(t, 20*time.Millisecond, backoff(2))
	assert.Equal(t, 40*time.Millisecond, backoff(3))
	assert.Equal(t, 80*time.Millisecond, backoff(4))
}
