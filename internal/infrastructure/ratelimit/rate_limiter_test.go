package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(3)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		assert.True(t, ok, "request %d should pass", i)
	}

	ok, wait := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "other clients have their own bucket")
}

func TestRateLimiterCleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(5)
	rl.Allow("a")
	rl.idle = 0

	time.Sleep(time.Millisecond)
	rl.Cleanup()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	assert.Empty(t, rl.buckets)
}
