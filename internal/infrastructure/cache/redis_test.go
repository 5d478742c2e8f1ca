package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelmama/internal/usecase"
	"parcelmama/pkg/config"
)

var _ usecase.RankingCache = (*RedisRankingCache)(nil)

func TestNewRedisRankingCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisRankingCache(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis")
}

func TestNewRedisRankingCacheFromClient_DefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	c := NewRedisRankingCacheFromClient(client, 0)
	assert.Equal(t, 30*time.Second, c.ttl)

	c = NewRedisRankingCacheFromClient(client, time.Minute)
	assert.Equal(t, time.Minute, c.ttl)
}
