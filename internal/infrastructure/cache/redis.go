package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"parcelmama/internal/domain/entity"
	"parcelmama/pkg/config"
)

// rankingKey holds one field per requested limit so a single DEL drops every cached page.
const rankingKey = "ranking:top-deliverymen"

// RedisRankingCache implements usecase.RankingCache.
type RedisRankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRankingCache connects to Redis and checks the connection.
func NewRedisRankingCache(ctx context.Context, cfg config.RedisConfig) (*RedisRankingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRankingCacheFromClient(client, cfg.RankingTTL), nil
}

func NewRedisRankingCacheFromClient(client *redis.Client, ttl time.Duration) *RedisRankingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisRankingCache{client: client, ttl: ttl}
}

// Get returns the cached ranking for limit; ok is false on a miss.
func (c *RedisRankingCache) Get(ctx context.Context, limit int) ([]*entity.User, bool, error) {
	data, err := c.client.HGet(ctx, rankingKey, strconv.Itoa(limit)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var users []*entity.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, false, err
	}
	return users, true, nil
}

func (c *RedisRankingCache) Set(ctx context.Context, limit int, users []*entity.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, rankingKey, strconv.Itoa(limit), data)
	pipe.Expire(ctx, rankingKey, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *RedisRankingCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rankingKey).Err()
}

func (c *RedisRankingCache) Close() error {
	return c.client.Close()
}
