package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKey = "kandu:job_views"
	drainKey   = "kandu:job_views:draining"
)

// RedisCounter держит приращения в хеше Redis, общем для всех инстансов API
type RedisCounter struct {
	rdb *redis.Client
	key string
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb, key: defaultKey}
}

// NewRedisClient разбирает URL и проверяет соединение
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (c *RedisCounter) Increment(ctx context.Context, jobID string) error {
	return c.rdb.HIncrBy(ctx, c.key, jobID, 1).Err()
}

// Drain забирает хеш в одной транзакции MULTI/EXEC: приращения после EXEC
// попадут в следующий цикл, два инстанса не заберут одно и то же дважды.
// Хеш drainKey, оставшийся от прерванного сброса, складывается с текущим.
func (c *RedisCounter) Drain(ctx context.Context) (map[string]int64, error) {
	var current, leftover *redis.MapStringStringCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		current = pipe.HGetAll(ctx, c.key)
		leftover = pipe.HGetAll(ctx, drainKey)
		pipe.Del(ctx, c.key, drainKey)
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := map[string]int64{}
	for _, raw := range []map[string]string{current.Val(), leftover.Val()} {
		for jobID, v := range raw {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("views for %s: %w", jobID, err)
			}
			out[jobID] += n
		}
	}
	return out, nil
}
