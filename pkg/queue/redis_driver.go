package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrQueueFull is returned by Push when the backend cannot take more work.
var ErrQueueFull = errors.New("queue: full")

// redisDriver stores payloads in a Redis list so jobs survive restarts and
// can be shared between processes.
type redisDriver struct {
	rdb *redis.Client
	key string
}

// NewRedisDriver returns a Driver backed by the given Redis client.
func NewRedisDriver(rdb *redis.Client, key string) Driver {
	if key == "" {
		key = "storefront:queue"
	}
	return &redisDriver{rdb: rdb, key: key}
}

func (d *redisDriver) Push(payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.rdb.RPush(ctx, d.key, payload).Err()
}

func (d *redisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.rdb.BLPop(ctx, 5*time.Second, d.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	// BLPop returns [key, value].
	if len(res) != 2 {
		return nil, errors.New("queue: unexpected BLPOP reply")
	}
	return []byte(res[1]), nil
}
