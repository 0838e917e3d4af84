package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/foodrun/config"
)

const redisPrefix = "foodrun:"

// Redis is a Store backed by a shared Redis instance. Keys are namespaced
// under "foodrun:".
type Redis struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedis connects to the configured Redis instance and verifies the
// connection with a ping.
func NewRedis() (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("kvstore: redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ctx: ctx}, nil
}

func (r *Redis) Get(key string, dest interface{}) (bool, error) {
	val, err := r.rdb.Get(r.ctx, redisPrefix+key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kvstore: redis get: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.rdb.Set(r.ctx, redisPrefix+key, raw, 0).Err()
}

func (r *Redis) Delete(key string) error {
	return r.rdb.Del(r.ctx, redisPrefix+key).Err()
}
