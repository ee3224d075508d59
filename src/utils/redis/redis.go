package redis_utils

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"

	"dividendtracker/src/config"

	"github.com/redis/go-redis/v9"
)

var ErrKeyNotFound = errors.New("key does not exist")

// maxTxRetries bounds optimistic transaction retries on concurrent writes.
const maxTxRetries = 5

// RedisHandler encapsulates the Redis client and provides JSON helpers on top of it.
type RedisHandler struct {
	client *redis.Client
}

// NewRedisHandler initializes a new Redis handler.
func NewRedisHandler(ctx context.Context, cfg *config.Config) (*RedisHandler, error) {
	opts := &redis.Options{
		Addr:     cfg.Databases.Redis.Host + ":" + cfg.Databases.Redis.Port,
		Username: cfg.Databases.Redis.Username,
		Password: cfg.Databases.Redis.Password, // Leave empty for no password
		DB:       cfg.Databases.Redis.Database,
	}
	if cfg.Databases.Redis.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisHandler{client: client}, nil
}

// Delete removes keys from Redis.
func (r *RedisHandler) Delete(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// HSet stores value as JSON under field of the hash at key.
func (r *RedisHandler) HSet(ctx context.Context, key, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	return r.client.HSet(ctx, key, field, data).Err()
}

// HGet reads field of the hash at key into result.
func (r *RedisHandler) HGet(ctx context.Context, key, field string, result interface{}) error {
	data, err := r.client.HGet(ctx, key, field).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("%w: %s[%s]", ErrKeyNotFound, key, field)
	} else if err != nil {
		return fmt.Errorf("failed to get field: %w", err)
	}
	return decode(data, result)
}

// HGetAll returns the raw JSON of every field of the hash at key.
func (r *RedisHandler) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hash: %w", err)
	}
	return values, nil
}

// HDel removes field from the hash at key and reports whether it was present.
func (r *RedisHandler) HDel(ctx context.Context, key, field string) (bool, error) {
	n, err := r.client.HDel(ctx, key, field).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete field: %w", err)
	}
	return n > 0, nil
}

// HUpdate runs a read-modify-write of one hash field inside a WATCH
// transaction. update receives the current raw JSON (nil when absent) and
// returns the value to store.
func (r *RedisHandler) HUpdate(ctx context.Context, key, field string, update func(current []byte) (interface{}, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, field).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		next, err := update(current)
		if err != nil {
			return err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to serialize value: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field, data)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return fmt.Errorf("failed to update %s[%s]: too much contention", key, field)
}

// Close closes the Redis client connection.
func (r *RedisHandler) Close() error {
	return r.client.Close()
}

func decode(data []byte, result interface{}) error {
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to deserialize value: %w", err)
	}
	return nil
}
