// Package cache keeps read-through copies of order views in Redis and drops
// them when an order event says they are stale.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = time.Hour

	keyPrefix  = "orders:"
	adminIndex = keyPrefix + "all:keys"
)

var ErrMiss = errors.New("cache: miss")

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect opens a client from a redis:// URL and checks it answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func orderKey(orderID uint) string {
	return fmt.Sprintf("%sorder:%d", keyPrefix, orderID)
}

func userIndex(userID uint) string {
	return fmt.Sprintf("%suser:%d:keys", keyPrefix, userID)
}

func userPageKey(userID uint, limit, offset int) string {
	return fmt.Sprintf("%suser:%d:page:%d:%d", keyPrefix, userID, limit, offset)
}

func adminPageKey(limit, offset int) string {
	return fmt.Sprintf("%sall:page:%d:%d", keyPrefix, limit, offset)
}

func (s *Store) get(ctx context.Context, key string, dst any) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

// set stores v under key and, when index is not empty, records key in that
// index set so the whole group can be dropped at once.
func (s *Store) set(ctx context.Context, key, index string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, data, s.ttl)
		if index != "" {
			p.SAdd(ctx, index, key)
			p.Expire(ctx, index, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// dropIndex deletes every key recorded in index, then the index itself.
func (s *Store) dropIndex(ctx context.Context, index string) error {
	keys, err := s.client.SMembers(ctx, index).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache members %s: %w", index, err)
	}
	keys = append(keys, index)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache del %s: %w", index, err)
	}
	return nil
}

// InvalidateOrder drops the order view, every cached page of its owner and
// the admin listing.
func (s *Store) InvalidateOrder(ctx context.Context, orderID, userID uint) error {
	if err := s.client.Del(ctx, orderKey(orderID)).Err(); err != nil {
		return fmt.Errorf("cache del order %d: %w", orderID, err)
	}
	return errors.Join(
		s.dropIndex(ctx, userIndex(userID)),
		s.dropIndex(ctx, adminIndex),
	)
}
