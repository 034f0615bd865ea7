package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	redisKeyPrefix  = "cart:"
	redisTTL        = 30 * 24 * time.Hour
	redisPingBudget = 1 * time.Second
)

// RedisStore keeps each session's lines as a JSON array under cart:<id>;
// untouched carts expire after redisTTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Plain "host:port" form.
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}
	return &RedisStore{client: redis.NewClient(opts)}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisPingBudget)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, cartID string) ([]Line, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+cartID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *RedisStore) Append(ctx context.Context, cartID string, l Line) error {
	lines, err := s.Get(ctx, cartID)
	if err != nil {
		return err
	}
	return s.put(ctx, cartID, append(lines, l))
}

func (s *RedisStore) RemoveProduct(ctx context.Context, cartID string, productID int64) error {
	lines, err := s.Get(ctx, cartID)
	if err != nil {
		return err
	}

	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	return s.put(ctx, cartID, kept)
}

func (s *RedisStore) Clear(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, redisKeyPrefix+cartID).Err()
}

func (s *RedisStore) put(ctx context.Context, cartID string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+cartID, raw, redisTTL).Err()
}
