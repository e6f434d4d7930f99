package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

// RedisStore keeps sessions in Redis. A zero ttl keeps slots until logout.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, sid string, s models.Session) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, key(sid), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, sid string) (models.Session, error) {
	b, err := r.rdb.Get(ctx, key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Session{}, ErrNoSession
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}

	s, err := decode(b)
	if err != nil {
		_ = r.Clear(ctx, sid)
		return models.Session{}, ErrNoSession
	}
	return s, nil
}

func (r *RedisStore) Clear(ctx context.Context, sid string) error {
	return r.rdb.Del(ctx, key(sid)).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
