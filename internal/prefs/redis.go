package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type record struct {
	Theme     Theme     `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RedisStore keeps one JSON value per client, refreshed to ttl on every write
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// DialRedis connects and pings the server
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) Theme(ctx context.Context, clientID string) (Theme, error) {
	raw, err := s.rdb.Get(ctx, key(clientID)).Bytes()
	if err == redis.Nil {
		return DefaultTheme, nil
	}
	if err != nil {
		return "", err
	}

	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", err
	}
	if _, err := ParseTheme(string(r.Theme)); err != nil {
		return DefaultTheme, nil
	}
	return r.Theme, nil
}

func (s *RedisStore) SetTheme(ctx context.Context, clientID string, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}

	raw, err := json.Marshal(record{Theme: theme, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(clientID), raw, s.ttl).Err()
}
