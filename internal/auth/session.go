// Package auth owns sessions and request authentication. Sessions live in
// Redis under uuid tokens with a TTL; the store is an interface so tests run
// against a map.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type SessionStore interface {
	Create(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, token string) (Session, bool, error)
	Delete(ctx context.Context, token string) error
}

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string { return "session:" + token }

func (r *RedisSessionStore) Create(ctx context.Context, s Session) (string, error) {
	token := uuid.NewString()
	body, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	if err := r.client.Set(ctx, sessionKey(token), body, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (r *RedisSessionStore) Get(ctx context.Context, token string) (Session, bool, error) {
	body, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return Session{}, false, err
	}
	return s, true, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}
