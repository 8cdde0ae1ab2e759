package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound indicates an unknown or expired session token.
var ErrTokenNotFound = errors.New("sessions: token not found")

// Identity is the resolved owner of a session token.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Store keeps opaque session tokens in redis with a TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a redis-backed session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(token string) string {
	return fmt.Sprintf("auth:sessions:%s", token)
}

// Save binds a token to an identity for the store TTL.
func (s *Store) Save(ctx context.Context, token string, identity Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(token), data, s.ttl).Err()
}

// Resolve returns the identity behind a token.
func (s *Store) Resolve(ctx context.Context, token string) (*Identity, error) {
	result, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	var identity Identity
	if err := json.Unmarshal([]byte(result), &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Delete revokes a token.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
