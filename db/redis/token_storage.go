package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/octabyte/bm-talentportal/session"
)

const defaultKeyPrefix = "portal:session:"

// TokenStorage keeps session tokens under prefix+sid with a sliding TTL.
type TokenStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ session.TokenStorage = (*TokenStorage)(nil)

func NewTokenStorage(client *redis.Client, ttl time.Duration) *TokenStorage {
	return &TokenStorage{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

func (s *TokenStorage) WithPrefix(prefix string) *TokenStorage {
	s.prefix = prefix
	return s
}

func (s *TokenStorage) key(sid string) string {
	return s.prefix + sid
}

func (s *TokenStorage) Get(ctx context.Context, sid string) (string, error) {
	token, err := GetEx(ctx, s.client, s.key(sid), s.ttl)
	if errors.Is(err, redis.Nil) {
		return "", session.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get session %s: %w", sid, err)
	}
	return token, nil
}

func (s *TokenStorage) Set(ctx context.Context, sid, token string) error {
	if err := Set(ctx, s.client, s.key(sid), token, s.ttl); err != nil {
		return fmt.Errorf("redis set session %s: %w", sid, err)
	}
	return nil
}

func (s *TokenStorage) Delete(ctx context.Context, sid string) error {
	if err := Del(ctx, s.client, s.key(sid)); err != nil {
		return fmt.Errorf("redis delete session %s: %w", sid, err)
	}
	return nil
}
