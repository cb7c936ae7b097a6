package session

import (
	"context"
	"errors"
	"sync"
)

var ErrTokenNotFound = errors.New("session: token not found")

// TokenStorage persists the bearer token of each session id. It is the only
// place a token lives between requests.
type TokenStorage interface {
	Get(ctx context.Context, sid string) (string, error)
	Set(ctx context.Context, sid, token string) error
	Delete(ctx context.Context, sid string) error
}

// MemoryStorage keeps tokens in process. Used in development and tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{tokens: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, sid string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.tokens[sid]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MemoryStorage) Set(_ context.Context, sid, token string) error {
	m.mu.Lock()
	m.tokens[sid] = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.tokens, sid)
	m.mu.Unlock()
	return nil
}
