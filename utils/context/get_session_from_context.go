package context

import (
	"context"

	"github.com/octabyte/bm-talentportal/session"
)

type contextKey string

const (
	sessionStoreKey contextKey = "requestSession"
	tokenKey        contextKey = "requestToken"
)

// WithSessionStore attaches the client's session store to ctx.
func WithSessionStore(ctx context.Context, store *session.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey, store)
}

// GetSessionStoreFromContext returns the store attached by the session
// middleware, or nil.
func GetSessionStoreFromContext(ctx context.Context) *session.Store {
	store, _ := ctx.Value(sessionStoreKey).(*session.Store)
	return store
}
