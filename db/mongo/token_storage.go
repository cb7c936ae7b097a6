package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/octabyte/bm-talentportal/session"
)

const defaultCollection = "portal_sessions"

// sessionDocument is one stored session token.
type sessionDocument struct {
	SessionID string    `bson:"_id"`
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expires_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// TokenStorage keeps session tokens in a collection with a TTL index on
// expires_at. The server's TTL monitor runs about once a minute, so Get
// also filters on the expiry.
type TokenStorage struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

var _ session.TokenStorage = (*TokenStorage)(nil)

func NewTokenStorage(db *mongo.Database, ttl time.Duration) *TokenStorage {
	return &TokenStorage{collection: db.Collection(defaultCollection), ttl: ttl, now: time.Now}
}

// Migrate creates the TTL index.
func (s *TokenStorage) Migrate(ctx context.Context) error {
	if _, err := EnsureTTLIndex(ctx, s.collection, "expires_at", 0); err != nil {
		return fmt.Errorf("mongo index %s: %w", defaultCollection, err)
	}
	return nil
}

func (s *TokenStorage) Get(ctx context.Context, sid string) (string, error) {
	var doc sessionDocument
	err := FindOne(ctx, s.collection, bson.M{"_id": sid, "expires_at": bson.M{"$gt": s.now()}}, &doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", session.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mongo get session %s: %w", sid, err)
	}
	return doc.Token, nil
}

func (s *TokenStorage) Set(ctx context.Context, sid, token string) error {
	now := s.now()
	update := bson.M{"$set": bson.M{
		"token":      token,
		"expires_at": now.Add(s.ttl),
		"updated_at": now,
	}}
	if _, err := UpsertOne(ctx, s.collection, bson.M{"_id": sid}, update); err != nil {
		return fmt.Errorf("mongo set session %s: %w", sid, err)
	}
	return nil
}

func (s *TokenStorage) Delete(ctx context.Context, sid string) error {
	if _, err := DeleteOne(ctx, s.collection, bson.M{"_id": sid}); err != nil {
		return fmt.Errorf("mongo delete session %s: %w", sid, err)
	}
	return nil
}
