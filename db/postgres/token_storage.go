package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/octabyte/bm-talentportal/session"
)

// SessionToken is one row of portal_sessions.
type SessionToken struct {
	SessionID string    `gorm:"primaryKey;size:64"`
	Token     string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SessionToken) TableName() string {
	return "portal_sessions"
}

// TokenStorage keeps session tokens in Postgres. Expired rows read as
// missing and are removed by PurgeExpired.
type TokenStorage struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

var _ session.TokenStorage = (*TokenStorage)(nil)

func NewTokenStorage(db *gorm.DB, ttl time.Duration) *TokenStorage {
	return &TokenStorage{db: db, ttl: ttl, now: time.Now}
}

func (s *TokenStorage) Migrate(ctx context.Context) error {
	if err := AutoMigrate(ctx, s.db, &SessionToken{}); err != nil {
		return fmt.Errorf("migrate portal_sessions: %w", err)
	}
	return nil
}

func (s *TokenStorage) Get(ctx context.Context, sid string) (string, error) {
	var row SessionToken
	err := FindOne(ctx, s.db, &row, "session_id = ? AND expires_at > ?", sid, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", session.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres get session %s: %w", sid, err)
	}
	return row.Token, nil
}

func (s *TokenStorage) Set(ctx context.Context, sid, token string) error {
	now := s.now()
	row := &SessionToken{
		SessionID: sid,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Upsert(ctx, s.db, row, []string{"session_id"}, []string{"token", "expires_at", "updated_at"}); err != nil {
		return fmt.Errorf("postgres set session %s: %w", sid, err)
	}
	return nil
}

func (s *TokenStorage) Delete(ctx context.Context, sid string) error {
	if _, err := Delete(ctx, s.db, &SessionToken{}, "session_id = ?", sid); err != nil {
		return fmt.Errorf("postgres delete session %s: %w", sid, err)
	}
	return nil
}

// PurgeExpired removes expired rows and returns how many were deleted.
func (s *TokenStorage) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := Delete(ctx, s.db, &SessionToken{}, "expires_at <= ?", s.now())
	if err != nil {
		return 0, fmt.Errorf("postgres purge sessions: %w", err)
	}
	return n, nil
}
