package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/octabyte/bm-talentportal/session"
)

type TokenStorageTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	db        *gorm.DB
	storage   *TokenStorage
}

func (s *TokenStorageTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping postgres container in short mode")
	}
	s.ctx = context.Background()

	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: tContainer.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "portal",
				"POSTGRES_PASSWORD": "portal",
				"POSTGRES_DB":       "portal",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432")
	s.Require().NoError(err)

	db, err := NewPostgresClient(s.ctx, Config{
		ConnectionString: fmt.Sprintf("host=%s port=%s user=portal password=portal dbname=portal sslmode=disable", host, port.Port()),
	})
	s.Require().NoError(err)
	s.db = db

	s.storage = NewTokenStorage(db, time.Hour)
	s.Require().NoError(s.storage.Migrate(s.ctx))
}

func (s *TokenStorageTestSuite) TearDownSuite() {
	if s.db != nil {
		_ = Close(s.db)
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *TokenStorageTestSuite) SetupTest() {
	s.storage.now = time.Now
}

func (s *TokenStorageTestSuite) TestMissing() {
	_, err := s.storage.Get(s.ctx, "nobody")
	s.ErrorIs(err, session.ErrTokenNotFound)
}

func (s *TokenStorageTestSuite) TestUpsertOverwrites() {
	s.Require().NoError(s.storage.Set(s.ctx, "sid-1", "first"))
	s.Require().NoError(s.storage.Set(s.ctx, "sid-1", "second"))

	token, err := s.storage.Get(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.Equal("second", token)

	s.Require().NoError(s.storage.Delete(s.ctx, "sid-1"))
	s.Require().NoError(s.storage.Delete(s.ctx, "sid-1"))
	_, err = s.storage.Get(s.ctx, "sid-1")
	s.ErrorIs(err, session.ErrTokenNotFound)
}

func (s *TokenStorageTestSuite) TestExpiredTokensAreHiddenAndPurged() {
	past := time.Now().Add(-2 * time.Hour)
	s.storage.now = func() time.Time { return past }
	s.Require().NoError(s.storage.Set(s.ctx, "sid-old", "tok"))
	s.storage.now = time.Now

	_, err := s.storage.Get(s.ctx, "sid-old")
	s.ErrorIs(err, session.ErrTokenNotFound)

	n, err := s.storage.PurgeExpired(s.ctx)
	s.Require().NoError(err)
	s.GreaterOrEqual(n, int64(1))
}

func (s *TokenStorageTestSuite) TestPing() {
	s.NoError(Ping(s.ctx, s.db))
}

func TestTokenStorageSuite(t *testing.T) {
	suite.Run(t, new(TokenStorageTestSuite))
}
