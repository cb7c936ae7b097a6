package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
	"github.com/octabyte/bm-talentportal/session"
)

type staticIdentity struct{}

func (staticIdentity) WhoAmI(_ context.Context, token string) (*models.User, error) {
	return &models.User{ID: "u-" + token, Role: enums.RoleTalent}, nil
}

type RedisTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	storage   *TokenStorage
}

func (s *RedisTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping redis container in short mode")
	}
	s.ctx = context.Background()

	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: tContainer.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "6379")
	s.Require().NoError(err)

	client, err := NewRedisClient(s.ctx, Config{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(err)

	s.storage = NewTokenStorage(client, time.Minute).WithPrefix("test:session:")
}

func (s *RedisTestSuite) TearDownSuite() {
	if s.storage != nil {
		_ = s.storage.client.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(s.ctx))
	}
}

func (s *RedisTestSuite) TestMissingToken() {
	_, err := s.storage.Get(s.ctx, "nobody")
	s.ErrorIs(err, session.ErrTokenNotFound)
}

func (s *RedisTestSuite) TestSetGetDelete() {
	s.Require().NoError(s.storage.Set(s.ctx, "sid-1", "tok"))

	exists, err := Exists(s.ctx, s.storage.client, "test:session:sid-1")
	s.Require().NoError(err)
	s.True(exists)

	token, err := s.storage.Get(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.Equal("tok", token)

	s.Require().NoError(s.storage.Delete(s.ctx, "sid-1"))
	_, err = s.storage.Get(s.ctx, "sid-1")
	s.ErrorIs(err, session.ErrTokenNotFound)
}

func (s *RedisTestSuite) TestGetSlidesExpiry() {
	s.Require().NoError(Set(s.ctx, s.storage.client, "test:session:sid-2", "tok", 5*time.Second))

	_, err := s.storage.Get(s.ctx, "sid-2")
	s.Require().NoError(err)

	ttl, err := TTL(s.ctx, s.storage.client, "test:session:sid-2")
	s.Require().NoError(err)
	s.Greater(ttl, 5*time.Second)
}

func (s *RedisTestSuite) TestStoreRoundTrip() {
	identity := staticIdentity{}
	store := session.NewStore("sid-3", s.storage, identity)

	s.Require().NoError(store.Login(s.ctx, "tok"))
	snap, err := store.FetchUser(s.ctx)
	s.Require().NoError(err)
	s.True(snap.Authenticated())

	store.Logout(s.ctx)
	_, err = s.storage.Get(s.ctx, "sid-3")
	s.ErrorIs(err, session.ErrTokenNotFound)
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(RedisTestSuite))
}
