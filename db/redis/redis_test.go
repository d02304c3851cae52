package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	client    *redis.Client
}

func (s *RedisTestSuite) SetupSuite() {
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

	s.client, err = NewRedisClient(s.ctx, Config{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	s.Require().NoError(err)
}

func (s *RedisTestSuite) TearDownSuite() {
	_ = s.client.Close()
	s.Require().NoError(s.container.Terminate(s.ctx))
}

func (s *RedisTestSuite) SetupTest() {
	s.Require().NoError(s.client.FlushDB(s.ctx).Err())
}

func (s *RedisTestSuite) TestJSONRoundTripAndMiss() {
	type snapshot struct {
		Nome string `json:"nome"`
	}

	var got snapshot
	s.ErrorIs(GetJSON(s.ctx, s.client, "stats", &got), ErrCacheMiss)

	s.Require().NoError(SetJSON(s.ctx, s.client, "stats", snapshot{Nome: "emails"}, time.Minute))
	s.Require().NoError(GetJSON(s.ctx, s.client, "stats", &got))
	s.Equal("emails", got.Nome)
}

func (s *RedisTestSuite) TestFirstSeenKeepsEarliest() {
	first := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	got, err := FirstSeen(s.ctx, s.client, "created", first)
	s.Require().NoError(err)
	s.True(first.Equal(got))

	got, err = FirstSeen(s.ctx, s.client, "created", first.Add(time.Hour))
	s.Require().NoError(err)
	s.True(first.Equal(got))
}

func (s *RedisTestSuite) TestIncr() {
	n, err := Incr(s.ctx, s.client, "processed")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = Incr(s.ctx, s.client, "processed")
	s.Require().NoError(err)
	s.Equal(int64(2), n)

}

func TestNewRedisClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, Config{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected an error for an unreachable redis")
	}
}

func TestRedisSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container suite in short mode")
	}
	suite.Run(t, new(RedisTestSuite))
}
