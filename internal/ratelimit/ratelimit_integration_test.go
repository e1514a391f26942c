//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"applyform/internal/ratelimit"
	"applyform/pkg/testutil/containers"
)

type SendLimiterSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestSendLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SendLimiterSuite))
}

func (s *SendLimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *SendLimiterSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *SendLimiterSuite) TestAllowsUpToLimit() {
	ctx := context.Background()
	limiter := ratelimit.NewSendLimiter(s.redis.Client, 3, time.Hour)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "jane@example.com")
		s.Require().NoError(err)
		s.True(ok, "attempt %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.False(ok, "attempt over the limit should be denied")
}

func (s *SendLimiterSuite) TestWindowsAreScopedPerAddress() {
	ctx := context.Background()
	limiter := ratelimit.NewSendLimiter(s.redis.Client, 1, time.Hour)

	ok, err := limiter.Allow(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = limiter.Allow(ctx, "other@example.com")
	s.Require().NoError(err)
	s.True(ok, "a different address has its own budget")

	ok, err = limiter.Allow(ctx, "JANE@example.com")
	s.Require().NoError(err)
	s.False(ok, "address comparison is case-insensitive")
}

func (s *SendLimiterSuite) TestWindowExpires() {
	ctx := context.Background()
	limiter := ratelimit.NewSendLimiter(s.redis.Client, 1, time.Second)

	ok, err := limiter.Allow(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = limiter.Allow(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.False(ok)

	time.Sleep(1100 * time.Millisecond)

	ok, err = limiter.Allow(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.True(ok, "a new window opens after expiry")
}

func (s *SendLimiterSuite) TestDisabledWithoutRedis() {
	limiter := ratelimit.NewSendLimiter(nil, 1, time.Hour)
	for i := 0; i < 5; i++ {
		ok, err := limiter.Allow(context.Background(), "jane@example.com")
		s.Require().NoError(err)
		s.True(ok)
	}
}
