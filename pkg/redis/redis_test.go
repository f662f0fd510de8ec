package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 指向不可达地址的客户端：下列用例不应触发任何网络调用
func newOfflineClient() *Client {
	return &Client{
		rdb:    goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond}),
		logger: zap.NewNop(),
	}
}

func TestBlacklistToken_ExpiredIsNoop(t *testing.T) {
	c := newOfflineClient()
	defer c.Close()

	if err := c.BlacklistToken(context.Background(), "jti-1", 0); err != nil {
		t.Fatalf("已过期 token 不应写入黑名单，err=%v", err)
	}
}

func TestCheckRateLimit_ZeroLimitAllows(t *testing.T) {
	c := newOfflineClient()
	defer c.Close()

	ok, _, err := c.CheckRateLimit(context.Background(), "k", 0, time.Minute)
	if err != nil || !ok {
		t.Fatalf("limit<=0 应直接放行，ok=%v err=%v", ok, err)
	}
}

func TestCheckRateLimit_RedisDownReturnsError(t *testing.T) {
	c := newOfflineClient()
	defer c.Close()

	if _, _, err := c.CheckRateLimit(context.Background(), "k", 5, time.Minute); err == nil {
		t.Fatal("Redis 不可用时应返回错误，由调用方决定降级")
	}
}

func TestRetryAfterFrom(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		oldest time.Time
		want   time.Duration
	}{
		{now.Add(-40 * time.Second), 20 * time.Second},
		{now.Add(-59*time.Second - 800*time.Millisecond), time.Second},
		{now.Add(-2 * time.Minute), time.Second},
		{now, time.Minute},
	}
	for _, tt := range tests {
		if got := retryAfterFrom(tt.oldest, now, time.Minute); got != tt.want {
			t.Errorf("retryAfterFrom(%v) = %v，期望 %v", now.Sub(tt.oldest), got, tt.want)
		}
	}
}
