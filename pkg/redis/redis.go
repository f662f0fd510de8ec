package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"talleres-api/config"
)

// Client Redis 客户端封装
// 用于 Token 黑名单与登录 / 报名接口的速率限制
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ── Token 黑名单 ──

const (
	blacklistPrefix = "talleres:blacklist:"
	rateLimitPrefix = "talleres:ratelimit:"
)

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		c.logger.Warn("黑名单查询失败", zap.String("jti", jti), zap.Error(err))
		return false, err
	}
	return n > 0, nil
}

// ── 速率限制 ──

// CheckRateLimit 滑动窗口限流
// 有序集合记录窗口内已放行请求的时间戳；被拒绝的请求不计入窗口
// 拒绝时 retryAfter 为窗口内最早一次请求滑出窗口所需的时间
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error) {
	if limit <= 0 {
		return true, 0, nil
	}

	key = rateLimitPrefix + key
	now := time.Now()
	member := uuid.NewString()
	minScore := strconv.FormatInt(now.Add(-window).UnixMicro(), 10)

	var (
		card   *goredis.IntCmd
		oldest *goredis.ZSliceCmd
	)
	_, err = c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, key, "-inf", "("+minScore)
		pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixMicro()), Member: member})
		card = pipe.ZCard(ctx, key)
		oldest = pipe.ZRangeWithScores(ctx, key, 0, 0)
		pipe.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		c.logger.Warn("速率限制检查失败", zap.String("key", key), zap.Error(err))
		return false, 0, err
	}

	if card.Val() <= int64(limit) {
		return true, 0, nil
	}

	if err := c.rdb.ZRem(ctx, key, member).Err(); err != nil {
		c.logger.Warn("移除被拒绝的请求记录失败", zap.String("key", key), zap.Error(err))
	}
	retryAfter = window
	if zs := oldest.Val(); len(zs) > 0 {
		first := time.UnixMicro(int64(zs[0].Score))
		retryAfter = retryAfterFrom(first, now, window)
	}
	return false, retryAfter, nil
}

// retryAfterFrom 最早请求滑出窗口的剩余时间，至少 1 秒
func retryAfterFrom(oldest, now time.Time, window time.Duration) time.Duration {
	d := oldest.Add(window).Sub(now)
	if d < time.Second {
		return time.Second
	}
	return d.Round(time.Second)
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
