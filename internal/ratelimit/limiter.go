package ratelimit

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/config"
	apperrors "github.com/spec-kit/appointment-service/pkg/util"
)

// Limiter is a fixed-window request limiter backed by Redis, keyed by client
// IP and path. With Redis unreachable it fails open.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// NewLimiter builds a limiter.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, cfg: cfg, logger: logger}
}

// Handle enforces the limit for the current request.
func (l *Limiter) Handle(c *fiber.Ctx) error {
	if !l.cfg.Enabled || l.client == nil {
		return c.Next()
	}

	key := fmt.Sprintf("ratelimit:%s:%s", c.IP(), c.Path())
	ctx := c.Context()

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cfg.Window()).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	if count > int64(l.cfg.MaxRequests) {
		return apperrors.NewTooManyRequests("Too many requests")
	}
	return c.Next()
}
