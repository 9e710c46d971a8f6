package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pizzastore/pizzastore/application/port/inbound"
	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type RateLimitConfig struct {
	Enabled  bool
	Backend  string
	RedisURL string
	// MaxKeys bounds the in-process backend.
	MaxKeys int
}

// redisRateLimitService keeps fixed-window counters and block markers in
// Redis so that limits hold across replicas.
type redisRateLimitService struct {
	client *redis.Client
	logger logger.Logger
}

// NewRateLimitService picks a backend from config. A disabled limiter allows
// everything.
func NewRateLimitService(config RateLimitConfig, log logger.Logger) (inbound.RateLimitService, error) {
	if !config.Enabled {
		log.Info(context.Background(), "Rate limiting disabled", nil)
		return NewNoopRateLimitService(), nil
	}

	switch config.Backend {
	case BackendMemory:
		log.Info(context.Background(), "Rate limiting uses in-process counters", map[string]interface{}{
			"max_keys": config.MaxKeys,
		})
		return NewLocalRateLimitService(config.MaxKeys, log), nil
	case BackendRedis:
	default:
		return nil, fmt.Errorf("unknown rate limit backend: %s", config.Backend)
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info(ctx, "Rate limiting service initialized", map[string]interface{}{
		"backend": BackendRedis,
		"addr":    opt.Addr,
	})
	return NewRedisRateLimitService(client, log), nil
}

func NewRedisRateLimitService(client *redis.Client, log logger.Logger) inbound.RateLimitService {
	return &redisRateLimitService{client: client, logger: log}
}

func (s *redisRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	current, err := s.GetAttempts(ctx, key)
	if err != nil {
		return false, err
	}

	underLimit := current < limit
	s.logger.Debug(ctx, "Rate limit check", map[string]interface{}{
		"key":         key,
		"current":     current,
		"limit":       limit,
		"under_limit": underLimit,
	})
	return underLimit, nil
}

// Increment bumps the counter. The window starts with the first hit and is
// not extended by later ones.
func (s *redisRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	incr := s.client.Incr(ctx, key)
	if err := incr.Err(); err != nil {
		s.logger.Error(ctx, "Failed to increment rate limit counter", err, map[string]interface{}{"key": key})
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if incr.Val() == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			s.logger.Error(ctx, "Failed to set rate limit window", err, map[string]interface{}{"key": key})
			return fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	s.logger.Debug(ctx, "Rate limit incremented", map[string]interface{}{
		"key":    key,
		"count":  incr.Val(),
		"window": window.String(),
	})
	return nil
}

func (s *redisRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := blockedKey(key)

	pipeline := s.client.TxPipeline()
	pipeline.HSet(ctx, blockKey, map[string]interface{}{
		"reason":         reason,
		"blocked_at":     time.Now().Unix(),
		"duration":       duration.Seconds(),
		"correlation_id": logger.CorrelationID(ctx),
	})
	pipeline.Expire(ctx, blockKey, duration)

	if _, err := pipeline.Exec(ctx); err != nil {
		s.logger.Error(ctx, "Failed to block key", err, map[string]interface{}{"key": key})
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.logger.Warn(ctx, "Key blocked due to rate limit exceeded", map[string]interface{}{
		"key":      key,
		"duration": duration.String(),
		"reason":   reason,
	})
	return nil
}

func (s *redisRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, blockedKey(key)).Result()
	if err != nil {
		s.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"key": key})
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

func (s *redisRateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		s.logger.Error(ctx, "Failed to get attempts count", err, map[string]interface{}{"key": key})
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count, nil
}

func blockedKey(key string) string {
	return "blocked:" + key
}

type noopRateLimitService struct{}

func NewNoopRateLimitService() inbound.RateLimitService {
	return noopRateLimitService{}
}

func (noopRateLimitService) CheckLimit(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}

func (noopRateLimitService) Increment(context.Context, string, time.Duration) error {
	return nil
}

func (noopRateLimitService) Block(context.Context, string, time.Duration, string) error {
	return nil
}

func (noopRateLimitService) IsBlocked(context.Context, string) (bool, error) {
	return false, nil
}

func (noopRateLimitService) GetAttempts(context.Context, string) (int, error) {
	return 0, nil
}
