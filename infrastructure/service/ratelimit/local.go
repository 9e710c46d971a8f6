package ratelimit

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/pizzastore/pizzastore/infrastructure/service/logger"
)

const (
	defaultMaxKeys = 10000
	// maxEntryTTL caps how long an idle counter or block survives in memory.
	maxEntryTTL = 24 * time.Hour
)

type counter struct {
	count   int
	resetAt time.Time
}

// LocalRateLimitService is the single-process counterpart of the Redis
// backend. Counters live in a bounded LRU; the least recently used keys are
// evicted first when it is full.
type LocalRateLimitService struct {
	mu       sync.Mutex
	counters *lru.LRU[string, *counter]
	blocks   *lru.LRU[string, time.Time]
	logger   logger.Logger
	now      func() time.Time
}

func NewLocalRateLimitService(maxKeys int, log logger.Logger) *LocalRateLimitService {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	return &LocalRateLimitService{
		counters: lru.NewLRU[string, *counter](maxKeys, nil, maxEntryTTL),
		blocks:   lru.NewLRU[string, time.Time](maxKeys, nil, maxEntryTTL),
		logger:   log,
		now:      time.Now,
	}
}

func (s *LocalRateLimitService) CheckLimit(ctx context.Context, key string, limit int, _ time.Duration) (bool, error) {
	current, _ := s.GetAttempts(ctx, key)
	return current < limit, nil
}

func (s *LocalRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters.Get(key)
	if !ok || !now.Before(c.resetAt) {
		c = &counter{resetAt: now.Add(window)}
		s.counters.Add(key, c)
	}
	c.count++

	s.logger.Debug(ctx, "Rate limit incremented", map[string]interface{}{
		"key":   key,
		"count": c.count,
	})
	return nil
}

func (s *LocalRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	s.mu.Lock()
	s.blocks.Add(key, s.now().Add(duration))
	s.mu.Unlock()

	s.logger.Warn(ctx, "Key blocked due to rate limit exceeded", map[string]interface{}{
		"key":      key,
		"duration": duration.String(),
		"reason":   reason,
	})
	return nil
}

func (s *LocalRateLimitService) IsBlocked(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.blocks.Get(key)
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		s.blocks.Remove(key)
		return false, nil
	}
	return true, nil
}

func (s *LocalRateLimitService) GetAttempts(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters.Get(key)
	if !ok || !s.now().Before(c.resetAt) {
		return 0, nil
	}
	return c.count, nil
}

// IPThrottle is a token bucket per client address, used as a coarse request
// rate limit in front of the whole API.
type IPThrottle struct {
	visitors *lru.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

func NewIPThrottle(perSecond float64, burst, cacheSize int, idleTTL time.Duration) *IPThrottle {
	if cacheSize <= 0 {
		cacheSize = defaultMaxKeys
	}
	return &IPThrottle{
		visitors: lru.NewLRU[string, *rate.Limiter](cacheSize, nil, idleTTL),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (t *IPThrottle) Allow(ip string) bool {
	t.mu.Lock()
	lim, found := t.visitors.Get(ip)
	if !found {
		lim = rate.NewLimiter(t.limit, t.burst)
		t.visitors.Add(ip, lim)
	}
	t.mu.Unlock()
	return lim.Allow()
}
