package middlewares

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/microframe-dev/microframe/internal"
	redisconn "github.com/microframe-dev/microframe/pkg/redis"
)

// LimiterStore decides whether a request identified by key may proceed.
// Implementations must be safe for concurrent use.
type LimiterStore interface {
	// Allow reports whether the request is within the limit. When denied,
	// retryAfter hints how long the client should wait before retrying.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// KeyFunc derives the rate-limit key for a request.
type KeyFunc func(c internal.Context) string

// RateLimitConfig configures the rate limit middleware.
type RateLimitConfig struct {
	Store   LimiterStore
	KeyFunc KeyFunc
}

// RateLimitOption configures RateLimitConfig.
type RateLimitOption func(*RateLimitConfig)

// WithRateLimitKeyFunc sets a custom key derivation function.
// The default keys on the client IP (Context.RealIP).
func WithRateLimitKeyFunc(fn KeyFunc) RateLimitOption {
	return func(cfg *RateLimitConfig) {
		cfg.KeyFunc = fn
	}
}

// RateLimit returns middleware that throttles requests per key using the
// given store. Denied requests receive a 429 response with a Retry-After
// header. Store failures fail open: the request proceeds and the error is
// logged, so a rate-limit backend outage does not take the API down with it.
func RateLimit(store LimiterStore, opts ...RateLimitOption) internal.Middleware {
	if store == nil {
		panic("middlewares: RateLimit requires a non-nil store")
	}

	cfg := &RateLimitConfig{
		Store: store,
		KeyFunc: func(c internal.Context) string {
			return c.RealIP()
		},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context, p internal.Params) (any, error) {
			key := cfg.KeyFunc(c)
			if key == "" {
				return next(c, p)
			}

			allowed, retryAfter, err := cfg.Store.Allow(c, key)
			if err != nil {
				c.Logger().ErrorContext(c, "rate limit store failed", "error", err, "key", key)
				return next(c, p)
			}

			if !allowed {
				if retryAfter > 0 {
					secs := int(retryAfter.Round(time.Second) / time.Second)
					if secs < 1 {
						secs = 1
					}
					c.SetHeader("Retry-After", strconv.Itoa(secs))
				}
				return nil, internal.ErrTooManyRequests("rate limit exceeded",
					internal.WithErrorCode("rate_limited"))
			}

			return next(c, p)
		}
	}
}

// MemoryStore is an in-process token bucket limiter keyed per client.
// Suitable for single-instance deployments; use RedisStore when requests
// are balanced across instances.
type MemoryStore struct {
	mu       sync.Mutex
	limiters map[string]*memoryEntry
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type memoryEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewMemoryStore creates a token bucket store allowing rps requests per
// second with the given burst. Idle keys are evicted lazily after an hour.
func NewMemoryStore(rps float64, burst int) *MemoryStore {
	return &MemoryStore{
		limiters: make(map[string]*memoryEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
		lastSeen: time.Hour,
	}
}

// Allow implements LimiterStore.
func (s *MemoryStore) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.limiters[key]
	if !ok {
		// Piggyback eviction on misses to keep the map bounded without a
		// background goroutine.
		for k, e := range s.limiters {
			if now.Sub(e.seen) > s.lastSeen {
				delete(s.limiters, k)
			}
		}
		entry = &memoryEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[key] = entry
	}
	entry.seen = now

	if entry.limiter.Allow() {
		return true, 0, nil
	}

	res := entry.limiter.Reserve()
	retryAfter := res.Delay()
	res.Cancel()
	return false, retryAfter, nil
}

// RedisStore is a fixed-window limiter backed by Redis, shared across
// application instances.
type RedisStore struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
	prefix string
}

// RedisStoreOption configures RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisKeyPrefix sets the key prefix (default "ratelimit").
func WithRedisKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a fixed-window store allowing limit requests per
// window.
func NewRedisStore(client redis.UniversalClient, limit int64, window time.Duration, opts ...RedisStoreOption) *RedisStore {
	if client == nil {
		panic("middlewares: NewRedisStore requires a non-nil client")
	}
	if limit <= 0 {
		panic("middlewares: NewRedisStore requires a positive limit")
	}
	if window <= 0 {
		panic("middlewares: NewRedisStore requires a positive window")
	}

	s := &RedisStore{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewRedisStoreURL dials Redis through the redis package and wraps the
// client in a fixed-window store. The store owns the connection; retrieve
// it with Client to register health and shutdown hooks:
//
//	store, err := middlewares.NewRedisStoreURL(ctx, cfg.RedisURL, 100, time.Minute)
//	if err != nil {
//	    return err
//	}
//	app.Run(":8080", microframe.ShutdownHook(redisconn.Shutdown(store.Client())))
func NewRedisStoreURL(ctx context.Context, url string, limit int64, window time.Duration, opts ...RedisStoreOption) (*RedisStore, error) {
	client, err := redisconn.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(client, limit, window, opts...), nil
}

// Client exposes the store's underlying connection for readiness checks and
// shutdown hooks.
func (s *RedisStore) Client() redis.UniversalClient {
	return s.client
}

// Allow implements LimiterStore.
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	windowID := time.Now().UnixNano() / int64(s.window)
	redisKey := fmt.Sprintf("%s:%s:%d", s.prefix, key, windowID)

	// INCR and EXPIRE are pipelined so the key cannot leak without a TTL.
	var incr *redis.IntCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, s.window)
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	if incr.Val() > s.limit {
		elapsed := time.Duration(time.Now().UnixNano() % int64(s.window))
		return false, s.window - elapsed, nil
	}

	return true, 0, nil
}
