package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webinara/webinara-backend/internal/http/response"
	"github.com/webinara/webinara-backend/internal/observability"
	"github.com/webinara/webinara-backend/internal/security"
)

// Decision is one limiter verdict.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts hits per key over a fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// FailureMode decides what a limiter backend outage means for traffic.
type FailureMode string

const (
	// FailOpen lets requests through when the backend is unreachable. Used
	// for the broad API limiter, where availability beats strictness.
	FailOpen FailureMode = "fail_open"
	// FailClosed rejects when the backend is unreachable. Used on the auth
	// endpoints, where the limiter is part of the brute-force defense.
	FailClosed FailureMode = "fail_closed"
)

type localWindow struct {
	count   int
	resetAt time.Time
}

// LocalLimiter is the in-process fixed-window limiter for single-node runs
// and tests.
type LocalLimiter struct {
	mu      sync.Mutex
	windows map[string]*localWindow
}

func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{windows: make(map[string]*localWindow)}
}

func (l *LocalLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.windows[key]
	if !ok || now.After(state.resetAt) {
		state = &localWindow{resetAt: now.Add(window)}
		l.windows[key] = state
		// Opportunistic cleanup of stale windows.
		for k, v := range l.windows {
			if now.After(v.resetAt.Add(window)) {
				delete(l.windows, k)
			}
		}
	}
	if state.count >= limit {
		return Decision{Allowed: false, RetryAfter: state.resetAt.Sub(now)}, nil
	}
	state.count++
	return Decision{Allowed: true, Remaining: limit - state.count}, nil
}

// RedisLimiter shares the window counters across instances: INCR plus an
// EXPIRE set on the first hit of each window.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLimiter(client redis.UniversalClient, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return Decision{}, err
		}
	}
	if count > int64(limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: limit - int(count)}, nil
}

// RateLimit builds the middleware for one scope. Keys are client IPs.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration, mode FailureMode, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + security.ClientIP(r)
			decision, err := limiter.Allow(r.Context(), key, limit, window)
			if err != nil {
				observability.RecordRateLimitDecision(r.Context(), scope, "backend_error", string(mode))
				if mode == FailOpen {
					logger.WarnContext(r.Context(), "rate limiter backend unavailable, allowing request", "scope", scope, "error", err)
					next.ServeHTTP(w, r)
					return
				}
				w.Header().Set("Retry-After", retryAfterSeconds(window))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			if !decision.Allowed {
				observability.RecordRateLimitDecision(r.Context(), scope, "deny", string(mode))
				w.Header().Set("Retry-After", retryAfterSeconds(decision.RetryAfter))
				response.Error(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests", nil)
				return
			}
			observability.RecordRateLimitDecision(r.Context(), scope, "allow", string(mode))
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) string {
	seconds := int(d.Round(time.Second).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("%d", seconds)
}
